package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/certflow/certflow/pkg/certflow/model"
)

const expiryTemplateText = `<!DOCTYPE html>
<html>
<body style="font-family: Segoe UI, Arial, sans-serif;">
<h2>Certificate expiring in {{.Days}} day{{if ne .Days 1}}s{{end}}</h2>
<table cellpadding="4">
<tr><td><b>Common name</b></td><td>{{.Cert.CommonName}}</td></tr>
<tr><td><b>Subject</b></td><td>{{.Cert.Subject}}</td></tr>
<tr><td><b>Serial number</b></td><td>{{.Cert.SerialNumber}}</td></tr>
<tr><td><b>Thumbprint</b></td><td>{{.Cert.Thumbprint}}</td></tr>
<tr><td><b>Issuer</b></td><td>{{.Cert.Issuer}}</td></tr>
<tr><td><b>Issuing CA</b></td><td>{{.Cert.CA.Name}}</td></tr>
{{- if .Cert.TemplateName}}
<tr><td><b>Template</b></td><td>{{.Cert.TemplateName}}</td></tr>
{{- end}}
<tr><td><b>Expires</b></td><td>{{.ValidTo}}</td></tr>
</table>
{{- if .Cert.DeployedTo}}
<p>Deployed to:</p>
<ul>
{{- range .Cert.DeployedTo}}
<li>{{.Server.Name}} ({{.Server.Hostname}}){{if .Binding}} - {{.Binding.Site}}:{{.Binding.Port}}{{end}}</li>
{{- end}}
</ul>
{{- end}}
<p>Renew the certificate before it expires to avoid service interruption.</p>
</body>
</html>
`

const testTemplateText = `<!DOCTYPE html>
<html>
<body style="font-family: Segoe UI, Arial, sans-serif;">
<h2>certflow test notification</h2>
<p>This message was sent at {{.}} to verify the mail configuration.</p>
</body>
</html>
`

var expiryTemplate = template.Must(template.New("expiry").Parse(expiryTemplateText))
var testTemplate = template.Must(template.New("test").Parse(testTemplateText))

type expiryData struct {
	Days    int
	Cert    model.Certificate
	ValidTo string
}

func renderExpiry(prefix string, days int, cert model.Certificate) (subject string, body string, err error) {
	buf := bytes.Buffer{}
	data := expiryData{
		Days:    days,
		Cert:    cert,
		ValidTo: time.Unix(cert.ValidTo, 0).UTC().Format("2006-01-02 15:04:05 MST"),
	}
	if err := expiryTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}

	name := cert.CommonName
	if name == "" {
		name = cert.SerialNumber
	}
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	subject = fmt.Sprintf("Certificate %s expires in %d %s", name, days, unit)
	if prefix != "" {
		subject = prefix + " " + subject
	}
	return subject, buf.String(), nil
}

func renderTest(ts time.Time) (string, error) {
	buf := bytes.Buffer{}
	if err := testTemplate.Execute(&buf, ts.UTC().Format(time.RFC1123)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package cert_sync

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/certflow/certflow/pkg/certflow/input_validator"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/goccy/go-json"
)

// IssuedCertificateRecord is one entry printed by the list-issued-certificates script.
type IssuedCertificateRecord struct {
	SerialNumber string    `json:"serialNumber"`
	Thumbprint   string    `json:"thumbprint"`
	CommonName   string    `json:"commonName"`
	Subject      string    `json:"subject"`
	Issuer       string    `json:"issuer"`
	TemplateName string    `json:"templateName"`
	RequestID    string    `json:"requestId"`
	Requester    string    `json:"requester"`
	NotBefore    time.Time `json:"notBefore"`
	NotAfter     time.Time `json:"notAfter"`
	Revoked      bool      `json:"revoked"`
}

// ParseIssuedCertificates decodes the script output. ConvertTo-Json prints a bare object for a
// single result and nothing at all for none, so both forms are accepted.
func ParseIssuedCertificates(raw string) ([]IssuedCertificateRecord, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return nil, nil
	}

	var records []IssuedCertificateRecord
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), model.ErrMalformedCAOutput)
		}
	case '{':
		var record IssuedCertificateRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), model.ErrMalformedCAOutput)
		}
		records = append(records, record)
	default:
		return nil, fmt.Errorf("unexpected output %q: %w", truncate(string(data), 64), model.ErrMalformedCAOutput)
	}

	for i := range records {
		r := &records[i]
		r.SerialNumber = strings.ToLower(strings.TrimSpace(r.SerialNumber))
		r.Thumbprint = strings.ToUpper(strings.TrimSpace(r.Thumbprint))
		if r.SerialNumber == "" || !input_validator.IsValidThumbprint(r.SerialNumber) {
			return nil, fmt.Errorf("record %d: invalid serial number %q: %w", i, r.SerialNumber, model.ErrMalformedCAOutput)
		}
		if r.Thumbprint == "" || !input_validator.IsValidThumbprint(r.Thumbprint) {
			return nil, fmt.Errorf("record %d: invalid thumbprint %q: %w", i, r.Thumbprint, model.ErrMalformedCAOutput)
		}
		if r.NotAfter.IsZero() || r.NotAfter.Before(r.NotBefore) {
			return nil, fmt.Errorf("record %d: invalid validity window: %w", i, model.ErrMalformedCAOutput)
		}
	}
	return records, nil
}

// ParseTemplates decodes the list-ca-templates output, a JSON array of names or a single name.
func ParseTemplates(raw string) ([]string, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 {
		return []string{}, nil
	}

	var templates []string
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), model.ErrMalformedCAOutput)
		}
		templates = []string{name}
	} else if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), model.ErrMalformedCAOutput)
	}

	result := make([]string, 0, len(templates))
	for _, t := range templates {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !input_validator.IsValidTemplateName(t) {
			return nil, fmt.Errorf("invalid template name %q: %w", t, model.ErrMalformedCAOutput)
		}
		result = append(result, t)
	}
	return result, nil
}

// ToCertificate builds the document written on first sight of the certificate. Fields owned by
// other components are initialized here and left alone by later syncs.
func (r IssuedCertificateRecord) ToCertificate(ca model.CertificateAuthority, ts int64) model.Certificate {
	validTo := r.NotAfter.Unix()
	status := model.DeriveStatus(model.CertStatusActive, validTo, ts)
	if r.Revoked {
		status = model.CertStatusRevoked
	}
	commonName := r.CommonName
	if commonName == "" {
		commonName = commonNameFromSubject(r.Subject)
	}

	return model.Certificate{
		SerialNumber:      r.SerialNumber,
		Thumbprint:        r.Thumbprint,
		Status:            status,
		CommonName:        commonName,
		Subject:           r.Subject,
		Issuer:            r.Issuer,
		TemplateName:      r.TemplateName,
		CARequestID:       r.RequestID,
		Requester:         r.Requester,
		CA:                ca.Ref(),
		ValidFrom:         r.NotBefore.Unix(),
		ValidTo:           validTo,
		DeployedTo:        []model.Deployment{},
		NotificationsSent: []model.NotificationRecord{},
		Metadata: model.CertMetadata{
			DiscoveredAt: ts,
			LastSyncedAt: ts,
		},
	}
}

func commonNameFromSubject(subject string) string {
	for _, part := range strings.Split(subject, ",") {
		part = strings.TrimSpace(part)
		if len(part) > 3 && strings.EqualFold(part[:3], "CN=") {
			return part[3:]
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package csr_workflow_test

import (
	"testing"

	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSubjectLine(t *testing.T) {
	subject, err := csr_workflow.BuildSubjectLine(model.CertificateRequest{CommonName: "web01.contoso.com"})
	require.NoError(t, err)
	assert.Equal(t, "CN=web01.contoso.com", subject)

	subject, err = csr_workflow.BuildSubjectLine(model.CertificateRequest{
		CommonName:         "web01.contoso.com",
		Organization:       "Contoso Ltd.",
		OrganizationalUnit: "IT",
		Locality:           "Redmond",
		State:              "WA",
		Country:            "US",
	})
	require.NoError(t, err)
	assert.Equal(t, "CN=web01.contoso.com, O=Contoso Ltd., OU=IT, L=Redmond, S=WA, C=US", subject)

	subject, err = csr_workflow.BuildSubjectLine(model.CertificateRequest{CommonName: "web01", Country: "US"})
	require.NoError(t, err)
	assert.Equal(t, "CN=web01, C=US", subject)

	_, err = csr_workflow.BuildSubjectLine(model.CertificateRequest{Organization: "Contoso"})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = csr_workflow.BuildSubjectLine(model.CertificateRequest{CommonName: "web01", Organization: "Contoso'; Remove-Item"})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestBuildSANBlock(t *testing.T) {
	block, err := csr_workflow.BuildSANBlock(nil)
	require.NoError(t, err)
	assert.Empty(t, block)

	block, err = csr_workflow.BuildSANBlock([]string{"web01.contoso.com"})
	require.NoError(t, err)
	assert.Equal(t, "dns=web01.contoso.com", block)

	block, err = csr_workflow.BuildSANBlock([]string{"web01.contoso.com", "*.contoso.com", "web01"})
	require.NoError(t, err)
	assert.Equal(t, "dns=web01.contoso.com&dns=*.contoso.com&dns=web01", block)

	_, err = csr_workflow.BuildSANBlock([]string{"web01.contoso.com", "a&dns=evil.com"})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestParseGenerateOutput(t *testing.T) {
	csrPEM := newCSRPEM(t, "web01.contoso.com")

	out, err := csr_workflow.ParseGenerateOutput("\r\n" + generateOutput(t, csrPEM) + "\r\n")
	require.NoError(t, err)
	assert.Equal(t, csrPEM, out.CSRPEM)
	assert.Equal(t, `Cert:\LocalMachine\REQUEST`, out.PrivateKeyLocation)

	_, err = csr_workflow.ParseGenerateOutput("WARNING: something")
	assert.ErrorIs(t, err, model.ErrMalformedCommandOutput)

	_, err = csr_workflow.ParseGenerateOutput(`{"privateKeyLocation":"x"}`)
	assert.ErrorIs(t, err, model.ErrMalformedCommandOutput)

	_, err = csr_workflow.ParseGenerateOutput(`{"csrPem":"-----BEGIN CERTIFICATE REQUEST-----\nAAAA\n-----END CERTIFICATE REQUEST-----\n"}`)
	assert.ErrorIs(t, err, model.ErrMalformedCommandOutput)
}

func TestParseSubmitOutput(t *testing.T) {
	out, err := csr_workflow.ParseSubmitOutput(`{"requestId":"42","disposition":"Issued"}`)
	require.NoError(t, err)
	assert.Equal(t, "42", out.RequestID)

	out, err = csr_workflow.ParseSubmitOutput(`{"requestId":"43","disposition":"pending","message":"Taken Under Submission"}`)
	require.NoError(t, err)
	assert.Equal(t, "43", out.RequestID)

	_, err = csr_workflow.ParseSubmitOutput(`{"requestId":"44","disposition":"denied","message":"Denied by Policy Module"}`)
	assert.ErrorIs(t, err, model.ErrGateway)
	assert.Contains(t, err.Error(), "Denied by Policy Module")

	_, err = csr_workflow.ParseSubmitOutput(`{"disposition":"issued"}`)
	assert.ErrorIs(t, err, model.ErrMalformedCAOutput)

	_, err = csr_workflow.ParseSubmitOutput(`{"requestId":"45","disposition":"whatever"}`)
	assert.ErrorIs(t, err, model.ErrMalformedCAOutput)

	_, err = csr_workflow.ParseSubmitOutput(`not json`)
	assert.ErrorIs(t, err, model.ErrMalformedCAOutput)
}

func TestValidateCSRFields(t *testing.T) {
	valid := model.CertificateRequest{
		CommonName:              "web01.contoso.com",
		SubjectAlternativeNames: []string{"web01.contoso.com"},
		KeySize:                 2048,
		KeyAlgorithm:            model.KeyAlgorithmRSA,
		HashAlgorithm:           model.HashAlgorithmSHA256,
		TemplateName:            "WebServer",
	}
	assert.NoError(t, csr_workflow.ValidateCSRFields(valid))

	cases := map[string]func(r *model.CertificateRequest){
		"missing common name":  func(r *model.CertificateRequest) { r.CommonName = "" },
		"injected common name": func(r *model.CertificateRequest) { r.CommonName = "web01'; Stop-Computer" },
		"SHA1":                 func(r *model.CertificateRequest) { r.HashAlgorithm = model.HashAlgorithmSHA1 },
		"key size":             func(r *model.CertificateRequest) { r.KeySize = 1024 },
		"key algorithm":        func(r *model.CertificateRequest) { r.KeyAlgorithm = "DSA" },
		"empty SAN":            func(r *model.CertificateRequest) { r.SubjectAlternativeNames = []string{""} },
		"bad SAN":              func(r *model.CertificateRequest) { r.SubjectAlternativeNames = []string{"a b"} },
		"bad template":         func(r *model.CertificateRequest) { r.TemplateName = "Web$Server" },
		"bad target server": func(r *model.CertificateRequest) {
			r.TargetServer = &model.ServerRef{ID: "srv", Hostname: "web01;calc"}
		},
	}
	for name, mutate := range cases {
		r := valid
		mutate(&r)
		assert.ErrorIs(t, csr_workflow.ValidateCSRFields(r), model.ErrInvalidParameter, name)
	}
}

package csr_workflow_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	x509pkix "crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/certflow/certflow/pkg/certflow/csr_workflow"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func newCSRPEM(t *testing.T, commonName string) string {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
		Subject: x509pkix.Name{CommonName: commonName},
	}, key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: der}))
}

func newCertificatePEM(t *testing.T, commonName string, serial int64) (string, *x509.Certificate) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      x509pkix.Name{CommonName: commonName},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})), cert
}

func generateOutput(t *testing.T, csrPEM string) string {
	raw, err := json.Marshal(csr_workflow.GenerateOutput{CSRPEM: csrPEM, PrivateKeyLocation: `Cert:\LocalMachine\REQUEST`})
	require.NoError(t, err)
	return string(raw)
}

func submitOutput(t *testing.T, out csr_workflow.SubmitOutput) string {
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	return string(raw)
}

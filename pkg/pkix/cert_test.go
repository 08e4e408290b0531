package pkix_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	gopkix "crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/certflow/certflow/pkg/pkix"
	"github.com/stretchr/testify/suite"
)

type CertTestSuite struct {
	suite.Suite

	certPEM []byte
	csrPEM  []byte
}

func TestCertTestSuite(t *testing.T) {
	suite.Run(t, new(CertTestSuite))
}

func (s *CertTestSuite) SetupSuite() {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	s.Require().NoError(err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(0x1a2b),
		Subject:      gopkix.Name{CommonName: "test.example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	s.Require().NoError(err)
	s.certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})

	csrDER, err := x509.CreateCertificateRequest(rand.Reader, &x509.CertificateRequest{
		Subject:  gopkix.Name{CommonName: "test.example.com"},
		DNSNames: []string{"www.example.com"},
	}, key)
	s.Require().NoError(err)
	s.csrPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: csrDER})
}

func (s *CertTestSuite) TestParseCertificate() {
	chain := append(append([]byte{}, s.certPEM...), s.certPEM...)
	certs, err := pkix.ParseCertificate(chain)
	s.Require().NoError(err)
	s.Len(certs, 2)
	s.Equal("test.example.com", certs[0].Subject.CommonName)

	certs, err = pkix.ParseCertificate(append(append([]byte{}, s.certPEM...), '\n', '\n'))
	s.Require().NoError(err)
	s.Len(certs, 1)

	_, err = pkix.ParseCertificate([]byte("not a certificate"))
	s.Error(err)
}

func (s *CertTestSuite) TestParseCertificateRequest() {
	csr, err := pkix.ParseCertificateRequest(s.csrPEM)
	s.Require().NoError(err)
	s.Equal("test.example.com", csr.Subject.CommonName)
	s.Equal([]string{"www.example.com"}, csr.DNSNames)

	_, err = pkix.ParseCertificateRequest(s.certPEM)
	s.Error(err)
	_, err = pkix.ParseCertificateRequest([]byte("garbage"))
	s.Error(err)
}

func (s *CertTestSuite) TestThumbprintAndSerial() {
	certs, err := pkix.ParseCertificate(s.certPEM)
	s.Require().NoError(err)

	thumbprint := pkix.Thumbprint(&certs[0])
	s.Len(thumbprint, 40)
	s.Regexp(`^[0-9A-F]+$`, thumbprint)
	s.Equal("1a2b", pkix.SerialNumber(&certs[0]))
}

package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/certflow/certflow/pkg/certflow/storage/memory"
	"github.com/stretchr/testify/suite"
)

type MemoryStorageTestSuite struct {
	suite.Suite

	ctx     context.Context
	storage *memory.Storage
	tx      storage.Tx
}

func TestMemoryStorage(t *testing.T) {
	suite.Run(t, new(MemoryStorageTestSuite))
}

func (s *MemoryStorageTestSuite) SetupTest() {
	s.storage = memory.NewStorage()
	tx, ctx, err := s.storage.CreateTx(context.Background(), storage.TxOptionWithWrite(true))
	s.Require().NoError(err)
	s.tx = tx
	s.ctx = ctx
}

func (s *MemoryStorageTestSuite) TestCSRVersioning() {
	csr := model.CertificateRequest{ID: "csr-1", Version: 1, Status: model.CSRStatusDraft, CommonName: "web01.corp.local"}
	s.Require().NoError(s.storage.AddCSR(s.ctx, s.tx, csr))
	s.ErrorIs(s.storage.AddCSR(s.ctx, s.tx, csr), model.ErrVersionMismatch)

	stale := csr
	stale.Version = 3
	s.ErrorIs(s.storage.UpdateCSR(s.ctx, s.tx, stale), model.ErrVersionMismatch)

	next := csr
	next.Version = 2
	next.Status = model.CSRStatusSubmitted
	s.Require().NoError(s.storage.UpdateCSR(s.ctx, s.tx, next))

	// Returned documents are copies.
	got, err := s.storage.GetCSR(s.ctx, s.tx, "csr-1")
	s.Require().NoError(err)
	got.CommonName = "changed"
	got, err = s.storage.GetCSR(s.ctx, s.tx, "csr-1")
	s.Require().NoError(err)
	s.Equal("web01.corp.local", got.CommonName)

	s.ErrorIs(s.storage.DeleteCSR(s.ctx, s.tx, "csr-1", 2), model.ErrVersionMismatch)

	_, err = s.storage.GetCSR(s.ctx, s.tx, "missing")
	s.ErrorIs(err, model.ErrCSRNotFound)
}

func (s *MemoryStorageTestSuite) TestListCSRs() {
	for i, status := range []model.CSRStatus{model.CSRStatusDraft, model.CSRStatusPending, model.CSRStatusDraft} {
		csr := model.CertificateRequest{ID: string(rune('a' + i)), Version: 1, Status: status}
		s.Require().NoError(s.storage.AddCSR(s.ctx, s.tx, csr))
	}

	result, err := s.storage.ListCSRs(s.ctx, s.tx, storage.ListCSRsRequest{Limit: 1, Statuses: []model.CSRStatus{model.CSRStatusDraft}})
	s.Require().NoError(err)
	s.EqualValues(2, result.Total)
	s.Require().Len(result.CSRs, 1)
	s.Equal("a", result.CSRs[0].ID)

	result, err = s.storage.ListCSRs(s.ctx, s.tx, storage.ListCSRsRequest{Offset: 1, Limit: 10, Statuses: []model.CSRStatus{model.CSRStatusDraft}})
	s.Require().NoError(err)
	s.Require().Len(result.CSRs, 1)
	s.Equal("c", result.CSRs[0].ID)

	s.Require().NoError(s.storage.DeleteCSR(s.ctx, s.tx, "a", 1))
	result, err = s.storage.ListCSRs(s.ctx, s.tx, storage.ListCSRsRequest{Limit: 10})
	s.Require().NoError(err)
	s.EqualValues(2, result.Total)
}

func (s *MemoryStorageTestSuite) TestUpsertKeepsOwnedFields() {
	cert := model.Certificate{SerialNumber: "0a01", Status: model.CertStatusActive, ValidTo: 2000, Metadata: model.CertMetadata{DiscoveredAt: 100, LastSyncedAt: 100}}
	inserted, err := s.storage.UpsertSyncedCertificate(s.ctx, s.tx, cert)
	s.Require().NoError(err)
	s.True(inserted)

	ok, err := s.storage.AppendNotificationSent(s.ctx, s.tx, "0a01", model.NotificationRecord{Type: "30day", SentAt: 150})
	s.Require().NoError(err)
	s.True(ok)

	cert.Status = model.CertStatusExpired
	cert.Issuer = "CN=Corp Issuing CA"
	cert.Metadata = model.CertMetadata{DiscoveredAt: 200, LastSyncedAt: 200}
	inserted, err = s.storage.UpsertSyncedCertificate(s.ctx, s.tx, cert)
	s.Require().NoError(err)
	s.False(inserted)

	stored, ok := s.storage.Certificate("0a01")
	s.Require().True(ok)
	s.Equal(model.CertStatusActive, stored.Status)
	s.Equal("CN=Corp Issuing CA", stored.Issuer)
	s.EqualValues(100, stored.Metadata.DiscoveredAt)
	s.EqualValues(200, stored.Metadata.LastSyncedAt)
	s.Len(stored.NotificationsSent, 1)
}

func (s *MemoryStorageTestSuite) TestListCertificatesFilters() {
	s.storage.PutCertificate(model.Certificate{SerialNumber: "01", Status: model.CertStatusActive, ValidTo: 1000})
	s.storage.PutCertificate(model.Certificate{SerialNumber: "02", Status: model.CertStatusExpiring, ValidTo: 2000, NotificationsSent: []model.NotificationRecord{{Type: "7day"}}})
	s.storage.PutCertificate(model.Certificate{SerialNumber: "03", Status: model.CertStatusRevoked, ValidTo: 2000})
	s.storage.PutCertificate(model.Certificate{SerialNumber: "04", Status: model.CertStatusExpiring, ValidTo: 3000})

	serials := func(req storage.ListCertificatesRequest) []string {
		result, err := s.storage.ListCertificates(s.ctx, s.tx, req)
		s.Require().NoError(err)
		out := make([]string, 0, len(result.Certs))
		for _, c := range result.Certs {
			out = append(out, c.SerialNumber)
		}
		return out
	}

	s.Equal([]string{"02", "03", "04"}, serials(storage.ListCertificatesRequest{ValidToFrom: 2000}))
	s.Equal([]string{"01", "02", "03"}, serials(storage.ListCertificatesRequest{ValidToUntil: 2000}))
	s.Equal([]string{"01", "02", "04"}, serials(storage.ListCertificatesRequest{ExcludeStatuses: []model.CertStatus{model.CertStatusRevoked}}))
	s.Equal([]string{"02", "04"}, serials(storage.ListCertificatesRequest{Statuses: []model.CertStatus{model.CertStatusExpiring}}))
	s.Equal([]string{"01", "03", "04"}, serials(storage.ListCertificatesRequest{WithoutNotification: "7day"}))
	s.Equal([]string{"04"}, serials(storage.ListCertificatesRequest{SerialNumbers: []string{"04"}}))
}

func (s *MemoryStorageTestSuite) TestGuardedWrites() {
	s.storage.PutCertificate(model.Certificate{SerialNumber: "01", Status: model.CertStatusActive})

	ok, err := s.storage.UpdateCertificateStatus(s.ctx, s.tx, "01", model.CertStatusExpiring, model.CertStatusExpired)
	s.Require().NoError(err)
	s.False(ok)
	ok, err = s.storage.UpdateCertificateStatus(s.ctx, s.tx, "01", model.CertStatusActive, model.CertStatusExpiring)
	s.Require().NoError(err)
	s.True(ok)

	record := model.NotificationRecord{Type: "7day", SentAt: 10, Recipients: []string{"ops@corp.local"}}
	ok, err = s.storage.AppendNotificationSent(s.ctx, s.tx, "01", record)
	s.Require().NoError(err)
	s.True(ok)
	ok, err = s.storage.AppendNotificationSent(s.ctx, s.tx, "01", record)
	s.Require().NoError(err)
	s.False(ok)
	ok, err = s.storage.AppendNotificationSent(s.ctx, s.tx, "missing", record)
	s.Require().NoError(err)
	s.False(ok)
	_, err = s.storage.AppendNotificationSent(s.ctx, s.tx, "01", model.NotificationRecord{})
	s.Error(err)
}

func (s *MemoryStorageTestSuite) TestLoadSeedFile() {
	seed := `{
  "authorities": [
    {"id": "ca-1", "name": "Corp Issuing CA", "config_string": "ca01.corp.local\\Corp Issuing CA", "sync_enabled": true},
    {"id": "ca-2", "name": "Lab CA", "sync_enabled": false}
  ],
  "servers": [{"id": "srv-1", "name": "web01", "hostname": "web01.corp.local"}],
  "users": [
    {"username": "Alice", "email": "alice@corp.local", "role": "admin", "active": true},
    {"username": "bob", "email": "bob@corp.local", "role": "admin", "active": false}
  ],
  "notification_config": {"enabled": true, "thresholds": [{"days": 7, "enabled": true}], "recipients": {"roles": ["admin"]}}
}`
	path := filepath.Join(s.T().TempDir(), "seed.json")
	s.Require().NoError(os.WriteFile(path, []byte(seed), 0o600))
	s.Require().NoError(s.storage.LoadSeedFile(path))

	cas, err := s.storage.ListAuthorities(s.ctx, s.tx, storage.ListAuthoritiesRequest{SyncEnabledOnly: true})
	s.Require().NoError(err)
	s.Require().Len(cas, 1)
	s.Equal(`ca01.corp.local\Corp Issuing CA`, cas[0].ConfigString)

	server, err := s.storage.GetServer(s.ctx, s.tx, "srv-1")
	s.Require().NoError(err)
	s.Equal("web01.corp.local", server.Hostname)

	user, err := s.storage.FindUserByUsername(s.ctx, s.tx, "alice")
	s.Require().NoError(err)
	s.Equal("alice@corp.local", user.Email)
	_, err = s.storage.FindUserByUsername(s.ctx, s.tx, "bob")
	s.ErrorIs(err, model.ErrUserNotFound)

	admins, err := s.storage.ListUsersByRole(s.ctx, s.tx, "admin")
	s.Require().NoError(err)
	s.Len(admins, 1)

	cfg, err := s.storage.GetNotificationConfig(s.ctx, s.tx)
	s.Require().NoError(err)
	s.True(cfg.Enabled)
	s.Equal([]string{"admin"}, cfg.Recipients.Roles)
}

func (s *MemoryStorageTestSuite) TestLoadSeedFileErrors() {
	s.Error(s.storage.LoadSeedFile(filepath.Join(s.T().TempDir(), "absent.json")))

	path := filepath.Join(s.T().TempDir(), "broken.json")
	s.Require().NoError(os.WriteFile(path, []byte("{"), 0o600))
	s.Error(s.storage.LoadSeedFile(path))
}

// Package memory provides a thread-safe in-memory implementation of the certflow storage
// interfaces. Suitable for testing, demos and single-process use.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/goccy/go-json"
)

var ErrUnsupported = errors.New("raw queries are not supported by the memory storage")

type Storage struct {
	mu sync.RWMutex

	csrs     map[string]model.CertificateRequest
	csrOrder []string

	certs     map[string]model.Certificate
	certOrder []string

	authorities map[string]model.CertificateAuthority
	servers     map[string]model.Server
	users       map[string]model.User
	config      model.NotificationConfig
}

var _ storage.CSRStorage = (*Storage)(nil)
var _ storage.CertificateSyncStorage = (*Storage)(nil)
var _ storage.NotificationStorage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{
		csrs:        make(map[string]model.CertificateRequest),
		certs:       make(map[string]model.Certificate),
		authorities: make(map[string]model.CertificateAuthority),
		servers:     make(map[string]model.Server),
		users:       make(map[string]model.User),
	}
}

// clone copies a document through its JSON form, the same way a document store would.
func clone[T any](v T) T {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

type tx struct{}

func (tx) Commit(ctx context.Context) error   { return nil }
func (tx) Rollback(ctx context.Context) error { return nil }
func (tx) Exec(ctx context.Context, sql string, arguments ...any) (storage.Result, error) {
	return nil, ErrUnsupported
}
func (tx) Query(ctx context.Context, sql string, args ...any) (storage.Rows, error) {
	return nil, ErrUnsupported
}
func (tx) QueryRow(ctx context.Context, sql string, args ...any) storage.Row { return errRow{} }

type errRow struct{}

func (errRow) Scan(dest ...any) error { return ErrUnsupported }

// CreateTx returns a no-op transaction. Every single call is atomic on its own. Like a database
// pool it refuses to begin a transaction on a context that is already done.
func (s *Storage) CreateTx(ctx context.Context, options ...storage.CreateTxOption) (storage.Tx, context.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, ctx, err
	}
	opts := sql.TxOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	t := tx{}
	return t, context.WithValue(ctx, storage.TRANSACTION, t), nil
}

func (s *Storage) Close() {}

// Seeding of reference data, which certflow only reads.

func (s *Storage) PutAuthority(ca model.CertificateAuthority) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authorities[ca.ID] = clone(ca)
}

func (s *Storage) PutServer(server model.Server) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[server.ID] = server
}

func (s *Storage) PutUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(user.Username)] = user
}

func (s *Storage) PutNotificationConfig(config model.NotificationConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = clone(config)
}

// PutCertificate stores cert as is, replacing any certificate with the same serial number.
func (s *Storage) PutCertificate(cert model.Certificate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certs[cert.SerialNumber]; !ok {
		s.certOrder = append(s.certOrder, cert.SerialNumber)
	}
	s.certs[cert.SerialNumber] = clone(cert)
}

// Certificate returns the stored certificate with the given serial number.
func (s *Storage) Certificate(serialNumber string) (model.Certificate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certs[serialNumber]
	if !ok {
		return model.Certificate{}, false
	}
	return clone(cert), true
}

func (s *Storage) GetAuthority(ctx context.Context, _ storage.Tx, id string) (model.CertificateAuthority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ca, ok := s.authorities[id]
	if !ok {
		return model.CertificateAuthority{}, model.ErrAuthorityNotFound
	}
	return clone(ca), nil
}

func (s *Storage) ListAuthorities(ctx context.Context, _ storage.Tx, req storage.ListAuthoritiesRequest) ([]model.CertificateAuthority, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.CertificateAuthority, 0, len(s.authorities))
	for _, ca := range s.authorities {
		if req.SyncEnabledOnly && !ca.SyncEnabled {
			continue
		}
		result = append(result, clone(ca))
	}
	slices.SortFunc(result, func(a, b model.CertificateAuthority) int { return strings.Compare(a.ID, b.ID) })
	return result, nil
}

func (s *Storage) GetServer(ctx context.Context, _ storage.Tx, id string) (model.Server, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	server, ok := s.servers[id]
	if !ok {
		return model.Server{}, model.ErrServerNotFound
	}
	return server, nil
}

func (s *Storage) FindUserByUsername(ctx context.Context, _ storage.Tx, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[strings.ToLower(username)]
	if !ok || !user.Active {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) ListUsersByRole(ctx context.Context, _ storage.Tx, role string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.User, 0)
	for _, user := range s.users {
		if user.Active && user.Role == role {
			result = append(result, user)
		}
	}
	slices.SortFunc(result, func(a, b model.User) int { return strings.Compare(a.Username, b.Username) })
	return result, nil
}

func (s *Storage) GetNotificationConfig(ctx context.Context, _ storage.Tx) (model.NotificationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.config), nil
}

func (s *Storage) AddCSR(ctx context.Context, _ storage.Tx, csr model.CertificateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.csrs[csr.ID]; ok {
		return model.ErrVersionMismatch
	}
	s.csrs[csr.ID] = clone(csr)
	s.csrOrder = append(s.csrOrder, csr.ID)
	return nil
}

func (s *Storage) GetCSR(ctx context.Context, _ storage.Tx, id string) (model.CertificateRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	csr, ok := s.csrs[id]
	if !ok {
		return model.CertificateRequest{}, model.ErrCSRNotFound
	}
	return clone(csr), nil
}

func (s *Storage) ListCSRs(ctx context.Context, _ storage.Tx, req storage.ListCSRsRequest) (storage.ListCSRsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]model.CertificateRequest, 0)
	for _, id := range s.csrOrder {
		csr := s.csrs[id]
		if len(req.IDs) > 0 && !slices.Contains(req.IDs, csr.ID) {
			continue
		}
		if len(req.Statuses) > 0 && !slices.Contains(req.Statuses, csr.Status) {
			continue
		}
		filtered = append(filtered, csr)
	}

	result := storage.ListCSRsResponse{Total: int64(len(filtered))}
	for _, csr := range page(filtered, req.Offset, req.Limit) {
		result.CSRs = append(result.CSRs, clone(csr))
	}
	return result, nil
}

func (s *Storage) UpdateCSR(ctx context.Context, _ storage.Tx, csr model.CertificateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.csrs[csr.ID]
	if !ok || old.Version != csr.Version-1 {
		return model.ErrVersionMismatch
	}
	s.csrs[csr.ID] = clone(csr)
	return nil
}

func (s *Storage) DeleteCSR(ctx context.Context, _ storage.Tx, id string, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.csrs[id]
	if !ok || old.Version != version || old.Status == model.CSRStatusSubmitted {
		return model.ErrVersionMismatch
	}
	delete(s.csrs, id)
	s.csrOrder = slices.DeleteFunc(s.csrOrder, func(v string) bool { return v == id })
	return nil
}

func (s *Storage) UpsertSyncedCertificate(ctx context.Context, _ storage.Tx, cert model.Certificate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.certs[cert.SerialNumber]
	if !ok {
		if cert.DeployedTo == nil {
			cert.DeployedTo = []model.Deployment{}
		}
		if cert.NotificationsSent == nil {
			cert.NotificationsSent = []model.NotificationRecord{}
		}
		s.certs[cert.SerialNumber] = clone(cert)
		s.certOrder = append(s.certOrder, cert.SerialNumber)
		return true, nil
	}

	updated := clone(cert)
	updated.Status = old.Status
	updated.DeployedTo = old.DeployedTo
	updated.NotificationsSent = old.NotificationsSent
	updated.Metadata.DiscoveredAt = old.Metadata.DiscoveredAt
	s.certs[cert.SerialNumber] = updated
	return false, nil
}

func (s *Storage) ListCertificates(ctx context.Context, _ storage.Tx, req storage.ListCertificatesRequest) (storage.ListCertificatesResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]model.Certificate, 0)
	for _, serial := range s.certOrder {
		cert := s.certs[serial]
		if len(req.SerialNumbers) > 0 && !slices.Contains(req.SerialNumbers, cert.SerialNumber) {
			continue
		}
		if len(req.Statuses) > 0 && !slices.Contains(req.Statuses, cert.Status) {
			continue
		}
		if len(req.ExcludeStatuses) > 0 && slices.Contains(req.ExcludeStatuses, cert.Status) {
			continue
		}
		if req.ValidToFrom != 0 && cert.ValidTo < req.ValidToFrom {
			continue
		}
		if req.ValidToUntil != 0 && cert.ValidTo > req.ValidToUntil {
			continue
		}
		if req.WithoutNotification != "" && cert.HasNotification(req.WithoutNotification) {
			continue
		}
		filtered = append(filtered, cert)
	}

	result := storage.ListCertificatesResponse{Total: int64(len(filtered))}
	for _, cert := range page(filtered, req.Offset, req.Limit) {
		result.Certs = append(result.Certs, clone(cert))
	}
	return result, nil
}

func (s *Storage) UpdateCertificateStatus(ctx context.Context, _ storage.Tx, serialNumber string, from, to model.CertStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cert, ok := s.certs[serialNumber]
	if !ok || cert.Status != from {
		return false, nil
	}
	cert.Status = to
	s.certs[serialNumber] = cert
	return true, nil
}

func (s *Storage) MarkAuthoritySynced(ctx context.Context, _ storage.Tx, id string, ts int64, templates []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ca, ok := s.authorities[id]
	if !ok {
		return model.ErrAuthorityNotFound
	}
	ca.LastSyncedAt = ts
	if templates != nil {
		ca.Templates = append([]string{}, templates...)
	}
	s.authorities[id] = ca
	return nil
}

func (s *Storage) AppendNotificationSent(ctx context.Context, _ storage.Tx, serialNumber string, record model.NotificationRecord) (bool, error) {
	if record.Type == "" {
		return false, errors.New("notification record type is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cert, ok := s.certs[serialNumber]
	if !ok || cert.HasNotification(record.Type) {
		return false, nil
	}
	cert.NotificationsSent = append(append([]model.NotificationRecord{}, cert.NotificationsSent...), clone(record))
	s.certs[serialNumber] = cert
	return true, nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

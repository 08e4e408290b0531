package storage

import (
	"context"
	"database/sql"

	"github.com/certflow/certflow/pkg/certflow/model"
)

type StorageContextKey string

const (
	TRANSACTION StorageContextKey = "transaction"
)

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (Result, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}

type Row interface {
	Scan(dest ...any) error
}

type Result interface {
	// RowsAffected returns the number of rows affected by an
	// update, insert, or delete.
	RowsAffected() (int64, error)
}

type CreateTxOption func(*sql.TxOptions)

type TransactionInterface interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)
}

func TxOptionWithWrite(write bool) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.ReadOnly = !write
	}
}

func TxOptionWithIsolationLevel(level sql.IsolationLevel) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.Isolation = level
	}
}

type ListCSRsRequest struct {
	Offset   int               `json:"offset"`
	Limit    int               `json:"limit"`
	IDs      []string          `json:"ids"`
	Statuses []model.CSRStatus `json:"statuses"`
}

type ListCSRsResponse struct {
	Total int64                      `json:"total"`
	CSRs  []model.CertificateRequest `json:"csrs"`
}

type ListCertificatesRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SerialNumbers   []string           `json:"serial_numbers"`
	Statuses        []model.CertStatus `json:"statuses"`
	ExcludeStatuses []model.CertStatus `json:"exclude_statuses"`
	ValidToFrom     int64              `json:"valid_to_from"`  // Inclusive lower bound of ValidTo. Zero for no bound.
	ValidToUntil    int64              `json:"valid_to_until"` // Inclusive upper bound of ValidTo. Zero for no bound.

	// WithoutNotification keeps only certificates without a NotificationRecord of this type.
	WithoutNotification string `json:"without_notification"`
}

type ListCertificatesResponse struct {
	Total int64               `json:"total"`
	Certs []model.Certificate `json:"certs"`
}

type ListAuthoritiesRequest struct {
	SyncEnabledOnly bool
}

// ReferenceStorage reads the reference data every component may consult but none of them owns.
type ReferenceStorage interface {
	GetAuthority(ctx context.Context, tx Tx, id string) (model.CertificateAuthority, error)
	ListAuthorities(ctx context.Context, tx Tx, req ListAuthoritiesRequest) ([]model.CertificateAuthority, error)
	GetServer(ctx context.Context, tx Tx, id string) (model.Server, error)
	FindUserByUsername(ctx context.Context, tx Tx, username string) (model.User, error)
	ListUsersByRole(ctx context.Context, tx Tx, role string) ([]model.User, error)
	GetNotificationConfig(ctx context.Context, tx Tx) (model.NotificationConfig, error)
}

// CSRStorage is the store as seen by the CSR workflow, the only writer of CSR documents.
type CSRStorage interface {
	TransactionInterface
	ReferenceStorage

	AddCSR(ctx context.Context, tx Tx, csr model.CertificateRequest) error
	GetCSR(ctx context.Context, tx Tx, id string) (model.CertificateRequest, error)
	ListCSRs(ctx context.Context, tx Tx, req ListCSRsRequest) (ListCSRsResponse, error)
	// UpdateCSR stores csr if the stored version is csr.Version-1, otherwise it returns model.ErrVersionMismatch.
	UpdateCSR(ctx context.Context, tx Tx, csr model.CertificateRequest) error
	// DeleteCSR removes the CSR if it is still at version and not submitted.
	DeleteCSR(ctx context.Context, tx Tx, id string, version int64) error
}

// CertificateSyncStorage is the store as seen by the sync and status reconciler.
type CertificateSyncStorage interface {
	TransactionInterface
	ReferenceStorage

	// UpsertSyncedCertificate writes the CA-derived fields of cert keyed by serial number.
	// Status, DeployedTo, NotificationsSent and Metadata.DiscoveredAt are written on insert only.
	UpsertSyncedCertificate(ctx context.Context, tx Tx, cert model.Certificate) (inserted bool, err error)
	ListCertificates(ctx context.Context, tx Tx, req ListCertificatesRequest) (ListCertificatesResponse, error)
	// UpdateCertificateStatus moves the certificate from status from to status to. It reports false
	// when the stored status was no longer from.
	UpdateCertificateStatus(ctx context.Context, tx Tx, serialNumber string, from, to model.CertStatus) (bool, error)
	// MarkAuthoritySynced records the sync time and, when templates is not nil, the template cache.
	MarkAuthoritySynced(ctx context.Context, tx Tx, id string, ts int64, templates []string) error
}

// NotificationStorage is the store as seen by the notification dispatcher.
type NotificationStorage interface {
	TransactionInterface
	ReferenceStorage

	ListCertificates(ctx context.Context, tx Tx, req ListCertificatesRequest) (ListCertificatesResponse, error)
	// AppendNotificationSent appends record unless a record of the same type exists. It reports
	// whether the record was appended.
	AppendNotificationSent(ctx context.Context, tx Tx, serialNumber string, record model.NotificationRecord) (bool, error)
}

package cert_sync

import (
	"context"
	"fmt"
	"time"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/certflow/certflow/pkg/certflow/command_gateway"
	"github.com/certflow/certflow/pkg/certflow/input_validator"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// reconcilePageSize is the page size used while collecting status changes.
const reconcilePageSize = 500

type CertSync interface {
	// SyncOne pulls the issued certificates of one CA into the certificate store and returns the
	// number of records processed.
	SyncOne(ctx context.Context, caID string) (int, error)
	// SyncAll syncs every sync-enabled CA and reconciles statuses afterwards. Failures of single
	// CAs are collected in the result.
	SyncAll(ctx context.Context) SyncResult
	// ReconcileStatuses moves certificates between active, expiring and expired according to
	// their validity at now. It returns the number of certificates changed.
	ReconcileStatuses(ctx context.Context, now int64) (int, error)
}

type SyncError struct {
	AuthorityID string `json:"authority_id"`
	Error       string `json:"error"`
}

type SyncResult struct {
	Authorities int         `json:"authorities"` // Number of CAs swept.
	Records     int         `json:"records"`     // Number of certificate records processed.
	Failed      int         `json:"failed"`      // Number of CAs that failed.
	Reconciled  int         `json:"reconciled"`  // Number of status changes.
	Errors      []SyncError `json:"errors,omitempty"`
}

type statusChange struct {
	serialNumber string
	from         model.CertStatus
	to           model.CertStatus
}

type _CertSync struct {
	storage storage.CertificateSyncStorage
	gateway command_gateway.Gateway

	syncCount      metric.Int64Counter
	reconcileCount metric.Int64Counter
}

func NewCertSync(syncStorage storage.CertificateSyncStorage, gateway command_gateway.Gateway) *_CertSync {
	return &_CertSync{
		storage:        syncStorage,
		gateway:        gateway,
		syncCount:      otlp_util.NewInt64Counter("certflow.cert_sync.record.count", metric.WithDescription("The total number of certificate records synced from CAs")),
		reconcileCount: otlp_util.NewInt64Counter("certflow.cert_sync.status_change.count", metric.WithDescription("The total number of certificate status changes")),
	}
}

func (s *_CertSync) SyncOne(ctx context.Context, caID string) (int, error) {
	if caID == "" {
		return 0, fmt.Errorf("CA id is required%w", model.ErrInvalidParameter)
	}

	ca, err := s.getAuthority(ctx, caID)
	if err != nil {
		return 0, err
	}
	return s.syncAuthority(ctx, ca, time.Now().Unix())
}

func (s *_CertSync) SyncAll(ctx context.Context) SyncResult {
	ctx, span := otlp_util.Start(ctx, "certflow/cert_sync.SyncAll")
	defer span.End()

	result := SyncResult{}
	authorities, err := s.listSyncEnabledAuthorities(ctx)
	if err != nil {
		logrus.Errorf("cert_sync: failed to list certificate authorities: %v", err)
		result.Errors = append(result.Errors, SyncError{Error: err.Error()})
	}

	for _, ca := range authorities {
		result.Authorities++
		n, err := s.syncAuthority(ctx, ca, time.Now().Unix())
		if err != nil {
			logrus.Warnf("cert_sync: sync of CA %s (%s) failed: %v", ca.ID, ca.Name, err)
			result.Failed++
			result.Errors = append(result.Errors, SyncError{AuthorityID: ca.ID, Error: err.Error()})
			continue
		}
		result.Records += n
	}

	reconciled, err := s.ReconcileStatuses(ctx, time.Now().Unix())
	if err != nil {
		logrus.Errorf("cert_sync: status reconciliation failed: %v", err)
		result.Errors = append(result.Errors, SyncError{Error: err.Error()})
	}
	result.Reconciled = reconciled

	logrus.Infof("cert_sync: swept %d CAs, %d records, %d failed, %d status changes", result.Authorities, result.Records, result.Failed, result.Reconciled)
	return result
}

func (s *_CertSync) ReconcileStatuses(ctx context.Context, now int64) (int, error) {
	ctx, span := otlp_util.Start(ctx, "certflow/cert_sync.ReconcileStatuses")
	defer span.End()

	changes, err := s.collectStatusChanges(ctx, now)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	if len(changes) == 0 {
		return 0, nil
	}

	tx, ctx, err := s.storage.CreateTx(ctx, storage.TxOptionWithWrite(true))
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	updated := 0
	for _, c := range changes {
		// The guard on the old status lets a concurrent revoke win.
		ok, err := s.storage.UpdateCertificateStatus(ctx, tx, c.serialNumber, c.from, c.to)
		if err != nil {
			return 0, err
		}
		if !ok {
			logrus.Debugf("cert_sync: certificate %s is no longer %s, skipped", c.serialNumber, c.from)
			continue
		}
		updated++
		s.reconcileCount.Add(ctx, 1, metric.WithAttributes(attribute.String("to", string(c.to))))
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return updated, nil
}

// collectStatusChanges reads every certificate whose status is due to change at now. All pages are
// read before anything is written so paging is not disturbed by the updates.
func (s *_CertSync) collectStatusChanges(ctx context.Context, now int64) ([]statusChange, error) {
	tx, ctx, err := s.storage.CreateTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	queries := []storage.ListCertificatesRequest{
		{
			ExcludeStatuses: []model.CertStatus{model.CertStatusExpired, model.CertStatusRevoked},
			ValidToUntil:    now - 1,
		},
		{
			Statuses:     []model.CertStatus{model.CertStatusActive},
			ValidToFrom:  now,
			ValidToUntil: now + model.ExpiringWindow,
		},
		{
			Statuses:    []model.CertStatus{model.CertStatusExpiring},
			ValidToFrom: now + model.ExpiringWindow + 1,
		},
	}

	seen := make(map[string]struct{})
	changes := make([]statusChange, 0)
	for _, req := range queries {
		req.Limit = reconcilePageSize
		for {
			resp, err := s.storage.ListCertificates(ctx, tx, req)
			if err != nil {
				return nil, err
			}
			for _, cert := range resp.Certs {
				if _, ok := seen[cert.SerialNumber]; ok {
					continue
				}
				to := model.DeriveStatus(cert.Status, cert.ValidTo, now)
				if to == cert.Status {
					continue
				}
				seen[cert.SerialNumber] = struct{}{}
				changes = append(changes, statusChange{serialNumber: cert.SerialNumber, from: cert.Status, to: to})
			}
			req.Offset += len(resp.Certs)
			if len(resp.Certs) == 0 || int64(req.Offset) >= resp.Total {
				break
			}
		}
	}
	return changes, nil
}

func (s *_CertSync) syncAuthority(ctx context.Context, ca model.CertificateAuthority, ts int64) (int, error) {
	ctx, span := otlp_util.Start(ctx, "certflow/cert_sync.SyncOne", trace.WithAttributes(attribute.String("ca_id", ca.ID)))
	defer span.End()

	if !input_validator.IsValidConfigString(ca.ConfigString) {
		return 0, fmt.Errorf("CA %s has an invalid config string%w", ca.ID, model.ErrInvalidParameter)
	}
	params := []command_gateway.Parameter{command_gateway.Param("ConfigString", ca.ConfigString)}

	result, err := s.gateway.Execute(ctx, command_gateway.Spec{
		ScriptID:   command_gateway.ScriptListIssuedCertificates,
		Parameters: params,
		Timeout:    command_gateway.DiscoveryTimeout,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	if result.Truncated {
		return 0, fmt.Errorf("output of CA %s was truncated: %w", ca.ID, model.ErrMalformedCAOutput)
	}
	records, err := ParseIssuedCertificates(result.Output)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	// A failing template listing does not fail the sync.
	var templates []string
	templateResult, err := s.gateway.Execute(ctx, command_gateway.Spec{
		ScriptID:   command_gateway.ScriptListCATemplates,
		Parameters: params,
		Timeout:    command_gateway.DiscoveryTimeout,
	})
	if err == nil {
		templates, err = ParseTemplates(templateResult.Output)
	}
	if err != nil {
		logrus.Warnf("cert_sync: failed to refresh templates of CA %s: %v", ca.ID, err)
		templates = nil
	}

	tx, ctx, err := s.storage.CreateTx(ctx, storage.TxOptionWithWrite(true))
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, record := range records {
		isNew, err := s.storage.UpsertSyncedCertificate(ctx, tx, record.ToCertificate(ca, ts))
		if err != nil {
			return 0, err
		}
		if isNew {
			inserted++
		}
	}
	if err := s.storage.MarkAuthoritySynced(ctx, tx, ca.ID, ts, templates); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	s.syncCount.Add(ctx, int64(len(records)), metric.WithAttributes(attribute.String("ca_id", ca.ID)))
	logrus.Debugf("cert_sync: CA %s returned %d certificates, %d new", ca.ID, len(records), inserted)
	return len(records), nil
}

func (s *_CertSync) getAuthority(ctx context.Context, id string) (model.CertificateAuthority, error) {
	tx, ctx, err := s.storage.CreateTx(ctx)
	if err != nil {
		return model.CertificateAuthority{}, err
	}
	defer tx.Rollback(ctx)

	return s.storage.GetAuthority(ctx, tx, id)
}

func (s *_CertSync) listSyncEnabledAuthorities(ctx context.Context) ([]model.CertificateAuthority, error) {
	tx, ctx, err := s.storage.CreateTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	return s.storage.ListAuthorities(ctx, tx, storage.ListAuthoritiesRequest{SyncEnabledOnly: true})
}

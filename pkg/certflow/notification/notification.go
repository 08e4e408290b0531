package notification

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/storage"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	day                 = int64(24 * 60 * 60)
	candidatePageSize   = 500
	testMessageSubject  = "certflow test notification"
	defaultSubjectLabel = "[certflow]"
)

type Dispatcher interface {
	// Dispatch sends one expiry notice per certificate and enabled threshold that has not been
	// notified yet. Per-certificate failures are collected in the result.
	Dispatch(ctx context.Context, now int64) (DispatchResult, error)
	// SendTest sends a test message to email and reports whether the transport accepted it.
	SendTest(ctx context.Context, email string) (bool, error)
}

type DispatchError struct {
	SerialNumber string `json:"serial_number,omitempty"`
	Threshold    string `json:"threshold,omitempty"`
	Error        string `json:"error"`
}

type DispatchResult struct {
	Sent   int             `json:"sent"`
	Failed int             `json:"failed"`
	Errors []DispatchError `json:"errors,omitempty"`
}

type _Dispatcher struct {
	storage   storage.NotificationStorage
	directory Directory
	mailer    Mailer

	sentCount metric.Int64Counter
}

func NewDispatcher(notificationStorage storage.NotificationStorage, directory Directory, mailer Mailer) *_Dispatcher {
	return &_Dispatcher{
		storage:   notificationStorage,
		directory: directory,
		mailer:    mailer,
		sentCount: otlp_util.NewInt64Counter("certflow.notification.sent.count", metric.WithDescription("The total number of expiry notifications sent")),
	}
}

func (d *_Dispatcher) Dispatch(ctx context.Context, now int64) (DispatchResult, error) {
	ctx, span := otlp_util.Start(ctx, "certflow/notification.Dispatch")
	defer span.End()

	result := DispatchResult{}
	config, err := d.getConfig(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	if !config.Enabled {
		logrus.Debug("notification: dispatch skipped, notifications are disabled")
		return result, nil
	}

	thresholds := enabledThresholds(config.Thresholds)
	if len(thresholds) == 0 {
		logrus.Debug("notification: dispatch skipped, no enabled thresholds")
		return result, nil
	}

	recipients, resolveErrors := d.resolveRecipients(ctx, config.Recipients)
	result.Errors = append(result.Errors, resolveErrors...)
	if len(recipients) == 0 {
		logrus.Warn("notification: dispatch skipped, no recipients resolved")
		return result, nil
	}

	prefix := config.SubjectPrefix
	if prefix == "" {
		prefix = defaultSubjectLabel
	}
	for _, threshold := range thresholds {
		certs, err := d.collectCandidates(ctx, now, threshold)
		if err != nil {
			logrus.Errorf("notification: failed to list certificates for threshold %s: %v", threshold.Type(), err)
			result.Errors = append(result.Errors, DispatchError{Threshold: threshold.Type(), Error: err.Error()})
			continue
		}

		for _, cert := range certs {
			if err := d.notify(ctx, now, prefix, threshold, cert, recipients); err != nil {
				logrus.Warnf("notification: %s notice for certificate %s failed: %v", threshold.Type(), cert.SerialNumber, err)
				result.Failed++
				result.Errors = append(result.Errors, DispatchError{
					SerialNumber: cert.SerialNumber,
					Threshold:    threshold.Type(),
					Error:        err.Error(),
				})
				continue
			}
			result.Sent++
		}
	}

	span.SetAttributes(attribute.Int("sent", result.Sent), attribute.Int("failed", result.Failed))
	logrus.Infof("notification: dispatched %d notices, %d failed", result.Sent, result.Failed)
	return result, nil
}

func (d *_Dispatcher) SendTest(ctx context.Context, email string) (bool, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false, fmt.Errorf("invalid email address %q: %s%w", email, err.Error(), model.ErrInvalidParameter)
	}

	body, err := renderTest(time.Now())
	if err != nil {
		return false, err
	}
	msg := Message{
		To:       []string{addr.Address},
		Subject:  testMessageSubject,
		HTMLBody: body,
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return false, err
	}
	return true, nil
}

func (d *_Dispatcher) notify(ctx context.Context, now int64, prefix string, threshold model.Threshold, cert model.Certificate, recipients []string) error {
	ctx, span := otlp_util.Start(ctx, "certflow/notification.notify",
		trace.WithAttributes(attribute.String("serial_number", cert.SerialNumber), attribute.String("threshold", threshold.Type())))
	defer span.End()

	subject, body, err := renderExpiry(prefix, threshold.Days, cert)
	if err != nil {
		return err
	}
	if err := d.mailer.Send(ctx, Message{To: recipients, Subject: subject, HTMLBody: body}); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	record := model.NotificationRecord{
		Type:       threshold.Type(),
		SentAt:     now,
		Recipients: recipients,
	}
	appended, err := d.appendRecord(ctx, cert.SerialNumber, record)
	if err != nil {
		// The message is out. A missing record means the next run may send it again.
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("notice sent but not recorded: %w", err)
	}
	if !appended {
		logrus.Warnf("notification: %s notice for certificate %s was already recorded by another dispatcher", threshold.Type(), cert.SerialNumber)
	}
	d.sentCount.Add(ctx, 1, metric.WithAttributes(attribute.String("threshold", threshold.Type())))
	return nil
}

func (d *_Dispatcher) appendRecord(ctx context.Context, serialNumber string, record model.NotificationRecord) (bool, error) {
	tx, ctx, err := d.storage.CreateTx(ctx, storage.TxOptionWithWrite(true))
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	appended, err := d.storage.AppendNotificationSent(ctx, tx, serialNumber, record)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return appended, nil
}

// collectCandidates returns every certificate due for threshold at now. All pages are read
// before any record is appended so paging is not disturbed by the appends.
func (d *_Dispatcher) collectCandidates(ctx context.Context, now int64, threshold model.Threshold) ([]model.Certificate, error) {
	tx, ctx, err := d.storage.CreateTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	req := storage.ListCertificatesRequest{
		Limit:               candidatePageSize,
		ExcludeStatuses:     []model.CertStatus{model.CertStatusRevoked},
		ValidToFrom:         now + int64(threshold.Days-1)*day,
		ValidToUntil:        now + int64(threshold.Days)*day,
		WithoutNotification: threshold.Type(),
	}

	certs := make([]model.Certificate, 0)
	for {
		resp, err := d.storage.ListCertificates(ctx, tx, req)
		if err != nil {
			return nil, err
		}
		certs = append(certs, resp.Certs...)
		if len(resp.Certs) < req.Limit {
			break
		}
		req.Offset += req.Limit
	}
	return certs, nil
}

func (d *_Dispatcher) resolveRecipients(ctx context.Context, r model.NotificationRecipients) ([]string, []DispatchError) {
	emails := make([]string, 0, len(r.Emails))
	errs := make([]DispatchError, 0)
	for _, e := range r.Emails {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}

	for _, username := range r.Usernames {
		email, err := d.directory.ResolveUserEmail(ctx, username)
		if err != nil {
			logrus.Warnf("notification: failed to resolve user %q: %v", username, err)
			errs = append(errs, DispatchError{Error: fmt.Sprintf("resolve user %q: %v", username, err)})
			continue
		}
		if email == "" {
			logrus.Debugf("notification: user %q has no active email", username)
			continue
		}
		emails = append(emails, email)
	}

	for _, role := range r.Roles {
		roleEmails, err := d.directory.ResolveUsersByRole(ctx, role)
		if err != nil {
			logrus.Warnf("notification: failed to resolve role %q: %v", role, err)
			errs = append(errs, DispatchError{Error: fmt.Sprintf("resolve role %q: %v", role, err)})
			continue
		}
		emails = append(emails, roleEmails...)
	}

	return lo.UniqBy(emails, strings.ToLower), errs
}

func (d *_Dispatcher) getConfig(ctx context.Context) (model.NotificationConfig, error) {
	tx, ctx, err := d.storage.CreateTx(ctx)
	if err != nil {
		return model.NotificationConfig{}, err
	}
	defer tx.Rollback(ctx)

	return d.storage.GetNotificationConfig(ctx, tx)
}

// enabledThresholds returns the enabled thresholds with distinct positive days, largest first.
func enabledThresholds(thresholds []model.Threshold) []model.Threshold {
	enabled := lo.Filter(thresholds, func(t model.Threshold, _ int) bool {
		return t.Enabled && t.Days > 0
	})
	enabled = lo.UniqBy(enabled, func(t model.Threshold) int { return t.Days })
	slices.SortFunc(enabled, func(a, b model.Threshold) int { return b.Days - a.Days })
	return enabled
}

package notification_test

import (
	"bytes"
	"context"
	"errors"
	"net/textproto"
	"testing"
	"time"

	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/certflow/certflow/pkg/certflow/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeSMTP struct {
	sent    []*mail.Msg
	results []error
	onSend  func()
}

func (f *fakeSMTP) deliver(ctx context.Context, msg *mail.Msg) error {
	f.sent = append(f.sent, msg)
	if f.onSend != nil {
		f.onSend()
	}
	if len(f.results) == 0 {
		return nil
	}
	err := f.results[0]
	f.results = f.results[1:]
	return err
}

func newTestMailer(t *testing.T, cfg notification.SMTPConfig, fake *fakeSMTP) *notification.SMTPMailer {
	m, err := notification.NewSMTPMailer(cfg,
		notification.SMTPMailerWithDeliverFunc(fake.deliver),
		notification.SMTPMailerWithRetryDelay(time.Millisecond),
	)
	require.NoError(t, err)
	return m
}

func render(t *testing.T, msg *mail.Msg) string {
	buf := bytes.Buffer{}
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	_, err := notification.NewSMTPMailer(notification.SMTPConfig{From: "certflow@contoso.com"})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = notification.NewSMTPMailer(notification.SMTPConfig{Host: "smtp.contoso.com", From: "nobody"})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = notification.NewSMTPMailer(notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com", TLS: "starttls-please"})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	for _, mode := range []string{"", notification.SMTPTLSOpportunistic, notification.SMTPTLSMandatory, notification.SMTPTLSImplicit, notification.SMTPTLSNone} {
		_, err = notification.NewSMTPMailer(notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com", TLS: mode, Username: "svc", Password: "secret"})
		assert.NoError(t, err, mode)
	}
}

func TestSMTPMailerSend(t *testing.T) {
	fake := &fakeSMTP{}
	m := newTestMailer(t, notification.SMTPConfig{
		Host: "smtp.contoso.com",
		Port: 587,
		From: "certflow <certflow@contoso.com>",
	}, fake)

	err := m.Send(context.Background(), notification.Message{
		To:       []string{"ops@contoso.com", "alice@contoso.com"},
		Subject:  "Certificate web01 expires in 7 days",
		HTMLBody: "<p>hello</p>\n<p>world</p>",
	})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	sent := fake.sent[0]
	from := sent.GetFrom()
	require.Len(t, from, 1)
	assert.Equal(t, "certflow", from[0].Name)
	assert.Equal(t, "certflow@contoso.com", from[0].Address)
	recipients, err := sent.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@contoso.com", "alice@contoso.com"}, recipients)

	raw := render(t, sent)
	assert.Contains(t, raw, "Subject: Certificate web01 expires in 7 days\r\n")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "@contoso.com>\r\n")
	assert.Contains(t, raw, "<p>hello</p>\r\n<p>world</p>")
}

func TestSMTPMailerRetriesTransientErrors(t *testing.T) {
	fake := &fakeSMTP{results: []error{
		&textproto.Error{Code: 421, Msg: "service not available"},
		&textproto.Error{Code: 451, Msg: "try again later"},
	}}
	m := newTestMailer(t, notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com", Retry: 3}, fake)

	err := m.Send(context.Background(), notification.Message{To: []string{"ops@contoso.com"}, Subject: "s", HTMLBody: "b"})
	require.NoError(t, err)
	assert.Len(t, fake.sent, 3)
}

func TestSMTPMailerDoesNotRetryPermanentErrors(t *testing.T) {
	fake := &fakeSMTP{results: []error{&textproto.Error{Code: 550, Msg: "mailbox unavailable"}}}
	m := newTestMailer(t, notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com", Retry: 3}, fake)

	err := m.Send(context.Background(), notification.Message{To: []string{"nobody@contoso.com"}, Subject: "s", HTMLBody: "b"})
	require.ErrorIs(t, err, notification.ErrSendFailed)
	assert.ErrorIs(t, err, model.ErrGateway)
	assert.Contains(t, err.Error(), "smtp.contoso.com:25")
	assert.Contains(t, err.Error(), "mailbox unavailable")
	assert.Len(t, fake.sent, 1)
}

func TestSMTPMailerGivesUpAfterRetries(t *testing.T) {
	transient := &textproto.Error{Code: 421, Msg: "busy"}
	fake := &fakeSMTP{results: []error{transient, transient, transient}}
	m := newTestMailer(t, notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com", Retry: 2}, fake)

	err := m.Send(context.Background(), notification.Message{To: []string{"ops@contoso.com"}, Subject: "s", HTMLBody: "b"})
	require.ErrorIs(t, err, notification.ErrSendFailed)
	assert.Len(t, fake.sent, 2)
}

func TestSMTPMailerStopsRetryingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	transient := &textproto.Error{Code: 421, Msg: "busy"}
	fake := &fakeSMTP{results: []error{transient, transient, transient}, onSend: cancel}
	m := newTestMailer(t, notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com", Retry: 3}, fake)

	err := m.Send(ctx, notification.Message{To: []string{"ops@contoso.com"}, Subject: "s", HTMLBody: "b"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fake.sent, 1)
}

func TestSMTPMailerRejectsInvalidRecipients(t *testing.T) {
	fake := &fakeSMTP{}
	m := newTestMailer(t, notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com"}, fake)

	err := m.Send(context.Background(), notification.Message{Subject: "s", HTMLBody: "b"})
	require.ErrorIs(t, err, model.ErrInvalidParameter)

	err = m.Send(context.Background(), notification.Message{To: []string{"not an address"}, Subject: "s", HTMLBody: "b"})
	require.ErrorIs(t, err, model.ErrInvalidParameter)
	assert.Empty(t, fake.sent)
}

func TestSMTPMailerRateLimit(t *testing.T) {
	fake := &fakeSMTP{}
	m := newTestMailer(t, notification.SMTPConfig{Host: "smtp.contoso.com", From: "certflow@contoso.com", RateLimit: 0.01}, fake)
	msg := notification.Message{To: []string{"ops@contoso.com"}, Subject: "s", HTMLBody: "b"}

	require.NoError(t, m.Send(context.Background(), msg))

	// The next token is 100 seconds away, far beyond the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := m.Send(ctx, msg)
	require.Error(t, err)
	assert.False(t, errors.Is(err, notification.ErrSendFailed))
	assert.Len(t, fake.sent, 1)
}

package notification

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/certflow/certflow/pkg/certflow/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
	"golang.org/x/time/rate"
)

var ErrSendFailed = fmt.Errorf("mail delivery failed%w", model.ErrGateway)

type Message struct {
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer delivers a message to all of its recipients or fails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// TLS modes of SMTPConfig.TLS.
const (
	SMTPTLSOpportunistic = "opportunistic"
	SMTPTLSMandatory     = "mandatory"
	SMTPTLSImplicit      = "implicit"
	SMTPTLSNone          = "none"
)

type SMTPConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	From      string        `yaml:"from"`
	TLS       string        `yaml:"tls"`        // opportunistic (default), mandatory, implicit or none.
	Timeout   time.Duration `yaml:"timeout"`    // Dial and command timeout. Defaults to 30s.
	Retry     int           `yaml:"retry"`      // Attempts per message on transient errors.
	RateLimit float64       `yaml:"rate_limit"` // Messages per second. Zero disables the limit.
}

// DeliverFunc hands a composed message to the mail server.
type DeliverFunc func(ctx context.Context, msg *mail.Msg) error

type SMTPMailer struct {
	addr       string
	from       string
	domain     string
	retry      uint
	retryDelay time.Duration
	limiter    *rate.Limiter
	deliver    DeliverFunc
}

type SMTPMailerOption func(*SMTPMailer)

func SMTPMailerWithRetryDelay(d time.Duration) SMTPMailerOption {
	return func(m *SMTPMailer) {
		m.retryDelay = d
	}
}

// SMTPMailerWithDeliverFunc replaces delivery through the SMTP client.
func SMTPMailerWithDeliverFunc(f DeliverFunc) SMTPMailerOption {
	return func(m *SMTPMailer) {
		m.deliver = f
	}
}

func NewSMTPMailer(cfg SMTPConfig, options ...SMTPMailerOption) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required%w", model.ErrInvalidParameter)
	}
	parsed := mail.NewMsg()
	if err := parsed.From(cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from address %q: %s%w", cfg.From, err.Error(), model.ErrInvalidParameter)
	}
	sender := parsed.GetFrom()[0].Address

	clientOptions, port, err := smtpClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	client, err := mail.NewClient(cfg.Host, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %s%w", err.Error(), model.ErrInvalidParameter)
	}

	m := &SMTPMailer{
		addr:       net.JoinHostPort(cfg.Host, fmt.Sprint(port)),
		from:       cfg.From,
		domain:     sender[strings.LastIndex(sender, "@")+1:],
		retry:      uint(max(cfg.Retry, 1)),
		retryDelay: 500 * time.Millisecond,
		deliver: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}
	if cfg.RateLimit > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

func smtpClientOptions(cfg SMTPConfig) ([]mail.Option, int, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	port := cfg.Port
	options := []mail.Option{mail.WithTimeout(timeout)}

	switch strings.ToLower(cfg.TLS) {
	case "", SMTPTLSOpportunistic:
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case SMTPTLSMandatory:
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	case SMTPTLSImplicit:
		options = append(options, mail.WithSSL())
		if port == 0 {
			port = 465
		}
	case SMTPTLSNone:
		options = append(options, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, 0, fmt.Errorf("smtp tls mode %q is unknown%w", cfg.TLS, model.ErrInvalidParameter)
	}
	if port == 0 {
		port = 25
	}
	options = append(options, mail.WithPort(port))

	if cfg.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return options, port, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients%w", model.ErrInvalidParameter)
	}
	composed, err := m.compose(msg, time.Now())
	if err != nil {
		return err
	}
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	err = retry.Do(
		func() error {
			return m.deliver(ctx, composed)
		},
		retry.Attempts(m.retry),
		retry.Delay(m.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.Context(ctx),
	)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		logrus.Debugf("smtp: sending %q to %d recipients failed: %v", msg.Subject, len(msg.To), err)
		return fmt.Errorf("smtp %s: %v: %w", m.addr, err, ErrSendFailed)
	}
	return nil
}

func (m *SMTPMailer) compose(msg Message, ts time.Time) (*mail.Msg, error) {
	composed := mail.NewMsg()
	if err := composed.From(m.from); err != nil {
		return nil, fmt.Errorf("from %q: %s%w", m.from, err.Error(), model.ErrInvalidParameter)
	}
	if err := composed.To(msg.To...); err != nil {
		return nil, fmt.Errorf("recipients: %s%w", err.Error(), model.ErrInvalidParameter)
	}
	composed.Subject(msg.Subject)
	composed.SetDateWithValue(ts)
	composed.SetMessageIDWithValue(uuid.NewString() + "@" + m.domain)
	composed.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	return composed, nil
}

// isTransient reports whether a send is worth repeating: temporary SMTP failures, 4xx replies and
// network errors.
func isTransient(err error) bool {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) && sendErr.IsTemp() {
		return true
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code >= 400 && protoErr.Code < 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

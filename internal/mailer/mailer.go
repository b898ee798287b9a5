package mailer

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const couponSubject = "Your waitlist pre-order coupon code"

var couponBody = template.Must(template.New("coupon").Parse(`Dear Customer,

Congratulations on joining our waitlist for the pre-order!

As a token of our appreciation, here is your exclusive coupon code: {{.Coupon}}

Use this coupon code to get a special discount on your purchase.

Thank you for being with us.
`))

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP sends coupon mail over implicit TLS.
type SMTP struct {
	cfg Config
	log *zap.Logger
}

func NewSMTP(cfg Config, log *zap.Logger) *SMTP {
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTP{cfg: cfg, log: log}
}

func (s *SMTP) SendCoupon(ctx context.Context, to, coupon string) error {
	msg, err := CouponMessage(s.cfg.From, to, coupon)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send coupon: %w", err)
	}
	s.log.Debug("coupon mail delivered", zap.String("to", to))
	return nil
}

// CouponMessage builds the coupon mail without sending it.
func CouponMessage(from, to, coupon string) (*mail.Msg, error) {
	var body bytes.Buffer
	if err := couponBody.Execute(&body, struct{ Coupon string }{coupon}); err != nil {
		return nil, fmt.Errorf("render coupon body: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("coupon from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("coupon to: %w", err)
	}
	msg.Subject(couponSubject)
	msg.SetBodyString(mail.TypeTextPlain, body.String())
	return msg, nil
}

// Log stands in when SMTP is not configured; it only records the coupon.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	if log == nil {
		log = zap.NewNop()
	}
	return &Log{log: log}
}

func (l *Log) SendCoupon(_ context.Context, to, coupon string) error {
	l.log.Info("smtp not configured, coupon not mailed", zap.String("to", to), zap.String("coupon", coupon))
	return nil
}

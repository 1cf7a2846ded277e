// Package mailer delivers outbound email over a configurable transport.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/sbilibin2017/lms-accounts/internal/config"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/segmentio/kafka-go"
)

// Mailer sends a single email.
type Mailer interface {
	Send(ctx context.Context, email models.Email) error
	Close() error
}

// New builds the transport named by cfg.Transport.
func New(cfg config.MailConfig) (Mailer, error) {
	switch cfg.Transport {
	case "", "log":
		return NewLogMailer(), nil
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.Timeout), nil
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("kafka mail transport requires at least one broker")
		}
		writer := &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Topic:        cfg.KafkaTopic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: cfg.Timeout,
		}
		return NewKafkaMailer(writer), nil
	}
	return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
}

// LogMailer writes emails to the service log instead of delivering them.
// Bodies carry live reset links, so they are only logged at debug level.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(ctx context.Context, email models.Email) error {
	logger.Log.Infow("email",
		"to", email.To,
		"from", email.From,
		"subject", email.Subject,
		"sent_at", time.Now().UTC(),
	)
	logger.Log.Debugw("email body", "to", email.To, "body", email.Body)
	return nil
}

func (m *LogMailer) Close() error { return nil }

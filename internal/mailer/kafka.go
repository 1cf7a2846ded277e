package mailer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/samber/oops"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMailer publishes emails as JSON to a topic drained by a delivery worker.
type KafkaMailer struct {
	writer KafkaWriter
}

func NewKafkaMailer(writer KafkaWriter) *KafkaMailer {
	return &KafkaMailer{writer: writer}
}

func (m *KafkaMailer) Send(ctx context.Context, email models.Email) error {
	data, err := json.Marshal(email)
	if err != nil {
		return oops.In("mailer").Code("EMAIL_MARSHAL_FAILED").Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(strings.Join(email.To, ",")),
		Value: data,
	}

	if err := m.writer.WriteMessages(ctx, msg); err != nil {
		return oops.In("mailer").Code("KAFKA_PUBLISH_FAILED").With("to", email.To).Wrap(err)
	}

	logger.Log.Infow("email published to Kafka", "to", email.To, "subject", email.Subject)
	return nil
}

func (m *KafkaMailer) Close() error {
	return m.writer.Close()
}

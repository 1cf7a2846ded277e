package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaMailer_Send(t *testing.T) {
	email := models.Email{
		To:      []string{"alice@example.com"},
		From:    "noreply@yourdomain.com",
		Subject: "Password Reset Request",
		Body:    "Click the link to reset your password: http://localhost/x/",
	}

	tests := []struct {
		name     string
		writeErr error
		wantErr  bool
	}{
		{name: "published"},
		{name: "broker down", writeErr: errors.New("dial tcp: connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			writer := NewMockKafkaWriter(ctrl)
			writer.EXPECT().
				WriteMessages(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
					require.Len(t, msgs, 1)
					assert.Equal(t, "alice@example.com", string(msgs[0].Key))

					var got models.Email
					require.NoError(t, json.Unmarshal(msgs[0].Value, &got))
					assert.Equal(t, email, got)
					return tt.writeErr
				})

			err := NewKafkaMailer(writer).Send(context.Background(), email)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.writeErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKafkaMailer_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockKafkaWriter(ctrl)
	writer.EXPECT().Close().Return(nil)

	assert.NoError(t, NewKafkaMailer(writer).Close())
}

package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/lms-accounts/internal/logger"
	"github.com/sbilibin2017/lms-accounts/internal/models"
	"github.com/sbilibin2017/lms-accounts/internal/repositories"
)

const (
	resetEmailSubject = "Password Reset Request"
	resetEmailBody    = "Click the link to reset your password: %s"
)

// ResetTokenGenerator mints and checks state-bound reset tokens.
type ResetTokenGenerator interface {
	Make(ctx context.Context, user *models.UserDB) (string, error)
	Check(ctx context.Context, user *models.UserDB, token string) error
}

// Mailer sends a single email.
type Mailer interface {
	Send(ctx context.Context, email models.Email) error
}

// PasswordResetService handles reset requests and confirmations.
type PasswordResetService struct {
	reader      UserReader
	writer      UserWriter
	hasher      PasswordHasher
	tokens      ResetTokenGenerator
	mailer      Mailer
	from        string
	mailTimeout time.Duration
	confirmPath string

	wg sync.WaitGroup
}

// ResetOpt configures a PasswordResetService.
type ResetOpt func(*PasswordResetService)

// WithSender sets the From address of reset emails.
func WithSender(from string) ResetOpt {
	return func(s *PasswordResetService) {
		s.from = from
	}
}

// WithMailTimeout bounds a single email dispatch.
func WithMailTimeout(d time.Duration) ResetOpt {
	return func(s *PasswordResetService) {
		s.mailTimeout = d
	}
}

// WithConfirmPath sets the path prefix of the confirmation link.
func WithConfirmPath(prefix string) ResetOpt {
	return func(s *PasswordResetService) {
		s.confirmPath = "/" + strings.Trim(prefix, "/")
	}
}

// NewPasswordResetService creates a new PasswordResetService instance.
func NewPasswordResetService(
	reader UserReader,
	writer UserWriter,
	hasher PasswordHasher,
	tokens ResetTokenGenerator,
	mailer Mailer,
	opts ...ResetOpt,
) *PasswordResetService {
	s := &PasswordResetService{
		reader:      reader,
		writer:      writer,
		hasher:      hasher,
		tokens:      tokens,
		mailer:      mailer,
		from:        "noreply@yourdomain.com",
		mailTimeout: 10 * time.Second,
		confirmPath: "/password-reset-confirm",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EncodeUID encodes a user id for use in a URL path segment.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(string(raw))
}

// RequestReset emails a reset link when an account with the email exists.
// The outcome is never reported to the caller: every failure is logged and
// the call returns the same way whether or not a link was sent.
func (s *PasswordResetService) RequestReset(ctx context.Context, email, baseURL string) {
	email = NormalizeEmail(email)
	if email == "" {
		return
	}

	user, err := s.reader.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logger.Log.Errorw("failed to look up user for password reset", "err", err)
		}
		return
	}

	token, err := s.tokens.Make(ctx, user)
	if err != nil {
		logger.Log.Errorw("failed to make reset token", "user_id", user.UserID, "err", err)
		return
	}

	link := s.ResetURL(baseURL, EncodeUID(user.UserID), token)
	s.dispatch(ctx, models.Email{
		To:      []string{user.Email},
		From:    s.from,
		Subject: resetEmailSubject,
		Body:    fmt.Sprintf(resetEmailBody, link),
	})
}

// ResetURL builds the absolute confirmation link.
func (s *PasswordResetService) ResetURL(baseURL, uid, token string) string {
	return fmt.Sprintf("%s%s/%s/%s/", strings.TrimRight(baseURL, "/"), s.confirmPath, uid, token)
}

// dispatch sends the email in the background, detached from the request.
func (s *PasswordResetService) dispatch(ctx context.Context, email models.Email) {
	ctx = context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.mailTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.mailTimeout)
			defer cancel()
		}

		if err := s.mailer.Send(ctx, email); err != nil {
			logger.Log.Errorw("failed to send password reset email", "to", email.To, "err", err)
			return
		}
		logger.Log.Infow("password reset email dispatched", "to", email.To)
	}()
}

// Wait blocks until every dispatched email has been handed to the mailer.
func (s *PasswordResetService) Wait() {
	s.wg.Wait()
}

// ConfirmReset checks the token and replaces the user's password. Any problem
// with uid or token is reported as ErrInvalidResetToken.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, uid, token, password, passwordConfirmation string) error {
	userID, err := DecodeUID(uid)
	if err != nil {
		return ErrInvalidResetToken
	}

	user, err := s.reader.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetToken
		}
		logger.Log.Errorw("failed to get user for password reset", "user_id", userID, "err", err)
		return err
	}

	if err := s.tokens.Check(ctx, user, token); err != nil {
		logger.Log.Infow("reset token rejected", "user_id", user.UserID, "err", err)
		return ErrInvalidResetToken
	}

	if password != passwordConfirmation {
		return ErrPasswordMismatch
	}

	verr := &ValidationError{}
	validatePassword(verr, "password", password)
	if err := verr.orNil(); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := s.writer.UpdatePassword(ctx, user.UserID, hash); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", user.UserID, "err", err)
		return err
	}

	logger.Log.Infow("password reset", "user_id", user.UserID)
	return nil
}

// ChangePassword sets a new password for the account with the given email.
func (s *PasswordResetService) ChangePassword(ctx context.Context, email, password string) error {
	verr := &ValidationError{}
	validatePassword(verr, "password", password)
	if err := verr.orNil(); err != nil {
		return err
	}

	user, err := s.reader.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.writer.UpdatePassword(ctx, user.UserID, hash)
}

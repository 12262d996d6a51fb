package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"imagekingbot/core/logger"
	"imagekingbot/internal/models"
	"imagekingbot/internal/otp"
	"log/slog"
)

const (
	defaultOtpTTL       = 5 * time.Minute
	defaultMaxAttempts  = 3
	defaultResendWindow = time.Minute
)

// UsersRepo is the persistence surface needed by registration.
type UsersRepo interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Upsert(ctx context.Context, u *models.User) error
	SetStatus(ctx context.Context, id int64, status models.UserStatus) error
}

// ChallengesRepo is the OTP challenge persistence surface.
type ChallengesRepo interface {
	Get(ctx context.Context, userID int64) (*models.OtpChallenge, error)
	Put(ctx context.Context, c *models.OtpChallenge) error
	IncrementAttempts(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID int64) error
}

// RegistrationOptions tune challenge lifetime and limits. Zero values select
// defaults: 5 minute TTL, 3 attempts, 1 minute resend window.
type RegistrationOptions struct {
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// Registration runs the name/phone/OTP flow.
type Registration struct {
	users      UsersRepo
	challenges ChallengesRepo
	sender     otp.Sender

	ttl          time.Duration
	maxAttempts  int
	resendWindow time.Duration

	now     func() time.Time
	newCode func() string
}

// NewRegistration wires the registration service.
func NewRegistration(users UsersRepo, challenges ChallengesRepo, sender otp.Sender, opts RegistrationOptions) *Registration {
	if opts.TTL <= 0 {
		opts.TTL = defaultOtpTTL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.ResendWindow <= 0 {
		opts.ResendWindow = defaultResendWindow
	}
	return &Registration{
		users:        users,
		challenges:   challenges,
		sender:       sender,
		ttl:          opts.TTL,
		maxAttempts:  opts.MaxAttempts,
		resendWindow: opts.ResendWindow,
		now:          time.Now,
		newCode:      generateCode,
	}
}

func generateCode() string {
	return fmt.Sprintf("%06d", rand.IntN(1000000))
}

// Begin upserts the user as otp-pending, creates a challenge, and delivers the
// code. A Begin within the resend window re-sends the existing code instead of
// rotating it.
func (s *Registration) Begin(ctx context.Context, userID int64, name, phone string) error {
	user := &models.User{
		ID:     userID,
		Name:   name,
		Phone:  phone,
		Status: models.UserOtpPending,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return err
	}

	now := s.now()
	code := ""
	if existing, err := s.challenges.Get(ctx, userID); err != nil {
		return err
	} else if existing != nil && !existing.Expired(now) && now.Sub(existing.CreatedAt) < s.resendWindow {
		code = existing.Code
	}

	if code == "" {
		code = s.newCode()
		challenge := &models.OtpChallenge{
			UserID:    userID,
			Code:      code,
			ExpiresAt: now.Add(s.ttl),
			CreatedAt: now,
		}
		if err := s.challenges.Put(ctx, challenge); err != nil {
			return err
		}
	}

	if err := s.sender.Send(ctx, userID, phone, code); err != nil {
		return fmt.Errorf("otp delivery: %w", err)
	}

	logger.Info(ctx, "service.registration", "otp.sent",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("phone", phone),
	)
	return nil
}

// SubmitOTP verifies the code. Expiry wins over correctness: a code submitted
// after the window always fails with ErrOtpExpired. Exceeding the attempt
// limit destroys the challenge; a fresh Begin is then required.
func (s *Registration) SubmitOTP(ctx context.Context, userID int64, code string) error {
	challenge, err := s.challenges.Get(ctx, userID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return ErrOtpExpired
	}
	if challenge.Expired(s.now()) {
		if err := s.challenges.Delete(ctx, userID); err != nil {
			return err
		}
		return ErrOtpExpired
	}

	if challenge.Code != code {
		attempts, err := s.challenges.IncrementAttempts(ctx, userID)
		if err != nil {
			return err
		}
		if attempts >= s.maxAttempts {
			if err := s.challenges.Delete(ctx, userID); err != nil {
				return err
			}
			logger.Warn(ctx, "service.registration", "otp.attempts_exceeded",
				slog.String("status", "fail"),
				slog.Int64("user_id", userID),
				slog.Int("attempts", attempts),
			)
			return ErrOtpAttemptsExceeded
		}
		return ErrOtpMismatch
	}

	if err := s.challenges.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.users.SetStatus(ctx, userID, models.UserVerified); err != nil {
		return err
	}

	logger.Info(ctx, "service.registration", "user.verified",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	return nil
}

// GetUserByTelegramID resolves the domain user for the helpers layer.
func (s *Registration) GetUserByTelegramID(ctx context.Context, id int64) (*models.User, error) {
	return s.users.Get(ctx, id)
}

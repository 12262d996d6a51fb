package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"imagekingbot/internal/models"
)

// Challenges persists OTP challenges, one per user.
type Challenges struct {
	db *sqlx.DB
}

// NewChallenges constructs the repository.
func NewChallenges(db *sqlx.DB) *Challenges {
	return &Challenges{db: db}
}

// Get returns the active challenge or nil when none exists.
func (r *Challenges) Get(ctx context.Context, userID int64) (*models.OtpChallenge, error) {
	var c models.OtpChallenge
	err := r.db.GetContext(ctx, &c,
		`SELECT user_id, code, expires_at, attempts, created_at FROM otp_challenges WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("challenges get: %w", err)
	}
	return &c, nil
}

// Put replaces the user's challenge, resetting the attempt counter.
func (r *Challenges) Put(ctx context.Context, c *models.OtpChallenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_challenges (user_id, code, expires_at, attempts)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id) DO UPDATE
		SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, attempts = 0, created_at = now()`,
		c.UserID, c.Code, c.ExpiresAt)
	if err != nil {
		return fmt.Errorf("challenges put: %w", err)
	}
	return nil
}

// IncrementAttempts bumps the failed-attempt counter and returns the new value.
func (r *Challenges) IncrementAttempts(ctx context.Context, userID int64) (int, error) {
	var attempts int
	err := r.db.GetContext(ctx, &attempts,
		`UPDATE otp_challenges SET attempts = attempts + 1 WHERE user_id = $1 RETURNING attempts`, userID)
	if err != nil {
		return 0, fmt.Errorf("challenges increment: %w", err)
	}
	return attempts, nil
}

// Delete destroys the user's challenge.
func (r *Challenges) Delete(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_challenges WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("challenges delete: %w", err)
	}
	return nil
}

package models

import "time"

// OtpChallenge binds a one-time code to a user. At most one challenge exists
// per user; it is destroyed on successful verification, expiry, or when the
// attempt limit is exceeded.
type OtpChallenge struct {
	UserID    int64     `db:"user_id"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	Attempts  int       `db:"attempts"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the challenge window has closed.
func (c *OtpChallenge) Expired(now time.Time) bool {
	return c == nil || !now.Before(c.ExpiresAt)
}

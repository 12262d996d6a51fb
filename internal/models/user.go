package models

import "time"

// UserStatus tracks where a user is in the registration flow.
type UserStatus string

const (
	// UserUnverified marks a user who has never completed registration.
	UserUnverified UserStatus = "unverified"
	// UserOtpPending marks a user with an active OTP challenge.
	UserOtpPending UserStatus = "otp_pending"
	// UserVerified marks a user allowed to generate images.
	UserVerified UserStatus = "verified"
)

// User is a soft record keyed by the Telegram user id. It is created on first
// contact and never deleted.
type User struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Phone     string     `db:"phone"`
	Status    UserStatus `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
}

// Verified reports whether the user may request image generation.
func (u *User) Verified() bool {
	return u != nil && u.Status == UserVerified
}

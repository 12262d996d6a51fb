package models

import "time"

// GenerationStatus is the lifecycle of a generation request.
type GenerationStatus string

const (
	GenerationPending   GenerationStatus = "pending"
	GenerationSucceeded GenerationStatus = "succeeded"
	GenerationFailed    GenerationStatus = "failed"
)

// GenerationRequest records a single user-initiated text-to-image call.
// The row is terminal once status leaves pending.
type GenerationRequest struct {
	ID        string           `db:"id"`
	UserID    int64            `db:"user_id"`
	Prompt    string           `db:"prompt"`
	Width     int              `db:"width"`
	Height    int              `db:"height"`
	Status    GenerationStatus `db:"status"`
	CreatedAt time.Time        `db:"created_at"`
}

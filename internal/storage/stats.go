package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"imagekingbot/internal/models"
)

// Stats reads aggregate counters.
type Stats struct {
	db *sqlx.DB
}

// NewStats constructs the repository.
func NewStats(db *sqlx.DB) *Stats {
	return &Stats{db: db}
}

// Load collects service-wide counters in a single round trip.
func (r *Stats) Load(ctx context.Context) (*models.Stats, error) {
	var s models.Stats
	err := r.db.GetContext(ctx, &s, `
		SELECT
			(SELECT count(*) FROM users) AS users,
			(SELECT count(*) FROM users WHERE status = 'verified') AS verified_users,
			(SELECT count(*) FROM generation_requests) AS generations,
			(SELECT count(*) FROM gallery_entries) AS gallery_images`)
	if err != nil {
		return nil, fmt.Errorf("stats load: %w", err)
	}
	return &s, nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"imagekingbot/internal/models"
)

// Generations persists generation request records.
type Generations struct {
	db *sqlx.DB
}

// NewGenerations constructs the repository.
func NewGenerations(db *sqlx.DB) *Generations {
	return &Generations{db: db}
}

// Create inserts a pending request.
func (r *Generations) Create(ctx context.Context, g *models.GenerationRequest) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO generation_requests (id, user_id, prompt, width, height, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.UserID, g.Prompt, g.Width, g.Height, g.Status)
	if err != nil {
		return fmt.Errorf("generations create: %w", err)
	}
	return nil
}

// SetStatus records the terminal outcome of a request.
func (r *Generations) SetStatus(ctx context.Context, id string, status models.GenerationStatus) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE generation_requests SET status = $2 WHERE id = $1`, id, status); err != nil {
		return fmt.Errorf("generations set status: %w", err)
	}
	return nil
}

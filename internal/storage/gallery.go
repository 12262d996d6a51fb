package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"imagekingbot/internal/models"
)

// Gallery persists saved-image entries, append-only per user.
type Gallery struct {
	db *sqlx.DB
}

// NewGallery constructs the repository.
func NewGallery(db *sqlx.DB) *Gallery {
	return &Gallery{db: db}
}

// Insert adds an entry unless one already exists for the same generation.
// It reports whether a row was actually written.
func (r *Gallery) Insert(ctx context.Context, e *models.GalleryEntry) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO gallery_entries (id, user_id, generation_id, image_path)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (generation_id) DO NOTHING`,
		e.ID, e.UserID, e.GenerationID, e.ImagePath)
	if err != nil {
		return false, fmt.Errorf("gallery insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("gallery insert: %w", err)
	}
	return n > 0, nil
}

// List returns all entries for a user in insertion order.
func (r *Gallery) List(ctx context.Context, userID int64) ([]models.GalleryEntry, error) {
	var entries []models.GalleryEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, generation_id, image_path, saved_at
		FROM gallery_entries WHERE user_id = $1 ORDER BY saved_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("gallery list: %w", err)
	}
	return entries, nil
}

// Recent returns the newest n entries, oldest first.
func (r *Gallery) Recent(ctx context.Context, userID int64, n int) ([]models.GalleryEntry, error) {
	var entries []models.GalleryEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, generation_id, image_path, saved_at FROM (
			SELECT id, user_id, generation_id, image_path, saved_at
			FROM gallery_entries WHERE user_id = $1 ORDER BY saved_at DESC, id DESC LIMIT $2
		) last ORDER BY saved_at, id`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("gallery recent: %w", err)
	}
	return entries, nil
}

// Count returns the number of saved entries for log fields.
func (r *Gallery) Count(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n,
		`SELECT count(*) FROM gallery_entries WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("gallery count: %w", err)
	}
	return n, nil
}

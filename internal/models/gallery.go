package models

import "time"

// GalleryEntry references a saved image on disk. Entries are append-only per
// user; GenerationID is unique so repeated saves of the same image are no-ops.
type GalleryEntry struct {
	ID           string    `db:"id"`
	UserID       int64     `db:"user_id"`
	GenerationID string    `db:"generation_id"`
	ImagePath    string    `db:"image_path"`
	SavedAt      time.Time `db:"saved_at"`
}

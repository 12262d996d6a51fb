package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"imagekingbot/core/logger"
	"imagekingbot/internal/models"
	"log/slog"
)

// GalleryRepo is the gallery persistence surface.
type GalleryRepo interface {
	Insert(ctx context.Context, e *models.GalleryEntry) (bool, error)
	List(ctx context.Context, userID int64) ([]models.GalleryEntry, error)
	Recent(ctx context.Context, userID int64, n int) ([]models.GalleryEntry, error)
	Count(ctx context.Context, userID int64) (int, error)
}

// Gallery stores saved images on disk and their entries in the database.
type Gallery struct {
	repo GalleryRepo
	dir  string
}

// NewGallery wires the gallery service. The directory is created on demand.
func NewGallery(repo GalleryRepo, dir string) *Gallery {
	return &Gallery{repo: repo, dir: dir}
}

// Save persists the image and records an entry. Saving the same generation
// twice is a no-op: the existing entry and ordering are preserved.
func (s *Gallery) Save(ctx context.Context, userID int64, generationID string, image []byte) (*models.GalleryEntry, error) {
	entry := &models.GalleryEntry{
		ID:           uuid.NewString(),
		UserID:       userID,
		GenerationID: generationID,
		ImagePath:    filepath.Join(s.dir, uuid.NewString()+".png"),
	}

	inserted, err := s.repo.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	if !inserted {
		logger.Debug(ctx, "service.gallery", "save.duplicate",
			slog.String("status", "skip"),
			slog.Int64("user_id", userID),
			slog.String("generation_id", generationID),
		)
		return entry, nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("gallery dir: %w", err)
	}
	if err := os.WriteFile(entry.ImagePath, image, 0o644); err != nil {
		return nil, fmt.Errorf("gallery write: %w", err)
	}

	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		count = -1
	}
	logger.Info(ctx, "service.gallery", "save.success",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("generation_id", generationID),
		slog.Int("gallery_count", count),
	)
	return entry, nil
}

// List returns every saved entry in insertion order.
func (s *Gallery) List(ctx context.Context, userID int64) ([]models.GalleryEntry, error) {
	return s.repo.List(ctx, userID)
}

// Recent returns the newest n entries, oldest first, for album sends.
func (s *Gallery) Recent(ctx context.Context, userID int64, n int) ([]models.GalleryEntry, error) {
	return s.repo.Recent(ctx, userID, n)
}

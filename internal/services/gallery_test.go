package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagekingbot/internal/models"
)

type fakeGallery struct {
	entries []models.GalleryEntry
}

func (f *fakeGallery) Insert(_ context.Context, e *models.GalleryEntry) (bool, error) {
	for _, existing := range f.entries {
		if existing.GenerationID == e.GenerationID {
			return false, nil
		}
	}
	cp := *e
	cp.SavedAt = time.Now()
	f.entries = append(f.entries, cp)
	return true, nil
}

func (f *fakeGallery) List(_ context.Context, userID int64) ([]models.GalleryEntry, error) {
	var out []models.GalleryEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeGallery) Recent(ctx context.Context, userID int64, n int) ([]models.GalleryEntry, error) {
	all, _ := f.List(ctx, userID)
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (f *fakeGallery) Count(ctx context.Context, userID int64) (int, error) {
	all, _ := f.List(ctx, userID)
	return len(all), nil
}

func TestGallerySaveWritesImage(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeGallery{}
	svc := NewGallery(repo, dir)

	entry, err := svc.Save(context.Background(), 42, "gen-1", []byte("png-bytes"))
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, dir, filepath.Dir(entry.ImagePath))
	data, err := os.ReadFile(entry.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	entries, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "gen-1", entries[0].GenerationID)
}

func TestGallerySaveDuplicateIsNoOp(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeGallery{}
	svc := NewGallery(repo, dir)

	first, err := svc.Save(context.Background(), 42, "gen-1", []byte("v1"))
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), 42, "gen-1", []byte("v2"))
	require.NoError(t, err)

	entries, err := svc.List(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// First write wins; duplicate leaves no second file behind.
	data, err := os.ReadFile(first.ImagePath)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestGallerySaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "gallery")
	svc := NewGallery(&fakeGallery{}, dir)

	entry, err := svc.Save(context.Background(), 42, "gen-1", []byte("x"))
	require.NoError(t, err)
	_, err = os.Stat(entry.ImagePath)
	assert.NoError(t, err)
}

func TestGalleryRecentLimits(t *testing.T) {
	repo := &fakeGallery{}
	svc := NewGallery(repo, t.TempDir())

	for _, id := range []string{"g1", "g2", "g3", "g4", "g5", "g6", "g7"} {
		_, err := svc.Save(context.Background(), 42, id, []byte(id))
		require.NoError(t, err)
	}

	recent, err := svc.Recent(context.Background(), 42, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "g3", recent[0].GenerationID)
	assert.Equal(t, "g7", recent[4].GenerationID)

	empty, err := svc.Recent(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagekingbot/internal/models"
)

type fakeGenerations struct {
	created  []*models.GenerationRequest
	statuses map[string]models.GenerationStatus
}

func newFakeGenerations() *fakeGenerations {
	return &fakeGenerations{statuses: make(map[string]models.GenerationStatus)}
}

func (f *fakeGenerations) Create(_ context.Context, g *models.GenerationRequest) error {
	cp := *g
	f.created = append(f.created, &cp)
	f.statuses[g.ID] = g.Status
	return nil
}

func (f *fakeGenerations) SetStatus(_ context.Context, id string, status models.GenerationStatus) error {
	f.statuses[id] = status
	return nil
}

type fakeProvider struct {
	image []byte
	err   error

	prompt string
	width  int
	height int
}

func (f *fakeProvider) TextToImage(_ context.Context, prompt string, width, height int) ([]byte, error) {
	f.prompt, f.width, f.height = prompt, width, height
	if f.err != nil {
		return nil, f.err
	}
	return f.image, nil
}

func verifiedUsers(id int64) *fakeUsers {
	users := newFakeUsers()
	users.users[id] = &models.User{ID: id, Name: "Alice", Status: models.UserVerified}
	return users
}

func TestGenerateSuccess(t *testing.T) {
	requests := newFakeGenerations()
	provider := &fakeProvider{image: []byte("png-bytes")}
	svc := NewGeneration(verifiedUsers(42), requests, provider)

	result, err := svc.Generate(context.Background(), 42, "a red fox", models.Dimension{Width: 1024, Height: 1024})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []byte("png-bytes"), result.Image)
	assert.NotEmpty(t, result.RequestID)

	assert.Equal(t, "a red fox", provider.prompt)
	assert.Equal(t, 1024, provider.width)
	assert.Equal(t, 1024, provider.height)

	require.Len(t, requests.created, 1)
	assert.Equal(t, models.GenerationPending, requests.created[0].Status)
	assert.Equal(t, models.GenerationSucceeded, requests.statuses[result.RequestID])
}

func TestGenerateUnverified(t *testing.T) {
	users := newFakeUsers()
	users.users[42] = &models.User{ID: 42, Status: models.UserOtpPending}
	requests := newFakeGenerations()
	svc := NewGeneration(users, requests, &fakeProvider{image: []byte("x")})

	_, err := svc.Generate(context.Background(), 42, "p", models.Dimension{Width: 1024, Height: 1024})
	assert.ErrorIs(t, err, ErrUnverified)
	assert.Empty(t, requests.created)
}

func TestGenerateUnknownUser(t *testing.T) {
	svc := NewGeneration(newFakeUsers(), newFakeGenerations(), &fakeProvider{image: []byte("x")})

	_, err := svc.Generate(context.Background(), 404, "p", models.Dimension{Width: 1024, Height: 1024})
	assert.ErrorIs(t, err, ErrUnverified)
}

func TestGenerateInvalidDimensions(t *testing.T) {
	requests := newFakeGenerations()
	svc := NewGeneration(verifiedUsers(42), requests, &fakeProvider{image: []byte("x")})

	_, err := svc.Generate(context.Background(), 42, "p", models.Dimension{Width: 512, Height: 512})
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	assert.Empty(t, requests.created)
}

func TestGenerateProviderFailure(t *testing.T) {
	requests := newFakeGenerations()
	provider := &fakeProvider{err: errors.New("quota exceeded")}
	svc := NewGeneration(verifiedUsers(42), requests, provider)

	_, err := svc.Generate(context.Background(), 42, "p", models.Dimension{Width: 1344, Height: 768})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "PROVIDER_ERROR", provErr.Code())
	assert.ErrorContains(t, err, "quota exceeded")

	require.Len(t, requests.created, 1)
	assert.Equal(t, models.GenerationFailed, requests.statuses[requests.created[0].ID])
}

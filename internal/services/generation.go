package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"imagekingbot/core/logger"
	"imagekingbot/internal/models"
	"log/slog"
)

// Provider is the image generation collaborator.
type Provider interface {
	TextToImage(ctx context.Context, prompt string, width, height int) ([]byte, error)
}

// GenerationsRepo records generation requests and their outcomes.
type GenerationsRepo interface {
	Create(ctx context.Context, g *models.GenerationRequest) error
	SetStatus(ctx context.Context, id string, status models.GenerationStatus) error
}

// GenerationResult is a successful generation: the request id ties the image
// to a later gallery save.
type GenerationResult struct {
	RequestID string
	Image     []byte
}

// Generation dispatches prompts to the provider for verified users only.
type Generation struct {
	users    UsersRepo
	requests GenerationsRepo
	provider Provider
}

// NewGeneration wires the generation service.
func NewGeneration(users UsersRepo, requests GenerationsRepo, provider Provider) *Generation {
	return &Generation{users: users, requests: requests, provider: provider}
}

// Generate validates the caller and dimensions, records the request, and
// forwards to the provider. Provider failures come back as *ProviderError;
// there is no automatic retry.
func (s *Generation) Generate(ctx context.Context, userID int64, prompt string, dim models.Dimension) (*GenerationResult, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Verified() {
		return nil, ErrUnverified
	}
	if !dim.Valid() {
		return nil, ErrInvalidDimensions
	}

	request := &models.GenerationRequest{
		ID:     uuid.NewString(),
		UserID: userID,
		Prompt: prompt,
		Width:  dim.Width,
		Height: dim.Height,
		Status: models.GenerationPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	start := time.Now()
	image, err := s.provider.TextToImage(ctx, prompt, dim.Width, dim.Height)
	if err != nil {
		if stErr := s.requests.SetStatus(ctx, request.ID, models.GenerationFailed); stErr != nil {
			logger.Error(ctx, "service.generation", "request.status",
				slog.String("status", "fail"),
				slog.String("generation_id", request.ID),
				slog.String("err", stErr.Error()),
			)
		}
		logger.Error(ctx, "service.generation", "generate.fail",
			slog.String("status", "fail"),
			slog.Int64("user_id", userID),
			slog.String("generation_id", request.ID),
			slog.Duration("duration", logger.RoundMS(time.Since(start))),
		)
		return nil, &ProviderError{Err: err}
	}

	if err := s.requests.SetStatus(ctx, request.ID, models.GenerationSucceeded); err != nil {
		return nil, err
	}

	logger.Info(ctx, "service.generation", "generate.success",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("generation_id", request.ID),
		slog.Int("width", dim.Width),
		slog.Int("height", dim.Height),
		slog.Int("prompt_len", len(prompt)),
		slog.Int("image_bytes", len(image)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return &GenerationResult{RequestID: request.ID, Image: image}, nil
}

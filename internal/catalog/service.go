// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/carterperez-dev/stillmind/internal/core"
)

// durationPattern matches HH:mm:ss with minutes and seconds below 60.
var durationPattern = regexp.MustCompile(`^\d{2}:[0-5]\d:[0-5]\d$`)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateLevel(
	ctx context.Context,
	req CreateLevelRequest,
) (*Level, error) {
	level := &Level{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Active: req.Active,
	}

	if err := s.repo.CreateLevel(ctx, level); err != nil {
		return nil, err
	}

	s.logger.Info("level created", "level_id", level.ID, "name", level.Name)

	return level, nil
}

func (s *Service) GetLevel(ctx context.Context, id string) (*Level, error) {
	return s.repo.GetLevel(ctx, id)
}

func (s *Service) UpdateLevel(
	ctx context.Context,
	id string,
	req UpdateLevelRequest,
) (*Level, error) {
	level, err := s.repo.GetLevel(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		level.Name = *req.Name
	}
	if req.Active != nil {
		level.Active = *req.Active
	}

	if err := s.repo.UpdateLevel(ctx, level); err != nil {
		return nil, err
	}

	return level, nil
}

func (s *Service) DeleteLevel(ctx context.Context, id string) error {
	return s.repo.DeleteLevel(ctx, id)
}

func (s *Service) CreateBestFor(
	ctx context.Context,
	req CreateBestForRequest,
) (*BestFor, error) {
	bestFor := &BestFor{
		ID:     uuid.New().String(),
		Name:   req.Name,
		Active: req.Active,
	}

	if err := s.repo.CreateBestFor(ctx, bestFor); err != nil {
		return nil, err
	}

	s.logger.Info("best-for created",
		"best_for_id", bestFor.ID,
		"name", bestFor.Name,
	)

	return bestFor, nil
}

func (s *Service) GetBestFor(ctx context.Context, id string) (*BestFor, error) {
	return s.repo.GetBestFor(ctx, id)
}

func (s *Service) UpdateBestFor(
	ctx context.Context,
	id string,
	req UpdateBestForRequest,
) (*BestFor, error) {
	bestFor, err := s.repo.GetBestFor(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bestFor.Name = *req.Name
	}
	if req.Active != nil {
		bestFor.Active = *req.Active
	}

	if err := s.repo.UpdateBestFor(ctx, bestFor); err != nil {
		return nil, err
	}

	return bestFor, nil
}

func (s *Service) DeleteBestFor(ctx context.Context, id string) error {
	return s.repo.DeleteBestFor(ctx, id)
}

// CreateCollection verifies every referenced tag before writing so a
// broken reference surfaces as a client error, not a constraint
// violation.
func (s *Service) CreateCollection(
	ctx context.Context,
	req CreateCollectionRequest,
) (*Collection, error) {
	if err := s.checkCollectionRefs(ctx, req.BestForID, req.LevelIDs); err != nil {
		return nil, err
	}

	collection := &Collection{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		BestForID:   req.BestForID,
		Active:      req.Active,
	}

	if err := s.repo.CreateCollection(ctx, collection); err != nil {
		return nil, err
	}

	if len(req.LevelIDs) > 0 {
		if err := s.repo.ReplaceCollectionLevels(
			ctx, collection.ID, req.LevelIDs,
		); err != nil {
			return nil, err
		}
		collection.LevelIDs = req.LevelIDs
	}

	s.logger.Info("collection created",
		"collection_id", collection.ID,
		"name", collection.Name,
	)

	return collection, nil
}

func (s *Service) GetCollection(
	ctx context.Context,
	id string,
) (*Collection, error) {
	return s.repo.GetCollection(ctx, id)
}

func (s *Service) UpdateCollection(
	ctx context.Context,
	id string,
	req UpdateCollectionRequest,
) (*Collection, error) {
	collection, err := s.repo.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		collection.Name = *req.Name
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	if req.ImageURL != nil {
		collection.ImageURL = req.ImageURL
	}
	if req.BestForID != nil {
		collection.BestForID = req.BestForID
	}
	if req.Active != nil {
		collection.Active = *req.Active
	}

	levelIDs := collection.LevelIDs
	if req.LevelIDs != nil {
		levelIDs = *req.LevelIDs
	}

	if err := s.checkCollectionRefs(ctx, collection.BestForID, levelIDs); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCollection(ctx, collection); err != nil {
		return nil, err
	}

	if req.LevelIDs != nil {
		if err := s.repo.ReplaceCollectionLevels(ctx, id, levelIDs); err != nil {
			return nil, err
		}
		collection.LevelIDs = levelIDs
	}

	return collection, nil
}

func (s *Service) DeleteCollection(ctx context.Context, id string) error {
	return s.repo.DeleteCollection(ctx, id)
}

func (s *Service) CreateAudio(
	ctx context.Context,
	req CreateAudioRequest,
) (*Audio, error) {
	if err := validateDuration(req.Duration); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCollection(ctx, req.CollectionID); err != nil {
		return nil, fmt.Errorf("audio collection: %w", err)
	}

	audio := &Audio{
		ID:           uuid.New().String(),
		CollectionID: req.CollectionID,
		Title:        req.Title,
		Description:  req.Description,
		AudioURL:     req.AudioURL,
		ImageURL:     req.ImageURL,
		Duration:     req.Duration,
		Active:       req.Active,
	}

	if err := s.repo.CreateAudio(ctx, audio); err != nil {
		return nil, err
	}

	s.logger.Info("audio created", "audio_id", audio.ID, "title", audio.Title)

	return audio, nil
}

func (s *Service) GetAudio(ctx context.Context, id string) (*Audio, error) {
	return s.repo.GetAudio(ctx, id)
}

func (s *Service) UpdateAudio(
	ctx context.Context,
	id string,
	req UpdateAudioRequest,
) (*Audio, error) {
	audio, err := s.repo.GetAudio(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CollectionID != nil {
		if _, err := s.repo.GetCollection(ctx, *req.CollectionID); err != nil {
			return nil, fmt.Errorf("audio collection: %w", err)
		}
		audio.CollectionID = *req.CollectionID
	}
	if req.Title != nil {
		audio.Title = *req.Title
	}
	if req.Description != nil {
		audio.Description = *req.Description
	}
	if req.AudioURL != nil {
		audio.AudioURL = *req.AudioURL
	}
	if req.ImageURL != nil {
		audio.ImageURL = req.ImageURL
	}
	if req.Duration != nil {
		if err := validateDuration(*req.Duration); err != nil {
			return nil, err
		}
		audio.Duration = *req.Duration
	}
	if req.Active != nil {
		audio.Active = *req.Active
	}

	if err := s.repo.UpdateAudio(ctx, audio); err != nil {
		return nil, err
	}

	return audio, nil
}

func (s *Service) DeleteAudio(ctx context.Context, id string) error {
	return s.repo.DeleteAudio(ctx, id)
}

func (s *Service) checkCollectionRefs(
	ctx context.Context,
	bestForID *string,
	levelIDs []string,
) error {
	if bestForID != nil {
		if _, err := s.repo.GetBestFor(ctx, *bestForID); err != nil {
			return fmt.Errorf("collection best-for: %w", err)
		}
	}

	for _, levelID := range levelIDs {
		if _, err := s.repo.GetLevel(ctx, levelID); err != nil {
			return fmt.Errorf("collection level %s: %w", levelID, err)
		}
	}

	return nil
}

func validateDuration(duration string) error {
	if !durationPattern.MatchString(duration) {
		return fmt.Errorf(
			"duration %q must be HH:mm:ss: %w", duration, core.ErrInvalidInput)
	}
	return nil
}

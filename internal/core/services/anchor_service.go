package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/core/domain"
)

type AnchorService struct {
	anchorRepo domain.AnchorRepository
	logger     *zap.Logger
}

func NewAnchorService(anchorRepo domain.AnchorRepository, logger *zap.Logger) *AnchorService {
	return &AnchorService{anchorRepo: anchorRepo, logger: logger}
}

type CreateAnchorInput struct {
	UserID string
	Name   string
	Icon   string
	Color  string
}

type UpdateAnchorInput struct {
	ID     string
	UserID string
	Name   *string
	Icon   *string
	Color  *string
}

func (s *AnchorService) Create(ctx context.Context, input CreateAnchorInput) (*domain.Anchor, error) {
	anchor, err := domain.NewAnchor(input.UserID, input.Name, input.Icon, input.Color)
	if err != nil {
		return nil, err
	}
	if err := s.anchorRepo.Create(ctx, anchor); err != nil {
		return nil, err
	}
	return anchor, nil
}

// EnsureDefaults seeds the starter anchor set for a user with none. Called
// lazily on first list so a fresh account always sees something to file
// tasks under.
func (s *AnchorService) EnsureDefaults(ctx context.Context, userID string) ([]*domain.Anchor, error) {
	existing, err := s.anchorRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	defaults := make([]*domain.Anchor, 0, len(domain.DefaultAnchors))
	for _, d := range domain.DefaultAnchors {
		anchor, err := domain.NewAnchor(userID, d.Name, d.Icon, d.Color)
		if err != nil {
			return nil, err
		}
		anchor.IsDefault = true
		defaults = append(defaults, anchor)
	}

	if err := s.anchorRepo.CreateBatch(ctx, defaults); err != nil {
		return nil, err
	}
	s.logger.Info("seeded default anchors", zap.String("user_id", userID))
	return defaults, nil
}

func (s *AnchorService) ListByUserID(ctx context.Context, userID string) ([]*domain.Anchor, error) {
	return s.EnsureDefaults(ctx, userID)
}

func (s *AnchorService) GetByID(ctx context.Context, id, userID string) (*domain.Anchor, error) {
	anchor, err := s.anchorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if anchor.UserID != userID {
		return nil, domain.ErrAnchorNotFound
	}
	return anchor, nil
}

func (s *AnchorService) Update(ctx context.Context, input UpdateAnchorInput) (*domain.Anchor, error) {
	anchor, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	name := anchor.Name
	if input.Name != nil {
		name = *input.Name
	}
	icon := anchor.Icon
	if input.Icon != nil {
		icon = *input.Icon
	}
	color := anchor.Color
	if input.Color != nil {
		color = *input.Color
	}

	if err := anchor.Update(name, icon, color); err != nil {
		return nil, err
	}
	if err := s.anchorRepo.Update(ctx, anchor); err != nil {
		return nil, err
	}
	return anchor, nil
}

func (s *AnchorService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.anchorRepo.Delete(ctx, id)
}

package services

import (
	"context"

	"iptvsite/internal/apperr"
	"iptvsite/internal/models"
)

type SettingsRepo interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, in models.UpdateSettingsRequest) (*models.Settings, error)
}

type SettingsService struct {
	repo SettingsRepo
}

func NewSettingsService(repo SettingsRepo) *SettingsService {
	return &SettingsService{repo: repo}
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	st, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return st, nil
}

func (s *SettingsService) Update(ctx context.Context, in models.UpdateSettingsRequest) (*models.Settings, error) {
	if in.ContactEmail != nil && *in.ContactEmail != "" && !ValidEmail(*in.ContactEmail) {
		return nil, apperr.Validation("Invalid email format")
	}
	if in.LogoWidth != nil && (*in.LogoWidth < 10 || *in.LogoWidth > 1000) {
		return nil, apperr.Validation("logo_width must be between 10 and 1000")
	}
	st, err := s.repo.Update(ctx, in)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return st, nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"
	"iptvsite/internal/models"
	"iptvsite/internal/repository"

	"go.uber.org/zap"
)

type PlanRepo interface {
	List(ctx context.Context, deviceTab string) ([]*models.Plan, error)
	GetByID(ctx context.Context, id int64) (*models.Plan, error)
	Create(ctx context.Context, in models.CreatePlanRequest) (*models.Plan, error)
	Update(ctx context.Context, id int64, in models.UpdatePlanRequest) (*models.Plan, error)
	Delete(ctx context.Context, id int64) error
	ListTabs(ctx context.Context) ([]string, error)
	CountByTab(ctx context.Context, tab string) (int, error)
	RenameTab(ctx context.Context, oldTab, newTab string) (int64, error)
	DeleteTab(ctx context.Context, tab string) (int64, error)
}

type PlanService struct {
	repo PlanRepo
}

func NewPlanService(repo PlanRepo) *PlanService {
	return &PlanService{repo: repo}
}

func (s *PlanService) List(ctx context.Context, deviceTab string) ([]*models.Plan, error) {
	plans, err := s.repo.List(ctx, strings.TrimSpace(deviceTab))
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return plans, nil
}

func (s *PlanService) Get(ctx context.Context, id int64) (*models.Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, planErr(err)
	}
	return p, nil
}

func (s *PlanService) Create(ctx context.Context, in models.CreatePlanRequest) (*models.Plan, error) {
	in.DeviceTab = strings.TrimSpace(in.DeviceTab)
	in.Name = strings.TrimSpace(in.Name)
	in.Price = strings.TrimSpace(in.Price)
	if in.DeviceTab == "" || in.Name == "" || in.Price == "" {
		return nil, apperr.Validation("device_tab, name, and price are required")
	}
	if in.BuyLink != nil && strings.TrimSpace(*in.BuyLink) == "" {
		in.BuyLink = nil
	}

	p, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	logger.WithCtx(ctx).Info("plan created", zap.Int64("plan_id", p.ID), zap.String("device_tab", p.DeviceTab))
	return p, nil
}

func (s *PlanService) Update(ctx context.Context, id int64, in models.UpdatePlanRequest) (*models.Plan, error) {
	if in.Empty() {
		return nil, apperr.Validation("No fields to update")
	}
	for _, f := range []*string{in.DeviceTab, in.Name, in.Price} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return nil, apperr.Validation("device_tab, name, and price cannot be empty")
		}
	}

	p, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, planErr(err)
	}
	return p, nil
}

func (s *PlanService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return planErr(err)
	}
	logger.WithCtx(ctx).Info("plan deleted", zap.Int64("plan_id", id))
	return nil
}

func (s *PlanService) ListTabs(ctx context.Context) ([]string, error) {
	tabs, err := s.repo.ListTabs(ctx)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return tabs, nil
}

// CreateTab materialises a device tab by inserting a placeholder plan into it.
func (s *PlanService) CreateTab(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("Tab name is required")
	}
	n, err := s.repo.CountByTab(ctx, name)
	if err != nil {
		return "", apperr.Server("Server error", err)
	}
	if n > 0 {
		return "", apperr.Validation("This device tab already exists")
	}

	_, err = s.repo.Create(ctx, models.CreatePlanRequest{
		DeviceTab: name,
		Name:      "New Plan",
		Price:     "0",
		Features:  []string{"Feature 1", "Feature 2"},
	})
	if err != nil {
		return "", apperr.Server("Server error", err)
	}
	return name, nil
}

func (s *PlanService) RenameTab(ctx context.Context, oldTab, newTab string) error {
	newTab = strings.TrimSpace(newTab)
	if newTab == "" {
		return apperr.Validation("New tab name is required")
	}

	n, err := s.repo.CountByTab(ctx, oldTab)
	if err != nil {
		return apperr.Server("Server error", err)
	}
	if n == 0 {
		return apperr.NotFound("Device tab not found")
	}
	if newTab == oldTab {
		return nil
	}

	n, err = s.repo.CountByTab(ctx, newTab)
	if err != nil {
		return apperr.Server("Server error", err)
	}
	if n > 0 {
		return apperr.Validation("A tab with this name already exists")
	}

	if _, err := s.repo.RenameTab(ctx, oldTab, newTab); err != nil {
		return apperr.Server("Server error", err)
	}
	logger.WithCtx(ctx).Info("device tab renamed", zap.String("from", oldTab), zap.String("to", newTab))
	return nil
}

func (s *PlanService) DeleteTab(ctx context.Context, tab string) error {
	deleted, err := s.repo.DeleteTab(ctx, tab)
	if err != nil {
		return apperr.Server("Server error", err)
	}
	if deleted == 0 {
		return apperr.NotFound("Device tab not found")
	}
	logger.WithCtx(ctx).Info("device tab deleted", zap.String("tab", tab), zap.Int64("plans", deleted))
	return nil
}

func planErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Plan not found")
	}
	return apperr.Server("Server error", err)
}

package services

import (
	"context"
	"errors"
	"strings"

	"iptvsite/internal/apperr"
	"iptvsite/internal/models"
	"iptvsite/internal/repository"
)

type FAQRepo interface {
	List(ctx context.Context) ([]*models.FAQ, error)
	Create(ctx context.Context, question, answer string, order *int) (*models.FAQ, error)
	Update(ctx context.Context, id int64, in models.UpdateFAQRequest) (*models.FAQ, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, orders map[int64]int) ([]*models.FAQ, error)
}

type FAQService struct {
	repo FAQRepo
}

func NewFAQService(repo FAQRepo) *FAQService {
	return &FAQService{repo: repo}
}

func (s *FAQService) List(ctx context.Context) ([]*models.FAQ, error) {
	faqs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return faqs, nil
}

func (s *FAQService) Create(ctx context.Context, in models.CreateFAQRequest) (*models.FAQ, error) {
	q := strings.TrimSpace(in.Question)
	a := strings.TrimSpace(in.Answer)
	if q == "" || a == "" {
		return nil, apperr.Validation("Question and answer are required")
	}
	f, err := s.repo.Create(ctx, q, a, in.DisplayOrder)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return f, nil
}

func (s *FAQService) Update(ctx context.Context, id int64, in models.UpdateFAQRequest) (*models.FAQ, error) {
	if in.Empty() {
		return nil, apperr.Validation("No fields to update")
	}
	if (in.Question != nil && strings.TrimSpace(*in.Question) == "") ||
		(in.Answer != nil && strings.TrimSpace(*in.Answer) == "") {
		return nil, apperr.Validation("Question and answer are required")
	}
	f, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, faqErr(err)
	}
	return f, nil
}

func (s *FAQService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return faqErr(err)
	}
	return nil
}

// Reorder applies a new ordering. Bare ids take their 1-based position;
// items with an explicit display_order keep it.
func (s *FAQService) Reorder(ctx context.Context, order []models.ReorderItem) ([]*models.FAQ, error) {
	if order == nil {
		return nil, apperr.Validation("Order must be an array")
	}
	orders := make(map[int64]int, len(order))
	for i, it := range order {
		if it.ID <= 0 {
			return nil, apperr.Validation("Order items must reference existing FAQ ids")
		}
		pos := i + 1
		if it.DisplayOrder != nil {
			pos = *it.DisplayOrder
		}
		orders[it.ID] = pos
	}
	faqs, err := s.repo.Reorder(ctx, orders)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return faqs, nil
}

func faqErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("FAQ not found")
	}
	return apperr.Server("Server error", err)
}

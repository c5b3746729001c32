package services

import (
	"context"
	"testing"

	"iptvsite/internal/apperr"
	"iptvsite/internal/models"
)

type recordingFAQRepo struct {
	orders map[int64]int
}

func (r *recordingFAQRepo) List(context.Context) ([]*models.FAQ, error) { return nil, nil }

func (r *recordingFAQRepo) Create(_ context.Context, q, a string, order *int) (*models.FAQ, error) {
	f := &models.FAQ{ID: 1, Question: q, Answer: a}
	if order != nil {
		f.DisplayOrder = *order
	}
	return f, nil
}

func (r *recordingFAQRepo) Update(context.Context, int64, models.UpdateFAQRequest) (*models.FAQ, error) {
	return nil, nil
}

func (r *recordingFAQRepo) Delete(context.Context, int64) error { return nil }

func (r *recordingFAQRepo) Reorder(_ context.Context, orders map[int64]int) ([]*models.FAQ, error) {
	r.orders = orders
	return nil, nil
}

func TestReorderFAQs(t *testing.T) {
	repo := &recordingFAQRepo{}
	svc := NewFAQService(repo)
	ctx := context.Background()

	if _, err := svc.Reorder(ctx, nil); apperr.Message(err, "") != "Order must be an array" {
		t.Fatalf("nil order: %v", err)
	}
	if _, err := svc.Reorder(ctx, []models.ReorderItem{{ID: 0}}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("zero id: %v", err)
	}

	_, err := svc.Reorder(ctx, []models.ReorderItem{{ID: 7}, {ID: 3}, {ID: 5, DisplayOrder: ptr(10)}})
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	want := map[int64]int{7: 1, 3: 2, 5: 10}
	for id, pos := range want {
		if repo.orders[id] != pos {
			t.Fatalf("orders = %v, want %v", repo.orders, want)
		}
	}
}

func TestCreateAndUpdateFAQValidation(t *testing.T) {
	svc := NewFAQService(&recordingFAQRepo{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, models.CreateFAQRequest{Question: "Q?", Answer: " "}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("blank answer: %v", err)
	}
	f, err := svc.Create(ctx, models.CreateFAQRequest{Question: " Q? ", Answer: "A", DisplayOrder: ptr(4)})
	if err != nil || f.Question != "Q?" || f.DisplayOrder != 4 {
		t.Fatalf("create: %+v %v", f, err)
	}

	if _, err := svc.Update(ctx, 1, models.UpdateFAQRequest{}); apperr.Message(err, "") != "No fields to update" {
		t.Fatalf("empty update: %v", err)
	}
	if _, err := svc.Update(ctx, 1, models.UpdateFAQRequest{Question: ptr("")}); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("blank question: %v", err)
	}
}

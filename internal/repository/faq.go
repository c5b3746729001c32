package repository

import (
	"context"
	"errors"

	"iptvsite/internal/db"
	"iptvsite/internal/logger"
	"iptvsite/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type FAQRepository struct {
	db *pgxpool.Pool
}

func NewFAQRepository(db *pgxpool.Pool) *FAQRepository {
	return &FAQRepository{db: db}
}

const faqColumns = `id, question, answer, display_order`

func (r *FAQRepository) List(ctx context.Context) ([]*models.FAQ, error) {
	faqs := []*models.FAQ{}
	err := pgxscan.Select(ctx, r.db, &faqs,
		`SELECT `+faqColumns+` FROM faqs ORDER BY display_order ASC, id ASC`)
	if err != nil {
		logger.Log.Error("list faqs failed (repo)", zap.Error(err))
		return nil, err
	}
	return faqs, nil
}

// Create inserts a FAQ; a nil order appends it after the current maximum.
func (r *FAQRepository) Create(ctx context.Context, question, answer string, order *int) (*models.FAQ, error) {
	var f models.FAQ
	err := pgxscan.Get(ctx, r.db, &f, `
		INSERT INTO faqs (question, answer, display_order)
		VALUES ($1, $2, COALESCE($3::int, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM faqs)))
		RETURNING `+faqColumns,
		question, answer, order)
	if err != nil {
		logger.Log.Error("create faq failed (repo)", zap.Error(err))
		return nil, err
	}
	return &f, nil
}

func (r *FAQRepository) Update(ctx context.Context, id int64, in models.UpdateFAQRequest) (*models.FAQ, error) {
	var b setBuilder
	if in.Question != nil {
		b.add("question", *in.Question)
	}
	if in.Answer != nil {
		b.add("answer", *in.Answer)
	}
	if in.DisplayOrder != nil {
		b.add("display_order", *in.DisplayOrder)
	}
	if b.empty() {
		return nil, errors.New("no fields to update")
	}

	set, idx := b.build()
	var f models.FAQ
	err := pgxscan.Get(ctx, r.db, &f,
		`UPDATE faqs SET `+set+` WHERE id = $`+itoa(idx)+` RETURNING `+faqColumns,
		append(b.args, id)...)
	if err != nil {
		return nil, mapErr(err)
	}
	return &f, nil
}

func (r *FAQRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder sets display_order for each pair in one transaction and returns the new list.
func (r *FAQRepository) Reorder(ctx context.Context, orders map[int64]int) ([]*models.FAQ, error) {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for id, order := range orders {
			batch.Queue(`UPDATE faqs SET display_order = $1 WHERE id = $2`, order, id)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		logger.Log.Error("reorder faqs failed (repo)", zap.Error(err))
		return nil, err
	}
	return r.List(ctx)
}

package repository

import (
	"context"
	"encoding/json"

	"iptvsite/internal/logger"
	"iptvsite/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, device_tab, name, price, features, display_order, is_featured, buy_link, use_whatsapp, created_at, updated_at`

func featuresJSON(f []string) string {
	if f == nil {
		f = []string{}
	}
	b, _ := json.Marshal(f)
	return string(b)
}

func (r *PlanRepository) List(ctx context.Context, deviceTab string) ([]*models.Plan, error) {
	plans := []*models.Plan{}
	var err error
	if deviceTab != "" {
		err = pgxscan.Select(ctx, r.db, &plans,
			`SELECT `+planColumns+` FROM plans WHERE device_tab = $1 ORDER BY device_tab, display_order, id`, deviceTab)
	} else {
		err = pgxscan.Select(ctx, r.db, &plans,
			`SELECT `+planColumns+` FROM plans ORDER BY device_tab, display_order, id`)
	}
	if err != nil {
		logger.Log.Error("list plans failed (repo)", zap.Error(err))
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*models.Plan, error) {
	var p models.Plan
	if err := pgxscan.Get(ctx, r.db, &p, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *PlanRepository) Create(ctx context.Context, in models.CreatePlanRequest) (*models.Plan, error) {
	var p models.Plan
	err := pgxscan.Get(ctx, r.db, &p, `
		INSERT INTO plans (device_tab, name, price, features, display_order, is_featured, buy_link, use_whatsapp)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8)
		RETURNING `+planColumns,
		in.DeviceTab, in.Name, in.Price, featuresJSON(in.Features),
		in.DisplayOrder, in.IsFeatured, in.BuyLink, in.UseWhatsApp)
	if err != nil {
		logger.Log.Error("create plan failed (repo)", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// Update applies the non-nil fields of in. ErrNotFound if the plan does not exist.
func (r *PlanRepository) Update(ctx context.Context, id int64, in models.UpdatePlanRequest) (*models.Plan, error) {
	var b setBuilder
	if in.DeviceTab != nil {
		b.add("device_tab", *in.DeviceTab)
	}
	if in.Name != nil {
		b.add("name", *in.Name)
	}
	if in.Price != nil {
		b.add("price", *in.Price)
	}
	if in.Features != nil {
		b.add("features", featuresJSON(*in.Features))
		b.parts[len(b.parts)-1] += "::jsonb"
	}
	if in.DisplayOrder != nil {
		b.add("display_order", *in.DisplayOrder)
	}
	if in.IsFeatured != nil {
		b.add("is_featured", *in.IsFeatured)
	}
	if in.BuyLink != nil {
		var link *string
		if *in.BuyLink != "" {
			link = in.BuyLink
		}
		b.add("buy_link", link)
	}
	if in.UseWhatsApp != nil {
		b.add("use_whatsapp", *in.UseWhatsApp)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	b.addRaw("updated_at = now()")

	set, idx := b.build()
	var p models.Plan
	err := pgxscan.Get(ctx, r.db, &p,
		`UPDATE plans SET `+set+` WHERE id = $`+itoa(idx)+` RETURNING `+planColumns,
		append(b.args, id)...)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTabs returns distinct device tabs, ordered by their leading number ("1 Device", "2 Devices", ...).
func (r *PlanRepository) ListTabs(ctx context.Context) ([]string, error) {
	tabs := []string{}
	err := pgxscan.Select(ctx, r.db, &tabs, `
		SELECT device_tab FROM (SELECT DISTINCT device_tab FROM plans) t
		ORDER BY COALESCE(substring(device_tab FROM '^[0-9]+')::int, 0), device_tab`)
	if err != nil {
		logger.Log.Error("list device tabs failed (repo)", zap.Error(err))
		return nil, err
	}
	return tabs, nil
}

func (r *PlanRepository) CountByTab(ctx context.Context, tab string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plans WHERE device_tab = $1`, tab).Scan(&n)
	return n, err
}

func (r *PlanRepository) RenameTab(ctx context.Context, oldTab, newTab string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE plans SET device_tab = $1, updated_at = now() WHERE device_tab = $2`, newTab, oldTab)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PlanRepository) DeleteTab(ctx context.Context, tab string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM plans WHERE device_tab = $1`, tab)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package repository

import (
	"context"

	"iptvsite/internal/logger"
	"iptvsite/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

const settingsColumns = `logo_url, logo_text, use_logo_image, logo_width, favicon_url, contact_email,
	whatsapp_number, google_analytics_id, google_analytics_measurement_id,
	hero_heading, hero_paragraph, supported_devices_paragraph, updated_at`

// Get returns the singleton row, creating it with defaults if the table is empty.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	err := pgxscan.Get(ctx, r.db, &s, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`)
	if err == nil {
		return &s, nil
	}
	if mapErr(err) != ErrNotFound {
		logger.Log.Error("get settings failed (repo)", zap.Error(err))
		return nil, err
	}

	err = pgxscan.Get(ctx, r.db, &s, `
		INSERT INTO settings (id) VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING `+settingsColumns)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, in models.UpdateSettingsRequest) (*models.Settings, error) {
	var b setBuilder
	str := func(col string, v *string) {
		if v != nil {
			b.add(col, *v)
		}
	}
	str("logo_url", in.LogoURL)
	str("logo_text", in.LogoText)
	if in.UseLogoImage != nil {
		b.add("use_logo_image", *in.UseLogoImage)
	}
	if in.LogoWidth != nil {
		b.add("logo_width", *in.LogoWidth)
	}
	str("favicon_url", in.FaviconURL)
	str("contact_email", in.ContactEmail)
	str("whatsapp_number", in.WhatsAppNumber)
	str("google_analytics_id", in.GoogleAnalyticsID)
	str("google_analytics_measurement_id", in.GoogleAnalyticsMeasurementID)
	str("hero_heading", in.HeroHeading)
	str("hero_paragraph", in.HeroParagraph)
	str("supported_devices_paragraph", in.SupportedDevicesParagraph)

	if _, err := r.Get(ctx); err != nil {
		return nil, err
	}
	if b.empty() {
		return r.Get(ctx)
	}
	b.addRaw("updated_at = now()")

	set, _ := b.build()
	var s models.Settings
	err := pgxscan.Get(ctx, r.db, &s, `UPDATE settings SET `+set+` WHERE id = 1 RETURNING `+settingsColumns, b.args...)
	if err != nil {
		logger.Log.Error("update settings failed (repo)", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

package repository

import (
	"context"

	"iptvsite/internal/logger"
	"iptvsite/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, email, password_hash, personal_email, token_version, created_at, updated_at`

func (r *AdminRepository) Create(ctx context.Context, email, passwordHash string) (*models.Admin, error) {
	logger.Log.Info("creating admin (repo)", zap.String("email", email))
	var a models.Admin
	err := pgxscan.Get(ctx, r.db, &a,
		`INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING `+adminColumns,
		email, passwordHash)
	if err != nil {
		logger.Log.Error("create admin failed (repo)", zap.Error(err))
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := pgxscan.Get(ctx, r.db, &a,
		`SELECT `+adminColumns+` FROM admins WHERE email = lower($1)`, email)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	var a models.Admin
	err := pgxscan.Get(ctx, r.db, &a,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return &a, nil
}

func (r *AdminRepository) EmailTakenByOther(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE email = lower($1) AND id <> $2)`,
		email, excludeID).Scan(&exists)
	if err != nil {
		logger.Log.Error("email uniqueness check failed (repo)", zap.Error(err))
	}
	return exists, err
}

// UpdateEmail changes the login email and invalidates existing sessions.
func (r *AdminRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE admins SET email = lower($1), token_version = token_version + 1, updated_at = now() WHERE id = $2`,
		email, id)
	if err != nil {
		logger.Log.Error("update admin email failed (repo)", zap.Int64("admin_id", id), zap.Error(err))
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword stores a new hash and invalidates existing sessions.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE admins SET password_hash = $1, token_version = token_version + 1, updated_at = now() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		logger.Log.Error("update admin password failed (repo)", zap.Int64("admin_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminRepository) UpdatePersonalEmail(ctx context.Context, id int64, personalEmail *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE admins SET personal_email = $1, updated_at = now() WHERE id = $2`,
		personalEmail, id)
	if err != nil {
		logger.Log.Error("update personal email failed (repo)", zap.Int64("admin_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

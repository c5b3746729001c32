package repository

import (
	"context"
	"errors"
	"time"

	"iptvsite/internal/db"
	"iptvsite/internal/logger"
	"iptvsite/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrAdminGone means the reset row matched but its admin no longer exists.
var ErrAdminGone = errors.New("admin not found")

type PasswordResetRepository struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// lockEmailSQL serialises writers for one email until the transaction ends.
const lockEmailSQL = `SELECT pg_advisory_xact_lock(hashtext($1))`

// ReplaceOTP removes every reset row for email and stores a fresh OTP. Concurrent
// callers for the same email queue on an advisory lock, and the partial unique
// index on password_resets(email) rejects a second OTP row outright.
func (r *PasswordResetRepository) ReplaceOTP(ctx context.Context, adminID int64, email, otp string, expiresAt time.Time) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockEmailSQL, email); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE email = $1`, email); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO password_resets (admin_id, email, otp, expires_at) VALUES ($1, $2, $3, $4)`,
			adminID, email, otp, expiresAt)
		return mapErr(err)
	})
	if err != nil {
		logger.Log.Error("store otp failed (repo)", zap.Int64("admin_id", adminID), zap.Error(err))
	}
	return err
}

// RedeemOTP consumes a live OTP and sets the admin password atomically.
// ErrNotFound means no unused, unexpired row matched.
func (r *PasswordResetRepository) RedeemOTP(ctx context.Context, email, otp, passwordHash string) (int64, error) {
	return r.redeem(ctx,
		`UPDATE password_resets SET used = true
		 WHERE email = $1 AND otp = $2 AND used = false AND expires_at > now()
		 RETURNING admin_id`,
		passwordHash, email, otp)
}

// ReplaceToken stores a link token, dropping earlier tokens of the same admin.
func (r *PasswordResetRepository) ReplaceToken(ctx context.Context, adminID int64, email, token string, expiresAt time.Time) error {
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE admin_id = $1 AND token IS NOT NULL`, adminID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO password_resets (admin_id, email, token, expires_at) VALUES ($1, $2, $3, $4)`,
			adminID, email, token, expiresAt)
		return err
	})
	if err != nil {
		logger.Log.Error("store reset token failed (repo)", zap.Int64("admin_id", adminID), zap.Error(err))
	}
	return err
}

func (r *PasswordResetRepository) FindValidToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	var rec models.PasswordReset
	err := pgxscan.Get(ctx, r.db, &rec, `
		SELECT id, admin_id, email, token, otp, expires_at, used, created_at
		FROM password_resets
		WHERE token = $1 AND used = false AND expires_at > now()`, token)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rec, nil
}

func (r *PasswordResetRepository) RedeemToken(ctx context.Context, token, passwordHash string) (int64, error) {
	return r.redeem(ctx,
		`UPDATE password_resets SET used = true
		 WHERE token = $1 AND used = false AND expires_at > now()
		 RETURNING admin_id`,
		passwordHash, token)
}

func (r *PasswordResetRepository) redeem(ctx context.Context, consumeSQL, passwordHash string, args ...any) (int64, error) {
	var adminID int64
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, consumeSQL, args...).Scan(&adminID); err != nil {
			return mapErr(err)
		}
		tag, err := tx.Exec(ctx,
			`UPDATE admins SET password_hash = $1, token_version = token_version + 1, updated_at = now() WHERE id = $2`,
			passwordHash, adminID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrAdminGone
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Log.Error("redeem reset failed (repo)", zap.Error(err))
	}
	return adminID, err
}

// DeleteStale removes rows that are used or expired.
func (r *PasswordResetRepository) DeleteStale(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE used = true OR expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

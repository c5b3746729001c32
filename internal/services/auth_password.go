package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"
	"iptvsite/internal/models"
	"iptvsite/internal/repository"
	"iptvsite/internal/utils"
	"iptvsite/internal/utils/helpers"

	"go.uber.org/zap"
)

const (
	MsgOTPRequested   = "If this email is registered, you will receive an OTP code."
	MsgOTPRedeemed    = "Password reset successfully. You can now login with your new password."
	MsgTokenRequested = "If this email exists, recovery instructions have been sent."
	MsgTokenRedeemed  = "Password has been reset successfully. You can now login with your new password."
	MsgDefaultReset   = "Password has been reset to the default credentials."
)

type ResetRepo interface {
	ReplaceOTP(ctx context.Context, adminID int64, email, otp string, expiresAt time.Time) error
	RedeemOTP(ctx context.Context, email, otp, passwordHash string) (int64, error)
	ReplaceToken(ctx context.Context, adminID int64, email, token string, expiresAt time.Time) error
	FindValidToken(ctx context.Context, token string) (*models.PasswordReset, error)
	RedeemToken(ctx context.Context, token, passwordHash string) (int64, error)
}

type PasswordServiceConfig struct {
	FrontendURL          string
	OTPTTL               time.Duration
	TokenTTL             time.Duration
	DefaultAdminEmail    string
	DefaultAdminPassword string
	AllowDefaultReset    bool
}

// PasswordService runs both recovery flows: a 6-digit OTP and an emailed link token.
type PasswordService struct {
	admins AdminRepo
	resets ResetRepo
	mailer Mailer
	cfg    PasswordServiceConfig
	now    func() time.Time

	newOTP   func() (string, error)
	newToken func() (string, error)
}

func NewPasswordService(admins AdminRepo, resets ResetRepo, mailer Mailer, cfg PasswordServiceConfig) *PasswordService {
	return &PasswordService{
		admins:   admins,
		resets:   resets,
		mailer:   mailer,
		cfg:      cfg,
		now:      time.Now,
		newOTP:   GenerateOTP,
		newToken: GenerateResetToken,
	}
}

// GenerateOTP returns a uniformly random code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GenerateResetToken returns 256 random bits, hex encoded.
func GenerateResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

func (s *PasswordService) lookup(ctx context.Context, email string) (*models.Admin, error) {
	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Server("Server error", err)
	}
	return a, nil
}

// RequestOTP issues a new OTP for email, replacing any earlier one, and mails it.
// Unknown emails get the same answer as known ones.
func (s *PasswordService) RequestOTP(ctx context.Context, email string) error {
	log := logger.WithCtx(ctx)
	email = NormalizeEmail(email)
	if email == "" {
		return apperr.Validation("Email is required")
	}

	admin, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}
	if admin == nil {
		log.Info("otp requested for unknown email", zap.String("email", utils.MaskEmail(email)))
		return nil
	}

	code, err := s.newOTP()
	if err != nil {
		return apperr.Server("Server error", err)
	}
	expires := s.now().Add(s.cfg.OTPTTL)
	if err := s.resets.ReplaceOTP(ctx, admin.ID, admin.Email, code, expires); err != nil {
		return apperr.Server("Server error", err)
	}

	to := admin.RecoveryAddress()
	body := helpers.BuildOTPHTML(code, int(s.cfg.OTPTTL/time.Minute))
	if err := s.mailer.Send(ctx, to, "Password Reset Code", body); err != nil {
		log.Error("otp email failed", zap.Int64("admin_id", admin.ID), zap.Error(err))
		return apperr.Server("Failed to send OTP email. Please check email configuration.", err)
	}

	log.Info("otp issued",
		zap.Int64("admin_id", admin.ID),
		zap.String("sent_to", utils.MaskEmail(to)),
		zap.Time("expires_at", expires),
	)
	return nil
}

// RedeemOTP sets a new password if (email, otp) names an unused, unexpired code.
// The code is consumed and the password stored in one transaction.
func (s *PasswordService) RedeemOTP(ctx context.Context, email, otp, newPassword string) error {
	log := logger.WithCtx(ctx)
	email = NormalizeEmail(email)
	if email == "" || otp == "" || newPassword == "" {
		return apperr.Validation("Email, OTP, and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return apperr.Validation("Password must be at least 8 characters long")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Server("Server error", err)
	}

	adminID, err := s.resets.RedeemOTP(ctx, email, otp, hash)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Warn("invalid or expired otp", zap.String("email", utils.MaskEmail(email)))
		return apperr.Validation("Invalid or expired OTP code")
	case errors.Is(err, repository.ErrAdminGone):
		return apperr.NotFound("Admin account not found")
	case err != nil:
		return apperr.Server("Server error", err)
	}

	log.Info("password reset via otp", zap.Int64("admin_id", adminID))
	return nil
}

// RequestTokenReset mails a one-hour reset link. The boolean reports that the
// default-credential reset ran instead, which only happens when enabled.
func (s *PasswordService) RequestTokenReset(ctx context.Context, email string) (bool, error) {
	log := logger.WithCtx(ctx)
	email = NormalizeEmail(email)
	if email == "" {
		return false, apperr.Validation("Email is required")
	}

	admin, err := s.lookup(ctx, email)
	if err != nil {
		return false, err
	}
	if admin == nil {
		log.Info("reset link requested for unknown email", zap.String("email", utils.MaskEmail(email)))
		return false, nil
	}

	if s.cfg.AllowDefaultReset && email == s.cfg.DefaultAdminEmail {
		if err := s.ResetToDefaultCredentials(ctx, email); err != nil {
			return false, err
		}
		return true, nil
	}

	token, err := s.newToken()
	if err != nil {
		return false, apperr.Server("Server error", err)
	}
	expires := s.now().Add(s.cfg.TokenTTL)
	if err := s.resets.ReplaceToken(ctx, admin.ID, admin.Email, token, expires); err != nil {
		return false, apperr.Server("Server error", err)
	}

	link := s.cfg.FrontendURL + "/admin/reset-password?token=" + url.QueryEscape(token)
	to := admin.RecoveryAddress()
	body := helpers.BuildPasswordResetHTML(link, int(s.cfg.TokenTTL/time.Minute))
	if err := s.mailer.Send(ctx, to, "Password Recovery", body); err != nil {
		log.Error("reset email failed", zap.Int64("admin_id", admin.ID), zap.Error(err))
		return false, apperr.Server("Failed to send reset email. Please check email configuration or contact administrator.", err)
	}

	log.Info("reset link issued", zap.Int64("admin_id", admin.ID), zap.Time("expires_at", expires))
	return false, nil
}

// VerifyResetToken reports whether token is live and, if so, the email it belongs to.
func (s *PasswordService) VerifyResetToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Validation("Invalid or expired reset token")
	}
	rec, err := s.resets.FindValidToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.Validation("Invalid or expired reset token")
		}
		return "", apperr.Server("Server error", err)
	}
	// The login email may have changed since the row was written.
	admin, err := s.admins.GetByID(ctx, rec.AdminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperr.Validation("Invalid or expired reset token")
		}
		return "", apperr.Server("Server error", err)
	}
	return admin.Email, nil
}

func (s *PasswordService) ResetWithToken(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperr.Validation("Token and new password are required")
	}
	if len(newPassword) < MinPasswordLength {
		return apperr.Validation("Password must be at least 8 characters long")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Server("Server error", err)
	}

	adminID, err := s.resets.RedeemToken(ctx, token, hash)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.Validation("Invalid or expired reset token. Please request a new password reset.")
	case errors.Is(err, repository.ErrAdminGone):
		return apperr.NotFound("Admin account not found")
	case err != nil:
		return apperr.Server("Server error", err)
	}

	logger.WithCtx(ctx).Info("password reset via link", zap.Int64("admin_id", adminID))
	return nil
}

// ResetToDefaultCredentials restores the configured default password for the
// admin whose login email is the configured default address. Callers decide
// whether the requester is allowed to do this.
func (s *PasswordService) ResetToDefaultCredentials(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email != s.cfg.DefaultAdminEmail {
		return apperr.Validation("Only the default admin account can be reset to default credentials")
	}

	admin, err := s.lookup(ctx, email)
	if err != nil {
		return err
	}
	if admin == nil {
		return apperr.NotFound("Admin account not found")
	}

	hash, err := utils.HashPassword(s.cfg.DefaultAdminPassword)
	if err != nil {
		return apperr.Server("Server error", err)
	}
	if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
		return apperr.Server("Server error", err)
	}

	logger.WithCtx(ctx).Warn("admin reset to default credentials", zap.Int64("admin_id", admin.ID))
	return nil
}

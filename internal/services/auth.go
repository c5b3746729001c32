package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"
	"iptvsite/internal/models"
	"iptvsite/internal/repository"
	"iptvsite/internal/utils"

	"go.uber.org/zap"
)

const MinPasswordLength = 8

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	errInvalidCredentials = apperr.Auth("Invalid credentials")
)

type AdminRepo interface {
	Create(ctx context.Context, email, passwordHash string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	EmailTakenByOther(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdatePersonalEmail(ctx context.Context, id int64, personalEmail *string) error
}

// Session is a freshly issued admin session.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     models.AdminSummary
}

type AuthService struct {
	repo   AdminRepo
	secret string
	ttl    time.Duration
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo AdminRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, secret: secret, ttl: ttl, now: time.Now}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// burnHash spends a bcrypt comparison so unknown emails take as long as wrong passwords.
func (s *AuthService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("not-a-real-password")
	})
	_ = utils.CheckPassword(s.dummyHash, password)
}

// Login verifies credentials and issues a session. Unknown email and wrong
// password fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	log := logger.WithCtx(ctx)
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.burnHash(password)
			log.Warn("login failed", zap.String("email", utils.MaskEmail(email)))
			return nil, errInvalidCredentials
		}
		return nil, apperr.Server("Server error", err)
	}

	if !utils.CheckPassword(admin.PasswordHash, password) {
		log.Warn("login failed", zap.String("email", utils.MaskEmail(email)))
		return nil, errInvalidCredentials
	}

	now := s.now()
	token, err := utils.GenerateToken(s.secret, admin.ID, admin.Email, admin.TokenVersion, now, s.ttl)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}

	log.Info("admin logged in", zap.Int64("admin_id", admin.ID))
	return &Session{
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		Admin:     models.AdminSummary{ID: admin.ID, Email: admin.Email},
	}, nil
}

// Reissue mints a session for the admin's current credential version. Used after
// a password change so the caller stays signed in while older sessions lapse.
func (s *AuthService) Reissue(ctx context.Context, adminID int64) (*Session, error) {
	a, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	token, err := utils.GenerateToken(s.secret, a.ID, a.Email, a.TokenVersion, now, s.ttl)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	return &Session{Token: token, ExpiresAt: now.Add(s.ttl), Admin: models.AdminSummary{ID: a.ID, Email: a.Email}}, nil
}

// CheckSession never fails loudly: any problem means "not authenticated".
func (s *AuthService) CheckSession(ctx context.Context, token string) (*models.AdminSummary, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := utils.ParseToken(s.secret, token, s.now())
	if err != nil {
		return nil, false
	}

	admin, err := s.repo.GetByID(ctx, claims.AdminID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.WithCtx(ctx).Error("session lookup failed", zap.Error(err))
		}
		return nil, false
	}
	if admin.TokenVersion != claims.Version || admin.Email != claims.Email {
		return nil, false
	}
	return &models.AdminSummary{ID: admin.ID, Email: admin.Email}, true
}

func (s *AuthService) admin(ctx context.Context, adminID int64) (*models.Admin, error) {
	a, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Admin not found")
		}
		return nil, apperr.Server("Server error", err)
	}
	return a, nil
}

func (s *AuthService) AccountInfo(ctx context.Context, adminID int64) (*models.AccountInfo, error) {
	a, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return &models.AccountInfo{ID: a.ID, Email: a.Email, CreatedAt: a.CreatedAt}, nil
}

func (s *AuthService) Profile(ctx context.Context, adminID int64) (*models.AdminProfile, error) {
	a, err := s.admin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return &models.AdminProfile{ID: a.ID, Email: a.Email, PersonalEmail: a.PersonalEmail, CreatedAt: a.CreatedAt}, nil
}

// ChangePassword validates everything before touching the store.
func (s *AuthService) ChangePassword(ctx context.Context, adminID int64, current, newPassword, confirm string) error {
	if current == "" || newPassword == "" || confirm == "" {
		return apperr.Validation("All password fields are required")
	}
	if len(newPassword) < MinPasswordLength {
		return apperr.Validation("New password must be at least 8 characters long")
	}
	if newPassword != confirm {
		return apperr.Validation("New passwords do not match")
	}

	a, err := s.admin(ctx, adminID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(a.PasswordHash, current) {
		return apperr.Auth("Current password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperr.Server("Failed to change password", err)
	}
	if err := s.repo.UpdatePassword(ctx, adminID, hash); err != nil {
		return apperr.Server("Failed to change password", err)
	}

	logger.WithCtx(ctx).Info("password changed", zap.Int64("admin_id", adminID))
	return nil
}

// UpdateLoginEmail changes the login email. Existing sessions stop validating afterwards.
func (s *AuthService) UpdateLoginEmail(ctx context.Context, adminID int64, newEmail, currentPassword string) (string, error) {
	newEmail = NormalizeEmail(newEmail)
	if newEmail == "" || currentPassword == "" {
		return "", apperr.Validation("New email and current password are required")
	}
	if !ValidEmail(newEmail) {
		return "", apperr.Validation("Invalid email format")
	}

	a, err := s.admin(ctx, adminID)
	if err != nil {
		return "", err
	}
	if !utils.CheckPassword(a.PasswordHash, currentPassword) {
		return "", apperr.Auth("Current password is incorrect")
	}

	taken, err := s.repo.EmailTakenByOther(ctx, newEmail, adminID)
	if err != nil {
		return "", apperr.Server("Failed to update email", err)
	}
	if taken {
		return "", apperr.Validation("Email already in use")
	}

	if err := s.repo.UpdateEmail(ctx, adminID, newEmail); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperr.Validation("Email already in use")
		}
		return "", apperr.Server("Failed to update email", err)
	}

	logger.WithCtx(ctx).Info("login email changed", zap.Int64("admin_id", adminID), zap.String("email", utils.MaskEmail(newEmail)))
	return newEmail, nil
}

// UpdatePersonalEmail sets or clears (empty string) the recovery address.
func (s *AuthService) UpdatePersonalEmail(ctx context.Context, adminID int64, personalEmail string) (*string, error) {
	personalEmail = NormalizeEmail(personalEmail)
	var value *string
	if personalEmail != "" {
		if !ValidEmail(personalEmail) {
			return nil, apperr.Validation("Invalid email format")
		}
		value = &personalEmail
	}

	if err := s.repo.UpdatePersonalEmail(ctx, adminID, value); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("Admin not found")
		}
		return nil, apperr.Server("Failed to update personal email", err)
	}
	return value, nil
}

// CreateAdmin provisions an admin account. Used by the operator CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return nil, apperr.Validation("Invalid email format")
	}
	if len(password) < MinPasswordLength {
		return nil, apperr.Validation("Password must be at least 8 characters long")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Server("Server error", err)
	}
	a, err := s.repo.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Validation("Email already in use")
		}
		return nil, apperr.Server("Server error", err)
	}
	return a, nil
}

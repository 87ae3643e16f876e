package auth

import (
	"context"
	"log/slog"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type Service struct {
	repo   UserRepository
	logger *slog.Logger
}

func NewService(repo UserRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Authenticate validates the login form against the stored digest and
// returns the session to issue. The checks run in a fixed order: unknown
// user, disabled user, then digest mismatch, so a disabled account is
// reported as disabled even with a wrong password.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*session.Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("login lookup failed", "username", dto.Username, "error", err)
		return nil, errors.ErrDatabaseUnavailable
	}
	if user == nil {
		return nil, errors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, errors.ErrUserInactive
	}
	if !VerifyDigest(user.PasswordDigest, dto.Password) {
		return nil, errors.ErrInvalidCredentials
	}

	s.logger.Info("user logged in", "username", user.Username, "role", user.Role)

	return &session.Session{
		UserID:         user.ID,
		Username:       user.Username,
		RealName:       user.RealName,
		Role:           user.Role,
		ManufacturerID: user.ManufacturerID,
	}, nil
}

// EnsureAdmin creates the bootstrap admin account when it is missing.
// Idempotent; used by the seed command and the admin reset route.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	existing, err := s.repo.GetByUsername(ctx, defaultAdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	s.logger.Warn("admin user missing, creating", "username", defaultAdminUsername)

	row := map[string]interface{}{
		"username":        defaultAdminUsername,
		"password":        HashPassword(defaultAdminPassword),
		"real_name":       "系统管理员",
		"role":            session.RoleSuperAdmin,
		"manufacturer_id": nil,
		"email":           "admin@example.com",
		"phone":           "13800138000",
		"is_active":       true,
		"created_by":      "system",
	}
	if err := s.repo.Insert(ctx, row); err != nil {
		s.logger.Error("create admin user failed", "error", err)
		return err
	}

	s.logger.Info("admin user created", "username", defaultAdminUsername)
	return nil
}

package user

import (
	"context"
	"log/slog"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/auth"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/manufacturer"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

// ManufacturerLister supplies the manufacturer dropdown of the
// administration page.
type ManufacturerLister interface {
	List(ctx context.Context) ([]manufacturer.Manufacturer, error)
}

type Service struct {
	repo          RepositoryAPI
	manufacturers ManufacturerLister
	logger        *slog.Logger
}

func NewService(repo RepositoryAPI, manufacturers ManufacturerLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:          repo,
		manufacturers: manufacturers,
		logger:        logger,
	}
}

// ListForSession composes the administration page. A manufacturer_admin
// only sees accounts bound to their own tenant; super_admin sees all.
// A failed manufacturer read degrades to an empty dropdown.
func (s *Service) ListForSession(ctx context.Context, sess *session.Session) (*ManagementView, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		s.logger.Error("ListForSession: user query failed", "error", err)
		return nil, errors.ErrDatabaseUnavailable
	}

	users := make([]User, 0, len(rows))
	for i := range rows {
		if sess.Role == session.RoleManufacturerAdmin && !sameTenant(rows[i].ManufacturerID, sess.ManufacturerID) {
			continue
		}
		users = append(users, *FromDataModel(&rows[i]))
	}

	manufacturers, err := s.manufacturers.List(ctx)
	if err != nil {
		s.logger.Warn("ListForSession: manufacturer list failed, rendering empty", "error", err)
		manufacturers = nil
	}
	if manufacturers == nil {
		manufacturers = []manufacturer.Manufacturer{}
	}

	return &ManagementView{
		View:          "user_management",
		Users:         users,
		Manufacturers: manufacturers,
		UserRoles:     session.RoleNames,
		User:          sess,
	}, nil
}

// Create adds an account. A manufacturer_admin may only create regular
// users and always inside their own tenant, whatever the form says.
func (s *Service) Create(ctx context.Context, sess *session.Session, dto CreateUserDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	var manufacturerID *string
	if dto.ManufacturerID != "" {
		manufacturerID = &dto.ManufacturerID
	}

	if sess.Role == session.RoleManufacturerAdmin {
		if dto.Role != session.RoleUser {
			return errors.NewForbiddenError("您只能创建普通用户", errors.ErrCodeRoleDenied)
		}
		manufacturerID = sess.ManufacturerID
	}

	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("Create: username check failed", "username", dto.Username, "error", err)
		return errors.ErrDatabaseUnavailable
	}
	if existing != nil {
		return errors.ErrUsernameTaken
	}

	row := map[string]interface{}{
		"username":   dto.Username,
		"password":   auth.HashPassword(dto.Password),
		"real_name":  dto.RealName,
		"role":       dto.Role,
		"email":      dto.Email,
		"phone":      dto.Phone,
		"is_active":  true,
		"created_by": sess.Username,
	}
	if manufacturerID != nil {
		row["manufacturer_id"] = *manufacturerID
	} else {
		row["manufacturer_id"] = nil
	}

	if err := s.repo.Insert(ctx, row); err != nil {
		s.logger.Error("Create: insert failed", "username", dto.Username, "error", err)
		return errors.NewInternalError(err.Error(), err)
	}

	s.logger.Info("Create: user created",
		"username", dto.Username, "role", dto.Role, "created_by", sess.Username)
	return nil
}

// ResetPassword replaces the stored digest for one account.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("ResetPassword: lookup failed", "username", dto.Username, "error", err)
		return errors.ErrDatabaseUnavailable
	}
	if existing == nil {
		return errors.ErrUserNotFound
	}

	if err := s.repo.UpdateDigestByUsername(ctx, dto.Username, auth.HashPassword(dto.NewPassword)); err != nil {
		s.logger.Error("ResetPassword: update failed", "username", dto.Username, "error", err)
		return errors.NewInternalError(err.Error(), err)
	}

	s.logger.Info("ResetPassword: digest replaced", "username", dto.Username)
	return nil
}

func sameTenant(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

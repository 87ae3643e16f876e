package manufacturer

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

type Service struct {
	repo      RepositoryAPI
	personnel PersonnelLister
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, personnel PersonnelLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		personnel: personnel,
		logger:    logger,
	}
}

func (s *Service) lookup(ctx context.Context, manufacturerID string) (*Manufacturer, error) {
	dm, err := s.repo.GetByManufacturerID(ctx, manufacturerID)
	if err != nil {
		s.logger.Error("lookup: manufacturer query failed", "manufacturer_id", manufacturerID, "error", err)
		return nil, errors.NewQueryError(fmt.Sprintf("查询失败: %v", err), err)
	}
	if dm == nil {
		return nil, errors.ErrManufacturerNotFound
	}
	return FromDataModel(dm), nil
}

// List returns every manufacturer, for the user management form.
func (s *Service) List(ctx context.Context) ([]Manufacturer, error) {
	rows, err := s.repo.All(ctx)
	if err != nil {
		s.logger.Error("List: manufacturer query failed", "error", err)
		return nil, errors.ErrDatabaseUnavailable
	}
	out := make([]Manufacturer, 0, len(rows))
	for i := range rows {
		out = append(out, *FromDataModel(&rows[i]))
	}
	return out, nil
}

// Register creates a manufacturer after checking the business key is
// still free. The uniqueness check and the insert are two statements,
// so the database unique index stays the real guarantee.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.GetByManufacturerID(ctx, dto.ManufacturerID)
	if err != nil {
		s.logger.Error("Register: duplicate check failed", "manufacturer_id", dto.ManufacturerID, "error", err)
		return errors.ErrDatabaseUnavailable
	}
	if existing != nil {
		return errors.ErrManufacturerExists
	}

	if err := s.repo.Create(ctx, dto.toRow()); err != nil {
		s.logger.Error("Register: insert failed", "manufacturer_id", dto.ManufacturerID, "error", err)
		return errors.NewInternalError(fmt.Sprintf("注册失败: %v", err), err)
	}

	s.logger.Info("Register: manufacturer created", "manufacturer_id", dto.ManufacturerID, "name", dto.Name)
	return nil
}

// Manage composes the management view: the manufacturer plus its
// active personnel, both freshly read. Every handler that renders the
// management state goes through here so the roster can never drift
// from the database. A personnel read failure degrades to an empty
// roster rather than failing the whole view.
func (s *Service) Manage(ctx context.Context, sess *session.Session, manufacturerID string) (*ManageView, error) {
	m, err := s.lookup(ctx, manufacturerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.personnel.ActiveByManufacturer(ctx, manufacturerID)
	if err != nil {
		s.logger.Warn("Manage: personnel list failed, rendering empty roster",
			"manufacturer_id", manufacturerID, "error", err)
		rows = nil
	}

	return &ManageView{
		View:         "manage",
		Manufacturer: m,
		Personnel:    personnelItems(rows),
		User:         sess,
	}, nil
}

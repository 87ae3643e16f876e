package personnel

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	personnelDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/personnel"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ActiveByManufacturer feeds the management view's roster block.
func (s *Service) ActiveByManufacturer(ctx context.Context, manufacturerID string) ([]personnelDatamodel.Personnel, error) {
	return s.repo.ActiveByManufacturer(ctx, manufacturerID)
}

func (s *Service) Add(ctx context.Context, dto AddDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, dto.toRow()); err != nil {
		s.logger.Error("Add: insert failed", "manufacturer_id", dto.ManufacturerID, "error", err)
		return errors.NewInternalError(fmt.Sprintf("添加失败: %v", err), err)
	}

	s.logger.Info("Add: personnel created",
		"manufacturer_id", dto.ManufacturerID, "personnel_name", dto.PersonnelName)
	return nil
}

func (s *Service) Update(ctx context.Context, dto UpdateDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.repo.UpdateByID(ctx, dto.PersonnelID, dto.toPatch()); err != nil {
		s.logger.Error("Update: patch failed", "personnel_id", dto.PersonnelID, "error", err)
		return errors.NewInternalError(fmt.Sprintf("更新失败: %v", err), err)
	}

	s.logger.Info("Update: personnel updated", "personnel_id", dto.PersonnelID)
	return nil
}

// Deactivate is the soft delete: the row stays, is_active drops.
func (s *Service) Deactivate(ctx context.Context, personnelID int64) error {
	if err := s.repo.UpdateByID(ctx, personnelID, map[string]interface{}{"is_active": false}); err != nil {
		s.logger.Error("Deactivate: patch failed", "personnel_id", personnelID, "error", err)
		return errors.NewInternalError(fmt.Sprintf("删除失败: %v", err), err)
	}

	s.logger.Info("Deactivate: personnel deactivated", "personnel_id", personnelID)
	return nil
}

// Restore reverses the soft delete.
func (s *Service) Restore(ctx context.Context, personnelID int64) error {
	if err := s.repo.UpdateByID(ctx, personnelID, map[string]interface{}{"is_active": true}); err != nil {
		s.logger.Error("Restore: patch failed", "personnel_id", personnelID, "error", err)
		return errors.NewInternalError(fmt.Sprintf("恢复失败: %v", err), err)
	}

	s.logger.Info("Restore: personnel restored", "personnel_id", personnelID)
	return nil
}

package postgres

import (
	"context"

	personnelDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/personnel"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
)

type Repository struct {
	manager *database.Manager
}

func NewRepository(manager *database.Manager) *Repository {
	return &Repository{manager: manager}
}

func (r *Repository) ActiveByManufacturer(ctx context.Context, manufacturerID string) ([]personnelDatamodel.Personnel, error) {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return database.Select[personnelDatamodel.Personnel](ctx, store, database.TablePersonnel,
		database.Eq("manufacturer_id", manufacturerID),
		database.Eq("is_active", true))
}

func (r *Repository) Insert(ctx context.Context, row map[string]interface{}) error {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return err
	}
	return store.Insert(ctx, database.TablePersonnel, row).Err
}

func (r *Repository) UpdateByID(ctx context.Context, personnelID int64, patch map[string]interface{}) error {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return err
	}
	return store.Update(ctx, database.TablePersonnel, patch, database.Eq("id", personnelID)).Err
}

package postgres

import (
	"context"

	manufacturerDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/manufacturer"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
)

type Repository struct {
	manager *database.Manager
}

func NewRepository(manager *database.Manager) *Repository {
	return &Repository{manager: manager}
}

func (r *Repository) GetByManufacturerID(ctx context.Context, manufacturerID string) (*manufacturerDatamodel.Manufacturer, error) {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := database.Select[manufacturerDatamodel.Manufacturer](ctx, store, database.TableManufacturers,
		database.Eq("manufacturer_id", manufacturerID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *Repository) All(ctx context.Context) ([]manufacturerDatamodel.Manufacturer, error) {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return database.Select[manufacturerDatamodel.Manufacturer](ctx, store, database.TableManufacturers)
}

func (r *Repository) Create(ctx context.Context, row map[string]interface{}) error {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return err
	}
	return store.Insert(ctx, database.TableManufacturers, row).Err
}

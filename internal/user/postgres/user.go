package postgres

import (
	"context"

	userDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/user"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
)

type Repository struct {
	manager *database.Manager
}

func NewRepository(manager *database.Manager) *Repository {
	return &Repository{manager: manager}
}

func (r *Repository) All(ctx context.Context) ([]userDatamodel.User, error) {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	return database.Select[userDatamodel.User](ctx, store, database.TableUsers)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := database.Select[userDatamodel.User](ctx, store, database.TableUsers,
		database.Eq("username", username))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *Repository) Insert(ctx context.Context, row map[string]interface{}) error {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return err
	}
	return store.Insert(ctx, database.TableUsers, row).Err
}

func (r *Repository) UpdateDigestByUsername(ctx context.Context, username, digest string) error {
	store, err := r.manager.Ensure(ctx)
	if err != nil {
		return err
	}
	return store.Update(ctx, database.TableUsers,
		map[string]interface{}{"password": digest},
		database.Eq("username", username)).Err
}

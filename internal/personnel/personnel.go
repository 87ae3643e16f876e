package personnel

import (
	"context"

	personnelDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/personnel"
)

type RepositoryAPI interface {
	// ActiveByManufacturer returns the active roster for one tenant.
	ActiveByManufacturer(ctx context.Context, manufacturerID string) ([]personnelDatamodel.Personnel, error)
	Insert(ctx context.Context, row map[string]interface{}) error
	// UpdateByID patches a single row; missing rows are an error.
	UpdateByID(ctx context.Context, personnelID int64, patch map[string]interface{}) error
}

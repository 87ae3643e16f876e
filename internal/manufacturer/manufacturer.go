package manufacturer

import (
	"context"
	"time"

	manufacturerDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/manufacturer"
	personnelDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/personnel"
)

// Manufacturer is the tenant unit: every personnel record and every
// non-admin user hangs off one business key (ManufacturerID).
type Manufacturer struct {
	ID             int64     `json:"id"`
	ManufacturerID string    `json:"manufacturer_id"`
	Name           string    `json:"name"`
	ContactPerson  string    `json:"contact_person"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromDataModel(dm *manufacturerDatamodel.Manufacturer) *Manufacturer {
	if dm == nil {
		return nil
	}
	return &Manufacturer{
		ID:             dm.ID,
		ManufacturerID: dm.ManufacturerID,
		Name:           dm.Name,
		ContactPerson:  dm.ContactPerson,
		Phone:          dm.Phone,
		Email:          dm.Email,
		CreatedAt:      dm.CreatedAt,
	}
}

type RepositoryAPI interface {
	// GetByManufacturerID returns nil without error when no row matches.
	GetByManufacturerID(ctx context.Context, manufacturerID string) (*manufacturerDatamodel.Manufacturer, error)
	All(ctx context.Context) ([]manufacturerDatamodel.Manufacturer, error)
	Create(ctx context.Context, row map[string]interface{}) error
}

// PersonnelLister supplies the active personnel block of the management
// view. Implemented by the personnel service; declared here so this
// package never imports it.
type PersonnelLister interface {
	ActiveByManufacturer(ctx context.Context, manufacturerID string) ([]personnelDatamodel.Personnel, error)
}

package user

import (
	"context"
	"time"

	userDatamodel "github.com/mfgkeeper/manufacturer-maintenance/internal/core/datamodel/user"
)

// User is the administration view of an account. The password digest
// stays in the datamodel and never leaves this package.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	RealName       string    `json:"real_name"`
	Role           string    `json:"role"`
	ManufacturerID *string   `json:"manufacturer_id"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	IsActive       bool      `json:"is_active"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromDataModel(dm *userDatamodel.User) *User {
	if dm == nil {
		return nil
	}
	return &User{
		ID:             dm.ID,
		Username:       dm.Username,
		RealName:       dm.RealName,
		Role:           dm.Role,
		ManufacturerID: dm.ManufacturerID,
		Email:          dm.Email,
		Phone:          dm.Phone,
		IsActive:       dm.IsActive,
		CreatedBy:      dm.CreatedBy,
		CreatedAt:      dm.CreatedAt,
	}
}

type RepositoryAPI interface {
	All(ctx context.Context) ([]userDatamodel.User, error)
	// GetByUsername returns nil without error when no row matches.
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Insert(ctx context.Context, row map[string]interface{}) error
	// UpdateDigestByUsername replaces the stored digest for exactly the
	// named account.
	UpdateDigestByUsername(ctx context.Context, username, digest string) error
}

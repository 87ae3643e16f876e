package personnel

import "time"

// Personnel rows are never hard-deleted; is_active carries the soft-delete
// state. hire_date stays a free-form string because the upstream schema
// stored whatever the form submitted.
type Personnel struct {
	ID               int64     `gorm:"primaryKey"`
	ManufacturerID   string    `gorm:"column:manufacturer_id;index;not null"`
	PersonnelName    string    `gorm:"column:personnel_name;not null"`
	HireDate         string    `gorm:"column:hire_date"`
	Position         string    `gorm:"column:position"`
	NameID           string    `gorm:"column:name_id"`
	ManufacturerName string    `gorm:"column:manufacturer_name"`
	Note             string    `gorm:"column:note"`
	IsActive         bool      `gorm:"column:is_active;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (Personnel) TableName() string {
	return "maintenance_personnel"
}

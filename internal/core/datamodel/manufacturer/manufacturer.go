package manufacturer

import "time"

type Manufacturer struct {
	ID             int64     `gorm:"primaryKey"`
	ManufacturerID string    `gorm:"column:manufacturer_id;uniqueIndex;not null"`
	Name           string    `gorm:"column:name;not null"`
	ContactPerson  string    `gorm:"column:contact_person"`
	Phone          string    `gorm:"column:phone"`
	Email          string    `gorm:"column:email"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}

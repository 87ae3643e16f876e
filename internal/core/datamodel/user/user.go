package user

import "time"

// User.ManufacturerID is nil only for super_admin accounts. The password
// column holds a SHA-256 hex digest, never plaintext.
type User struct {
	ID             int64     `gorm:"primaryKey"`
	Username       string    `gorm:"column:username;uniqueIndex;not null"`
	PasswordDigest string    `gorm:"column:password;not null"`
	RealName       string    `gorm:"column:real_name;not null"`
	Role           string    `gorm:"column:role;not null"`
	ManufacturerID *string   `gorm:"column:manufacturer_id"`
	Email          string    `gorm:"column:email"`
	Phone          string    `gorm:"column:phone"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedBy      string    `gorm:"column:created_by"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (User) TableName() string {
	return "users"
}

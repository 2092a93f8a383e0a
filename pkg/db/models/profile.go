package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	"gorm.io/gorm"
)

// Profile represents the canonical identity entity.
type Profile struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string            `gorm:"column:email;type:text;not null;uniqueIndex"`
	FullName     *string           `gorm:"column:full_name"`
	Role         enums.ProfileRole `gorm:"column:role;type:text;not null;default:'customer'"`
	PasswordHash string            `gorm:"column:password_hash;not null"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time        `gorm:"column:last_login_at"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the plural used by the storefront schema.
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate assigns the UUID client-side so non-postgres test databases
// get a primary key too.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

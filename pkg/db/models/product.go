package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a seller's catalog listing. Price is an exact decimal;
// rounding happens only when values are formatted for display.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Category    string          `gorm:"column:category;not null"`
	Image       *string         `gorm:"column:image"`
	Images      pq.StringArray  `gorm:"column:images;type:text[]"`
	Description string          `gorm:"column:description;not null;default:''"`
	Features    pq.StringArray  `gorm:"column:features;type:text[]"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the UUID client-side so non-postgres test databases
// get a primary key too.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

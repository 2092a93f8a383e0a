package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	"gorm.io/gorm"
)

// Order persists a placed order. UserID is the seller who owns the product;
// the buyer is captured by the denormalized customer_* fields. TotalAmount is
// the unrounded unit price times quantity frozen at checkout.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	ProductID       uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Quantity        int               `gorm:"column:quantity;not null;default:1"`
	TotalAmount     decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status          enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CustomerName    string            `gorm:"column:customer_name;not null"`
	CustomerEmail   string            `gorm:"column:customer_email;not null"`
	CustomerAddress *string           `gorm:"column:customer_address"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the UUID client-side so non-postgres test databases
// get a primary key too.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

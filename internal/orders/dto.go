package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
)

// OrderDTO is the order payload returned to sellers.
type OrderDTO struct {
	ID              uuid.UUID `json:"id"`
	SellerID        uuid.UUID `json:"user_id"`
	ProductID       uuid.UUID `json:"product_id"`
	ProductName     *string   `json:"product_name,omitempty"`
	Quantity        int       `json:"quantity"`
	TotalAmount     string    `json:"total_amount"`
	Status          string    `json:"status"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerAddress *string   `json:"customer_address,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OrderListResult is one page of seller orders plus the next cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order, productName *string) *OrderDTO {
	return &OrderDTO{
		ID:              order.ID,
		SellerID:        order.UserID,
		ProductID:       order.ProductID,
		ProductName:     productName,
		Quantity:        order.Quantity,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		Status:          order.Status.String(),
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerAddress: order.CustomerAddress,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

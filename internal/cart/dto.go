package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemDTO is one cart line returned to clients.
type CartItemDTO struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Image     *string   `json:"image,omitempty"`
	Quantity  int       `json:"quantity"`
	Subtotal  string    `json:"subtotal"`
}

// CartDTO is the full cart payload.
type CartDTO struct {
	Items     []CartItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	Total     string        `json:"total"`
}

// NewCartDTO builds the cart payload from line snapshots.
func NewCartDTO(lines []LineItem) *CartDTO {
	dto := &CartDTO{Items: make([]CartItemDTO, 0, len(lines))}
	total := decimal.Zero
	for _, line := range lines {
		dto.Items = append(dto.Items, CartItemDTO{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price.StringFixed(2),
			Image:     line.Image,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal().StringFixed(2),
		})
		dto.ItemCount += line.Quantity
		total = total.Add(line.Subtotal())
	}
	dto.Total = total.StringFixed(2)
	return dto
}

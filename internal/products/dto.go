package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	Image       *string   `json:"image,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Description string    `json:"description"`
	Features    []string  `json:"features,omitempty"`
	SellerID    uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price.StringFixed(2),
		Category:    product.Category,
		Image:       product.Image,
		Images:      append([]string{}, product.Images...),
		Description: product.Description,
		Features:    append([]string{}, product.Features...),
		SellerID:    product.UserID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

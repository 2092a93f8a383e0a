package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations keyed by an opaque cart token.
type Service interface {
	AddItem(ctx context.Context, token string, role enums.ProfileRole, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error)
	GetCart(ctx context.Context, token string) (*CartDTO, error)
	ClearCart(ctx context.Context, token string) error
}

type service struct {
	store    *Store
	products productReader
}

// NewService constructs a cart service instance.
func NewService(store *Store, products productReader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{store: store, products: products}, nil
}

// AddItem snapshots the product into the cart. Sellers cannot add items.
func (s *service) AddItem(ctx context.Context, token string, role enums.ProfileRole, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if role.CanSell() {
		return nil, pkgerrors.New(pkgerrors.CodeRoleViolation, "store owners cannot add items to cart")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	s.store.Add(token, LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	})
	return NewCartDTO(s.store.Items(token)), nil
}

// UpdateQuantity replaces a line quantity. Zero removes the line. An
// unknown product is a no-op; the unchanged cart comes back.
func (s *service) UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	s.store.SetQuantity(token, productID, quantity)
	return NewCartDTO(s.store.Items(token)), nil
}

// RemoveItem drops a line from the cart. An unknown product is a no-op.
func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	s.store.Remove(token, productID)
	return NewCartDTO(s.store.Items(token)), nil
}

// GetCart returns the current cart contents. An unknown token yields an empty cart.
func (s *service) GetCart(ctx context.Context, token string) (*CartDTO, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	return NewCartDTO(s.store.Items(token)), nil
}

// ClearCart drops every line for the token.
func (s *service) ClearCart(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart token is required")
	}
	s.store.Clear(token)
	return nil
}

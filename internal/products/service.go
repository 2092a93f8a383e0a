package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog reads and seller product management.
type Service interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	SellerForProduct(ctx context.Context, productID uuid.UUID) (uuid.UUID, error)
	ListCatalog(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, productID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	Image       *string
	Images      []string
	Description string
	Features    []string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Price       *decimal.Decimal
	Category    *string
	Image       *string
	Images      *[]string
	Description *string
	Features    *[]string
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns a single catalog product.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// SellerForProduct resolves which seller owns a product.
func (s *service) SellerForProduct(ctx context.Context, productID uuid.UUID) (uuid.UUID, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return uuid.Nil, err
	}
	return product.UserID, nil
}

// ListCatalog returns one storefront page.
func (s *service) ListCatalog(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.repo.ListCatalog(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog")
	}
	return result, nil
}

// ListSellerProducts returns every product owned by the seller.
func (s *service) ListSellerProducts(ctx context.Context, sellerID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller products")
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewProductDTO(&rows[i]))
	}
	return dtos, nil
}

// CreateProduct creates a product owned by the seller.
func (s *service) CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Name, input.Category, input.Price); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Category:    strings.TrimSpace(input.Category),
		Image:       input.Image,
		Images:      pq.StringArray(input.Images),
		Description: strings.TrimSpace(input.Description),
		Features:    pq.StringArray(input.Features),
		UserID:      sellerID,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct updates an existing product after an ownership check. Admins
// may manage any seller's product.
func (s *service) UpdateProduct(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.UserID != sellerID && role != enums.ProfileRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}

	applyUpdateToProduct(product, input)

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product after an ownership check. Orders referencing
// the product are removed by the FK cascade.
func (s *service) DeleteProduct(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, productID uuid.UUID) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.UserID != sellerID && role != enums.ProfileRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to seller")
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func validateProductFields(name, category string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Image != nil {
		product.Image = input.Image
	}
	if input.Images != nil {
		product.Images = pq.StringArray(append([]string(nil), *input.Images...))
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Features != nil {
		product.Features = pq.StringArray(append([]string(nil), *input.Features...))
	}
}

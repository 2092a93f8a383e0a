package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/db"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateOrderInput holds one order row to persist at checkout.
type CreateOrderInput struct {
	SellerID        uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	TotalAmount     decimal.Decimal
	CustomerName    string
	CustomerEmail   string
	CustomerAddress *string
}

// Service exposes order placement and seller order management.
type Service interface {
	CreateOrders(ctx context.Context, inputs []CreateOrderInput) ([]OrderDTO, error)
	ListSellerOrders(ctx context.Context, sellerID uuid.UUID, p pagination.Params) (*OrderListResult, error)
	GetOrder(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, orderID uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an orders service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateOrders persists every row in one transaction. Checkout calls this once
// per paid flow; there is no dedupe key, so retries insert fresh rows.
func (s *service) CreateOrders(ctx context.Context, inputs []CreateOrderInput) ([]OrderDTO, error) {
	if len(inputs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one order is required")
	}
	for _, input := range inputs {
		if err := validateOrderInput(input); err != nil {
			return nil, err
		}
	}

	created := make([]*models.Order, 0, len(inputs))
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for _, input := range inputs {
			order := &models.Order{
				UserID:          input.SellerID,
				ProductID:       input.ProductID,
				Quantity:        input.Quantity,
				TotalAmount:     input.TotalAmount,
				Status:          enums.OrderStatusPending,
				CustomerName:    strings.TrimSpace(input.CustomerName),
				CustomerEmail:   strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
				CustomerAddress: input.CustomerAddress,
			}
			row, err := txRepo.CreateOrder(ctx, order)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
			}
			created = append(created, row)
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create orders")
	}

	dtos := make([]OrderDTO, 0, len(created))
	for _, order := range created {
		dtos = append(dtos, *NewOrderDTO(order, nil))
	}
	return dtos, nil
}

// ListSellerOrders returns one page of the seller's orders, newest first.
func (s *service) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, p pagination.Params) (*OrderListResult, error) {
	records, nextCursor, err := s.repo.ListBySeller(ctx, orderListQuery{SellerID: sellerID, Pagination: p})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders")
	}

	result := &OrderListResult{
		Orders:     make([]OrderDTO, 0, len(records)),
		NextCursor: nextCursor,
	}
	for _, record := range records {
		result.Orders = append(result.Orders, OrderDTO{
			ID:              record.ID,
			SellerID:        record.UserID,
			ProductID:       record.ProductID,
			ProductName:     record.ProductName,
			Quantity:        record.Quantity,
			TotalAmount:     record.TotalAmount.StringFixed(2),
			Status:          record.Status,
			CustomerName:    record.CustomerName,
			CustomerEmail:   record.CustomerEmail,
			CustomerAddress: record.CustomerAddress,
			CreatedAt:       record.CreatedAt,
			UpdatedAt:       record.UpdatedAt,
		})
	}
	return result, nil
}

// GetOrder loads an order after an ownership check. Admins may read any order.
func (s *service) GetOrder(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadSellerOrder(ctx, sellerID, role, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order, nil), nil
}

// UpdateStatus moves an order along the fulfillment pipeline.
func (s *service) UpdateStatus(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.loadSellerOrder(ctx, sellerID, role, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	order.Status = status
	updated, err := s.repo.UpdateOrder(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return NewOrderDTO(updated, nil), nil
}

func (s *service) loadSellerOrder(ctx context.Context, sellerID uuid.UUID, role enums.ProfileRole, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != sellerID && role != enums.ProfileRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to seller")
	}
	return order, nil
}

func validateOrderInput(input CreateOrderInput) error {
	if input.SellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.TotalAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total amount must be non-negative")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.CustomerEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	return nil
}

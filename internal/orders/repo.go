package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository exposes order persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateOrder inserts one order row.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrder persists the full order row.
func (r *Repository) UpdateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

type orderListQuery struct {
	SellerID   uuid.UUID
	Pagination pagination.Params
}

type orderRecord struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ProductID       uuid.UUID
	ProductName     *string
	Quantity        int
	TotalAmount     decimal.Decimal
	Status          string
	CustomerName    string
	CustomerEmail   string
	CustomerAddress *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListBySeller returns one page of a seller's orders joined with product names.
func (r *Repository) ListBySeller(ctx context.Context, query orderListQuery) ([]orderRecord, string, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Table("orders o").
		Select("o.id, o.user_id, o.product_id, p.name AS product_name, o.quantity, o.total_amount, o.status, o.customer_name, o.customer_email, o.customer_address, o.created_at, o.updated_at").
		Joins("LEFT JOIN products p ON p.id = o.product_id").
		Where("o.user_id = ?", query.SellerID)

	if cursor != nil {
		qb = qb.Where("(o.created_at < ?) OR (o.created_at = ? AND o.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("o.created_at DESC").Order("o.id DESC").Limit(limitWithBuffer)

	var records []orderRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(records) > pageSize {
		records = records[:pageSize]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return records, nextCursor, nil
}

package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/config"
	"github.com/medmarket-io/medmarket-backend/pkg/db"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", uuid.NewString()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	profiles := `
CREATE TABLE IF NOT EXISTS profiles (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  full_name TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  password_hash TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  category TEXT NOT NULL,
  image TEXT,
  images TEXT,
  description TEXT NOT NULL DEFAULT '',
  features TEXT,
  user_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

	conn := client.DB()
	require.NoError(t, conn.Exec(profiles).Error)
	require.NoError(t, conn.Exec(products).Error)
	require.NoError(t, conn.Exec(orders).Error)
	return client
}

func mustCreateOrderSeller(t *testing.T, tx *gorm.DB) *models.Profile {
	t.Helper()
	seller := &models.Profile{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("seller_%s@example.com", uuid.NewString()),
		Role:         enums.ProfileRoleOwner,
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, tx.Create(seller).Error)
	return seller
}

func mustCreateOrderProduct(t *testing.T, tx *gorm.DB, sellerID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Dental Composite Kit",
		Price:    decimal.NewFromFloat(89.00),
		Category: "Dental",
		UserID:   sellerID,
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func mustCreateOrder(t *testing.T, tx *gorm.DB, sellerID, productID uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        sellerID,
		ProductID:     productID,
		Quantity:      1,
		TotalAmount:   decimal.NewFromFloat(89.00),
		Status:        status,
		CustomerName:  "Pat Doe",
		CustomerEmail: "pat@example.com",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, tx.Create(order).Error)
	return order
}

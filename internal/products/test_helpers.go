package product

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:products_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

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

	require.NoError(t, conn.Exec(profiles).Error)
	require.NoError(t, conn.Exec(products).Error)
	return conn
}

func mustCreateTestSeller(t *testing.T, tx *gorm.DB) *models.Profile {
	t.Helper()
	seller := &models.Profile{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("seller_%s@example.com", uuid.NewString()),
		Role:         enums.ProfileRoleOwner,
		PasswordHash: "hash",
		IsActive:     true,
	}
	if err := tx.Create(seller).Error; err != nil {
		t.Fatalf("create seller: %v", err)
	}
	return seller
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, sellerID uuid.UUID, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        "Digital Thermometer",
		Price:       decimal.NewFromFloat(24.99),
		Category:    "Diagnostics",
		Images:      pq.StringArray{},
		Description: "Fast-read clinical thermometer",
		Features:    pq.StringArray{"fever alarm", "flexible tip"},
		UserID:      sellerID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

package product

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *Repository, func() *testFixture) {
	t.Helper()
	conn := setupProductTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	build := func() *testFixture {
		seller := mustCreateTestSeller(t, conn)
		product := mustCreateTestProduct(t, conn, seller.ID, time.Now().UTC())
		return &testFixture{sellerID: seller.ID, productID: product.ID}
	}
	return svc, repo, build
}

type testFixture struct {
	sellerID  uuid.UUID
	productID uuid.UUID
}

func TestServiceCreateProduct(t *testing.T) {
	svc, _, build := newTestService(t)
	fixture := build()
	ctx := context.Background()

	dto, err := svc.CreateProduct(ctx, fixture.sellerID, CreateProductInput{
		Name:        "Pulse Oximeter",
		Price:       decimal.NewFromFloat(44.50),
		Category:    "Diagnostics",
		Description: "Fingertip SpO2 monitor",
		Features:    []string{"OLED display"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pulse Oximeter", dto.Name)
	assert.Equal(t, "44.50", dto.Price)
	assert.Equal(t, fixture.sellerID, dto.SellerID)
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc, _, build := newTestService(t)
	fixture := build()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing name", CreateProductInput{Category: "Diagnostics", Price: decimal.NewFromInt(5)}},
		{"missing category", CreateProductInput{Name: "Gauze", Price: decimal.NewFromInt(5)}},
		{"negative price", CreateProductInput{Name: "Gauze", Category: "Supplies", Price: decimal.NewFromInt(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, fixture.sellerID, tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestServiceUpdateProductOwnership(t *testing.T) {
	svc, _, build := newTestService(t)
	fixture := build()
	stranger := build()
	ctx := context.Background()

	name := "Renamed"
	_, err := svc.UpdateProduct(ctx, stranger.sellerID, enums.ProfileRoleOwner, fixture.productID, UpdateProductInput{Name: &name})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	dto, err := svc.UpdateProduct(ctx, fixture.sellerID, enums.ProfileRoleOwner, fixture.productID, UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", dto.Name)
}

func TestServiceAdminManagesAnyProduct(t *testing.T) {
	svc, _, build := newTestService(t)
	fixture := build()
	admin := build()
	ctx := context.Background()

	name := "Moderated"
	dto, err := svc.UpdateProduct(ctx, admin.sellerID, enums.ProfileRoleAdmin, fixture.productID, UpdateProductInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Moderated", dto.Name)

	require.NoError(t, svc.DeleteProduct(ctx, admin.sellerID, enums.ProfileRoleAdmin, fixture.productID))

	_, err = svc.GetProduct(ctx, fixture.productID)
	require.Error(t, err)
}

func TestServiceUpdateProductPartial(t *testing.T) {
	svc, _, build := newTestService(t)
	fixture := build()
	ctx := context.Background()

	price := decimal.NewFromFloat(19.99)
	dto, err := svc.UpdateProduct(ctx, fixture.sellerID, enums.ProfileRoleOwner, fixture.productID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "19.99", dto.Price)
	assert.Equal(t, "Digital Thermometer", dto.Name)
}

func TestServiceDeleteProduct(t *testing.T) {
	svc, _, build := newTestService(t)
	fixture := build()
	stranger := build()
	ctx := context.Background()

	err := svc.DeleteProduct(ctx, stranger.sellerID, enums.ProfileRoleOwner, fixture.productID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	require.NoError(t, svc.DeleteProduct(ctx, fixture.sellerID, enums.ProfileRoleOwner, fixture.productID))

	_, err = svc.GetProduct(ctx, fixture.productID)
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceGetProductNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

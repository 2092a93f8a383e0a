package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medmarket-io/medmarket-backend/api/middleware"
	cartsvc "github.com/medmarket-io/medmarket-backend/internal/cart"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func TestAddCartItem(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{cart: &cartsvc.CartDTO{ItemCount: 2, Total: "49.98"}}
		body := `{"product_id":"` + productID.String() + `","quantity":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(middleware.WithCartToken(req.Context(), "cart-token"))
		rec := httptest.NewRecorder()

		AddCartItem(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.addToken != "cart-token" {
			t.Fatalf("expected cart token to flow through, got %s", stub.addToken)
		}
		if stub.addQuantity != 2 {
			t.Fatalf("expected quantity 2, got %d", stub.addQuantity)
		}
	})

	t.Run("seller role rejected", func(t *testing.T) {
		stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeRoleViolation, "store owners cannot add items to cart")}
		body := `{"product_id":"` + productID.String() + `","quantity":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		ctx := middleware.WithCartToken(req.Context(), "cart-token")
		ctx = middleware.WithRole(ctx, string(enums.ProfileRoleOwner))
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		AddCartItem(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if stub.addRole != enums.ProfileRoleOwner {
			t.Fatalf("expected owner role to flow through, got %s", stub.addRole)
		}
		var payload struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeRoleViolation) {
			t.Fatalf("unexpected code %s", payload.Error.Code)
		}
		if payload.Error.Message != "store owners cannot add items to cart" {
			t.Fatalf("unexpected message %s", payload.Error.Message)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		stub := &stubCartService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"quantity":0}`))
		req = req.WithContext(middleware.WithCartToken(req.Context(), "cart-token"))
		rec := httptest.NewRecorder()

		AddCartItem(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUpdateCartItemParsesPath(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()
	stub := &stubCartService{cart: &cartsvc.CartDTO{Total: "0.00"}}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", productID.String())
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithCartToken(ctx, "cart-token")

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+productID.String(), strings.NewReader(`{"quantity":0}`))
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	UpdateCartItem(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.updateProduct != productID {
		t.Fatalf("expected product id to flow through")
	}
	if stub.updateQuantity != 0 {
		t.Fatalf("expected zero quantity, got %d", stub.updateQuantity)
	}
}

func TestGetCartUsesToken(t *testing.T) {
	logg := testLogger()
	stub := &stubCartService{cart: &cartsvc.CartDTO{Total: "0.00"}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithCartToken(req.Context(), "cart-token"))
	rec := httptest.NewRecorder()

	GetCart(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.getToken != "cart-token" {
		t.Fatalf("expected token to flow through, got %s", stub.getToken)
	}
}

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error

	addToken    string
	addRole     enums.ProfileRole
	addQuantity int

	updateProduct  uuid.UUID
	updateQuantity int

	getToken string
}

func (s *stubCartService) AddItem(ctx context.Context, token string, role enums.ProfileRole, productID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	s.addToken = token
	s.addRole = role
	s.addQuantity = quantity
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*cartsvc.CartDTO, error) {
	s.updateProduct = productID
	s.updateQuantity = quantity
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*cartsvc.CartDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) GetCart(ctx context.Context, token string) (*cartsvc.CartDTO, error) {
	s.getToken = token
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) ClearCart(ctx context.Context, token string) error {
	return s.err
}

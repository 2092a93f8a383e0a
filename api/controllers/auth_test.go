package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/medmarket-io/medmarket-backend/api/middleware"
	authsvc "github.com/medmarket-io/medmarket-backend/internal/auth"
	"github.com/medmarket-io/medmarket-backend/internal/profiles"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/types"
)

func TestLoginController(t *testing.T) {
	logg := testLogger()

	t.Run("success", func(t *testing.T) {
		stub := &stubAuthService{login: &authsvc.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"doc@clinic.example","password":"hunter2hunter2"}`))
		rec := httptest.NewRecorder()

		Login(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.loginReq.Email != "doc@clinic.example" {
			t.Fatalf("expected email to flow through, got %q", stub.loginReq.Email)
		}
		if !strings.Contains(rec.Body.String(), `"access"`) {
			t.Fatalf("expected token pair in body, got %s", rec.Body.String())
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		stub := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"doc@clinic.example","password":"wrong-password"}`))
		rec := httptest.NewRecorder()

		Login(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var envelope types.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("unexpected code %q", envelope.Error.Code)
		}
	})

	t.Run("malformed email", func(t *testing.T) {
		stub := &stubAuthService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"hunter2hunter2"}`))
		rec := httptest.NewRecorder()

		Login(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.loginCalls != 0 {
			t.Fatalf("expected service untouched on bad payload")
		}
	})
}

func TestRegisterController(t *testing.T) {
	logg := testLogger()

	t.Run("created", func(t *testing.T) {
		stub := &stubRegisterService{profile: &profiles.ProfileDTO{Email: "doc@clinic.example"}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"doc@clinic.example","password":"hunter2hunter2","role":"owner"}`))
		rec := httptest.NewRecorder()

		Register(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.req.Role != "owner" {
			t.Fatalf("expected role to flow through, got %q", stub.req.Role)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		stub := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"doc@clinic.example","password":"hunter2hunter2","role":"customer"}`))
		rec := httptest.NewRecorder()

		Register(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestLogoutControllerUsesAccessID(t *testing.T) {
	logg := testLogger()
	stub := &stubAuthService{}

	ctx := middleware.WithUserID(context.Background(), "ignored")
	ctx = middleware.WithAccessID(ctx, "session-jti")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	Logout(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.loggedOut != "session-jti" {
		t.Fatalf("expected access id from context, got %q", stub.loggedOut)
	}
}

type stubAuthService struct {
	login *authsvc.LoginResponse
	err   error

	loginReq   authsvc.LoginRequest
	loginCalls int
	loggedOut  string
}

func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	s.loginCalls++
	s.loginReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.login, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &authsvc.RefreshResponse{AccessToken: "rotated-access", RefreshToken: "rotated-refresh"}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

type stubRegisterService struct {
	profile *profiles.ProfileDTO
	err     error
	req     authsvc.RegisterRequest
}

func (s *stubRegisterService) Register(ctx context.Context, req authsvc.RegisterRequest) (*profiles.ProfileDTO, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

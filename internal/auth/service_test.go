package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/medmarket-io/medmarket-backend/pkg/auth"
	"github.com/medmarket-io/medmarket-backend/pkg/auth/session"
	"github.com/medmarket-io/medmarket-backend/pkg/config"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "medmarket",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginIssuesTokenPair(t *testing.T) {
	password := "clinic-secret"
	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        "buyer@clinic.test",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.ProfileRoleCustomer,
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, sessions, err := buildTestService(profile, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Buyer@Clinic.Test",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != profile.ID {
		t.Fatalf("expected user claim %s, got %s", profile.ID, claims.UserID)
	}
	if claims.Role != enums.ProfileRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if sessions.generatedFor != claims.ID {
		t.Fatalf("expected session keyed by jti %s, got %s", claims.ID, sessions.generatedFor)
	}
	if profile.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsBadPassword(t *testing.T) {
	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        "buyer@clinic.test",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.ProfileRoleCustomer,
		IsActive:     true,
	}

	svc, _, err := buildTestService(profile, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    profile.Email,
		Password: "wrong-password",
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginRejectsInactiveProfile(t *testing.T) {
	password := "clinic-secret"
	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        "buyer@clinic.test",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.ProfileRoleCustomer,
		IsActive:     false,
	}

	svc, _, err := buildTestService(profile, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    profile.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginRejectsUnknownEmail(t *testing.T) {
	svc, _, err := buildTestService(nil, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@clinic.test",
		Password: "whatever",
	})
	assertUnauthorized(t, err)
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	oldAccessID := session.NewAccessID()

	accessToken, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.ProfileRoleOwner,
		JTI:    oldAccessID,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	sessions := &stubSessionManager{
		refreshToken: "stored-refresh",
		rotatedID:    session.NewAccessID(),
		rotatedToken: "rotated-refresh",
	}
	svc, err := NewService(ServiceParams{
		ProfileRepo:    &stubProfileRepo{},
		SessionManager: sessions,
		JWTConfig:      cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "stored-refresh",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "rotated-refresh" {
		t.Fatalf("expected rotated refresh token, got %s", resp.RefreshToken)
	}
	if sessions.rotatedFrom != oldAccessID {
		t.Fatalf("expected rotation keyed by %s, got %s", oldAccessID, sessions.rotatedFrom)
	}

	claims, err := pkgauth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user claim to carry over, got %s", claims.UserID)
	}
	if claims.Role != enums.ProfileRoleOwner {
		t.Fatalf("expected role claim to carry over, got %s", claims.Role)
	}
	if claims.ID != sessions.rotatedID {
		t.Fatalf("expected new jti %s, got %s", sessions.rotatedID, claims.ID)
	}
}

func TestServiceRefreshRejectsInvalidToken(t *testing.T) {
	cfg := testJWTConfig()
	accessToken, err := pkgauth.MintAccessToken(cfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.ProfileRoleCustomer,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	sessions := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc, err := NewService(ServiceParams{
		ProfileRepo:    &stubProfileRepo{},
		SessionManager: sessions,
		JWTConfig:      cfg,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "stale",
	})
	assertUnauthorized(t, err)
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	sessions := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		ProfileRepo:    &stubProfileRepo{},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	accessID := session.NewAccessID()
	if err := svc.Logout(context.Background(), accessID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.revoked != accessID {
		t.Fatalf("expected revoke for %s, got %s", accessID, sessions.revoked)
	}

	assertUnauthorized(t, svc.Logout(context.Background(), " "))
}

func buildTestService(profile *models.Profile, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		ProfileRepo:    &stubProfileRepo{profile: profile},
		SessionManager: sessions,
		JWTConfig:      jwtCfg,
	})
	return svc, sessions, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected unauthorized error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

type stubProfileRepo struct {
	profile *models.Profile
}

func (s *stubProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if s.profile == nil || s.profile.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

func (s *stubProfileRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.profile != nil && s.profile.ID == id {
		s.profile.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
	generatedFor string

	rotatedID    string
	rotatedToken string
	rotatedFrom  string
	rotateErr    error

	revoked string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generatedFor = accessID
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotatedFrom = oldAccessID
	return s.rotatedID, s.rotatedToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = accessID
	return nil
}

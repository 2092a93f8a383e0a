package profiles

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
)

func setupProfileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:profiles_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
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
	require.NoError(t, conn.Exec(ddl).Error)
	return conn
}

func mustCreateProfile(t *testing.T, tx *gorm.DB, role enums.ProfileRole) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("user_%s@example.com", uuid.NewString()),
		Role:         role,
		PasswordHash: "hash",
		IsActive:     true,
	}
	require.NoError(t, tx.Create(profile).Error)
	return profile
}

func TestGetProfile(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	stored := mustCreateProfile(t, conn, enums.ProfileRoleCustomer)

	dto, err := svc.GetProfile(context.Background(), stored.ID)
	require.NoError(t, err)
	require.Equal(t, stored.Email, dto.Email)
	require.Equal(t, enums.ProfileRoleCustomer.String(), dto.Role)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateProfileUpgradesCustomerToSeller(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	stored := mustCreateProfile(t, conn, enums.ProfileRoleCustomer)

	role := enums.ProfileRoleOwner
	dto, err := svc.UpdateProfile(context.Background(), stored.ID, UpdateProfileInput{Role: &role})
	require.NoError(t, err)
	require.Equal(t, enums.ProfileRoleOwner.String(), dto.Role)

	var persisted models.Profile
	require.NoError(t, conn.First(&persisted, "id = ?", stored.ID).Error)
	require.True(t, persisted.Role.CanSell())
}

func TestUpdateProfileFullName(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	stored := mustCreateProfile(t, conn, enums.ProfileRoleCustomer)

	name := "  Dr. Priya Raman  "
	dto, err := svc.UpdateProfile(context.Background(), stored.ID, UpdateProfileInput{FullName: &name})
	require.NoError(t, err)
	require.NotNil(t, dto.FullName)
	require.Equal(t, "Dr. Priya Raman", *dto.FullName)

	blank := "   "
	dto, err = svc.UpdateProfile(context.Background(), stored.ID, UpdateProfileInput{FullName: &blank})
	require.NoError(t, err)
	require.Nil(t, dto.FullName)
}

func TestUpdateProfileRejectsUnknownRole(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	stored := mustCreateProfile(t, conn, enums.ProfileRoleCustomer)

	bogus := enums.ProfileRole("superuser")
	_, err = svc.UpdateProfile(context.Background(), stored.ID, UpdateProfileInput{Role: &bogus})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestSetProfileStatus(t *testing.T) {
	conn := setupProfileTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	stored := mustCreateProfile(t, conn, enums.ProfileRoleOwner)

	dto, err := svc.SetProfileStatus(context.Background(), stored.ID, false)
	require.NoError(t, err)
	require.False(t, dto.IsActive)

	var persisted models.Profile
	require.NoError(t, conn.First(&persisted, "id = ?", stored.ID).Error)
	require.False(t, persisted.IsActive)

	dto, err = svc.SetProfileStatus(context.Background(), stored.ID, true)
	require.NoError(t, err)
	require.True(t, dto.IsActive)

	_, err = svc.SetProfileStatus(context.Background(), uuid.New(), false)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

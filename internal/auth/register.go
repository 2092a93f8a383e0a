package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/medmarket-io/medmarket-backend/internal/profiles"
	"github.com/medmarket-io/medmarket-backend/pkg/config"
	"github.com/medmarket-io/medmarket-backend/pkg/db"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"github.com/medmarket-io/medmarket-backend/pkg/security"
)

// RegisterRequest contains the payload to create a new account. Role picks
// between a buying customer and a selling store owner; admin cannot be chosen.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName *string `json:"full_name,omitempty"`
	Role     string  `json:"role" validate:"required"`
}

// RegisterService handles account creation.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*profiles.ProfileDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*profiles.ProfileDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must have at least 8 characters")
	}

	role, err := enums.ParseProfileRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if err != nil || role == enums.ProfileRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be customer or owner")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.Profile
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := profiles.NewRepository(tx)

		if _, err := repo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check profile email")
		}

		profile := &models.Profile{
			Email:        email,
			FullName:     normalizedFullName(req.FullName),
			Role:         role,
			PasswordHash: passwordHash,
			IsActive:     true,
		}
		created, err = repo.Create(ctx, profile)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return profiles.NewProfileDTO(created), nil
}

func normalizedFullName(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

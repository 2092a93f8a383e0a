package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/enums"
	pkgerrors "github.com/medmarket-io/medmarket-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes profile read/update operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
	SetProfileStatus(ctx context.Context, userID uuid.UUID, active bool) (*ProfileDTO, error)
}

// UpdateProfileInput holds optional mutation values for a profile.
type UpdateProfileInput struct {
	FullName *string
	Role     *enums.ProfileRole
}

type service struct {
	repo *Repository
}

// NewService constructs a profile service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo}, nil
}

// GetProfile returns the profile for the authenticated user.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return NewProfileDTO(profile), nil
}

// UpdateProfile applies the provided mutations to the caller's profile.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid profile role")
	}

	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if input.FullName != nil {
		trimmed := strings.TrimSpace(*input.FullName)
		if trimmed == "" {
			profile.FullName = nil
		} else {
			profile.FullName = &trimmed
		}
	}
	if input.Role != nil {
		profile.Role = *input.Role
	}

	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return NewProfileDTO(updated), nil
}

// SetProfileStatus activates or deactivates an account. Deactivated accounts
// cannot log in; existing sessions expire on their own.
func (s *service) SetProfileStatus(ctx context.Context, userID uuid.UUID, active bool) (*ProfileDTO, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	profile.IsActive = active
	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile status")
	}
	return NewProfileDTO(updated), nil
}

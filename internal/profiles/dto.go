package profiles

import (
	"time"

	"github.com/google/uuid"
	"github.com/medmarket-io/medmarket-backend/pkg/db/models"
)

// ProfileDTO is the profile payload returned to clients.
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    *string    `json:"full_name,omitempty"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewProfileDTO builds a DTO from the persisted model.
func NewProfileDTO(profile *models.Profile) *ProfileDTO {
	return &ProfileDTO{
		ID:          profile.ID,
		Email:       profile.Email,
		FullName:    profile.FullName,
		Role:        profile.Role.String(),
		IsActive:    profile.IsActive,
		LastLoginAt: profile.LastLoginAt,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}
}

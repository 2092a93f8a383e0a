package enums

import "fmt"

// ProfileRole identifies what an authenticated actor may do.
type ProfileRole string

const (
	ProfileRoleCustomer ProfileRole = "customer"
	ProfileRoleOwner    ProfileRole = "owner"
	ProfileRoleAdmin    ProfileRole = "admin"
)

var validProfileRoles = []ProfileRole{
	ProfileRoleCustomer,
	ProfileRoleOwner,
	ProfileRoleAdmin,
}

// String implements fmt.Stringer.
func (r ProfileRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ProfileRole.
func (r ProfileRole) IsValid() bool {
	for _, candidate := range validProfileRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanSell reports whether the role may manage dashboard products and orders.
func (r ProfileRole) CanSell() bool {
	return r == ProfileRoleOwner || r == ProfileRoleAdmin
}

// ParseProfileRole converts raw input into a ProfileRole.
func ParseProfileRole(value string) (ProfileRole, error) {
	for _, candidate := range validProfileRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile role %q", value)
}

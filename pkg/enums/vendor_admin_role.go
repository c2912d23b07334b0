package enums

import "fmt"

// VendorAdminRole scopes what a vendor team member can manage.
type VendorAdminRole string

const (
	VendorAdminRoleOwner   VendorAdminRole = "owner"
	VendorAdminRoleManager VendorAdminRole = "manager"
	VendorAdminRoleStaff   VendorAdminRole = "staff"
)

var validVendorAdminRoles = []VendorAdminRole{
	VendorAdminRoleOwner,
	VendorAdminRoleManager,
	VendorAdminRoleStaff,
}

// String implements fmt.Stringer.
func (r VendorAdminRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known VendorAdminRole.
func (r VendorAdminRole) IsValid() bool {
	for _, candidate := range validVendorAdminRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseVendorAdminRole converts raw input into a VendorAdminRole.
func ParseVendorAdminRole(value string) (VendorAdminRole, error) {
	for _, candidate := range validVendorAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor admin role %q", value)
}

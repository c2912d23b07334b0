package enums

import "fmt"

// VendorVerificationStatus tracks the admin review lifecycle of a vendor.
type VendorVerificationStatus string

const (
	VendorVerificationPending   VendorVerificationStatus = "pending"
	VendorVerificationApproved  VendorVerificationStatus = "approved"
	VendorVerificationRejected  VendorVerificationStatus = "rejected"
	VendorVerificationSuspended VendorVerificationStatus = "suspended"
)

var validVendorVerificationStatuses = []VendorVerificationStatus{
	VendorVerificationPending,
	VendorVerificationApproved,
	VendorVerificationRejected,
	VendorVerificationSuspended,
}

// String implements fmt.Stringer.
func (v VendorVerificationStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VendorVerificationStatus.
func (v VendorVerificationStatus) IsValid() bool {
	for _, candidate := range validVendorVerificationStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// IsDecision reports whether the status is one an admin review can assign.
func (v VendorVerificationStatus) IsDecision() bool {
	return v == VendorVerificationApproved || v == VendorVerificationRejected || v == VendorVerificationSuspended
}

// ParseVendorVerificationStatus converts raw input into a
// VendorVerificationStatus.
func ParseVendorVerificationStatus(value string) (VendorVerificationStatus, error) {
	for _, candidate := range validVendorVerificationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor verification status %q", value)
}

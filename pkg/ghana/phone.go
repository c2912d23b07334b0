package ghana

import (
	"regexp"
	"strings"
)

// Ghana MSISDNs: local format 0XXXXXXXXX or international +233XXXXXXXXX with
// a known network prefix.
var phonePattern = regexp.MustCompile(`^(\+233|0)(20|23|24|26|27|28|50|54|55|56|57|59)\d{7}$`)

// GhanaPost GPS digital address, e.g. GA-0123-4567.
var gpsPattern = regexp.MustCompile(`^[A-Z]{2}-\d{4}-\d{4}$`)

// IsValidPhone reports whether the number is a well-formed Ghana mobile
// number in local or international format.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// IsValidGPSCode reports whether the value is a well-formed GhanaPost GPS
// digital address.
func IsValidGPSCode(code string) bool {
	return gpsPattern.MatchString(strings.TrimSpace(code))
}

// FormatPhoneInternational normalizes a Ghana number to +233 format. The
// input should already have passed IsValidPhone.
func FormatPhoneInternational(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "0") {
		return "+233" + phone[1:]
	}
	if !strings.HasPrefix(phone, "+") {
		return "+233" + phone
	}
	return phone
}

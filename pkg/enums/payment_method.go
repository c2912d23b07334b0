package enums

import "fmt"

// PaymentMethod identifies the channel a customer pays through.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodMobileMoney,
	PaymentMethodBankTransfer,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// Channels returns the gateway channel list to request for this method.
func (m PaymentMethod) Channels() []string {
	switch m {
	case PaymentMethodCard:
		return []string{"card"}
	case PaymentMethodMobileMoney:
		return []string{"mobile_money"}
	case PaymentMethodBankTransfer:
		return []string{"bank_transfer"}
	default:
		return []string{"card", "mobile_money", "bank_transfer"}
	}
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

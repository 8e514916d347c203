package enums

import (
	"fmt"
	"strings"
)

// PaymentMode distinguishes how a customer settles an order.
type PaymentMode string

const (
	PaymentModeCash     PaymentMode = "Cash"
	PaymentModeCashless PaymentMode = "Cashless"
)

var validPaymentModes = []PaymentMode{
	PaymentModeCash,
	PaymentModeCashless,
}

// String implements fmt.Stringer.
func (p PaymentMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMode.
func (p PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts raw input into a PaymentMode. Lowercase method
// names from checkout requests ("cash", "cashless") are accepted.
func ParsePaymentMode(value string) (PaymentMode, error) {
	for _, candidate := range validPaymentModes {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}

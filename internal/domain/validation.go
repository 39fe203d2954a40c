package domain

import (
	"fmt"
	"strings"
)

const maxTrackingNumberLength = 64

// ValidateTrackingNumber accepts any non-empty free-form text up to a sane
// length; carriers do not share a common format.
func ValidateTrackingNumber(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ErrMissingTrackingNumber
	}
	if len(trimmed) > maxTrackingNumberLength {
		return fmt.Errorf("%w: tracking number too long", ErrInvalidInput)
	}
	return nil
}

func ValidateCustomerEmail(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.Contains(trimmed, "@") || len(trimmed) > 254 {
		return fmt.Errorf("%w: invalid customer email", ErrInvalidInput)
	}
	return nil
}

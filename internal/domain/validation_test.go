package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ordermesh/logistics-service/internal/domain"
)

func TestValidateTrackingNumber(t *testing.T) {
	t.Parallel()

	if err := domain.ValidateTrackingNumber("1Z999AA10123456784"); err != nil {
		t.Fatalf("expected valid tracking number, got %v", err)
	}
	if err := domain.ValidateTrackingNumber("   "); !errors.Is(err, domain.ErrMissingTrackingNumber) {
		t.Fatalf("expected missing tracking number error, got %v", err)
	}
	if err := domain.ValidateTrackingNumber(strings.Repeat("x", 65)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for oversized tracking number, got %v", err)
	}
}

func TestValidateCustomerEmail(t *testing.T) {
	t.Parallel()

	if err := domain.ValidateCustomerEmail("jane@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}
	if err := domain.ValidateCustomerEmail("not-an-email"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

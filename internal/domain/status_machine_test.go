package domain_test

import (
	"errors"
	"testing"

	"github.com/ordermesh/logistics-service/internal/domain"
)

func TestTransitionForwardChain(t *testing.T) {
	t.Parallel()

	chain := []domain.ShipmentStatus{
		domain.ShipmentStatusCreated,
		domain.ShipmentStatusProcessing,
		domain.ShipmentStatusShipped,
		domain.ShipmentStatusDelivered,
	}
	for i := 0; i < len(chain)-1; i++ {
		next, err := domain.Transition(chain[i], chain[i+1])
		if err != nil {
			t.Fatalf("expected %s -> %s to succeed, got %v", chain[i], chain[i+1], err)
		}
		if next != chain[i+1] {
			t.Fatalf("expected %s, got %s", chain[i+1], next)
		}
	}
}

func TestTransitionRejectsBackwardAndSkips(t *testing.T) {
	t.Parallel()

	if _, err := domain.Transition(domain.ShipmentStatusProcessing, domain.ShipmentStatusCreated); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for backward move, got %v", err)
	}
	if _, err := domain.Transition(domain.ShipmentStatusCreated, domain.ShipmentStatusShipped); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for skipped state, got %v", err)
	}
	if _, err := domain.Transition(domain.ShipmentStatusCreated, domain.ShipmentStatusDelivered); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for skipped state, got %v", err)
	}
}

func TestTransitionSameStateIsNoOp(t *testing.T) {
	t.Parallel()

	for _, status := range []domain.ShipmentStatus{
		domain.ShipmentStatusCreated,
		domain.ShipmentStatusProcessing,
		domain.ShipmentStatusShipped,
		domain.ShipmentStatusDelivered,
		domain.ShipmentStatusCancelled,
	} {
		next, err := domain.Transition(status, status)
		if err != nil {
			t.Fatalf("expected same-state %s to be a no-op, got %v", status, err)
		}
		if next != status {
			t.Fatalf("expected %s, got %s", status, next)
		}
	}
}

func TestTransitionCancellation(t *testing.T) {
	t.Parallel()

	for _, from := range []domain.ShipmentStatus{
		domain.ShipmentStatusCreated,
		domain.ShipmentStatusProcessing,
		domain.ShipmentStatusShipped,
	} {
		next, err := domain.Transition(from, domain.ShipmentStatusCancelled)
		if err != nil {
			t.Fatalf("expected cancellation from %s to succeed, got %v", from, err)
		}
		if next != domain.ShipmentStatusCancelled {
			t.Fatalf("expected cancelled, got %s", next)
		}
	}
	if _, err := domain.Transition(domain.ShipmentStatusDelivered, domain.ShipmentStatusCancelled); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected cancellation from delivered to fail, got %v", err)
	}
}

func TestTransitionTerminalStatesAreImmutable(t *testing.T) {
	t.Parallel()

	for _, terminal := range []domain.ShipmentStatus{domain.ShipmentStatusDelivered, domain.ShipmentStatusCancelled} {
		for _, requested := range []domain.ShipmentStatus{
			domain.ShipmentStatusCreated,
			domain.ShipmentStatusProcessing,
			domain.ShipmentStatusShipped,
		} {
			if _, err := domain.Transition(terminal, requested); !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected %s -> %s to fail, got %v", terminal, requested, err)
			}
		}
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	t.Parallel()

	if _, err := domain.Transition("teleported", domain.ShipmentStatusCreated); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for unknown status, got %v", err)
	}
	if _, err := domain.Transition(domain.ShipmentStatusCreated, "teleported"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for unknown status, got %v", err)
	}
}

func TestParseShipmentStatus(t *testing.T) {
	t.Parallel()

	status, ok := domain.ParseShipmentStatus("  Shipped ")
	if !ok || status != domain.ShipmentStatusShipped {
		t.Fatalf("expected shipped, got %s ok=%v", status, ok)
	}
	if _, ok := domain.ParseShipmentStatus("warehoused"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}

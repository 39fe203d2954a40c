package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ordermesh/logistics-service/internal/adapters/memory"
	"github.com/ordermesh/logistics-service/internal/application"
	"github.com/ordermesh/logistics-service/internal/contracts"
	"github.com/ordermesh/logistics-service/internal/domain"
)

func createShipment(t *testing.T, svc *application.Service, orderID int64) domain.Shipment {
	t.Helper()
	ctx := context.Background()
	if err := svc.HandleOrderPaid(ctx, orderPaidPayload(t, uuid.NewString(), orderID)); err != nil {
		t.Fatalf("seed shipment: %v", err)
	}
	shipment, err := svc.GetShipmentByOrderID(ctx, orderID)
	if err != nil {
		t.Fatalf("load seeded shipment: %v", err)
	}
	return shipment
}

func TestUpdateStatusAdvancesLifecycle(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()
	shipment := createShipment(t, svc, 7)

	updated, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusProcessing, "")
	if err != nil {
		t.Fatalf("created -> processing: %v", err)
	}
	if updated.Status != domain.ShipmentStatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}
	if updated.UpdatedAt.Before(shipment.UpdatedAt) {
		t.Fatalf("expected updated_at to advance")
	}
}

func TestUpdateStatusSameStateIsNoOp(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()
	shipment := createShipment(t, svc, 7)

	updated, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusCreated, "")
	if err != nil {
		t.Fatalf("expected same-state no-op, got %v", err)
	}
	if updated.UpdatedAt != shipment.UpdatedAt {
		t.Fatalf("no-op must not stamp updated_at")
	}
	pending, _ := repos.Outbox.FetchUnpublished(ctx, 10)
	if len(pending) != 1 {
		t.Fatalf("no-op must not enqueue a status_changed event, got %d records", len(pending))
	}
}

func TestUpdateStatusShippedRequiresTrackingNumber(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()
	shipment := createShipment(t, svc, 7)

	if _, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusProcessing, ""); err != nil {
		t.Fatalf("created -> processing: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusShipped, ""); !errors.Is(err, domain.ErrMissingTrackingNumber) {
		t.Fatalf("expected missing tracking number, got %v", err)
	}
	// Tracking can ride along atomically with the shipped transition.
	updated, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusShipped, "TRK-001")
	if err != nil {
		t.Fatalf("shipped with inline tracking: %v", err)
	}
	if updated.Status != domain.ShipmentStatusShipped || updated.TrackingNumber != "TRK-001" {
		t.Fatalf("unexpected shipment after shipped: %+v", updated)
	}
}

func TestUpdateStatusTerminalIsImmutable(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()
	shipment := createShipment(t, svc, 7)

	if _, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusCancelled, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusProcessing, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition out of cancelled, got %v", err)
	}
	if _, err := svc.AssignTrackingNumber(ctx, shipment.ShipmentID, "TRK-001"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected tracking assignment on cancelled shipment to fail, got %v", err)
	}
}

func TestUpdateStatusUnknownShipment(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, uuid.NewString(), domain.ShipmentStatusProcessing, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssignTrackingNumber(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()
	shipment := createShipment(t, svc, 7)

	updated, err := svc.AssignTrackingNumber(ctx, shipment.ShipmentID, " TRK-042 ")
	if err != nil {
		t.Fatalf("assign tracking: %v", err)
	}
	if updated.TrackingNumber != "TRK-042" {
		t.Fatalf("expected trimmed tracking number, got %q", updated.TrackingNumber)
	}
	if _, err := svc.AssignTrackingNumber(ctx, shipment.ShipmentID, "   "); !errors.Is(err, domain.ErrMissingTrackingNumber) {
		t.Fatalf("expected missing tracking number, got %v", err)
	}
	if _, err := svc.AssignTrackingNumber(ctx, uuid.NewString(), "TRK-042"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAndStats(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()
	first := createShipment(t, svc, 1)
	createShipment(t, svc, 2)

	if _, err := svc.UpdateStatus(ctx, first.ShipmentID, domain.ShipmentStatusProcessing, ""); err != nil {
		t.Fatalf("advance first: %v", err)
	}

	createdRows, err := svc.ListByStatus(ctx, "created")
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(createdRows) != 1 {
		t.Fatalf("expected one created shipment, got %d", len(createdRows))
	}
	if _, err := svc.ListByStatus(ctx, "warehoused"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid status to be rejected, got %v", err)
	}

	byEmail, err := svc.ListByCustomerEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if len(byEmail) != 2 {
		t.Fatalf("expected two shipments for customer, got %d", len(byEmail))
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 2 || stats.ByStatus["created"] != 1 || stats.ByStatus["processing"] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestUpdateStatusCarriesRequestTraceID(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := application.WithTraceID(context.Background(), "req-9")
	shipment := createShipment(t, svc, 7)

	if _, err := svc.UpdateStatus(ctx, shipment.ShipmentID, domain.ShipmentStatusProcessing, ""); err != nil {
		t.Fatalf("advance: %v", err)
	}
	pending, err := repos.Outbox.FetchUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("fetch outbox: %v", err)
	}
	var changed *contracts.EventEnvelope
	for _, rec := range pending {
		if rec.EventType != domain.EventShipmentStatusChanged {
			continue
		}
		var envelope contracts.EventEnvelope
		if err := json.Unmarshal(rec.Payload, &envelope); err != nil {
			t.Fatalf("decode outbox payload: %v", err)
		}
		changed = &envelope
	}
	if changed == nil {
		t.Fatal("expected a status_changed outbox record")
	}
	if changed.TraceID != "req-9" {
		t.Fatalf("expected request trace id on the envelope, got %q", changed.TraceID)
	}
}

func TestDeleteShipment(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	svc := newTestService(repos)
	ctx := context.Background()
	shipment := createShipment(t, svc, 7)

	if err := svc.DeleteShipment(ctx, shipment.ShipmentID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetShipment(ctx, shipment.ShipmentID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteShipment(ctx, shipment.ShipmentID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}

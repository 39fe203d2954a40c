package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	eventadapter "github.com/ordermesh/logistics-service/internal/adapters/events"
	"github.com/ordermesh/logistics-service/internal/adapters/memory"
	"github.com/ordermesh/logistics-service/internal/domain"
	"github.com/ordermesh/logistics-service/internal/ports"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, []byte, string) error {
	return errors.New("broker unreachable")
}

func enqueueOutboxEvent(t *testing.T, outbox *memory.OutboxRepository) uuid.UUID {
	t.Helper()
	eventID := uuid.New()
	err := outbox.Enqueue(context.Background(), ports.OutboxEvent{
		EventID:      eventID,
		EventType:    domain.EventShipmentCreated,
		PartitionKey: "42",
		Payload:      []byte(`{"shipment_id":"abc"}`),
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return eventID
}

func TestOutboxWorkerPublishesPendingRecords(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	publisher := eventadapter.NewMemoryPublisher()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	worker := eventadapter.NewOutboxWorker(logger, repos.Outbox, publisher, time.Second, 100)

	enqueueOutboxEvent(t, repos.Outbox)
	if err := worker.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected one published event, got %d", len(events))
	}
	if events[0].EventType != domain.EventShipmentCreated || events[0].PartitionKey != "42" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	pending, err := repos.Outbox.FetchUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected record marked published, %d still pending", len(pending))
	}
}

func TestOutboxWorkerKeepsRecordOnPublishFailure(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	worker := eventadapter.NewOutboxWorker(logger, repos.Outbox, failingPublisher{}, time.Second, 100)

	enqueueOutboxEvent(t, repos.Outbox)
	if err := worker.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}

	pending, err := repos.Outbox.FetchUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected record retained for retry, got %d pending", len(pending))
	}
	rec := pending[0]
	if rec.RetryCount != 1 || rec.LastError == nil {
		t.Fatalf("expected failure recorded on the row, got %+v", rec)
	}
}

func TestOutboxWorkerRecoversAfterBrokerReturns(t *testing.T) {
	t.Parallel()

	repos := memory.NewRepositories()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	enqueueOutboxEvent(t, repos.Outbox)
	failing := eventadapter.NewOutboxWorker(logger, repos.Outbox, failingPublisher{}, time.Second, 100)
	if err := failing.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}

	publisher := eventadapter.NewMemoryPublisher()
	healthy := eventadapter.NewOutboxWorker(logger, repos.Outbox, publisher, time.Second, 100)
	if err := healthy.ProcessOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}

	if len(publisher.Events()) != 1 {
		t.Fatalf("expected the retained record published, got %d", len(publisher.Events()))
	}
	pending, err := repos.Outbox.FetchUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected outbox drained, %d still pending", len(pending))
	}
}

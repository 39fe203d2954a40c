package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ordermesh/logistics-service/internal/ports"
)

func TestOutboxFetchUnpublishedReturnsOldestFirst(t *testing.T) {
	t.Parallel()

	repos := NewRepositories()
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < 8; i++ {
		err := repos.Outbox.Enqueue(ctx, ports.OutboxEvent{
			EventID:      uuid.New(),
			EventType:    "shipment.created",
			PartitionKey: fmt.Sprintf("s-%d", i),
			Payload:      []byte("{}"),
			OccurredAt:   base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	got, err := repos.Outbox.FetchUnpublished(ctx, 3)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected the limit applied, got %d records", len(got))
	}
	for i, rec := range got {
		if want := fmt.Sprintf("s-%d", i); rec.PartitionKey != want {
			t.Fatalf("expected oldest records in order, got %s at position %d", rec.PartitionKey, i)
		}
	}
}

func TestOutboxExists(t *testing.T) {
	t.Parallel()

	repos := NewRepositories()
	ctx := context.Background()
	err := repos.Outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "shipment.created",
		PartitionKey: "s-1",
		Payload:      []byte("{}"),
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ok, err := repos.Outbox.Exists(ctx, "shipment.created", "s-1")
	if err != nil || !ok {
		t.Fatalf("expected record found, got ok=%v err=%v", ok, err)
	}
	ok, err = repos.Outbox.Exists(ctx, "shipment.created", "s-2")
	if err != nil || ok {
		t.Fatalf("expected no record for other shipment, got ok=%v err=%v", ok, err)
	}
	ok, err = repos.Outbox.Exists(ctx, "shipment.status_changed", "s-1")
	if err != nil || ok {
		t.Fatalf("expected no record for other event type, got ok=%v err=%v", ok, err)
	}
}

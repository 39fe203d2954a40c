package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ordermesh/logistics-service/internal/domain"
)

// ShipmentRepository is the persistence port the coordinator depends on. The
// order_id uniqueness that makes redelivery idempotent is enforced by the
// implementation (unique index or equivalent atomic check-and-insert), not
// here.
type ShipmentRepository interface {
	Create(ctx context.Context, row domain.Shipment) error
	Update(ctx context.Context, row domain.Shipment) error
	FindByID(ctx context.Context, shipmentID string) (domain.Shipment, error)
	FindByOrderID(ctx context.Context, orderID int64) (domain.Shipment, error)
	ExistsByOrderID(ctx context.Context, orderID int64) (bool, error)
	FindByStatus(ctx context.Context, status domain.ShipmentStatus) ([]domain.Shipment, error)
	FindByCustomerEmail(ctx context.Context, email string) ([]domain.Shipment, error)
	DeleteByID(ctx context.Context, shipmentID string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.ShipmentStatus) (int64, error)
}

type EventDedupRepository interface {
	IsDuplicate(ctx context.Context, eventID string, now time.Time) (bool, error)
	MarkProcessed(ctx context.Context, eventID, eventType string, expiresAt time.Time) error
}

type OutboxEvent struct {
	EventID          uuid.UUID
	EventType        string
	PartitionKey     string
	PartitionKeyPath string
	Payload          []byte
	OccurredAt       time.Time
	SchemaVersion    string
	TraceID          string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	LastErrorAt  *time.Time
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	Exists(ctx context.Context, eventType, partitionKey string) (bool, error)
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}

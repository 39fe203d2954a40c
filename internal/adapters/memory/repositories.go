package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ordermesh/logistics-service/internal/domain"
	"github.com/ordermesh/logistics-service/internal/ports"
)

// Repositories hold everything in process memory. They back unit tests and
// serve as the no-database fallback in local bootstrap. The shipment map is
// guarded by one mutex so the check-and-insert on order_id is atomic, matching
// the unique-index guarantee of the postgres adapter.
type Repositories struct {
	Shipments  *ShipmentRepository
	EventDedup *EventDedupRepository
	Outbox     *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Shipments:  &ShipmentRepository{byID: map[string]domain.Shipment{}, byOrder: map[int64]string{}},
		EventDedup: &EventDedupRepository{rows: map[string]time.Time{}},
		Outbox:     &OutboxRepository{rows: map[uuid.UUID]ports.OutboxRecord{}},
	}
}

type ShipmentRepository struct {
	mu      sync.Mutex
	byID    map[string]domain.Shipment
	byOrder map[int64]string

	// FailNextCreate forces the next Create to fail, for exercising the
	// nack-and-redeliver path in tests.
	FailNextCreate bool
}

func (r *ShipmentRepository) Create(_ context.Context, row domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNextCreate {
		r.FailNextCreate = false
		return domain.ErrStorageUnavailable
	}
	if _, ok := r.byOrder[row.OrderID]; ok {
		return fmt.Errorf("%w: order %d already has a shipment", domain.ErrConflict, row.OrderID)
	}
	if _, ok := r.byID[row.ShipmentID]; ok {
		return domain.ErrConflict
	}
	r.byID[row.ShipmentID] = row
	r.byOrder[row.OrderID] = row.ShipmentID
	return nil
}

func (r *ShipmentRepository) Update(_ context.Context, row domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[row.ShipmentID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[row.ShipmentID] = row
	return nil
}

func (r *ShipmentRepository) FindByID(_ context.Context, shipmentID string) (domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[shipmentID]
	if !ok {
		return domain.Shipment{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *ShipmentRepository) FindByOrderID(_ context.Context, orderID int64) (domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return domain.Shipment{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *ShipmentRepository) ExistsByOrderID(_ context.Context, orderID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byOrder[orderID]
	return ok, nil
}

func (r *ShipmentRepository) FindByStatus(_ context.Context, status domain.ShipmentStatus) ([]domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Shipment{}
	for _, row := range r.byID {
		if row.Status == status {
			out = append(out, row)
		}
	}
	sortByCreatedAt(out)
	return out, nil
}

func (r *ShipmentRepository) FindByCustomerEmail(_ context.Context, email string) ([]domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Shipment{}
	for _, row := range r.byID {
		if row.CustomerEmail == email {
			out = append(out, row)
		}
	}
	sortByCreatedAt(out)
	return out, nil
}

func (r *ShipmentRepository) DeleteByID(_ context.Context, shipmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.byID[shipmentID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, shipmentID)
	delete(r.byOrder, row.OrderID)
	return nil
}

func (r *ShipmentRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

func (r *ShipmentRepository) CountByStatus(_ context.Context, status domain.ShipmentStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.byID {
		if row.Status == status {
			count++
		}
	}
	return count, nil
}

func sortByCreatedAt(rows []domain.Shipment) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
}

type EventDedupRepository struct {
	mu   sync.Mutex
	rows map[string]time.Time
}

func (r *EventDedupRepository) IsDuplicate(_ context.Context, eventID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	expiresAt, ok := r.rows[eventID]
	return ok && expiresAt.After(now), nil
}

func (r *EventDedupRepository) MarkProcessed(_ context.Context, eventID, _ string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[eventID] = expiresAt
	return nil
}

type OutboxRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]ports.OutboxRecord

	// FailNextEnqueue forces the next Enqueue to fail, for exercising the
	// publish-failure surfacing in tests.
	FailNextEnqueue bool
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNextEnqueue {
		r.FailNextEnqueue = false
		return domain.ErrStorageUnavailable
	}
	r.rows[event.EventID] = ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		FirstSeenAt:  event.OccurredAt,
	}
	return nil
}

func (r *OutboxRepository) Exists(_ context.Context, eventType, partitionKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.EventType == eventType && row.PartitionKey == partitionKey {
			return true, nil
		}
	}
	return false, nil
}

func (r *OutboxRepository) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pending := []ports.OutboxRecord{}
	for _, row := range r.rows {
		if row.PublishedAt == nil {
			pending = append(pending, row)
		}
	}
	// Oldest first, then truncate, matching the postgres adapter's
	// ORDER BY created_at + LIMIT.
	sort.Slice(pending, func(i, j int) bool { return pending[i].FirstSeenAt.Before(pending[j].FirstSeenAt) })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	row.PublishedAt = &at
	r.rows[outboxID] = row
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	row.RetryCount++
	row.LastError = &errMsg
	row.LastErrorAt = &at
	r.rows[outboxID] = row
	return nil
}

var (
	_ ports.ShipmentRepository   = (*ShipmentRepository)(nil)
	_ ports.EventDedupRepository = (*EventDedupRepository)(nil)
	_ ports.OutboxRepository     = (*OutboxRepository)(nil)
)

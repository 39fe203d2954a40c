package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ordermesh/logistics-service/internal/contracts"
	"github.com/ordermesh/logistics-service/internal/domain"
	"github.com/ordermesh/logistics-service/internal/ports"
)

// HandleOrderPaid is the inbound side of the fulfillment coordinator. A nil
// return tells the consumer worker to commit the offset; an error withholds
// the commit so the broker redelivers. Redelivery is harmless: the order_id
// existence check (backed by a unique index) makes the create idempotent.
func (s *Service) HandleOrderPaid(ctx context.Context, payload []byte) error {
	var envelope contracts.EventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return fmt.Errorf("%w: malformed order.paid envelope", domain.ErrInvalidInput)
	}
	var data contracts.OrderPaidPayload
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return fmt.Errorf("%w: malformed order.paid data", domain.ErrInvalidInput)
	}
	if data.OrderID <= 0 {
		return fmt.Errorf("%w: order.paid requires order_id", domain.ErrInvalidInput)
	}

	traceID := envelope.TraceID
	if traceID == "" {
		traceID = TraceIDFromContext(ctx)
	}

	if envelope.EventID != "" {
		dup, err := s.eventDedup.IsDuplicate(ctx, envelope.EventID, s.nowFn())
		if err != nil {
			return err
		}
		if dup {
			return nil
		}
	}

	exists, err := s.shipments.ExistsByOrderID(ctx, data.OrderID)
	if err != nil {
		return err
	}
	if exists {
		// Redelivery after a crash between the create and the enqueue leaves
		// the shipment durable but its notification missing. Recover it
		// before acknowledging.
		if err := s.ensureShipmentCreatedQueued(ctx, data.OrderID, traceID); err != nil {
			return err
		}
		s.markEventProcessed(ctx, envelope.EventID, domain.EventOrderPaid)
		return nil
	}

	now := s.nowFn()
	shipment := domain.Shipment{
		ShipmentID:    uuid.NewString(),
		OrderID:       data.OrderID,
		CustomerName:  strings.TrimSpace(data.CustomerName),
		CustomerEmail: strings.TrimSpace(data.CustomerEmail),
		Address: domain.Address{
			Street:  data.Street,
			City:    data.City,
			State:   data.State,
			Zip:     data.Zip,
			Country: data.Country,
		},
		TotalAmount: data.TotalAmount,
		Status:      domain.ShipmentStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.shipments.Create(ctx, shipment); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent worker won the unique-index race for this order.
			if qErr := s.ensureShipmentCreatedQueued(ctx, data.OrderID, traceID); qErr != nil {
				return qErr
			}
			s.markEventProcessed(ctx, envelope.EventID, domain.EventOrderPaid)
			return nil
		}
		return err
	}
	if err := s.enqueueShipmentCreated(ctx, shipment, traceID); err != nil {
		return err
	}
	s.markEventProcessed(ctx, envelope.EventID, domain.EventOrderPaid)
	return nil
}

// ensureShipmentCreatedQueued backstops the shipment.created notification for
// an order whose shipment already exists. Without it, a nack after a
// successful create would ack on redelivery with the notification lost.
func (s *Service) ensureShipmentCreatedQueued(ctx context.Context, orderID int64, traceID string) error {
	row, err := s.shipments.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	queued, err := s.outbox.Exists(ctx, domain.EventShipmentCreated, row.ShipmentID)
	if err != nil {
		return err
	}
	if queued {
		return nil
	}
	return s.enqueueShipmentCreated(ctx, row, traceID)
}

func (s *Service) markEventProcessed(ctx context.Context, eventID, eventType string) {
	if eventID == "" {
		return
	}
	_ = s.eventDedup.MarkProcessed(ctx, eventID, eventType, s.nowFn().Add(s.cfg.EventDedupTTL))
}

func (s *Service) enqueueShipmentCreated(ctx context.Context, shipment domain.Shipment, traceID string) error {
	return s.enqueueEvent(ctx, domain.EventShipmentCreated, shipment, traceID, contracts.ShipmentCreatedPayload{
		ShipmentID:    shipment.ShipmentID,
		OrderID:       shipment.OrderID,
		CustomerEmail: shipment.CustomerEmail,
		TotalAmount:   shipment.TotalAmount,
		Status:        string(shipment.Status),
		CreatedAt:     shipment.CreatedAt.Format(time.RFC3339),
	})
}

func (s *Service) enqueueStatusChanged(ctx context.Context, shipment domain.Shipment, previous domain.ShipmentStatus, transitionedAt time.Time) error {
	return s.enqueueEvent(ctx, domain.EventShipmentStatusChanged, shipment, TraceIDFromContext(ctx), contracts.ShipmentStatusChangedPayload{
		ShipmentID:     shipment.ShipmentID,
		OrderID:        shipment.OrderID,
		PreviousStatus: string(previous),
		Status:         string(shipment.Status),
		TransitionedAt: transitionedAt.Format(time.RFC3339),
	})
}

func (s *Service) enqueueTrackingAssigned(ctx context.Context, shipment domain.Shipment, assignedAt time.Time) error {
	return s.enqueueEvent(ctx, domain.EventShipmentTrackingAssigned, shipment, TraceIDFromContext(ctx), contracts.ShipmentTrackingAssignedPayload{
		ShipmentID:     shipment.ShipmentID,
		OrderID:        shipment.OrderID,
		TrackingNumber: shipment.TrackingNumber,
		AssignedAt:     assignedAt.Format(time.RFC3339),
	})
}

// enqueueEvent hands the event to the transactional outbox. The envelope
// occurred_at is the emission instant; the business timestamp travels inside
// the data payload. Enqueue failures surface to the caller so the triggering
// operation can fail instead of silently dropping the notification.
func (s *Service) enqueueEvent(ctx context.Context, eventType string, shipment domain.Shipment, traceID string, data any) error {
	occurredAt := s.nowFn()
	rawData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	envelope := contracts.EventEnvelope{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		OccurredAt:       occurredAt,
		PartitionKeyPath: domain.PartitionKeyPath(eventType),
		PartitionKey:     shipment.ShipmentID,
		SourceService:    s.cfg.ServiceName,
		TraceID:          traceID,
		SchemaVersion:    "1.0",
		Data:             rawData,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if err := s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:          uuid.New(),
		EventType:        eventType,
		PartitionKey:     envelope.PartitionKey,
		PartitionKeyPath: envelope.PartitionKeyPath,
		Payload:          payload,
		OccurredAt:       occurredAt,
		SchemaVersion:    envelope.SchemaVersion,
		TraceID:          traceID,
	}); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublishUnavailable, err)
	}
	return nil
}

package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ordermesh/logistics-service/internal/contracts"
	"github.com/ordermesh/logistics-service/internal/domain"
)

func (s *Service) GetShipment(ctx context.Context, shipmentID string) (domain.Shipment, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return domain.Shipment{}, fmt.Errorf("%w: shipment_id required", domain.ErrInvalidInput)
	}
	if cached, ok := s.cachedShipment(ctx, shipmentID); ok {
		return cached, nil
	}
	row, err := s.shipments.FindByID(ctx, shipmentID)
	if err != nil {
		return domain.Shipment{}, err
	}
	s.cacheShipment(ctx, row)
	return row, nil
}

func (s *Service) GetShipmentByOrderID(ctx context.Context, orderID int64) (domain.Shipment, error) {
	if orderID <= 0 {
		return domain.Shipment{}, fmt.Errorf("%w: order_id required", domain.ErrInvalidInput)
	}
	return s.shipments.FindByOrderID(ctx, orderID)
}

// UpdateStatus drives the shipment through its lifecycle. A request for the
// current status succeeds without mutation so redelivered commands stay
// harmless. A tracking number may ride along to satisfy the shipped
// precondition atomically with the transition.
func (s *Service) UpdateStatus(ctx context.Context, shipmentID string, requested domain.ShipmentStatus, trackingNumber string) (domain.Shipment, error) {
	row, err := s.shipments.FindByID(ctx, strings.TrimSpace(shipmentID))
	if err != nil {
		return domain.Shipment{}, err
	}
	next, err := domain.Transition(row.Status, requested)
	if err != nil {
		return domain.Shipment{}, err
	}
	if next == row.Status {
		return row, nil
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber != "" {
		if err := domain.ValidateTrackingNumber(trackingNumber); err != nil {
			return domain.Shipment{}, err
		}
		row.TrackingNumber = trackingNumber
	}
	if next == domain.ShipmentStatusShipped && row.TrackingNumber == "" {
		return domain.Shipment{}, domain.ErrMissingTrackingNumber
	}

	previous := row.Status
	now := s.nowFn()
	row.Status = next
	row.UpdatedAt = now
	if err := s.shipments.Update(ctx, row); err != nil {
		return domain.Shipment{}, err
	}
	s.invalidateShipment(ctx, row.ShipmentID)
	if err := s.enqueueStatusChanged(ctx, row, previous, now); err != nil {
		return domain.Shipment{}, err
	}
	return row, nil
}

func (s *Service) AssignTrackingNumber(ctx context.Context, shipmentID, trackingNumber string) (domain.Shipment, error) {
	if err := domain.ValidateTrackingNumber(trackingNumber); err != nil {
		return domain.Shipment{}, err
	}
	row, err := s.shipments.FindByID(ctx, strings.TrimSpace(shipmentID))
	if err != nil {
		return domain.Shipment{}, err
	}
	if row.Status.Terminal() {
		return domain.Shipment{}, fmt.Errorf("%w: %s is terminal", domain.ErrInvalidTransition, row.Status)
	}
	now := s.nowFn()
	row.TrackingNumber = strings.TrimSpace(trackingNumber)
	row.UpdatedAt = now
	if err := s.shipments.Update(ctx, row); err != nil {
		return domain.Shipment{}, err
	}
	s.invalidateShipment(ctx, row.ShipmentID)
	if err := s.enqueueTrackingAssigned(ctx, row, now); err != nil {
		return domain.Shipment{}, err
	}
	return row, nil
}

func (s *Service) ListByStatus(ctx context.Context, raw string) ([]domain.Shipment, error) {
	status, ok := domain.ParseShipmentStatus(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, raw)
	}
	return s.shipments.FindByStatus(ctx, status)
}

func (s *Service) ListByCustomerEmail(ctx context.Context, email string) ([]domain.Shipment, error) {
	if err := domain.ValidateCustomerEmail(email); err != nil {
		return nil, err
	}
	return s.shipments.FindByCustomerEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) Stats(ctx context.Context) (contracts.ShipmentStatsResponse, error) {
	total, err := s.shipments.Count(ctx)
	if err != nil {
		return contracts.ShipmentStatsResponse{}, err
	}
	out := contracts.ShipmentStatsResponse{Total: total, ByStatus: map[string]int64{}}
	for _, status := range []domain.ShipmentStatus{
		domain.ShipmentStatusCreated,
		domain.ShipmentStatusProcessing,
		domain.ShipmentStatusShipped,
		domain.ShipmentStatusDelivered,
		domain.ShipmentStatusCancelled,
	} {
		count, err := s.shipments.CountByStatus(ctx, status)
		if err != nil {
			return contracts.ShipmentStatsResponse{}, err
		}
		out.ByStatus[string(status)] = count
	}
	return out, nil
}

// DeleteShipment is an administrative hard delete outside the lifecycle.
func (s *Service) DeleteShipment(ctx context.Context, shipmentID string) error {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return fmt.Errorf("%w: shipment_id required", domain.ErrInvalidInput)
	}
	if err := s.shipments.DeleteByID(ctx, shipmentID); err != nil {
		return err
	}
	s.invalidateShipment(ctx, shipmentID)
	return nil
}

func (s *Service) cachedShipment(ctx context.Context, shipmentID string) (domain.Shipment, bool) {
	if s.cache == nil {
		return domain.Shipment{}, false
	}
	raw, ok, err := s.cache.Get(ctx, shipmentCacheKey(shipmentID))
	if err != nil || !ok {
		return domain.Shipment{}, false
	}
	var row domain.Shipment
	if json.Unmarshal(raw, &row) != nil {
		return domain.Shipment{}, false
	}
	return row, true
}

func (s *Service) cacheShipment(ctx context.Context, row domain.Shipment) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, shipmentCacheKey(row.ShipmentID), raw, s.cfg.CacheTTL)
}

func (s *Service) invalidateShipment(ctx context.Context, shipmentID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, shipmentCacheKey(shipmentID))
}

func shipmentCacheKey(shipmentID string) string {
	return "shipment:" + shipmentID
}

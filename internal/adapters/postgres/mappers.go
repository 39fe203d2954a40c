package postgres

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ordermesh/logistics-service/internal/domain"
)

func toShipmentModel(row domain.Shipment) (shipmentModel, error) {
	id, err := uuid.Parse(row.ShipmentID)
	if err != nil {
		return shipmentModel{}, fmt.Errorf("%w: invalid shipment_id", domain.ErrInvalidInput)
	}
	return shipmentModel{
		ShipmentID:        id,
		OrderID:           row.OrderID,
		CustomerName:      row.CustomerName,
		CustomerEmail:     row.CustomerEmail,
		Street:            row.Address.Street,
		City:              row.Address.City,
		State:             row.Address.State,
		Zip:               row.Address.Zip,
		Country:           row.Address.Country,
		TotalAmount:       row.TotalAmount,
		Status:            string(row.Status),
		TrackingNumber:    row.TrackingNumber,
		EstimatedDelivery: row.EstimatedDelivery,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func toDomainShipment(model shipmentModel) domain.Shipment {
	return domain.Shipment{
		ShipmentID:    model.ShipmentID.String(),
		OrderID:       model.OrderID,
		CustomerName:  model.CustomerName,
		CustomerEmail: model.CustomerEmail,
		Address: domain.Address{
			Street:  model.Street,
			City:    model.City,
			State:   model.State,
			Zip:     model.Zip,
			Country: model.Country,
		},
		TotalAmount:       model.TotalAmount,
		Status:            domain.ShipmentStatus(model.Status),
		TrackingNumber:    model.TrackingNumber,
		EstimatedDelivery: model.EstimatedDelivery,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func toDomainShipments(models []shipmentModel) []domain.Shipment {
	out := make([]domain.Shipment, 0, len(models))
	for _, model := range models {
		out = append(out, toDomainShipment(model))
	}
	return out
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ordermesh/logistics-service/internal/domain"
	"github.com/ordermesh/logistics-service/internal/ports"
	"gorm.io/gorm"
)

type shipmentRepository struct {
	db *gorm.DB
}

func (r *shipmentRepository) Create(ctx context.Context, row domain.Shipment) error {
	model, err := toShipmentModel(row)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: order %d already has a shipment", domain.ErrConflict, row.OrderID)
		}
		return err
	}
	return nil
}

func (r *shipmentRepository) Update(ctx context.Context, row domain.Shipment) error {
	model, err := toShipmentModel(row)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&shipmentModel{}).
		Where("shipment_id = ?", model.ShipmentID).
		Updates(map[string]any{
			"status":             model.Status,
			"tracking_number":    model.TrackingNumber,
			"estimated_delivery": model.EstimatedDelivery,
			"updated_at":         model.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *shipmentRepository) FindByID(ctx context.Context, shipmentID string) (domain.Shipment, error) {
	id, err := uuid.Parse(shipmentID)
	if err != nil {
		return domain.Shipment{}, fmt.Errorf("%w: invalid shipment_id", domain.ErrInvalidInput)
	}
	var model shipmentModel
	if err := r.db.WithContext(ctx).Where("shipment_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Shipment{}, domain.ErrNotFound
		}
		return domain.Shipment{}, err
	}
	return toDomainShipment(model), nil
}

func (r *shipmentRepository) FindByOrderID(ctx context.Context, orderID int64) (domain.Shipment, error) {
	var model shipmentModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Shipment{}, domain.ErrNotFound
		}
		return domain.Shipment{}, err
	}
	return toDomainShipment(model), nil
}

func (r *shipmentRepository) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&shipmentModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *shipmentRepository) FindByStatus(ctx context.Context, status domain.ShipmentStatus) ([]domain.Shipment, error) {
	var rows []shipmentModel
	if err := r.db.WithContext(ctx).Where("status = ?", string(status)).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainShipments(rows), nil
}

func (r *shipmentRepository) FindByCustomerEmail(ctx context.Context, email string) ([]domain.Shipment, error) {
	var rows []shipmentModel
	if err := r.db.WithContext(ctx).Where("customer_email = ?", email).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainShipments(rows), nil
}

func (r *shipmentRepository) DeleteByID(ctx context.Context, shipmentID string) error {
	id, err := uuid.Parse(shipmentID)
	if err != nil {
		return fmt.Errorf("%w: invalid shipment_id", domain.ErrInvalidInput)
	}
	res := r.db.WithContext(ctx).Where("shipment_id = ?", id).Delete(&shipmentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *shipmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&shipmentModel{}).Count(&count).Error
	return count, err
}

func (r *shipmentRepository) CountByStatus(ctx context.Context, status domain.ShipmentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&shipmentModel{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

var _ ports.ShipmentRepository = (*shipmentRepository)(nil)

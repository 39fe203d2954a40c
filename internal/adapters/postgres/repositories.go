package postgres

import (
	"github.com/ordermesh/logistics-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Shipments  ports.ShipmentRepository
	EventDedup ports.EventDedupRepository
	Outbox     ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Shipments:  &shipmentRepository{db: db},
		EventDedup: &eventDedupRepository{db: db},
		Outbox:     &outboxRepository{db: db},
	}
}

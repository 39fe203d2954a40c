package postgres

import (
	"time"

	"github.com/google/uuid"
)

type shipmentModel struct {
	ShipmentID        uuid.UUID  `gorm:"column:shipment_id;type:uuid;primaryKey"`
	OrderID           int64      `gorm:"column:order_id;uniqueIndex:ux_shipments_order_id"`
	CustomerName      string     `gorm:"column:customer_name"`
	CustomerEmail     string     `gorm:"column:customer_email"`
	Street            string     `gorm:"column:street"`
	City              string     `gorm:"column:city"`
	State             string     `gorm:"column:state"`
	Zip               string     `gorm:"column:zip"`
	Country           string     `gorm:"column:country"`
	TotalAmount       float64    `gorm:"column:total_amount"`
	Status            string     `gorm:"column:status"`
	TrackingNumber    string     `gorm:"column:tracking_number"`
	EstimatedDelivery *time.Time `gorm:"column:estimated_delivery"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (shipmentModel) TableName() string { return "shipments" }

type shipmentEventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	EventType   string    `gorm:"column:event_type"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (shipmentEventDedupModel) TableName() string { return "shipment_event_dedup" }

type shipmentOutboxModel struct {
	OutboxID         uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType        string     `gorm:"column:event_type"`
	PartitionKey     string     `gorm:"column:partition_key"`
	PartitionKeyPath string     `gorm:"column:partition_key_path"`
	Payload          string     `gorm:"column:payload"`
	SchemaVersion    string     `gorm:"column:schema_version"`
	TraceID          string     `gorm:"column:trace_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	FirstSeenAt      time.Time  `gorm:"column:first_seen_at"`
	PublishedAt      *time.Time `gorm:"column:published_at"`
	RetryCount       int        `gorm:"column:retry_count"`
	LastError        *string    `gorm:"column:last_error"`
	LastErrorAt      *time.Time `gorm:"column:last_error_at"`
}

func (shipmentOutboxModel) TableName() string { return "shipment_outbox" }

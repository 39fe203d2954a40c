package contracts

import (
	"encoding/json"
	"time"
)

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    string          `json:"schema_version"`
	Data             json.RawMessage `json:"data"`
}

// OrderPaidPayload is the data section of the inbound order.paid event. PaidAt
// is the business timestamp; the envelope OccurredAt is the emission instant.
type OrderPaidPayload struct {
	OrderID       int64   `json:"order_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Street        string  `json:"street"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	Country       string  `json:"country"`
	TotalAmount   float64 `json:"total_amount"`
	PaidAt        string  `json:"paid_at"`
}

type ShipmentCreatedPayload struct {
	ShipmentID    string  `json:"shipment_id"`
	OrderID       int64   `json:"order_id"`
	CustomerEmail string  `json:"customer_email"`
	TotalAmount   float64 `json:"total_amount"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

type ShipmentStatusChangedPayload struct {
	ShipmentID     string `json:"shipment_id"`
	OrderID        int64  `json:"order_id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
	TransitionedAt string `json:"transitioned_at"`
}

type ShipmentTrackingAssignedPayload struct {
	ShipmentID     string `json:"shipment_id"`
	OrderID        int64  `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	AssignedAt     string `json:"assigned_at"`
}

type DLQRecord struct {
	SourceTopic  string          `json:"source_topic"`
	Payload      json.RawMessage `json:"payload"`
	ErrorSummary string          `json:"error_summary"`
	Attempts     int             `json:"attempts"`
	FirstSeenAt  time.Time       `json:"first_seen_at"`
	LastErrorAt  time.Time       `json:"last_error_at"`
}

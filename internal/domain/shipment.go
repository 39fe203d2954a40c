package domain

import (
	"strings"
	"time"
)

type ShipmentStatus string

const (
	ShipmentStatusCreated    ShipmentStatus = "created"
	ShipmentStatusProcessing ShipmentStatus = "processing"
	ShipmentStatusShipped    ShipmentStatus = "shipped"
	ShipmentStatusDelivered  ShipmentStatus = "delivered"
	ShipmentStatusCancelled  ShipmentStatus = "cancelled"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type Shipment struct {
	ShipmentID        string         `json:"shipment_id"`
	OrderID           int64          `json:"order_id"`
	CustomerName      string         `json:"customer_name"`
	CustomerEmail     string         `json:"customer_email"`
	Address           Address        `json:"address"`
	TotalAmount       float64        `json:"total_amount"`
	Status            ShipmentStatus `json:"status"`
	TrackingNumber    string         `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentStatusCreated, ShipmentStatusProcessing, ShipmentStatusShipped,
		ShipmentStatusDelivered, ShipmentStatusCancelled:
		return true
	default:
		return false
	}
}

func (s ShipmentStatus) Terminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

func ParseShipmentStatus(raw string) (ShipmentStatus, bool) {
	status := ShipmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	return status, status.Valid()
}

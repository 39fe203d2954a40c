package domain

const (
	EventOrderPaid                = "order.paid"
	EventShipmentCreated          = "shipment.created"
	EventShipmentStatusChanged    = "shipment.status_changed"
	EventShipmentTrackingAssigned = "shipment.tracking_assigned"
)

// PartitionKeyPath maps an event type to the envelope path of its partition
// key so that all events for one order land on one partition.
func PartitionKeyPath(eventType string) string {
	switch eventType {
	case EventOrderPaid:
		return "data.order_id"
	case EventShipmentCreated, EventShipmentStatusChanged, EventShipmentTrackingAssigned:
		return "data.shipment_id"
	}
	return ""
}

package shipment

import (
	"fulfillment/internal/pkg/ddd"
)

const EventShipmentStatusChanged = "ShipmentStatusChanged"

// StatusChangedEvent is keyed by the order so that every event of one order
// lands on the same partition.
type StatusChangedEvent struct {
	ddd.BaseEvent
	ShipmentID     string `json:"shipment_id"`
	OrderID        string `json:"order_id"`
	From           string `json:"from"`
	To             string `json:"to"`
	IsReturn       bool   `json:"is_return"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	WarehouseID    string `json:"warehouse_id,omitempty"`
}

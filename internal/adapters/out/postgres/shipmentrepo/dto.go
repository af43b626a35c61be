// Package shipmentrepo persists forward and return shipments.
package shipmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/google/uuid"
)

// ShipmentDTO maps a shipment row. A pending forward shipment has no
// tracking number yet, so the column is nullable; set numbers are unique.
type ShipmentDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	WarehouseID    *uuid.UUID `gorm:"type:uuid"`
	Status         string     `gorm:"type:varchar(32);not null"`
	TrackingNumber *string    `gorm:"type:varchar(50);uniqueIndex"`
	IsReturn       bool       `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
	Version        int        `gorm:"not null"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	var tracking *string
	if t := s.TrackingNumber(); t != "" {
		tracking = &t
	}

	return ShipmentDTO{
		ID:             s.ID().Value(),
		OrderID:        s.OrderID().Value(),
		WarehouseID:    kernel.ValuePtr(s.WarehouseID()),
		Status:         s.Status().String(),
		TrackingNumber: tracking,
		IsReturn:       s.IsReturn(),
		CreatedAt:      s.CreatedAt(),
		Version:        s.Version(),
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDPtrFromGoogle(dto.WarehouseID)
	if err != nil {
		return nil, err
	}
	status, err := shipment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var tracking string
	if dto.TrackingNumber != nil {
		tracking = *dto.TrackingNumber
	}

	return shipment.RestoreShipment(id, orderID, warehouseID, status, tracking, dto.IsReturn, dto.CreatedAt, dto.Version)
}

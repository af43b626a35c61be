// Package cataloguerepo persists the reference data lifecycle operations
// read but never change: actors and warehouses.
package cataloguerepo

import (
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/warehouse"

	"github.com/google/uuid"
)

type ActorDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null"`
	Role string    `gorm:"type:varchar(16);not null;index"`
}

func (ActorDTO) TableName() string {
	return "actors"
}

type WarehouseDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:varchar(255);not null"`
	Location string    `gorm:"type:varchar(255);not null"`
	Capacity int       `gorm:"not null"`
}

func (WarehouseDTO) TableName() string {
	return "warehouses"
}

func actorFromDomain(a *actor.Actor) ActorDTO {
	return ActorDTO{ID: a.ID().Value(), Name: a.Name(), Role: a.Role().String()}
}

func actorToDomain(dto ActorDTO) (*actor.Actor, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	role, err := actor.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}
	return actor.NewActor(id, dto.Name, role)
}

func warehouseFromDomain(w *warehouse.Warehouse) WarehouseDTO {
	return WarehouseDTO{ID: w.ID().Value(), Name: w.Name(), Location: w.Location(), Capacity: w.Capacity()}
}

func warehouseToDomain(dto WarehouseDTO) (*warehouse.Warehouse, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return warehouse.NewWarehouse(id, dto.Name, dto.Location, dto.Capacity)
}

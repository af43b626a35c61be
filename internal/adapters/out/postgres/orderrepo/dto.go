// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// An order is stored in the orders table with its items in order_items; both are
// written and read together.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by every party so that the list query can filter on them.
type OrderDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	LogisticsTeamID *uuid.UUID      `gorm:"type:uuid;index"`
	DeliveryAgentID *uuid.UUID      `gorm:"type:uuid;index"`
	WarehouseID     *uuid.UUID      `gorm:"type:uuid"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status          string          `gorm:"type:varchar(32);not null;index"`
	IsReturned      bool            `gorm:"not null;default:false"`
	PlacedAt        time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`
	Version         int             `gorm:"not null"`
	Items           []ItemDTO       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line. Position keeps the cart order.
type ItemDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Position  int             `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	items := o.Items()
	dtos := make([]ItemDTO, 0, len(items))
	for i, item := range items {
		dtos = append(dtos, ItemDTO{
			ID:        item.ID().Value(),
			OrderID:   o.ID().Value(),
			ProductID: item.ProductID().Value(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Amount(),
			Position:  i,
		})
	}

	return OrderDTO{
		ID:              o.ID().Value(),
		CustomerID:      o.CustomerID().Value(),
		VendorID:        o.VendorID().Value(),
		LogisticsTeamID: kernel.ValuePtr(o.LogisticsTeamID()),
		DeliveryAgentID: kernel.ValuePtr(o.DeliveryAgentID()),
		WarehouseID:     kernel.ValuePtr(o.WarehouseID()),
		TotalPrice:      o.TotalPrice().Amount(),
		Status:          o.Status().String(),
		IsReturned:      o.IsReturned(),
		PlacedAt:        o.PlacedAt(),
		Version:         o.Version(),
		Items:           dtos,
	}
}

// toDomain rebuilds the aggregate; RestoreOrder re-checks the stored total
// against the items.
func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := parseIDs(dto.ID, dto.CustomerID, dto.VendorID)
	if err != nil {
		return nil, err
	}
	logisticsTeamID, err := kernel.UUIDPtrFromGoogle(dto.LogisticsTeamID)
	if err != nil {
		return nil, err
	}
	deliveryAgentID, err := kernel.UUIDPtrFromGoogle(dto.DeliveryAgentID)
	if err != nil {
		return nil, err
	}
	warehouseID, err := kernel.UUIDPtrFromGoogle(dto.WarehouseID)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalPrice)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		item, itemErr := itemToDomain(i)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:              ids[0],
		CustomerID:      ids[1],
		VendorID:        ids[2],
		LogisticsTeamID: logisticsTeamID,
		DeliveryAgentID: deliveryAgentID,
		WarehouseID:     warehouseID,
		Items:           items,
		TotalPrice:      total,
		Status:          status,
		IsReturned:      dto.IsReturned,
		PlacedAt:        dto.PlacedAt,
		Version:         dto.Version,
	})
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	ids, err := parseIDs(dto.ID, dto.ProductID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	return order.NewItem(ids[0], ids[1], dto.Quantity, price)
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromGoogle(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

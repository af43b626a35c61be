package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListWarehousesQueryHandler struct {
	db *gorm.DB
}

func NewListWarehousesQueryHandler(db *gorm.DB) ListWarehousesQueryHandler {
	return ListWarehousesQueryHandler{db: db}
}

// Handle returns every warehouse ordered by name.
func (h ListWarehousesQueryHandler) Handle(ctx context.Context, query ListWarehousesQuery) ([]WarehouseView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			location,
			capacity
		FROM warehouses
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	warehouses := make([]WarehouseView, 0)
	for rows.Next() {
		var (
			w  WarehouseView
			id uuid.UUID
		)
		if err = rows.Scan(&id, &w.Name, &w.Location, &w.Capacity); err != nil {
			return nil, err
		}
		if w.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		warehouses = append(warehouses, w)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return warehouses, nil
}

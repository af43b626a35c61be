package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetShipmentQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (*GetShipmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)
	orderID := query.OrderID().Value()

	var exists bool
	if err := db.Raw(`SELECT TRUE FROM orders WHERE id = ?`, orderID).Row().Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return nil, err
	}

	shipments, err := h.shipments(db, orderID)
	if err != nil {
		return nil, err
	}
	history, err := h.history(db, orderID)
	if err != nil {
		return nil, err
	}

	resp := &GetShipmentQueryResponse{
		OrderID:   query.OrderID(),
		Shipments: shipments,
		History:   history,
	}
	for i := range shipments {
		s := &shipments[i]
		if resp.Current == nil || s.IsReturn {
			resp.Current = s
		}
	}
	return resp, nil
}

func (h GetShipmentQueryHandler) shipments(db *gorm.DB, orderID uuid.UUID) ([]ShipmentView, error) {
	rows, err := db.Raw(`
		SELECT
			id,
			warehouse_id,
			status,
			COALESCE(tracking_number, ''),
			is_return,
			created_at,
			updated_at
		FROM shipments
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]ShipmentView, 0, 2)
	for rows.Next() {
		var (
			v    ShipmentView
			id   uuid.UUID
			whID *uuid.UUID
		)
		if err = rows.Scan(&id, &whID, &v.Status, &v.TrackingNumber, &v.IsReturn, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		if v.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if v.WarehouseID, err = kernel.UUIDPtrFromGoogle(whID); err != nil {
			return nil, err
		}
		v.CreatedAt = v.CreatedAt.UTC()
		v.UpdatedAt = v.UpdatedAt.UTC()
		views = append(views, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// history reads shipment transitions back from the outbox, which keeps
// published rows.
func (h GetShipmentQueryHandler) history(db *gorm.DB, orderID uuid.UUID) ([]ShipmentTransition, error) {
	rows, err := db.Raw(`
		SELECT
			payload->>'shipment_id',
			payload->>'from',
			payload->>'to',
			occurred_at
		FROM outbox_messages
		WHERE aggregate_id = ? AND event_type = ?
		ORDER BY occurred_at, id
	`, orderID, shipment.EventShipmentStatusChanged).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]ShipmentTransition, 0)
	for rows.Next() {
		var t ShipmentTransition
		if err = rows.Scan(&t.ShipmentID, &t.From, &t.To, &t.OccurredAt); err != nil {
			return nil, err
		}
		t.OccurredAt = t.OccurredAt.UTC()
		history = append(history, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx)

	var (
		resp                                   GetOrderQueryResponse
		id, customerID, vendorID               uuid.UUID
		logisticsTeamID, deliveryAgentID, whID *uuid.UUID
		total                                  decimal.Decimal
	)
	err := db.Raw(`
		SELECT
			id,
			customer_id,
			vendor_id,
			logistics_team_id,
			delivery_agent_id,
			warehouse_id,
			status,
			is_returned,
			total_price,
			placed_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Value()).Row().Scan(
		&id,
		&customerID,
		&vendorID,
		&logisticsTeamID,
		&deliveryAgentID,
		&whID,
		&resp.Status,
		&resp.IsReturned,
		&total,
		&resp.PlacedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return nil, err
	}

	if err = fillIDs(
		idTarget{&resp.ID, id},
		idTarget{&resp.CustomerID, customerID},
		idTarget{&resp.VendorID, vendorID},
	); err != nil {
		return nil, err
	}
	if resp.LogisticsTeamID, err = kernel.UUIDPtrFromGoogle(logisticsTeamID); err != nil {
		return nil, err
	}
	if resp.DeliveryAgentID, err = kernel.UUIDPtrFromGoogle(deliveryAgentID); err != nil {
		return nil, err
	}
	if resp.WarehouseID, err = kernel.UUIDPtrFromGoogle(whID); err != nil {
		return nil, err
	}
	resp.TotalPrice = total.StringFixed(kernel.MoneyScale)
	resp.PlacedAt = resp.PlacedAt.UTC()
	resp.UpdatedAt = resp.UpdatedAt.UTC()

	resp.Items, err = h.items(db, id)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h GetOrderQueryHandler) items(db *gorm.DB, orderID uuid.UUID) ([]OrderItemView, error) {
	rows, err := db.Raw(`
		SELECT
			product_id,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemView, 0)
	for rows.Next() {
		var (
			item      OrderItemView
			productID uuid.UUID
			price     decimal.Decimal
		)
		if err = rows.Scan(&productID, &item.Quantity, &price); err != nil {
			return nil, err
		}
		if item.ProductID, err = kernel.UUIDFromGoogle(productID); err != nil {
			return nil, err
		}
		item.UnitPrice = price.StringFixed(kernel.MoneyScale)
		item.Subtotal = price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(kernel.MoneyScale)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type idTarget struct {
	dst *kernel.UUID
	raw uuid.UUID
}

func fillIDs(targets ...idTarget) error {
	for _, t := range targets {
		id, err := kernel.UUIDFromGoogle(t.raw)
		if err != nil {
			return err
		}
		*t.dst = id
	}
	return nil
}

package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns the matching orders ordered by placement time, newest first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	f := query.Filter()

	q := h.db.WithContext(ctx).
		Table("orders").
		Select("id, customer_id, vendor_id, status, is_returned, total_price, placed_at")
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", f.CustomerID.Value())
	}
	if f.VendorID != nil {
		q = q.Where("vendor_id = ?", f.VendorID.Value())
	}
	if f.LogisticsTeamID != nil {
		q = q.Where("logistics_team_id = ?", f.LogisticsTeamID.Value())
	}
	if f.DeliveryAgentID != nil {
		q = q.Where("delivery_agent_id = ?", f.DeliveryAgentID.Value())
	}
	if f.Status != nil {
		q = q.Where("status = ?", f.Status.String())
	}

	rows, err := q.Order("placed_at DESC, id").Limit(f.Limit).Offset(f.Offset).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			o                        OrderSummary
			id, customerID, vendorID uuid.UUID
			total                    decimal.Decimal
		)
		if err = rows.Scan(&id, &customerID, &vendorID, &o.Status, &o.IsReturned, &total, &o.PlacedAt); err != nil {
			return nil, err
		}
		if err = fillIDs(
			idTarget{&o.ID, id},
			idTarget{&o.CustomerID, customerID},
			idTarget{&o.VendorID, vendorID},
		); err != nil {
			return nil, err
		}
		o.TotalPrice = total.StringFixed(kernel.MoneyScale)
		o.PlacedAt = o.PlacedAt.UTC()
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

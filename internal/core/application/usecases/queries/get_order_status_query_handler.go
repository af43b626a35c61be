package queries

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// StatusLoader reads an order status from the source of truth.
type StatusLoader interface {
	Load(ctx context.Context, query GetOrderStatusQuery) (ports.CachedOrderStatus, error)
}

// GormStatusLoader reads the status columns of the orders table.
type GormStatusLoader struct {
	db *gorm.DB
}

func NewGormStatusLoader(db *gorm.DB) GormStatusLoader {
	return GormStatusLoader{db: db}
}

func (l GormStatusLoader) Load(ctx context.Context, query GetOrderStatusQuery) (ports.CachedOrderStatus, error) {
	var (
		s         ports.CachedOrderStatus
		updatedAt time.Time
	)
	err := l.db.WithContext(ctx).Raw(`
		SELECT
			status,
			is_returned,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Value()).Row().Scan(&s.Status, &s.IsReturned, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.CachedOrderStatus{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return ports.CachedOrderStatus{}, err
	}
	s.UpdatedAt = updatedAt.UTC()
	return s, nil
}

// GetOrderStatusQueryHandler is a cache-aside reader. Concurrent misses for
// the same order share one database read. Cache failures are logged and the
// database answers instead.
type GetOrderStatusQueryHandler struct {
	loader StatusLoader
	cache  ports.OrderStatusCache
	group  *singleflight.Group
	logger *slog.Logger
}

func NewGetOrderStatusQueryHandler(
	loader StatusLoader,
	cache ports.OrderStatusCache,
	logger *slog.Logger,
) *GetOrderStatusQueryHandler {
	return &GetOrderStatusQueryHandler{
		loader: loader,
		cache:  cache,
		group:  &singleflight.Group{},
		logger: logger.With("component", "GetOrderStatusQueryHandler"),
	}
}

func (h *GetOrderStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatusQuery,
) (*GetOrderStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	orderID := query.OrderID()

	cached, found, err := h.cache.Get(ctx, orderID)
	if err != nil {
		h.logger.WarnContext(ctx, "status cache read failed", "order_id", orderID.String(), "error", err)
	}
	if err == nil && found {
		return toStatusResponse(query, cached, true), nil
	}

	v, err, _ := h.group.Do(orderID.String(), func() (any, error) {
		s, loadErr := h.loader.Load(ctx, query)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := h.cache.Set(ctx, orderID, s); setErr != nil {
			h.logger.WarnContext(ctx, "status cache write failed", "order_id", orderID.String(), "error", setErr)
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	return toStatusResponse(query, v.(ports.CachedOrderStatus), false), nil
}

func toStatusResponse(query GetOrderStatusQuery, s ports.CachedOrderStatus, cached bool) *GetOrderStatusQueryResponse {
	return &GetOrderStatusQueryResponse{
		OrderID:    query.OrderID(),
		Status:     s.Status,
		IsReturned: s.IsReturned,
		UpdatedAt:  s.UpdatedAt,
		Cached:     cached,
	}
}

// Package rediscache keeps the order status projection in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	keyPattern = "order_status:%s"
	DefaultTTL = 5 * time.Minute
)

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

type OrderStatusCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ ports.OrderStatusCache = (*OrderStatusCache)(nil)

func NewOrderStatusCache(client redis.Cmdable, ttl time.Duration) *OrderStatusCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &OrderStatusCache{client: client, ttl: ttl}
}

func (c *OrderStatusCache) Get(ctx context.Context, orderID kernel.UUID) (ports.CachedOrderStatus, bool, error) {
	raw, err := c.client.Get(ctx, Key(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ports.CachedOrderStatus{}, false, nil
		}
		return ports.CachedOrderStatus{}, false, err
	}

	var status ports.CachedOrderStatus
	if err = json.Unmarshal(raw, &status); err != nil {
		return ports.CachedOrderStatus{}, false, fmt.Errorf("decode cached status of order %s: %w", orderID, err)
	}
	return status, true, nil
}

func (c *OrderStatusCache) Set(ctx context.Context, orderID kernel.UUID, status ports.CachedOrderStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(orderID), raw, c.ttl).Err()
}

func (c *OrderStatusCache) Delete(ctx context.Context, orderID kernel.UUID) error {
	return c.client.Del(ctx, Key(orderID)).Err()
}

func Key(orderID kernel.UUID) string {
	return fmt.Sprintf(keyPattern, orderID.String())
}

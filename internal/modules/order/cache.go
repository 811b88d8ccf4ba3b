// README: Redis fast paths: order-status cache and creation idempotency keys.
package order

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// order_status:{order_id} -> status string
	statusKeyPrefix = "order_status:%d"
	// idem:order:create:{request_id} -> order_id
	idemKeyPrefix = "idem:order:create:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLIdempotency = 24 * time.Hour
)

// Cache is best-effort: the database stays the source of truth, and
// every method degrades to a miss on Redis failure.
type Cache struct {
	redis *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{redis: client}
}

func (c *Cache) SetStatus(ctx context.Context, orderID int64, status Status) {
	if c == nil || c.redis == nil {
		return
	}
	key := fmt.Sprintf(statusKeyPrefix, orderID)
	_ = c.redis.Set(ctx, key, string(status), TTLStatusCache).Err()
}

func (c *Cache) GetStatus(ctx context.Context, orderID int64) (Status, bool) {
	if c == nil || c.redis == nil {
		return "", false
	}
	val, err := c.redis.Get(ctx, fmt.Sprintf(statusKeyPrefix, orderID)).Result()
	if err != nil {
		return "", false
	}
	return Status(val), true
}

func (c *Cache) SetCreateID(ctx context.Context, requestID string, orderID int64) {
	if c == nil || c.redis == nil {
		return
	}
	key := fmt.Sprintf(idemKeyPrefix, requestID)
	_ = c.redis.Set(ctx, key, strconv.FormatInt(orderID, 10), TTLIdempotency).Err()
}

func (c *Cache) GetCreateID(ctx context.Context, requestID string) (int64, bool) {
	if c == nil || c.redis == nil {
		return 0, false
	}
	val, err := c.redis.Get(ctx, fmt.Sprintf(idemKeyPrefix, requestID)).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

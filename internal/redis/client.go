package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
)

// Client is a thin read-side cache for vendor balances. The ledger remains
// the source of truth; a stale or missing cache entry only costs a recompute.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, ttl time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func balanceKey(vendorID uint) string {
	return fmt.Sprintf("vendor_balance:%d", vendorID)
}

// GetVendorBalance returns the cached balance and whether it was present.
func (c *Client) GetVendorBalance(vendorID uint) (decimal.Decimal, bool) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, balanceKey(vendorID)).Result()
	if err != nil {
		return decimal.Zero, false
	}
	balance, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false
	}
	return balance, true
}

func (c *Client) SetVendorBalance(vendorID uint, balance decimal.Decimal) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, balanceKey(vendorID), balance.String(), c.ttl).Err()
}

// InvalidateVendorBalance drops the cached balance after a ledger or payout
// write so the next read recomputes from the ledger.
func (c *Client) InvalidateVendorBalance(vendorID uint) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, balanceKey(vendorID)).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

const defaultClaimTTL = 24 * time.Hour

// TradeDedup claims idempotency keys in Redis so a resubmitted trade is
// rejected across every API instance.
// Key format: trade:idem:<user_id>:<key>
type TradeDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTradeDedup wraps client. Claims expire after ttl (24h when ttl <= 0).
func NewTradeDedup(client *redis.Client, ttl time.Duration) *TradeDedup {
	if ttl <= 0 {
		ttl = defaultClaimTTL
	}
	return &TradeDedup{client: client, ttl: ttl}
}

var _ ports.TradeDedup = (*TradeDedup)(nil)

// Claim reports whether this call was the first to use key for userID.
func (d *TradeDedup) Claim(ctx context.Context, userID, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(userID, key), time.Now().UTC().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return ok, nil
}

// Release drops a claim so the key can be submitted again.
func (d *TradeDedup) Release(ctx context.Context, userID, key string) error {
	if err := d.client.Del(ctx, d.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (d *TradeDedup) key(userID, key string) string {
	return fmt.Sprintf("trade:idem:%s:%s", userID, key)
}

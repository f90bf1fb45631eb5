// Package cache holds in-process fallbacks for the Redis-backed stores, used
// when REDIS_ENABLED is false. They only deduplicate within one process.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

const defaultSize = 10000

type claim struct {
	expires time.Time
}

// TradeDedup is a bounded LRU of idempotency claims. The oldest claims are
// evicted first once size is reached.
type TradeDedup struct {
	mu    sync.Mutex
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewTradeDedup(size int, ttl time.Duration) (*TradeDedup, error) {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("idempotency cache: %w", err)
	}
	return &TradeDedup{cache: c, ttl: ttl, now: time.Now}, nil
}

var _ ports.TradeDedup = (*TradeDedup)(nil)

func (d *TradeDedup) Claim(_ context.Context, userID, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := userID + ":" + key
	now := d.now()
	if v, ok := d.cache.Get(k); ok && now.Before(v.(claim).expires) {
		return false, nil
	}
	d.cache.Add(k, claim{expires: now.Add(d.ttl)})
	return true, nil
}

func (d *TradeDedup) Release(_ context.Context, userID, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Remove(userID + ":" + key)
	return nil
}

// TokenDenylist is the in-process counterpart of the Redis denylist.
type TokenDenylist struct {
	mu    sync.Mutex
	cache *lru.Cache
	now   func() time.Time
}

func NewTokenDenylist(size int) (*TokenDenylist, error) {
	if size <= 0 {
		size = defaultSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("token denylist cache: %w", err)
	}
	return &TokenDenylist{cache: c, now: time.Now}, nil
}

var _ ports.TokenDenylist = (*TokenDenylist)(nil)

func (d *TokenDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Add(tokenID, claim{expires: until})
	return nil
}

func (d *TokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.cache.Get(tokenID)
	if !ok {
		return false, nil
	}
	if !d.now().Before(v.(claim).expires) {
		d.cache.Remove(tokenID)
		return false, nil
	}
	return true, nil
}

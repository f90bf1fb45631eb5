package ports

import (
	"context"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

// BuyInput asks to move Amount units of Resource from a planet to a player.
type BuyInput struct {
	UserID   string
	PlanetID string
	Resource domain.ResourceKind
	Amount   int64
}

// SellInput asks to convert Amount units of a player's Resource into credits.
type SellInput struct {
	UserID   string
	Resource domain.ResourceKind
	Amount   int64
}

// QuoteInput prices a trade without applying it. PlanetID is optional; when
// set, the planet's price overrides apply.
type QuoteInput struct {
	Kind     domain.TradeKind
	PlanetID string
	Resource domain.ResourceKind
	Amount   int64
}

// TradeRequest is the transport-neutral form of a buy or sell, used by the
// dispatcher.
type TradeRequest struct {
	Kind     domain.TradeKind
	UserID   string
	PlanetID string
	Resource domain.ResourceKind
	Amount   int64
}

// TradeService validates and applies trades.
type TradeService interface {
	Buy(ctx context.Context, in BuyInput) (*domain.TradeReceipt, error)
	Sell(ctx context.Context, in SellInput) (*domain.TradeReceipt, error)
	Quote(ctx context.Context, in QuoteInput) (*domain.PendingTrade, error)
}

// TradeExecutor runs a TradeRequest to completion.
type TradeExecutor interface {
	Execute(ctx context.Context, req TradeRequest) (*domain.TradeReceipt, error)
}

// TradeDedup claims idempotency keys so a retried submission is not applied
// twice.
type TradeDedup interface {
	// Claim reports false when key was already claimed for userID.
	Claim(ctx context.Context, userID, key string) (bool, error)
	// Release forgets a claim so the key can be reused after a rejected trade.
	Release(ctx context.Context, userID, key string) error
}

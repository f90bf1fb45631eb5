package domain

import (
	"strings"
	"time"
)

// TradeKind is the direction of a trade from the player's point of view.
type TradeKind string

const (
	TradeBuy  TradeKind = "buy"
	TradeSell TradeKind = "sell"
)

// ParseTradeKind accepts "buy" or "sell" in any case.
func ParseTradeKind(s string) (TradeKind, error) {
	switch k := TradeKind(strings.ToLower(strings.TrimSpace(s))); k {
	case TradeBuy, TradeSell:
		return k, nil
	default:
		return "", ErrUnknownTradeKind
	}
}

// PendingTrade is a priced but unconfirmed trade. It is never persisted;
// dropping it is how a player cancels.
type PendingTrade struct {
	Kind      TradeKind    `json:"kind"`
	PlanetID  string       `json:"planet_id,omitempty"`
	Resource  ResourceKind `json:"resource"`
	Amount    int64        `json:"amount"`
	UnitPrice int64        `json:"unit_price"`
	Value     int64        `json:"value"`
}

// TradeReceipt describes an applied trade and the state it left behind.
type TradeReceipt struct {
	ID          string       `json:"id"`
	Kind        TradeKind    `json:"kind"`
	UserID      string       `json:"user_id"`
	PlanetID    string       `json:"planet_id,omitempty"`
	Resource    ResourceKind `json:"resource"`
	Amount      int64        `json:"amount"`
	UnitPrice   int64        `json:"unit_price"`
	Value       int64        `json:"value"`
	Credits     int64        `json:"credits"`
	Holdings    Holdings     `json:"holdings"`
	PlanetStock Holdings     `json:"planet_stock,omitempty"`
	Attempts    int          `json:"attempts"`
	ExecutedAt  time.Time    `json:"executed_at"`
}

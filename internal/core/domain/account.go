package domain

import (
	"math"
	"time"
)

// Account is a player's trading balance. It shares its ID with the identity
// that owns it and is only mutated by trades.
type Account struct {
	ID        string    `json:"id" bson:"_id"`
	Credits   int64     `json:"credits" bson:"credits"`
	Resources Holdings  `json:"resources" bson:"resources"`
	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewAccount returns a fresh account with the given starting credits and no
// resources.
func NewAccount(id string, credits int64, now time.Time) *Account {
	return &Account{
		ID:        id,
		Credits:   credits,
		Resources: Holdings{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HoldingsValue prices every holding against prices and sums the result,
// saturating at math.MaxInt64. Kinds missing from prices contribute nothing.
func (a *Account) HoldingsValue(prices PriceTable) int64 {
	var total int64
	for k, q := range a.Resources {
		price, ok := prices.UnitPrice(k)
		if !ok || q <= 0 || price <= 0 {
			continue
		}
		if q > math.MaxInt64/price {
			return math.MaxInt64
		}
		total = SaturatingAdd(total, q*price)
	}
	return total
}

// SaturatingAdd adds two non-negative values, clamping at math.MaxInt64.
func SaturatingAdd(x, y int64) int64 {
	if y > math.MaxInt64-x {
		return math.MaxInt64
	}
	return x + y
}

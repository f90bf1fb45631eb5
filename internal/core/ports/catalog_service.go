package ports

import (
	"context"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

// SeedResult counts what a catalog seed did.
type SeedResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// CatalogService exposes reference data and seeds it into the ledger.
type CatalogService interface {
	Seed(ctx context.Context) (*SeedResult, error)
	Prices() domain.PriceTable
	ListPlanets(ctx context.Context) ([]*domain.Planet, error)
	GetPlanet(ctx context.Context, id string) (*domain.Planet, error)
}

// AccountSummary is the dashboard view of an account.
type AccountSummary struct {
	UserID        string          `json:"user_id"`
	Credits       int64           `json:"credits"`
	Resources     domain.Holdings `json:"resources"`
	HoldingsValue int64           `json:"holdings_value"`
	NetWorth      int64           `json:"net_worth"`
}

// AccountService reads player balances.
type AccountService interface {
	Summary(ctx context.Context, userID string) (*AccountSummary, error)
}

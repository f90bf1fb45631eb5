package ports

import (
	"context"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

// AccountPatch lists the account fields a conditional write replaces. Nil
// Credits leaves the balance untouched; only kinds present in Resources are
// written, the rest of the holdings are merged through unchanged.
type AccountPatch struct {
	Credits   *int64
	Resources domain.Holdings
}

// PlanetPatch lists the planet stock entries a conditional write replaces.
type PlanetPatch struct {
	Resources domain.Holdings
}

// LedgerRepository stores player accounts and planets.
//
// Updates are conditional: they apply only when the stored Version equals
// expectedVersion and return domain.ErrVersionConflict otherwise. Every
// successful update increments Version by one and returns the new record.
// Backend failures wrap domain.ErrStoreUnavailable.
type LedgerRepository interface {
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccount(ctx context.Context, id string, patch AccountPatch, expectedVersion int64) (*domain.Account, error)

	GetPlanet(ctx context.Context, id string) (*domain.Planet, error)
	ListPlanets(ctx context.Context) ([]*domain.Planet, error)
	UpdatePlanet(ctx context.Context, id string, patch PlanetPatch, expectedVersion int64) (*domain.Planet, error)
	// UpsertPlanet merges the planet's profile and prices into the stored
	// record. Stock and version are only written when the planet is new.
	UpsertPlanet(ctx context.Context, planet *domain.Planet) (created bool, err error)
}

// TxRunner runs fn so that every ledger write made with the context it
// receives commits or aborts as a unit.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

package service

import (
	"context"
	"sync"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory ledger with the same conditional-write contract as the Mongo repo
// ---------------------------------------------------------------------------

type stubLedger struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	planets  map[string]*domain.Planet

	accountUpdateErr error // if set, UpdateAccount returns this error
	planetUpdateErr  error // if set, UpdatePlanet returns this error
	createErr        error

	// beforePlanetUpdate runs outside the lock before every UpdatePlanet.
	beforePlanetUpdate func()

	accountWrites int
	planetWrites  int
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		accounts: make(map[string]*domain.Account),
		planets:  make(map[string]*domain.Planet),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Resources = a.Resources.Clone()
	return &c
}

func clonePlanet(p *domain.Planet) *domain.Planet {
	c := *p
	c.Resources = p.Resources.Clone()
	return &c
}

func (l *stubLedger) putAccount(a *domain.Account) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[a.ID] = cloneAccount(a)
}

func (l *stubLedger) putPlanet(p *domain.Planet) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.planets[p.ID] = clonePlanet(p)
}

func (l *stubLedger) account(id string) *domain.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneAccount(l.accounts[id])
}

func (l *stubLedger) planet(id string) *domain.Planet {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clonePlanet(l.planets[id])
}

// bumpPlanet simulates a write from another process.
func (l *stubLedger) bumpPlanet(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.planets[id].Version++
}

func (l *stubLedger) GetAccount(_ context.Context, id string) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (l *stubLedger) CreateAccount(_ context.Context, a *domain.Account) error {
	if l.createErr != nil {
		return l.createErr
	}
	l.putAccount(a)
	return nil
}

func (l *stubLedger) UpdateAccount(_ context.Context, id string, patch ports.AccountPatch, expectedVersion int64) (*domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accountWrites++
	if l.accountUpdateErr != nil {
		return nil, l.accountUpdateErr
	}
	a, ok := l.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if a.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}
	if patch.Credits != nil {
		a.Credits = *patch.Credits
	}
	if a.Resources == nil {
		a.Resources = domain.Holdings{}
	}
	for k, q := range patch.Resources {
		a.Resources[k] = q
	}
	a.Version++
	return cloneAccount(a), nil
}

func (l *stubLedger) GetPlanet(_ context.Context, id string) (*domain.Planet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.planets[id]
	if !ok {
		return nil, domain.ErrPlanetNotFound
	}
	return clonePlanet(p), nil
}

func (l *stubLedger) ListPlanets(_ context.Context) ([]*domain.Planet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*domain.Planet, 0, len(l.planets))
	for _, p := range l.planets {
		out = append(out, clonePlanet(p))
	}
	return out, nil
}

func (l *stubLedger) UpdatePlanet(_ context.Context, id string, patch ports.PlanetPatch, expectedVersion int64) (*domain.Planet, error) {
	if l.beforePlanetUpdate != nil {
		l.beforePlanetUpdate()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.planetWrites++
	if l.planetUpdateErr != nil {
		return nil, l.planetUpdateErr
	}
	p, ok := l.planets[id]
	if !ok {
		return nil, domain.ErrPlanetNotFound
	}
	if p.Version != expectedVersion {
		return nil, domain.ErrVersionConflict
	}
	for k, q := range patch.Resources {
		p.Resources[k] = q
	}
	p.Version++
	return clonePlanet(p), nil
}

func (l *stubLedger) UpsertPlanet(_ context.Context, planet *domain.Planet) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	existing, ok := l.planets[planet.ID]
	if !ok {
		l.planets[planet.ID] = clonePlanet(planet)
		return true, nil
	}
	existing.PlanetProfile = planet.PlanetProfile
	existing.Prices = planet.Prices
	return false, nil
}

// rollbackTx emulates a store transaction over stubLedger: when fn fails,
// every account and planet is restored to its state before fn ran.
type rollbackTx struct {
	ledger *stubLedger
	runs   int
}

func (t *rollbackTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	l := t.ledger

	l.mu.Lock()
	accounts := make(map[string]*domain.Account, len(l.accounts))
	for id, a := range l.accounts {
		accounts[id] = cloneAccount(a)
	}
	planets := make(map[string]*domain.Planet, len(l.planets))
	for id, p := range l.planets {
		planets[id] = clonePlanet(p)
	}
	l.mu.Unlock()

	if err := fn(ctx); err != nil {
		l.mu.Lock()
		l.accounts, l.planets = accounts, planets
		l.mu.Unlock()
		return err
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Prices: domain.DefaultPrices(),
		Planets: []*domain.Planet{
			{
				ID:            "cryos",
				PlanetProfile: domain.PlanetProfile{Name: "Cryos", Type: "ice"},
				Resources:     domain.Holdings{domain.ResourceMetals: 15000},
			},
			{
				ID:            "terra-prime",
				PlanetProfile: domain.PlanetProfile{Name: "Terra Prime", Type: "terran"},
				Resources:     domain.Holdings{domain.ResourceFood: 800},
			},
		},
	}
}

func TestCatalogService_Seed(t *testing.T) {
	ledger := newStubLedger()
	catalog := testCatalog()
	svc := NewCatalogService(ledger, catalog, zerolog.Nop())

	res, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if res.Added != 2 || res.Updated != 0 {
		t.Fatalf("expected 2 added, got %+v", res)
	}

	planet, err := svc.GetPlanet(context.Background(), "cryos")
	if err != nil {
		t.Fatalf("GetPlanet: %v", err)
	}
	if planet.Resources.Get(domain.ResourceMetals) != 15000 {
		t.Errorf("expected 15000 metals, got %d", planet.Resources.Get(domain.ResourceMetals))
	}

	// Seeding must not alias catalog stock into the store.
	catalog.Planets[0].Resources[domain.ResourceMetals] = 1
	if got := ledger.planet("cryos").Resources.Get(domain.ResourceMetals); got != 15000 {
		t.Errorf("stored stock changed with catalog: %d", got)
	}
}

func TestCatalogService_ReseedKeepsStock(t *testing.T) {
	ledger := newStubLedger()
	svc := NewCatalogService(ledger, testCatalog(), zerolog.Nop())
	if _, err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	// A trade depletes stock between seeds.
	p := ledger.planet("cryos")
	if _, err := ledger.UpdatePlanet(context.Background(), "cryos", ports.PlanetPatch{Resources: domain.Holdings{domain.ResourceMetals: 14995}}, p.Version); err != nil {
		t.Fatalf("update planet: %v", err)
	}

	res, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if res.Added != 0 || res.Updated != 2 {
		t.Fatalf("expected 2 updated, got %+v", res)
	}
	if got := ledger.planet("cryos").Resources.Get(domain.ResourceMetals); got != 14995 {
		t.Errorf("expected reseed to keep stock 14995, got %d", got)
	}
}

func TestCatalogService_GetPlanetNotFound(t *testing.T) {
	svc := NewCatalogService(newStubLedger(), testCatalog(), zerolog.Nop())
	if _, err := svc.GetPlanet(context.Background(), "nowhere"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_ListPlanets(t *testing.T) {
	svc := NewCatalogService(newStubLedger(), testCatalog(), zerolog.Nop())
	if _, err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	planets, err := svc.ListPlanets(context.Background())
	if err != nil {
		t.Fatalf("ListPlanets: %v", err)
	}
	if len(planets) != 2 {
		t.Fatalf("expected 2 planets, got %d", len(planets))
	}
	if svc.Prices()[domain.ResourceMetals] != 10 {
		t.Errorf("expected metals price 10, got %d", svc.Prices()[domain.ResourceMetals])
	}
}

func TestAccountService_Summary(t *testing.T) {
	ledger := newStubLedger()
	ledger.putAccount(&domain.Account{
		ID:        "u1",
		Credits:   250,
		Resources: domain.Holdings{domain.ResourceMetals: 5, domain.ResourceFood: 10},
	})
	svc := NewAccountService(ledger, domain.DefaultPrices())

	summary, err := svc.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	// 5*10 + 10*5
	if summary.HoldingsValue != 100 {
		t.Errorf("expected holdings value 100, got %d", summary.HoldingsValue)
	}
	if summary.NetWorth != 350 {
		t.Errorf("expected net worth 350, got %d", summary.NetWorth)
	}
	if len(summary.Resources) != len(domain.ResourceKinds) {
		t.Errorf("expected every resource kind listed, got %d", len(summary.Resources))
	}

	if _, err := svc.Summary(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Summary_NetWorthSaturates(t *testing.T) {
	ledger := newStubLedger()
	ledger.putAccount(&domain.Account{
		ID:        "whale",
		Credits:   math.MaxInt64 - 10,
		Resources: domain.Holdings{domain.ResourceMetals: 5},
	})
	svc := NewAccountService(ledger, domain.DefaultPrices())

	summary, err := svc.Summary(context.Background(), "whale")
	if err != nil {
		t.Fatalf("Summary returned error: %v", err)
	}
	if summary.HoldingsValue != 50 {
		t.Errorf("expected holdings value 50, got %d", summary.HoldingsValue)
	}
	if summary.NetWorth != math.MaxInt64 {
		t.Errorf("expected net worth to saturate, got %d", summary.NetWorth)
	}
}

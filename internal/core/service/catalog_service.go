package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

// CatalogService serves planet reference data and seeds it into the ledger.
type CatalogService struct {
	ledger  ports.LedgerRepository
	catalog *domain.Catalog
	logger  zerolog.Logger
}

func NewCatalogService(ledger ports.LedgerRepository, catalog *domain.Catalog, logger zerolog.Logger) *CatalogService {
	return &CatalogService{ledger: ledger, catalog: catalog, logger: logger}
}

// Seed writes every catalog planet into the ledger. Existing planets keep
// their current stock; only their descriptive attributes are refreshed.
func (s *CatalogService) Seed(ctx context.Context) (*ports.SeedResult, error) {
	var res ports.SeedResult
	for _, p := range s.catalog.Planets {
		planet := *p
		planet.Resources = p.Resources.Clone()

		created, err := s.ledger.UpsertPlanet(ctx, &planet)
		if err != nil {
			return &res, fmt.Errorf("seed planet %s: %w", p.ID, err)
		}
		if created {
			res.Added++
		} else {
			res.Updated++
		}
	}

	s.logger.Info().Int("added", res.Added).Int("updated", res.Updated).Msg("catalog seeded")
	return &res, nil
}

// Prices returns the global unit price table.
func (s *CatalogService) Prices() domain.PriceTable {
	return s.catalog.Prices
}

func (s *CatalogService) ListPlanets(ctx context.Context) ([]*domain.Planet, error) {
	return s.ledger.ListPlanets(ctx)
}

func (s *CatalogService) GetPlanet(ctx context.Context, id string) (*domain.Planet, error) {
	return s.ledger.GetPlanet(ctx, id)
}

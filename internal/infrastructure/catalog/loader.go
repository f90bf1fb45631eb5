// Package catalog loads the static planet and price reference data.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
)

//go:embed planets.yaml
var embedded []byte

type file struct {
	Prices  domain.PriceTable `yaml:"prices"`
	Planets []planetEntry     `yaml:"planets"`
}

type planetEntry struct {
	domain.PlanetProfile `yaml:",inline"`
	Resources            domain.Holdings   `yaml:"resources"`
	Prices               domain.PriceTable `yaml:"prices"`
}

// Load reads the catalog from path, or from the embedded default when path is
// empty. Prices missing from the file fall back to domain.DefaultPrices.
func Load(path string) (*domain.Catalog, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*domain.Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &domain.Catalog{
		Prices:  domain.DefaultPrices().Merge(f.Prices),
		Planets: make([]*domain.Planet, 0, len(f.Planets)),
	}
	for _, e := range f.Planets {
		c.Planets = append(c.Planets, &domain.Planet{
			ID:            domain.PlanetID(e.Name),
			PlanetProfile: e.PlanetProfile,
			Resources:     e.Resources.Clone(),
			Prices:        e.Prices,
		})
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

package domain

import "fmt"

// Catalog is the static reference data the game starts from.
type Catalog struct {
	Prices  PriceTable
	Planets []*Planet
}

// Validate checks the price table and that every planet has a unique id and
// non-negative stock.
func (c *Catalog) Validate() error {
	if err := c.Prices.Validate(); err != nil {
		return fmt.Errorf("catalog prices: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Planets))
	for _, p := range c.Planets {
		if p.ID == "" {
			return fmt.Errorf("catalog planet %q: empty id", p.Name)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("catalog planet %q: duplicate id", p.ID)
		}
		seen[p.ID] = struct{}{}
		if err := p.Resources.Validate(); err != nil {
			return fmt.Errorf("catalog planet %q resources: %w", p.ID, err)
		}
		if err := p.Prices.validateOverrides(); err != nil {
			return fmt.Errorf("catalog planet %q prices: %w", p.ID, err)
		}
	}
	return nil
}

func (p PriceTable) validateOverrides() error {
	for k, price := range p {
		if !k.Valid() {
			return ErrUnknownResource
		}
		if price < 0 {
			return ErrNegativeQuantity
		}
	}
	return nil
}

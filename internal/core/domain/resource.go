package domain

import (
	"fmt"
	"math"
	"strings"
)

// ResourceKind identifies a tradable commodity.
type ResourceKind string

const (
	ResourceMetals    ResourceKind = "metals"
	ResourceGas       ResourceKind = "gas"
	ResourceFood      ResourceKind = "food"
	ResourceWater     ResourceKind = "water"
	ResourceEnergy    ResourceKind = "energy"
	ResourceBiomatter ResourceKind = "biomatter"
	ResourceFuel      ResourceKind = "fuel"
	ResourceTitanium  ResourceKind = "titanium"
)

// ResourceKinds lists every known resource kind in display order.
var ResourceKinds = []ResourceKind{
	ResourceMetals,
	ResourceGas,
	ResourceFood,
	ResourceWater,
	ResourceEnergy,
	ResourceBiomatter,
	ResourceFuel,
	ResourceTitanium,
}

// ParseResourceKind normalises s and reports ErrUnknownResource when it is not
// one of ResourceKinds.
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrUnknownResource
	}
	return k, nil
}

// Valid reports whether k is a known resource kind.
func (k ResourceKind) Valid() bool {
	for _, known := range ResourceKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Holdings maps resource kinds to quantities. Absent kinds count as zero, so a
// nil Holdings is a valid empty inventory.
type Holdings map[ResourceKind]int64

// Get returns the quantity held for k, zero when absent.
func (h Holdings) Get(k ResourceKind) int64 {
	return h[k]
}

// Clone returns a copy of h that contains every known kind.
func (h Holdings) Clone() Holdings {
	out := make(Holdings, len(ResourceKinds))
	for _, k := range ResourceKinds {
		out[k] = h[k]
	}
	return out
}

// Validate fails when any quantity is negative or a kind is unknown.
func (h Holdings) Validate() error {
	for k, q := range h {
		if !k.Valid() {
			return ErrUnknownResource
		}
		if q < 0 {
			return ErrNegativeQuantity
		}
	}
	return nil
}

// PriceTable maps resource kinds to a unit price in credits.
type PriceTable map[ResourceKind]int64

// DefaultPrices is the global price table used when the catalog does not
// override it.
func DefaultPrices() PriceTable {
	return PriceTable{
		ResourceMetals:    10,
		ResourceGas:       15,
		ResourceFood:      5,
		ResourceWater:     4,
		ResourceEnergy:    12,
		ResourceBiomatter: 8,
		ResourceFuel:      20,
		ResourceTitanium:  30,
	}
}

// UnitPrice returns the price of k. The second result is false when the table
// has no entry for k.
func (p PriceTable) UnitPrice(k ResourceKind) (int64, bool) {
	price, ok := p[k]
	return price, ok
}

// Value multiplies amount by the unit price of k, rejecting non-positive
// amounts and products that overflow int64.
func (p PriceTable) Value(k ResourceKind, amount int64) (unitPrice, value int64, err error) {
	if !k.Valid() {
		return 0, 0, ErrUnknownResource
	}
	unitPrice, ok := p.UnitPrice(k)
	if !ok {
		return 0, 0, ErrUnknownResource
	}
	if amount <= 0 {
		return 0, 0, ErrInvalidAmount
	}
	if unitPrice > 0 && amount > math.MaxInt64/unitPrice {
		return 0, 0, ErrInvalidAmount
	}
	return unitPrice, amount * unitPrice, nil
}

// Merge returns a table where entries of override replace those of p.
func (p PriceTable) Merge(override PriceTable) PriceTable {
	out := make(PriceTable, len(p)+len(override))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Validate fails unless every known kind has a non-negative price.
func (p PriceTable) Validate() error {
	for _, k := range ResourceKinds {
		price, ok := p[k]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingPrice, k)
		}
		if price < 0 {
			return ErrNegativeQuantity
		}
	}
	return nil
}

package domain

import (
	"regexp"
	"strings"
	"time"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// PlanetID derives the catalog id of a planet from its display name:
// "Terra Prime" becomes "terra-prime".
func PlanetID(name string) string {
	return whitespaceRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Coordinates locates a planet on the galaxy map.
type Coordinates struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// Factory is a production facility on a planet.
type Factory struct {
	Level    int `json:"level" yaml:"level" bson:"level"`
	Capacity int `json:"capacity" yaml:"capacity" bson:"capacity"`
}

// PlanetProfile holds the immutable reference attributes of a planet.
type PlanetProfile struct {
	Name               string             `json:"name" yaml:"name" bson:"name"`
	Type               string             `json:"type" yaml:"type" bson:"type"`
	Population         int64              `json:"population" yaml:"population" bson:"population"`
	Size               string             `json:"size" yaml:"size" bson:"size"`
	Description        string             `json:"description" yaml:"description" bson:"description"`
	ProductionCapacity int                `json:"production_capacity" yaml:"production_capacity" bson:"production_capacity"`
	Factories          map[string]Factory `json:"factories" yaml:"factories" bson:"factories"`
	ArmySize           int64              `json:"army_size" yaml:"army_size" bson:"army_size"`
	ArmyEquipmentLevel int                `json:"army_equipment_level" yaml:"army_equipment_level" bson:"army_equipment_level"`
	OrbitalDefense     bool               `json:"orbital_defense" yaml:"orbital_defense" bson:"orbital_defense"`
	ControlledBy       string             `json:"controlled_by" yaml:"controlled_by" bson:"controlled_by"`
	InfluenceLevel     int                `json:"influence_level" yaml:"influence_level" bson:"influence_level"`
	Factions           map[string]int     `json:"factions" yaml:"factions" bson:"factions"`
	HQPresent          bool               `json:"hq_present" yaml:"hq_present" bson:"hq_present"`
	StrategicValue     int                `json:"strategic_value" yaml:"strategic_value" bson:"strategic_value"`
	TradeRoutes        []string           `json:"trade_routes" yaml:"trade_routes" bson:"trade_routes"`
	Coordinates        Coordinates        `json:"coordinates" yaml:"coordinates" bson:"coordinates"`
	Image              string             `json:"image" yaml:"image" bson:"image"`
}

// Planet is a trading venue. Only Resources and Version change after seeding;
// Resources are depleted by buys.
type Planet struct {
	ID            string `json:"id" bson:"_id"`
	PlanetProfile `bson:",inline"`
	Resources     Holdings   `json:"resources" bson:"resources"`
	Prices        PriceTable `json:"prices,omitempty" bson:"prices,omitempty"`
	Version       int64      `json:"version" bson:"version"`
	UpdatedAt     time.Time  `json:"updated_at" bson:"updated_at"`
}

// EffectivePrices layers the planet's price overrides on top of global.
func (p *Planet) EffectivePrices(global PriceTable) PriceTable {
	if len(p.Prices) == 0 {
		return global
	}
	return global.Merge(p.Prices)
}

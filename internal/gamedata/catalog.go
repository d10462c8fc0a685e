// Package gamedata loads the public game-definition catalog and serves it.
package gamedata

import (
	_ "embed"
	"fmt"
	"os"

	"dragons-den/internal/achievement"
	"dragons-den/internal/random"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type Treasure struct {
	ID              string  `yaml:"id" json:"id"`
	Name            string  `yaml:"name" json:"name"`
	Rarity          string  `yaml:"rarity" json:"rarity"`
	Description     string  `yaml:"description" json:"description"`
	Effect          string  `yaml:"effect" json:"effect"`
	ClickMultiplier float64 `yaml:"click_multiplier" json:"click_multiplier"`
}

type Upgrade struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
}

type UpgradeDefinition struct {
	ID             string  `yaml:"id" json:"id"`
	BaseCost       float64 `yaml:"base_cost" json:"base_cost"`
	CostMultiplier float64 `yaml:"cost_multiplier" json:"cost_multiplier"`
	Effect         string  `yaml:"effect" json:"effect"`
	EffectRate     float64 `yaml:"effect_rate" json:"effect_rate"`
	MaxLevel       int     `yaml:"max_level" json:"max_level"`
}

type ExplorationRules struct {
	TypeModifiers       map[string]float64 `yaml:"type_modifiers" json:"type_modifiers"`
	DifficultyModifiers map[string]float64 `yaml:"difficulty_modifiers" json:"difficulty_modifiers"`
	RarityWeights       map[string]float64 `yaml:"rarity_weights" json:"rarity_weights"`
}

type Catalog struct {
	Constants          map[string]any           `yaml:"constants"`
	Exploration        ExplorationRules         `yaml:"exploration"`
	Treasures          []Treasure               `yaml:"treasures"`
	Upgrades           []Upgrade                `yaml:"upgrades"`
	UpgradeDefinitions []UpgradeDefinition      `yaml:"upgrade_definitions"`
	Achievements       []achievement.Definition `yaml:"achievements"`
}

// Load reads the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	data := embeddedCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.Constants == nil {
		return fmt.Errorf("catalog has no constants")
	}
	if len(c.Treasures) == 0 {
		return fmt.Errorf("catalog has no treasures")
	}
	seen := make(map[string]bool)
	for _, t := range c.Treasures {
		if t.ID == "" || seen[t.ID] {
			return fmt.Errorf("treasure id %q is empty or duplicated", t.ID)
		}
		seen[t.ID] = true
		if c.Exploration.RarityWeights[t.Rarity] <= 0 {
			return fmt.Errorf("treasure %s has rarity %q without a weight", t.ID, t.Rarity)
		}
	}
	for _, a := range c.Achievements {
		if a.ID == "" || len(a.Requirements) == 0 {
			return fmt.Errorf("achievement %q needs an id and requirements", a.ID)
		}
	}
	return nil
}

func (c *Catalog) Constant(key string) (any, bool) {
	v, ok := c.Constants[key]
	return v, ok
}

// Float returns a numeric constant, or def when missing or non-numeric.
func (c *Catalog) Float(key string, def float64) float64 {
	switch v := c.Constants[key].(type) {
	case int:
		return float64(v)
	case float64:
		return v
	default:
		return def
	}
}

func (c *Catalog) Treasure(id string) (Treasure, bool) {
	for _, t := range c.Treasures {
		if t.ID == id {
			return t, true
		}
	}
	return Treasure{}, false
}

func (c *Catalog) Upgrade(id string) (Upgrade, bool) {
	for _, u := range c.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return Upgrade{}, false
}

func (c *Catalog) UpgradeDefinition(id string) (UpgradeDefinition, bool) {
	for _, u := range c.UpgradeDefinitions {
		if u.ID == id {
			return u, true
		}
	}
	return UpgradeDefinition{}, false
}

func (c *Catalog) Achievement(id string) (achievement.Definition, bool) {
	for _, a := range c.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return achievement.Definition{}, false
}

// TreasureChance is the probability that an exploration of the given type
// and difficulty finds something, capped at 1.
func (c *Catalog) TreasureChance(explorationType, difficulty string) float64 {
	chance := c.Float("TREASURE_DISCOVERY_CHANCE", 0.1)
	if m, ok := c.Exploration.TypeModifiers[explorationType]; ok {
		chance *= m
	}
	if m, ok := c.Exploration.DifficultyModifiers[difficulty]; ok {
		chance *= m
	}
	if chance > 1 {
		chance = 1
	}
	return chance
}

func (c *Catalog) ValidExplorationType(t string) bool {
	_, ok := c.Exploration.TypeModifiers[t]
	return ok
}

// PickTreasure draws a treasure weighted by its rarity.
func (c *Catalog) PickTreasure(src random.Source) Treasure {
	total := 0.0
	for _, t := range c.Treasures {
		total += c.Exploration.RarityWeights[t.Rarity]
	}
	roll := src.Float64() * total
	for _, t := range c.Treasures {
		roll -= c.Exploration.RarityWeights[t.Rarity]
		if roll < 0 {
			return t
		}
	}
	return c.Treasures[len(c.Treasures)-1]
}

// ClickMultipliers returns the click bonuses of the owned treasures.
func (c *Catalog) ClickMultipliers(owned []string) []float64 {
	var out []float64
	for _, id := range owned {
		if t, ok := c.Treasure(id); ok && t.ClickMultiplier > 0 {
			out = append(out, t.ClickMultiplier)
		}
	}
	return out
}

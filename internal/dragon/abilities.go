package dragon

import (
	_ "embed"
	"fmt"
	"math"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed abilities.yaml
var abilitiesYAML []byte

type AbilityType string

const (
	Passive  AbilityType = "passive"
	Active   AbilityType = "active"
	Ultimate AbilityType = "ultimate"
)

type Ability struct {
	ID            string      `yaml:"id" json:"id"`
	Name          string      `yaml:"name" json:"name"`
	Type          AbilityType `yaml:"type" json:"type"`
	Element       Element     `yaml:"element" json:"element"`
	RequiredLevel int         `yaml:"required_level" json:"required_level"`
	CooldownMS    int         `yaml:"cooldown_ms" json:"cooldown_ms"`
	ManaCost      int         `yaml:"mana_cost" json:"mana_cost"`
	Damage        int         `yaml:"damage" json:"damage,omitempty"`
	Description   string      `yaml:"description" json:"description"`
	Effect        string      `yaml:"effect" json:"effect"`
}

var (
	abilitiesOnce sync.Once
	abilities     []Ability
	abilitiesErr  error
)

func parseAbilities(data []byte) ([]Ability, error) {
	var doc struct {
		Abilities []Ability `yaml:"abilities"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse abilities: %w", err)
	}
	seen := make(map[string]bool, len(doc.Abilities))
	for _, a := range doc.Abilities {
		if a.ID == "" {
			return nil, fmt.Errorf("ability without id")
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("duplicate ability %q", a.ID)
		}
		if _, ok := advantages[a.Element]; !ok {
			return nil, fmt.Errorf("ability %q has unknown element %q", a.ID, a.Element)
		}
		seen[a.ID] = true
	}
	return doc.Abilities, nil
}

// Abilities returns the embedded ability catalog. It panics if the embedded
// file is malformed.
func Abilities() []Ability {
	abilitiesOnce.Do(func() {
		abilities, abilitiesErr = parseAbilities(abilitiesYAML)
	})
	if abilitiesErr != nil {
		panic(abilitiesErr)
	}
	return abilities
}

func AbilityByID(id string) (Ability, bool) {
	for _, a := range Abilities() {
		if a.ID == id {
			return a, true
		}
	}
	return Ability{}, false
}

// AbilitiesFor lists the abilities of element available at level.
func AbilitiesFor(element Element, level int) []Ability {
	var out []Ability
	for _, a := range Abilities() {
		if a.Element == element && a.RequiredLevel <= level {
			out = append(out, a)
		}
	}
	return out
}

func AbilitiesOfType(t AbilityType) []Ability {
	var out []Ability
	for _, a := range Abilities() {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// AbilityCooldown shortens a cooldown for clever, experienced dragons.
// Intelligence can halve it and level can take off at most 30%.
func AbilityCooldown(a Ability, intelligence, level int) time.Duration {
	intMod := math.Max(0.5, 1-float64(intelligence-100)/500)
	levelMod := math.Max(0.7, 1-float64(level)*0.01)
	ms := math.Round(float64(a.CooldownMS) * intMod * levelMod)
	return time.Duration(ms) * time.Millisecond
}

func AbilityDamage(a Ability, attack, magic, level int) int {
	return int(math.Round(float64(a.Damage) * float64(attack) / 100 * float64(magic) / 100 * (1 + float64(level)*0.05)))
}

func abilityIDs(list []Ability) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

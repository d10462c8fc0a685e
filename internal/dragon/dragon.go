// Package dragon models dragons and the rules that grow them: aging,
// bonding, elements, abilities, breeding and combat.
package dragon

import (
	"math"
	"time"
)

type Element string

const (
	Fire      Element = "fire"
	Ice       Element = "ice"
	Earth     Element = "earth"
	Air       Element = "air"
	Shadow    Element = "shadow"
	Light     Element = "light"
	Poison    Element = "poison"
	Lightning Element = "lightning"
)

var Elements = []Element{Fire, Ice, Earth, Air, Shadow, Light, Poison, Lightning}

type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
	Mythic    Rarity = "mythic"
)

var rarityBaseStat = map[Rarity]float64{
	Common:    80,
	Uncommon:  90,
	Rare:      100,
	Epic:      115,
	Legendary: 130,
	Mythic:    150,
}

type Age string

const (
	Hatchling Age = "hatchling"
	Juvenile  Age = "juvenile"
	Adult     Age = "adult"
	Elder     Age = "elder"
	Ancient   Age = "ancient"
)

var ageOrder = []Age{Hatchling, Juvenile, Adult, Elder, Ancient}

// Next returns the following age, or false at the oldest.
func (a Age) Next() (Age, bool) {
	for i, v := range ageOrder {
		if v == a && i+1 < len(ageOrder) {
			return ageOrder[i+1], true
		}
	}
	return "", false
}

type Stats struct {
	Attack       int `json:"attack"`
	Defense      int `json:"defense"`
	Speed        int `json:"speed"`
	Intelligence int `json:"intelligence"`
	Magic        int `json:"magic"`
	Health       int `json:"health"`
	Loyalty      int `json:"loyalty"`
}

// Modifiers scales each stat independently.
type Modifiers struct {
	Attack       float64 `json:"attack"`
	Defense      float64 `json:"defense"`
	Speed        float64 `json:"speed"`
	Intelligence float64 `json:"intelligence"`
	Magic        float64 `json:"magic"`
	Health       float64 `json:"health"`
	Loyalty      float64 `json:"loyalty"`
}

func (s Stats) apply(a, b Modifiers, f func(v, a, b float64) float64) Stats {
	r := func(v int, a, b float64) int {
		if a == 0 {
			a = 1
		}
		if b == 0 {
			b = 1
		}
		return int(math.Round(f(float64(v), a, b)))
	}
	return Stats{
		Attack:       r(s.Attack, a.Attack, b.Attack),
		Defense:      r(s.Defense, a.Defense, b.Defense),
		Speed:        r(s.Speed, a.Speed, b.Speed),
		Intelligence: r(s.Intelligence, a.Intelligence, b.Intelligence),
		Magic:        r(s.Magic, a.Magic, b.Magic),
		Health:       r(s.Health, a.Health, b.Health),
		Loyalty:      r(s.Loyalty, a.Loyalty, b.Loyalty),
	}
}

func (s Stats) Scale(m Modifiers) Stats {
	return s.apply(m, Modifiers{}, func(v, m, _ float64) float64 { return v * m })
}

// Rebase moves stats from one set of multipliers onto another, rounding
// once: round(v / from * to).
func (s Stats) Rebase(from, to Modifiers) Stats {
	return s.apply(from, to, func(v, from, to float64) float64 { return v / from * to })
}

type Traits struct {
	Primary     Element     `json:"primary_element"`
	Secondary   Element     `json:"secondary_element,omitempty"`
	Personality Personality `json:"personality"`
	Rarity      Rarity      `json:"rarity"`
	Age         Age         `json:"age"`
	Bonding     float64     `json:"bonding"`
	Experience  int         `json:"experience"`
	Level       int         `json:"level"`
}

type Genetics struct {
	Genes     map[string]float64 `json:"genes"`
	Mutations []string           `json:"mutations"`
	Bloodline string             `json:"bloodline"`
}

type Appearance struct {
	PrimaryColor    string   `json:"primary_color"`
	SecondaryColor  string   `json:"secondary_color"`
	Pattern         string   `json:"pattern"`
	Size            float64  `json:"size"`
	SpecialFeatures []string `json:"special_features"`
}

// Record tracks the deeds that gate aging past juvenile.
type Record struct {
	Victories         int `json:"victories"`
	TreasuresFound    int `json:"treasures_found"`
	LocationsExplored int `json:"locations_explored"`
}

type Dragon struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Stats        Stats      `json:"stats"`
	Traits       Traits     `json:"traits"`
	Abilities    []string   `json:"abilities"`
	Genetics     Genetics   `json:"genetics"`
	Appearance   Appearance `json:"appearance"`
	Record       Record     `json:"record"`
	DiscoveredAt time.Time  `json:"discovered_at"`
	LastActive   time.Time  `json:"last_active"`
	InParty      bool       `json:"in_party"`
}

var elementColors = map[Element]string{
	Fire:      "#FF4500",
	Ice:       "#87CEEB",
	Earth:     "#8B4513",
	Air:       "#E0E0E0",
	Shadow:    "#2F2F2F",
	Light:     "#FFD700",
	Poison:    "#32CD32",
	Lightning: "#9370DB",
}

// NewHatchling returns a level 1 hatchling. Base stats come from rarity and
// are shaped by personality and age.
func NewHatchling(id, name string, element Element, personality Personality, rarity Rarity, now time.Time) Dragon {
	base := rarityBaseStat[rarity]
	if base == 0 {
		base = rarityBaseStat[Common]
	}
	b := int(base)
	stats := Stats{Attack: b, Defense: b, Speed: b, Intelligence: b, Magic: b, Health: b, Loyalty: b}
	stats = stats.Scale(Personalities[personality].StatModifiers).Scale(ageModifiers[Hatchling].Stats)

	d := Dragon{
		ID:    id,
		Name:  name,
		Stats: stats,
		Traits: Traits{
			Primary:     element,
			Personality: personality,
			Rarity:      rarity,
			Age:         Hatchling,
			Level:       1,
		},
		Genetics: Genetics{Genes: map[string]float64{}, Mutations: []string{}, Bloodline: string(element)},
		Appearance: Appearance{
			PrimaryColor:    elementColors[element],
			SecondaryColor:  elementColors[element],
			Pattern:         "solid",
			Size:            ageModifiers[Hatchling].Size,
			SpecialFeatures: append([]string{}, ageModifiers[Hatchling].Features...),
		},
		DiscoveredAt: now,
		LastActive:   now,
	}
	d.Abilities = abilityIDs(AbilitiesFor(element, d.Traits.Level))
	return d
}

// Power is a single-number strength estimate used by combat and ruins.
func (d Dragon) Power() float64 {
	s := d.Stats
	return float64(s.Attack+s.Magic)*1.0 + float64(s.Defense+s.Health)*0.5 + float64(s.Speed)*0.25
}

// HasElement reports whether e is the primary or secondary element.
func (d Dragon) HasElement(e Element) bool {
	return d.Traits.Primary == e || (d.Traits.Secondary != "" && d.Traits.Secondary == e)
}

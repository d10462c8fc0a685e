package dragon

import (
	"errors"
	"math"
	"time"

	"dragons-den/internal/random"
)

var ErrSameParent = errors.New("a dragon cannot breed with itself")

var rarityOrder = []Rarity{Common, Uncommon, Rare, Epic, Legendary, Mythic}

func rarityRank(r Rarity) int {
	for i, v := range rarityOrder {
		if v == r {
			return i
		}
	}
	return 0
}

type Pair struct {
	Parent1       string        `json:"parent1"`
	Parent2       string        `json:"parent2"`
	Compatibility float64       `json:"compatibility"`
	HatchTime     time.Duration `json:"estimated_hatch_time"`
	Element       Element       `json:"primary_element"`
	Secondary     Element       `json:"secondary_element,omitempty"`
	Personality   Personality   `json:"personality"`
	Rarity        Rarity        `json:"rarity"`
	Bloodline     string        `json:"bloodline"`
}

// Compatibility is 80 minus the bonding gap, plus 20 for a shared element,
// clamped to [0,100].
func Compatibility(a, b Dragon) float64 {
	c := 80 - math.Abs(a.Traits.Bonding-b.Traits.Bonding)
	if a.Traits.Primary == b.Traits.Primary {
		c += 20
	}
	return math.Max(0, math.Min(100, c))
}

// HatchTime runs from 24 hours at zero compatibility down to 14 at full.
func HatchTime(compatibility float64) time.Duration {
	hours := 24 - compatibility/10
	return time.Duration(hours * float64(time.Hour))
}

// Breed pairs two dragons and rolls the egg's inheritance. The first parent
// passes its element 70% of the time.
func Breed(src random.Source, a, b Dragon) (Pair, error) {
	if a.ID == b.ID {
		return Pair{}, ErrSameParent
	}
	compat := Compatibility(a, b)
	p := Pair{
		Parent1:       a.ID,
		Parent2:       b.ID,
		Compatibility: compat,
		HatchTime:     HatchTime(compat),
		Element:       b.Traits.Primary,
		Personality:   b.Traits.Personality,
		Bloodline:     a.Genetics.Bloodline,
	}
	if random.Chance(src, 0.7) {
		p.Element = a.Traits.Primary
	}
	if random.Chance(src, 0.5) {
		p.Personality = a.Traits.Personality
	}
	other := a.Traits.Primary
	if p.Element == a.Traits.Primary {
		other = b.Traits.Primary
	}
	if other != p.Element {
		p.Secondary = other
	}

	rank := rarityRank(a.Traits.Rarity)
	if r := rarityRank(b.Traits.Rarity); r < rank {
		rank = r
	}
	if rank+1 < len(rarityOrder) && random.Chance(src, compat/200) {
		rank++
	}
	p.Rarity = rarityOrder[rank]
	if p.Bloodline == "" {
		p.Bloodline = string(p.Element)
	}
	return p, nil
}

// Hatch turns an incubated pair into a hatchling.
func Hatch(p Pair, id, name string, now time.Time) Dragon {
	d := NewHatchling(id, name, p.Element, p.Personality, p.Rarity, now)
	d.Traits.Secondary = p.Secondary
	if p.Secondary != "" {
		d.Appearance.SecondaryColor = elementColors[p.Secondary]
		d.Appearance.Pattern = "striped"
	}
	d.Genetics.Bloodline = p.Bloodline
	d.Genetics.Genes["compatibility"] = p.Compatibility
	return d
}

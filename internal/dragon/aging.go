package dragon

import (
	"fmt"
	"math"
	"time"
)

type AgeRequirement struct {
	Experience        int
	MinimumAge        time.Duration
	Bonding           float64
	Victories         int
	TreasuresFound    int
	LocationsExplored int
}

var ageRequirements = map[Age]AgeRequirement{
	Hatchling: {},
	Juvenile:  {Experience: 500, MinimumAge: 12 * time.Hour, Bonding: 25},
	Adult:     {Experience: 2500, MinimumAge: 72 * time.Hour, Bonding: 60, Victories: 10, LocationsExplored: 3},
	Elder:     {Experience: 10000, MinimumAge: 336 * time.Hour, Bonding: 80, Victories: 50, TreasuresFound: 25, LocationsExplored: 8},
	Ancient:   {Experience: 50000, MinimumAge: 1680 * time.Hour, Bonding: 95, Victories: 200, TreasuresFound: 100, LocationsExplored: 15},
}

type AgeModifier struct {
	Stats     Modifiers
	Abilities []string
	Size      float64
	Features  []string
}

var ageModifiers = map[Age]AgeModifier{
	Hatchling: {
		Stats:     Modifiers{Attack: 0.6, Defense: 0.5, Speed: 1.2, Intelligence: 0.4, Magic: 0.3, Health: 0.4, Loyalty: 1.5},
		Abilities: []string{"curiosity", "rapid_learning"},
		Size:      0.3,
		Features:  []string{"baby_eyes", "soft_scales"},
	},
	Juvenile: {
		Stats:     Modifiers{Attack: 0.8, Defense: 0.75, Speed: 1.4, Intelligence: 0.7, Magic: 0.6, Health: 0.7, Loyalty: 1.3},
		Abilities: []string{"playful_energy", "growth_spurt"},
		Size:      0.6,
		Features:  []string{"developing_horns", "bright_eyes"},
	},
	Adult: {
		Stats:     Modifiers{Attack: 1, Defense: 1, Speed: 1, Intelligence: 1, Magic: 1, Health: 1, Loyalty: 1},
		Abilities: []string{"prime_strength", "balanced_power"},
		Size:      1.0,
		Features:  []string{"full_horns", "mature_scales"},
	},
	Elder: {
		Stats:     Modifiers{Attack: 1.3, Defense: 1.4, Speed: 0.9, Intelligence: 1.6, Magic: 1.5, Health: 1.3, Loyalty: 1.2},
		Abilities: []string{"elder_wisdom", "experienced_fighter", "magical_mastery"},
		Size:      1.4,
		Features:  []string{"battle_scars", "wise_eyes", "ornate_horns"},
	},
	Ancient: {
		Stats:     Modifiers{Attack: 1.8, Defense: 2.0, Speed: 0.7, Intelligence: 2.5, Magic: 2.2, Health: 1.8, Loyalty: 1.5},
		Abilities: []string{"ancient_power", "timeless_wisdom", "elemental_mastery", "legendary_presence"},
		Size:      2.0,
		Features:  []string{"glowing_runes", "crystalline_scales", "ethereal_aura", "crown_spikes"},
	},
}

var ageBonusLevels = map[Age]int{Hatchling: 0, Juvenile: 2, Adult: 5, Elder: 10, Ancient: 20}

var ageLearningRate = map[Age]float64{Hatchling: 2.0, Juvenile: 1.5, Adult: 1.0, Elder: 0.7, Ancient: 0.5}

var activityExperience = map[string]float64{
	"combat_victory": 100,
	"exploration":    25,
	"treasure_found": 50,
	"training":       15,
	"bonding":        10,
}

var ageDescriptions = map[Age]string{
	Hatchling: "A young dragon, full of curiosity and energy, learning about the world.",
	Juvenile:  "A growing dragon, developing their abilities and personality.",
	Adult:     "A mature dragon at the peak of their physical capabilities.",
	Elder:     "A seasoned dragon with great wisdom and magical power.",
	Ancient:   "A legendary dragon of immense power and unfathomable wisdom.",
}

func AgeDescription(a Age) string {
	return ageDescriptions[a]
}

func RequirementFor(a Age) AgeRequirement {
	return ageRequirements[a]
}

// CanAgeUp reports whether d meets every requirement of its next age at now.
func CanAgeUp(d Dragon, now time.Time) bool {
	_, missing, ok := nextAgeGaps(d, now)
	return ok && len(missing) == 0
}

// AgeUp moves d to its next age. Stats are rebased from the old age
// multipliers onto the new ones and newly unlocked abilities are learned.
// The second result is false when d could not age.
func AgeUp(d Dragon, now time.Time) (Dragon, bool) {
	if !CanAgeUp(d, now) {
		return d, false
	}
	next, _ := d.Traits.Age.Next()
	oldMod, newMod := ageModifiers[d.Traits.Age], ageModifiers[next]

	d.Stats = d.Stats.Rebase(oldMod.Stats, newMod.Stats)
	d.Appearance.Size = d.Appearance.Size * newMod.Size / oldMod.Size

	features := make([]string, 0, len(d.Appearance.SpecialFeatures)+len(newMod.Features))
	for _, f := range d.Appearance.SpecialFeatures {
		if !containsString(oldMod.Features, f) {
			features = append(features, f)
		}
	}
	d.Appearance.SpecialFeatures = append(features, newMod.Features...)

	d.Traits.Age = next
	d.Traits.Level += ageBonusLevels[next]
	d.Abilities = mergeAbilities(d.Abilities, abilityIDs(AbilitiesFor(d.Traits.Primary, d.Traits.Level)))
	return d, true
}

// TimeToNextAge returns the time still required plus a human readable list
// of the other unmet requirements.
func TimeToNextAge(d Dragon, now time.Time) (time.Duration, []string) {
	remaining, missing, ok := nextAgeGaps(d, now)
	if !ok {
		return 0, []string{"Already at maximum age"}
	}
	var other []string
	for _, m := range missing {
		if m != "time" {
			other = append(other, m)
		}
	}
	if len(other) == 0 {
		other = []string{"Time requirement only"}
	}
	return remaining, other
}

func nextAgeGaps(d Dragon, now time.Time) (time.Duration, []string, bool) {
	next, ok := d.Traits.Age.Next()
	if !ok {
		return 0, nil, false
	}
	req := ageRequirements[next]

	var missing []string
	remaining := req.MinimumAge - now.Sub(d.DiscoveredAt)
	if remaining > 0 {
		missing = append(missing, "time")
	} else {
		remaining = 0
	}
	if d.Traits.Experience < req.Experience {
		missing = append(missing, fmt.Sprintf("%d more experience", req.Experience-d.Traits.Experience))
	}
	if d.Traits.Bonding < req.Bonding {
		missing = append(missing, fmt.Sprintf("%.0f more bonding", math.Ceil(req.Bonding-d.Traits.Bonding)))
	}
	if d.Record.Victories < req.Victories {
		missing = append(missing, fmt.Sprintf("%d more victories", req.Victories-d.Record.Victories))
	}
	if d.Record.TreasuresFound < req.TreasuresFound {
		missing = append(missing, fmt.Sprintf("%d more treasures", req.TreasuresFound-d.Record.TreasuresFound))
	}
	if d.Record.LocationsExplored < req.LocationsExplored {
		missing = append(missing, fmt.Sprintf("%d more locations", req.LocationsExplored-d.Record.LocationsExplored))
	}
	return remaining, missing, true
}

// ExperienceGain is the experience d earns from activity. Failures earn 30%,
// young dragons learn faster and intelligence above 100 helps.
func ExperienceGain(d Dragon, activity string, success bool) int {
	base, ok := activityExperience[activity]
	if !ok {
		base = 5
	}
	if !success {
		base *= 0.3
	}
	rate, ok := ageLearningRate[d.Traits.Age]
	if !ok {
		rate = 1
	}
	base *= rate
	base *= 1 + float64(d.Stats.Intelligence-100)/200
	return int(math.Round(math.Max(0, base)))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func mergeAbilities(have, add []string) []string {
	out := append([]string{}, have...)
	for _, id := range add {
		if !containsString(out, id) {
			out = append(out, id)
		}
	}
	return out
}

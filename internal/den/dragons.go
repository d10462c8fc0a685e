package den

import (
	"strings"
	"time"

	"dragons-den/internal/dragon"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/world"
)

var wildRarity = map[world.Difficulty]dragon.Rarity{
	world.Peaceful:  dragon.Common,
	world.Easy:      dragon.Common,
	world.Normal:    dragon.Uncommon,
	world.Hard:      dragon.Rare,
	world.Extreme:   dragon.Epic,
	world.Legendary: dragon.Legendary,
}

type BondResult struct {
	DragonID string  `json:"dragon_id"`
	Activity string  `json:"activity"`
	Gain     int     `json:"gain"`
	Bonding  float64 `json:"bonding"`
}

// Bond runs a bonding activity, paying its resource cost up front.
func (k *Keeper) Bond(dragonID, activityID string) (BondResult, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	i, ok := k.dragonIndex(dragonID)
	if !ok {
		return BondResult{}, errors.NotFoundf("dragon %s not found", dragonID)
	}
	a, ok := dragon.ActivityByID(activityID)
	if !ok {
		return BondResult{}, errors.Validationf("unknown activity %q", activityID)
	}
	d := k.dragons[i]
	if d.Traits.Level < a.MinLevel {
		return BondResult{}, errors.Rejectedf("%s requires level %d", a.Name, a.MinLevel)
	}
	for _, res := range sortedKeys(a.Cost) {
		if k.resources[res] < a.Cost[res] {
			return BondResult{}, errors.Rejectedf("Not enough %s for %s", res, a.Name)
		}
	}
	for res, amount := range a.Cost {
		k.resources[res] -= amount
	}

	gain := dragon.BondingGain(a, d.Traits.Personality, d.Traits.Bonding, string(k.weather.Current().Type))
	d = dragon.Bond(d, gain, k.now())
	d.Traits.Experience += dragon.ExperienceGain(d, "bonding", true)
	k.dragons[i] = d

	k.logger.Debug("Dragon bonded", "dragon_id", d.ID, "activity", a.ID, "gain", gain, "bonding", d.Traits.Bonding)
	k.checkAchievements()
	return BondResult{DragonID: d.ID, Activity: a.ID, Gain: gain, Bonding: d.Traits.Bonding}, nil
}

// Breed pairs two dragons and puts the egg in the incubator. Only one egg
// incubates at a time.
func (k *Keeper) Breed(parent1, parent2 string) (Incubation, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.incubation != nil {
		return Incubation{}, errors.Rejected("An egg is already incubating")
	}
	i, ok := k.dragonIndex(parent1)
	if !ok {
		return Incubation{}, errors.NotFoundf("dragon %s not found", parent1)
	}
	j, ok := k.dragonIndex(parent2)
	if !ok {
		return Incubation{}, errors.NotFoundf("dragon %s not found", parent2)
	}
	pair, err := dragon.Breed(k.src, k.dragons[i], k.dragons[j])
	if err != nil {
		return Incubation{}, errors.WrapValidation("A dragon cannot breed with itself", err)
	}

	k.incubation = &Incubation{Pair: pair, Remaining: pair.HatchTime}
	k.logger.Info("Egg incubating",
		"parent1", parent1,
		"parent2", parent2,
		"element", pair.Element,
		"rarity", pair.Rarity,
		"hatch_time", pair.HatchTime,
	)
	return *k.incubation, nil
}

func (k *Keeper) hatch(now time.Time) dragon.Dragon {
	p := k.incubation.Pair
	k.incubation = nil

	name := strings.ToUpper(string(p.Element[:1])) + string(p.Element[1:]) + " Hatchling"
	d := dragon.Hatch(p, k.newID(), name, now)
	k.dragons = append(k.dragons, d)
	k.record.DragonsHatched++

	k.logger.Info("Egg hatched", "dragon_id", d.ID, "element", d.Traits.Primary, "rarity", d.Traits.Rarity)
	return d
}

// Fight sends the party against the wild dragons of a discovered location.
func (k *Keeper) Fight(locationID string) (dragon.CombatResult, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	i, ok := k.byID[locationID]
	if !ok {
		return dragon.CombatResult{}, errors.NotFoundf("location %s not found", locationID)
	}
	loc := k.locations[i]
	if !loc.Discovered {
		return dragon.CombatResult{}, errors.Rejected("Location has not been discovered")
	}
	party := k.partyDragons()
	if len(party) == 0 {
		return dragon.CombatResult{}, errors.Rejected("No dragons in the party")
	}

	now := k.now()
	enemies := make([]dragon.Dragon, 0, len(loc.Encounters.WildDragons))
	for _, id := range loc.Encounters.WildDragons {
		enemies = append(enemies, WildDragon(id, loc.Difficulty, now))
	}

	res := dragon.ResolveCombat(k.src, party, enemies, k.weather.ElementalModifier)
	if res.Victory {
		k.record.CombatsWon++
		if res.Flawless {
			k.record.FlawlessVictories++
		}
		if res.Elemental {
			for _, d := range party {
				k.record.ElementalWins[d.Traits.Primary] = true
			}
		}
		for _, r := range res.Rewards {
			k.resources[r]++
		}
	}
	k.reward(func(d *dragon.Dragon) {
		d.Traits.Experience += dragon.ExperienceGain(*d, "combat_victory", res.Victory)
		if res.Victory {
			d.Record.Victories++
		}
		d.LastActive = now
	})

	k.logger.Info("Combat resolved",
		"location_id", loc.ID,
		"victory", res.Victory,
		"team_power", res.TeamPower,
		"enemy_power", res.EnemyPower,
	)
	k.checkAchievements()
	return res, nil
}

// WildDragon builds the opponent named by a wild encounter id such as
// "fire_dragon_easy_0". Its rarity follows the location difficulty.
func WildDragon(id string, difficulty world.Difficulty, now time.Time) dragon.Dragon {
	element := dragon.Fire
	if prefix, _, ok := strings.Cut(id, "_dragon_"); ok && prefix != "" {
		element = dragon.Element(prefix)
	}
	rarity, ok := wildRarity[difficulty]
	if !ok {
		rarity = dragon.Common
	}
	name := "Wild " + strings.ToUpper(string(element[:1])) + string(element[1:]) + " Dragon"
	return dragon.NewHatchling(id, name, element, dragon.Wild, rarity, now)
}

package den

import (
	"math"
	"time"

	"dragons-den/internal/dragon"
	"dragons-den/internal/random"
	"dragons-den/internal/ruins"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/world"
)

const (
	explorationSuccessChance = 0.8
	fastExploration          = 5 * time.Minute
	treasureDiscoveryChance  = 0.3
)

var baseExploration = map[world.Difficulty]time.Duration{
	world.Peaceful:  30 * time.Minute,
	world.Easy:      45 * time.Minute,
	world.Normal:    60 * time.Minute,
	world.Hard:      90 * time.Minute,
	world.Extreme:   120 * time.Minute,
	world.Legendary: 180 * time.Minute,
}

type ExplorationResult struct {
	LocationID string            `json:"location_id"`
	Success    bool              `json:"success"`
	Treasures  []string          `json:"treasures"`
	Gold       float64           `json:"gold"`
	Progress   float64           `json:"progress"`
	Experience int               `json:"experience"`
	Duration   time.Duration     `json:"duration"`
	Weather    world.WeatherType `json:"weather"`
	Discovered []string          `json:"discovered,omitempty"`
}

// ExplorationTime is how long the party needs for loc under weather. Bad
// weather and slow dragons stretch it; fast dragons shorten it.
func ExplorationTime(loc world.Location, party []dragon.Dragon, w world.WeatherType) time.Duration {
	base, ok := baseExploration[loc.Difficulty]
	if !ok {
		base = baseExploration[world.Normal]
	}
	speed := world.Effect(w).ExplorationSpeed
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(base) / speed / partySpeed(party))
}

func partySpeed(party []dragon.Dragon) float64 {
	if len(party) == 0 {
		return 1
	}
	total := 0
	for _, d := range party {
		total += d.Stats.Speed
	}
	return math.Max(1, float64(total)/float64(len(party))/100)
}

func (k *Keeper) StartExploration(locationID string) (Expedition, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.expedition != nil {
		return Expedition{}, errors.Rejected("An exploration is already underway")
	}
	i, ok := k.byID[locationID]
	if !ok {
		return Expedition{}, errors.NotFoundf("location %s not found", locationID)
	}
	loc := k.locations[i]
	if !loc.Discovered {
		return Expedition{}, errors.Rejected("Location has not been discovered")
	}
	party := k.partyDragons()
	if len(party) == 0 {
		return Expedition{}, errors.Rejected("No dragons in the exploration party")
	}
	if top := highestLevel(party); top < loc.RequiredLevel {
		return Expedition{}, errors.Rejectedf("Party level %d is below the required level %d", top, loc.RequiredLevel)
	}

	w := k.weather.Current().Type
	d := ExplorationTime(loc, party, w)
	k.expedition = &Expedition{
		LocationID: loc.ID,
		Party:      append([]string(nil), k.party...),
		Duration:   d,
		Remaining:  d,
		Weather:    w,
	}

	k.logger.Info("Exploration started", "location_id", loc.ID, "biome", loc.Biome, "duration", d, "weather", w)
	return *k.expedition, nil
}

// CompleteExploration finishes the running expedition now, whatever its
// remaining time.
func (k *Keeper) CompleteExploration() (ExplorationResult, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.expedition == nil {
		return ExplorationResult{}, errors.Rejected("No exploration in progress")
	}
	res := k.completeExploration()
	k.checkAchievements()
	return res, nil
}

func (k *Keeper) completeExploration() ExplorationResult {
	exp := k.expedition
	k.expedition = nil

	loc := &k.locations[k.byID[exp.LocationID]]
	res := ExplorationResult{
		LocationID: loc.ID,
		Treasures:  []string{},
		Duration:   exp.Duration,
		Weather:    exp.Weather,
	}

	effect := world.Effect(exp.Weather)
	res.Success = random.Chance(k.src, explorationSuccessChance)
	if res.Success {
		for n := random.Intn(k.src, 3); n > 0; n-- {
			if t, ok := k.treasure(*loc, effect.TreasureChance); ok {
				res.Treasures = append(res.Treasures, t)
			}
		}
		level := highestLevel(k.partyDragons())
		res.Gold = float64(random.Intn(k.src, max(1, level)*100))
		before := loc.ExplorationProgress
		loc.Advance(float64(10 + random.Intn(k.src, 20)))
		res.Progress = loc.ExplorationProgress - before
		res.Discovered = k.revealNearby(*loc)
	}

	for _, t := range res.Treasures {
		k.resources[t]++
	}
	k.resources["gold"] += res.Gold
	k.record.GoldEarned += res.Gold
	k.record.Treasures += len(res.Treasures)
	k.record.Explorations++
	k.record.WeatherExplored[exp.Weather] = true
	if exp.Duration < fastExploration {
		k.record.FastExplorations++
	}
	if loc.Biome == world.ShadowRealm && exp.Weather == world.Eclipse {
		k.record.SpecialExploration++
		k.achievements.Trigger("shadow_walker")
	}

	k.reward(func(d *dragon.Dragon) {
		gain := dragon.ExperienceGain(*d, "exploration", res.Success)
		d.Traits.Experience += gain
		d.Record.LocationsExplored++
		d.Record.TreasuresFound += len(res.Treasures)
		d.LastActive = k.now()
		res.Experience += gain
	})

	k.logger.Info("Exploration completed",
		"location_id", loc.ID,
		"success", res.Success,
		"treasures", len(res.Treasures),
		"gold", res.Gold,
		"progress", loc.ExplorationProgress,
	)
	return res
}

// treasure rolls one find: rare finds need the discovery roll and a rare
// pool, otherwise a common treasure is drawn.
func (k *Keeper) treasure(loc world.Location, weatherChance float64) (string, bool) {
	if weatherChance <= 0 {
		weatherChance = 1
	}
	if len(loc.Resources.Rare) > 0 && random.Chance(k.src, treasureDiscoveryChance*weatherChance) {
		return random.Choice(k.src, loc.Resources.Rare), true
	}
	if len(loc.Resources.Common) == 0 {
		return "", false
	}
	return random.Choice(k.src, loc.Resources.Common), true
}

// revealNearby discovers undiscovered locations within revealRadius of loc.
func (k *Keeper) revealNearby(loc world.Location) []string {
	var found []string
	for i := range k.locations {
		l := &k.locations[i]
		if l.Discovered || l.Coordinates.DistanceTo(loc.Coordinates) > revealRadius {
			continue
		}
		l.Discovered = true
		found = append(found, l.ID)
	}
	return found
}

const revealRadius = 25.0

// ExploreRuin attempts the next uncleared floor of a ruin at a discovered
// location with the current party.
func (k *Keeper) ExploreRuin(ruinID string, choices ruins.Choices) (ruins.Result, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	ruin, loc, ok := k.findRuin(ruinID)
	if !ok {
		return ruins.Result{}, errors.NotFoundf("ruin %s not found", ruinID)
	}
	if !loc.Discovered {
		return ruins.Result{}, errors.Rejected("Location has not been discovered")
	}
	floor := k.ruinFloor[ruinID]
	if floor >= len(ruin.Floors) {
		return ruins.Result{}, errors.Rejected("Ruin already cleared")
	}

	party := k.partyDragons()
	res := k.explorer.ExploreFloor(*ruin, floor, party, choices)

	for _, item := range res.Loot {
		k.resources[item]++
		if item == ruin.LegendaryReward {
			k.record.LegendaryTreasures++
		}
	}
	k.record.Treasures += len(res.Loot)
	if res.NextFloorUnlocked || res.RuinCompleted {
		k.ruinFloor[ruinID] = floor + 1
	}
	if res.RuinCompleted {
		ruin.Explored = true
		k.record.RuinsCompleted++
	}

	if len(party) > 0 {
		share := res.Experience / len(party)
		k.reward(func(d *dragon.Dragon) {
			d.Traits.Experience += share
			d.Record.TreasuresFound += len(res.Loot)
			d.LastActive = k.now()
		})
	}

	k.logger.Info("Ruin floor explored",
		"ruin_id", ruinID,
		"floor", floor,
		"success", res.Success,
		"completed", res.RuinCompleted,
	)
	k.checkAchievements()
	return res, nil
}

// RuinFloor is the next floor a ruin will be explored at.
func (k *Keeper) RuinFloor(ruinID string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.ruinFloor[ruinID]
}

func (k *Keeper) findRuin(id string) (*world.Ruin, world.Location, bool) {
	for i := range k.locations {
		rs := k.locations[i].Encounters.Ruins
		for j := range rs {
			if rs[j].ID == id {
				return &rs[j], k.locations[i], true
			}
		}
	}
	return nil, world.Location{}, false
}

func highestLevel(party []dragon.Dragon) int {
	top := 0
	for _, d := range party {
		top = max(top, d.Traits.Level)
	}
	return top
}

package den

import (
	"testing"
	"time"

	"dragons-den/internal/achievement"
	"dragons-den/internal/dragon"
	"dragons-den/internal/random"
	"dragons-den/internal/ruins"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newKeeper(t *testing.T, src random.Source) (*Keeper, *clock) {
	t.Helper()
	c := &clock{t: epoch}
	cfg := world.DefaultConfig("den-test")
	cfg.LocationDensity = 0

	ids := 0
	k := New(cfg, Options{
		Source: src,
		Now:    c.now,
		NewID: func() string {
			ids++
			return "egg-" + string(rune('0'+ids))
		},
	})
	require.Len(t, k.Locations(), 3)
	return k, c
}

func adult(id string, element dragon.Element) dragon.Dragon {
	return dragon.Dragon{
		ID:    id,
		Name:  id,
		Stats: dragon.Stats{Attack: 100, Defense: 100, Speed: 100, Intelligence: 100, Magic: 100, Health: 100},
		Traits: dragon.Traits{
			Primary:     element,
			Personality: dragon.Aggressive,
			Rarity:      dragon.Common,
			Age:         dragon.Adult,
			Level:       1,
		},
		DiscoveredAt: epoch,
		LastActive:   epoch,
	}
}

func completedIDs(list []achievement.Achievement) []string {
	ids := make([]string, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestExplorationRunsToCompletionOnUpdate(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.5))
	require.NoError(t, k.AddDragon(adult("ember", dragon.Fire)))
	require.NoError(t, k.SetParty([]string{"ember"}))

	exp, err := k.StartExploration("starter_0")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, exp.Duration)
	assert.Equal(t, world.Clear, exp.Weather)

	rep := k.Update(30 * time.Minute)
	require.NotNil(t, rep.Exploration)
	res := *rep.Exploration
	assert.True(t, res.Success)
	assert.Equal(t, []string{"small_gold"}, res.Treasures)
	assert.Equal(t, 50.0, res.Gold)
	assert.Equal(t, 25, res.Experience)
	assert.Contains(t, completedIDs(rep.Achievements), "first_steps")

	_, running := k.Expedition()
	assert.False(t, running)

	resources := k.Resources()
	assert.Equal(t, 1.0, resources["small_gold"])
	// 50 found plus the first_steps reward.
	assert.Equal(t, 150.0, resources["gold"])

	rec := k.Record()
	assert.Equal(t, 1, rec.Explorations)
	assert.Equal(t, 1, rec.Treasures)
	assert.True(t, rec.WeatherExplored[world.Clear])

	d, ok := k.Dragon("ember")
	require.True(t, ok)
	assert.Equal(t, 25, d.Traits.Experience)
	assert.Equal(t, 1, d.Record.LocationsExplored)
}

func TestStartExplorationRejections(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.5))

	_, err := k.StartExploration("nowhere")
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	_, err = k.StartExploration("starter_0")
	assert.Equal(t, errors.ErrorTypeRejected, errors.GetType(err))
	assert.Equal(t, "No dragons in the exploration party", errors.Message(err))

	require.NoError(t, k.AddDragon(adult("ember", dragon.Fire)))
	require.NoError(t, k.SetParty([]string{"ember"}))
	_, err = k.StartExploration("starter_0")
	require.NoError(t, err)

	_, err = k.StartExploration("starter_1")
	assert.Equal(t, errors.ErrorTypeRejected, errors.GetType(err))

	res, err := k.CompleteExploration()
	require.NoError(t, err)
	assert.Equal(t, "starter_0", res.LocationID)

	_, err = k.CompleteExploration()
	assert.Equal(t, errors.ErrorTypeRejected, errors.GetType(err))
}

func TestExplorationTime(t *testing.T) {
	normal := world.Location{Difficulty: world.Normal}
	slow := adult("slow", dragon.Earth)
	fast := adult("fast", dragon.Air)
	fast.Stats.Speed = 300

	assert.Equal(t, 60*time.Minute, ExplorationTime(normal, []dragon.Dragon{slow}, world.Clear))
	assert.Equal(t, 120*time.Minute, ExplorationTime(normal, []dragon.Dragon{slow}, world.Storm))
	assert.Equal(t, 20*time.Minute, ExplorationTime(normal, []dragon.Dragon{fast}, world.Clear))
	assert.Equal(t, 30*time.Minute, ExplorationTime(normal, []dragon.Dragon{slow, fast}, world.Clear))
}

func TestSetPartyLimits(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.5))
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, k.AddDragon(adult(id, dragon.Fire)))
	}

	err := k.SetParty([]string{"a", "b", "c", "d", "e"})
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	err = k.SetParty([]string{"a", "ghost"})
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	require.NoError(t, k.SetParty([]string{"b", "c"}))
	party := k.Party()
	require.Len(t, party, 2)
	assert.True(t, party[0].InParty)

	d, _ := k.Dragon("a")
	assert.False(t, d.InParty)

	err = k.AddDragon(adult("a", dragon.Ice))
	assert.Equal(t, errors.ErrorTypeConflict, errors.GetType(err))
}

func TestBondChargesActivityCost(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.5))
	require.NoError(t, k.AddDragon(adult("ember", dragon.Fire)))

	_, err := k.Bond("ember", "feeding")
	assert.Equal(t, errors.ErrorTypeRejected, errors.GetType(err))
	assert.Equal(t, "Not enough food for Hand Feeding", errors.Message(err))

	_, err = k.Bond("ember", "flying")
	assert.Equal(t, "Flight Practice requires level 5", errors.Message(err))

	_, err = k.Bond("ember", "juggling")
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	k.AddResource("food", 50)
	res, err := k.Bond("ember", "feeding")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Gain)
	assert.Equal(t, 3.0, res.Bonding)
	assert.Zero(t, k.Resources()["food"])
}

func TestBreedingHatchesOnUpdate(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.1, 0.9, 0.99))
	require.NoError(t, k.AddDragon(adult("ember", dragon.Fire)))
	require.NoError(t, k.AddDragon(adult("cinder", dragon.Fire)))

	_, err := k.Breed("ember", "ember")
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	inc, err := k.Breed("ember", "cinder")
	require.NoError(t, err)
	assert.Equal(t, 100.0, inc.Pair.Compatibility)
	assert.Equal(t, 14*time.Hour, inc.Remaining)

	_, err = k.Breed("ember", "cinder")
	assert.Equal(t, errors.ErrorTypeRejected, errors.GetType(err))

	rep := k.Update(14 * time.Hour)
	require.NotNil(t, rep.Hatched)
	assert.Equal(t, "egg-1", rep.Hatched.ID)
	assert.Equal(t, dragon.Fire, rep.Hatched.Traits.Primary)
	assert.Equal(t, dragon.Hatchling, rep.Hatched.Traits.Age)
	assert.Contains(t, completedIDs(rep.Achievements), "first_hatch")

	_, incubating := k.Incubation()
	assert.False(t, incubating)
	assert.Len(t, k.Dragons(), 3)
	assert.Equal(t, 1, k.Record().DragonsHatched)
}

func TestFightAgainstEmptyLocationIsFlawless(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.5))
	require.NoError(t, k.AddDragon(adult("ember", dragon.Fire)))

	_, err := k.Fight("starter_0")
	assert.Equal(t, errors.ErrorTypeRejected, errors.GetType(err))

	require.NoError(t, k.SetParty([]string{"ember"}))
	res, err := k.Fight("starter_0")
	require.NoError(t, err)
	assert.True(t, res.Victory)
	assert.True(t, res.Flawless)

	rec := k.Record()
	assert.Equal(t, 1, rec.CombatsWon)
	assert.Equal(t, 1, rec.FlawlessVictories)
	assert.Equal(t, 1.0, k.Resources()["battle_trophy"])

	d, _ := k.Dragon("ember")
	assert.Equal(t, 1, d.Record.Victories)
	assert.Equal(t, 100, d.Traits.Experience)

	first, ok := findAchievement(k.Achievements(), "first_victory")
	require.True(t, ok)
	assert.True(t, first.Completed)
	perfect, ok := findAchievement(k.Achievements(), "perfect_formation")
	require.True(t, ok)
	assert.True(t, perfect.Completed)
}

func findAchievement(list []achievement.Achievement, id string) (achievement.Achievement, bool) {
	for _, a := range list {
		if a.ID == id {
			return a, true
		}
	}
	return achievement.Achievement{}, false
}

func TestWildDragon(t *testing.T) {
	d := WildDragon("ice_dragon_hard_1", world.Hard, epoch)
	assert.Equal(t, dragon.Ice, d.Traits.Primary)
	assert.Equal(t, dragon.Rare, d.Traits.Rarity)
	assert.Equal(t, dragon.Wild, d.Traits.Personality)
	assert.Equal(t, "Wild Ice Dragon", d.Name)
}

func TestBondingDecayIsIncremental(t *testing.T) {
	k, c := newKeeper(t, random.NewFixed(0.5))
	d := adult("ember", dragon.Fire)
	d.Traits.Bonding = 50
	require.NoError(t, k.AddDragon(d))

	c.t = epoch.Add(48 * time.Hour)
	k.Update(48 * time.Hour)
	got, _ := k.Dragon("ember")
	assert.InDelta(t, 46.4, got.Traits.Bonding, 1e-9)

	c.t = epoch.Add(49 * time.Hour)
	k.Update(time.Hour)
	got, _ = k.Dragon("ember")
	assert.InDelta(t, 46.25, got.Traits.Bonding, 1e-9)
}

func TestExploreRuinAdvancesFloors(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.5))
	loc := world.Location{
		ID:         "loc_test",
		Biome:      world.Desert,
		Difficulty: world.Normal,
		Discovered: true,
		Encounters: world.Encounters{Ruins: []world.Ruin{{
			ID:              "ruin_test",
			LegendaryReward: "sun_crown",
			Floors: []world.Floor{
				{Level: 1, Treasures: []string{"ancient_coin"}},
				{Level: 2, Treasures: []string{"sun_crown"}},
			},
		}}},
	}
	k.locations = append(k.locations, loc)
	k.byID[loc.ID] = len(k.locations) - 1

	require.NoError(t, k.AddDragon(adult("ember", dragon.Fire)))
	require.NoError(t, k.AddDragon(adult("frost", dragon.Ice)))
	require.NoError(t, k.SetParty([]string{"ember", "frost"}))

	_, err := k.ExploreRuin("ruin_missing", nil)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))

	res, err := k.ExploreRuin("ruin_test", ruins.Choices{})
	require.NoError(t, err)
	assert.True(t, res.NextFloorUnlocked)
	assert.Equal(t, 1, k.RuinFloor("ruin_test"))

	res, err = k.ExploreRuin("ruin_test", nil)
	require.NoError(t, err)
	assert.True(t, res.RuinCompleted)

	rec := k.Record()
	assert.Equal(t, 1, rec.RuinsCompleted)
	assert.Equal(t, 1, rec.LegendaryTreasures)
	assert.Equal(t, 2, rec.Treasures)

	d, _ := k.Dragon("frost")
	assert.Equal(t, 75, d.Traits.Experience)

	_, err = k.ExploreRuin("ruin_test", nil)
	assert.Equal(t, "Ruin already cleared", errors.Message(err))
}

func TestDiscoverCountsTowardAchievements(t *testing.T) {
	k, _ := newKeeper(t, random.NewFixed(0.5))
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(k.Discover("nowhere")))
	require.NoError(t, k.Discover("starter_0"))

	s := k.stats()
	assert.Equal(t, 3.0, s[achievement.LocationsDiscovered])
	assert.Equal(t, 1.0, s[achievement.BiomesMastered])
}

package dragon

import (
	"testing"
	"time"

	"dragons-den/internal/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hatchedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func fighter(id string, e Element, attack int) Dragon {
	return Dragon{
		ID:     id,
		Stats:  Stats{Attack: attack},
		Traits: Traits{Primary: e, Age: Adult, Level: 10},
	}
}

func TestDamageMultiplier(t *testing.T) {
	assert.Equal(t, 1.5, DamageMultiplier(Fire, Ice))
	assert.Equal(t, 0.75, DamageMultiplier(Fire, Air))
	assert.Equal(t, 0.1, DamageMultiplier(Fire, Fire))
	assert.Equal(t, 1.0, DamageMultiplier(Fire, Shadow))
	assert.Equal(t, 1.5, DamageMultiplier(Shadow, Light), "strength wins over weakness")
}

func TestNewHatchlingLearnsStartingAbilities(t *testing.T) {
	d := NewHatchling("d1", "Ember", Fire, Loyal, Common, hatchedAt)

	assert.Equal(t, Hatchling, d.Traits.Age)
	assert.Equal(t, 1, d.Traits.Level)
	assert.Equal(t, []string{"flame_breath"}, d.Abilities)
	// 80 * 1.05 loyal, then * 0.6 hatchling
	assert.Equal(t, 50, d.Stats.Attack)
	assert.Equal(t, hatchedAt, d.LastActive)
}

func TestAgeUpRebasesStats(t *testing.T) {
	d := Dragon{
		ID:           "d1",
		Stats:        Stats{Attack: 60},
		Traits:       Traits{Primary: Fire, Age: Hatchling, Level: 1, Experience: 500, Bonding: 25},
		Abilities:    []string{"flame_breath"},
		Appearance:   Appearance{Size: 0.3, SpecialFeatures: []string{"scar", "baby_eyes", "soft_scales"}},
		DiscoveredAt: hatchedAt,
	}

	assert.False(t, CanAgeUp(d, hatchedAt.Add(11*time.Hour)))
	left, reqs := TimeToNextAge(d, hatchedAt.Add(11*time.Hour))
	assert.Equal(t, time.Hour, left)
	assert.Equal(t, []string{"Time requirement only"}, reqs)

	now := hatchedAt.Add(12 * time.Hour)
	aged, ok := AgeUp(d, now)
	require.True(t, ok)
	assert.Equal(t, Juvenile, aged.Traits.Age)
	assert.Equal(t, 3, aged.Traits.Level)
	assert.Equal(t, 80, aged.Stats.Attack)
	assert.InDelta(t, 0.6, aged.Appearance.Size, 1e-9)
	assert.Equal(t, []string{"scar", "developing_horns", "bright_eyes"}, aged.Appearance.SpecialFeatures)
	assert.Equal(t, []string{"flame_breath"}, aged.Abilities)
}

func TestAgeUpRoundsOnce(t *testing.T) {
	d := Dragon{
		ID:           "d2",
		Stats:        Stats{Attack: 10, Defense: 10},
		Traits:       Traits{Primary: Fire, Age: Hatchling, Level: 1, Experience: 500, Bonding: 25},
		DiscoveredAt: hatchedAt,
	}

	aged, ok := AgeUp(d, hatchedAt.Add(12*time.Hour))
	require.True(t, ok)
	// 10 / 0.6 * 0.8 = 13.33
	assert.Equal(t, 13, aged.Stats.Attack)
	assert.Equal(t, 15, aged.Stats.Defense)
}

func TestRebase(t *testing.T) {
	from := Modifiers{Attack: 0.6, Speed: 1.2}
	to := Modifiers{Attack: 0.8, Speed: 1.4}

	got := Stats{Attack: 10, Speed: 7, Health: 9}.Rebase(from, to)
	assert.Equal(t, 13, got.Attack)
	assert.Equal(t, 8, got.Speed)
	assert.Equal(t, 9, got.Health)
}

func TestAgingNeedsDeeds(t *testing.T) {
	d := Dragon{
		Traits:       Traits{Primary: Ice, Age: Juvenile, Experience: 2500, Bonding: 60},
		Record:       Record{LocationsExplored: 3},
		DiscoveredAt: hatchedAt,
	}
	now := hatchedAt.Add(100 * time.Hour)

	assert.False(t, CanAgeUp(d, now))
	_, reqs := TimeToNextAge(d, now)
	assert.Equal(t, []string{"10 more victories"}, reqs)

	d.Record.Victories = 10
	assert.True(t, CanAgeUp(d, now))
}

func TestOldestAgeStops(t *testing.T) {
	d := Dragon{Traits: Traits{Age: Ancient}}
	assert.False(t, CanAgeUp(d, hatchedAt))
	left, reqs := TimeToNextAge(d, hatchedAt)
	assert.Zero(t, left)
	assert.Equal(t, []string{"Already at maximum age"}, reqs)

	same, ok := AgeUp(d, hatchedAt)
	assert.False(t, ok)
	assert.Equal(t, d, same)
}

func TestExperienceGain(t *testing.T) {
	adult := Dragon{Stats: Stats{Intelligence: 100}, Traits: Traits{Age: Adult}}
	assert.Equal(t, 100, ExperienceGain(adult, "combat_victory", true))

	young := Dragon{Stats: Stats{Intelligence: 100}, Traits: Traits{Age: Hatchling}}
	assert.Equal(t, 15, ExperienceGain(young, "exploration", false))

	clever := Dragon{Stats: Stats{Intelligence: 300}, Traits: Traits{Age: Adult}}
	assert.Equal(t, 10, ExperienceGain(clever, "sightseeing", true))
}

func TestBondingGain(t *testing.T) {
	feeding, ok := ActivityByID("feeding")
	require.True(t, ok)
	training, _ := ActivityByID("training")
	meditation, _ := ActivityByID("meditation")

	assert.Equal(t, 8, BondingGain(feeding, Loyal, 0, ""))
	assert.Equal(t, 12, BondingGain(training, Aggressive, 50, ""))
	assert.Equal(t, 20, BondingGain(meditation, Wise, 90, ""))
	assert.Equal(t, 1, BondingGain(feeding, Wild, 90, ""), "gain never drops below one")
}

func TestBondingDecay(t *testing.T) {
	assert.Zero(t, BondingDecay(Loyal, 10*time.Hour))
	assert.InDelta(t, 0.72, BondingDecay(Loyal, 48*time.Hour), 1e-9)
	assert.InDelta(t, 2.0, BondingDecay(Wild, 34*time.Hour), 1e-9)
}

func TestBondClampsAndTouches(t *testing.T) {
	d := Dragon{Traits: Traits{Bonding: 95}}
	d = Bond(d, 12, hatchedAt)
	assert.Equal(t, 100.0, d.Traits.Bonding)
	assert.Equal(t, hatchedAt, d.LastActive)
}

func TestCompatibilityAndHatchTime(t *testing.T) {
	a := Dragon{ID: "a", Traits: Traits{Primary: Fire, Bonding: 50}}
	b := Dragon{ID: "b", Traits: Traits{Primary: Fire, Bonding: 30}}
	assert.Equal(t, 80.0, Compatibility(a, b))
	assert.Equal(t, 16*time.Hour, HatchTime(80))

	c := Dragon{ID: "c", Traits: Traits{Primary: Ice, Bonding: 100}}
	d := Dragon{ID: "d", Traits: Traits{Primary: Fire, Bonding: 0}}
	assert.Equal(t, 0.0, Compatibility(c, d))
	assert.Equal(t, 24*time.Hour, HatchTime(0))
}

func TestBreedInheritance(t *testing.T) {
	a := Dragon{ID: "a", Traits: Traits{Primary: Fire, Personality: Noble, Rarity: Common}}
	b := Dragon{ID: "b", Traits: Traits{Primary: Ice, Personality: Wild, Rarity: Rare}}

	pair, err := Breed(random.NewFixed(0.1, 0.9, 0.99), a, b)
	require.NoError(t, err)
	assert.Equal(t, Fire, pair.Element)
	assert.Equal(t, Ice, pair.Secondary)
	assert.Equal(t, Wild, pair.Personality)
	assert.Equal(t, Common, pair.Rarity)
	assert.Equal(t, "fire", pair.Bloodline)

	egg := Hatch(pair, "egg", "Frostflame", hatchedAt)
	assert.Equal(t, Hatchling, egg.Traits.Age)
	assert.Equal(t, Ice, egg.Traits.Secondary)
	assert.Equal(t, "striped", egg.Appearance.Pattern)

	_, err = Breed(random.NewFixed(0), a, a)
	assert.ErrorIs(t, err, ErrSameParent)
}

func TestResolveCombat(t *testing.T) {
	team := []Dragon{fighter("t", Fire, 100)}
	enemies := []Dragon{fighter("e", Ice, 100)}

	won := ResolveCombat(random.NewFixed(0.5), team, enemies, nil)
	assert.InDelta(t, 0.6, won.WinChance, 1e-9)
	assert.True(t, won.Victory)
	assert.False(t, won.Flawless)
	assert.True(t, won.Elemental)
	assert.Equal(t, []string{"combat_experience", "battle_trophy"}, won.Rewards)

	lost := ResolveCombat(random.NewFixed(0.7), team, enemies, nil)
	assert.False(t, lost.Victory)
	assert.False(t, lost.Elemental)
	assert.Empty(t, lost.Rewards)

	boosted := ResolveCombat(random.NewFixed(0.7), team, enemies, func(Element) float64 { return 2 })
	assert.InDelta(t, 0.75, boosted.WinChance, 1e-9)
	assert.True(t, boosted.Victory)
	assert.True(t, boosted.Flawless)
}

func TestResolveCombatWithoutTeamLoses(t *testing.T) {
	res := ResolveCombat(random.NewFixed(0), nil, []Dragon{fighter("e", Ice, 10)}, nil)
	assert.False(t, res.Victory)
}

func TestAbilities(t *testing.T) {
	assert.Len(t, Abilities(), 24)

	fire := AbilitiesFor(Fire, 5)
	assert.Equal(t, []string{"flame_breath", "fire_immunity"}, abilityIDs(fire))

	breath, ok := AbilityByID("flame_breath")
	require.True(t, ok)
	assert.Equal(t, 8*time.Second, AbilityCooldown(breath, 100, 0))
	assert.Equal(t, 2800*time.Millisecond, AbilityCooldown(breath, 400, 50))
	assert.Equal(t, 120, AbilityDamage(breath, 100, 100, 0))
}

func TestParseAbilitiesRejectsDuplicates(t *testing.T) {
	_, err := parseAbilities([]byte("abilities:\n  - {id: a, element: fire}\n  - {id: a, element: fire}\n"))
	assert.Error(t, err)

	_, err = parseAbilities([]byte("abilities:\n  - {id: a, element: water}\n"))
	assert.Error(t, err)
}

func TestLookupTables(t *testing.T) {
	assert.Len(t, AbilitiesOfType(Ultimate), 8)
	assert.Contains(t, AdvantageOf(Fire).StrongAgainst, Ice)
	assert.Equal(t, []Element{Fire}, AdvantageOf(Fire).ImmuneTo)
	assert.Contains(t, AgeDescription(Ancient), "legendary")
	assert.Equal(t, 500.0, float64(RequirementFor(Juvenile).Experience))
	assert.Equal(t, 12*time.Hour, RequirementFor(Juvenile).MinimumAge)
}

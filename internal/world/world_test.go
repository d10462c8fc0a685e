package world

import (
	"strings"
	"testing"
	"time"

	"dragons-den/internal/dragon"
	"dragons-den/internal/random"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultConfig("emberfall")
	cfg.Width, cfg.Height = 300, 300

	g := NewGenerator(cfg)
	first := g.Generate()
	second := g.Generate()
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, NewGenerator(cfg).Generate())
}

func TestGeneratedRuinsAreWellFormed(t *testing.T) {
	reg := Generate(DefaultConfig("emberfall"))
	require.Positive(t, reg.RuinCount())

	for _, loc := range reg.Locations() {
		assert.GreaterOrEqual(t, loc.RequiredLevel, 1)
		for _, ruin := range loc.Encounters.Ruins {
			assert.True(t, strings.HasPrefix(ruin.ID, "ruin_"))
			assert.Equal(t, loc.Difficulty, ruin.Difficulty)
			require.Len(t, ruin.Floors, floorCount[ruin.Difficulty])

			for i, f := range ruin.Floors {
				assert.Equal(t, i+1, f.Level)
				assert.NotEmpty(t, f.Challenges)
				assert.LessOrEqual(t, len(f.Challenges), 3)
				for _, c := range f.Challenges {
					assert.GreaterOrEqual(t, c.Difficulty, 1)
					assert.LessOrEqual(t, c.Difficulty, 10)
				}
				if i < len(ruin.Floors)-1 {
					assert.Nil(t, f.Guardian)
				}
			}

			boss := ruin.Floors[len(ruin.Floors)-1].Guardian
			require.NotNil(t, boss)
			assert.Equal(t, "boss", boss.Type)
			assert.Equal(t, 8, boss.Difficulty)
			if ruin.Difficulty == Legendary {
				assert.Contains(t, boss.Rewards, string(loc.Biome)+"_legendary_artifact")
			}
		}
	}
}

func TestStartingAreaIsGuaranteed(t *testing.T) {
	cfg := DefaultConfig("empty")
	cfg.LocationDensity = 0

	locs := NewGenerator(cfg).Generate()
	require.Len(t, locs, 3)
	assert.Equal(t, "starter_0", locs[0].ID)
	assert.Equal(t, "Peaceful Valley 1", locs[0].Name)
	assert.Equal(t, Coordinates{X: 550, Y: 500}, locs[0].Coordinates)
	for _, l := range locs {
		assert.True(t, l.Discovered)
		assert.True(t, l.FullyExplored())
		assert.Equal(t, Peaceful, l.Difficulty)
	}
}

func TestZeroWeightBiomesAreSkipped(t *testing.T) {
	cfg := DefaultConfig("forest-only")
	cfg.Width, cfg.Height = 200, 200
	cfg.LocationDensity = 1
	cfg.BiomeDistribution = map[Biome]float64{}
	for _, b := range Biomes {
		cfg.BiomeDistribution[b] = 0
	}
	cfg.BiomeDistribution[Forest] = 1

	for _, l := range NewGenerator(cfg).Generate() {
		assert.Equal(t, Forest, l.Biome)
	}
}

func TestDifficultyBands(t *testing.T) {
	p := DefaultConfig("").Difficulty
	cases := map[float64]Difficulty{
		0:   Peaceful,
		250: Easy,
		350: Normal,
		500: Hard,
		800: Extreme,
		950: Legendary,
	}
	for d, want := range cases {
		assert.Equal(t, want, difficultyFor(d, p), "distance %v", d)
	}

	g := NewGenerator(DefaultConfig(""))
	assert.Equal(t, Peaceful, g.DifficultyAt(Coordinates{X: 500, Y: 500}))
}

func TestDetermineBiome(t *testing.T) {
	assert.Equal(t, SkyRealm, determineBiome(0.9, 0.2, 0))
	assert.Equal(t, Mountain, determineBiome(0.9, 0.75, 0))
	assert.Equal(t, Ocean, determineBiome(0.1, 0.9, 0.5))
	assert.Equal(t, ShadowRealm, determineBiome(0.5, 0.9, 0.5))
	assert.Equal(t, Volcanic, determineBiome(0.5, 0.9, 0.1))
	assert.Equal(t, Desert, determineBiome(0.5, 0.9, -0.1))
	assert.Equal(t, Frozen, determineBiome(0.7, 0.1, 0))
	assert.Equal(t, Forest, determineBiome(0.5, 0.1, 0.5))
	assert.Equal(t, Swamp, determineBiome(0.35, 0.1, -0.5))
}

func TestRegistryFindsRuins(t *testing.T) {
	loc := Location{
		ID: "loc_5_5",
		Encounters: Encounters{Ruins: []Ruin{
			{ID: "ruin_5_5", Name: "Ancient Temple"},
		}},
	}
	reg := NewRegistry([]Location{loc})

	ruin, at, ok := reg.Ruin("ruin_5_5")
	require.True(t, ok)
	assert.Equal(t, "Ancient Temple", ruin.Name)
	assert.Equal(t, "loc_5_5", at.ID)

	_, _, ok = reg.Ruin("ruin_0_0")
	assert.False(t, ok)
	assert.Equal(t, []string{"ruin_5_5"}, reg.RuinIDs())

	_, ok = reg.Location("loc_5_5")
	assert.True(t, ok)
}

func TestAdvanceNeverDecreases(t *testing.T) {
	var l Location
	l.Advance(30)
	l.Advance(-10)
	assert.Equal(t, 30.0, l.ExplorationProgress)
	l.Advance(90)
	assert.Equal(t, 100.0, l.ExplorationProgress)
	assert.True(t, l.FullyExplored())
}

var weatherNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func TestWeatherChangesWhenDurationRunsOut(t *testing.T) {
	w := NewWeather(random.NewFixed(0.5, 0.0, 0.5), func() time.Time { return weatherNow })
	assert.Equal(t, Clear, w.Current().Type)

	w.Update(60*time.Minute, Forest)
	assert.Equal(t, Clear, w.Current().Type)
	assert.Equal(t, 60*time.Minute, w.Current().Remaining)
	assert.Empty(t, w.History())

	w.Update(60*time.Minute, Forest)
	cur := w.Current()
	assert.Equal(t, Rain, cur.Type, "clear must not repeat")
	assert.Equal(t, 90*time.Minute, cur.Remaining)
	require.Len(t, w.History(), 1)
	assert.Equal(t, weatherNow, w.History()[0].At)
}

func TestWeatherDurationStaysWithinJitter(t *testing.T) {
	base := float64(baseDurations[Rain])
	for _, draw := range []float64{0.0, 0.5, 0.999} {
		w := NewWeather(random.NewFixed(draw), nil)
		w.Force(Rain, 0)
		got := float64(w.Current().Remaining)
		// one nanosecond of slack for float truncation
		assert.GreaterOrEqual(t, got, 0.7*base-1, "draw %v", draw)
		assert.LessOrEqual(t, got, 1.3*base+1, "draw %v", draw)
	}

	w := NewWeather(random.NewFixed(0), nil)
	w.Force(Rain, 0)
	assert.InDelta(t, 0.7*base, float64(w.Current().Remaining), 1)
}

func TestPersistentWeatherMayRepeat(t *testing.T) {
	w := NewWeather(random.NewFixed(0.9, 0.99, 0.5), nil)
	w.Force(Storm, time.Minute)

	w.Update(time.Minute, ShadowRealm)
	assert.Equal(t, Storm, w.Current().Type)
}

func TestWeatherHistoryIsBounded(t *testing.T) {
	w := NewWeather(random.System(), nil)
	for i := 0; i < 15; i++ {
		w.Update(24*time.Hour, Ocean)
	}
	assert.Len(t, w.History(), 10)
}

func TestForecastFavoursCurrentWeather(t *testing.T) {
	w := NewWeather(random.NewFixed(0), nil)
	f := w.Forecast(Forest)
	require.Len(t, f, 5)
	assert.Equal(t, Clear, f[0].Type)
	assert.InDelta(t, 0.3, f[0].Probability, 1e-9)
	assert.InDelta(t, 0.15, f[4].Probability, 1e-9)
}

func TestWeatherSuitability(t *testing.T) {
	w := NewWeather(random.NewFixed(0), nil)
	assert.Equal(t, 1.2, w.ElementalModifier(dragon.Light))
	assert.Equal(t, 1.0, w.ElementalModifier(dragon.Fire))

	w.Force(Blizzard, 10*time.Minute)
	assert.False(t, w.SuitableFor("exploration"))
	assert.False(t, w.SuitableFor("combat"))
	assert.True(t, w.SuitableFor("flight"))

	w.Force(Storm, 0)
	assert.False(t, w.SuitableFor("flight"))
	assert.True(t, w.SuitableFor("anything"))
	assert.NotEmpty(t, w.Description())

	assert.Equal(t, []WeatherType{Clear}, OptimalFor("knitting"))
	assert.Equal(t, []WeatherType{Blizzard, Sandstorm}, WorstFor("exploration"))
}

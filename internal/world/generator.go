package world

import (
	"fmt"
	"math"
	"strings"

	"dragons-den/internal/dragon"
	"dragons-den/internal/random"
)

const (
	gridStep          = 5
	discoveryRadius   = 50
	starterRadius     = 50
	startingAreaSize  = 100
	minStartingPlaces = 3
	guardianDiff      = 8
	maxChallengeDiff  = 10
)

type DifficultyProgression struct {
	EasyRadius   float64
	NormalRadius float64
	HardRadius   float64
}

type Config struct {
	Width  int
	Height int
	Seed   string
	// BiomeDistribution optionally weights biomes. A biome listed with a
	// weight of zero is never populated; an empty map allows all.
	BiomeDistribution map[Biome]float64
	Difficulty        DifficultyProgression
	LocationDensity   float64
	RuinProbability   float64
	TreasureDensity   float64
}

func DefaultConfig(seed string) Config {
	return Config{
		Width:  1000,
		Height: 1000,
		Seed:   seed,
		Difficulty: DifficultyProgression{
			EasyRadius:   200,
			NormalRadius: 400,
			HardRadius:   600,
		},
		LocationDensity: 0.3,
		RuinProbability: 0.2,
		TreasureDensity: 0.5,
	}
}

// Generator builds a world deterministically from its Config.
type Generator struct {
	cfg    Config
	rng    *random.Seeded
	center Coordinates
	maxDst float64
}

func NewGenerator(cfg Config) *Generator {
	center := Coordinates{X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2}
	return &Generator{
		cfg:    cfg,
		center: center,
		maxDst: math.Hypot(center.X, center.Y),
	}
}

// Generate returns every location in grid order. Calling it again with the
// same Config yields the same world.
func (g *Generator) Generate() []Location {
	g.rng = random.NewSeeded(g.cfg.Seed)

	var locations []Location
	for x := 0; x < g.cfg.Width; x += gridStep {
		for y := 0; y < g.cfg.Height; y += gridStep {
			if g.rng.Float64() >= g.cfg.LocationDensity {
				continue
			}
			pos := Coordinates{X: float64(x), Y: float64(y)}
			height := g.heightAt(pos)
			biome := g.biomeAt(pos, height)
			if !g.biomeAllowed(biome) {
				continue
			}
			locations = append(locations, g.location(x, y, biome))
		}
	}

	return g.ensureStartingArea(locations)
}

func (g *Generator) biomeAllowed(b Biome) bool {
	if len(g.cfg.BiomeDistribution) == 0 {
		return true
	}
	w, listed := g.cfg.BiomeDistribution[b]
	return !listed || w > 0
}

func noise(x, y float64) float64 {
	n := math.Sin(x) * math.Cos(y) * 12345.6789
	return (n-math.Floor(n))*2 - 1
}

// heightAt sums six octaves of noise into [0,1].
func (g *Generator) heightAt(p Coordinates) float64 {
	h := 0.0
	amplitude := 1.0
	frequency := 0.01
	for i := 0; i < 6; i++ {
		h += amplitude * noise(p.X*frequency, p.Y*frequency)
		amplitude *= 0.5
		frequency *= 2
	}
	return math.Max(0, math.Min(1, (h+1)/2))
}

func (g *Generator) biomeAt(p Coordinates, height float64) Biome {
	dist := 0.0
	if g.maxDst > 0 {
		dist = p.DistanceTo(g.center) / g.maxDst
	}
	return determineBiome(height, dist, noise(p.X*0.005, p.Y*0.005))
}

func determineBiome(height, dist, n float64) Biome {
	switch {
	case height > 0.8:
		if dist > 0.7 {
			return Mountain
		}
		return SkyRealm
	case height < 0.3:
		return Ocean
	case dist > 0.8:
		switch {
		case n > 0.3:
			return ShadowRealm
		case n > 0:
			return Volcanic
		default:
			return Desert
		}
	case height > 0.6:
		if n > 0.2 {
			return Mountain
		}
		return Frozen
	case height > 0.4:
		switch {
		case n > 0.4:
			return Forest
		case n > 0:
			return Desert
		default:
			return Swamp
		}
	case n > 0:
		return Forest
	default:
		return Swamp
	}
}

// DifficultyAt bands the distance from the world center into tiers.
func (g *Generator) DifficultyAt(p Coordinates) Difficulty {
	return difficultyFor(p.DistanceTo(g.center), g.cfg.Difficulty)
}

func difficultyFor(d float64, p DifficultyProgression) Difficulty {
	switch {
	case d < p.EasyRadius:
		return Peaceful
	case d < p.EasyRadius*1.5:
		return Easy
	case d < p.NormalRadius:
		return Normal
	case d < p.HardRadius:
		return Hard
	case d < p.HardRadius*1.5:
		return Extreme
	default:
		return Legendary
	}
}

func (g *Generator) location(x, y int, biome Biome) Location {
	pos := Coordinates{X: float64(x), Y: float64(y)}
	dist := pos.DistanceTo(g.center)
	difficulty := difficultyFor(dist, g.cfg.Difficulty)
	resources := cloneResources(biomeResources[biome])

	loc := Location{
		ID:            fmt.Sprintf("loc_%d_%d", x, y),
		Name:          g.name(biome, difficulty),
		Biome:         biome,
		Difficulty:    difficulty,
		Discovered:    dist < discoveryRadius,
		Coordinates:   pos,
		RequiredLevel: baseRequiredLevel[difficulty] + int(math.Floor(dist/100)),
		Resources:     resources,
		Environment:   cloneEnvironment(biomeEnvironment[biome]),
	}

	loc.Encounters.WildDragons = g.wildDragons(biome, difficulty)
	loc.Encounters.Ruins = []Ruin{}
	if ruin, ok := g.ruin(x, y, biome, difficulty, resources); ok {
		loc.Encounters.Ruins = append(loc.Encounters.Ruins, ruin)
	}
	return loc
}

func (g *Generator) name(biome Biome, difficulty Difficulty) string {
	prefix := random.Choice(g.rng, biomeNames[biome])
	suffix := random.Choice(g.rng, difficultySuffixes[difficulty])
	return prefix + " " + suffix
}

func (g *Generator) wildDragons(biome Biome, difficulty Difficulty) []string {
	elements := biomeElements[biome]
	n := wildDragonCount[difficulty]
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("%s_dragon_%s_%d", random.Choice(g.rng, elements), difficulty, i))
	}
	return out
}

func (g *Generator) ruin(x, y int, biome Biome, difficulty Difficulty, res Resources) (Ruin, bool) {
	if g.rng.Float64() > g.cfg.RuinProbability {
		return Ruin{}, false
	}

	kind := random.Choice(g.rng, ruinTypes)
	r := Ruin{
		ID:           fmt.Sprintf("ruin_%d_%d", x, y),
		Name:         ruinName(kind, biome),
		Type:         kind,
		RequiredKeys: []string{},
		Difficulty:   difficulty,
	}
	if difficulty == Legendary {
		r.LegendaryReward = string(biome) + "_legendary_artifact"
	}
	r.Floors = g.floors(difficulty, res, r.LegendaryReward)
	return r, true
}

func ruinName(kind RuinType, biome Biome) string {
	adjective, ok := ruinAdjectives[biome]
	if !ok {
		adjective = "Ancient"
	}
	s := string(kind)
	return adjective + " " + strings.ToUpper(s[:1]) + s[1:]
}

func (g *Generator) floors(difficulty Difficulty, res Resources, legendary string) []Floor {
	count := floorCount[difficulty]
	floors := make([]Floor, 0, count)
	for i := 0; i < count; i++ {
		f := Floor{
			Level:  i + 1,
			Layout: random.Choice(g.rng, floorLayouts),
		}
		f.Challenges = g.challenges(difficulty, f.Level)
		f.Treasures = g.floorTreasures(res)
		if i == count-1 {
			rewards := []string{}
			if len(res.Unique) > 0 {
				rewards = append(rewards, random.Choice(g.rng, res.Unique))
			}
			if legendary != "" {
				rewards = append(rewards, legendary)
			}
			f.Guardian = &Guardian{Type: "boss", Difficulty: guardianDiff, Rewards: rewards}
		}
		floors = append(floors, f)
	}
	return floors
}

func (g *Generator) challenges(difficulty Difficulty, level int) []Challenge {
	n := 1 + random.Intn(g.rng, 3)
	out := make([]Challenge, 0, n)
	for i := 0; i < n; i++ {
		kind := random.Choice(g.rng, challengeTypes)
		text := challengeText[kind]
		d := difficulty.Rank() + level
		if d < 1 {
			d = 1
		}
		if d > maxChallengeDiff {
			d = maxChallengeDiff
		}
		out = append(out, Challenge{
			Type:        kind,
			Description: random.Choice(g.rng, text.descriptions),
			Difficulty:  d,
			Reward:      text.reward,
			Penalty:     text.penalty,
		})
	}
	return out
}

func (g *Generator) floorTreasures(res Resources) []string {
	treasures := []string{}
	if len(res.Common) > 0 {
		treasures = append(treasures, random.Choice(g.rng, res.Common))
	}
	if len(res.Rare) > 0 && random.Chance(g.rng, g.cfg.TreasureDensity) {
		treasures = append(treasures, random.Choice(g.rng, res.Rare))
	}
	return treasures
}

func (g *Generator) ensureStartingArea(locations []Location) []Location {
	near := 0
	for _, l := range locations {
		if l.Coordinates.DistanceTo(g.center) < startingAreaSize {
			near++
		}
	}
	if near >= minStartingPlaces {
		return locations
	}

	for i := 0; i < minStartingPlaces; i++ {
		angle := float64(i) * 2 * math.Pi / minStartingPlaces
		locations = append(locations, Location{
			ID:                  fmt.Sprintf("starter_%d", i),
			Name:                fmt.Sprintf("Peaceful Valley %d", i+1),
			Biome:               Forest,
			Difficulty:          Peaceful,
			Discovered:          true,
			ExplorationProgress: 100,
			Coordinates: Coordinates{
				X: g.center.X + math.Cos(angle)*starterRadius,
				Y: g.center.Y + math.Sin(angle)*starterRadius,
			},
			RequiredLevel: 1,
			Resources:     cloneResources(starterResources),
			Encounters:    Encounters{WildDragons: []string{}, Ruins: []Ruin{}},
			Environment: Environment{
				Favored:     []dragon.Element{dragon.Earth, dragon.Air},
				Resistant:   []dragon.Element{},
				DangerLevel: 1,
			},
		})
	}
	return locations
}

func cloneResources(r Resources) Resources {
	return Resources{
		Common: append([]string{}, r.Common...),
		Rare:   append([]string{}, r.Rare...),
		Unique: append([]string{}, r.Unique...),
	}
}

func cloneEnvironment(e Environment) Environment {
	return Environment{
		Favored:     append([]dragon.Element{}, e.Favored...),
		Resistant:   append([]dragon.Element{}, e.Resistant...),
		DangerLevel: e.DangerLevel,
	}
}

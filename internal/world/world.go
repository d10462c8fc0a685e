// Package world generates the explorable map and models its weather.
package world

import (
	"math"

	"dragons-den/internal/dragon"
)

type Biome string

const (
	Volcanic    Biome = "volcanic"
	Frozen      Biome = "frozen"
	Forest      Biome = "forest"
	Desert      Biome = "desert"
	Swamp       Biome = "swamp"
	Mountain    Biome = "mountain"
	Ocean       Biome = "ocean"
	SkyRealm    Biome = "sky_realm"
	ShadowRealm Biome = "shadow_realm"
)

var Biomes = []Biome{Volcanic, Frozen, Forest, Desert, Swamp, Mountain, Ocean, SkyRealm, ShadowRealm}

type Difficulty string

const (
	Peaceful  Difficulty = "peaceful"
	Easy      Difficulty = "easy"
	Normal    Difficulty = "normal"
	Hard      Difficulty = "hard"
	Extreme   Difficulty = "extreme"
	Legendary Difficulty = "legendary"
)

// Difficulties is ordered from safest to deadliest.
var Difficulties = []Difficulty{Peaceful, Easy, Normal, Hard, Extreme, Legendary}

// Rank is the position of d in Difficulties, or -1.
func (d Difficulty) Rank() int {
	for i, v := range Difficulties {
		if v == d {
			return i
		}
	}
	return -1
}

type RuinType string

const (
	Temple    RuinType = "temple"
	Tower     RuinType = "tower"
	Tomb      RuinType = "tomb"
	Library   RuinType = "library"
	Fortress  RuinType = "fortress"
	Sanctuary RuinType = "sanctuary"
)

var ruinTypes = []RuinType{Temple, Tower, Tomb, Library, Fortress, Sanctuary}

type ChallengeType string

const (
	Puzzle  ChallengeType = "puzzle"
	Trap    ChallengeType = "trap"
	Riddle  ChallengeType = "riddle"
	Combat  ChallengeType = "combat"
	Stealth ChallengeType = "stealth"
)

var challengeTypes = []ChallengeType{Puzzle, Trap, Riddle, Combat, Stealth}

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (c Coordinates) DistanceTo(o Coordinates) float64 {
	return math.Hypot(c.X-o.X, c.Y-o.Y)
}

type Resources struct {
	Common []string `json:"common_treasures"`
	Rare   []string `json:"rare_treasures"`
	Unique []string `json:"unique_resources"`
}

type Environment struct {
	Favored     []dragon.Element `json:"favored_elements"`
	Resistant   []dragon.Element `json:"resistant_elements"`
	DangerLevel int              `json:"danger_level"`
}

type Challenge struct {
	Type        ChallengeType `json:"type"`
	Description string        `json:"description"`
	Difficulty  int           `json:"difficulty"`
	Reward      string        `json:"reward"`
	Penalty     string        `json:"penalty,omitempty"`
}

type Guardian struct {
	Type       string   `json:"type"`
	Difficulty int      `json:"difficulty"`
	Rewards    []string `json:"rewards"`
}

type Floor struct {
	Level      int         `json:"level"`
	Layout     string      `json:"layout"`
	Challenges []Challenge `json:"challenges"`
	Treasures  []string    `json:"treasures"`
	Guardian   *Guardian   `json:"guardian,omitempty"`
}

type Ruin struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            RuinType   `json:"type"`
	Explored        bool       `json:"explored"`
	Floors          []Floor    `json:"floors"`
	RequiredKeys    []string   `json:"required_keys"`
	LegendaryReward string     `json:"legendary_reward,omitempty"`
	Difficulty      Difficulty `json:"difficulty"`
}

type Encounters struct {
	WildDragons []string `json:"wild_dragons"`
	Ruins       []Ruin   `json:"ancient_ruins"`
}

type Location struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Biome               Biome       `json:"biome"`
	Difficulty          Difficulty  `json:"difficulty"`
	Discovered          bool        `json:"discovered"`
	ExplorationProgress float64     `json:"exploration_progress"`
	Coordinates         Coordinates `json:"coordinates"`
	RequiredLevel       int         `json:"required_level"`
	Resources           Resources   `json:"resources"`
	Encounters          Encounters  `json:"encounters"`
	Environment         Environment `json:"environment_effects"`
}

// Advance raises exploration progress by amount, clamped to [0,100]. Progress
// never decreases.
func (l *Location) Advance(amount float64) {
	if amount <= 0 {
		return
	}
	l.ExplorationProgress = math.Min(100, l.ExplorationProgress+amount)
}

func (l *Location) FullyExplored() bool {
	return l.ExplorationProgress >= 100
}

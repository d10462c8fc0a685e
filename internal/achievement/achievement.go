// Package achievement evaluates declarative achievement definitions against
// a snapshot of player statistics.
package achievement

import (
	"math"
	"sort"
	"time"
)

type Category string

const (
	CategoryExploration   Category = "exploration"
	CategoryCombat        Category = "combat"
	CategoryCollection    Category = "collection"
	CategoryDragonMastery Category = "dragon_mastery"
	CategoryWealth        Category = "wealth"
	CategorySpecial       Category = "special"
	CategoryLegendary     Category = "legendary"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

// Requirement types understood by the evaluator. Stats may carry any other
// key; unknown types simply read as zero.
const (
	ExplorationsCompleted = "explorations_completed"
	LocationsDiscovered   = "locations_discovered"
	BiomesMastered        = "biomes_mastered"
	DragonsHatched        = "dragons_hatched"
	MaxBondingAchieved    = "max_bonding_achieved"
	AncientDragons        = "ancient_dragons"
	CombatsWon            = "combats_won"
	ElementalVictories    = "elemental_victories"
	FlawlessVictories     = "flawless_victories"
	TreasuresCollected    = "treasures_collected"
	LegendaryTreasures    = "legendary_treasures"
	GoldAccumulated       = "gold_accumulated"
	GoblinsHired          = "goblins_hired"
	PrestigeLevel         = "prestige_level"
	FastExploration       = "fast_exploration"
	WeatherExplorations   = "weather_explorations"
	SpecialExploration    = "special_exploration"
	PlaytimeHours         = "playtime_hours"
	// AchievementsCompleted is derived by the evaluator: the percentage of
	// the other achievements already completed.
	AchievementsCompleted = "achievements_completed"
)

type Requirement struct {
	Type       string         `yaml:"type" json:"type"`
	Target     float64        `yaml:"target" json:"target"`
	Conditions map[string]any `yaml:"conditions,omitempty" json:"conditions,omitempty"`
}

type Reward struct {
	Gold           float64  `yaml:"gold,omitempty" json:"gold,omitempty"`
	Experience     float64  `yaml:"experience,omitempty" json:"experience,omitempty"`
	Items          []string `yaml:"items,omitempty" json:"items,omitempty"`
	DragonUnlock   string   `yaml:"dragon_unlock,omitempty" json:"dragon_unlock,omitempty"`
	AbilityUnlock  string   `yaml:"ability_unlock,omitempty" json:"ability_unlock,omitempty"`
	LocationUnlock string   `yaml:"location_unlock,omitempty" json:"location_unlock,omitempty"`
	Cosmetics      []string `yaml:"cosmetics,omitempty" json:"cosmetics,omitempty"`
	Title          string   `yaml:"title,omitempty" json:"title,omitempty"`
}

type Definition struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Description   string        `yaml:"description" json:"description"`
	Category      Category      `yaml:"category" json:"category"`
	Rarity        Rarity        `yaml:"rarity" json:"rarity"`
	Icon          string        `yaml:"icon" json:"icon"`
	Requirements  []Requirement `yaml:"requirements" json:"requirements"`
	Rewards       Reward        `yaml:"rewards" json:"rewards"`
	Prerequisites []string      `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Secret        bool          `yaml:"secret" json:"secret"`
	OneTimeOnly   bool          `yaml:"one_time_only" json:"one_time_only"`
	// Locked definitions without prerequisites can only be completed
	// through Trigger.
	Locked bool `yaml:"locked" json:"locked"`
}

type Achievement struct {
	Definition
	Unlocked    bool       `json:"is_unlocked"`
	Completed   bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Progress    int        `json:"progress"`
}

// Stats maps requirement types to current values.
type Stats map[string]float64

type Summary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// Evaluator tracks unlock and completion for one player. It is not safe for
// concurrent use.
type Evaluator struct {
	order []string
	items map[string]*Achievement
	now   func() time.Time
}

func NewEvaluator(defs []Definition, now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	e := &Evaluator{
		order: make([]string, 0, len(defs)),
		items: make(map[string]*Achievement, len(defs)),
		now:   now,
	}
	for _, def := range defs {
		if _, dup := e.items[def.ID]; dup {
			continue
		}
		e.order = append(e.order, def.ID)
		e.items[def.ID] = &Achievement{
			Definition: def,
			Unlocked:   !def.Locked && len(def.Prerequisites) == 0,
		}
	}
	return e
}

// Check refreshes progress and returns achievements completed by this call,
// in definition order. Completion is permanent: a later snapshot with lower
// values never reverts it.
func (e *Evaluator) Check(stats Stats) []Achievement {
	var completed []Achievement
	for _, id := range e.order {
		a := e.items[id]
		if a.Completed {
			continue
		}
		if !a.Unlocked && e.prerequisitesMet(a) {
			a.Unlocked = true
		}
		if !a.Unlocked {
			continue
		}

		a.Progress = e.progress(a, stats)
		if a.Progress >= 100 {
			e.complete(a, e.now())
			completed = append(completed, e.copyOf(a))
		}
	}
	return completed
}

func (e *Evaluator) prerequisitesMet(a *Achievement) bool {
	if len(a.Prerequisites) == 0 {
		return false
	}
	for _, id := range a.Prerequisites {
		p, ok := e.items[id]
		if !ok || !p.Completed {
			return false
		}
	}
	return true
}

func (e *Evaluator) progress(a *Achievement, stats Stats) int {
	if len(a.Requirements) == 0 {
		return 0
	}
	total := 0.0
	for _, req := range a.Requirements {
		current := stats[req.Type]
		if req.Type == AchievementsCompleted {
			current = e.othersCompletedPercent(a.ID)
		}
		if req.Target <= 0 {
			total += 100
			continue
		}
		total += math.Min(100, current/req.Target*100)
	}
	return int(math.Floor(total / float64(len(a.Requirements))))
}

func (e *Evaluator) othersCompletedPercent(self string) float64 {
	others, done := 0, 0
	for _, id := range e.order {
		if id == self {
			continue
		}
		others++
		if e.items[id].Completed {
			done++
		}
	}
	if others == 0 {
		return 100
	}
	return math.Floor(float64(done) / float64(others) * 100)
}

func (e *Evaluator) complete(a *Achievement, at time.Time) {
	a.Unlocked = true
	a.Completed = true
	a.Progress = 100
	a.CompletedAt = &at
}

// Restore marks previously persisted completions without reporting them.
// Unknown ids are ignored.
func (e *Evaluator) Restore(ids []string, at time.Time) {
	for _, id := range ids {
		if a, ok := e.items[id]; ok && !a.Completed {
			e.complete(a, at)
		}
	}
}

// Trigger completes a special achievement directly. It reports false for
// unknown or already completed ids.
func (e *Evaluator) Trigger(id string) bool {
	a, ok := e.items[id]
	if !ok || a.Completed {
		return false
	}
	e.complete(a, e.now())
	return true
}

func (e *Evaluator) Get(id string) (Achievement, bool) {
	a, ok := e.items[id]
	if !ok {
		return Achievement{}, false
	}
	return e.copyOf(a), true
}

func (e *Evaluator) All() []Achievement {
	return e.filter(func(*Achievement) bool { return true })
}

func (e *Evaluator) ByCategory(c Category) []Achievement {
	return e.filter(func(a *Achievement) bool { return a.Category == c })
}

func (e *Evaluator) Unlocked() []Achievement {
	return e.filter(func(a *Achievement) bool { return a.Unlocked })
}

func (e *Evaluator) Completed() []Achievement {
	return e.filter(func(a *Achievement) bool { return a.Completed })
}

func (e *Evaluator) Secret() []Achievement {
	return e.filter(func(a *Achievement) bool { return a.Secret })
}

// CompletedIDs returns completed ids sorted for stable persistence.
func (e *Evaluator) CompletedIDs() []string {
	var ids []string
	for _, id := range e.order {
		if e.items[id].Completed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (e *Evaluator) CompletionStats() Summary {
	return summarize(e.All())
}

func (e *Evaluator) CategoryStats(c Category) Summary {
	return summarize(e.ByCategory(c))
}

func summarize(list []Achievement) Summary {
	s := Summary{Total: len(list)}
	for _, a := range list {
		if a.Completed {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percentage = s.Completed * 100 / s.Total
	}
	return s
}

// TotalRewards sums the rewards of every completed achievement.
func (e *Evaluator) TotalRewards() Reward {
	total := Reward{Items: []string{}, Cosmetics: []string{}}
	for _, a := range e.Completed() {
		total.Gold += a.Rewards.Gold
		total.Experience += a.Rewards.Experience
		total.Items = append(total.Items, a.Rewards.Items...)
		total.Cosmetics = append(total.Cosmetics, a.Rewards.Cosmetics...)
	}
	return total
}

func (e *Evaluator) filter(keep func(*Achievement) bool) []Achievement {
	out := make([]Achievement, 0, len(e.order))
	for _, id := range e.order {
		if a := e.items[id]; keep(a) {
			out = append(out, e.copyOf(a))
		}
	}
	return out
}

func (e *Evaluator) copyOf(a *Achievement) Achievement {
	c := *a
	if a.CompletedAt != nil {
		at := *a.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

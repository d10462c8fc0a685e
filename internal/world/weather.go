package world

import (
	"sort"
	"time"

	"dragons-den/internal/dragon"
	"dragons-den/internal/random"
)

type WeatherType string

const (
	Clear     WeatherType = "clear"
	Rain      WeatherType = "rain"
	Storm     WeatherType = "storm"
	Fog       WeatherType = "fog"
	Blizzard  WeatherType = "blizzard"
	Sandstorm WeatherType = "sandstorm"
	Eclipse   WeatherType = "eclipse"
	Aurora    WeatherType = "aurora"
)

const (
	historySize     = 10
	commonOnlyOdds  = 0.7
	durationJitter  = 0.3
	initialDuration = 120 * time.Minute
)

type CombatModifiers struct {
	Accuracy float64 `json:"accuracy"`
	Damage   float64 `json:"damage"`
	Speed    float64 `json:"speed"`
}

type WeatherEffect struct {
	ExplorationSpeed float64                    `json:"exploration_speed"`
	TreasureChance   float64                    `json:"treasure_chance"`
	MoodEffect       float64                    `json:"dragon_mood_effect"`
	ElementalBonuses map[dragon.Element]float64 `json:"elemental_bonuses"`
	Combat           CombatModifiers            `json:"combat_modifiers"`
	SpecialEffects   []string                   `json:"special_effects"`
}

func (e WeatherEffect) Has(special string) bool {
	for _, s := range e.SpecialEffects {
		if s == special {
			return true
		}
	}
	return false
}

var weatherEffects = map[WeatherType]WeatherEffect{
	Clear: {
		ExplorationSpeed: 1.0, TreasureChance: 1.0, MoodEffect: 0.1,
		ElementalBonuses: map[dragon.Element]float64{dragon.Light: 1.2, dragon.Air: 1.1},
		Combat:           CombatModifiers{Accuracy: 1.0, Damage: 1.0, Speed: 1.0},
		SpecialEffects:   []string{"increased_visibility", "good_flying_conditions"},
	},
	Rain: {
		ExplorationSpeed: 0.8, TreasureChance: 0.9, MoodEffect: -0.05,
		ElementalBonuses: map[dragon.Element]float64{dragon.Ice: 1.3, dragon.Lightning: 1.4},
		Combat:           CombatModifiers{Accuracy: 0.9, Damage: 1.0, Speed: 0.95},
		SpecialEffects:   []string{"fire_resistance", "muddy_terrain", "enhanced_plant_growth"},
	},
	Storm: {
		ExplorationSpeed: 0.5, TreasureChance: 0.7, MoodEffect: -0.2,
		ElementalBonuses: map[dragon.Element]float64{dragon.Lightning: 2.0, dragon.Air: 1.5},
		Combat:           CombatModifiers{Accuracy: 0.7, Damage: 1.1, Speed: 0.8},
		SpecialEffects:   []string{"lightning_strikes", "strong_winds", "flight_hazard", "electrical_interference"},
	},
	Fog: {
		ExplorationSpeed: 0.6, TreasureChance: 1.2, MoodEffect: -0.1,
		ElementalBonuses: map[dragon.Element]float64{dragon.Shadow: 1.6, dragon.Ice: 1.2},
		Combat:           CombatModifiers{Accuracy: 0.6, Damage: 0.9, Speed: 0.9},
		SpecialEffects:   []string{"reduced_visibility", "stealth_bonus", "mystery_encounters"},
	},
	Blizzard: {
		ExplorationSpeed: 0.3, TreasureChance: 0.5, MoodEffect: -0.3,
		ElementalBonuses: map[dragon.Element]float64{dragon.Ice: 2.5, dragon.Air: 1.3},
		Combat:           CombatModifiers{Accuracy: 0.5, Damage: 0.8, Speed: 0.6},
		SpecialEffects:   []string{"freezing_damage", "extreme_cold", "ice_terrain", "visibility_zero"},
	},
	Sandstorm: {
		ExplorationSpeed: 0.4, TreasureChance: 0.6, MoodEffect: -0.25,
		ElementalBonuses: map[dragon.Element]float64{dragon.Earth: 1.8, dragon.Air: 1.4},
		Combat:           CombatModifiers{Accuracy: 0.6, Damage: 0.9, Speed: 0.7},
		SpecialEffects:   []string{"sand_damage", "equipment_wear", "buried_treasures", "navigation_difficulty"},
	},
	Eclipse: {
		ExplorationSpeed: 0.9, TreasureChance: 1.5, MoodEffect: 0.2,
		ElementalBonuses: map[dragon.Element]float64{dragon.Shadow: 2.0, dragon.Light: 0.5},
		Combat:           CombatModifiers{Accuracy: 0.8, Damage: 1.3, Speed: 1.1},
		SpecialEffects:   []string{"magical_surge", "rare_events", "shadow_creatures", "mystical_phenomena"},
	},
	Aurora: {
		ExplorationSpeed: 1.1, TreasureChance: 1.3, MoodEffect: 0.3,
		ElementalBonuses: map[dragon.Element]float64{dragon.Lightning: 1.7, dragon.Ice: 1.4, dragon.Light: 1.5},
		Combat:           CombatModifiers{Accuracy: 1.0, Damage: 1.2, Speed: 1.1},
		SpecialEffects:   []string{"magical_enhancement", "inspiration_boost", "navigation_aid", "beauty_bonus"},
	},
}

type weatherPattern struct {
	common     []WeatherType
	rare       []WeatherType
	impossible []WeatherType
}

var defaultPattern = weatherPattern{
	common: []WeatherType{Clear, Rain, Fog},
	rare:   []WeatherType{Storm, Eclipse},
}

var biomePatterns = map[Biome]weatherPattern{
	Volcanic:    {common: []WeatherType{Clear, Fog}, rare: []WeatherType{Rain, Eclipse}, impossible: []WeatherType{Blizzard, Aurora}},
	Frozen:      {common: []WeatherType{Clear, Blizzard, Fog}, rare: []WeatherType{Aurora, Eclipse}, impossible: []WeatherType{Sandstorm}},
	Forest:      {common: []WeatherType{Clear, Rain, Fog}, rare: []WeatherType{Storm, Eclipse}, impossible: []WeatherType{Blizzard, Sandstorm}},
	Desert:      {common: []WeatherType{Clear, Sandstorm}, rare: []WeatherType{Rain, Eclipse}, impossible: []WeatherType{Blizzard, Aurora}},
	Swamp:       {common: []WeatherType{Fog, Rain}, rare: []WeatherType{Storm, Eclipse}, impossible: []WeatherType{Blizzard, Sandstorm, Aurora}},
	Mountain:    {common: []WeatherType{Clear, Fog, Storm}, rare: []WeatherType{Blizzard, Aurora}, impossible: []WeatherType{Sandstorm}},
	Ocean:       {common: []WeatherType{Clear, Rain, Storm, Fog}, rare: []WeatherType{Aurora, Eclipse}, impossible: []WeatherType{Sandstorm, Blizzard}},
	SkyRealm:    {common: []WeatherType{Clear, Storm, Aurora}, rare: []WeatherType{Fog, Eclipse}, impossible: []WeatherType{Sandstorm}},
	ShadowRealm: {common: []WeatherType{Fog, Eclipse}, rare: []WeatherType{Storm}, impossible: []WeatherType{Clear, Aurora, Blizzard, Sandstorm}},
}

func patternFor(b Biome) weatherPattern {
	if p, ok := biomePatterns[b]; ok {
		return p
	}
	return defaultPattern
}

// persistent lists weather that may follow itself.
var persistent = map[WeatherType]bool{Storm: true, Blizzard: true, Sandstorm: true}

var baseDurations = map[WeatherType]time.Duration{
	Clear:     180 * time.Minute,
	Rain:      90 * time.Minute,
	Storm:     45 * time.Minute,
	Fog:       120 * time.Minute,
	Blizzard:  30 * time.Minute,
	Sandstorm: 60 * time.Minute,
	Eclipse:   15 * time.Minute,
	Aurora:    90 * time.Minute,
}

var weatherDescriptions = map[WeatherType]string{
	Clear:     "The sky is crystal clear with perfect visibility. Dragons soar freely through the pristine air.",
	Rain:      "Gentle rain falls steadily, creating a soothing rhythm. The air smells fresh and clean.",
	Storm:     "Dark clouds rage overhead with fierce winds and crackling lightning. Flight is treacherous.",
	Fog:       "A thick, mysterious fog blankets the land, reducing visibility but hiding secrets.",
	Blizzard:  "A howling blizzard brings bitter cold and blinding snow. Only the hardiest dare venture out.",
	Sandstorm: "Fierce winds whip sand into a stinging vortex, obscuring all landmarks.",
	Eclipse:   "The sun is blocked by shadow, creating an otherworldly twilight filled with mystical energy.",
	Aurora:    "Beautiful lights dance across the sky in ribbons of green, blue, and purple.",
}

var optimalWeather = map[string][]WeatherType{
	"exploration":      {Clear, Aurora},
	"combat":           {Clear, Aurora},
	"treasure_hunting": {Fog, Eclipse, Aurora},
	"flight":           {Clear, Aurora},
	"stealth":          {Fog, Storm, Eclipse},
	"magic":            {Eclipse, Aurora, Storm},
	"rest":             {Clear, Rain},
}

var worstWeather = map[string][]WeatherType{
	"exploration": {Blizzard, Sandstorm},
	"combat":      {Blizzard, Fog},
	"flight":      {Storm, Blizzard, Sandstorm},
	"precision":   {Storm, Fog, Blizzard},
	"visibility":  {Fog, Blizzard, Sandstorm},
}

// Effect returns the static effect table entry for t.
func Effect(t WeatherType) WeatherEffect {
	return weatherEffects[t]
}

// OptimalFor lists the best weather for an activity, defaulting to clear.
func OptimalFor(activity string) []WeatherType {
	if w, ok := optimalWeather[activity]; ok {
		return w
	}
	return []WeatherType{Clear}
}

func WorstFor(activity string) []WeatherType {
	return worstWeather[activity]
}

type Conditions struct {
	Type      WeatherType   `json:"current"`
	Remaining time.Duration `json:"remaining"`
	Effect    WeatherEffect `json:"effects"`
}

type HistoryEntry struct {
	Type     WeatherType   `json:"weather"`
	At       time.Time     `json:"timestamp"`
	Duration time.Duration `json:"duration"`
}

type ForecastEntry struct {
	Type        WeatherType `json:"weather"`
	Probability float64     `json:"probability"`
}

// Weather is a small state machine over WeatherType. It is not safe for
// concurrent use.
type Weather struct {
	src       random.Source
	now       func() time.Time
	current   WeatherType
	remaining time.Duration
	history   []HistoryEntry
}

func NewWeather(src random.Source, now func() time.Time) *Weather {
	if now == nil {
		now = time.Now
	}
	return &Weather{
		src:       src,
		now:       now,
		current:   Clear,
		remaining: initialDuration,
	}
}

// Update advances the current weather by elapsed. When it runs out a single
// new weather is drawn for biome; an empty biome uses the temperate pattern.
func (w *Weather) Update(elapsed time.Duration, biome Biome) {
	w.remaining -= elapsed
	if w.remaining <= 0 {
		w.next(biome)
	}
}

func (w *Weather) next(biome Biome) {
	p := patternFor(biome)

	candidates := p.common
	if !random.Chance(w.src, commonOnlyOdds) {
		candidates = append(append([]WeatherType{}, p.common...), p.rare...)
	}
	candidates = exclude(candidates, func(t WeatherType) bool { return contains(p.impossible, t) })

	if len(candidates) > 1 {
		candidates = exclude(candidates, func(t WeatherType) bool {
			return t == w.current && !persistent[t]
		})
	}

	next := Clear
	if len(candidates) > 0 {
		next = random.Choice(w.src, candidates)
	}
	w.set(next, w.duration(next))

	w.history = append(w.history, HistoryEntry{Type: next, At: w.now(), Duration: w.remaining})
	if len(w.history) > historySize {
		w.history = w.history[len(w.history)-historySize:]
	}
}

func (w *Weather) duration(t WeatherType) time.Duration {
	base := float64(baseDurations[t])
	return time.Duration(base * (1 + (w.src.Float64()-0.5)*durationJitter*2))
}

func (w *Weather) set(t WeatherType, d time.Duration) {
	w.current = t
	w.remaining = d
}

func (w *Weather) Current() Conditions {
	return Conditions{Type: w.current, Remaining: w.remaining, Effect: weatherEffects[w.current]}
}

// Force replaces the current weather. A zero duration draws one.
func (w *Weather) Force(t WeatherType, d time.Duration) {
	if d <= 0 {
		d = w.duration(t)
	}
	w.set(t, d)
}

func (w *Weather) History() []HistoryEntry {
	return append([]HistoryEntry(nil), w.history...)
}

func (w *Weather) Description() string {
	return weatherDescriptions[w.current]
}

// ElementalModifier is the multiplier the current weather gives element.
func (w *Weather) ElementalModifier(e dragon.Element) float64 {
	if m, ok := weatherEffects[w.current].ElementalBonuses[e]; ok {
		return m
	}
	return 1.0
}

func (w *Weather) SuitableFor(activity string) bool {
	e := weatherEffects[w.current]
	switch activity {
	case "exploration":
		return e.ExplorationSpeed >= 0.7
	case "flight":
		return !e.Has("flight_hazard")
	case "treasure_hunting":
		return e.TreasureChance >= 0.8
	case "combat":
		return e.Combat.Accuracy >= 0.8
	default:
		return true
	}
}

// Forecast spreads 0.6 across common and 0.3 across rare weather for biome,
// with a 0.1 bonus for the current type continuing. Sorted by probability.
func (w *Weather) Forecast(biome Biome) []ForecastEntry {
	p := patternFor(biome)
	out := make([]ForecastEntry, 0, len(p.common)+len(p.rare))
	for _, t := range p.common {
		out = append(out, ForecastEntry{Type: t, Probability: 0.6 / float64(len(p.common))})
	}
	for _, t := range p.rare {
		out = append(out, ForecastEntry{Type: t, Probability: 0.3 / float64(len(p.rare))})
	}
	for i := range out {
		if out[i].Type == w.current {
			out[i].Probability += 0.1
			break
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Probability > out[j].Probability })
	return out
}

func contains(list []WeatherType, t WeatherType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func exclude(list []WeatherType, drop func(WeatherType) bool) []WeatherType {
	out := make([]WeatherType, 0, len(list))
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

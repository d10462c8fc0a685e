// Package den keeps a player's dragons and the world they roam. It wires
// the world, weather, ruins, dragon and achievement rules into game flows.
package den

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"dragons-den/internal/achievement"
	"dragons-den/internal/dragon"
	"dragons-den/internal/random"
	"dragons-den/internal/ruins"
	"dragons-den/internal/shared/errors"
	"dragons-den/internal/world"
)

const MaxParty = 4

type Expedition struct {
	LocationID string            `json:"location_id"`
	Party      []string          `json:"party"`
	Duration   time.Duration     `json:"duration"`
	Remaining  time.Duration     `json:"remaining"`
	Weather    world.WeatherType `json:"weather"`
}

type Incubation struct {
	Pair      dragon.Pair   `json:"pair"`
	Remaining time.Duration `json:"remaining"`
}

// Keeper owns one player's den. All methods are safe for concurrent use.
type Keeper struct {
	mu     sync.Mutex
	logger *slog.Logger
	now    func() time.Time
	src    random.Source
	newID  func() string

	locations []world.Location
	byID      map[string]int
	ruinFloor map[string]int

	weather      *world.Weather
	explorer     *ruins.Explorer
	achievements *achievement.Evaluator

	dragons    []dragon.Dragon
	party      []string
	expedition *Expedition
	incubation *Incubation
	resources  map[string]float64
	record     Record
	lastDecay  time.Time
}

type Options struct {
	Source random.Source
	Now    func() time.Time
	// NewID names hatched dragons.
	NewID  func() string
	Logger *slog.Logger
}

func New(cfg world.Config, opts Options) *Keeper {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Source == nil {
		opts.Source = random.System()
	}
	if opts.NewID == nil {
		opts.NewID = newDragonID
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	locations := world.NewGenerator(cfg).Generate()
	k := &Keeper{
		logger:       opts.Logger.With("component", "den"),
		now:          opts.Now,
		src:          opts.Source,
		newID:        opts.NewID,
		locations:    locations,
		byID:         make(map[string]int, len(locations)),
		ruinFloor:    make(map[string]int),
		weather:      world.NewWeather(opts.Source, opts.Now),
		explorer:     ruins.NewExplorer(opts.Source),
		achievements: achievement.NewEvaluator(achievement.Definitions(), opts.Now),
		resources:    make(map[string]float64),
		record:       newRecord(),
		lastDecay:    opts.Now(),
	}
	for i, l := range locations {
		k.byID[l.ID] = i
	}

	k.logger.Info("Den created", "seed", cfg.Seed, "locations", len(locations))
	return k
}

// AddDragon adopts a dragon, for example a starter or a tamed wild one.
func (k *Keeper) AddDragon(d dragon.Dragon) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if d.ID == "" {
		return errors.Validation("dragon id is required")
	}
	if _, ok := k.dragonIndex(d.ID); ok {
		return errors.Conflictf("dragon %s already in the den", d.ID)
	}
	k.dragons = append(k.dragons, d)
	return nil
}

func (k *Keeper) Dragon(id string) (dragon.Dragon, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	i, ok := k.dragonIndex(id)
	if !ok {
		return dragon.Dragon{}, false
	}
	return k.dragons[i], true
}

func (k *Keeper) Dragons() []dragon.Dragon {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]dragon.Dragon(nil), k.dragons...)
}

// SetParty picks up to MaxParty dragons for expeditions, ruins and combat.
func (k *Keeper) SetParty(ids []string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if len(ids) > MaxParty {
		return errors.Validationf("a party holds at most %d dragons", MaxParty)
	}
	for _, id := range ids {
		if _, ok := k.dragonIndex(id); !ok {
			return errors.NotFoundf("dragon %s not found", id)
		}
	}
	k.party = append([]string(nil), ids...)
	for i := range k.dragons {
		k.dragons[i].InParty = contains(k.party, k.dragons[i].ID)
	}
	return nil
}

func (k *Keeper) Party() []dragon.Dragon {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.partyDragons()
}

func (k *Keeper) Locations() []world.Location {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]world.Location(nil), k.locations...)
}

func (k *Keeper) Location(id string) (world.Location, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	i, ok := k.byID[id]
	if !ok {
		return world.Location{}, false
	}
	return k.locations[i], true
}

func (k *Keeper) Discover(id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	i, ok := k.byID[id]
	if !ok {
		return errors.NotFoundf("location %s not found", id)
	}
	if k.locations[i].Discovered {
		return nil
	}
	k.locations[i].Discovered = true
	k.logger.Debug("Location discovered", "location_id", id, "biome", k.locations[i].Biome)
	k.checkAchievements()
	return nil
}

func (k *Keeper) Weather() world.Conditions {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.weather.Current()
}

func (k *Keeper) Forecast() []world.ForecastEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.weather.Forecast(k.currentBiome())
}

func (k *Keeper) Expedition() (Expedition, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.expedition == nil {
		return Expedition{}, false
	}
	return *k.expedition, true
}

func (k *Keeper) Incubation() (Incubation, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.incubation == nil {
		return Incubation{}, false
	}
	return *k.incubation, true
}

func (k *Keeper) Resources() map[string]float64 {
	k.mu.Lock()
	defer k.mu.Unlock()

	out := make(map[string]float64, len(k.resources))
	for key, v := range k.resources {
		out[key] = v
	}
	return out
}

func (k *Keeper) AddResource(name string, amount float64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.resources[name] += amount
}

func (k *Keeper) Achievements() []achievement.Achievement {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.achievements.All()
}

func (k *Keeper) Record() Record {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.record.clone()
}

// Update advances the den by elapsed: play time, weather, bonding decay,
// the running expedition, the incubating egg and aging.
func (k *Keeper) Update(elapsed time.Duration) Report {
	k.mu.Lock()
	defer k.mu.Unlock()

	var rep Report
	if elapsed <= 0 {
		return rep
	}
	now := k.now()

	k.record.PlayTime += elapsed
	k.weather.Update(elapsed, k.currentBiome())
	k.decayBonding(now)

	if k.expedition != nil {
		k.expedition.Remaining -= elapsed
		if k.expedition.Remaining <= 0 {
			res := k.completeExploration()
			rep.Exploration = &res
		}
	}

	if k.incubation != nil {
		k.incubation.Remaining -= elapsed
		if k.incubation.Remaining <= 0 {
			d := k.hatch(now)
			rep.Hatched = &d
		}
	}

	for i := range k.dragons {
		if aged, ok := dragon.AgeUp(k.dragons[i], now); ok {
			k.dragons[i] = aged
			rep.Aged = append(rep.Aged, aged.ID)
			k.logger.Info("Dragon aged", "dragon_id", aged.ID, "age", aged.Traits.Age)
		}
	}

	rep.Achievements = append(rep.Achievements, k.checkAchievements()...)
	return rep
}

// Report lists what happened during an Update.
type Report struct {
	Exploration  *ExplorationResult        `json:"exploration,omitempty"`
	Hatched      *dragon.Dragon            `json:"hatched,omitempty"`
	Aged         []string                  `json:"aged,omitempty"`
	Achievements []achievement.Achievement `json:"achievements,omitempty"`
}

// decayBonding applies only the decay accrued since the last call, so
// frequent updates do not compound it.
func (k *Keeper) decayBonding(now time.Time) {
	prev := k.lastDecay
	k.lastDecay = now
	for i := range k.dragons {
		d := &k.dragons[i]
		from := prev
		if d.LastActive.After(from) {
			from = d.LastActive
		}
		if !now.After(from) {
			continue
		}
		p := d.Traits.Personality
		loss := dragon.BondingDecay(p, now.Sub(d.LastActive)) - dragon.BondingDecay(p, from.Sub(d.LastActive))
		if loss > 0 {
			d.Traits.Bonding = max(0, d.Traits.Bonding-loss)
		}
	}
}

func (k *Keeper) currentBiome() world.Biome {
	if k.expedition == nil {
		return ""
	}
	return k.locations[k.byID[k.expedition.LocationID]].Biome
}

func (k *Keeper) dragonIndex(id string) (int, bool) {
	for i, d := range k.dragons {
		if d.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (k *Keeper) partyDragons() []dragon.Dragon {
	out := make([]dragon.Dragon, 0, len(k.party))
	for _, id := range k.party {
		if i, ok := k.dragonIndex(id); ok {
			out = append(out, k.dragons[i])
		}
	}
	return out
}

// reward runs fn over every party dragon in place.
func (k *Keeper) reward(fn func(d *dragon.Dragon)) {
	for _, id := range k.party {
		if i, ok := k.dragonIndex(id); ok {
			fn(&k.dragons[i])
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

package den

import (
	"time"

	"dragons-den/internal/achievement"
	"dragons-den/internal/dragon"
	"dragons-den/internal/world"

	"github.com/google/uuid"
)

// Record is the running tally the achievement evaluator reads.
type Record struct {
	Explorations       int                        `json:"explorations_completed"`
	FastExplorations   int                        `json:"fast_explorations"`
	SpecialExploration int                        `json:"special_explorations"`
	WeatherExplored    map[world.WeatherType]bool `json:"weather_explored"`
	DragonsHatched     int                        `json:"dragons_hatched"`
	CombatsWon         int                        `json:"combats_won"`
	FlawlessVictories  int                        `json:"flawless_victories"`
	ElementalWins      map[dragon.Element]bool    `json:"elemental_victories"`
	Treasures          int                        `json:"treasures_collected"`
	LegendaryTreasures int                        `json:"legendary_treasures"`
	RuinsCompleted     int                        `json:"ruins_completed"`
	GoldEarned         float64                    `json:"gold_earned"`
	PlayTime           time.Duration              `json:"play_time"`
}

func newRecord() Record {
	return Record{
		WeatherExplored: make(map[world.WeatherType]bool),
		ElementalWins:   make(map[dragon.Element]bool),
	}
}

func (r Record) clone() Record {
	out := r
	out.WeatherExplored = make(map[world.WeatherType]bool, len(r.WeatherExplored))
	for k, v := range r.WeatherExplored {
		out.WeatherExplored[k] = v
	}
	out.ElementalWins = make(map[dragon.Element]bool, len(r.ElementalWins))
	for k, v := range r.ElementalWins {
		out.ElementalWins[k] = v
	}
	return out
}

// stats derives the evaluator snapshot from the record and the den state.
func (k *Keeper) stats() achievement.Stats {
	s := achievement.Stats{
		achievement.ExplorationsCompleted: float64(k.record.Explorations),
		achievement.FastExploration:       float64(k.record.FastExplorations),
		achievement.SpecialExploration:    float64(k.record.SpecialExploration),
		achievement.WeatherExplorations:   float64(len(k.record.WeatherExplored)),
		achievement.DragonsHatched:        float64(k.record.DragonsHatched),
		achievement.CombatsWon:            float64(k.record.CombatsWon),
		achievement.FlawlessVictories:     float64(k.record.FlawlessVictories),
		achievement.ElementalVictories:    float64(len(k.record.ElementalWins)),
		achievement.TreasuresCollected:    float64(k.record.Treasures),
		achievement.LegendaryTreasures:    float64(k.record.LegendaryTreasures),
		achievement.GoldAccumulated:       k.record.GoldEarned,
		achievement.PlaytimeHours:         k.record.PlayTime.Hours(),
	}

	mastered := make(map[world.Biome]bool)
	discovered := 0
	for _, l := range k.locations {
		if l.Discovered {
			discovered++
		}
		if l.FullyExplored() {
			mastered[l.Biome] = true
		}
	}
	s[achievement.LocationsDiscovered] = float64(discovered)
	s[achievement.BiomesMastered] = float64(len(mastered))

	maxBond, ancient := 0, 0
	for _, d := range k.dragons {
		if d.Traits.Bonding >= 100 {
			maxBond++
		}
		if d.Traits.Age == dragon.Ancient {
			ancient++
		}
	}
	s[achievement.MaxBondingAchieved] = float64(maxBond)
	s[achievement.AncientDragons] = float64(ancient)
	return s
}

func (k *Keeper) checkAchievements() []achievement.Achievement {
	done := k.achievements.Check(k.stats())
	for _, a := range done {
		k.logger.Info("Achievement completed", "achievement_id", a.ID, "rarity", a.Rarity)
		if a.Rewards.Gold > 0 {
			k.resources["gold"] += a.Rewards.Gold
		}
		for _, item := range a.Rewards.Items {
			k.resources[item]++
		}
	}
	return done
}

func newDragonID() string {
	return "dragon_" + uuid.NewString()
}

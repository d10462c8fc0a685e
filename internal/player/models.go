package player

import (
	"time"
)

// Player is the authoritative state of one account. It is created lazily on
// first access and never deleted.
type Player struct {
	ID                    string    `json:"id"`
	Gold                  float64   `json:"gold"`
	Goblins               int       `json:"goblins"`
	PrestigeLevel         int       `json:"prestige_level"`
	TotalGoldEarned       float64   `json:"total_gold_earned"`
	GoblinsHired          int       `json:"goblins_hired"`
	ExplorationsCompleted int       `json:"explorations_completed"`
	TreasuresCollected    int       `json:"treasures_collected"`
	Achievements          []string  `json:"achievements"`
	Treasures             []string  `json:"treasures"`
	LastTickAt            time.Time `json:"last_tick_at"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func newPlayer(id string, now time.Time) *Player {
	return &Player{
		ID:           id,
		Achievements: []string{},
		Treasures:    []string{},
		LastTickAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p *Player) HasTreasure(id string) bool {
	return contains(p.Treasures, id)
}

func (p *Player) earn(amount float64) {
	if amount <= 0 {
		return
	}
	p.Gold += amount
	p.TotalGoldEarned += amount
}

// Snapshot is the GET /player payload.
type Snapshot struct {
	Gold          float64  `json:"gold"`
	Goblins       int      `json:"goblins"`
	PrestigeLevel int      `json:"prestige_level"`
	GoldPerSecond float64  `json:"gold_per_second"`
	Achievements  []string `json:"achievements"`
	Treasures     []string `json:"treasures"`
}

func (p *Player) Snapshot(rate float64) Snapshot {
	return Snapshot{
		Gold:          p.Gold,
		Goblins:       p.Goblins,
		PrestigeLevel: p.PrestigeLevel,
		GoldPerSecond: rate,
		Achievements:  append([]string{}, p.Achievements...),
		Treasures:     append([]string{}, p.Treasures...),
	}
}

type ActionResult struct {
	Success         bool     `json:"success"`
	Gold            float64  `json:"gold"`
	Goblins         int      `json:"goblins"`
	GoldEarned      *float64 `json:"gold_earned,omitempty"`
	Cost            *float64 `json:"cost,omitempty"`
	PrestigeLevel   *int     `json:"prestige_level,omitempty"`
	NewAchievements []string `json:"new_achievements,omitempty"`
}

type ExploreRequest struct {
	RuinID          string `json:"ruin_id"`
	ExplorationType string `json:"exploration_type"`
}

type ExploreResult struct {
	Success         bool     `json:"success"`
	TreasureFound   bool     `json:"treasure_found"`
	TreasureID      string   `json:"treasure_id,omitempty"`
	NewAchievements []string `json:"new_achievements,omitempty"`
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

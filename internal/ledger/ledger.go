// Package ledger holds the gold arithmetic shared by the server and the
// client session. Every function is pure.
package ledger

import (
	"fmt"
	"math"
)

const (
	BaseGoldPerClick  = 1.0
	BasePassiveRate   = 0.1
	SessionBaseRate   = 1.0
	SessionGoblinRate = 0.1

	HireBaseCost   = 50.0
	HireMultiplier = 1.2

	MinionEarnPerGoblin = 2.0
	PrestigeThreshold   = 1_000_000.0

	DefaultUpgradeBaseCost = 100.0
	UpgradeCostMultiplier  = 1.15
)

const (
	UpgradeClawSharpness    = "clawSharpness"
	UpgradeMinionEfficiency = "minionEfficiency"
	UpgradeTreasureSense    = "treasureSense"
)

type Effect string

const (
	EffectClick    Effect = "click"
	EffectMinion   Effect = "minion"
	EffectTreasure Effect = "treasure"
)

type Upgrade struct {
	ID         string
	BaseCost   float64
	EffectRate float64
	Effect     Effect
}

var Upgrades = map[string]Upgrade{
	UpgradeClawSharpness:    {ID: UpgradeClawSharpness, BaseCost: 10, EffectRate: 0.1, Effect: EffectClick},
	UpgradeMinionEfficiency: {ID: UpgradeMinionEfficiency, BaseCost: 50, EffectRate: 0.1, Effect: EffectMinion},
	UpgradeTreasureSense:    {ID: UpgradeTreasureSense, BaseCost: 100, EffectRate: 0.05, Effect: EffectTreasure},
}

// Snapshot is the slice of game state the ledger reads.
type Snapshot struct {
	Goblins  int
	Upgrades map[string]int
	// TreasureMultipliers are click multipliers granted by owned treasures.
	TreasureMultipliers []float64
}

func (s Snapshot) level(id string) int {
	if s.Upgrades == nil {
		return 0
	}
	return s.Upgrades[id]
}

// GoldPerClick rounds up so a click never yields less than the base.
func GoldPerClick(s Snapshot) float64 {
	value := BaseGoldPerClick
	for id, level := range s.Upgrades {
		u, ok := Upgrades[id]
		if !ok || u.Effect != EffectClick || level <= 0 {
			continue
		}
		value *= 1 + float64(level)*u.EffectRate
	}
	for _, m := range s.TreasureMultipliers {
		if m > 0 {
			value *= m
		}
	}
	return math.Ceil(value)
}

func GoldPerSecond(s Snapshot) float64 {
	minion := Upgrades[UpgradeMinionEfficiency]
	perGoblin := 1 + float64(s.level(UpgradeMinionEfficiency))*minion.EffectRate
	return BasePassiveRate + float64(s.Goblins)*perGoblin
}

// SessionRate is the passive rate the server credits and the client ticker
// predicts between syncs.
func SessionRate(goblins int) float64 {
	if goblins < 0 {
		goblins = 0
	}
	return SessionBaseRate + SessionGoblinRate*float64(goblins)
}

func UpgradeCost(s Snapshot, id string) float64 {
	base := DefaultUpgradeBaseCost
	if u, ok := Upgrades[id]; ok {
		base = u.BaseCost
	}
	return math.Floor(base * math.Pow(UpgradeCostMultiplier, float64(s.level(id))))
}

func HireCost(goblins int) float64 {
	return HireBaseCost * math.Pow(HireMultiplier, float64(goblins))
}

// SendMinionsEstimate is the client's guess; the server decides the real
// amount.
func SendMinionsEstimate(goblins int) float64 {
	return float64(goblins) * MinionEarnPerGoblin
}

func CanPrestige(gold float64) bool {
	return gold >= PrestigeThreshold
}

func FormatNumber(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fK", n/1e3)
	default:
		return fmt.Sprintf("%d", int64(math.Floor(n)))
	}
}

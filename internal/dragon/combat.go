package dragon

import (
	"math"

	"dragons-den/internal/random"
)

const (
	minWinChance = 0.05
	maxWinChance = 0.95
	flawlessEdge = 2.0
)

var combatRewards = []string{"combat_experience", "battle_trophy"}

type CombatResult struct {
	Victory    bool     `json:"victory"`
	Flawless   bool     `json:"flawless"`
	Elemental  bool     `json:"elemental"`
	TeamPower  float64  `json:"team_power"`
	EnemyPower float64  `json:"enemy_power"`
	WinChance  float64  `json:"win_chance"`
	Rewards    []string `json:"rewards"`
}

// ResolveCombat pits team against enemies. Each side's power is the sum of
// its dragons' Power, the team's scaled by the average elemental matchup and
// by weather, which may be nil. Victory is a single roll against
// team/(team+enemy), kept within [0.05,0.95].
func ResolveCombat(src random.Source, team, enemies []Dragon, weather func(Element) float64) CombatResult {
	res := CombatResult{Rewards: []string{}}
	if len(team) == 0 {
		return res
	}

	for _, e := range enemies {
		res.EnemyPower += e.Power()
	}

	for _, d := range team {
		p := d.Power()
		if len(enemies) > 0 {
			sum := 0.0
			for _, e := range enemies {
				m := DamageMultiplier(d.Traits.Primary, e.Traits.Primary)
				if m == strongMultiplier {
					res.Elemental = true
				}
				sum += m
			}
			p *= sum / float64(len(enemies))
		}
		if weather != nil {
			p *= weather(d.Traits.Primary)
		}
		res.TeamPower += p
	}

	if len(enemies) == 0 {
		res.WinChance = 1
		res.Victory = true
		res.Flawless = true
	} else {
		res.WinChance = math.Max(minWinChance, math.Min(maxWinChance, res.TeamPower/(res.TeamPower+res.EnemyPower)))
		res.Victory = src.Float64() < res.WinChance
		res.Flawless = res.Victory && res.TeamPower >= flawlessEdge*res.EnemyPower
	}

	if !res.Victory {
		res.Elemental = false
		return res
	}
	res.Rewards = append(res.Rewards, combatRewards...)
	return res
}

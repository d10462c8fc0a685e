package dragon

import (
	"math"
	"time"
)

type Personality string

const (
	Aggressive Personality = "aggressive"
	Loyal      Personality = "loyal"
	Cunning    Personality = "cunning"
	Noble      Personality = "noble"
	Wild       Personality = "wild"
	Wise       Personality = "ancient"
	Playful    Personality = "playful"
	Protective Personality = "protective"
)

var PersonalityTypes = []Personality{Aggressive, Loyal, Cunning, Noble, Wild, Wise, Playful, Protective}

type CombatTendencies struct {
	Aggression        int `json:"aggression"`
	Cooperation       int `json:"cooperation"`
	RiskTaking        int `json:"risk_taking"`
	StrategicThinking int `json:"strategic_thinking"`
}

type PersonalityTraits struct {
	Description   string           `json:"description"`
	StatModifiers Modifiers        `json:"stat_modifiers"`
	BondingRate   float64          `json:"bonding_rate"`
	DecayRate     float64          `json:"decay_rate"`
	Preferred     []string         `json:"preferred_activities"`
	Disliked      []string         `json:"disliked_activities"`
	Behaviors     []string         `json:"special_behaviors"`
	Combat        CombatTendencies `json:"combat_tendencies"`
}

var Personalities = map[Personality]PersonalityTraits{
	Aggressive: {
		Description:   "Fierce and combative, always ready for battle",
		StatModifiers: Modifiers{Attack: 1.25, Defense: 0.9, Speed: 1.1, Intelligence: 0.95, Magic: 1.0, Health: 1.0, Loyalty: 0.85},
		BondingRate:   0.8,
		DecayRate:     1.5,
		Preferred:     []string{"combat", "hunting", "territorial_defense"},
		Disliked:      []string{"peaceful_exploration", "socializing", "training_patience"},
		Behaviors:     []string{"intimidates_enemies", "first_to_attack", "challenges_authority"},
		Combat:        CombatTendencies{Aggression: 90, Cooperation: 30, RiskTaking: 80, StrategicThinking: 40},
	},
	Loyal: {
		Description:   "Devoted and trustworthy, forms deep bonds with their master",
		StatModifiers: Modifiers{Attack: 1.05, Defense: 1.15, Speed: 1.0, Intelligence: 1.1, Magic: 1.0, Health: 1.05, Loyalty: 1.4},
		BondingRate:   1.5,
		DecayRate:     0.3,
		Preferred:     []string{"following_master", "protecting_allies", "training"},
		Disliked:      []string{"abandonment", "betrayal", "solo_missions"},
		Behaviors:     []string{"sacrifices_for_master", "remembers_kindness", "seeks_approval"},
		Combat:        CombatTendencies{Aggression: 60, Cooperation: 95, RiskTaking: 40, StrategicThinking: 70},
	},
	Cunning: {
		Description:   "Clever and calculating, prefers strategy over brute force",
		StatModifiers: Modifiers{Attack: 0.95, Defense: 1.1, Speed: 1.15, Intelligence: 1.35, Magic: 1.2, Health: 0.9, Loyalty: 1.0},
		BondingRate:   1.1,
		DecayRate:     1.0,
		Preferred:     []string{"puzzle_solving", "reconnaissance", "trap_setting"},
		Disliked:      []string{"direct_confrontation", "mindless_tasks", "rushed_decisions"},
		Behaviors:     []string{"analyzes_enemies", "plans_ambushes", "hoards_information"},
		Combat:        CombatTendencies{Aggression: 40, Cooperation: 60, RiskTaking: 25, StrategicThinking: 95},
	},
	Noble: {
		Description:   "Honorable and dignified, upholds ancient dragon traditions",
		StatModifiers: Modifiers{Attack: 1.1, Defense: 1.2, Speed: 1.0, Intelligence: 1.15, Magic: 1.25, Health: 1.1, Loyalty: 1.2},
		BondingRate:   1.2,
		DecayRate:     0.7,
		Preferred:     []string{"ceremonial_flights", "protecting_weak", "maintaining_honor"},
		Disliked:      []string{"dishonorable_acts", "cowardice", "cruelty"},
		Behaviors:     []string{"refuses_dishonor", "respects_traditions", "leads_by_example"},
		Combat:        CombatTendencies{Aggression: 50, Cooperation: 80, RiskTaking: 60, StrategicThinking: 85},
	},
	Wild: {
		Description:   "Untamed and free-spirited, struggles with captivity",
		StatModifiers: Modifiers{Attack: 1.15, Defense: 0.85, Speed: 1.3, Intelligence: 0.9, Magic: 1.05, Health: 1.2, Loyalty: 0.6},
		BondingRate:   0.5,
		DecayRate:     2.0,
		Preferred:     []string{"free_flight", "hunting", "exploring_wilderness"},
		Disliked:      []string{"confinement", "strict_training", "civilization"},
		Behaviors:     []string{"escapes_frequently", "distrusts_humans", "follows_instincts"},
		Combat:        CombatTendencies{Aggression: 70, Cooperation: 20, RiskTaking: 90, StrategicThinking: 30},
	},
	Wise: {
		Description:   "Wise and patient, carries knowledge of forgotten ages",
		StatModifiers: Modifiers{Attack: 1.0, Defense: 1.3, Speed: 0.8, Intelligence: 1.5, Magic: 1.4, Health: 1.25, Loyalty: 1.1},
		BondingRate:   0.7,
		DecayRate:     0.5,
		Preferred:     []string{"meditation", "teaching", "preserving_knowledge"},
		Disliked:      []string{"hasty_decisions", "disrespect", "waste"},
		Behaviors:     []string{"shares_wisdom", "long_term_planning", "remembers_history"},
		Combat:        CombatTendencies{Aggression: 30, Cooperation: 70, RiskTaking: 20, StrategicThinking: 100},
	},
	Playful: {
		Description:   "Energetic and curious, approaches life with joy",
		StatModifiers: Modifiers{Attack: 0.9, Defense: 0.95, Speed: 1.25, Intelligence: 1.05, Magic: 1.1, Health: 1.0, Loyalty: 1.25},
		BondingRate:   1.3,
		DecayRate:     1.2,
		Preferred:     []string{"games", "tricks", "socializing"},
		Disliked:      []string{"serious_training", "isolation", "punishment"},
		Behaviors:     []string{"entertains_others", "learns_quickly", "lifts_morale"},
		Combat:        CombatTendencies{Aggression: 40, Cooperation: 85, RiskTaking: 70, StrategicThinking: 50},
	},
	Protective: {
		Description:   "Guardian-natured, prioritizes safety of others over glory",
		StatModifiers: Modifiers{Attack: 1.0, Defense: 1.35, Speed: 0.95, Intelligence: 1.1, Magic: 1.15, Health: 1.3, Loyalty: 1.3},
		BondingRate:   1.4,
		DecayRate:     0.6,
		Preferred:     []string{"guarding", "healing_others", "rescue_missions"},
		Disliked:      []string{"abandoning_allies", "reckless_attacks", "leaving_post"},
		Behaviors:     []string{"shields_allies", "prioritizes_healing", "never_retreats"},
		Combat:        CombatTendencies{Aggression: 30, Cooperation: 90, RiskTaking: 35, StrategicThinking: 75},
	},
}

type Activity struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Duration    time.Duration           `json:"duration"`
	Cost        map[string]float64      `json:"cost"`
	Gain        float64                 `json:"bonding_gain"`
	Modifiers   map[Personality]float64 `json:"personality_modifiers"`
	MinLevel    int                     `json:"min_level,omitempty"`
	Weather     []string                `json:"weather,omitempty"`
}

var Activities = []Activity{
	{
		ID: "feeding", Name: "Hand Feeding", Description: "Personally feed your dragon their favorite foods",
		Duration: 15 * time.Minute, Cost: map[string]float64{"food": 50}, Gain: 5,
		Modifiers: map[Personality]float64{Aggressive: 0.5, Loyal: 1.5, Cunning: 1.0, Noble: 1.2, Wild: 0.3, Wise: 1.1, Playful: 1.3, Protective: 1.2},
	},
	{
		ID: "training", Name: "Combat Training", Description: "Practice combat maneuvers together",
		Duration: 30 * time.Minute, Cost: map[string]float64{"energy": 20}, Gain: 8,
		Modifiers: map[Personality]float64{Aggressive: 1.8, Loyal: 1.4, Cunning: 0.8, Noble: 1.3, Wild: 0.6, Wise: 0.7, Playful: 1.1, Protective: 1.0},
	},
	{
		ID: "grooming", Name: "Scale Grooming", Description: "Carefully clean and polish your dragon's scales",
		Duration: 45 * time.Minute, Cost: map[string]float64{"supplies": 25}, Gain: 12,
		Modifiers: map[Personality]float64{Aggressive: 0.4, Loyal: 1.6, Cunning: 1.1, Noble: 1.5, Wild: 0.2, Wise: 1.2, Playful: 1.4, Protective: 1.3},
	},
	{
		ID: "flying", Name: "Flight Practice", Description: "Soar through the skies together",
		Duration: 60 * time.Minute, Cost: map[string]float64{"energy": 30}, Gain: 15,
		Modifiers: map[Personality]float64{Aggressive: 1.2, Loyal: 1.3, Cunning: 0.9, Noble: 1.4, Wild: 1.8, Wise: 1.0, Playful: 1.6, Protective: 1.1},
		MinLevel:  5,
	},
	{
		ID: "meditation", Name: "Shared Meditation", Description: "Meditate together to strengthen mental connection",
		Duration: 90 * time.Minute, Cost: map[string]float64{}, Gain: 20,
		Modifiers: map[Personality]float64{Aggressive: 0.3, Loyal: 1.2, Cunning: 1.4, Noble: 1.6, Wild: 0.1, Wise: 2.0, Playful: 0.5, Protective: 1.3},
		MinLevel:  10,
	},
}

func ActivityByID(id string) (Activity, bool) {
	for _, a := range Activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// BondingGain is the bonding an activity earns. Gains shrink as bonding
// climbs, and harsh weather dampens activities that list preferred weather.
// The result is never below 1.
func BondingGain(a Activity, p Personality, current float64, weather string) int {
	gain := a.Gain
	if m, ok := a.Modifiers[p]; ok {
		gain *= m
	}

	switch {
	case current > 80:
		gain *= 0.5
	case current > 60:
		gain *= 0.7
	case current > 40:
		gain *= 0.85
	}

	if weather != "" && len(a.Weather) > 0 {
		if containsString(a.Weather, weather) {
			gain *= 1.2
		} else if weather == "storm" || weather == "blizzard" {
			gain *= 0.8
		}
	}

	return int(math.Max(1, math.Round(gain)))
}

const bondingGracePeriod = 24 * time.Hour

// BondingDecay is the bonding lost after inactive time: 0.1 per hour past
// the first day, scaled by personality.
func BondingDecay(p Personality, inactive time.Duration) float64 {
	if inactive <= bondingGracePeriod {
		return 0
	}
	rate := Personalities[p].DecayRate
	if rate == 0 {
		rate = 1
	}
	return (inactive - bondingGracePeriod).Hours() * 0.1 * rate
}

// Bond applies a gain to d, clamped to 100, and marks it active at now.
func Bond(d Dragon, gain int, now time.Time) Dragon {
	d.Traits.Bonding = math.Min(100, d.Traits.Bonding+float64(gain))
	d.LastActive = now
	return d
}

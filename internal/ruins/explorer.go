// Package ruins resolves floor-by-floor exploration of ancient ruins.
package ruins

import (
	"fmt"
	"math"
	"strings"

	"dragons-den/internal/dragon"
	"dragons-den/internal/random"
	"dragons-den/internal/world"
)

// Choices holds player answers keyed by "<challenge type>_<description>",
// for example "riddle_A sphinx statue that speaks".
type Choices map[string]string

func ChoiceKey(c world.Challenge) string {
	return string(c.Type) + "_" + c.Description
}

type Result struct {
	Success           bool     `json:"success"`
	Damage            int      `json:"damage"`
	Loot              []string `json:"loot"`
	Experience        int      `json:"experience"`
	Discoveries       []string `json:"discoveries"`
	Penalties         []string `json:"penalties,omitempty"`
	NextFloorUnlocked bool     `json:"new_room_unlocked"`
	RuinCompleted     bool     `json:"ruin_completed"`
}

func (r *Result) merge(o Result) {
	r.Damage += o.Damage
	r.Experience += o.Experience
	r.Loot = append(r.Loot, o.Loot...)
	r.Discoveries = append(r.Discoveries, o.Discoveries...)
	r.Penalties = append(r.Penalties, o.Penalties...)
}

func failed(discovery string) Result {
	return Result{Loot: []string{}, Discoveries: []string{discovery}}
}

// Explorer draws the combat rolls. Puzzles, traps and riddles are fixed per
// challenge so a player can study the hints before answering.
type Explorer struct {
	src random.Source
}

func NewExplorer(src random.Source) *Explorer {
	return &Explorer{src: src}
}

// ExploreFloor runs every challenge of ruin.Floors[floor] in order. A failed
// combat ends the attempt; other failures still pay their experience. A
// cleared floor pays its treasures and, if guarded, fights the guardian.
func (e *Explorer) ExploreFloor(ruin world.Ruin, floor int, team []dragon.Dragon, choices Choices) Result {
	if floor < 0 || floor >= len(ruin.Floors) {
		return failed("Floor not found")
	}
	if len(team) == 0 {
		return failed("No dragons in the exploration party")
	}
	f := ruin.Floors[floor]

	res := Result{Success: true, Loot: []string{}, Discoveries: []string{}}
	for _, ch := range f.Challenges {
		out := e.challenge(ch, team, choices)
		res.merge(out)
		if !out.Success {
			res.Success = false
			if ch.Type == world.Combat {
				break
			}
		}
	}

	if res.Success {
		res.Experience += f.Level * 50
		res.Loot = append(res.Loot, f.Treasures...)
		if f.Guardian != nil {
			g := guardian(*f.Guardian, team)
			res.merge(g)
			res.Success = g.Success
		}
	}

	res.NextFloorUnlocked = res.Success && floor < len(ruin.Floors)-1
	res.RuinCompleted = res.Success && floor == len(ruin.Floors)-1
	return res
}

func (e *Explorer) challenge(ch world.Challenge, team []dragon.Dragon, choices Choices) Result {
	answer := choices[ChoiceKey(ch)]
	switch ch.Type {
	case world.Puzzle:
		return solvePuzzle(PuzzleFor(ch), team, answer)
	case world.Trap:
		return disarmTrap(ch, TrapFor(ch), team, answer)
	case world.Riddle:
		return answerRiddle(RiddleFor(ch), team, answer)
	case world.Combat:
		return e.fight(ch, team)
	case world.Stealth:
		return sneak(ch, team)
	default:
		return failed("Unknown challenge type")
	}
}

func challengeSource(ch world.Challenge) random.Source {
	return random.NewSeeded(fmt.Sprintf("%s|%s|%d", ch.Type, ch.Description, ch.Difficulty))
}

// PuzzleFor returns the puzzle behind a puzzle challenge: one within one
// difficulty step, or the closest when none is.
func PuzzleFor(ch world.Challenge) Puzzle {
	var near []Puzzle
	for _, kind := range puzzleKinds {
		for _, p := range puzzleTemplates[kind] {
			if abs(p.Difficulty-ch.Difficulty) <= 1 {
				near = append(near, p)
			}
		}
	}
	if len(near) == 0 {
		return closest(ch.Difficulty)
	}
	return random.Choice(challengeSource(ch), near)
}

func RiddleFor(ch world.Challenge) Puzzle {
	var near []Puzzle
	for _, p := range puzzleTemplates[RiddleKind] {
		if abs(p.Difficulty-ch.Difficulty) <= 1 {
			near = append(near, p)
		}
	}
	if len(near) == 0 {
		return puzzleTemplates[RiddleKind][0]
	}
	return random.Choice(challengeSource(ch), near)
}

func TrapFor(ch world.Challenge) Trap {
	return random.Choice(challengeSource(ch), traps)
}

func closest(difficulty int) Puzzle {
	var best Puzzle
	gap := math.MaxInt
	for _, kind := range puzzleKinds {
		for _, p := range puzzleTemplates[kind] {
			if d := abs(p.Difficulty - difficulty); d < gap {
				best, gap = p, d
			}
		}
	}
	return best
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "")
}

func solvePuzzle(p Puzzle, team []dragon.Dragon, answer string) Result {
	if reason, ok := meetsRequirements(p, team); !ok {
		res := failed(reason)
		res.Experience = 10
		return res
	}

	if answer != "" && normalize(answer) == normalize(p.Solution) {
		loot := []string{"ancient_knowledge_fragment", "puzzle_solution_scroll"}
		if p.Difficulty >= 5 {
			loot = append(loot, "rare_ancient_artifact")
		}
		if p.Difficulty >= 7 {
			loot = append(loot, "legendary_puzzle_key")
		}
		return Result{
			Success:     true,
			Loot:        loot,
			Experience:  p.Difficulty * 25,
			Discoveries: []string{"Ancient knowledge unlocked", "Puzzle mechanism understood"},
		}
	}

	return Result{
		Damage:      min(20, p.Difficulty*5),
		Loot:        []string{},
		Experience:  5,
		Discoveries: []string{"Puzzle mechanism triggered defensive measures"},
		Penalties:   []string{"Wrong solution caused backlash"},
	}
}

func meetsRequirements(p Puzzle, team []dragon.Dragon) (string, bool) {
	for _, el := range p.RequiredElements {
		found := false
		for _, d := range team {
			if d.HasElement(el) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("Missing required element: %s", el), false
		}
	}
	for _, req := range p.RequiredStats {
		found := false
		for _, d := range team {
			if stat(d, req.Stat) >= req.Minimum {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("Need %s of at least %d", req.Stat, req.Minimum), false
		}
	}
	return "", true
}

func stat(d dragon.Dragon, name string) int {
	switch name {
	case "attack":
		return d.Stats.Attack
	case "defense":
		return d.Stats.Defense
	case "speed":
		return d.Stats.Speed
	case "intelligence":
		return d.Stats.Intelligence
	case "magic":
		return d.Stats.Magic
	case "health":
		return d.Stats.Health
	case "loyalty":
		return d.Stats.Loyalty
	default:
		return 0
	}
}

// DisarmSkill rates how well d handles trap t.
func DisarmSkill(d dragon.Dragon, t Trap) float64 {
	s := d.Stats
	switch t.Skill {
	case "perception":
		return float64(s.Intelligence) + float64(s.Speed)*0.5
	case "agility":
		return float64(s.Speed) + float64(s.Intelligence)*0.3
	case "strength":
		return float64(s.Attack) + float64(s.Health)*0.4
	case "magical_knowledge":
		return float64(s.Magic) + float64(s.Intelligence)*0.6
	case "elemental_resistance":
		return float64(s.Defense) + float64(s.Magic)*0.4
	case "flight":
		return float64(s.Speed)*1.2 + float64(s.Health)*0.2
	case "mental_resistance":
		return float64(s.Intelligence)*1.1 + float64(s.Defense)*0.3
	case "ancient_knowledge":
		bonus := 0.0
		switch d.Traits.Age {
		case dragon.Ancient:
			bonus = 200
		case dragon.Elder:
			bonus = 100
		}
		return float64(s.Intelligence)*0.8 + bonus
	default:
		return 50
	}
}

func disarmTrap(ch world.Challenge, t Trap, team []dragon.Dragon, choice string) Result {
	best := team[0]
	for _, d := range team[1:] {
		if DisarmSkill(d, t) > DisarmSkill(best, t) {
			best = d
		}
	}

	mod, ok := trapApproaches[choice]
	switch {
	case choice == "magical" && best.Stats.Magic > magicalThreshold:
		mod = magicalStrong
	case choice == "magical":
		mod = magicalWeak
	case !ok:
		mod = trapApproaches["careful"]
	}

	disarmed := DisarmSkill(best, t)*mod.success >= float64(t.Difficulty*10)
	if !disarmed {
		for _, d := range team {
			if hasAnyAbility(d, t.Tools) {
				disarmed = true
				break
			}
		}
	}

	if disarmed {
		return Result{
			Success:     true,
			Loot:        []string{"ancient_component", "trap_mechanism"},
			Experience:  ch.Difficulty * 20,
			Discoveries: []string{"Trap disarmed successfully", "Learned about ancient security"},
		}
	}
	return Result{
		Damage:      int(math.Round(float64(t.Damage) * mod.damage)),
		Loot:        []string{},
		Experience:  8,
		Discoveries: []string{"Trap triggered: " + t.Effect},
		Penalties:   []string{"Team takes trap damage"},
	}
}

func hasAnyAbility(d dragon.Dragon, ids []string) bool {
	for _, want := range ids {
		for _, have := range d.Abilities {
			if have == want {
				return true
			}
		}
	}
	return false
}

func answerRiddle(p Puzzle, team []dragon.Dragon, answer string) Result {
	smartest := team[0]
	for _, d := range team[1:] {
		if d.Stats.Intelligence > smartest.Stats.Intelligence {
			smartest = d
		}
	}
	for _, req := range p.RequiredStats {
		if stat(smartest, req.Stat) < req.Minimum {
			return Result{
				Loot:        []string{},
				Experience:  5,
				Discoveries: []string{"The riddle is beyond your understanding"},
				Penalties:   []string{"Insufficient intelligence to comprehend riddle"},
			}
		}
	}

	if normalize(answer) != normalize(p.Solution) {
		return Result{
			Loot:        []string{},
			Experience:  10,
			Discoveries: []string{"The ancient guardian remains unconvinced"},
			Penalties:   []string{"Wrong answer echoes through the halls"},
		}
	}

	loot := []string{"wisdom_essence", "ancient_scroll"}
	if p.Difficulty >= 4 {
		loot = append(loot, "riddle_master_token")
	}
	if p.Difficulty >= 6 {
		loot = append(loot, "oracle_blessing")
	}
	return Result{
		Success:     true,
		Loot:        loot,
		Experience:  p.Difficulty * 30,
		Discoveries: []string{"Ancient wisdom gained", "Riddle master's blessing received"},
	}
}

func bulk(team []dragon.Dragon) float64 {
	total := 0
	for _, d := range team {
		total += d.Stats.Attack + d.Stats.Defense + d.Stats.Health
	}
	return float64(total)
}

// fight resolves a combat challenge. At 1.2x the guardian's power the team
// wins outright; closer fights are rolled.
func (e *Explorer) fight(ch world.Challenge, team []dragon.Dragon) Result {
	power := float64(ch.Difficulty * 150)
	ratio := bulk(team) / power
	exp := float64(ch.Difficulty * 40)

	var won bool
	var damage float64
	switch {
	case ratio >= 1.2:
		won = true
		damage = power * 0.1
		exp *= 1.2
	case ratio >= 0.8:
		won = random.Chance(e.src, 0.7)
		damage = power * 0.3
		if won {
			exp *= 1.5
		} else {
			exp *= 0.5
		}
	default:
		won = random.Chance(e.src, 0.3)
		damage = power * 0.6
		if won {
			exp *= 2.0
		} else {
			exp *= 0.3
		}
	}

	res := Result{
		Success:    won,
		Damage:     int(math.Round(damage)),
		Loot:       []string{},
		Experience: int(math.Round(exp)),
	}
	if !won {
		res.Discoveries = []string{"Guardian proves too powerful", "Retreat necessary"}
		res.Penalties = []string{"Team overwhelmed by guardian"}
		return res
	}
	res.Discoveries = []string{"Guardian defeated", "Ancient protector's secrets revealed"}
	res.Loot = []string{"guardian_essence", "ancient_weapon_fragment"}
	if ch.Difficulty >= 5 {
		res.Loot = append(res.Loot, "guardian_crystal")
	}
	if ch.Difficulty >= 8 {
		res.Loot = append(res.Loot, "legendary_guardian_core")
	}
	return res
}

// sneak compares the team's average stealth with 80 per difficulty. Shadow
// dragons sneak better and small dragons are harder to spot.
func sneak(ch world.Challenge, team []dragon.Dragon) Result {
	total := 0.0
	for _, d := range team {
		score := float64(d.Stats.Speed)*0.5 + float64(d.Stats.Intelligence)*0.3
		if d.Traits.Primary == dragon.Shadow {
			score *= 1.5
		}
		score *= 2.0 - d.Appearance.Size
		total += score
	}

	if total/float64(len(team)) >= float64(ch.Difficulty*80) {
		return Result{
			Success:     true,
			Loot:        []string{"stealth_knowledge", "hidden_passage_map"},
			Experience:  ch.Difficulty * 25,
			Discoveries: []string{"Passed undetected", "Secret path discovered"},
		}
	}
	return Result{
		Damage:      ch.Difficulty * 15,
		Loot:        []string{},
		Experience:  5,
		Discoveries: []string{"Detection triggers ancient defenses"},
		Penalties:   []string{"Stealth attempt failed"},
	}
}

// guardian fights the floor boss. The team needs 80% of 200 per difficulty.
func guardian(g world.Guardian, team []dragon.Dragon) Result {
	power := float64(g.Difficulty * 200)
	res := Result{Experience: g.Difficulty * 60, Loot: []string{}}
	if bulk(team) >= power*0.8 {
		res.Success = true
		res.Damage = int(math.Round(power * 0.2))
		res.Loot = append(res.Loot, g.Rewards...)
		res.Discoveries = []string{"Floor guardian defeated", "Ancient chamber secured"}
		return res
	}
	res.Damage = int(math.Round(power * 0.8))
	res.Discoveries = []string{"Floor guardian victorious", "Must retreat and return stronger"}
	return res
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package ruins

import (
	"testing"

	"dragons-den/internal/dragon"
	"dragons-den/internal/random"
	"dragons-den/internal/world"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(attack, defense, health int) dragon.Dragon {
	return dragon.Dragon{
		ID:     "d",
		Stats:  dragon.Stats{Attack: attack, Defense: defense, Health: health, Intelligence: 100},
		Traits: dragon.Traits{Primary: dragon.Fire, Age: dragon.Adult},
	}
}

func TestMissingFloorOrTeam(t *testing.T) {
	e := NewExplorer(random.NewFixed(0))
	ruin := world.Ruin{Floors: []world.Floor{{Level: 1}}}

	res := e.ExploreFloor(ruin, 3, []dragon.Dragon{member(1, 1, 1)}, nil)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Floor not found"}, res.Discoveries)

	res = e.ExploreFloor(ruin, 0, nil, nil)
	assert.False(t, res.Success)
}

func TestCombatFailureEndsTheFloor(t *testing.T) {
	e := NewExplorer(random.NewFixed(0.9))
	ruin := world.Ruin{Floors: []world.Floor{{
		Level: 1,
		Challenges: []world.Challenge{
			{Type: world.Combat, Difficulty: 10, Description: "Animated armor stands guard"},
			{Type: world.Stealth, Difficulty: 1, Description: "Patrolling constructs"},
		},
		Treasures: []string{"gem"},
	}}}

	res := e.ExploreFloor(ruin, 0, []dragon.Dragon{member(10, 10, 10)}, nil)
	assert.False(t, res.Success)
	assert.Equal(t, 900, res.Damage)
	assert.Equal(t, 120, res.Experience)
	assert.Equal(t, []string{"Guardian proves too powerful", "Retreat necessary"}, res.Discoveries)
	assert.Empty(t, res.Loot)
	assert.False(t, res.NextFloorUnlocked)
}

func TestOtherFailuresKeepGoing(t *testing.T) {
	e := NewExplorer(random.NewFixed(0))
	ruin := world.Ruin{Floors: []world.Floor{{
		Level: 1,
		Challenges: []world.Challenge{
			{Type: world.Stealth, Difficulty: 10, Description: "Watchful eyes painted on every wall"},
			{Type: world.Combat, Difficulty: 1, Description: "A nest of ruin wyrms"},
		},
		Treasures: []string{"gem"},
	}}}

	res := e.ExploreFloor(ruin, 0, []dragon.Dragon{member(1000, 1000, 1000)}, nil)
	assert.False(t, res.Success)
	assert.Equal(t, 150+15, res.Damage)
	assert.Contains(t, res.Loot, "guardian_essence")
	assert.NotContains(t, res.Loot, "gem")
}

func TestClearedFloorFightsGuardian(t *testing.T) {
	e := NewExplorer(random.NewFixed(0))
	ruin := world.Ruin{Floors: []world.Floor{
		{Level: 1},
		{
			Level:      2,
			Challenges: []world.Challenge{{Type: world.Combat, Difficulty: 1, Description: "Spectral sentinels block the hall"}},
			Treasures:  []string{"gem"},
			Guardian:   &world.Guardian{Type: "boss", Difficulty: 8, Rewards: []string{"crown"}},
		},
	}}

	res := e.ExploreFloor(ruin, 1, []dragon.Dragon{member(1000, 1000, 1000)}, nil)
	require.True(t, res.Success)
	assert.Equal(t, 15+320, res.Damage)
	assert.Equal(t, 48+100+480, res.Experience)
	assert.Equal(t, []string{"guardian_essence", "ancient_weapon_fragment", "gem", "crown"}, res.Loot)
	assert.True(t, res.RuinCompleted)
	assert.False(t, res.NextFloorUnlocked)

	weak := e.ExploreFloor(ruin, 1, []dragon.Dragon{member(400, 300, 300)}, nil)
	assert.False(t, weak.Success)
	assert.Equal(t, 1280, weak.Damage-15)
	assert.False(t, weak.RuinCompleted)
}

func TestEarlierFloorUnlocksNext(t *testing.T) {
	e := NewExplorer(random.NewFixed(0))
	ruin := world.Ruin{Floors: []world.Floor{{Level: 1}, {Level: 2}}}

	res := e.ExploreFloor(ruin, 0, []dragon.Dragon{member(1, 1, 1)}, nil)
	assert.True(t, res.Success)
	assert.True(t, res.NextFloorUnlocked)
	assert.Equal(t, 50, res.Experience)
}

func TestRiddles(t *testing.T) {
	e := NewExplorer(random.NewFixed(0))
	ch := world.Challenge{Type: world.Riddle, Difficulty: 2, Description: "A sphinx statue that speaks"}
	require.Equal(t, "echo", RiddleFor(ch).Solution)

	ruin := world.Ruin{Floors: []world.Floor{{Level: 1, Challenges: []world.Challenge{ch}}}}
	team := []dragon.Dragon{member(1, 1, 1)}

	right := e.ExploreFloor(ruin, 0, team, Choices{ChoiceKey(ch): " Echo"})
	assert.True(t, right.Success)
	assert.Equal(t, []string{"wisdom_essence", "ancient_scroll"}, right.Loot)
	assert.Equal(t, 60+50, right.Experience)

	wrong := e.ExploreFloor(ruin, 0, team, Choices{ChoiceKey(ch): "shadow"})
	assert.False(t, wrong.Success)
	assert.Equal(t, 10, wrong.Experience)

	hard := answerRiddle(RiddleFor(world.Challenge{Type: world.Riddle, Difficulty: 5, Description: "x"}), team, "time")
	assert.False(t, hard.Success)
	assert.Equal(t, []string{"The riddle is beyond your understanding"}, hard.Discoveries)
}

func TestPuzzles(t *testing.T) {
	ch := world.Challenge{Type: world.Puzzle, Difficulty: 3, Description: "A wall of sliding runes"}
	assert.Equal(t, PuzzleFor(ch), PuzzleFor(ch))
	assert.Equal(t, MechanicalGears, PuzzleFor(world.Challenge{Type: world.Puzzle, Difficulty: 10}).Kind)

	align := puzzleTemplates[ElementalAlignment][0]
	fireOnly := []dragon.Dragon{member(1, 1, 1)}
	blocked := solvePuzzle(align, fireOnly, align.Solution)
	assert.False(t, blocked.Success)
	assert.Equal(t, []string{"Missing required element: ice"}, blocked.Discoveries)
	assert.Equal(t, 10, blocked.Experience)

	seq := puzzleTemplates[PatternMatching][0]
	solved := solvePuzzle(seq, fireOnly, "1, 1, 2, 3, 5, 8, 13, 21")
	assert.True(t, solved.Success)
	assert.Equal(t, 75, solved.Experience)

	missed := solvePuzzle(seq, fireOnly, "")
	assert.False(t, missed.Success)
	assert.Equal(t, 15, missed.Damage)
}

func TestTrapApproaches(t *testing.T) {
	spike := traps[0]
	ch := world.Challenge{Type: world.Trap, Difficulty: 3}
	scout := dragon.Dragon{Stats: dragon.Stats{Intelligence: 40, Speed: 20}}

	careful := disarmTrap(ch, spike, []dragon.Dragon{scout}, "careful")
	assert.True(t, careful.Success)
	assert.Equal(t, 60, careful.Experience)

	quick := disarmTrap(ch, spike, []dragon.Dragon{scout}, "quick")
	assert.False(t, quick.Success)
	assert.Equal(t, 65, quick.Damage)

	flame := traps[2]
	immune := dragon.Dragon{Abilities: []string{"fire_immunity"}}
	assert.True(t, disarmTrap(ch, flame, []dragon.Dragon{immune}, "").Success)

	mage := dragon.Dragon{Stats: dragon.Stats{Defense: 20, Magic: 121}}
	assert.True(t, disarmTrap(ch, flame, []dragon.Dragon{mage}, "magical").Success)
}

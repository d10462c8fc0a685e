package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEvaluator() *Evaluator {
	return NewEvaluator(Definitions(), func() time.Time { return fixedNow })
}

func ids(list []Achievement) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestCheckCompletesAndTimestamps(t *testing.T) {
	e := newEvaluator()

	done := e.Check(Stats{ExplorationsCompleted: 1})
	require.Equal(t, []string{"first_steps"}, ids(done))
	assert.Equal(t, 100, done[0].Progress)
	require.NotNil(t, done[0].CompletedAt)
	assert.Equal(t, fixedNow, *done[0].CompletedAt)

	assert.Empty(t, e.Check(Stats{ExplorationsCompleted: 5}))
}

func TestProgressIsFlooredAverage(t *testing.T) {
	e := newEvaluator()
	e.Check(Stats{LocationsDiscovered: 3, GoldAccumulated: 2501})

	a, ok := e.Get("world_explorer")
	require.True(t, ok)
	assert.Equal(t, 30, a.Progress)

	g, _ := e.Get("gold_digger")
	assert.Equal(t, 25, g.Progress)
}

func TestCompletionIsIrreversible(t *testing.T) {
	e := newEvaluator()
	e.Check(Stats{GoldAccumulated: 20000})
	e.Check(Stats{GoldAccumulated: 0})

	a, _ := e.Get("gold_digger")
	assert.True(t, a.Completed)
	assert.Equal(t, 100, a.Progress)
}

func TestPrerequisitesGateUnlock(t *testing.T) {
	e := newEvaluator()

	tycoon, _ := e.Get("dragon_tycoon")
	assert.False(t, tycoon.Unlocked)

	// gold_digger precedes dragon_tycoon, so both complete in one pass.
	done := e.Check(Stats{GoldAccumulated: 2_000_000})
	assert.Equal(t, []string{"gold_digger", "dragon_tycoon"}, ids(done))
}

func TestLockedProgressNotComputed(t *testing.T) {
	e := newEvaluator()
	e.Check(Stats{BiomesMastered: 9})

	realm, _ := e.Get("realm_master")
	assert.False(t, realm.Unlocked)
	assert.Equal(t, 0, realm.Progress)
}

func TestSecretLockedNeedsTrigger(t *testing.T) {
	e := newEvaluator()
	assert.Empty(t, e.Check(Stats{SpecialExploration: 1}))

	assert.True(t, e.Trigger("shadow_walker"))
	assert.False(t, e.Trigger("shadow_walker"))
	assert.False(t, e.Trigger("no_such_thing"))

	a, _ := e.Get("shadow_walker")
	assert.True(t, a.Completed)
	assert.True(t, a.Unlocked)
}

func TestDragonGodNeedsEverythingElse(t *testing.T) {
	e := newEvaluator()
	for _, a := range e.All() {
		if a.ID != "dragon_god" {
			e.Trigger(a.ID)
		}
	}
	done := e.Check(Stats{})
	assert.Equal(t, []string{"dragon_god"}, ids(done))
	assert.Equal(t, Summary{Total: 18, Completed: 18, Percentage: 100}, e.CompletionStats())
}

func TestRestoreIsSilent(t *testing.T) {
	e := newEvaluator()
	e.Restore([]string{"first_steps", "unknown"}, fixedNow.Add(-time.Hour))

	assert.Empty(t, e.Check(Stats{ExplorationsCompleted: 3}))
	assert.Equal(t, []string{"first_steps"}, e.CompletedIDs())
}

func TestStatsAndRewards(t *testing.T) {
	e := newEvaluator()
	e.Check(Stats{CombatsWon: 1, FlawlessVictories: 1, GoldAccumulated: 10000})

	assert.Equal(t, Summary{Total: 3, Completed: 2, Percentage: 66}, e.CategoryStats(CategoryCombat))
	assert.Equal(t, Summary{Total: 0}, e.CategoryStats(Category("nonsense")))

	r := e.TotalRewards()
	assert.Equal(t, 1700.0, r.Gold)
	assert.Equal(t, 575.0, r.Experience)
	assert.ElementsMatch(t, []string{"tactical_manual", "golden_pickaxe"}, r.Items)

	assert.Len(t, e.ByCategory(CategoryCombat), 3)
	assert.Len(t, e.Secret(), 2)
}

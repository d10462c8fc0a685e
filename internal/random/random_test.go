package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashSeed(t *testing.T) {
	assert.Equal(t, int64(97), HashSeed("a"))
	assert.Equal(t, int64(0), HashSeed(""))
	// "ab" = 97*31 + 98
	assert.Equal(t, int64(3105), HashSeed("ab"))
}

func TestSeededFirstValue(t *testing.T) {
	s := NewSeeded("a")
	assert.InDelta(t, 18374.0/233280.0, s.Next(), 1e-12)
	assert.Equal(t, 1, s.Position())
}

func TestSeededIsReproducible(t *testing.T) {
	a := NewSeeded("dragons-den")
	b := NewSeeded("dragons-den")
	for i := 0; i < 1000; i++ {
		va, vb := a.Float64(), b.Float64()
		assert.Equal(t, va, vb)
		assert.GreaterOrEqual(t, va, 0.0)
		assert.Less(t, va, 1.0)
	}
	assert.Equal(t, 1000, a.Position())
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := NewSeeded("north")
	b := NewSeeded("south")
	same := 0
	for i := 0; i < 20; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 20)
}

func TestChoiceAndIntnStayInBounds(t *testing.T) {
	s := NewSeeded("bounds")
	items := []string{"fire", "ice", "earth"}
	for i := 0; i < 200; i++ {
		assert.Contains(t, items, Choice[string](s, items))
		n := Intn(s, 5)
		assert.True(t, n >= 0 && n < 5)
	}
	assert.Equal(t, 0, Intn(s, 0))
}

func TestFixedRepeatsLast(t *testing.T) {
	f := NewFixed(0.1, 0.9)
	assert.Equal(t, 0.1, f.Float64())
	assert.Equal(t, 0.9, f.Float64())
	assert.Equal(t, 0.9, f.Float64())
	assert.True(t, Chance(NewFixed(0.2), 0.3))
	assert.False(t, Chance(NewFixed(0.3), 0.3))
	assert.InDelta(t, 15.0, Range(NewFixed(0.5), 10, 20), 1e-9)
}

func TestSystemSourceRange(t *testing.T) {
	src := System()
	for i := 0; i < 100; i++ {
		v := src.Float64()
		assert.True(t, v >= 0 && v < 1)
	}
}

// Package random provides the reproducible stream used by the content
// generators and a system-backed source for server-side rolls.
package random

import (
	"math/rand/v2"
	"unicode/utf16"
)

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Source yields floats in [0,1).
type Source interface {
	Float64() float64
}

// Seeded is a linear congruential generator seeded from a string. Two
// instances with the same seed and call sequence produce identical values
// on every platform. A Seeded must not be shared between goroutines.
type Seeded struct {
	state int64
	draws int
}

func NewSeeded(seed string) *Seeded {
	return &Seeded{state: HashSeed(seed)}
}

// HashSeed folds a string into a non-negative seed using 32-bit
// shift-and-subtract hashing over UTF-16 code units.
func HashSeed(seed string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(seed)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

func (s *Seeded) Float64() float64 {
	s.state = (s.state*lcgMultiplier + lcgIncrement) % lcgModulus
	s.draws++
	return float64(s.state) / lcgModulus
}

// Next is an alias for Float64.
func (s *Seeded) Next() float64 {
	return s.Float64()
}

// Position reports how many values have been drawn.
func (s *Seeded) Position() int {
	return s.draws
}

func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func Range(src Source, min, max float64) float64 {
	return min + src.Float64()*(max-min)
}

func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Choice picks one element. It panics on an empty slice, like indexing would.
func Choice[T any](src Source, items []T) T {
	return items[Intn(src, len(items))]
}

type systemSource struct{}

func (systemSource) Float64() float64 {
	return rand.Float64()
}

// System returns a non-deterministic source backed by math/rand/v2.
func System() Source {
	return systemSource{}
}

// Fixed replays values in order and then repeats the last one. Useful for
// pinning rolls in tests.
type Fixed struct {
	values []float64
	i      int
}

func NewFixed(values ...float64) *Fixed {
	if len(values) == 0 {
		values = []float64{0}
	}
	return &Fixed{values: values}
}

func (f *Fixed) Float64() float64 {
	v := f.values[f.i]
	if f.i < len(f.values)-1 {
		f.i++
	}
	return v
}

// Package choice provides a pluggable random/deterministic selection
// interface for the local simulation: human-player auto-pick uses the
// random chooser; the deterministic one is available where a reproducible
// pick is wanted. The AI players never come through here; their choices are
// internal/policy's deterministic functions.
package choice

import (
	"math/rand"
	"sort"
)

// Chooser selects a single element from a list of options, allowing random
// and deterministic selection to be swapped per caller.
type Chooser interface {
	Choose(options []string) string
}

// RandomChooser picks uniformly at random from an injected source.
type RandomChooser struct {
	rand *rand.Rand
}

// NewRandomChooser creates a new random chooser.
func NewRandomChooser(rand *rand.Rand) *RandomChooser {
	return &RandomChooser{rand: rand}
}

func (r *RandomChooser) Choose(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[r.rand.Intn(len(options))]
}

// DeterministicChooser always picks the alphabetically first option, for
// reproducible tests.
type DeterministicChooser struct{}

func (d *DeterministicChooser) Choose(options []string) string {
	if len(options) == 0 {
		return ""
	}
	sorted := make([]string, len(options))
	copy(sorted, options)
	sort.Strings(sorted)
	return sorted[0]
}

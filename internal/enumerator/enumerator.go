// Package enumerator implements the Solution Enumerator: the stronger
// agent variant's candidate-solution set and consistency check, used to
// discover forced solution cards earlier than local propagation alone
// would.
package enumerator

import (
	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/kb"
)

// consistencyCutoff is the free-card count at or above which a candidate's
// consistency is assumed true without exhaustive search, keeping the
// per-event cost well inside the turn budget. Raising or lowering
// it only trades CPU for precision; soundness (never dropping a truly
// possible candidate) holds for any cutoff because the short-circuit always
// answers "possible", never "impossible".
const consistencyCutoff = 10

// Triple is a candidate (suspect, weapon, room) solution.
type Triple struct {
	Suspect, Weapon, Room string
}

func (t Triple) forCategory(cat cards.Category) string {
	switch cat {
	case cards.Suspect:
		return t.Suspect
	case cards.Weapon:
		return t.Weapon
	default:
		return t.Room
	}
}

// Enumerator owns the set of still-possible solution triples. It mutates
// the KB only through kb.SetSolution, driven by the positional intersection
// of the surviving candidates; it never writes to KB fields directly.
type Enumerator struct {
	kb         *kb.KB
	candidates map[Triple]struct{}
}

// New builds the full 6x6x9 = 324 candidate product and does an initial
// pass so candidates already ruled out by the KB's starting state (the
// agent's own hand) are dropped immediately.
func New(k *kb.KB) (*Enumerator, error) {
	reg := k.Registry
	e := &Enumerator{kb: k, candidates: make(map[Triple]struct{}, 324)}
	for _, s := range reg.ByCategory[cards.Suspect] {
		for _, w := range reg.ByCategory[cards.Weapon] {
			for _, r := range reg.ByCategory[cards.Room] {
				e.candidates[Triple{s, w, r}] = struct{}{}
			}
		}
	}
	return e, e.Update()
}

// Remove discards triple from the candidate set, idempotent. Callers use
// this after a disproved suggestion (the triple cannot be the solution,
// because the disprover held one of its cards) or a failed accusation
// (an incorrect accusation rules its triple out just the same).
func (e *Enumerator) Remove(triple map[cards.Category]string) {
	delete(e.candidates, Triple{
		Suspect: triple[cards.Suspect],
		Weapon:  triple[cards.Weapon],
		Room:    triple[cards.Room],
	})
}

// Candidates returns a snapshot of the surviving candidate triples.
func (e *Enumerator) Candidates() []Triple {
	out := make([]Triple, 0, len(e.candidates))
	for t := range e.candidates {
		out = append(out, t)
	}
	return out
}

// Count is the number of surviving candidates.
func (e *Enumerator) Count() int { return len(e.candidates) }

// Unique returns the sole surviving candidate and true, if exactly one
// remains.
func (e *Enumerator) Unique() (Triple, bool) {
	if len(e.candidates) != 1 {
		return Triple{}, false
	}
	for t := range e.candidates {
		return t, true
	}
	return Triple{}, false
}

// Update re-filters the candidate set against the current KB and then
// computes the positional intersection across survivors, calling
// kb.SetSolution for any category every surviving candidate agrees on.
// Call after every KB-mutating event.
func (e *Enumerator) Update() error {
	survivors := make(map[Triple]struct{}, len(e.candidates))
	for cand := range e.candidates {
		if !e.stillPossible(cand) {
			continue
		}
		if e.consistent(cand) {
			survivors[cand] = struct{}{}
		}
	}
	e.candidates = survivors
	return e.intersectAndSetSolutions()
}

// stillPossible discards any candidate containing a card whose
// owner is known, or whose category already has a different solution.
func (e *Enumerator) stillPossible(cand Triple) bool {
	for _, cat := range cards.Categories {
		tok := cand.forCategory(cat)
		c := e.kb.Cards[tok]
		if c.Owner != kb.OwnerUnknown {
			return false
		}
		if sol, solved := e.kb.SolutionCard(cat); solved && sol != tok {
			return false
		}
	}
	return true
}

func (e *Enumerator) intersectAndSetSolutions() error {
	if len(e.candidates) == 0 {
		return nil
	}
	for _, cat := range cards.Categories {
		if _, solved := e.kb.SolutionCard(cat); solved {
			continue
		}
		var common string
		first := true
		agree := true
		for cand := range e.candidates {
			tok := cand.forCategory(cat)
			if first {
				common = tok
				first = false
				continue
			}
			if tok != common {
				agree = false
				break
			}
		}
		if agree {
			if err := e.kb.SetSolution(common); err != nil {
				return err
			}
		}
	}
	return nil
}

// Package policy implements the turn-time decision functions: suggest,
// disprove, and accuse. Every function is a pure
// read of the knowledge base except suggest (which retires entries from its
// unused-suggestion set) and disprove (which mutates disproved_to); neither
// ever reruns the Propagator — that is strictly the event handlers' job.
package policy

import (
	"sort"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/enumerator"
	"cluedo-agent/internal/kb"
)

// Policy holds the unused-suggestion set alongside the KB it reads.
// Enum is nil for the weak (propagator-only) agent variant; when non-nil,
// Accuse consults it for the "candidate set down to one" shortcut.
type Policy struct {
	kb     *kb.KB
	enum   *enumerator.Enumerator
	unused map[enumerator.Triple]struct{}
}

// New builds a Policy over an already-Reset KB. enum may be nil.
func New(k *kb.KB, enum *enumerator.Enumerator) *Policy {
	p := &Policy{kb: k, enum: enum, unused: make(map[enumerator.Triple]struct{}, 324)}
	reg := k.Registry
	for _, s := range reg.ByCategory[cards.Suspect] {
		for _, w := range reg.ByCategory[cards.Weapon] {
			for _, r := range reg.ByCategory[cards.Room] {
				p.unused[enumerator.Triple{Suspect: s, Weapon: w, Room: r}] = struct{}{}
			}
		}
	}
	return p
}

// Suggest builds a triple by picking, for each category, the
// card with unknown owner and the fewest remaining possible owners (ties
// broken by token order for determinism). If the resulting triple has
// already been suggested, any unused triple is substituted instead; either
// way the chosen triple is retired from the unused set.
func (p *Policy) Suggest() map[cards.Category]string {
	triple := enumerator.Triple{}
	best := map[cards.Category]string{}
	for _, cat := range cards.Categories {
		tok := bestUnowned(p.kb, cat)
		best[cat] = tok
		switch cat {
		case cards.Suspect:
			triple.Suspect = tok
		case cards.Weapon:
			triple.Weapon = tok
		case cards.Room:
			triple.Room = tok
		}
	}

	if _, ok := p.unused[triple]; !ok {
		triple = p.anyUnused()
		best = map[cards.Category]string{
			cards.Suspect: triple.Suspect,
			cards.Weapon:  triple.Weapon,
			cards.Room:    triple.Room,
		}
	}
	delete(p.unused, triple)
	return best
}

// bestUnowned picks the unowned card of cat with the smallest possible-owner
// set. Deterministic tie-break: lexicographically smallest token.
func bestUnowned(k *kb.KB, cat cards.Category) string {
	var chosen string
	best := -1
	for _, tok := range sortedTokens(k.Registry.ByCategory[cat]) {
		c := k.Cards[tok]
		if c.Owner != kb.OwnerUnknown {
			continue
		}
		n := len(c.PossibleOwners)
		if best == -1 || n < best {
			best, chosen = n, tok
		}
	}
	return chosen
}

func sortedTokens(toks []string) []string {
	out := make([]string, len(toks))
	copy(out, toks)
	sort.Strings(out)
	return out
}

// anyUnused returns an arbitrary still-unused triple. Panics only if callers
// misuse it after all 324 triples are exhausted, which a 21-card game of at
// most a few hundred suggestions never reaches.
func (p *Policy) anyUnused() enumerator.Triple {
	for t := range p.unused {
		return t
	}
	panic("policy: no unused suggestions remain")
}

// Disprove prefers a card already shown to
// this suggester (avoids leaking a new one); otherwise it reveals the owned
// candidate shown to the most other players (maximizes future reuse).
// Returns "" if self holds none of the three cards (caller error: disprove
// is only invoked when self has something to show).
func (p *Policy) Disprove(suggester int, triple map[cards.Category]string) string {
	var owned []string
	for _, cat := range cards.Categories {
		tok := triple[cat]
		if c := p.kb.Cards[tok]; c.Owner == p.kb.Self {
			owned = append(owned, tok)
		}
	}
	if len(owned) == 0 {
		return ""
	}
	for _, tok := range owned {
		if _, shown := p.kb.Cards[tok].DisprovedTo[suggester]; shown {
			p.kb.Cards[tok].DisprovedTo[suggester] = struct{}{}
			return tok
		}
	}
	best := owned[0]
	for _, tok := range owned[1:] {
		if len(p.kb.Cards[tok].DisprovedTo) > len(p.kb.Cards[best].DisprovedTo) {
			best = tok
		}
	}
	p.kb.Cards[best].DisprovedTo[suggester] = struct{}{}
	return best
}

// Accuse returns the solution triple and true if the KB (or, failing that,
// the Enumerator) has pinned it down; otherwise false, meaning "no
// accusation this turn".
func (p *Policy) Accuse() (map[cards.Category]string, bool) {
	if p.kb.FullySolved() {
		return p.kb.Solution(), true
	}
	if p.enum != nil {
		if t, ok := p.enum.Unique(); ok {
			return map[cards.Category]string{
				cards.Suspect: t.Suspect,
				cards.Weapon:  t.Weapon,
				cards.Room:    t.Room,
			}, true
		}
	}
	return nil, false
}

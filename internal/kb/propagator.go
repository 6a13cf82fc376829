package kb

import "cluedo-agent/internal/cards"

// Propagator runs the local inference rules over a KB until none of them
// fires. It holds no state of its own; it is a pure function of the KB it
// is pointed at, kept as a distinct type so the "propagate to a fixed
// point" step stays a separate, nameable operation from the primitive
// mutations in kb.go.
type Propagator struct {
	kb *KB
}

// NewPropagator binds a propagator to the knowledge base it will drive.
func NewPropagator(k *KB) *Propagator {
	return &Propagator{kb: k}
}

// Run iterates every rule until a full pass makes no change. Termination is
// guaranteed because each rule strictly shrinks a finite monotone quantity:
// the sum over players of |MayHave|, plus the count of active selection
// groups.
func (p *Propagator) Run() error {
	k := p.kb
	for {
		changed := false
		for _, pl := range k.Players {
			c, err := k.handFull(pl)
			if err != nil {
				return err
			}
			changed = changed || c

			c, err = k.handForced(pl)
			if err != nil {
				return err
			}
			changed = changed || c

			c, err = k.reduceSelectionGroups(pl)
			if err != nil {
				return err
			}
			changed = changed || c

			c, err = k.narrowLastSlot(pl)
			if err != nil {
				return err
			}
			changed = changed || c
		}

		c, err := k.solutionByCardElimination()
		if err != nil {
			return err
		}
		changed = changed || c

		c, err = k.solutionByCategoryElimination()
		if err != nil {
			return err
		}
		changed = changed || c

		if !changed {
			return nil
		}
	}
}

// handFull: if the player's hand is fully accounted for, everything else
// still possible for them is ruled out.
func (k *KB) handFull(pl *PlayerInfo) (bool, error) {
	if len(pl.MustHave) != pl.NCards || len(pl.MayHave) == 0 {
		return false, nil
	}
	changed := false
	for tok := range pl.MayHave {
		if k.Exclude(tok, pl.ID) {
			changed = true
		}
	}
	return changed, nil
}

// handForced: if MustHave plus MayHave exactly fills the hand, every
// MayHave card is owned by this player.
func (k *KB) handForced(pl *PlayerInfo) (bool, error) {
	if len(pl.MustHave)+len(pl.MayHave) != pl.NCards || len(pl.MayHave) == 0 {
		return false, nil
	}
	changed := false
	for tok := range snapshotKeys(pl.MayHave) {
		if err := k.SetOwner(tok, pl.ID); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// reduceSelectionGroups discharges satisfied groups, restricts the rest to
// MayHave, resolves singletons, and fails fatally on an empty group.
func (k *KB) reduceSelectionGroups(pl *PlayerInfo) (bool, error) {
	if len(pl.SelectionGroups) == 0 {
		return false, nil
	}
	changed := false
	var kept []SelectionGroup
	for _, g := range pl.SelectionGroups {
		if groupIntersects(g, pl.MustHave) {
			changed = true // satisfied, discharge
			continue
		}
		restricted := restrictToMayHave(g, pl.MayHave)
		switch len(restricted) {
		case 0:
			return changed, &ErrInconsistent{Reason: "selection group has no remaining candidates"}
		case 1:
			if err := k.SetOwner(restricted[0], pl.ID); err != nil {
				return changed, err
			}
			changed = true
		default:
			if len(restricted) != len(g) {
				changed = true
			}
			kept = append(kept, restricted)
		}
	}
	pl.SelectionGroups = kept
	return changed, nil
}

// narrowLastSlot: with exactly one hand slot left, that card must lie in
// the intersection of every still-active selection group.
func (k *KB) narrowLastSlot(pl *PlayerInfo) (bool, error) {
	if len(pl.MustHave)+1 != pl.NCards || len(pl.SelectionGroups) == 0 {
		return false, nil
	}
	allowed := make(map[string]struct{}, len(pl.MayHave))
	for tok := range pl.MayHave {
		allowed[tok] = struct{}{}
	}
	for _, g := range pl.SelectionGroups {
		if groupIntersects(g, pl.MustHave) {
			continue // reduceSelectionGroups already discharged these this pass
		}
		inGroup := make(map[string]struct{}, len(g))
		for _, tok := range g {
			inGroup[tok] = struct{}{}
		}
		for tok := range allowed {
			if _, ok := inGroup[tok]; !ok {
				delete(allowed, tok)
			}
		}
	}
	changed := false
	for tok := range pl.MayHave {
		if _, ok := allowed[tok]; !ok {
			if k.Exclude(tok, pl.ID) {
				changed = true
			}
		}
	}
	return changed, nil
}

// solutionByCardElimination: a card nobody can hold, with no known owner,
// must be its category's solution.
func (k *KB) solutionByCardElimination() (bool, error) {
	changed := false
	for _, tok := range k.Registry.All {
		c := k.Cards[tok]
		if c.Owner != OwnerUnknown || len(c.PossibleOwners) != 0 {
			continue
		}
		if _, solved := k.solution[c.Category]; solved {
			continue
		}
		if err := k.SetSolution(tok); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// solutionByCategoryElimination: once every card in a category but one has
// a known owner, the last one is the solution.
func (k *KB) solutionByCategoryElimination() (bool, error) {
	changed := false
	for _, cat := range cards.Categories {
		if _, solved := k.solution[cat]; solved {
			continue
		}
		if k.remaining[cat] != 1 {
			continue
		}
		var unique string
		found := false
		for _, tok := range k.Registry.ByCategory[cat] {
			if k.Cards[tok].Owner == OwnerUnknown {
				unique = tok
				found = true
				break
			}
		}
		if !found {
			continue
		}
		if err := k.SetSolution(unique); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

func groupIntersects(g SelectionGroup, set map[string]struct{}) bool {
	for _, tok := range g {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}

func restrictToMayHave(g SelectionGroup, mayHave map[string]struct{}) SelectionGroup {
	var out SelectionGroup
	for _, tok := range g {
		if _, ok := mayHave[tok]; ok {
			out = append(out, tok)
		}
	}
	return out
}

func snapshotKeys(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}

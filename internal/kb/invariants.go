package kb

import (
	"fmt"

	"cluedo-agent/internal/cards"
)

// Verify checks the invariants every event handler must preserve. It never
// mutates state; it exists so tests (and, if ever needed, a defensive
// caller) can assert the KB is well-formed after every event.
func (k *KB) Verify() error {
	if err := k.verifyCardOwnership(); err != nil {
		return err
	}
	if err := k.verifyHandBounds(); err != nil {
		return err
	}
	if err := k.verifySolutionSlots(); err != nil {
		return err
	}
	if err := k.verifyCardBudget(); err != nil {
		return err
	}
	return k.verifySelectionGroups()
}

// Owner known => card in owner.must_have and possible_owners empty.
func (k *KB) verifyCardOwnership() error {
	for tok, c := range k.Cards {
		if c.Owner == OwnerUnknown || c.Owner == OwnerSolution {
			continue
		}
		if len(c.PossibleOwners) != 0 {
			return fmt.Errorf("kb: card %s has known owner %d but %d possible owners remain", tok, c.Owner, len(c.PossibleOwners))
		}
		if _, ok := k.Players[c.Owner].MustHave[tok]; !ok {
			return fmt.Errorf("kb: card %s owner %d but not in their must_have", tok, c.Owner)
		}
	}
	return nil
}

// Hand bounds: |must_have| <= n_cards <= |must_have| + |may_have|.
func (k *KB) verifyHandBounds() error {
	for _, pl := range k.Players {
		if len(pl.MustHave) > pl.NCards {
			return fmt.Errorf("kb: player %d must_have %d exceeds hand size %d", pl.ID, len(pl.MustHave), pl.NCards)
		}
		if pl.NCards > len(pl.MustHave)+len(pl.MayHave) {
			return fmt.Errorf("kb: player %d cannot reach hand size %d (must %d + may %d)", pl.ID, pl.NCards, len(pl.MustHave), len(pl.MayHave))
		}
	}
	return nil
}

// At most one card per category is marked solution; if set, its
// owner is unknown.
func (k *KB) verifySolutionSlots() error {
	for _, cat := range cards.Categories {
		tok, solved := k.solution[cat]
		if !solved {
			continue
		}
		c, ok := k.Cards[tok]
		if !ok {
			return fmt.Errorf("kb: solution for %s names unknown card %s", cat, tok)
		}
		if c.Owner != OwnerUnknown {
			return fmt.Errorf("kb: solution card %s has a known owner %d", tok, c.Owner)
		}
	}
	return nil
}

// Sum of |must_have| across players, plus number of solved
// categories, never exceeds 21. Only this upper bound is checked.
func (k *KB) verifyCardBudget() error {
	total := len(k.solution)
	for _, pl := range k.Players {
		total += len(pl.MustHave)
	}
	if total > k.Registry.CardCount() {
		return fmt.Errorf("kb: accounted for %d cards, more than the %d that exist", total, k.Registry.CardCount())
	}
	return nil
}

// Every active selection group is a non-empty subset of
// may_have.
func (k *KB) verifySelectionGroups() error {
	for _, pl := range k.Players {
		for _, g := range pl.SelectionGroups {
			if len(g) == 0 {
				return fmt.Errorf("kb: player %d has an empty selection group", pl.ID)
			}
			for _, tok := range g {
				if _, ok := pl.MayHave[tok]; !ok {
					return fmt.Errorf("kb: player %d selection group contains %s which is not in may_have", pl.ID, tok)
				}
			}
		}
	}
	return nil
}

package kb

import "cluedo-agent/internal/cards"

// DisproverNone marks "no disprover" for OnSuggestion, matching the wire
// protocol's `-` token.
const DisproverNone = -1

// OnSuggestion translates a suggestion/disproof event into KB deltas and
// runs the propagator to a fixed point.
//
// triple is keyed by category; disprover is DisproverNone if nobody
// disproved; revealed is "" unless this agent is the suggester or the
// disprover (the only parties the wire protocol tells the card to).
func (k *KB) OnSuggestion(suggester int, triple map[cards.Category]string, disprover int, revealed string) error {
	k.Log = append(k.Log, SuggestionRecord{
		Suggester:    suggester,
		Triple:       triple,
		Disprover:    disprover,
		RevealedCard: revealed,
	})

	end := suggester
	if disprover != DisproverNone {
		end = disprover
	}
	for _, p := range cyclicBetween(len(k.Players), (suggester+1)%len(k.Players), end) {
		if p == k.Self {
			continue
		}
		for _, tok := range triple {
			k.Exclude(tok, p)
		}
	}

	if disprover != DisproverNone {
		if revealed != "" {
			if c := k.Cards[revealed]; c.Owner == OwnerUnknown {
				if err := k.SetOwner(revealed, disprover); err != nil {
					return err
				}
			}
			if k.Self == disprover {
				k.Cards[revealed].DisprovedTo[suggester] = struct{}{}
			}
		} else {
			group := make(SelectionGroup, 0, 3)
			for _, cat := range cards.Categories {
				group = append(group, triple[cat])
			}
			k.Players[disprover].SelectionGroups = append(k.Players[disprover].SelectionGroups, group)
		}
	}

	return NewPropagator(k).Run()
}

// OnAccusation translates a failed accusation into KB deltas. The KB alone
// makes no inference here: excluding the three accused cards from the
// accuser's MayHave would be unsound, since an accuser need not hold any of
// the cards it accuses with. Only the solution Enumerator can soundly
// narrow anything on a failed accusation, by removing the triple from its
// candidate set (see internal/enumerator).
func (k *KB) OnAccusation(player int, triple map[cards.Category]string, isWin bool) error {
	return nil
}

// cyclicBetween returns the player indices starting at `from`, stepping by
// one mod n, up to but excluding `to`. Used to find everyone who "passed" on
// a suggestion between the suggester and whoever (if anyone) disproved it.
func cyclicBetween(n, from, to int) []int {
	var out []int
	for i := from; i != to; i = (i + 1) % n {
		out = append(out, i)
	}
	return out
}

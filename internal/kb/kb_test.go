package kb_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/kb"
)

func newTestKB(t *testing.T, playerCount, self int, hand []string) *kb.KB {
	t.Helper()
	reg := cards.New()
	k, err := kb.Reset(reg, playerCount, self, hand)
	require.NoError(t, err)
	return k
}

var selfHand = []string{"Gr", "Ca", "Ba", "Bi", "Co", "Di"}

func TestReset_OwnHandKnownImmediately(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	for _, tok := range selfHand {
		require.Equal(t, 0, k.Cards[tok].Owner)
		require.Empty(t, k.Cards[tok].PossibleOwners)
	}
	// A card outside the hand starts with every other player as a possible
	// owner (self already excluded by Reset).
	_, selfPossible := k.Cards["Mu"].PossibleOwners[0]
	require.False(t, selfPossible)
	require.NoError(t, k.Verify())
}

func TestReset_HandSizeMatchesDistributionRule(t *testing.T) {
	k := newTestKB(t, 4, 0, nil)
	reg := cards.New()
	for i, pl := range k.Players {
		require.Equal(t, reg.HandSize(4, i), pl.NCards)
	}
}

// Direct reveal: 3 players, self=0 holding selfHand. Event:
// suggestion 0 Mu Kn Ha 1 Mu (self is the suggester, player 1 disproves and
// shows Mu since self is a party to the reveal).
func TestOnSuggestion_DirectReveal(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	triple := map[cards.Category]string{cards.Suspect: "Mu", cards.Weapon: "Kn", cards.Room: "Ha"}

	require.NoError(t, k.OnSuggestion(0, triple, 1, "Mu"))

	require.Equal(t, 1, k.Cards["Mu"].Owner)
	_, hasMu := k.Players[1].MustHave["Mu"]
	require.True(t, hasMu)

	// Kn and Ha remain uncertain for player 1.
	_, knMaybe := k.Players[1].MayHave["Kn"]
	require.True(t, knMaybe)
	_, haMaybe := k.Players[1].MayHave["Ha"]
	require.True(t, haMaybe)

	// Player 2 did not pass (nobody is between suggester 0 and disprover 1),
	// so the only exclusion that reaches them is Mu, from the reveal itself.
	_, p2Mu := k.Players[2].MayHave["Mu"]
	require.False(t, p2Mu)

	// The event lands in the append-only suggestion log.
	require.Len(t, k.Log, 1)
	require.Equal(t, 0, k.Log[0].Suggester)
	require.Equal(t, 1, k.Log[0].Disprover)
	require.Equal(t, "Mu", k.Log[0].RevealedCard)

	require.NoError(t, k.Verify())
}

// No disprove: 3 players, self=0. Event: suggestion 1 Pe Pi Li -.
func TestOnSuggestion_NoDisprove(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	triple := map[cards.Category]string{cards.Suspect: "Pe", cards.Weapon: "Pi", cards.Room: "Li"}

	require.NoError(t, k.OnSuggestion(1, triple, kb.DisproverNone, ""))

	// Player 2 is the only other player (besides self, which the handler
	// skips) who passes on this suggestion.
	for _, tok := range []string{"Pe", "Pi", "Li"} {
		_, p2 := k.Players[2].MayHave[tok]
		require.Falsef(t, p2, "expected player 2 to have excluded %s", tok)
	}
	require.NoError(t, k.Verify())
}

// Selection-group narrowing: player 1 already excluded Pe before this
// suggestion; a disproved-but-unshown suggestion 0 Pe Pi Li 1 - adds a
// selection group that immediately reduces to {Pi, Li}. Later, Pi is
// proven to belong to player 2 elsewhere, and the reduction fires again to pin Li on
// player 1.
func TestOnSuggestion_SelectionGroupNarrowing(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	k.Exclude("Pe", 1)

	triple := map[cards.Category]string{cards.Suspect: "Pe", cards.Weapon: "Pi", cards.Room: "Li"}
	require.NoError(t, k.OnSuggestion(0, triple, 1, ""))

	require.Len(t, k.Players[1].SelectionGroups, 1)
	require.ElementsMatch(t, kb.SelectionGroup{"Pi", "Li"}, k.Players[1].SelectionGroups[0])

	// Pi is now proven to be player 2's card by some other event.
	require.NoError(t, k.SetOwner("Pi", 2))
	require.NoError(t, kb.NewPropagator(k).Run())

	require.Equal(t, 1, k.Cards["Li"].Owner)
	require.Empty(t, k.Players[1].SelectionGroups)
	require.NoError(t, k.Verify())
}

// Elimination to solution: once every player has excluded a card, the propagator
// marks it as that category's solution.
func TestPropagator_SolutionByElimination(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	// Wr is not in self's hand, so Reset already excluded player 0.
	k.Exclude("Wr", 1)
	k.Exclude("Wr", 2)

	require.NoError(t, kb.NewPropagator(k).Run())

	tok, solved := k.SolutionCard(cards.Weapon)
	require.True(t, solved)
	require.Equal(t, "Wr", tok)
	require.NoError(t, k.Verify())
}

// Once a category has exactly one card left with unknown owner, that
// card is the solution even if its possible_owners set isn't empty yet
// (e.g. a player hasn't been asked about it).
func TestPropagator_SolutionByCategoryElimination(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	reg := cards.New()
	// Assign all but one of the remaining five suspects to a known owner so
	// the remaining-unowned counter hits 1 while the last one is still unresolved.
	owners := []int{1, 2, 1, 2} // four of the remaining five suspects
	assigned := 0
	var leftover string
	for _, tok := range reg.ByCategory[cards.Suspect] {
		if tok == "Gr" {
			continue // already owned by self via hand
		}
		if assigned < len(owners) {
			require.NoError(t, k.SetOwner(tok, owners[assigned]))
			assigned++
		} else {
			leftover = tok
		}
	}
	require.NotEmpty(t, leftover)

	require.NoError(t, kb.NewPropagator(k).Run())

	tok, solved := k.SolutionCard(cards.Suspect)
	require.True(t, solved)
	require.Equal(t, leftover, tok)
}

// The propagator is confluent — running it again after it has
// already reached a fixed point changes nothing.
func TestPropagator_Confluent(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	triple := map[cards.Category]string{cards.Suspect: "Mu", cards.Weapon: "Kn", cards.Room: "Ha"}
	require.NoError(t, k.OnSuggestion(0, triple, 1, "Mu"))

	before := snapshotCounts(k)
	require.NoError(t, kb.NewPropagator(k).Run())
	after := snapshotCounts(k)
	require.Equal(t, before, after)
}

func snapshotCounts(k *kb.KB) map[string]int {
	out := make(map[string]int, len(k.Players)*2)
	for _, pl := range k.Players {
		out[fmt.Sprintf("%d-must", pl.ID)] = len(pl.MustHave)
		out[fmt.Sprintf("%d-may", pl.ID)] = len(pl.MayHave)
	}
	return out
}

// SetOwner is idempotent: calling it again with the same owner is a no-op,
// not an inconsistency.
func TestSetOwner_IdempotentForSameOwner(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	require.NoError(t, k.SetOwner("Gr", 0))
}

// SetOwner must reject a conflicting owner as a fatal inconsistency.
func TestSetOwner_ConflictingOwnerIsFatal(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	err := k.SetOwner("Gr", 1)
	require.Error(t, err)
	var inconsistent *kb.ErrInconsistent
	require.ErrorAs(t, err, &inconsistent)
}

// An empty selection group must surface as a fatal inconsistency rather
// than silently dropping it.
func TestPropagator_EmptySelectionGroupIsFatal(t *testing.T) {
	k := newTestKB(t, 3, 0, selfHand)
	k.Exclude("Pe", 1)
	k.Exclude("Pi", 1)
	k.Exclude("Li", 1)
	k.Players[1].SelectionGroups = append(k.Players[1].SelectionGroups, kb.SelectionGroup{"Pe", "Pi", "Li"})

	err := kb.NewPropagator(k).Run()
	require.Error(t, err)
	var inconsistent *kb.ErrInconsistent
	require.ErrorAs(t, err, &inconsistent)
}

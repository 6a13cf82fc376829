package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cluedo-agent/internal/agent"
	"cluedo-agent/internal/cards"
)

var selfHand = []string{"Gr", "Ca", "Ba", "Bi", "Co", "Di"}

func newTestAgent(t *testing.T, variant agent.Variant) *agent.Agent {
	t.Helper()
	a := agent.New(cards.New(), variant)
	require.NoError(t, a.Reset(3, 0, selfHand))
	return a
}

func triple(s, w, r string) map[cards.Category]string {
	return map[cards.Category]string{cards.Suspect: s, cards.Weapon: w, cards.Room: r}
}

func TestReset_StartsAFreshGame(t *testing.T) {
	a := newTestAgent(t, agent.Strong)
	require.NoError(t, a.OnSuggestion(0, triple("Mu", "Kn", "Ha"), 1, "Mu"))
	require.Equal(t, 1, a.KB().Cards["Mu"].Owner)

	// A second Reset discards everything learned in the previous game.
	require.NoError(t, a.Reset(3, 0, selfHand))
	assert.Empty(t, a.KB().Log)
	assert.NotEqual(t, 1, a.KB().Cards["Mu"].Owner)
	assert.False(t, a.Done())
}

func TestOnSuggestion_AppendsToTheSuggestionLog(t *testing.T) {
	a := newTestAgent(t, agent.Weak)
	require.NoError(t, a.OnSuggestion(1, triple("Pe", "Pi", "Li"), 2, ""))
	require.NoError(t, a.OnSuggestion(2, triple("Mu", "Kn", "Ha"), -1, ""))

	log := a.KB().Log
	require.Len(t, log, 2)
	assert.Equal(t, 1, log[0].Suggester)
	assert.Equal(t, 2, log[0].Disprover)
	assert.Equal(t, "Pe", log[0].Triple[cards.Suspect])
	assert.Equal(t, -1, log[1].Disprover)
}

// Once a card has been shown to a suggester,
// a later overlapping disprove request from the same suggester must reveal
// the same card again instead of leaking a second one.
func TestDisprove_ReusesPreviouslyShownCard(t *testing.T) {
	a := newTestAgent(t, agent.Weak)

	first := a.Disprove(2, triple("Gr", "Ca", "Ba"))
	require.Contains(t, []string{"Gr", "Ca", "Ba"}, first)

	// The second triple keeps Gr and Ca from the first one but swaps in Li,
	// which self does not hold; if `first` is among the kept cards, it must win.
	second := a.Disprove(2, triple("Gr", "Ca", "Li"))
	if first == "Ba" {
		// No overlap with {Gr, Ca, Li} beyond the two suspects/weapons; the
		// reply must still be a card self owns.
		require.Contains(t, []string{"Gr", "Ca"}, second)
	} else {
		assert.Equal(t, first, second)
	}
}

// A failed accusation narrows only the Strong variant: the Weak agent's KB
// soundly learns nothing from it, while the Strong agent's candidate set
// eventually collapses to the one unrefuted triple.
func TestOnAccusation_StrongVariantCollapsesToLastCandidate(t *testing.T) {
	strong := newTestAgent(t, agent.Strong)
	weak := newTestAgent(t, agent.Weak)

	// Every triple that avoids self's hand is a live candidate; refute all of
	// them but one via rival accusations and the Strong agent must accuse the
	// survivor.
	reg := cards.New()
	owned := make(map[string]struct{}, len(selfHand))
	for _, tok := range selfHand {
		owned[tok] = struct{}{}
	}
	keep := triple("Mu", "Kn", "Ha")
	for _, s := range reg.ByCategory[cards.Suspect] {
		for _, w := range reg.ByCategory[cards.Weapon] {
			for _, r := range reg.ByCategory[cards.Room] {
				if _, ok := owned[s]; ok {
					continue
				}
				if _, ok := owned[w]; ok {
					continue
				}
				if _, ok := owned[r]; ok {
					continue
				}
				if s == keep[cards.Suspect] && w == keep[cards.Weapon] && r == keep[cards.Room] {
					continue
				}
				tr := triple(s, w, r)
				require.NoError(t, strong.OnAccusation(1, tr, false))
				require.NoError(t, weak.OnAccusation(1, tr, false))
			}
		}
	}

	got, ok := strong.Accuse()
	require.True(t, ok, "strong agent should accuse once one candidate remains")
	assert.Equal(t, keep, got)
	assert.True(t, strong.Done())

	_, ok = weak.Accuse()
	assert.False(t, ok, "failed accusations alone teach the weak agent nothing")
	assert.NoError(t, weak.KB().Verify())
}

func TestOnAccusation_WinningAccusationRemovesNothing(t *testing.T) {
	a := newTestAgent(t, agent.Strong)
	require.NoError(t, a.OnAccusation(1, triple("Mu", "Kn", "Ha"), true))
	_, ok := a.Accuse()
	assert.False(t, ok)
}

func TestVariant_StringAndAccessor(t *testing.T) {
	a := agent.New(cards.New(), agent.Weak)
	assert.Equal(t, agent.Weak, a.Variant())
	assert.Equal(t, "weak", agent.Weak.String())
	assert.Equal(t, "strong", agent.Strong.String())
}

// Package kb implements the Knowledge Base: the mutable belief state of a
// single Clue playing agent, and the Propagator that drives it to a
// fixed point after every event.
package kb

import (
	"errors"
	"fmt"

	"cluedo-agent/internal/cards"
)

// Owner sentinel values for Card.Owner.
const (
	OwnerUnknown  = -1
	OwnerSolution = -2
)

// ErrInconsistent is returned when an event leaves the knowledge base in a
// state the propagator cannot reconcile: an empty selection group, or a
// primitive precondition violated. Further deductions from such a state
// would be unsound, so callers must treat it as fatal.
type ErrInconsistent struct {
	Reason string
}

func (e *ErrInconsistent) Error() string {
	return fmt.Sprintf("kb: inconsistent state: %s", e.Reason)
}

// Card is the belief state for a single card. Owner is OwnerUnknown or a
// player index; a solution card keeps OwnerUnknown and is recorded in the
// KB's per-category solution slot instead. PossibleOwners is empty iff Owner
// is known or the card is the solution of its category.
type Card struct {
	Token          string
	Category       cards.Category
	Owner          int
	PossibleOwners map[int]struct{}
	// DisprovedTo records which players this agent has already shown this
	// card to, used only by Policy.Disprove for the agent's own hand.
	DisprovedTo map[int]struct{}
}

func newCard(tok string, cat cards.Category, playerCount int) *Card {
	owners := make(map[int]struct{}, playerCount)
	for p := 0; p < playerCount; p++ {
		owners[p] = struct{}{}
	}
	return &Card{
		Token:          tok,
		Category:       cat,
		Owner:          OwnerUnknown,
		PossibleOwners: owners,
		DisprovedTo:    make(map[int]struct{}),
	}
}

// SelectionGroup is a disjunctive constraint: at least one of these cards is
// in the owning player's hand.
type SelectionGroup []string

// PlayerInfo is the belief record for one player (self included).
type PlayerInfo struct {
	ID              int
	NCards          int
	MustHave        map[string]struct{}
	MayHave         map[string]struct{}
	SelectionGroups []SelectionGroup
}

func newPlayerInfo(id, nCards int, allTokens []string) *PlayerInfo {
	may := make(map[string]struct{}, len(allTokens))
	for _, tok := range allTokens {
		may[tok] = struct{}{}
	}
	return &PlayerInfo{
		ID:       id,
		NCards:   nCards,
		MustHave: make(map[string]struct{}),
		MayHave:  may,
	}
}

// SuggestionRecord is one entry in the append-only suggestion log.
type SuggestionRecord struct {
	Suggester    int
	Triple       map[cards.Category]string
	Disprover    int // -1 if no disprover
	RevealedCard string
}

// KB is the mutable belief state for one agent's view of one game. It is
// created fresh on every Reset and lives for exactly one game; there is no
// cross-game persistence and no module-scope global state.
type KB struct {
	Registry *cards.Registry
	Self     int
	Players  []*PlayerInfo
	Cards    map[string]*Card

	solution map[cards.Category]string // set entries only, one per solved category
	// remaining is the per-category count of cards with unknown owner and no
	// solution yet; when it hits 1 the last unowned card must be the solution.
	remaining map[cards.Category]int

	Log []SuggestionRecord
}

// Reset establishes initial belief for a new game: every card could be
// anywhere, except that the agent's own hand is fully known.
func Reset(reg *cards.Registry, playerCount, selfID int, ownCards []string) (*KB, error) {
	if selfID < 0 || selfID >= playerCount {
		return nil, fmt.Errorf("kb: selfID %d out of range for %d players", selfID, playerCount)
	}
	k := &KB{
		Registry:  reg,
		Self:      selfID,
		Cards:     make(map[string]*Card, reg.CardCount()),
		solution:  make(map[cards.Category]string),
		remaining: make(map[cards.Category]int),
	}
	for _, cat := range cards.Categories {
		k.remaining[cat] = len(reg.ByCategory[cat])
	}
	for _, tok := range reg.All {
		k.Cards[tok] = newCard(tok, reg.CategoryOf[tok], playerCount)
	}
	k.Players = make([]*PlayerInfo, playerCount)
	for p := 0; p < playerCount; p++ {
		k.Players[p] = newPlayerInfo(p, reg.HandSize(playerCount, p), reg.All)
	}

	owned := make(map[string]struct{}, len(ownCards))
	for _, tok := range ownCards {
		if !reg.Valid(tok) {
			return nil, fmt.Errorf("kb: reset given unknown card %q", tok)
		}
		owned[tok] = struct{}{}
		if err := k.SetOwner(tok, selfID); err != nil {
			return nil, err
		}
	}
	for _, tok := range reg.All {
		if _, ok := owned[tok]; !ok {
			k.Exclude(tok, selfID)
		}
	}
	return k, nil
}

// Exclude records that player cannot hold card: if player is still a
// possible owner, it is removed from both sides of the relation.
// Idempotent; returns whether it changed anything.
func (k *KB) Exclude(tok string, player int) bool {
	c := k.Cards[tok]
	if _, ok := c.PossibleOwners[player]; !ok {
		return false
	}
	delete(c.PossibleOwners, player)
	delete(k.Players[player].MayHave, tok)
	return true
}

// SetOwner records that player definitely holds card. Precondition: the
// card's owner is unknown and the card is still in player's MayHave.
func (k *KB) SetOwner(tok string, player int) error {
	c := k.Cards[tok]
	if c.Owner != OwnerUnknown {
		if c.Owner == player {
			return nil // idempotent: already known to be here
		}
		return &ErrInconsistent{Reason: fmt.Sprintf("set_owner(%s, %d): owner already %d", tok, player, c.Owner)}
	}
	if _, ok := k.Players[player].MayHave[tok]; !ok {
		return &ErrInconsistent{Reason: fmt.Sprintf("set_owner(%s, %d): card not in may_have", tok, player)}
	}
	for p := range c.PossibleOwners {
		if p != player {
			k.Exclude(tok, p)
		}
	}
	delete(c.PossibleOwners, player)
	c.Owner = player
	k.Players[player].MustHave[tok] = struct{}{}
	delete(k.Players[player].MayHave, tok)
	k.remaining[c.Category]--
	return nil
}

// SetSolution marks card as its category's hidden solution. Precondition:
// the card's owner is unknown and the category has no solution yet.
func (k *KB) SetSolution(tok string) error {
	c := k.Cards[tok]
	if c.Owner != OwnerUnknown {
		return &ErrInconsistent{Reason: fmt.Sprintf("set_solution(%s): owner already known", tok)}
	}
	if existing, ok := k.solution[c.Category]; ok {
		if existing == tok {
			return nil
		}
		return &ErrInconsistent{Reason: fmt.Sprintf("set_solution(%s): category %s already solved as %s", tok, c.Category, existing)}
	}
	for p := range c.PossibleOwners {
		k.Exclude(tok, p)
	}
	c.PossibleOwners = map[int]struct{}{}
	k.solution[c.Category] = tok
	k.remaining[c.Category]--
	return nil
}

// Solution returns the currently known solution cards, keyed by category.
// Only categories with a confirmed solution appear.
func (k *KB) Solution() map[cards.Category]string {
	out := make(map[cards.Category]string, len(k.solution))
	for cat, tok := range k.solution {
		out[cat] = tok
	}
	return out
}

// SolutionCard returns the solution card for cat and whether it is known.
func (k *KB) SolutionCard(cat cards.Category) (string, bool) {
	tok, ok := k.solution[cat]
	return tok, ok
}

// FullySolved reports whether all three categories have a confirmed solution.
func (k *KB) FullySolved() bool {
	return len(k.solution) == len(cards.Categories)
}

// RemainingUnowned counts the cards in category cat with unknown owner and
// no solution set yet.
func (k *KB) RemainingUnowned(cat cards.Category) int {
	return k.remaining[cat]
}

var errNoSuchPlayer = errors.New("kb: no such player")

func (k *KB) player(id int) (*PlayerInfo, error) {
	if id < 0 || id >= len(k.Players) {
		return nil, errNoSuchPlayer
	}
	return k.Players[id], nil
}

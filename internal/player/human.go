package player

import (
	"sort"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/choice"
	"cluedo-agent/internal/events"
)

// HumanPlayer represents a real person seated in the local simulation. It
// shows cards through its chooser; it makes no suggestion and no accusation
// on its turn (MakeSuggestion returns nil, ShouldAccuse returns false).
type HumanPlayer struct {
	name         string
	hand         map[string]struct{}
	eventManager *events.Manager
	chooser      choice.Chooser
}

// NewHumanPlayer accepts the event manager it will publish hand reveals to
// and the chooser that picks among several showable cards (which card to
// show is the disprover's free choice, so a human player's policy is
// injectable, see internal/choice).
func NewHumanPlayer(eventManager *events.Manager, chooser choice.Chooser) *HumanPlayer {
	return &HumanPlayer{
		hand:         make(map[string]struct{}),
		eventManager: eventManager,
		chooser:      chooser,
	}
}

func (h *HumanPlayer) Name() string  { return h.name }
func (h *HumanPlayer) IsHuman() bool { return true }
func (h *HumanPlayer) Hand() []string {
	var out []string
	for card := range h.hand {
		out = append(out, card)
	}
	sort.Strings(out)
	return out
}

func (h *HumanPlayer) Setup(playerNames []string, myName string) {
	h.name = myName
}

func (h *HumanPlayer) ReceiveHand(cards []string) {
	for _, card := range cards {
		h.hand[card] = struct{}{}
	}
	h.eventManager.Publish(events.HumanHandRevealedEvent{
		PlayerName: h.name,
		Hand:       h.Hand(),
	})
}

// HandleEvent is a no-op: a human absorbs turn results by reading the
// renderer's console output, not through programmatic belief state.
func (h *HumanPlayer) HandleEvent(e events.Event) {}

func (h *HumanPlayer) ChooseCardToShow(suggesterName string, suggestion map[cards.Category]string) string {
	var canShow []string
	for _, card := range suggestion {
		if _, ok := h.hand[card]; ok {
			canShow = append(canShow, card)
		}
	}
	return h.chooser.Choose(canShow)
}

func (h *HumanPlayer) DisplayNotes() {}

// MakeSuggestion returns nil and ShouldAccuse never accuses; nothing in the
// simulation prompts a human for either.
func (h *HumanPlayer) MakeSuggestion() map[cards.Category]string    { return nil }
func (h *HumanPlayer) ShouldAccuse() (map[cards.Category]string, bool) { return nil, false }

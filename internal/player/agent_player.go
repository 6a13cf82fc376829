package player

import (
	"sort"

	"github.com/sirupsen/logrus"

	"cluedo-agent/internal/agent"
	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/events"
	"cluedo-agent/internal/kb"
)

// AgentPlayer adapts an internal/agent.Agent to the Player interface so the
// local in-process simulation (internal/game) can drive it the same way it
// drives a HumanPlayer, over the same event bus.
type AgentPlayer struct {
	name        string
	registry    *cards.Registry
	agent       *agent.Agent
	log         logrus.FieldLogger
	playerNames []string
	self        int
}

// NewAgentPlayer builds an AgentPlayer around a fresh agent.Agent of the
// given variant.
func NewAgentPlayer(registry *cards.Registry, variant agent.Variant, log logrus.FieldLogger) *AgentPlayer {
	return &AgentPlayer{
		registry: registry,
		agent:    agent.New(registry, variant),
		log:      log,
	}
}

func (a *AgentPlayer) Name() string  { return a.name }
func (a *AgentPlayer) IsHuman() bool { return false }

func (a *AgentPlayer) Hand() []string {
	if a.agent.KB() == nil {
		return nil
	}
	var hand []string
	for tok := range a.agent.KB().Players[a.self].MustHave {
		hand = append(hand, tok)
	}
	sort.Strings(hand)
	return hand
}

func (a *AgentPlayer) Setup(playerNames []string, myName string) {
	a.name = myName
	a.playerNames = playerNames
	for i, n := range playerNames {
		if n == myName {
			a.self = i
			break
		}
	}
}

func (a *AgentPlayer) ReceiveHand(hand []string) {
	if err := a.agent.Reset(len(a.playerNames), a.self, hand); err != nil {
		a.log.Errorf("%s: reset: %v", a.name, err)
	}
}

func (a *AgentPlayer) MakeSuggestion() map[cards.Category]string {
	return a.agent.Suggest()
}

func (a *AgentPlayer) ShouldAccuse() (map[cards.Category]string, bool) {
	return a.agent.Accuse()
}

func (a *AgentPlayer) ChooseCardToShow(suggesterName string, suggestion map[cards.Category]string) string {
	return a.agent.Disprove(a.indexOf(suggesterName), suggestion)
}

func (a *AgentPlayer) HandleEvent(e events.Event) {
	event, ok := e.(events.TurnResolvedEvent)
	if !ok {
		return
	}
	disprover := kb.DisproverNone
	if event.DisproverName != "" {
		disprover = a.indexOf(event.DisproverName)
	}
	if err := a.agent.OnSuggestion(a.indexOf(event.SuggesterName), event.Suggestion, disprover, event.RevealedCard); err != nil {
		a.log.Errorf("%s: on_suggestion: %v", a.name, err)
	}
}

func (a *AgentPlayer) DisplayNotes() {}

// KB exposes the underlying knowledge base for the CLI renderer.
func (a *AgentPlayer) KB() *kb.KB { return a.agent.KB() }

// PlayerNames exposes the table seating order for the CLI renderer.
func (a *AgentPlayer) PlayerNames() []string { return a.playerNames }

func (a *AgentPlayer) indexOf(name string) int {
	for i, n := range a.playerNames {
		if n == name {
			return i
		}
	}
	return kb.DisproverNone
}

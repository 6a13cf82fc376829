// Package player adapts the local in-process simulation driver
// (internal/game) to two kinds of participant: a human operator at the
// terminal, and an AI backed by internal/agent.
package player

import (
	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/events"
)

// Player is the interface every participant (human or AI) implements. It
// also implements events.Listener to react to game events.
type Player interface {
	events.Listener

	Name() string
	IsHuman() bool
	Hand() []string
	Setup(playerNames []string, myName string)
	ReceiveHand(cards []string)
	MakeSuggestion() map[cards.Category]string
	ShouldAccuse() (map[cards.Category]string, bool)
	ChooseCardToShow(suggesterName string, suggestion map[cards.Category]string) string
	DisplayNotes()
}

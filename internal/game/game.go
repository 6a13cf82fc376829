// Package game is the local, in-process simulation driver used by
// cmd/cluedo's "start" command: it plays a full game between AI and human
// participants without any network transport, publishing every turn onto
// the same events.Manager the CLI renders from.
package game

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/events"
	"cluedo-agent/internal/player"
)

// MaxTurns bounds a simulation so a pathological game (every agent refusing
// to accuse) still terminates.
const MaxTurns = 50

// Game represents the state and logic of a single Cluedo game.
type Game struct {
	Registry     *cards.Registry
	Players      []player.Player
	Solution     map[cards.Category]string
	EventManager *events.Manager
	turn         int
	log          *logrus.Logger
	rand         *rand.Rand
}

// deal picks the solution triple and deals the rest round-robin.
func (g *Game) deal() {
	deck := make([]string, len(g.Registry.All))
	copy(deck, g.Registry.All)
	g.rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	dealt := make(map[cards.Category]bool, len(cards.Categories))
	var rest []string
	for _, tok := range deck {
		cat := g.Registry.CategoryOf[tok]
		if !dealt[cat] {
			g.Solution[cat] = tok
			dealt[cat] = true
			continue
		}
		rest = append(rest, tok)
	}

	hands := make([][]string, len(g.Players))
	for i, tok := range rest {
		idx := i % len(g.Players)
		hands[idx] = append(hands[idx], tok)
	}

	for i, p := range g.Players {
		p.ReceiveHand(hands[i])
		g.log.Debugf("%s hand: %v", p.Name(), hands[i])
	}
	g.log.Debugf("ground truth initialized, solution: %+v", g.Solution)
}

// handleSuggestion polls players in table order after the suggester for a
// disprover.
func (g *Game) handleSuggestion(suggesterIdx int, suggestion map[cards.Category]string) (string, string) {
	suggesterName := g.Players[suggesterIdx].Name()
	for i := 1; i < len(g.Players); i++ {
		idx := (suggesterIdx + i) % len(g.Players)
		cardShown := g.Players[idx].ChooseCardToShow(suggesterName, suggestion)
		if cardShown != "" {
			return g.Players[idx].Name(), cardShown
		}
	}
	return "", ""
}

// RunSimulation executes the main game loop until an accusation is made or
// the turn limit is reached. A single accusation (correct or not) ends the
// local simulation; internal/referee implements the full multi-round
// elimination loop for networked play.
func (g *Game) RunSimulation() (string, bool) {
	for g.turn < MaxTurns {
		idx := g.turn % len(g.Players)
		current := g.Players[idx]
		g.EventManager.Publish(events.TurnStartEvent{TurnNumber: g.turn + 1, PlayerName: current.Name()})

		if accusation, ok := current.ShouldAccuse(); ok {
			isCorrect := g.checkAccusation(accusation)
			g.EventManager.Publish(events.GameOverEvent{
				Winner:     current.Name(),
				Solution:   g.Solution,
				Accusation: accusation,
				IsCorrect:  isCorrect,
			})
			return current.Name(), isCorrect
		}

		suggestion := current.MakeSuggestion()
		g.EventManager.Publish(events.SuggestionMadeEvent{PlayerName: current.Name(), Suggestion: suggestion})
		disproverName, revealedCard := g.handleSuggestion(idx, suggestion)

		if disproverName != "" {
			g.EventManager.Publish(events.DisprovalEvent{SuggesterName: current.Name(), DisproverName: disproverName, RevealedCard: revealedCard})
		} else {
			g.EventManager.Publish(events.NoDisprovalEvent{})
		}

		for _, p := range g.Players {
			logicEvent := events.TurnResolvedEvent{
				SuggesterName: current.Name(),
				Suggestion:    suggestion,
				DisproverName: disproverName,
			}
			if p.Name() == current.Name() {
				logicEvent.RevealedCard = revealedCard
			}
			p.HandleEvent(logicEvent)
		}

		g.turn++
	}

	g.EventManager.Publish(events.GameOverEvent{Solution: g.Solution})
	return "", false
}

func (g *Game) checkAccusation(accusation map[cards.Category]string) bool {
	for cat, tok := range accusation {
		if g.Solution[cat] != tok {
			return false
		}
	}
	return true
}

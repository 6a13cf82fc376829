package game

import (
	"errors"
	"math/rand"

	"github.com/sirupsen/logrus"

	"cluedo-agent/internal/agent"
	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/choice"
	"cluedo-agent/internal/config"
	"cluedo-agent/internal/events"
	"cluedo-agent/internal/player"
)

// GameBuilder provides a step-by-step API for constructing a Game object.
type GameBuilder struct {
	registry     *cards.Registry
	cfg          *config.GameConfig
	eventManager *events.Manager
	log          *logrus.Logger
	rand         *rand.Rand
	numHumans    int
	numAI        int
	variant      agent.Variant
}

// NewBuilder creates a new GameBuilder with its required dependencies.
func NewBuilder(registry *cards.Registry, cfg *config.GameConfig, logger *logrus.Logger, rand *rand.Rand) *GameBuilder {
	return &GameBuilder{
		registry:     registry,
		cfg:          cfg,
		log:          logger,
		rand:         rand,
		eventManager: events.NewManager(),
		variant:      agent.Strong,
	}
}

// EventManager is a public getter for the unexported field.
func (b *GameBuilder) EventManager() *events.Manager {
	return b.eventManager
}

func (b *GameBuilder) WithHumanPlayers(n int) *GameBuilder {
	b.numHumans = n
	return b
}

func (b *GameBuilder) WithAIPlayers(n int) *GameBuilder {
	b.numAI = n
	return b
}

// WithVariant selects the AI players' agent.Variant (default agent.Strong).
func (b *GameBuilder) WithVariant(v agent.Variant) *GameBuilder {
	b.variant = v
	return b
}

// Build constructs the Game object after all options have been configured.
func (b *GameBuilder) Build() (*Game, error) {
	totalPlayers := b.numHumans + b.numAI
	if totalPlayers < 2 || totalPlayers > len(cards.SuspectTokens) {
		return nil, errors.New("invalid number of players")
	}

	// 1. Pick and shuffle display names for the table, drawn from the
	// configured suspect names as a pool of human-friendly seat names.
	suspects := b.cfg.EntriesForCategory(cards.Suspect)
	names := make([]string, len(suspects))
	for i, e := range suspects {
		names[i] = e.Name
	}
	b.rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	playerNames := names[:totalPlayers]

	// 2. Create the Game object.
	game := &Game{
		Registry:     b.registry,
		EventManager: b.eventManager,
		log:          b.log,
		rand:         b.rand,
		Solution:     make(map[cards.Category]string),
	}

	// 3. Create players, inject dependencies, and subscribe them to events.
	humanChooser := choice.NewRandomChooser(rand.New(rand.NewSource(b.rand.Int63())))
	for i, name := range playerNames {
		var p player.Player
		if i < b.numHumans {
			p = player.NewHumanPlayer(b.eventManager, humanChooser)
		} else {
			p = player.NewAgentPlayer(b.registry, b.variant, b.log)
		}

		playerNamesCopy := make([]string, len(playerNames))
		copy(playerNamesCopy, playerNames)
		p.Setup(playerNamesCopy, name)

		game.Players = append(game.Players, p)
		b.eventManager.Subscribe(p)
	}

	// 4. Deal the cards.
	game.deal()

	b.eventManager.Publish(events.GameReadyEvent{Players: game.Players})

	return game, nil
}

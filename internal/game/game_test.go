package game

import (
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/config"
)

func TestGameDeal(t *testing.T) {
	registry := cards.New()
	cfg, err := config.Load("../../default_config.json")
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	seededRand := rand.New(rand.NewSource(1))

	game, err := NewBuilder(registry, cfg, log, seededRand).WithAIPlayers(4).Build()
	require.NoError(t, err)

	t.Run("solution has one of each card type", func(t *testing.T) {
		for _, cat := range cards.Categories {
			_, ok := game.Solution[cat]
			assert.Truef(t, ok, "solution is missing a %s", cat)
		}
		assert.Len(t, game.Solution, 3)
	})

	t.Run("all cards are accounted for", func(t *testing.T) {
		totalCardsInHands := 0
		for _, p := range game.Players {
			totalCardsInHands += len(p.Hand())
		}
		assert.Equal(t, registry.CardCount(), len(game.Solution)+totalCardsInHands)
	})

	t.Run("no player has a solution card", func(t *testing.T) {
		solutionCards := make(map[string]struct{})
		for _, card := range game.Solution {
			solutionCards[card] = struct{}{}
		}
		for _, p := range game.Players {
			for _, card := range p.Hand() {
				_, isSolution := solutionCards[card]
				assert.Falsef(t, isSolution, "player %s was dealt solution card %s", p.Name(), card)
			}
		}
	})

	t.Run("every player's hand size matches the distribution rule", func(t *testing.T) {
		for i, p := range game.Players {
			want := registry.HandSize(len(game.Players), i)
			assert.Equal(t, want, len(p.Hand()), "player %d (%s)", i, p.Name())
		}
	})
}

func TestGameBuild_RejectsInvalidPlayerCounts(t *testing.T) {
	registry := cards.New()
	cfg, err := config.Load("../../default_config.json")
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(ioutil.Discard)

	_, err = NewBuilder(registry, cfg, log, rand.New(rand.NewSource(1))).WithAIPlayers(1).Build()
	assert.Error(t, err, "one player is not a game")

	_, err = NewBuilder(registry, cfg, log, rand.New(rand.NewSource(1))).WithAIPlayers(7).Build()
	assert.Error(t, err, "more players than suspect seats must be rejected")
}

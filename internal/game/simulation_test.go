package game

import (
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cluedo-agent/internal/agent"
	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/config"
	"cluedo-agent/internal/player"
)

// TestFullSimulation_StrongAgentsAlwaysWinCorrectly exercises a complete
// local game among Strong (Propagator + Enumerator) agents. Unlike a single
// fixed seed asserting one exact turn count, this runs several seeds: a
// sound agent never accuses incorrectly, so every
// seed that reaches an accusation must reach a correct one.
func TestFullSimulation_StrongAgentsAlwaysWinCorrectly(t *testing.T) {
	registry := cards.New()
	cfg, err := config.Load("../../default_config.json")
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(ioutil.Discard)

	for seed := int64(1); seed <= 10; seed++ {
		seededRand := rand.New(rand.NewSource(seed))
		g, err := NewBuilder(registry, cfg, log, seededRand).
			WithAIPlayers(4).
			WithVariant(agent.Strong).
			Build()
		require.NoErrorf(t, err, "seed %d", seed)

		winner, isCorrect := g.RunSimulation()

		if winner == "" {
			// MaxTurns exhausted without any accusation: only acceptable if
			// no strong agent ever pinned down the full solution, which a
			// short 50-turn/4-player game occasionally doesn't reach.
			continue
		}
		assert.Truef(t, isCorrect, "seed %d: %s accused incorrectly; a sound agent must never do this", seed, winner)
	}
}

// TestFullSimulation_DeterministicReplay checks that the same seed produces
// the same outcome twice, since the local simulation has no hidden sources
// of nondeterminism (the core is single-threaded and
// synchronous).
func TestFullSimulation_DeterministicReplay(t *testing.T) {
	registry := cards.New()
	cfg, err := config.Load("../../default_config.json")
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(ioutil.Discard)

	run := func() (string, bool, int) {
		seededRand := rand.New(rand.NewSource(42))
		g, err := NewBuilder(registry, cfg, log, seededRand).WithAIPlayers(3).Build()
		require.NoError(t, err)
		winner, ok := g.RunSimulation()
		return winner, ok, g.turn
	}

	w1, ok1, turn1 := run()
	w2, ok2, turn2 := run()

	assert.Equal(t, w1, w2)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, turn1, turn2)
}

// TestFullSimulation_KBStaysConsistent runs a game and re-verifies every
// agent's knowledge base invariants
// after the simulation ends.
func TestFullSimulation_KBStaysConsistent(t *testing.T) {
	registry := cards.New()
	cfg, err := config.Load("../../default_config.json")
	require.NoError(t, err)
	log := logrus.New()
	log.SetOutput(ioutil.Discard)
	seededRand := rand.New(rand.NewSource(7))

	g, err := NewBuilder(registry, cfg, log, seededRand).WithAIPlayers(4).Build()
	require.NoError(t, err)
	g.RunSimulation()

	for _, p := range g.Players {
		ap, ok := p.(*player.AgentPlayer)
		if !ok {
			continue
		}
		assert.NoErrorf(t, ap.KB().Verify(), "%s: invariant violated after simulation", p.Name())
	}
}

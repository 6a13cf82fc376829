// Package agent wires the Knowledge Base, Propagator, optional Solution
// Enumerator, and Policy into the capability set a transport or local
// simulation drives a single player through.
package agent

import (
	"fmt"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/enumerator"
	"cluedo-agent/internal/kb"
	"cluedo-agent/internal/policy"
)

// Variant selects whether an Agent runs the Solution Enumerator alongside
// the Propagator (the "strong" variant) or relies on
// local propagation alone (the "weak" variant).
type Variant int

const (
	// Weak runs the Propagator only.
	Weak Variant = iota
	// Strong additionally runs the Solution Enumerator after every event.
	Strong
)

func (v Variant) String() string {
	if v == Strong {
		return "strong"
	}
	return "weak"
}

// Agent is one player's reasoning engine. Reset creates a fresh KB (and, for
// the Strong variant, a fresh Enumerator); the Agent is unusable before Reset,
// and calling Reset again starts a new game with nothing carried over.
type Agent struct {
	variant  Variant
	registry *cards.Registry

	kb     *kb.KB
	enum   *enumerator.Enumerator
	policy *policy.Policy
}

// New constructs an Agent bound to registry and variant. Call Reset before
// any other method.
func New(registry *cards.Registry, variant Variant) *Agent {
	return &Agent{variant: variant, registry: registry}
}

// Variant reports which mode this agent runs in.
func (a *Agent) Variant() Variant { return a.variant }

// Reset starts a new game with a fresh belief state.
func (a *Agent) Reset(playerCount, selfID int, ownCards []string) error {
	k, err := kb.Reset(a.registry, playerCount, selfID, ownCards)
	if err != nil {
		return fmt.Errorf("agent: reset: %w", err)
	}
	a.kb = k
	a.enum = nil
	if a.variant == Strong {
		enum, err := enumerator.New(k)
		if err != nil {
			return fmt.Errorf("agent: reset: enumerator: %w", err)
		}
		a.enum = enum
	}
	a.policy = policy.New(k, a.enum)
	return nil
}

// KB exposes the underlying knowledge base, mainly for rendering and tests.
func (a *Agent) KB() *kb.KB { return a.kb }

// Suggest chooses this agent's suggestion for its turn.
func (a *Agent) Suggest() map[cards.Category]string {
	return a.policy.Suggest()
}

// Disprove chooses which owned card (if any) to reveal to suggester holding
// triple. Returns "" if self has none of the three cards.
func (a *Agent) Disprove(suggester int, triple map[cards.Category]string) string {
	return a.policy.Disprove(suggester, triple)
}

// Accuse returns this agent's accusation for its turn, if any.
func (a *Agent) Accuse() (map[cards.Category]string, bool) {
	return a.policy.Accuse()
}

// OnSuggestion folds a suggestion/disproof event into belief state: KB
// deltas, Propagator to fixed point, and (Strong variant) Enumerator
// re-filtering.
func (a *Agent) OnSuggestion(suggester int, triple map[cards.Category]string, disprover int, revealed string) error {
	if err := a.kb.OnSuggestion(suggester, triple, disprover, revealed); err != nil {
		return fmt.Errorf("agent: on_suggestion: %w", err)
	}
	if a.enum != nil {
		if disprover != kb.DisproverNone {
			a.enum.Remove(triple)
		}
		if err := a.enum.Update(); err != nil {
			return fmt.Errorf("agent: on_suggestion: enumerator: %w", err)
		}
	}
	return nil
}

// OnAccusation folds a (possibly failed) accusation into belief state
// (see the soundness note on kb.OnAccusation).
func (a *Agent) OnAccusation(player int, triple map[cards.Category]string, isWin bool) error {
	if err := a.kb.OnAccusation(player, triple, isWin); err != nil {
		return fmt.Errorf("agent: on_accusation: %w", err)
	}
	if a.enum != nil && !isWin {
		a.enum.Remove(triple)
		if err := a.enum.Update(); err != nil {
			return fmt.Errorf("agent: on_accusation: enumerator: %w", err)
		}
	}
	return nil
}

// MarkRevealed records that card is known to be held by owner outside the
// normal suggestion/disproof flow (the detective co-pilot's "reveal"
// command, for a card shown independently of a logged suggestion) and runs
// the propagator to a fixed point. A no-op if the owner is already known.
func (a *Agent) MarkRevealed(card string, owner int) error {
	if c := a.kb.Cards[card]; c.Owner == kb.OwnerUnknown {
		if err := a.kb.SetOwner(card, owner); err != nil {
			return fmt.Errorf("agent: mark_revealed: %w", err)
		}
	}
	if err := kb.NewPropagator(a.kb).Run(); err != nil {
		return fmt.Errorf("agent: mark_revealed: %w", err)
	}
	if a.enum != nil {
		if err := a.enum.Update(); err != nil {
			return fmt.Errorf("agent: mark_revealed: enumerator: %w", err)
		}
	}
	return nil
}

// Done reports whether the game is over from this agent's perspective: the
// solution is fully known, or (Strong variant) the candidate set has
// collapsed to a single triple.
func (a *Agent) Done() bool {
	if a.kb.FullySolved() {
		return true
	}
	if a.enum != nil {
		_, ok := a.enum.Unique()
		return ok
	}
	return false
}

// Package config loads the presentation-layer card names the CLI renders,
// keyed by the two-letter wire tokens that internal/cards, internal/kb, and
// internal/wire treat as the canonical card identity. Display names are a
// presentation concern only; nothing below the CLI ever sees them.
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"cluedo-agent/internal/cards"
)

// CardEntry pairs a wire token with the human-readable name the CLI shows
// for it.
type CardEntry struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// GameConfig holds the display names for every card, grouped by category in
// the file for readability but indexed by token for lookups.
type GameConfig struct {
	Suspects []CardEntry `json:"suspects"`
	Weapons  []CardEntry `json:"weapons"`
	Rooms    []CardEntry `json:"rooms"`

	displayName map[string]string
}

// Load reads and validates a config file against the fixed cards.Registry:
// every token named by the registry must appear exactly once across the
// three lists, and no unknown token may appear.
func Load(path string) (*GameConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.index(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *GameConfig) index() error {
	c.displayName = make(map[string]string, len(c.Suspects)+len(c.Weapons)+len(c.Rooms))
	reg := cards.New()
	for _, group := range [][]CardEntry{c.Suspects, c.Weapons, c.Rooms} {
		for _, e := range group {
			if !reg.Valid(e.Token) {
				return fmt.Errorf("config: unknown card token %q", e.Token)
			}
			if _, dup := c.displayName[e.Token]; dup {
				return fmt.Errorf("config: duplicate card token %q", e.Token)
			}
			c.displayName[e.Token] = e.Name
		}
	}
	for _, tok := range reg.All {
		if _, ok := c.displayName[tok]; !ok {
			return fmt.Errorf("config: missing display name for card token %q", tok)
		}
	}
	return nil
}

// Name returns the display name for a card token, or the token itself if
// the config has no entry for it (keeps the CLI rendering degrading
// gracefully rather than failing on a stale config file).
func (c *GameConfig) Name(token string) string {
	if name, ok := c.displayName[token]; ok {
		return name
	}
	return token
}

// EntriesForCategory returns the configured entries for cat in file order.
func (c *GameConfig) EntriesForCategory(cat cards.Category) []CardEntry {
	switch cat {
	case cards.Suspect:
		return c.Suspects
	case cards.Weapon:
		return c.Weapons
	default:
		return c.Rooms
	}
}

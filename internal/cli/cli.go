// Package cli implements the interactive front-end: a terminal co-pilot
// for a real-life game ("detective" mode) and a fast local simulation
// ("start" mode), both driven by internal/agent.
package cli

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"cluedo-agent/internal/agent"
	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/config"
	"cluedo-agent/internal/game"
	"cluedo-agent/internal/kb"
)

// CLI manages all command-line interactions.
type CLI struct {
	log      *logrus.Logger
	line     *liner.State
	registry *cards.Registry
}

// NewCLI creates a new command-line interface manager.
func NewCLI(log *logrus.Logger) *CLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &CLI{
		log:      log,
		line:     line,
		registry: cards.New(),
	}
}

// Run is the main entry point for the CLI application.
func (c *CLI) Run(args []string, cfg *config.GameConfig, rnd *rand.Rand) error {
	defer c.line.Close()
	if len(args) < 1 {
		c.printUsage()
		return errors.New("no command provided")
	}

	switch args[0] {
	case "detective":
		return c.runDetectiveMode(cfg)
	case "start":
		if len(args) != 3 {
			c.printUsage()
			return errors.New("invalid arguments for 'start' command")
		}
		numHumans, _ := strconv.Atoi(args[1])
		numAI, _ := strconv.Atoi(args[2])
		return c.runSimulationMode(cfg, numHumans, numAI, rnd)
	default:
		c.printUsage()
		return fmt.Errorf("unknown command '%s'", args[0])
	}
}

func (c *CLI) runSimulationMode(cfg *config.GameConfig, numHumans, numAI int, rnd *rand.Rand) error {
	C.Header.Println("--- Running Fast Simulation ---")

	builder := game.NewBuilder(c.registry, cfg, c.log, rnd)
	renderer := &SimulationRenderer{registry: c.registry, cfg: cfg}
	builder.EventManager().Subscribe(renderer)

	g, err := builder.WithHumanPlayers(numHumans).WithAIPlayers(numAI).Build()
	if err != nil {
		return fmt.Errorf("failed to build game: %w", err)
	}

	winnerName, _ := g.RunSimulation()

	if winnerName != "" {
		for _, p := range g.Players {
			if p.Name() == winnerName {
				DisplayAINotes(p, c.registry, cfg)
				break
			}
		}
	}
	return nil
}

// detectiveBrain wraps an internal/agent.Agent as the co-pilot a human
// types real-life observations into; it is not a game.Player because
// detective mode never drives a simulation turn loop of its own.
type detectiveBrain struct {
	agent       *agent.Agent
	registry    *cards.Registry
	cfg         *config.GameConfig
	playerNames []string
	self        int
	name        string
}

func newDetectiveBrain(registry *cards.Registry, variant agent.Variant) *detectiveBrain {
	return &detectiveBrain{registry: registry, agent: agent.New(registry, variant)}
}

func (d *detectiveBrain) setup(cfg *config.GameConfig, playerNames []string, myName string) {
	d.cfg = cfg
	d.playerNames = playerNames
	d.name = myName
	for i, n := range playerNames {
		if n == myName {
			d.self = i
			break
		}
	}
}

func (d *detectiveBrain) receiveHand(hand []string) error {
	return d.agent.Reset(len(d.playerNames), d.self, hand)
}

func (d *detectiveBrain) hand() []string {
	var out []string
	for tok := range d.agent.KB().Players[d.self].MustHave {
		out = append(out, tok)
	}
	return out
}

func (d *detectiveBrain) nameOf(idx int) string {
	if idx < 0 || idx >= len(d.playerNames) {
		return "?"
	}
	return d.playerNames[idx]
}

func (d *detectiveBrain) indexOf(name string) int {
	for i, n := range d.playerNames {
		if n == name {
			return i
		}
	}
	return kb.DisproverNone
}

func (c *CLI) runDetectiveMode(cfg *config.GameConfig) error {
	C.Info.Println("\n--- Starting Detective Mode Co-Pilot ---")
	numPlayers := c.promptForInt("How many players are in the real game? (2-6): ", 2, 6)
	var playerNames []string
	for i := 0; i < numPlayers; i++ {
		name := c.promptForString(fmt.Sprintf("Enter name for Player %d: ", i+1))
		playerNames = append(playerNames, name)
	}
	myPlayerName := c.promptForSelection("Which player are you?", playerNames)
	C.Info.Println("\nSelect the cards in your hand. Type 'done' when finished.")
	myHand := c.promptForCards(c.registry, cfg, true, 0)

	brain := newDetectiveBrain(c.registry, agent.Strong)
	brain.setup(cfg, playerNames, myPlayerName)
	if err := brain.receiveHand(myHand); err != nil {
		return fmt.Errorf("detective mode: %w", err)
	}

	C.Info.Println("\nDetective Mode is active! Your co-pilot is ready.")
	c.handleNotesCommand(brain) // Initial display
	c.printDetectiveHelp()

	// Main command loop for detective mode
	for {
		input, err := c.line.Prompt("(detective) ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				C.Info.Println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("error reading line: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		c.line.AppendHistory(input)
		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "log", "l":
			c.handleLogCommand(brain)
		case "reveal", "r":
			c.handleRevealCommand(brain)
		case "suggest", "s":
			c.handleSuggestCommand(brain)
		case "notes", "n":
			c.handleNotesCommand(brain)
		case "history", "hist":
			c.handleHistoryCommand(brain)
		case "hand", "ha":
			c.handleHandCommand(brain)
		case "help", "h":
			c.printDetectiveHelp()
		case "quit", "q":
			C.Info.Println("Exiting detective mode.")
			return nil
		default:
			C.Warn.Printf("Unknown command '%s'. Type 'help' for a list of commands.\n", cmd)
		}
	}
}

func (c *CLI) handleNotesCommand(brain *detectiveBrain) {
	RenderNotes(brain.name, brain.registry, brain.cfg, brain.playerNames, brain.agent.KB())
}

func (c *CLI) handleLogCommand(brain *detectiveBrain) {
	C.Info.Println("\n--- Log a Game Turn ---")
	suggester := c.promptForSelection("Who made the suggestion?", brain.playerNames)
	C.Info.Println("What 3 cards were suggested?")
	suggestionCards := c.promptForCards(brain.registry, brain.cfg, false, 3)
	if len(suggestionCards) != 3 {
		C.Warn.Println("Error: A suggestion must have exactly 3 cards.")
		return
	}
	triple := make(map[cards.Category]string, 3)
	for _, tok := range suggestionCards {
		triple[brain.registry.CategoryOf[tok]] = tok
	}

	disproverOptions := append(append([]string{}, brain.playerNames...), "No One")
	disprover := c.promptForSelection("Who disproved the suggestion?", disproverOptions)

	disproverIdx := kb.DisproverNone
	revealed := ""
	if disprover != "No One" {
		disproverIdx = brain.indexOf(disprover)
		if suggester == brain.name || disprover == brain.name {
			C.Info.Println("What card were you shown?")
			revealedCards := c.promptForCards(brain.registry, brain.cfg, true, 1)
			if len(revealedCards) > 0 {
				revealed = revealedCards[0]
			}
		}
	}

	if err := brain.agent.OnSuggestion(brain.indexOf(suggester), triple, disproverIdx, revealed); err != nil {
		C.Warn.Printf("Error logging turn: %v\n", err)
		return
	}
	C.Info.Println("Turn logged. Here are your updated notes:")
	c.handleNotesCommand(brain)
}

func (c *CLI) handleRevealCommand(brain *detectiveBrain) {
	C.Info.Println("\n--- Log a Revealed Card ---")
	pName := c.promptForSelection("Which player revealed a card?", brain.playerNames)
	C.Info.Println("Which card did they reveal?")
	revealedCards := c.promptForCards(brain.registry, brain.cfg, true, 1)
	if len(revealedCards) == 0 {
		return
	}
	if err := brain.agent.MarkRevealed(revealedCards[0], brain.indexOf(pName)); err != nil {
		C.Warn.Printf("Error logging reveal: %v\n", err)
		return
	}
	C.Info.Println("Revealed card logged.")
	c.handleNotesCommand(brain)
}

func (c *CLI) handleSuggestCommand(brain *detectiveBrain) {
	C.Header.Println("\n--- AI Co-Pilot Suggestion ---")
	suggestion := brain.agent.Suggest()
	var parts []string
	for _, cat := range cards.Categories {
		parts = append(parts, ColorizeCard(brain.cfg.Name(suggestion[cat])))
	}
	C.Info.Printf("The AI suggests you propose: %s\n", strings.Join(parts, ", "))
}

func (c *CLI) handleHistoryCommand(brain *detectiveBrain) {
	C.Header.Println("\n--- Suggestion History ---")
	log := brain.agent.KB().Log
	if len(log) == 0 {
		C.Info.Println("No turns logged yet.")
		return
	}
	for i, rec := range log {
		var parts []string
		for _, cat := range cards.Categories {
			parts = append(parts, ColorizeCard(brain.cfg.Name(rec.Triple[cat])))
		}
		line := fmt.Sprintf("%2d. %s suggested %s", i+1, ColorizeCard(brain.nameOf(rec.Suggester)), strings.Join(parts, ", "))
		if rec.Disprover == kb.DisproverNone {
			line += " — nobody disproved"
		} else {
			line += " — disproved by " + ColorizeCard(brain.nameOf(rec.Disprover))
			if rec.RevealedCard != "" {
				line += " showing " + ColorizeCard(brain.cfg.Name(rec.RevealedCard))
			}
		}
		C.Info.Println(line)
	}
}

func (c *CLI) handleHandCommand(brain *detectiveBrain) {
	C.Header.Println("\n--- Your Hand ---")
	for _, tok := range brain.hand() {
		C.Info.Println(" - " + ColorizeCard(brain.cfg.Name(tok)))
	}
}

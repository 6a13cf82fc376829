package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/config"
	"cluedo-agent/internal/kb"
)

// C holds pre-configured color objects for printing to the console.
var C = struct {
	Yes, No, Maybe, Info, Warn, Header, Prompt, Debug *color.Color
}{
	Yes:    color.New(color.FgGreen),
	No:     color.New(color.FgRed),
	Maybe:  color.New(color.FgYellow),
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
	Prompt: color.New(color.FgHiWhite),
	Debug:  color.New(color.FgMagenta),
}

// SuspectColors maps suspect display names to specific colors, matching the
// names configured in default_config.json.
var SuspectColors = map[string]*color.Color{
	"Reverend Green":  color.New(color.FgGreen),
	"Colonel Mustard": color.New(color.FgYellow),
	"Mrs Peacock":     color.New(color.FgBlue),
	"Professor Plum":  color.New(color.FgMagenta),
	"Miss Scarlett":   color.New(color.FgRed),
	"Mrs White":       color.New(color.FgWhite),
}

// ColorizeCard returns a display name as a colored string if it's a suspect.
func ColorizeCard(name string) string {
	if c, ok := SuspectColors[name]; ok {
		return c.Sprint(name)
	}
	return name
}

// cardStatus is the Yes/No/Maybe trio the notes grid renders, derived on
// the fly from a kb.KB rather than cached: the KB is already the single
// source of truth, so the grid just reads it.
type cardStatus int

const (
	statusMaybe cardStatus = iota
	statusYes
	statusNo
)

func statusToSymbol(status cardStatus) string {
	switch status {
	case statusYes:
		return C.Yes.Sprint("✔")
	case statusNo:
		return C.No.Sprint("✖")
	default:
		return C.Maybe.Sprint("?")
	}
}

// playerStatus reports what k knows about whether player p holds card tok.
func playerStatus(k *kb.KB, tok string, p int) cardStatus {
	c := k.Cards[tok]
	if c.Owner == p {
		return statusYes
	}
	if c.Owner != kb.OwnerUnknown {
		return statusNo
	}
	if _, possible := c.PossibleOwners[p]; !possible {
		return statusNo
	}
	return statusMaybe
}

// solutionStatus reports what k knows about whether tok is the solution of
// its own category.
func solutionStatus(k *kb.KB, tok string, cat cards.Category) cardStatus {
	sol, solved := k.SolutionCard(cat)
	if !solved {
		if k.Cards[tok].Owner != kb.OwnerUnknown {
			return statusNo
		}
		return statusMaybe
	}
	if sol == tok {
		return statusYes
	}
	return statusNo
}

// RenderNotes displays the agent's knowledge grid in a formatted table, one
// row per card and one column per player plus a solution column: the
// per-card owner/possible-owners belief, rendered for a human.
func RenderNotes(playerName string, registry *cards.Registry, cfg *config.GameConfig, playerNames []string, k *kb.KB) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("%s's Detective Notes", playerName))
	header := table.Row{"ID", "Card", "Type"}
	for _, pName := range playerNames {
		header = append(header, ColorizeCard(pName))
	}
	header = append(header, "Solution")
	t.AppendHeader(header)

	id := 0
	for _, cat := range cards.Categories {
		for i, tok := range registry.ByCategory[cat] {
			if i == 0 && id > 0 {
				t.AppendSeparator()
			}
			id++
			row := table.Row{id, cfg.Name(tok), cat.String()}
			for p := range playerNames {
				row = append(row, statusToSymbol(playerStatus(k, tok, p)))
			}
			row = append(row, statusToSymbol(solutionStatus(k, tok, cat)))
			t.AppendRow(row)
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	t.Style().Title.Align = text.AlignCenter
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, Align: text.AlignRight}})
	t.Render()
}

// --- Prompting and Usage ---

func (c *CLI) printUsage() {
	C.Header.Println("\n--- Cluedo Toolbox ---")
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/cluedo detective")
	fmt.Println("    To run the AI co-pilot for a real-life game.")
	fmt.Println("  go run ./cmd/cluedo start <humans> <ai>")
	fmt.Println("    To run a fast simulation with a mix of players.")
	fmt.Println("\nFlags:")
	fmt.Println("  -loglevel debug    Enable detailed AI logic tracing.")
}

func (c *CLI) printDetectiveHelp() {
	C.Header.Println("\n--- Detective Mode Help ---")
	fmt.Println("Log events from your real-life game, and the AI will track everything for you.")

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Command", "Alias", "Description"})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"log", "l", "Log a full game turn (suggestion and result)."},
		{"reveal", "r", "Log a single card revealed by a player."},
		{"suggest", "s", "Ask the AI co-pilot for a strategic suggestion."},
		{"notes", "n", "Display the AI's current detective notes grid."},
		{"history", "hist", "Display every suggestion logged so far."},
		{"hand", "ha", "Display the cards currently in your hand."},
		{"help", "h", "Show this help message."},
		{"quit", "q", "Exit detective mode."},
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	C.Prompt.Print("\nEnter a command: ")
}

func (c *CLI) promptForString(prompt string) string {
	for {
		C.Prompt.Print(prompt)
		input, err := c.line.Prompt("")
		if err != nil {
			C.Info.Println("\nGoodbye!")
			os.Exit(0)
		}
		trimmed := strings.TrimSpace(input)
		if trimmed != "" {
			c.line.AppendHistory(trimmed)
			return trimmed
		}
	}
}

func (c *CLI) promptForInt(prompt string, min, max int) int {
	for {
		input := c.promptForString(prompt)
		num, err := strconv.Atoi(input)
		if err != nil || num < min || num > max {
			C.Warn.Printf("Invalid input. Please enter a number between %d and %d.\n", min, max)
			continue
		}
		return num
	}
}

func (c *CLI) promptForSelection(prompt string, options []string) string {
	for {
		C.Header.Println("\n" + prompt)
		for i, opt := range options {
			fmt.Printf(" %2d: %s\n", i+1, ColorizeCard(opt))
		}
		input := c.promptForString("Enter number or name: ")
		if num, err := strconv.Atoi(input); err == nil && num >= 1 && num <= len(options) {
			return options[num-1]
		}
		for _, opt := range options {
			if strings.EqualFold(opt, input) {
				return opt
			}
		}
		C.Warn.Println("Invalid selection.")
	}
}

// promptForCards reads card selections against registry/cfg, accepting a
// card's list number, its two-letter wire token, or its display name, and
// returns the chosen wire tokens (the canonical card identity used by
// internal/kb).
func (c *CLI) promptForCards(registry *cards.Registry, cfg *config.GameConfig, requireAtLeastOne bool, exactCount int) []string {
	var chosen []string
	chosenSet := make(map[string]struct{})
	C.Header.Println("\n--- Card List ---")
	for i, tok := range registry.All {
		fmt.Printf("%2d: %-18s", i+1, cfg.Name(tok))
		if (i+1)%3 == 0 {
			fmt.Println()
		}
	}
	fmt.Println()

	for {
		if exactCount > 0 && len(chosen) == exactCount {
			break
		}
		prompt := "Enter card name/number"
		if exactCount > 0 {
			prompt = fmt.Sprintf("Enter card %d of %d", len(chosen)+1, exactCount)
		} else {
			prompt += " (or 'done')"
		}
		input := c.promptForString(prompt + ": ")
		if exactCount == 0 && strings.EqualFold(input, "done") {
			if requireAtLeastOne && len(chosen) == 0 {
				C.Warn.Println("Please enter at least one card.")
				continue
			}
			break
		}
		found := findCard(registry, cfg, input)
		if found == "" {
			C.Warn.Printf("Error: Card %q not found.\n", input)
		} else if _, exists := chosenSet[found]; exists {
			C.Warn.Printf("You have already entered '%s'.\n", cfg.Name(found))
		} else {
			chosen = append(chosen, found)
			chosenSet[found] = struct{}{}
			C.Info.Printf(" -> Added: %s\n", ColorizeCard(cfg.Name(found)))
		}
	}
	return chosen
}

func findCard(registry *cards.Registry, cfg *config.GameConfig, input string) string {
	if num, err := strconv.Atoi(input); err == nil && num >= 1 && num <= len(registry.All) {
		return registry.All[num-1]
	}
	for _, tok := range registry.All {
		if strings.EqualFold(tok, input) || strings.EqualFold(cfg.Name(tok), input) {
			return tok
		}
	}
	return ""
}

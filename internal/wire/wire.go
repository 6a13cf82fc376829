// Package wire implements the referee-to-agent command protocol: one
// parse/format pair per command, operating on whitespace-delimited token
// slices that Dispatch splits from a line internal/transport received over
// either framing.
package wire

import (
	"fmt"
	"strconv"
	"strings"

	"cluedo-agent/internal/cards"
)

// ErrProtocolViolation wraps a malformed message or unknown command:
// fatal, the caller must close the connection.
type ErrProtocolViolation struct {
	Detail string
}

func (e *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("wire: protocol violation: %s", e.Detail)
}

// Command is the parsed command name of an inbound line.
type Command string

const (
	CmdReset      Command = "reset"
	CmdSuggest    Command = "suggest"
	CmdSuggestion Command = "suggestion"
	CmdDisprove   Command = "disprove"
	CmdAccuse     Command = "accuse"
	CmdAccusation Command = "accusation"
	CmdDone       Command = "done"
)

// ResetCmd is `reset N I c1 ... ck`.
type ResetCmd struct {
	PlayerCount int
	SelfID      int
	OwnCards    []string
}

// SuggestionCmd is `suggestion P s w r D [c]`.
type SuggestionCmd struct {
	Suggester int
	Triple    map[cards.Category]string
	Disprover int // kb.DisproverNone if '-'
	Revealed  string
}

// DisproveCmd is `disprove P c1 c2 c3`.
type DisproveCmd struct {
	Suggester int
	Triple    map[cards.Category]string
}

// AccusationCmd is `accusation P s w r R`.
type AccusationCmd struct {
	Accuser int
	Triple  map[cards.Category]string
	IsWin   bool
}

// noDisprover is the wire token for "nobody disproved" and mirrors
// kb.DisproverNone without importing internal/kb (wire stays a leaf
// package, decoded tokens are plain ints).
const noDisprover = -1

// DisproverNone is exported so callers translating into kb.OnSuggestion
// arguments don't need a magic number of their own.
const DisproverNone = noDisprover

// ParseReset decodes `reset N I c1 ... ck` (the leading "reset" token
// already consumed).
func ParseReset(args []string) (ResetCmd, error) {
	if len(args) < 2 {
		return ResetCmd{}, &ErrProtocolViolation{Detail: "reset: too few arguments"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return ResetCmd{}, &ErrProtocolViolation{Detail: "reset: player_count not an integer"}
	}
	id, err := strconv.Atoi(args[1])
	if err != nil {
		return ResetCmd{}, &ErrProtocolViolation{Detail: "reset: player_id not an integer"}
	}
	for _, tok := range args[2:] {
		if !registry.Valid(tok) {
			return ResetCmd{}, &ErrProtocolViolation{Detail: fmt.Sprintf("reset: unknown card token %q", tok)}
		}
	}
	return ResetCmd{PlayerCount: n, SelfID: id, OwnCards: args[2:]}, nil
}

// FormatSuggestReply encodes `suggest s w r`.
func FormatSuggestReply(triple map[cards.Category]string) string {
	return fmt.Sprintf("suggest %s %s %s", triple[cards.Suspect], triple[cards.Weapon], triple[cards.Room])
}

// ParseSuggestion decodes `suggestion P s w r D [c]`.
func ParseSuggestion(args []string) (SuggestionCmd, error) {
	if len(args) != 5 && len(args) != 6 {
		return SuggestionCmd{}, &ErrProtocolViolation{Detail: "suggestion: wrong argument count"}
	}
	suggester, err := strconv.Atoi(args[0])
	if err != nil {
		return SuggestionCmd{}, &ErrProtocolViolation{Detail: "suggestion: suggester not an integer"}
	}
	triple, err := tripleFromTokens(args[1], args[2], args[3])
	if err != nil {
		return SuggestionCmd{}, err
	}
	cmd := SuggestionCmd{Suggester: suggester, Triple: triple, Disprover: noDisprover}
	if args[4] != "-" {
		d, err := strconv.Atoi(args[4])
		if err != nil {
			return SuggestionCmd{}, &ErrProtocolViolation{Detail: "suggestion: disprover not an integer"}
		}
		cmd.Disprover = d
		if len(args) == 6 {
			if !registry.Valid(args[5]) {
				return SuggestionCmd{}, &ErrProtocolViolation{Detail: fmt.Sprintf("suggestion: unknown revealed card %q", args[5])}
			}
			cmd.Revealed = args[5]
		}
	}
	return cmd, nil
}

// FormatSuggestion encodes `suggestion P s w r D [c]` for broadcast to
// other agents.
func FormatSuggestion(suggester int, triple map[cards.Category]string, disprover int, revealed string) string {
	base := fmt.Sprintf("suggestion %d %s %s %s", suggester, triple[cards.Suspect], triple[cards.Weapon], triple[cards.Room])
	if disprover == noDisprover {
		return base + " -"
	}
	if revealed == "" {
		return fmt.Sprintf("%s %d", base, disprover)
	}
	return fmt.Sprintf("%s %d %s", base, disprover, revealed)
}

// ParseDisprove decodes `disprove P c1 c2 c3`.
func ParseDisprove(args []string) (DisproveCmd, error) {
	if len(args) != 4 {
		return DisproveCmd{}, &ErrProtocolViolation{Detail: "disprove: wrong argument count"}
	}
	suggester, err := strconv.Atoi(args[0])
	if err != nil {
		return DisproveCmd{}, &ErrProtocolViolation{Detail: "disprove: suggester not an integer"}
	}
	triple, err := tripleFromTokens(args[1], args[2], args[3])
	if err != nil {
		return DisproveCmd{}, err
	}
	return DisproveCmd{Suggester: suggester, Triple: triple}, nil
}

// FormatDisproveRequest encodes `disprove P c1 c2 c3`.
func FormatDisproveRequest(suggester int, triple map[cards.Category]string) string {
	return fmt.Sprintf("disprove %d %s %s %s", suggester, triple[cards.Suspect], triple[cards.Weapon], triple[cards.Room])
}

// FormatShowReply encodes `show c`.
func FormatShowReply(card string) string {
	return "show " + card
}

// FormatAccuseReply encodes `accuse s w r` or `-`.
func FormatAccuseReply(triple map[cards.Category]string, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("accuse %s %s %s", triple[cards.Suspect], triple[cards.Weapon], triple[cards.Room])
}

// ParseAccuseReply decodes the agent's reply to `accuse`.
func ParseAccuseReply(line string) (map[cards.Category]string, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false, &ErrProtocolViolation{Detail: "accuse reply: empty"}
	}
	if fields[0] == "-" {
		return nil, false, nil
	}
	if fields[0] != "accuse" || len(fields) != 4 {
		return nil, false, &ErrProtocolViolation{Detail: "accuse reply: malformed"}
	}
	triple, err := tripleFromTokens(fields[1], fields[2], fields[3])
	if err != nil {
		return nil, false, err
	}
	return triple, true, nil
}

// ParseAccusation decodes `accusation P s w r R`.
func ParseAccusation(args []string) (AccusationCmd, error) {
	if len(args) != 5 {
		return AccusationCmd{}, &ErrProtocolViolation{Detail: "accusation: wrong argument count"}
	}
	accuser, err := strconv.Atoi(args[0])
	if err != nil {
		return AccusationCmd{}, &ErrProtocolViolation{Detail: "accusation: accuser not an integer"}
	}
	var isWin bool
	switch args[4] {
	case "+":
		isWin = true
	case "-":
		isWin = false
	default:
		return AccusationCmd{}, &ErrProtocolViolation{Detail: "accusation: result must be + or -"}
	}
	triple, err := tripleFromTokens(args[1], args[2], args[3])
	if err != nil {
		return AccusationCmd{}, err
	}
	return AccusationCmd{Accuser: accuser, Triple: triple, IsWin: isWin}, nil
}

// FormatAccusation encodes `accusation P s w r R`.
func FormatAccusation(accuser int, triple map[cards.Category]string, isWin bool) string {
	result := "-"
	if isWin {
		result = "+"
	}
	return fmt.Sprintf("accusation %d %s %s %s %s", accuser, triple[cards.Suspect], triple[cards.Weapon], triple[cards.Room], result)
}

// FormatAlive encodes the agent's opening `NAME alive` handshake line.
func FormatAlive(name string) string {
	return name + " alive"
}

// ParseAlive decodes the opening handshake line into name and a bool
// confirming the trailing "alive" token.
func ParseAlive(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[1] != "alive" {
		return "", false
	}
	return fields[0], true
}

// registry validates card tokens at the protocol boundary, so an unknown
// token is rejected here as a protocol violation instead of reaching the KB.
var registry = cards.New()

func tripleFromTokens(s, w, r string) (map[cards.Category]string, error) {
	for _, tok := range []string{s, w, r} {
		if !registry.Valid(tok) {
			return nil, &ErrProtocolViolation{Detail: fmt.Sprintf("unknown card token %q", tok)}
		}
	}
	return map[cards.Category]string{cards.Suspect: s, cards.Weapon: w, cards.Room: r}, nil
}

// Dispatch splits a raw line into its command and argument tokens.
func Dispatch(line string) (Command, []string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, &ErrProtocolViolation{Detail: "empty message"}
	}
	return Command(fields[0]), fields[1:], nil
}

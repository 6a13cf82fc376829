package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/wire"
)

func TestParseSuggestion_NoDisprover(t *testing.T) {
	cmd, err := wire.ParseSuggestion([]string{"1", "Pe", "Pi", "Li", "-"})
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.Suggester)
	assert.Equal(t, wire.DisproverNone, cmd.Disprover)
	assert.Equal(t, "", cmd.Revealed)
	assert.Equal(t, "Pe", cmd.Triple[cards.Suspect])
	assert.Equal(t, "Pi", cmd.Triple[cards.Weapon])
	assert.Equal(t, "Li", cmd.Triple[cards.Room])
}

func TestParseSuggestion_DisproverWithRevealedCard(t *testing.T) {
	cmd, err := wire.ParseSuggestion([]string{"0", "Mu", "Kn", "Ha", "1", "Mu"})
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.Disprover)
	assert.Equal(t, "Mu", cmd.Revealed)
}

func TestParseSuggestion_MalformedIsProtocolViolation(t *testing.T) {
	for _, args := range [][]string{
		{"0", "Mu", "Kn"},
		{"x", "Mu", "Kn", "Ha", "-"},
		{"0", "Mu", "Kn", "Ha", "one"},
	} {
		_, err := wire.ParseSuggestion(args)
		var violation *wire.ErrProtocolViolation
		assert.ErrorAsf(t, err, &violation, "args %v", args)
	}
}

func TestFormatSuggestion_RoundTripsThroughParse(t *testing.T) {
	triple := map[cards.Category]string{cards.Suspect: "Sc", cards.Weapon: "Ro", cards.Room: "St"}
	line := wire.FormatSuggestion(2, triple, 0, "Ro")
	_, args, err := wire.Dispatch(line)
	require.NoError(t, err)
	cmd, err := wire.ParseSuggestion(args)
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.Suggester)
	assert.Equal(t, 0, cmd.Disprover)
	assert.Equal(t, "Ro", cmd.Revealed)
}

func TestParseAccusation_WinAndLossMarkers(t *testing.T) {
	win, err := wire.ParseAccusation([]string{"2", "Sc", "Ro", "St", "+"})
	require.NoError(t, err)
	assert.True(t, win.IsWin)

	loss, err := wire.ParseAccusation([]string{"2", "Sc", "Ro", "St", "-"})
	require.NoError(t, err)
	assert.False(t, loss.IsWin)

	_, err = wire.ParseAccusation([]string{"2", "Sc", "Ro", "St", "?"})
	var violation *wire.ErrProtocolViolation
	assert.ErrorAs(t, err, &violation)
}

func TestParseAccuseReply(t *testing.T) {
	triple, ok, err := wire.ParseAccuseReply("accuse Sc Ro St")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Sc", triple[cards.Suspect])

	_, ok, err = wire.ParseAccuseReply("-")
	require.NoError(t, err)
	assert.False(t, ok, "a bare '-' means no accusation this turn")

	_, _, err = wire.ParseAccuseReply("accuse Sc Ro")
	var violation *wire.ErrProtocolViolation
	assert.ErrorAs(t, err, &violation)
}

func TestParseReset(t *testing.T) {
	cmd, err := wire.ParseReset([]string{"3", "0", "Gr", "Ca", "Ba"})
	require.NoError(t, err)
	assert.Equal(t, 3, cmd.PlayerCount)
	assert.Equal(t, 0, cmd.SelfID)
	assert.Equal(t, []string{"Gr", "Ca", "Ba"}, cmd.OwnCards)

	_, err = wire.ParseReset([]string{"3"})
	var violation *wire.ErrProtocolViolation
	assert.ErrorAs(t, err, &violation)
}

func TestParseAlive(t *testing.T) {
	name, ok := wire.ParseAlive(wire.FormatAlive("deducer"))
	require.True(t, ok)
	assert.Equal(t, "deducer", name)

	_, ok = wire.ParseAlive("deducer")
	assert.False(t, ok)
}

func TestParse_UnknownCardTokenIsProtocolViolation(t *testing.T) {
	var violation *wire.ErrProtocolViolation

	_, err := wire.ParseSuggestion([]string{"0", "Zz", "Kn", "Ha", "-"})
	assert.ErrorAs(t, err, &violation)

	_, err = wire.ParseDisprove([]string{"0", "Mu", "Zz", "Ha"})
	assert.ErrorAs(t, err, &violation)

	_, err = wire.ParseAccusation([]string{"0", "Mu", "Kn", "Zz", "+"})
	assert.ErrorAs(t, err, &violation)

	_, err = wire.ParseReset([]string{"3", "0", "Gr", "Zz"})
	assert.ErrorAs(t, err, &violation)
}

func TestDispatch_EmptyLineIsProtocolViolation(t *testing.T) {
	_, _, err := wire.Dispatch("   ")
	var violation *wire.ErrProtocolViolation
	assert.ErrorAs(t, err, &violation)
}

package transport_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cluedo-agent/internal/transport"
)

// roundTrip sends every message through a synchronous in-memory pipe and
// checks each arrives intact and correctly delimited from its neighbors.
func roundTrip(t *testing.T, client, server transport.Messager, messages []string) {
	t.Helper()
	errs := make(chan error, 1)
	go func() {
		for _, m := range messages {
			if err := client.Send(m); err != nil {
				errs <- err
				return
			}
		}
		errs <- nil
	}()
	for _, want := range messages {
		got, err := server.Recv()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	require.NoError(t, <-errs)
}

var protocolSamples = []string{
	"deducer alive",
	"reset 3 0 Gr Ca Ba Bi Co Di",
	"suggestion 0 Mu Kn Ha 1 Mu",
	"accuse Sc Ro St",
	"-",
}

func TestLineMessager_RoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	roundTrip(t, transport.NewLineMessager(a), transport.NewLineMessager(b), protocolSamples)
}

func TestBufferedMessager_RoundTrip(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	roundTrip(t, transport.NewBufferedMessager(a), transport.NewBufferedMessager(b), protocolSamples)
}

func TestLineMessager_StripsCarriageReturn(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	go func() {
		a.Write([]byte("ok\r\n"))
	}()
	got, err := transport.NewLineMessager(b).Recv()
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

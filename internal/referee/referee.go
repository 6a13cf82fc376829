// Package referee implements the game host: a TCP listener that collects
// named players, deals hands, and drives the turn loop to a finished game.
package referee

import (
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/transport"
	"cluedo-agent/internal/wire"
)

// TurnTimeout is the per-interaction budget enforced against every remote
// player.
const TurnTimeout = 2 * time.Second

// MaxPlayers caps the table at the six suspect seats.
const MaxPlayers = 6

// Player is one connected remote agent from the referee's point of view.
type Player struct {
	ID    int
	Name  string
	Hand  []string
	Alive bool
	Score int

	conn net.Conn
	msg  transport.Messager
}

func newPlayer(name string, conn net.Conn, msg transport.Messager) *Player {
	return &Player{Name: name, Alive: true, conn: conn, msg: msg}
}

// interact sends cmd and returns the reply, enforcing TurnTimeout via the
// connection deadline.
func (p *Player) interact(cmd string) (string, error) {
	if err := p.conn.SetDeadline(time.Now().Add(TurnTimeout)); err != nil {
		return "", err
	}
	defer p.conn.SetDeadline(time.Time{})
	if err := p.msg.Send(cmd); err != nil {
		return "", fmt.Errorf("referee: send to %s: %w", p.Name, err)
	}
	resp, err := p.msg.Recv()
	if err != nil {
		return "", fmt.Errorf("referee: %s did not respond in time: %w", p.Name, err)
	}
	return resp, nil
}

func (p *Player) reset(playerCount int, ownCards []string) error {
	cmd := fmt.Sprintf("reset %d %d", playerCount, p.ID)
	for _, c := range ownCards {
		cmd += " " + c
	}
	reply, err := p.interact(cmd)
	if err != nil {
		return err
	}
	if reply != "ok" {
		return &wire.ErrProtocolViolation{Detail: fmt.Sprintf("%s: reset reply %q, want ok", p.Name, reply)}
	}
	return nil
}

func (p *Player) suggest() (map[cards.Category]string, error) {
	reply, err := p.interact("suggest")
	if err != nil {
		return nil, err
	}
	cmd, args, err := wire.Dispatch(reply)
	if err != nil || cmd != "suggest" || len(args) != 3 {
		return nil, &wire.ErrProtocolViolation{Detail: fmt.Sprintf("%s: malformed suggest reply %q", p.Name, reply)}
	}
	return map[cards.Category]string{cards.Suspect: args[0], cards.Weapon: args[1], cards.Room: args[2]}, nil
}

func (p *Player) disprove(suggester int, triple map[cards.Category]string) (string, error) {
	reply, err := p.interact(wire.FormatDisproveRequest(suggester, triple))
	if err != nil {
		return "", err
	}
	cmd, args, err := wire.Dispatch(reply)
	if err != nil || cmd != "show" || len(args) != 1 {
		return "", &wire.ErrProtocolViolation{Detail: fmt.Sprintf("%s: malformed show reply %q", p.Name, reply)}
	}
	return args[0], nil
}

func (p *Player) suggestion(suggester int, triple map[cards.Category]string, disprover int, revealed string) error {
	reply, err := p.interact(wire.FormatSuggestion(suggester, triple, disprover, revealed))
	if err != nil {
		return err
	}
	if reply != "ok" {
		return &wire.ErrProtocolViolation{Detail: fmt.Sprintf("%s: suggestion reply %q, want ok", p.Name, reply)}
	}
	return nil
}

func (p *Player) accuse() (map[cards.Category]string, bool, error) {
	reply, err := p.interact("accuse")
	if err != nil {
		return nil, false, err
	}
	triple, ok, err := wire.ParseAccuseReply(reply)
	if err != nil {
		return nil, false, &wire.ErrProtocolViolation{Detail: fmt.Sprintf("%s: %v", p.Name, err)}
	}
	return triple, ok, nil
}

func (p *Player) accusation(accuser int, triple map[cards.Category]string, isWin bool) error {
	reply, err := p.interact(wire.FormatAccusation(accuser, triple, isWin))
	if err != nil {
		return err
	}
	if reply != "ok" {
		return &wire.ErrProtocolViolation{Detail: fmt.Sprintf("%s: accusation reply %q, want ok", p.Name, reply)}
	}
	return nil
}

func (p *Player) done() {
	_, _ = p.interact("done")
	_ = p.conn.Close()
}

// eliminate marks p out of the game without tearing down its connection;
// a malfunctioning or timed-out player forfeits rather than aborting the
// whole game for everyone else still playing.
func (p *Player) eliminate() { p.Alive = false }

// Server hosts one Clue game over TCP. It is built fresh per game; there is
// no cross-game state.
type Server struct {
	registry *cards.Registry
	rng      *rand.Rand
	log      *logrus.Logger
	listener net.Listener
}

// New builds a Server. rng and log are dependency-injected so games are
// reproducible in tests and so the referee shares the CLI's logging
// configuration.
func New(registry *cards.Registry, rng *rand.Rand, log *logrus.Logger) *Server {
	return &Server{registry: registry, rng: rng, log: log}
}

// Listen opens the TCP port players connect to.
func (s *Server) Listen(addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("referee: listen: %w", err)
	}
	s.listener = l
	return nil
}

// Addr returns the bound address, useful when addr was ":0" in tests.
func (s *Server) Addr() net.Addr { return s.listener.Addr() }

// Close releases the listening socket.
func (s *Server) Close() error { return s.listener.Close() }

// CollectPlayers accepts connections until every name in names has sent its
// `NAME alive` handshake. framing selects the wire framing every connection
// is assumed to use; framing is negotiated out-of-band, so the host never
// sniffs it.
func (s *Server) CollectPlayers(names []string, framing Framing) ([]*Player, error) {
	if len(names) > MaxPlayers {
		return nil, fmt.Errorf("referee: %d players exceeds MAX_PLAYERS=%d", len(names), MaxPlayers)
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	players := make(map[string]*Player, len(names))
	for len(players) < len(names) {
		conn, err := s.listener.Accept()
		if err != nil {
			return nil, fmt.Errorf("referee: accept: %w", err)
		}
		msg := newMessager(conn, framing)
		line, err := msg.Recv()
		if err != nil {
			conn.Close()
			continue
		}
		name, ok := wire.ParseAlive(line)
		if !ok {
			conn.Close()
			continue
		}
		if _, wanted := want[name]; !wanted {
			conn.Close()
			continue
		}
		if _, dup := players[name]; dup {
			conn.Close()
			continue
		}
		players[name] = newPlayer(name, conn, msg)
		s.log.Infof("referee: %s connected (%d/%d)", name, len(players), len(names))
	}
	out := make([]*Player, 0, len(names))
	for _, n := range names {
		out = append(out, players[n])
	}
	return out, nil
}

// Framing selects which transport.Messager a connection uses.
type Framing int

const (
	Line Framing = iota
	Buffered
)

func newMessager(conn net.Conn, f Framing) transport.Messager {
	if f == Buffered {
		return transport.NewBufferedMessager(conn)
	}
	return transport.NewLineMessager(conn)
}

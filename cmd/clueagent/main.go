// Command clueagent is the networked agent process: argv[1] is the agent's
// name, argv[2] the referee's port. It speaks the wire protocol over a
// framed TCP connection and answers every referee message by driving an
// internal/agent.Agent.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/sirupsen/logrus"

	"cluedo-agent/internal/agent"
	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/transport"
	"cluedo-agent/internal/wire"
)

func main() {
	logLevel := flag.String("loglevel", "info", "Set logging level (debug, info, warn, error)")
	variantFlag := flag.String("variant", "strong", "Agent variant: weak or strong")
	hostFlag := flag.String("host", "localhost", "Referee host")
	buffered := flag.Bool("buffered", false, "Use length-prefixed framing instead of line framing")
	flag.Parse()

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, ForceColors: true})

	if flag.NArg() < 2 {
		log.Fatalf("usage: clueagent NAME PORT")
	}
	name := flag.Arg(0)
	port := flag.Arg(1)

	variant := agent.Weak
	if *variantFlag == "strong" {
		variant = agent.Strong
	}

	conn, err := net.Dial("tcp", net.JoinHostPort(*hostFlag, port))
	if err != nil {
		log.Fatalf("clueagent: dial: %v", err)
	}
	defer conn.Close()

	var msg transport.Messager
	if *buffered {
		msg = transport.NewBufferedMessager(conn)
	} else {
		msg = transport.NewLineMessager(conn)
	}

	if err := msg.Send(wire.FormatAlive(name)); err != nil {
		log.Fatalf("clueagent: handshake: %v", err)
	}

	registry := cards.New()
	a := agent.New(registry, variant)

	if err := run(a, msg, log); err != nil {
		log.Errorf("clueagent: %v", err)
		os.Exit(1)
	}
}

// run is the dispatch loop: receive a referee message, act on the agent,
// reply, repeat until `done` closes the connection. Errors here are always
// protocol violations or KB inconsistencies, both fatal; swallowing either
// would let unsound deductions through.
func run(a *agent.Agent, msg transport.Messager, log *logrus.Logger) error {
	for {
		line, err := msg.Recv()
		if err != nil {
			return fmt.Errorf("recv: %w", err)
		}
		cmd, args, err := wire.Dispatch(line)
		if err != nil {
			return err
		}
		switch cmd {
		case wire.CmdReset:
			r, err := wire.ParseReset(args)
			if err != nil {
				return err
			}
			if err := a.Reset(r.PlayerCount, r.SelfID, r.OwnCards); err != nil {
				return err
			}
			if err := msg.Send("ok"); err != nil {
				return err
			}

		case wire.CmdSuggest:
			triple := a.Suggest()
			if err := msg.Send(wire.FormatSuggestReply(triple)); err != nil {
				return err
			}

		case wire.CmdSuggestion:
			s, err := wire.ParseSuggestion(args)
			if err != nil {
				return err
			}
			if err := a.OnSuggestion(s.Suggester, s.Triple, s.Disprover, s.Revealed); err != nil {
				return err
			}
			if err := msg.Send("ok"); err != nil {
				return err
			}

		case wire.CmdDisprove:
			d, err := wire.ParseDisprove(args)
			if err != nil {
				return err
			}
			card := a.Disprove(d.Suggester, d.Triple)
			if card == "" {
				return fmt.Errorf("disprove requested but self holds none of the suggested cards")
			}
			if err := msg.Send(wire.FormatShowReply(card)); err != nil {
				return err
			}

		case wire.CmdAccuse:
			triple, ok := a.Accuse()
			if err := msg.Send(wire.FormatAccuseReply(triple, ok)); err != nil {
				return err
			}

		case wire.CmdAccusation:
			acc, err := wire.ParseAccusation(args)
			if err != nil {
				return err
			}
			if err := a.OnAccusation(acc.Accuser, acc.Triple, acc.IsWin); err != nil {
				return err
			}
			if err := msg.Send("ok"); err != nil {
				return err
			}

		case wire.CmdDone:
			if err := msg.Send("dead"); err != nil {
				return err
			}
			return msg.Close()

		default:
			log.Warnf("clueagent: unknown command %q", cmd)
			return fmt.Errorf("unknown command %q", cmd)
		}
	}
}

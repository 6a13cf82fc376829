// Command clueserver hosts a single Clue game over TCP for networked
// clueagent processes.
package main

import (
	"flag"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/referee"
)

func main() {
	logLevel := flag.String("loglevel", "info", "Set logging level (debug, info, warn, error)")
	addr := flag.String("addr", ":9999", "Address to listen on")
	namesFlag := flag.String("players", "", "Comma-separated player names to wait for")
	buffered := flag.Bool("buffered", false, "Use length-prefixed framing instead of line framing")
	flag.Parse()

	log := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, ForceColors: true})

	names := strings.Split(*namesFlag, ",")
	if len(names) < 2 || names[0] == "" {
		log.Fatalf("clueserver: -players must list at least two comma-separated names")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := referee.New(cards.New(), rng, log)
	if err := s.Listen(*addr); err != nil {
		log.Fatalf("clueserver: %v", err)
	}
	defer s.Close()

	framing := referee.Line
	if *buffered {
		framing = referee.Buffered
	}

	log.Infof("clueserver: waiting for %d players on %s", len(names), *addr)
	players, err := s.CollectPlayers(names, framing)
	if err != nil {
		log.Fatalf("clueserver: %v", err)
	}

	results, err := s.RunGame(players)
	if err != nil {
		log.Fatalf("clueserver: %v", err)
	}
	for _, r := range results {
		log.Infof("clueserver: %-20s score=%d won=%v", r.Name, r.Score, r.Won)
	}
}

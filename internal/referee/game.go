package referee

import (
	"fmt"

	"cluedo-agent/internal/cards"
	"cluedo-agent/internal/wire"
)

// Result is one player's final standing after RunGame returns.
type Result struct {
	Name  string
	Score int
	Won   bool
}

// RunGame deals hands and plays a single game to completion: deal, then
// loop suggest -> disprove-poll -> suggestion-broadcast -> accuse ->
// accusation-broadcast until one player remains or someone wins.
func (s *Server) RunGame(players []*Player) ([]Result, error) {
	s.rng.Shuffle(len(players), func(i, j int) { players[i], players[j] = players[j], players[i] })
	for i, p := range players {
		p.ID = i
	}

	target, hands, err := s.deal(players)
	if err != nil {
		return nil, err
	}
	for i, p := range players {
		p.Hand = hands[i]
		if err := p.reset(len(players), p.Hand); err != nil {
			p.eliminate()
			s.log.Warnf("referee: %s failed reset: %v", p.Name, err)
		}
	}

	activeID := 0
	for {
		alive := aliveCount(players)
		if alive <= 1 {
			break
		}
		active := nextAlive(players, activeID)
		activeID = active.ID

		triple, err := active.suggest()
		if err != nil {
			s.log.Warnf("referee: %s eliminated: %v", active.Name, err)
			active.eliminate()
			activeID = (activeID + 1) % len(players)
			continue
		}

		disprover := wire.DisproverNone
		revealed := ""
		for _, p := range iterFrom(players, activeID, 1) {
			if p.ID == active.ID {
				break
			}
			if !hasAny(p.Hand, triple) {
				continue
			}
			card, err := p.disprove(active.ID, triple)
			if err != nil {
				s.log.Warnf("referee: %s eliminated (disprove): %v", p.Name, err)
				p.eliminate()
				continue
			}
			disprover, revealed = p.ID, card
			break
		}

		for _, p := range iterFrom(players, activeID, 0) {
			if !p.Alive {
				continue
			}
			shown := ""
			if p.ID == active.ID || p.ID == disprover {
				shown = revealed
			}
			if err := p.suggestion(active.ID, triple, disprover, shown); err != nil {
				s.log.Warnf("referee: %s eliminated (suggestion ack): %v", p.Name, err)
				p.eliminate()
			}
		}

		accusation, ok, err := active.accuse()
		if err != nil {
			s.log.Warnf("referee: %s eliminated (accuse): %v", active.Name, err)
			active.eliminate()
			activeID = (activeID + 1) % len(players)
			continue
		}
		if ok {
			isWin := sameTriple(accusation, target)
			for _, p := range iterFrom(players, activeID, 0) {
				if !p.Alive {
					continue
				}
				if err := p.accusation(active.ID, accusation, isWin); err != nil {
					p.eliminate()
				}
			}
			if isWin {
				active.Score++
				break
			}
			active.eliminate()
		}
		activeID = (activeID + 1) % len(players)
	}

	for _, p := range players {
		p.done()
	}

	results := make([]Result, len(players))
	for i, p := range players {
		results[i] = Result{Name: p.Name, Score: p.Score, Won: p.Score > 0}
	}
	return results, nil
}

// deal chooses the solution triple and distributes the remaining cards
// round-robin among players, which yields the same hand sizes every agent
// computes from the player count.
func (s *Server) deal(players []*Player) (map[cards.Category]string, [][]string, error) {
	target := make(map[cards.Category]string, len(cards.Categories))
	pool := make([]string, 0, s.registry.Distributable())
	for _, cat := range cards.Categories {
		group := s.registry.ByCategory[cat]
		target[cat] = group[s.rng.Intn(len(group))]
		for _, tok := range group {
			if tok != target[cat] {
				pool = append(pool, tok)
			}
		}
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	hands := make([][]string, len(players))
	for i, tok := range pool {
		p := i % len(players)
		hands[p] = append(hands[p], tok)
	}
	for i, pl := range players {
		want := s.registry.HandSize(len(players), i)
		if len(hands[i]) != want {
			return nil, nil, fmt.Errorf("referee: dealt %d cards to %s, expected %d", len(hands[i]), pl.Name, want)
		}
	}
	return target, hands, nil
}

func aliveCount(players []*Player) int {
	n := 0
	for _, p := range players {
		if p.Alive {
			n++
		}
	}
	return n
}

// nextAlive finds the first alive player starting at idx, wrapping around.
func nextAlive(players []*Player, idx int) *Player {
	n := len(players)
	for i := 0; i < n; i++ {
		p := players[(idx+i)%n]
		if p.Alive {
			return p
		}
	}
	return players[idx%n]
}

// iterFrom returns players in table order starting skip seats after start,
// wrapping once around.
func iterFrom(players []*Player, start, skip int) []*Player {
	n := len(players)
	out := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, players[(start+skip+i)%n])
	}
	return out
}

func hasAny(hand []string, triple map[cards.Category]string) bool {
	set := make(map[string]struct{}, len(hand))
	for _, c := range hand {
		set[c] = struct{}{}
	}
	for _, cat := range cards.Categories {
		if _, ok := set[triple[cat]]; ok {
			return true
		}
	}
	return false
}

func sameTriple(a, b map[cards.Category]string) bool {
	for _, cat := range cards.Categories {
		if a[cat] != b[cat] {
			return false
		}
	}
	return true
}

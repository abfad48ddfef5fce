package main

import (
	"context"
	"fmt"
	"sort"

	rand "math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/ilcamarero/camarero/cmd/camarero/shared"
	"github.com/ilcamarero/camarero/game"
	"github.com/ilcamarero/camarero/internal/protocol"
	"github.com/ilcamarero/camarero/internal/randutil"
	"github.com/ilcamarero/camarero/menu"
)

// SimulateCmd runs whole games of random self-play against the engine
type SimulateCmd struct {
	Games       int   `kong:"default='10',help='Number of games to run'"`
	Players     int   `kong:"default='4',help='Players per game'"`
	Seed        int64 `kong:"default='1',help='Base RNG seed; game i uses seed+i'"`
	Concurrency int   `kong:"default='4',help='Games running in parallel'"`
	Debug       bool  `kong:"help='Enable debug logging'"`
}

type simResult struct {
	winner   string
	score    int
	actions  int
	finished bool
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	if c.Players < game.MinPlayers || c.Players > game.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d", game.MinPlayers, game.MaxPlayers)
	}

	results := make([]simResult, c.Games)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(c.Concurrency)
	for i := 0; i < c.Games; i++ {
		g.Go(func() error {
			res, err := runSelfPlay(randutil.New(c.Seed+int64(i)), c.Players)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			logger.Debug("Game finished", "game", i, "winner", res.winner, "score", res.score, "actions", res.actions)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	totalActions := 0
	wins := make(map[string]int)
	for _, res := range results {
		totalActions += res.actions
		wins[res.winner]++
	}

	logger.Info("Simulation complete",
		"games", c.Games,
		"players", c.Players,
		"avgActions", totalActions/max(1, c.Games))

	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-12s %d wins\n", name, wins[name])
	}
	return nil
}

// runSelfPlay plays one match with a uniformly random policy until the
// kitchen deck runs out.
func runSelfPlay(rng *rand.Rand, players int) (simResult, error) {
	roster := make([]game.Seat, players)
	for i := range roster {
		roster[i] = game.Seat{ID: fmt.Sprintf("bot%d", i+1), Name: fmt.Sprintf("Bot %d", i+1)}
	}

	m, err := game.NewMatch(rng, roster)
	if err != nil {
		return simResult{}, err
	}

	actions := 0
	// Each discard consumes one kitchen card, so the deck bounds the game;
	// the cap only guards against a policy that never discards.
	for m.Status == game.StatusInProgress && actions < 100000 {
		actor := m.CurrentTurn
		challengers := randomRingers(rng, m, actor)

		if rng.IntN(2) == 0 && len(m.Table.Center) > 0 {
			card := m.Table.Center[rng.IntN(len(m.Table.Center))]
			out, err := m.Discard(game.DiscardAction{Actor: actor, CardID: card.ID, Challengers: challengers})
			if err != nil {
				return simResult{}, err
			}
			m = out.Match
		} else {
			item := menu.Catalog[rng.IntN(len(menu.Catalog))]
			out := m.Serve(game.ServeAction{
				Actor:       actor,
				Target:      randomOther(rng, m, actor),
				Category:    item.Category,
				Dish:        item.Dish,
				Variant:     item.Variants[rng.IntN(len(item.Variants))],
				Challengers: challengers,
			})
			m = out.Match
		}
		actions++
	}

	standings := protocol.StandingsFromMatch(m)
	return simResult{
		winner:   standings[0].Name,
		score:    standings[0].Score,
		actions:  actions,
		finished: m.Status == game.StatusFinished,
	}, nil
}

func randomOther(rng *rand.Rand, m *game.Match, actor string) string {
	others := make([]string, 0, len(m.TurnOrder))
	for _, id := range m.TurnOrder {
		if id != actor {
			others = append(others, id)
		}
	}
	return others[rng.IntN(len(others))]
}

// randomRingers has each non-actor ring the bell with probability 1/4,
// newest first.
func randomRingers(rng *rand.Rand, m *game.Match, actor string) []string {
	var ringers []string
	for _, id := range m.TurnOrder {
		if id != actor && rng.IntN(4) == 0 {
			ringers = append([]string{id}, ringers...)
		}
	}
	return ringers
}

package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pcstyleorg/sen/internal/bot"
	"github.com/pcstyleorg/sen/internal/config"
	"github.com/pcstyleorg/sen/internal/engine"
	"github.com/pcstyleorg/sen/internal/game"
)

func runSim(cfg config.Config, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("sim", flag.ExitOnError)
	games := fs.Int("games", 100, "number of matches to run")
	tiers := fs.String("tiers", "easy,normal,hard", "comma-separated bot tiers, one seat each")
	seed := fs.Uint64("seed", 0, "base RNG seed (0 = time-based)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	seats := strings.Split(*tiers, ",")
	if len(seats) < 2 {
		return fmt.Errorf("need at least two seats, got %q", *tiers)
	}
	base := *seed
	if base == 0 {
		base = uint64(time.Now().UnixNano())
	}

	log.SetLevel(logrus.WarnLevel)

	names := make([]string, len(seats))
	for i, tier := range seats {
		names[i] = fmt.Sprintf("%s-%d", strings.TrimSpace(tier), i+1)
	}

	wins := make([]int, len(seats))
	totalRounds := 0
	rules := engine.DefaultRules()
	rules.TargetScore = cfg.TargetScore

	for g := 0; g < *games; g++ {
		st := engine.NewGame(engine.ModeVsBot, fmt.Sprintf("sim-%d", g), "b1", base+uint64(g)*2654435761, rules)
		s := game.NewSession(st, log, base^uint64(g+1))
		for i, tier := range seats {
			s.AddBot(fmt.Sprintf("b%d", i+1), names[i], bot.Difficulty(strings.TrimSpace(tier)))
		}
		s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "b1"})

		final := s.State()
		if final.Phase != engine.PhaseGameOver {
			return fmt.Errorf("match %d stalled in phase %s after %d turns", g, final.Phase, final.TurnCount)
		}
		totalRounds += final.Round
		for i, name := range names {
			if name == final.GameWinner {
				wins[i]++
			}
		}
	}

	fmt.Printf("matches: %d  mean rounds: %.1f\n", *games, float64(totalRounds)/float64(*games))
	for i, name := range names {
		fmt.Printf("  %-12s %4d wins  (%.1f%%)\n", name, wins[i], 100*float64(wins[i])/float64(*games))
	}
	return nil
}

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pcstyleorg/sen/internal/bot"
	"github.com/pcstyleorg/sen/internal/config"
	"github.com/pcstyleorg/sen/internal/engine"
	"github.com/pcstyleorg/sen/internal/game"
	"github.com/pcstyleorg/sen/internal/view"
)

const playHelp = `commands:
  peek <slot>          look at one of your cards (start of round)
  done                 flip your peeked cards back down
  draw                 draw from the deck
  take                 take the top discard
  swap <slot>          swap the drawn card into a slot
  discard              discard the drawn card
  use                  play the drawn card's special action
  pick <card> [slot]   take_2: keep a card (into slot, or discard if omitted)
  spy <player> <slot>  peek_1: look at any card
  sel <player> <slot>  swap_2: select a card (twice)
  sen                  call Pobudka
  next                 deal the next round
  say <text>           chat
  show                 redraw the table
  quit                 leave the game`

func runPlay(cfg config.Config, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	bots := fs.Int("bots", 1, "number of bot opponents")
	tier := fs.String("tier", "normal", "bot difficulty: easy, normal, hard")
	humans := fs.Int("humans", 1, "number of human seats (hotseat when > 1)")
	name := fs.String("name", "you", "your display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *humans < 1 {
		return fmt.Errorf("need at least one human seat")
	}
	if *humans+*bots < 2 {
		return fmt.Errorf("need at least two seats")
	}

	// Interactive play wants quiet logs.
	log.SetLevel(logrus.WarnLevel)

	mode := engine.ModeVsBot
	if *humans > 1 {
		mode = engine.ModeHotseat
	}
	rules := engine.DefaultRules()
	rules.TargetScore = cfg.TargetScore

	seed := uint64(time.Now().UnixNano())
	st := engine.NewGame(mode, "local", "p1", seed, rules)
	s := game.NewSession(st, log, seed^0xa5a5a5a5)
	s.PeekRevealDelay = cfg.PeekRevealDelay
	s.BotDelay = cfg.BotDelay

	human := map[string]bool{}
	for i := 1; i <= *humans; i++ {
		id := fmt.Sprintf("p%d", i)
		label := *name
		if *humans > 1 {
			label = fmt.Sprintf("%s %d", *name, i)
		}
		s.AddPlayer(id, label)
		human[id] = true
	}
	for i := 1; i <= *bots; i++ {
		s.AddBot(fmt.Sprintf("bot%d", i), fmt.Sprintf("bot %d", i), bot.Difficulty(*tier))
	}

	s.HandleAction(engine.Action{Type: engine.ActionStartGame, PlayerID: "p1"})
	fmt.Println(playHelp)

	in := bufio.NewScanner(os.Stdin)
	for {
		actor, ok := awaitHumanTurn(s, human)
		if !ok {
			render(s.ViewFor("p1"))
			fmt.Println("game over")
			return nil
		}
		render(s.ViewFor(actor))
		fmt.Printf("[%s] > ", actor)
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			return nil
		}
		if line == "show" {
			continue
		}
		a, err := parseCommand(line, actor, s.ViewFor(actor))
		if err != nil {
			fmt.Println(err)
			continue
		}
		s.HandleAction(a)
		// Show the result right away; peeked cards flip back down on a
		// timer and would otherwise be missed.
		render(s.ViewFor(actor))
	}
}

// awaitHumanTurn blocks until a human seat has a decision to make, letting
// the session's timers run bots and peek flip-downs in the background.
func awaitHumanTurn(s *game.Session, human map[string]bool) (string, bool) {
	for {
		st := s.State()
		switch st.Phase {
		case engine.PhaseGameOver:
			return "", false
		case engine.PhasePeeking:
			if st.Peeking != nil {
				id := st.Players[st.Peeking.PlayerIndex].ID
				if human[id] && st.Peeking.PeekedCount < st.Rules.PeekCount {
					return id, true
				}
			}
		case engine.PhaseRoundEnd:
			if human[st.HostID] {
				return st.HostID, true
			}
		default:
			if cur := st.CurrentPlayer(); cur != nil && human[cur.ID] {
				return cur.ID, true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func parseCommand(line, actor string, v *view.State) (engine.Action, error) {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]
	a := engine.Action{PlayerID: actor, CardIndex: -1}

	num := func(i int) (int, error) {
		if i >= len(rest) {
			return 0, fmt.Errorf("%s: missing argument", cmd)
		}
		return strconv.Atoi(rest[i])
	}
	player := func(i int) (string, error) {
		n, err := num(i)
		if err != nil {
			return "", err
		}
		if n < 1 || n > len(v.Players) {
			return "", fmt.Errorf("no player %d", n)
		}
		return v.Players[n-1].ID, nil
	}

	var err error
	switch cmd {
	case "peek":
		a.Type = engine.ActionPeekCard
		a.CardIndex, err = num(0)
	case "done":
		a.Type = engine.ActionFinishPeek
	case "draw":
		a.Type = engine.ActionDrawFromDeck
	case "take":
		a.Type = engine.ActionDrawFromDiscard
	case "swap":
		a.Type = engine.ActionSwapDrawn
		a.CardIndex, err = num(0)
	case "discard":
		a.Type = engine.ActionDiscardDrawn
	case "use":
		a.Type = engine.ActionUseSpecial
	case "pick":
		a.Type = engine.ActionTake2Choose
		a.CardID, err = num(0)
		if err == nil && len(rest) > 1 {
			a.CardIndex, err = num(1)
		}
	case "spy":
		a.Type = engine.ActionPeek1Select
		a.TargetPlayerID, err = player(0)
		if err == nil {
			a.CardIndex, err = num(1)
		}
	case "sel":
		a.Type = engine.ActionSwap2Select
		a.TargetPlayerID, err = player(0)
		if err == nil {
			a.CardIndex, err = num(1)
		}
	case "sen", "pobudka":
		a.Type = engine.ActionCallPobudka
	case "next":
		a.Type = engine.ActionNextRound
	case "say":
		a.Type = engine.ActionPostChat
		a.Text = strings.TrimSpace(strings.TrimPrefix(line, "say"))
	default:
		return a, fmt.Errorf("unknown command %q (try 'show' or see help above)", cmd)
	}
	return a, err
}

func render(v *view.State) {
	fmt.Printf("\n--- round %d | %s | deck %d | discard %s (%d) ---\n",
		v.Round, v.Phase, v.DrawPileSize, cardLabel(v.DiscardTop), v.DiscardSize)
	for i, p := range v.Players {
		marker := " "
		if p.IsTurn {
			marker = "*"
		}
		slots := make([]string, len(p.Slots))
		for j, sl := range p.Slots {
			slots[j] = slotLabel(sl)
		}
		fmt.Printf("%s %d. %-12s %3dpt  %s\n", marker, i+1, p.Name, p.Score, strings.Join(slots, " "))
	}
	if v.Drawn != nil {
		fmt.Printf("holding: %s\n", cardLabel(v.Drawn))
	}
	for _, c := range v.Temp {
		fmt.Printf("offer: #%d %s\n", c.ID, cardLabel(&c))
	}
	if v.Revealed != nil {
		fmt.Printf("you saw: player %s slot %d is %s\n",
			v.Revealed.PlayerID, v.Revealed.CardIndex, cardLabel(&v.Revealed.Card))
	}
	if v.ActionMessage != "" {
		fmt.Println(v.ActionMessage)
	}
	if v.Phase == engine.PhaseRoundEnd {
		for id, score := range v.LastRoundScores {
			fmt.Printf("  %s: %d\n", id, score)
		}
		fmt.Printf("round winner: %s\n", v.RoundWinner)
	}
	if v.GameWinner != "" {
		fmt.Printf("winner: %s\n", v.GameWinner)
	}
}

func slotLabel(sl view.Slot) string {
	if !sl.Card.Known {
		return "[??]"
	}
	return "[" + strings.TrimPrefix(cardLabel(&sl.Card), " ") + "]"
}

func cardLabel(c *view.Card) string {
	if c == nil {
		return "-"
	}
	if !c.Known {
		return "??"
	}
	if c.Special != engine.SpecialNone {
		return fmt.Sprintf("%d %s", c.Value, c.Special)
	}
	return strconv.Itoa(c.Value)
}

// Command play runs a game of Bonus Chess against the computer in a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"bonuschess/coin"
	"bonuschess/display"
	"bonuschess/engine"
	"bonuschess/game"
	"bonuschess/rules"
)

var errQuit = errors.New("quit")

type player struct {
	rl      *readline.Instance
	paint   display.Painter
	game    *game.Game
	engine  *engine.Engine
	flipper *coin.Flipper
	human   rules.Color
	quiet   bool
}

func main() {
	engineColor := flag.String("engine-color", "black", "side the computer plays: white or black")
	first := flag.String("first", "coin", "who moves first: white, black or coin")
	depth := flag.Int("depth", engine.DefaultDepth, "computer search depth in half-moves")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "coin flipper seed")
	daily := flag.Bool("daily", false, "use today's shared seed instead of -seed")
	quiet := flag.Bool("quiet", false, "only print moves and the result")
	evalName := flag.String("eval", "material", "computer evaluator: material, proportion or feature")
	pessimistic := flag.Bool("pessimistic", false, "computer expects the coin to favour you")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	evaluator, err := engine.EvaluatorByName(*evalName)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -eval")
	}

	computer := engine.New(
		engine.WithDepth(*depth),
		engine.WithEvaluator(evaluator),
		engine.WithPessimism(*pessimistic),
		engine.WithIterativeDeepening(true),
		engine.WithLogger(log.Logger),
	)
	p := &player{
		paint:   display.NewPainter(term.IsTerminal(int(os.Stdout.Fd()))),
		engine:  computer,
		flipper: coin.New(*seed),
		quiet:   *quiet,
	}
	if *daily {
		p.flipper = coin.Daily(time.Now())
	}

	switch strings.ToLower(*engineColor) {
	case "white":
		p.human = rules.Black
	case "black":
		p.human = rules.White
	default:
		log.Fatal().Str("engine-color", *engineColor).Msg("expected white or black")
	}

	var whiteFirst bool
	switch strings.ToLower(*first) {
	case "white":
		whiteFirst = true
	case "black":
	case "coin":
		whiteFirst = p.flipper.FirstMoverIsWhite()
	default:
		log.Fatal().Str("first", *first).Msg("expected white, black or coin")
	}
	p.game = game.New(whiteFirst, game.WithLogger(log.Logger))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("move"),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("could not open terminal")
	}
	defer rl.Close()
	p.rl = rl

	fmt.Printf("Bonus Chess: you play %s, seed %d\n", p.human, p.flipper.Seed())
	fmt.Println("Enter moves like e2e4 or e7e8q. 'moves e2' lists targets, 'quit' leaves.")
	if err := p.play(); err != nil && !errors.Is(err, errQuit) {
		log.Fatal().Err(err).Msg("game aborted")
	}
}

func (p *player) play() error {
	for {
		if !p.quiet {
			fmt.Print(display.Board(p.game, p.paint))
		}
		status := p.game.Status()
		if status.Over() {
			fmt.Println(p.paint.Paint(display.Green, "Game over: "+status.String()))
			return nil
		}
		if !p.quiet {
			fmt.Println(display.Turn(p.game, p.paint))
		}

		mover := p.game.SideToMove()
		var m rules.Move
		var err error
		if mover == p.human {
			m, err = p.ask()
		} else {
			m, err = p.think()
		}
		if err != nil {
			return err
		}
		if err := p.game.CommitMove(m); err != nil {
			return err
		}
		fmt.Printf("%s plays %s\n", mover, m)

		if p.game.Status().Over() {
			continue
		}
		granted := p.flipper.Bonus()
		if err := p.game.ResolveBonus(granted); err != nil {
			return err
		}
		if granted {
			fmt.Println(p.paint.Paint(display.Yellow, fmt.Sprintf("Bonus! %s moves again.", mover)))
		}
	}
}

func (p *player) think() (rules.Move, error) {
	start := time.Now()
	res, err := p.engine.BestMove(p.game)
	if err != nil {
		return rules.Move{}, err
	}
	if !p.quiet {
		fmt.Printf("(score %.1f, %d nodes, %s)\n", res.Score, res.Stats.Nodes, time.Since(start).Round(time.Millisecond))
	}
	return res.Move, nil
}

// ask reads until the human enters a legal move.
func (p *player) ask() (rules.Move, error) {
	for {
		line, err := p.rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return rules.Move{}, errQuit
		}
		if err != nil {
			return rules.Move{}, err
		}
		fields := strings.Fields(strings.ToLower(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return rules.Move{}, errQuit
		case "board":
			fmt.Print(display.Board(p.game, p.paint))
			continue
		case "moves":
			if len(fields) != 2 {
				fmt.Println("usage: moves <square>")
				continue
			}
			p.listMoves(fields[1])
			continue
		}

		m, err := rules.ParseMove(fields[0])
		if err != nil {
			fmt.Println(p.paint.Paint(display.Red, err.Error()))
			continue
		}
		check := p.game.CheckMove(m.From, m.To)
		if !check.Legal() {
			fmt.Println(p.paint.Paint(display.Red, "illegal move "+m.String()))
			continue
		}
		if check.RequiresPromotion() && m.Promotion == rules.NoKind {
			if m.Promotion, err = p.askPromotion(); err != nil {
				return rules.Move{}, err
			}
		}
		return m, nil
	}
}

func (p *player) askPromotion() (rules.Kind, error) {
	p.rl.SetPrompt(display.Prompt("promote to q/r/b/n"))
	defer p.rl.SetPrompt(display.Prompt("move"))
	for {
		line, err := p.rl.Readline()
		if err != nil {
			return rules.NoKind, errQuit
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return rules.Queen, nil
		}
		if k, ok := rules.KindFromLetter(line[0]); ok && k.CanPromoteTo() {
			return k, nil
		}
	}
}

func (p *player) listMoves(square string) {
	sq, err := rules.ParseSquare(square)
	if err != nil {
		fmt.Println(p.paint.Paint(display.Red, err.Error()))
		return
	}
	var names []string
	for _, d := range p.game.LegalDestinations(sq) {
		name := d.To.String()
		if d.CausesCheck {
			name += "+"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		fmt.Println("no moves from", sq)
		return
	}
	fmt.Println(strings.Join(names, " "))
}

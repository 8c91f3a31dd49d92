package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bonuschess/coin"
	"bonuschess/display"
	"bonuschess/engine"
	"bonuschess/game"
	"bonuschess/rules"
)

func main() {
	var (
		depth   = flag.Int("depth", engine.DefaultDepth, "search depth in half-moves")
		seed    = flag.Uint64("seed", uint64(time.Now().UnixNano()), "coin flipper seed")
		verbose = flag.Bool("v", false, "debug logging on stderr")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	s := newSession(*depth, coin.New(*seed))
	s.loop(os.Stdin, os.Stdout)
}

// session is one game driven over a line protocol. Every command answers with
// at least one line; failures come back as "info string ..." and never end the
// session.
type session struct {
	depth   int
	flipper *coin.Flipper
	game    *game.Game
	engine  *engine.Engine
	out     io.Writer
}

func newSession(depth int, flipper *coin.Flipper) *session {
	s := &session{depth: depth, flipper: flipper}
	s.engine = engine.New(engine.WithDepth(depth), engine.WithLogger(log.Logger))
	s.game = game.New(true, game.WithLogger(log.Logger))
	return s
}

func (s *session) loop(in io.Reader, out io.Writer) {
	s.out = out
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if !s.handle(tokens) {
			return
		}
	}
}

func (s *session) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *session) info(format string, a ...any) {
	fmt.Fprintf(s.out, "info string "+format+"\n", a...)
}

// handle runs one command. It returns false on quit.
func (s *session) handle(tokens []string) bool {
	switch strings.ToLower(tokens[0]) {
	case "quit":
		return false
	case "newgame":
		s.newGame(tokens[1:])
	case "position":
		s.position(tokens[1:])
	case "move":
		if len(tokens) != 2 {
			s.info("usage: move <from><to>[promotion]")
			break
		}
		m, err := rules.ParseMove(tokens[1])
		if err != nil {
			s.info("%v", err)
			break
		}
		if err := s.game.CommitMove(m); err != nil {
			s.info("%v", err)
			break
		}
		s.println("ok", m)
		s.status()
	case "bonus":
		if len(tokens) != 2 || (tokens[1] != "0" && tokens[1] != "1") {
			s.info("usage: bonus 0|1")
			break
		}
		s.resolve(tokens[1] == "1")
	case "flip":
		if !s.game.BonusPending() {
			s.info("%v", game.ErrNoMoveToResolve)
			break
		}
		s.resolve(s.flipper.Bonus())
	case "go":
		s.search(tokens[1:])
	case "status":
		s.status()
	case "board":
		fmt.Fprint(s.out, display.Board(s.game, display.NewPainter(false)))
	case "fen":
		s.println(s.game.FEN())
	case "moves":
		s.moves(tokens[1:])
	case "history":
		for i, e := range s.game.History().Entries() {
			s.println(i+1, e.Mover(), e.Move())
		}
		s.println("end")
	case "events":
		for _, e := range s.game.Events() {
			data, err := json.Marshal(e)
			if err != nil {
				s.info("%v", err)
				continue
			}
			s.println(string(data))
		}
		s.println("end")
	default:
		s.info("unknown command %q", tokens[0])
	}
	return true
}

// newGame starts over. Without a colour the session coin picks the first
// mover; naming one leaves the coin untouched.
func (s *session) newGame(args []string) {
	var whiteFirst bool
	choice := ""
	if len(args) > 0 {
		choice = strings.ToLower(args[0])
	}
	switch choice {
	case "":
		whiteFirst = s.flipper.FirstMoverIsWhite()
	case "white":
		whiteFirst = true
	case "black":
	case "daily":
		s.flipper = coin.Daily(time.Now())
		whiteFirst = s.flipper.FirstMoverIsWhite()
	default:
		s.info("usage: newgame [white|black|daily]")
		return
	}
	s.game = game.New(whiteFirst, game.WithLogger(log.Logger))
	s.engine = engine.New(engine.WithDepth(s.depth), engine.WithLogger(log.Logger))
	s.status()
}

// position replaces the game. Moves after "moves" are committed with every
// bonus denied, except where a move is followed by "+", which grants one.
func (s *session) position(args []string) {
	if len(args) == 0 {
		s.info("usage: position startpos|fen <fen> [moves ...]")
		return
	}
	var fields []string
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		fields = []string{rules.StartFEN}
	case "fen":
		for len(rest) > 0 && strings.ToLower(rest[0]) != "moves" {
			fields = append(fields, rest[0])
			rest = rest[1:]
		}
	default:
		s.info("invalid position subcommand %q", args[0])
		return
	}

	g, err := game.FromFEN(strings.Join(fields, " "), game.WithLogger(log.Logger))
	if err != nil {
		s.info("%v", err)
		return
	}
	if len(rest) > 0 {
		if strings.ToLower(rest[0]) != "moves" {
			s.info("expected \"moves\", got %q", rest[0])
			return
		}
		rest = rest[1:]
	}
	for _, tok := range rest {
		granted := strings.HasSuffix(tok, "+")
		m, err := rules.ParseMove(strings.TrimSuffix(tok, "+"))
		if err != nil {
			s.info("%v", err)
			return
		}
		if err := g.CommitMove(m); err != nil {
			s.info("move %s: %v", tok, err)
			return
		}
		if err := g.ResolveBonus(granted); err != nil && !errors.Is(err, game.ErrGameAlreadyOver) {
			s.info("move %s: %v", tok, err)
			return
		}
	}
	s.game = g
	s.status()
}

func (s *session) resolve(granted bool) {
	if err := s.game.ResolveBonus(granted); err != nil {
		s.info("%v", err)
		return
	}
	if granted {
		s.println("bonus granted")
	} else {
		s.println("bonus denied")
	}
	s.status()
}

func (s *session) search(args []string) {
	e := s.engine
	if len(args) == 2 && strings.ToLower(args[0]) == "depth" {
		d, err := strconv.Atoi(args[1])
		if err != nil {
			s.info("bad depth %q", args[1])
			return
		}
		e = engine.New(engine.WithDepth(d), engine.WithLogger(log.Logger))
	}
	res, err := e.BestMove(s.game)
	if err != nil {
		s.info("%v", err)
		return
	}
	s.println("bestmove", res.Move, "score", strconv.FormatFloat(res.Score, 'f', 1, 64), "nodes", res.Stats.Nodes)
}

func (s *session) status() {
	st := s.game.Status()
	switch {
	case st.Over():
		s.println("status", st)
	case s.game.BonusPending():
		s.println("status pending")
	default:
		s.println("status", s.game.SideToMove(), "to move")
	}
}

func (s *session) moves(args []string) {
	if len(args) == 0 {
		var names []string
		for _, m := range s.game.LegalMoves() {
			names = append(names, m.String())
		}
		s.println("moves", strings.Join(names, " "))
		return
	}
	sq, err := rules.ParseSquare(args[0])
	if err != nil {
		s.info("%v", err)
		return
	}
	var names []string
	for _, d := range s.game.LegalDestinations(sq) {
		name := d.To.String()
		if d.CausesCheck {
			name += "+"
		}
		names = append(names, name)
	}
	s.println("moves", strings.Join(names, " "))
}

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bonuschess/coin"
	"bonuschess/engine"
	"bonuschess/game"
	"bonuschess/rules"
)

type matchConfig struct {
	depth  int
	maxPly int
	log    zerolog.Logger
}

// record summarises one finished (or abandoned) game.
type record struct {
	ID         string
	Seed       uint64
	FirstMover rules.Color
	Status     rules.Status
	Plies      uint32
	Bonuses    int
	Duration   time.Duration
}

func (r record) result() string {
	switch {
	case r.Status.Kind == rules.Won && r.Status.Winner == rules.White:
		return "1-0"
	case r.Status.Kind == rules.Won:
		return "0-1"
	case r.Status.Kind == rules.Draw:
		return "1/2-1/2"
	}
	return "*"
}

// playGame runs one computer-vs-computer game. Both sides search at the same
// depth; the coin is seeded so a seed always replays the same game.
func playGame(seed uint64, cfg matchConfig) (record, error) {
	start := time.Now()
	flipper := coin.New(seed)
	rec := record{ID: uuid.New().String(), Seed: seed}

	logger := cfg.log.With().Str("game", rec.ID).Logger()
	g := game.New(flipper.FirstMoverIsWhite(), game.WithLogger(logger))
	rec.FirstMover = g.SideToMove()
	engines := map[rules.Color]*engine.Engine{
		rules.White: engine.New(engine.WithDepth(cfg.depth), engine.WithLogger(logger)),
		rules.Black: engine.New(engine.WithDepth(cfg.depth), engine.WithLogger(logger)),
	}

	for !g.Status().Over() && (cfg.maxPly <= 0 || int(g.Ply()) < cfg.maxPly) {
		res, err := engines[g.SideToMove()].BestMove(g)
		if err != nil {
			return rec, fmt.Errorf("ply %d: %w", g.Ply(), err)
		}
		if err := g.CommitMove(res.Move); err != nil {
			return rec, fmt.Errorf("ply %d: %w", g.Ply(), err)
		}
		if g.Status().Over() {
			break
		}
		granted := flipper.Bonus()
		if granted {
			rec.Bonuses++
		}
		if err := g.ResolveBonus(granted); err != nil {
			return rec, fmt.Errorf("ply %d: %w", g.Ply(), err)
		}
	}

	rec.Status = g.Status()
	rec.Plies = g.Ply()
	rec.Duration = time.Since(start)
	return rec, nil
}

func writeRecords(w io.Writer, records []record) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "seed", "first_mover", "result", "plies", "bonuses", "duration"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID,
			strconv.FormatUint(r.Seed, 10),
			r.FirstMover.String(),
			r.result(),
			strconv.FormatUint(uint64(r.Plies), 10),
			strconv.Itoa(r.Bonuses),
			r.Duration.String(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %s: %w", r.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

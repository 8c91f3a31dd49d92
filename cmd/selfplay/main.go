// Command selfplay runs computer-vs-computer Bonus Chess games in parallel and
// writes one CSV row per game.
package main

import (
	"flag"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bonuschess/engine"
	"bonuschess/rules"
)

func main() {
	games := flag.Int("games", 10, "number of games to play")
	workers := flag.Int("workers", runtime.NumCPU(), "games played at the same time")
	depth := flag.Int("depth", engine.DefaultDepth, "search depth for both sides")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed of the first game; game i uses seed+i")
	maxPly := flag.Int("maxply", 400, "abandon a game after this many plies (0 = never)")
	out := flag.String("out", "", "CSV output file (default stdout)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if *workers < 1 {
		*workers = 1
	}
	if *games < 0 {
		*games = 0
	}

	cfg := matchConfig{depth: *depth, maxPly: *maxPly, log: log.Logger}
	start := time.Now()
	records := runMatches(*games, *workers, *seed, cfg)

	sink := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("could not create output")
		}
		defer f.Close()
		sink = f
	}
	if err := writeRecords(sink, records); err != nil {
		log.Fatal().Err(err).Msg("could not write results")
	}

	var whiteWins, blackWins, draws int
	for _, r := range records {
		switch {
		case r.Status.Kind == rules.Won && r.Status.Winner == rules.White:
			whiteWins++
		case r.Status.Kind == rules.Won:
			blackWins++
		case r.Status.Kind == rules.Draw:
			draws++
		}
	}
	log.Info().
		Int("games", len(records)).
		Int("white", whiteWins).
		Int("black", blackWins).
		Int("draws", draws).
		Dur("took", time.Since(start)).
		Msg("match finished")
}

// runMatches plays n games on a fixed pool of workers. Failed games are logged
// and left out of the result, which is ordered by seed.
func runMatches(n, workers int, seed uint64, cfg matchConfig) []record {
	n = max(n, 0)
	workers = max(workers, 1)
	tasks := make(chan uint64, n)
	for i := 0; i < n; i++ {
		tasks <- seed + uint64(i)
	}
	close(tasks)

	var (
		mu      sync.Mutex
		records []record
		wg      sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range tasks {
				rec, err := playGame(s, cfg)
				if err != nil {
					cfg.log.Error().Err(err).Str("game", rec.ID).Uint64("seed", s).Msg("game failed")
					continue
				}
				cfg.log.Info().
					Str("game", rec.ID).
					Uint64("seed", s).
					Str("result", rec.result()).
					Uint32("plies", rec.Plies).
					Int("bonuses", rec.Bonuses).
					Dur("took", rec.Duration).
					Msg("game finished")
				mu.Lock()
				records = append(records, rec)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Slice(records, func(i, j int) bool { return records[i].Seed < records[j].Seed })
	return records
}

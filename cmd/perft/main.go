package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	eng "github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bonuschess/rules"
)

func main() {
	fen := flag.String("fen", rules.StartFEN, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "Repeat perft N times and report aggregate (for steadier timings)")
	verify := flag.Bool("verify", false, "Cross-check the count against the GooseEngineMG generator")
	label := flag.String("label", "", "Optional label prefix for one-line output")
	cpuProf := flag.String("cpuprofile", "", "Write CPU profile to file during run")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *depth <= 0 {
		log.Fatal().Int("depth", *depth).Msg("-depth must be > 0")
	}
	if *repeat < 1 {
		*repeat = 1
	}

	pos, err := rules.FromFEN(*fen)
	if err != nil {
		log.Fatal().Err(err).Str("fen", *fen).Msg("bad position")
	}

	if *divide {
		div := pos.Divide(*depth)
		moves := make([]string, 0, len(div))
		var sum uint64
		for m, n := range div {
			moves = append(moves, m)
			sum += n
		}
		sort.Strings(moves)
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			log.Fatal().Err(err).Msg("creating cpuprofile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("start cpu profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	var totalNodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		totalNodes += pos.Perft(*depth)
	}
	elapsed := time.Since(start)
	nps := float64(totalNodes) / elapsed.Seconds()

	// Single line: Depth Nodes Time NPS
	fmt.Printf("%s \t%d \t\t%d \t\t%s \t%.0f\n", *label, *depth, totalNodes, elapsed, nps)

	if *verify {
		board, err := eng.ParseFEN(*fen)
		if err != nil {
			log.Fatal().Err(err).Msg("goosemg could not parse position")
		}
		want := eng.Perft(board, *depth)
		got := totalNodes / uint64(*repeat)
		if got != want {
			log.Error().Uint64("got", got).Uint64("want", want).Msg("perft mismatch")
			os.Exit(1)
		}
		log.Info().Uint64("nodes", want).Msg("perft verified")
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"bonuschess/engine"
	"bonuschess/rules"
)

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", engine.DefaultDepth, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", rules.StartFEN, "FEN to search")
	noPrune := flag.Bool("noprune", false, "disable alpha-beta cutoffs")
	ttMB := flag.Int("tt", engine.DefaultTableSize, "transposition table size in MB (0 disables)")
	evalFlag := flag.String("eval", "material", "static evaluator: material, proportion or feature")
	pessimistic := flag.Bool("pessimistic", false, "expect the coin to favour the opponent")
	iterative := flag.Bool("iterative", false, "deepen one ply at a time, ordering by the table")
	verbose := flag.Bool("v", false, "log per-search statistics")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *depthFlag <= 0 {
		log.Fatal().Msgf("depth must be positive, got %d", *depthFlag)
	}

	pos, err := rules.FromFEN(*fenFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad position")
	}
	evaluator, err := engine.EvaluatorByName(*evalFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -eval")
	}

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	e := engine.New(
		engine.WithDepth(*depthFlag),
		engine.WithPruning(!*noPrune),
		engine.WithTableSize(*ttMB),
		engine.WithEvaluator(evaluator),
		engine.WithPessimism(*pessimistic),
		engine.WithIterativeDeepening(*iterative),
		engine.WithLogger(log.Logger),
	)

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", *fenFlag, *depthFlag, *repeatFlag)

	startAll := time.Now()
	var nodes uint64
	for i := 0; i < *repeatFlag; i++ {
		iterStart := time.Now()
		res, err := e.Search(pos, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("search failed")
		}
		iterElapsed := time.Since(iterStart)
		nodes += res.Stats.Nodes + res.Stats.ChanceNodes

		fmt.Printf("iteration %d: bestmove %s score %.2f nodes %d time=%v\n",
			i+1, res.Move, res.Score, res.Stats.Nodes+res.Stats.ChanceNodes, iterElapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v  nps: %.0f\n", totalElapsed, float64(nodes)/totalElapsed.Seconds())

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not write memory profile")
		}
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	facs "github.com/djgroen/facs"
)

func main() {
	numCPUPtr := flag.Int("threads", runtime.NumCPU(), "number of CPU threads")
	seedPtr := flag.Int64("seed", time.Now().UTC().UnixNano(), "random seed")
	quicktestPtr := flag.Bool("quicktest", false, "raise house_ratio to 100 for a faster, lower-fidelity sweep on populous regions")
	startingInfectionsPtr := flag.String("starting_infections", "", "absolute seed case count, or a population ratio (e.g. 0.01) if it starts with '0'")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	configPath := flag.Arg(0)
	if configPath == "" {
		logger.Fatal().Msg("usage: facs <config.toml>")
	}

	runtime.GOMAXPROCS(*numCPUPtr)
	runID := ksuid.New()
	logger = logger.With().Str("run_id", runID.String()).Logger()

	conf, err := facs.LoadRunConfig(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading configuration")
	}
	if *quicktestPtr {
		conf.Quicktest = true
		conf.HouseRatio = 100
	}
	if *startingInfectionsPtr != "" {
		conf.StartingInfections = *startingInfectionsPtr
	}

	start := time.Now()
	logger.Info().Int("workers", conf.NumWorkers).Int("days", conf.SimDays).Msg("starting run")

	e, err := facs.BuildEcosystem(conf, *seedPtr)
	if err != nil {
		logger.Fatal().Err(err).Msg("building ecosystem")
	}

	dlogger := conf.NewLogger(0)
	if err := dlogger.Init(); err != nil {
		logger.Fatal().Err(err).Msg("initializing output logger")
	}
	e.Logger = dlogger
	defer dlogger.Close()

	if err := facs.RunSimulation(e, conf, *seedPtr, func(day int, row facs.SeriesRow) {
		logger.Debug().Int("day", day).Int64("infectious", row.Infectious).Msg("tick")
	}); err != nil {
		logger.Fatal().Err(err).Msg("running simulation")
	}

	logger.Info().Str("elapsed", fmt.Sprint(time.Since(start))).Msg("run complete")
}

package main

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/rescuesim/simulator/internal/config"
	"github.com/rescuesim/simulator/internal/engine"
	"github.com/rescuesim/simulator/internal/fleet"
	"github.com/rescuesim/simulator/internal/hazard"
	"github.com/rescuesim/simulator/internal/influx"
	"github.com/rescuesim/simulator/internal/metrics"
	"github.com/rescuesim/simulator/internal/model"
	"github.com/rescuesim/simulator/internal/monitor"
	"github.com/rescuesim/simulator/internal/path"
	"github.com/rescuesim/simulator/internal/storage"
	"github.com/rescuesim/simulator/internal/worker"
	"github.com/rescuesim/simulator/pkg/core"
)

func parseStrategy(name string) (path.Strategy, error) {
	switch name {
	case "bfs":
		return path.NewBFS(), nil
	case "dijkstra":
		return path.NewDijkstra(), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
}

func buildOptions() (engine.Options, error) {
	opts := engine.DefaultOptions()
	opts.Rows = viper.GetInt("grid.rows")
	opts.Cols = viper.GetInt("grid.cols")
	opts.HazardSpec = hazard.Spec{
		core.HazardLargeCircle:    viper.GetInt("hazards.largeCircles"),
		core.HazardSmallCircle:    viper.GetInt("hazards.smallCircles"),
		core.HazardHorizontalBand: viper.GetInt("hazards.horizontalBands"),
		core.HazardVerticalBand:   viper.GetInt("hazards.verticalBands"),
		core.HazardPeriodicCircle: viper.GetInt("hazards.periodicCircles"),
	}
	opts.Composition = fleet.Composition{
		core.CategoryMedium:     viper.GetInt("fleet.medium"),
		core.CategoryScout:      viper.GetInt("fleet.scout"),
		core.CategoryHeavy:      viper.GetInt("fleet.heavy"),
		core.CategoryLightCargo: viper.GetInt("fleet.lightCargo"),
	}
	opts.Persons = viper.GetInt("resources.persons")
	opts.Goods = viper.GetInt("resources.goods")
	opts.StallLimit = viper.GetInt("sim.stallLimit")
	opts.Seed = viper.GetInt64("sim.seed")

	var err error
	if opts.StrategyA, err = parseStrategy(viper.GetString("sim.strategyA")); err != nil {
		return opts, err
	}
	if opts.StrategyB, err = parseStrategy(viper.GetString("sim.strategyB")); err != nil {
		return opts, err
	}
	return opts, nil
}

func runSimulation(logger zerolog.Logger, resume bool) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	backend, err := storage.NewBackend(config.GetStorageConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}

	eng := engine.New(opts, logger)
	if resume {
		snap, ok, err := backend.LatestSnapshot()
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}
		if !ok {
			return fmt.Errorf("no stored snapshot to resume from")
		}
		if err := eng.Resume(snap); err != nil {
			return fmt.Errorf("failed to resume from snapshot: %w", err)
		}
		logger.Info().Int("tick", snap.Tick).Msg("resumed from snapshot")
	} else if err := eng.Init(); err != nil {
		return fmt.Errorf("failed to initialize simulation: %w", err)
	}

	rec, err := metrics.NewRecorder()
	if err != nil {
		logger.Warn().Err(err).Msg("metrics disabled")
		rec = nil
	}

	var fluxMgr *influx.Manager
	if viper.GetBool("influx.enabled") {
		mgr := influx.NewManager(logger,
			filepath.Join(viper.GetString("logsDir"), "influx_backup.gz"))
		if err := mgr.Connect(); err != nil {
			logger.Warn().Err(err).Msg("influx telemetry disabled")
		} else {
			fluxMgr = mgr
			defer fluxMgr.Close()
		}
	}

	recorder := worker.NewRecorder(worker.Dependencies{
		Backend: backend,
		Metrics: rec,
		Influx:  fluxMgr,
		Log:     logger,
	})
	recorder.Start()

	sim := &model.Simulation{
		GridRows:  opts.Rows,
		GridCols:  opts.Cols,
		Seed:      opts.Seed,
		StrategyA: viper.GetString("sim.strategyA"),
		StrategyB: viper.GetString("sim.strategyB"),
	}
	if err := backend.StartSimulation(sim); err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}

	// The engine is single-threaded, so the monitor reads a copy the tick
	// loop publishes instead of touching the engine directly.
	var statusMu sync.Mutex
	var status monitor.Status
	mon := monitor.NewService(5*time.Second, func() monitor.Status {
		statusMu.Lock()
		defer statusMu.Unlock()
		return status
	}, logger)
	mon.Start()
	defer mon.Stop()

	snapEvery := viper.GetInt("sim.snapshotInterval")
	err = eng.Run(viper.GetInt("sim.maxTicks"), func(events core.TickEvents) {
		recorder.Record(events)
		statusMu.Lock()
		status = monitor.Status{
			Tick:      eng.Tick(),
			ScoreA:    eng.Fleet(core.TeamA).Score,
			ScoreB:    eng.Fleet(core.TeamB).Score,
			AliveA:    eng.Fleet(core.TeamA).AliveCount(),
			AliveB:    eng.Fleet(core.TeamB).AliveCount(),
			Resources: len(eng.Resources()),
		}
		statusMu.Unlock()
		if snapEvery > 0 && eng.Tick()%snapEvery == 0 {
			recorder.RecordSnapshot(eng.Snapshot())
		}
	})
	if err != nil {
		return err
	}
	recorder.Stop()

	sum := eng.Summary()
	if err := backend.EndSimulation(sum); err != nil {
		return fmt.Errorf("failed to finalize recording: %w", err)
	}
	if exp, ok := backend.(storage.Exportable); ok {
		logger.Info().Str("artifact", exp.ExportedFilePath()).Msg("run recorded")
	}
	if err := backend.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close storage backend")
	}

	fmt.Printf("ticks: %d\n", sum.Ticks)
	fmt.Printf("winner: %s (%s)\n", sum.Winner, sum.Reason)
	for _, ts := range sum.Teams {
		fmt.Printf("%s: score=%d alive=%d destroyed=%d jobDone=%d\n",
			ts.Team, ts.Score, ts.Alive, ts.Destroyed, ts.JobDone)
	}
	return nil
}

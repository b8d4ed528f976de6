package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/internal/config"
	"github.com/rescuesim/simulator/internal/export"
	"github.com/rescuesim/simulator/internal/model"
	"github.com/rescuesim/simulator/internal/storage"
)

// openHistory opens the configured backend for reading recorded runs.
// The memory backend holds no history between processes, so only the
// database backends are useful here.
func openHistory(logger zerolog.Logger) (storage.Backend, []model.Simulation, error) {
	backend, err := storage.NewBackend(config.GetStorageConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	sims, err := backend.Simulations()
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to read recorded runs: %w", err)
	}
	return backend, sims, nil
}

func listRuns(logger zerolog.Logger) error {
	backend, sims, err := openHistory(logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if len(sims) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Printf("%-6s %-20s %-12s %-8s %-24s %8s %8s\n",
		"ID", "STARTED", "SEED", "TICKS", "WINNER", "SCORE_A", "SCORE_B")
	for _, sim := range sims {
		winner := sim.Winner
		if sim.Reason != "" {
			winner = fmt.Sprintf("%s (%s)", sim.Winner, sim.Reason)
		}
		fmt.Printf("%-6d %-20s %-12d %-8d %-24s %8d %8d\n",
			sim.ID,
			sim.StartedAt.Format("2006-01-02 15:04:05"),
			sim.Seed,
			sim.Ticks,
			winner,
			sim.ScoreA,
			sim.ScoreB,
		)
	}
	return nil
}

func exportRuns(logger zerolog.Logger, dir string) error {
	backend, sims, err := openHistory(logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if len(sims) == 0 {
		fmt.Println("No recorded runs to export.")
		return nil
	}

	paths, err := export.WriteFiles(dir, sims)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Info().Str("path", p).Msg("exported")
		fmt.Println(p)
	}
	return nil
}

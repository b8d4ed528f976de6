// Package export writes recorded run history to CSV files for offline
// analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rescuesim/simulator/internal/model"
)

// Simulations writes one row per recorded run.
func Simulations(w io.Writer, sims []model.Simulation) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id", "started_at", "seed", "rows", "cols",
		"strategy_a", "strategy_b", "ticks", "winner", "reason",
		"score_a", "score_b",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, sim := range sims {
		row := []string{
			strconv.FormatUint(uint64(sim.ID), 10),
			sim.StartedAt.Format("2006-01-02 15:04:05"),
			strconv.FormatInt(sim.Seed, 10),
			strconv.Itoa(sim.GridRows),
			strconv.Itoa(sim.GridCols),
			sim.StrategyA,
			sim.StrategyB,
			strconv.Itoa(sim.Ticks),
			sim.Winner,
			sim.Reason,
			strconv.Itoa(sim.ScoreA),
			strconv.Itoa(sim.ScoreB),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// VehicleResults writes one row per vehicle across all given runs.
func VehicleResults(w io.Writer, sims []model.Simulation) error {
	cw := csv.NewWriter(w)
	header := []string{
		"simulation_id", "vehicle_id", "team", "category", "status",
		"distance", "delivered", "destroyed", "route",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, sim := range sims {
		for _, vr := range sim.VehicleResults {
			row := []string{
				strconv.FormatUint(uint64(sim.ID), 10),
				vr.VehicleID,
				vr.Team,
				vr.Category,
				vr.Status,
				strconv.Itoa(vr.Distance),
				strconv.Itoa(vr.Delivered),
				strconv.FormatBool(vr.Destroyed),
				vr.Route,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles writes simulations.csv and vehicles.csv into dir and returns
// the paths written.
func WriteFiles(dir string, sims []model.Simulation) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var paths []string
	write := func(name string, fn func(io.Writer, []model.Simulation) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		defer f.Close()
		if err := fn(f, sims); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		paths = append(paths, path)
		return nil
	}

	if err := write("simulations.csv", Simulations); err != nil {
		return nil, err
	}
	if err := write("vehicles.csv", VehicleResults); err != nil {
		return nil, err
	}
	return paths, nil
}

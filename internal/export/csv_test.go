package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuesim/simulator/internal/model"
	"gorm.io/gorm"
)

func sampleSims() []model.Simulation {
	return []model.Simulation{
		{
			Model:     gorm.Model{ID: 1},
			StartedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Seed:      42,
			GridRows:  50,
			GridCols:  50,
			StrategyA: "bfs",
			StrategyB: "dijkstra",
			Ticks:     321,
			Winner:    "team_b",
			Reason:    "resources exhausted",
			ScoreA:    120,
			ScoreB:    185,
			VehicleResults: []model.VehicleResult{
				{
					VehicleID: "team_a_medium_1",
					Team:      "team_a",
					Category:  "medium",
					Status:    "in_base",
					Distance:  88,
					Delivered: 70,
				},
				{
					VehicleID: "team_b_heavy_1",
					Team:      "team_b",
					Category:  "heavy",
					Status:    "destroyed",
					Destroyed: true,
				},
			},
		},
	}
}

func TestSimulationsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Simulations(&buf, sampleSims()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "42", rows[1][2])
	assert.Equal(t, "team_b", rows[1][8])
	assert.Equal(t, "185", rows[1][11])
}

func TestVehicleResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, VehicleResults(&buf, sampleSims()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "team_a_medium_1", rows[1][1])
	assert.Equal(t, "70", rows[1][6])
	assert.Equal(t, "true", rows[2][7])
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteFiles(dir, sampleSims())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

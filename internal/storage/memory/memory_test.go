package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuesim/simulator/internal/config"
	"github.com/rescuesim/simulator/internal/model"
	"github.com/rescuesim/simulator/pkg/core"
)

func testBackend(t *testing.T, compress bool) *Backend {
	t.Helper()
	b := New(config.MemoryConfig{
		OutputDir:      t.TempDir(),
		CompressOutput: compress,
	})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func sampleEvents(tick int) core.TickEvents {
	return core.TickEvents{
		Tick: tick,
		Pickups: []core.PickupEvent{{
			Tick:      tick,
			VehicleID: "team_a_medium_1",
			Team:      core.TeamA,
			Kind:      core.ResourceFood,
			Points:    10,
		}},
	}
}

func TestRecordBeforeStart(t *testing.T) {
	b := testBackend(t, false)

	require.NoError(t, b.RecordEvents(sampleEvents(1)))
	sims, err := b.Simulations()
	require.NoError(t, err)
	assert.Empty(t, sims)
}

func TestEmptyTickSkipped(t *testing.T) {
	b := testBackend(t, false)
	require.NoError(t, b.StartSimulation(&model.Simulation{Seed: 7}))

	require.NoError(t, b.RecordEvents(core.TickEvents{Tick: 3}))
	assert.Empty(t, b.events)
}

func TestExportPlainJSON(t *testing.T) {
	b := testBackend(t, false)
	sim := &model.Simulation{Seed: 7, GridRows: 50, GridCols: 50}
	require.NoError(t, b.StartSimulation(sim))
	require.NoError(t, b.RecordEvents(sampleEvents(1)))
	require.NoError(t, b.RecordEvents(sampleEvents(2)))

	sum := core.Summary{
		Ticks:  2,
		Winner: "team_a",
		Reason: core.EndResourcesExhausted,
	}
	require.NoError(t, b.EndSimulation(sum))

	path := b.ExportedFilePath()
	require.NotEmpty(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var export RunExport
	require.NoError(t, json.NewDecoder(f).Decode(&export))
	assert.Equal(t, "team_a", export.Summary.Winner)
	assert.Equal(t, int64(7), export.Simulation.Seed)
	assert.Len(t, export.Events, 2)
	assert.Equal(t, "team_a", export.Simulation.Winner)
}

func TestExportGzip(t *testing.T) {
	b := testBackend(t, true)
	require.NoError(t, b.StartSimulation(&model.Simulation{Seed: 1}))
	require.NoError(t, b.RecordEvents(sampleEvents(1)))
	require.NoError(t, b.EndSimulation(core.Summary{Ticks: 1, Winner: "draw"}))

	path := b.ExportedFilePath()
	require.NotEmpty(t, path)
	assert.Regexp(t, `\.json\.gz$`, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export RunExport
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Equal(t, "draw", export.Summary.Winner)
	assert.Len(t, export.Events, 1)
}

func TestStartResetsPreviousRun(t *testing.T) {
	b := testBackend(t, false)
	require.NoError(t, b.StartSimulation(&model.Simulation{Seed: 1}))
	require.NoError(t, b.RecordEvents(sampleEvents(1)))
	require.NoError(t, b.RecordSnapshot(core.TickSnapshot{Tick: 1}))

	require.NoError(t, b.StartSimulation(&model.Simulation{Seed: 2}))
	assert.Empty(t, b.events)
	assert.Empty(t, b.snapshots)
	assert.Empty(t, b.ExportedFilePath())

	sims, err := b.Simulations()
	require.NoError(t, err)
	require.Len(t, sims, 1)
	assert.Equal(t, int64(2), sims[0].Seed)
}

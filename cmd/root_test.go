package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/line-sim/sim/experiment"
)

func TestApplyOverrides_OnlyChangedFlagsWin(t *testing.T) {
	// GIVEN a YAML config and flag variables holding their defaults plus two user values
	cfg := experiment.DefaultConfig()
	cfg.Seed = 7
	cfg.Line.Vehicle.BatchSize = 20
	seed, batchSize, reorderPoint = 99, 10, 5

	// WHEN only --seed and --reorder-point were given on the command line
	changed := map[string]bool{"seed": true, "reorder-point": true}
	applyOverrides(&cfg, func(name string) bool { return changed[name] })

	// THEN those override YAML and everything else keeps the YAML value
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 5.0, cfg.Line.Vehicle.ReorderPoint)
	assert.Equal(t, 20.0, cfg.Line.Vehicle.BatchSize)
}

func TestRunExperiment_RendersReportAndWritesSeries(t *testing.T) {
	// GIVEN two short replications with tracing on
	cfg := experiment.DefaultConfig()
	cfg.Horizon = 10000
	cfg.Replications = 2
	cfg.Trace = "transitions"
	dir := t.TempDir()
	var out bytes.Buffer

	// WHEN the experiment runs
	require.NoError(t, runExperiment(&out, cfg, dir))

	// THEN the report lists every entity kind with confidence intervals
	report := out.String()
	assert.Contains(t, report, "Line Metrics (2 replication(s))")
	assert.Contains(t, report, "Stations")
	assert.Contains(t, report, "Transports")
	assert.Contains(t, report, "±95% CI")
	assert.Contains(t, report, "M4->finished_goods")
	assert.Contains(t, report, "Trace Summary (replication 1)")

	// THEN one CSV per series per replication was written
	for _, rep := range []int{0, 1} {
		path := filepath.Join(dir, seriesFileName(rep, "finished_goods/level"))
		f, err := os.Open(path)
		require.NoError(t, err)
		records, err := csv.NewReader(f).ReadAll()
		_ = f.Close()
		require.NoError(t, err)
		require.NotEmpty(t, records)
		assert.Equal(t, []string{"time", "value"}, records[0])
		assert.Equal(t, []string{"0", "0"}, records[1])
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestRunExperiment_InvalidConfig_ReturnsError(t *testing.T) {
	cfg := experiment.DefaultConfig()
	cfg.Line.Vehicle.OrderUpTo = 1
	var out bytes.Buffer

	err := runExperiment(&out, cfg, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_up_to")
	assert.Empty(t, out.String())
}

func TestSeriesFileName(t *testing.T) {
	assert.Equal(t, "rep0_M1_processed.csv", seriesFileName(0, "M1/processed"))
	assert.Equal(t, "rep3_finished_goods_level.csv", seriesFileName(3, "finished_goods/level"))
}

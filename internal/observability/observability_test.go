package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-stats/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("loaded", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["msg"])
	assert.InDelta(t, 3, entry["rows"], 0)
}

func TestNewLoggerTo_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "debug", "TEXT")

	logger.Debug("stage done", "stage", "load")
	assert.Contains(t, buf.String(), "msg=\"stage done\"")
	assert.Contains(t, buf.String(), "stage=load")
}

func TestNewLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "json"})
	require.NotNil(t, logger)
	assert.Same(t, logger, slog.Default())
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RowsLoaded.Add(10)
	m.StageDuration.WithLabelValues("load").Observe(0.2)
	m.ANOVATests.WithLabelValues("Spring", "significant").Inc()
	m.LastRunSuccess.Set(1)

	assert.InDelta(t, 10, testutil.ToFloat64(m.RowsLoaded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ANOVATests.WithLabelValues("Spring", "significant")), 0)

	n, err := testutil.GatherAndCount(reg, "crashstat_rows_loaded_total", "crashstat_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Panics(t, func() { NewMetrics(reg) })
}

func TestNewMetricsForTesting_Isolated(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()
	a.FiguresRendered.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.FiguresRendered), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.FiguresRendered), 0)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.RowsLoaded.Add(42)
	m.ValidationIssues.WithLabelValues("year_range").Inc()

	path := filepath.Join(t.TempDir(), "crashstat.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "crashstat_rows_loaded_total 42")
	assert.Contains(t, string(data), `crashstat_validation_issues_total{check="year_range"} 1`)
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}

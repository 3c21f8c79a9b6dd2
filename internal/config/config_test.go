package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "crashData.txt", cfg.DataPath)
	assert.Equal(t, "latin1", cfg.DataEncoding)
	assert.InDelta(t, 39.166550, cfg.ReferenceLat, 1e-12)
	assert.InDelta(t, -86.526380, cfg.ReferenceLon, 1e-12)
	assert.InDelta(t, 1, cfg.NearRadius, 0)
	assert.InDelta(t, 25, cfg.HistogramMax, 0)
	assert.Equal(t, 100, cfg.HistogramBins)
	assert.Equal(t, time.October, cfg.FocusMonth)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "text", cfg.ReportFormat)
	assert.Empty(t, cfg.PlotDir)
	assert.Equal(t, "png", cfg.PlotFormat)
	assert.Equal(t, 8*vg.Inch, cfg.PlotWidth)
	assert.Equal(t, 6*vg.Inch, cfg.PlotHeight)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("CRASH_DATA_PATH", "/data/crashes.csv")
	t.Setenv("CRASH_DATA_ENCODING", "utf-8")
	t.Setenv("REFERENCE_LAT", "39.1")
	t.Setenv("REFERENCE_LON", "-86.5")
	t.Setenv("NEAR_RADIUS", "0.5")
	t.Setenv("HISTOGRAM_MAX_DISTANCE", "10")
	t.Setenv("HISTOGRAM_BINS", "50")
	t.Setenv("FOCUS_MONTH", "3")
	t.Setenv("TOP_N", "10")
	t.Setenv("REPORT_FORMAT", "JSON")
	t.Setenv("PLOT_DIR", "/tmp/plots")
	t.Setenv("PLOT_FORMAT", "svg")
	t.Setenv("PLOT_WIDTH", "20cm")
	t.Setenv("PLOT_HEIGHT", "300pt")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/crashstat.prom")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/crashes.csv", cfg.DataPath)
	assert.Equal(t, "utf-8", cfg.DataEncoding)
	assert.InDelta(t, 39.1, cfg.ReferenceLat, 1e-12)
	assert.InDelta(t, -86.5, cfg.ReferenceLon, 1e-12)
	assert.InDelta(t, 0.5, cfg.NearRadius, 0)
	assert.InDelta(t, 10, cfg.HistogramMax, 0)
	assert.Equal(t, 50, cfg.HistogramBins)
	assert.Equal(t, time.March, cfg.FocusMonth)
	assert.Equal(t, 10, cfg.TopN)
	assert.Equal(t, "json", cfg.ReportFormat)
	assert.Equal(t, "/tmp/plots", cfg.PlotDir)
	assert.Equal(t, "svg", cfg.PlotFormat)
	assert.InDelta(t, float64(20*vg.Centimeter), float64(cfg.PlotWidth), 1e-9)
	assert.Equal(t, vg.Points(300), cfg.PlotHeight)
	assert.Equal(t, "/var/lib/node_exporter/crashstat.prom", cfg.MetricsTextfile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"REFERENCE_LAT", "north"},
		{"REFERENCE_LAT", "91"},
		{"REFERENCE_LON", "NaN"},
		{"REFERENCE_LON", "-181"},
		{"NEAR_RADIUS", "0"},
		{"NEAR_RADIUS", "-1"},
		{"HISTOGRAM_MAX_DISTANCE", "abc"},
		{"HISTOGRAM_BINS", "0"},
		{"HISTOGRAM_BINS", "10001"},
		{"HISTOGRAM_BINS", "1.5"},
		{"FOCUS_MONTH", "13"},
		{"FOCUS_MONTH", "0"},
		{"TOP_N", "0"},
		{"REPORT_FORMAT", "xml"},
		{"PLOT_FORMAT", "gif"},
		{"PLOT_WIDTH", "wide"},
		{"PLOT_HEIGHT", "-2in"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate_AfterOverride(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.FocusMonth = time.December
	cfg.PlotFormat = "pdf"
	require.NoError(t, cfg.Validate())

	cfg.DataPath = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRASH_DATA_PATH")
}

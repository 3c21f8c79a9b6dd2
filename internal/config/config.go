package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gonum.org/v1/plot/vg"
)

// Config holds all run settings, populated from environment variables.
// Command-line flags may override fields after Load; call Validate again
// when they do.
type Config struct {
	DataPath     string
	DataEncoding string

	ReferenceLat  float64
	ReferenceLon  float64
	NearRadius    float64
	HistogramMax  float64
	HistogramBins int
	FocusMonth    time.Month
	TopN          int

	ReportFormat string
	PlotDir      string
	PlotFormat   string
	PlotWidth    vg.Length
	PlotHeight   vg.Length

	MetricsTextfile string
	LogLevel        string
	LogFormat       string
}

// Report and figure formats accepted by Validate.
var (
	ReportFormats = []string{"text", "json"}
	PlotFormats   = []string{"png", "svg", "pdf"}
)

// MaxHistogramBins bounds HISTOGRAM_BINS.
const MaxHistogramBins = 10000

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var err error
	cfg := &Config{
		DataPath:        sharedcfg.EnvOrDefault("CRASH_DATA_PATH", "crashData.txt"),
		DataEncoding:    sharedcfg.EnvOrDefault("CRASH_DATA_ENCODING", "latin1"),
		ReportFormat:    strings.ToLower(sharedcfg.EnvOrDefault("REPORT_FORMAT", "text")),
		PlotDir:         sharedcfg.EnvOrDefault("PLOT_DIR", ""),
		PlotFormat:      strings.ToLower(sharedcfg.EnvOrDefault("PLOT_FORMAT", "png")),
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.ReferenceLat, err = envFloat("REFERENCE_LAT", "39.166550"); err != nil {
		return nil, err
	}
	if cfg.ReferenceLon, err = envFloat("REFERENCE_LON", "-86.526380"); err != nil {
		return nil, err
	}
	if cfg.NearRadius, err = envFloat("NEAR_RADIUS", "1"); err != nil {
		return nil, err
	}
	if cfg.HistogramMax, err = envFloat("HISTOGRAM_MAX_DISTANCE", "25"); err != nil {
		return nil, err
	}
	if cfg.HistogramBins, err = envInt("HISTOGRAM_BINS", "100"); err != nil {
		return nil, err
	}
	month, err := envInt("FOCUS_MONTH", "10")
	if err != nil {
		return nil, err
	}
	cfg.FocusMonth = time.Month(month)
	if cfg.TopN, err = envInt("TOP_N", "5"); err != nil {
		return nil, err
	}
	if cfg.PlotWidth, err = envLength("PLOT_WIDTH", "8in"); err != nil {
		return nil, err
	}
	if cfg.PlotHeight, err = envLength("PLOT_HEIGHT", "6in"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	switch {
	case c.DataPath == "":
		return fmt.Errorf("CRASH_DATA_PATH is required")
	case c.ReferenceLat < -90 || c.ReferenceLat > 90:
		return fmt.Errorf("invalid REFERENCE_LAT: %g out of range", c.ReferenceLat)
	case c.ReferenceLon < -180 || c.ReferenceLon > 180:
		return fmt.Errorf("invalid REFERENCE_LON: %g out of range", c.ReferenceLon)
	case !(c.NearRadius > 0):
		return fmt.Errorf("invalid NEAR_RADIUS: must be > 0")
	case !(c.HistogramMax > 0):
		return fmt.Errorf("invalid HISTOGRAM_MAX_DISTANCE: must be > 0")
	case c.HistogramBins < 1 || c.HistogramBins > MaxHistogramBins:
		return fmt.Errorf("invalid HISTOGRAM_BINS: must be between 1 and %d", MaxHistogramBins)
	case c.FocusMonth < time.January || c.FocusMonth > time.December:
		return fmt.Errorf("invalid FOCUS_MONTH: must be between 1 and 12")
	case c.TopN < 1:
		return fmt.Errorf("invalid TOP_N: must be >= 1")
	case !oneOf(c.ReportFormat, ReportFormats):
		return fmt.Errorf("invalid REPORT_FORMAT %q: want one of %s", c.ReportFormat, strings.Join(ReportFormats, ", "))
	case !oneOf(c.PlotFormat, PlotFormats):
		return fmt.Errorf("invalid PLOT_FORMAT %q: want one of %s", c.PlotFormat, strings.Join(PlotFormats, ", "))
	case c.PlotWidth <= 0 || c.PlotHeight <= 0:
		return fmt.Errorf("invalid PLOT_WIDTH/PLOT_HEIGHT: must be > 0")
	}
	return nil
}

func envFloat(key, fallback string) (float64, error) {
	s := sharedcfg.EnvOrDefault(key, fallback)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func envInt(key, fallback string) (int, error) {
	s := sharedcfg.EnvOrDefault(key, fallback)
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func envLength(key, fallback string) (vg.Length, error) {
	s := sharedcfg.EnvOrDefault(key, fallback)
	v, err := vg.ParseLength(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

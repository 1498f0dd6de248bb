package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/finmodel/internal/engine/capital"
	"github.com/bobmcallan/finmodel/internal/models"
)

// Storage backends
const (
	BackendBadger    = "badger"
	BackendSurrealDB = "surrealdb"
)

// Config holds all configuration for finmodel
type Config struct {
	Environment    string                          `toml:"environment"`
	Logging        LoggingConfig                   `toml:"logging"`
	Storage        StorageConfig                   `toml:"storage"`
	Simulation     SimulationConfig                `toml:"simulation"`
	Estimation     models.EstimationDefaults       `toml:"estimation"`
	WorkingCapital models.WorkingCapitalThresholds `toml:"working_capital"`
	Capital        CapitalConfig                   `toml:"capital"`
	Valuation      ValuationConfig                 `toml:"valuation"`
	BreakEven      BreakEvenConfig                 `toml:"breakeven"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// StorageConfig selects and configures the record store.
// Path is used by badger; the remaining fields by surrealdb.
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// SimulationConfig holds Monte Carlo run defaults
type SimulationConfig struct {
	Iterations      int     `toml:"iterations"`
	ProjectionYears int     `toml:"projection_years"`
	Workers         int     `toml:"workers"` // 0 = GOMAXPROCS
	Seed            uint64  `toml:"seed"`    // 0 = random per run
	TaxRatePct      float64 `toml:"tax_rate_pct"`
}

// CapitalConfig tunes project grading and portfolio selection
type CapitalConfig struct {
	StrongNPVShare    float64   `toml:"strong_npv_share"`
	StrongIRRMultiple float64   `toml:"strong_irr_multiple"`
	ExactLimit        int       `toml:"exact_limit"`
	SensitivitySteps  []float64 `toml:"sensitivity_steps"`
}

// ValuationConfig holds the DCF sensitivity grid offsets
type ValuationConfig struct {
	WACCSteps     []float64 `toml:"wacc_steps"`
	GrowthSteps   []float64 `toml:"growth_steps"`
	FlatGrowthPct *float64  `toml:"flat_growth_pct"`
}

// BreakEvenConfig holds the CVP sensitivity offsets
type BreakEvenConfig struct {
	SensitivitySteps []float64 `toml:"sensitivity_steps"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Storage: StorageConfig{
			Backend:   BackendBadger,
			Path:      "data/finmodel",
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "finmodel",
			Database:  "finmodel",
		},
		Simulation: SimulationConfig{
			Iterations:      10000,
			ProjectionYears: 5,
			TaxRatePct:      25,
		},
		Estimation:     models.DefaultEstimationDefaults(),
		WorkingCapital: models.WorkingCapitalThresholds{MaxDSO: 45, MaxDIO: 60, MinDPO: 30},
		Capital: CapitalConfig{
			StrongNPVShare:    0.2,
			StrongIRRMultiple: 1.5,
			ExactLimit:        20,
			SensitivitySteps:  []float64{-20, -10, 10, 20},
		},
		Valuation: ValuationConfig{
			WACCSteps:   []float64{-2, -1, 0, 1, 2},
			GrowthSteps: []float64{-1, -0.5, 0, 0.5, 1},
		},
		BreakEven: BreakEvenConfig{
			SensitivitySteps: []float64{-20, -10, 10, 20},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINMODEL_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("FINMODEL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("FINMODEL_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if path := os.Getenv("FINMODEL_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "finmodel")
	}

	if addr := os.Getenv("FINMODEL_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}

	if v := os.Getenv("FINMODEL_SIM_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Iterations = n
		}
	}

	if v := os.Getenv("FINMODEL_SIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Workers = n
		}
	}

	if v := os.Getenv("FINMODEL_SIM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendBadger, BackendSurrealDB:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage.Backend, BackendBadger, BackendSurrealDB)
	}
	if c.Simulation.Iterations < 0 {
		return fmt.Errorf("simulation.iterations must not be negative, got %d", c.Simulation.Iterations)
	}
	if c.Simulation.TaxRatePct < 0 || c.Simulation.TaxRatePct >= 100 {
		return fmt.Errorf("simulation.tax_rate_pct must be in [0, 100), got %g", c.Simulation.TaxRatePct)
	}
	if c.Capital.ExactLimit > capital.MaxExactLimit {
		return fmt.Errorf("capital.exact_limit must be at most %d, got %d", capital.MaxExactLimit, c.Capital.ExactLimit)
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

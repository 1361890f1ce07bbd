// Package config provides configuration for pipeline runs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all run parameters: input data, synthesis bounds, split and
// cross-validation settings, and artifact locations.
type Config struct {
	// Data
	CustomerCSV string `yaml:"customer_csv" validate:"required"` // input customer table
	WorkDir     string `yaml:"work_dir" validate:"required"`     // intermediate files and artifacts
	LabelColumn string `yaml:"label_column" validate:"required"` // binary target column (0/1)

	// Synthesis
	BMIMin float64 `yaml:"bmi_min" validate:"gt=0"`
	BMIMax float64 `yaml:"bmi_max" validate:"gtfield=BMIMin"`

	// Modeling
	Seed      int64   `yaml:"seed"`
	TestRatio float64 `yaml:"test_ratio" validate:"gt=0,lt=1"`
	Folds     int     `yaml:"folds" validate:"gte=2"`

	// Parallelism
	WorkerPoolSize int `yaml:"worker_pool_size" validate:"gte=0"` // 0 = CPU count
}

// Default configuration values.
const (
	DefaultSeed      = 42
	DefaultTestRatio = 0.2
	DefaultFolds     = 5
	DefaultBMIMin    = 18.5
	DefaultBMIMax    = 35.0
)

// New returns a configuration with default values.
func New() Config {
	return Config{
		CustomerCSV:    "customers.csv",
		WorkDir:        "out",
		LabelColumn:    "purchased",
		BMIMin:         DefaultBMIMin,
		BMIMax:         DefaultBMIMax,
		Seed:           DefaultSeed,
		TestRatio:      DefaultTestRatio,
		Folds:          DefaultFolds,
		WorkerPoolSize: 0,
	}
}

// Load builds a configuration from defaults, an optional YAML file, and
// CARTML_* environment variables, in that order of precedence. A .env file
// in the working directory is honored when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // optional

	cfg := New()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if val := os.Getenv("CARTML_CUSTOMER_CSV"); val != "" {
		c.CustomerCSV = val
	}
	if val := os.Getenv("CARTML_WORK_DIR"); val != "" {
		c.WorkDir = val
	}
	if val := os.Getenv("CARTML_LABEL_COLUMN"); val != "" {
		c.LabelColumn = val
	}
	if val := os.Getenv("CARTML_SEED"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if val := os.Getenv("CARTML_TEST_RATIO"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			c.TestRatio = parsed
		}
	}
	if val := os.Getenv("CARTML_FOLDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			c.Folds = parsed
		}
	}
	if val := os.Getenv("CARTML_BMI_MIN"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			c.BMIMin = parsed
		}
	}
	if val := os.Getenv("CARTML_BMI_MAX"); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			c.BMIMax = parsed
		}
	}
	if val := os.Getenv("CARTML_WORKER_POOL_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			c.WorkerPoolSize = parsed
		}
	}
}

// Artifact paths derived from WorkDir.

// CustomersWithIDPath is the customer table with the appended identifier.
func (c *Config) CustomersWithIDPath() string {
	return filepath.Join(c.WorkDir, "customers_with_id.csv")
}

// BMIPath is the synthetic BMI table.
func (c *Config) BMIPath() string { return filepath.Join(c.WorkDir, "bmi.csv") }

// MergedPath is the joined customer+BMI table.
func (c *Config) MergedPath() string { return filepath.Join(c.WorkDir, "merged.csv") }

// ReportPath is the metrics report text file.
func (c *Config) ReportPath() string { return filepath.Join(c.WorkDir, "metrics.txt") }

// ChartPath is the metrics bar chart image.
func (c *Config) ChartPath() string { return filepath.Join(c.WorkDir, "metrics.png") }

// PipelineDir is the saved pipeline directory.
func (c *Config) PipelineDir() string { return filepath.Join(c.WorkDir, "best_pipeline") }

package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/cellcli.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PipelineConfig carries the tunables of the extraction, metrics and
// validation stages. Zero NominalCapacity means "not configured"; C-rate
// and SOC stages are skipped in that case unless the caller supplies one.
type PipelineConfig struct {
	NominalCapacity    float64 `yaml:"nominal_capacity" envconfig:"NOMINAL_CAPACITY" default:"0" validate:"gte=0"`
	SOCTolerance       float64 `yaml:"soc_tolerance" envconfig:"SOC_TOLERANCE" default:"3.0" validate:"gte=0"`
	MaxCRate           float64 `yaml:"max_c_rate" envconfig:"MAX_C_RATE" default:"10.0" validate:"gt=0"`
	MaxGapSeconds      float64 `yaml:"max_gap_seconds" envconfig:"MAX_GAP_SECONDS" default:"10.0" validate:"gt=0"`
	AnomalyWindow      int     `yaml:"anomaly_window" envconfig:"ANOMALY_WINDOW" default:"5" validate:"gte=3"`
	ZScoreThreshold    float64 `yaml:"z_score_threshold" envconfig:"Z_SCORE_THRESHOLD" default:"3.0" validate:"gt=0"`
	MaxCapacityChange  float64 `yaml:"max_capacity_change_pct" envconfig:"MAX_CAPACITY_CHANGE_PCT" default:"20.0" validate:"gt=0"`
	DownsampleInterval float64 `yaml:"downsample_interval" envconfig:"DOWNSAMPLE_INTERVAL" default:"0" validate:"gte=0"`
	DetectAnomalies    bool    `yaml:"detect_anomalies" envconfig:"DETECT_ANOMALIES" default:"true"`
}

// ExportConfig contains output configuration
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output"`
	BOMPrefix bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX" default:"true"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables (prefix CELL) win over file values,
// which win over the struct-tag defaults.
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile loads configuration. Precedence: explicit CELL_* env
// variables, then the YAML file (if it exists), then defaults.
func LoadFromFile(path string) (*Config, error) {
	var envCfg Config
	if err := envconfig.Process("CELL", &envCfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg := *Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// envconfig fills unset variables with the default tags, so an env
	// value only counts as an override where it differs from them.
	mergeEnv(&cfg, envCfg, *Default())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeEnv overlays explicitly-set environment values onto cfg.
func mergeEnv(cfg *Config, env, def Config) {
	if env.Logging.Level != def.Logging.Level {
		cfg.Logging.Level = env.Logging.Level
	}
	if env.Logging.Output != def.Logging.Output {
		cfg.Logging.Output = env.Logging.Output
	}
	if env.Logging.FilePath != def.Logging.FilePath {
		cfg.Logging.FilePath = env.Logging.FilePath
	}
	if env.Logging.Development != def.Logging.Development {
		cfg.Logging.Development = env.Logging.Development
	}

	if env.Pipeline.NominalCapacity != def.Pipeline.NominalCapacity {
		cfg.Pipeline.NominalCapacity = env.Pipeline.NominalCapacity
	}
	if env.Pipeline.SOCTolerance != def.Pipeline.SOCTolerance {
		cfg.Pipeline.SOCTolerance = env.Pipeline.SOCTolerance
	}
	if env.Pipeline.MaxCRate != def.Pipeline.MaxCRate {
		cfg.Pipeline.MaxCRate = env.Pipeline.MaxCRate
	}
	if env.Pipeline.MaxGapSeconds != def.Pipeline.MaxGapSeconds {
		cfg.Pipeline.MaxGapSeconds = env.Pipeline.MaxGapSeconds
	}
	if env.Pipeline.AnomalyWindow != def.Pipeline.AnomalyWindow {
		cfg.Pipeline.AnomalyWindow = env.Pipeline.AnomalyWindow
	}
	if env.Pipeline.ZScoreThreshold != def.Pipeline.ZScoreThreshold {
		cfg.Pipeline.ZScoreThreshold = env.Pipeline.ZScoreThreshold
	}
	if env.Pipeline.MaxCapacityChange != def.Pipeline.MaxCapacityChange {
		cfg.Pipeline.MaxCapacityChange = env.Pipeline.MaxCapacityChange
	}
	if env.Pipeline.DownsampleInterval != def.Pipeline.DownsampleInterval {
		cfg.Pipeline.DownsampleInterval = env.Pipeline.DownsampleInterval
	}
	if env.Pipeline.DetectAnomalies != def.Pipeline.DetectAnomalies {
		cfg.Pipeline.DetectAnomalies = env.Pipeline.DetectAnomalies
	}

	if env.Export.OutputDir != def.Export.OutputDir {
		cfg.Export.OutputDir = env.Export.OutputDir
	}
	if env.Export.BOMPrefix != def.Export.BOMPrefix {
		cfg.Export.BOMPrefix = env.Export.BOMPrefix
	}
}

// Validate checks the configuration against its struct-tag constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Default returns a configuration with all default values applied.
func Default() *Config {
	var cfg Config
	// envconfig applies the default tags even when no variables are set;
	// an empty prefix keeps real CELL_* variables out of it.
	if err := envconfig.Process("cellcli_defaults", &cfg); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return &cfg
}

func configFilePath() string {
	if p := os.Getenv("CELL_CONFIG_FILE"); p != "" {
		return p
	}
	return "config.yaml"
}

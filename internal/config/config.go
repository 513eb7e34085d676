// Package config loads planner settings from config files, .env files
// and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all planner settings.
type Config struct {
	Plan     PlanConfig     `yaml:"plan" mapstructure:"plan"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Assign   AssignConfig   `yaml:"assign" mapstructure:"assign"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
}

type PlanConfig struct {
	// MaxFilesPerGroup bounds group size during partitioning.
	MaxFilesPerGroup int `yaml:"max_files_per_group" mapstructure:"max_files_per_group"`
}

type AnalysisConfig struct {
	// AnalysisMonths is the recent-contribution scoring window.
	AnalysisMonths int `yaml:"analysis_months" mapstructure:"analysis_months"`
	// ActiveMonths is the window deciding who counts as an active
	// contributor for assignment.
	ActiveMonths int `yaml:"active_months" mapstructure:"active_months"`
	RecentWeight int `yaml:"recent_weight" mapstructure:"recent_weight"`
	TotalWeight  int `yaml:"total_weight" mapstructure:"total_weight"`
	Parallelism  int `yaml:"parallelism" mapstructure:"parallelism"`
}

type AssignConfig struct {
	MaxTasksPerPerson int      `yaml:"max_tasks_per_person" mapstructure:"max_tasks_per_person"`
	Exclude           []string `yaml:"exclude" mapstructure:"exclude"`
	EnableFallback    bool     `yaml:"enable_fallback" mapstructure:"enable_fallback"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Plan: PlanConfig{
			MaxFilesPerGroup: 5,
		},
		Analysis: AnalysisConfig{
			AnalysisMonths: 12,
			ActiveMonths:   3,
			RecentWeight:   3,
			TotalWeight:    1,
			Parallelism:    4,
		},
		Assign: AssignConfig{
			MaxTasksPerPerson: 3,
			EnableFallback:    true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
	}
}

// Load reads configuration. With an explicit path the file must exist;
// otherwise config.yaml is searched in .merge_work and the working
// directory, and a missing file means defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("plan", cfg.Plan)
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("assign", cfg.Assign)
	v.SetDefault("cache", cfg.Cache)

	v.SetEnvPrefix("MPILOT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".merge_work")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// WriteDefault writes the default configuration as YAML to path,
// creating parent directories.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MPILOT_MAX_FILES_PER_GROUP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Plan.MaxFilesPerGroup = n
		}
	}
	if v := os.Getenv("MPILOT_MAX_TASKS_PER_PERSON"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Assign.MaxTasksPerPerson = n
		}
	}
}

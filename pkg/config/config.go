// Package config handles loading and managing updatelens configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/updatelens/updatelens/pkg/metrics"
)

// Config is the top-level configuration for updatelens.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Metrics MetricsConfig `yaml:"metrics"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig says where the dataset files live.
type DataConfig struct {
	// Source is a directory, an http(s) base URL, s3://bucket/prefix or
	// gs://bucket/prefix.
	Source string   `yaml:"source"`
	S3     S3Config `yaml:"s3"`
}

// S3Config holds settings for S3 and S3-compatible stores.
type S3Config struct {
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"` // custom endpoint, e.g. MinIO
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// MetricsConfig overrides metric tuning.
type MetricsConfig struct {
	Weights     map[string]float64 `yaml:"weights"`
	TopN        int                `yaml:"top_n"`
	Sigma       float64            `yaml:"sigma"`
	ShockWindow int                `yaml:"shock_window_days"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	CacheSize   int      `yaml:"cache_size"`
	APIKey      string   `yaml:"api_key"` // empty disables auth
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Dir     string `yaml:"dir"` // rotating file sink; empty disables it
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Source: "data",
			S3:     S3Config{Region: "us-east-1"},
		},
		Metrics: MetricsConfig{
			Weights: map[string]float64{},
		},
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
			CacheSize:   128,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .updatelens/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".updatelens", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// LoadEnvFiles loads .env from the executable's directory and then from the
// working directory. Variables already set in the environment win.
func LoadEnvFiles() {
	if exe, err := os.Executable(); err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exe), ".env"))
	}
	_ = godotenv.Load()
}

// ApplyEnv overlays environment variables onto cfg.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("UPDATELENS_DATA"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("UPDATELENS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("UPDATELENS_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("UPDATELENS_API_KEY"); v != "" {
		c.Server.APIKey = v
	}
	if v := os.Getenv("LOGS_FOLDER"); v != "" {
		c.Logging.Dir = v
	}
	if v := os.Getenv("UPDATELENS_S3_ENDPOINT"); v != "" {
		c.Data.S3.Endpoint = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Data.S3.Region = v
	}
	if v := os.Getenv("UPDATELENS_S3_ACCESS_KEY"); v != "" {
		c.Data.S3.AccessKey = v
	}
	if v := os.Getenv("UPDATELENS_S3_SECRET_KEY"); v != "" {
		c.Data.S3.SecretKey = v
	}
	return nil
}

// Tuning returns the metric tuning with this config's overrides applied.
func (c *Config) Tuning() (metrics.Tuning, error) {
	t, err := metrics.Defaults().WithOverrides(c.Metrics.Weights)
	if err != nil {
		return t, fmt.Errorf("metrics.weights: %w", err)
	}
	if c.Metrics.TopN > 0 {
		t.TopN = c.Metrics.TopN
	}
	if c.Metrics.Sigma > 0 {
		t.DefaultSigma = c.Metrics.Sigma
	}
	if c.Metrics.ShockWindow > 0 {
		t.ShockWindow = c.Metrics.ShockWindow
	}
	return t, nil
}

// Resolve loads the config from path, or from the nearest
// .updatelens/config.yaml when path is empty, and applies the environment.
func Resolve(path string) (*Config, error) {
	LoadEnvFiles()
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = FindConfigFile(wd)
		}
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Package config holds the application configuration, loaded from a
// YAML file with defaults written out on first run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Render  RenderConfig  `yaml:"render"`
	Request RequestConfig `yaml:"request"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DataConfig names the two GeoJSON documents and the property keys of
// their feature schema. Sources may be http(s) URLs or local paths.
type DataConfig struct {
	OriginURL       string `yaml:"origin_url"`
	DestinationsURL string `yaml:"destinations_url"`
	// NameProperty and VolumeProperty must match the source files'
	// property keys exactly.
	NameProperty   string `yaml:"name_property"`
	VolumeProperty string `yaml:"volume_property"`
}

// RenderConfig holds the zoom tiers for the detailed/aggregated switch.
type RenderConfig struct {
	DetailedZoom float64 `yaml:"detailed_zoom"`
	MidZoom      float64 `yaml:"mid_zoom"`
	MidClusters  int     `yaml:"mid_clusters"`
	LowClusters  int     `yaml:"low_clusters"`
}

// RequestConfig holds HTTP fetch settings.
type RequestConfig struct {
	Retries int           `yaml:"retries"`
	Timeout Duration      `yaml:"timeout"`
	Backoff BackoffConfig `yaml:"backoff"`
}

// BackoffConfig holds exponential backoff settings.
type BackoffConfig struct {
	BaseDelay Duration `yaml:"base_delay"`
	MaxDelay  Duration `yaml:"max_delay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1807",
		},
		Data: DataConfig{
			OriginURL:       "data/ouidah.geojson",
			DestinationsURL: "data/disembarkations_america.geojson",
			NameProperty:    "name",
			VolumeProperty:  "total",
		},
		Render: RenderConfig{
			DetailedZoom: 5,
			MidZoom:      3,
			MidClusters:  20,
			LowClusters:  5,
		},
		Request: RequestConfig{
			Retries: 3,
			Timeout: Duration(30 * time.Second),
			Backoff: BackoffConfig{
				BaseDelay: Duration(500 * time.Millisecond),
				MaxDelay:  Duration(10 * time.Second),
			},
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does
// NOT save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		applyEnvOverrides(cfg)
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets deployments point at their own copies of the
// documents without editing the config file. Loaded after .env via
// godotenv in main.
func applyEnvOverrides(cfg *Config) {
	if u := os.Getenv("FLOWMAP_ORIGIN_URL"); u != "" {
		cfg.Data.OriginURL = u
	}
	if u := os.Getenv("FLOWMAP_DESTINATIONS_URL"); u != "" {
		cfg.Data.DestinationsURL = u
	}
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# flowmapgo Configuration
# ----------------------
# data.origin_url / data.destinations_url accept http(s) URLs or local paths.
# The FLOWMAP_ORIGIN_URL / FLOWMAP_DESTINATIONS_URL environment variables
# override them.
# Duration units: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}

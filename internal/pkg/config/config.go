package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samirrijal/begiramap/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Map       MapConfig       `mapstructure:"map"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

// MapConfig configures the managed region and the tile provider.
type MapConfig struct {
	StyleURL     string  `mapstructure:"style_url"`
	AccessKey    string  `mapstructure:"access_key"`
	DEMSourceURL string  `mapstructure:"dem_source_url"`
	RegionMinLat float64 `mapstructure:"region_min_lat"`
	RegionMinLon float64 `mapstructure:"region_min_lon"`
	RegionMaxLat float64 `mapstructure:"region_max_lat"`
	RegionMaxLon float64 `mapstructure:"region_max_lon"`
	BoundaryURL  string  `mapstructure:"boundary_url"` // http(s):// or file path
	LandmarkPath string  `mapstructure:"landmark_path"`
}

// RegionBounds returns the managed region envelope used by the geofence.
func (m MapConfig) RegionBounds() domain.Bounds {
	return domain.Bounds{
		MinLat: m.RegionMinLat,
		MinLon: m.RegionMinLon,
		MaxLat: m.RegionMaxLat,
		MaxLon: m.RegionMaxLon,
	}
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type AssistantConfig struct {
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults: the managed region is Bizkaia.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("map.style_url", "https://tiles.begiramap.eus/styles/satellite.json")
	v.SetDefault("map.access_key", "")
	v.SetDefault("map.dem_source_url", "https://tiles.begiramap.eus/dem/{z}/{x}/{y}.png")
	v.SetDefault("map.region_min_lat", 42.98)
	v.SetDefault("map.region_min_lon", -3.45)
	v.SetDefault("map.region_max_lat", 43.46)
	v.SetDefault("map.region_max_lon", -2.41)
	v.SetDefault("map.boundary_url", "data/bizkaia-municipalities.geojson")
	v.SetDefault("map.landmark_path", "data/landmarks.json")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("assistant.url", "http://localhost:8090")
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.timeout", 20)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: BEGIRAMAP_MAP_ACCESS_KEY → map.access_key
	v.SetEnvPrefix("BEGIRAMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Map.StyleURL == "" {
		errs = append(errs, "map.style_url is required")
	}
	if c.Map.DEMSourceURL == "" {
		errs = append(errs, "map.dem_source_url is required")
	}
	if c.Map.RegionMinLat >= c.Map.RegionMaxLat {
		errs = append(errs, "map region: min_lat must be below max_lat")
	}
	if c.Map.RegionMinLon >= c.Map.RegionMaxLon {
		errs = append(errs, "map region: min_lon must be below max_lon")
	}
	if c.Map.LandmarkPath == "" {
		errs = append(errs, "map.landmark_path is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Assistant.Timeout <= 0 {
		errs = append(errs, "assistant.timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

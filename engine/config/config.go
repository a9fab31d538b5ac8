package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/stratum/engine/core"
)

type LogConfig struct {
	Level  string `toml:"level"`
	Prefix string `toml:"prefix"`
}

type GeometryConfig struct {
	UseRTE     bool `toml:"use_rte"`
	ThickLines bool `toml:"thick_lines"`
}

type BatchingConfig struct {
	DefaultColor   uint32  `toml:"default_color"`
	HighlightColor uint32  `toml:"highlight_color"`
	GhostOpacity   float32 `toml:"ghost_opacity"`
	LineWidth      float32 `toml:"line_width"`
	PointSize      float32 `toml:"point_size"`
}

type JobsConfig struct {
	Workers    int `toml:"workers"`
	QueueSize  int `toml:"queue_size"`
	MaxResults int `toml:"max_results"`
}

// Config is the engine configuration, usually read from a TOML file.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Geometry GeometryConfig `toml:"geometry"`
	Batching BatchingConfig `toml:"batching"`
	Jobs     JobsConfig     `toml:"jobs"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Geometry: GeometryConfig{
			UseRTE:     true,
			ThickLines: true,
		},
		Batching: BatchingConfig{
			DefaultColor:   0xcccccc,
			HighlightColor: 0x047cfb,
			GhostOpacity:   0.1,
			LineWidth:      1,
			PointSize:      2,
		},
		Jobs: JobsConfig{
			Workers:    4,
			QueueSize:  64,
			MaxResults: 512,
		},
	}
}

/**
 * @brief Parses TOML over the defaults: keys missing from data keep their
 * default value.
 */
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Jobs.Workers < 1 {
		return fmt.Errorf("jobs.workers must be at least 1, got %d", c.Jobs.Workers)
	}
	if c.Jobs.QueueSize < 0 {
		return fmt.Errorf("jobs.queue_size must not be negative, got %d", c.Jobs.QueueSize)
	}
	if c.Batching.GhostOpacity < 0 || c.Batching.GhostOpacity > 1 {
		return fmt.Errorf("batching.ghost_opacity must be within [0, 1], got %f", c.Batching.GhostOpacity)
	}
	if c.Batching.DefaultColor > 0xffffff || c.Batching.HighlightColor > 0xffffff {
		return fmt.Errorf("batching colours must be 0xRRGGBB")
	}
	return nil
}

// LogLevel returns the configured level of the engine logger.
func (c *Config) LogLevel() core.LogLevel {
	return core.ParseLogLevel(c.Log.Level)
}

// Marshal encodes the configuration back to TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

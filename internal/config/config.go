// Package config loads map server settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexconquest/internal/mapgen"
)

// Config holds all server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Generation GenerationConfig `yaml:"generation"`
	Entropy    EntropyConfig    `yaml:"entropy"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	RateLimit   int      `yaml:"rate_limit"` // map requests per minute per IP
	WebSocket   bool     `yaml:"websocket"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// GenerationConfig holds map generator tuning. Zero values fall back to
// the generator defaults; pointer fields distinguish an explicit 0 from
// unset.
type GenerationConfig struct {
	HoleChance        *int             `yaml:"hole_chance"`
	LinkChance        *int             `yaml:"link_chance"`
	DefaultCapacity   int              `yaml:"default_capacity"`
	AmplifiedCapacity int              `yaml:"amplified_capacity"`
	StartPower        *int             `yaml:"start_power"`
	AmplifyTable      []int            `yaml:"amplify_table"`
	SampleAttempts    int              `yaml:"sample_attempts"`
	RepairRetries     *int             `yaml:"repair_retries"`
	Compress          *bool            `yaml:"compress"`
	Sizes             mapgen.SizeTable `yaml:"sizes"`
}

// EntropyConfig selects the random source.
type EntropyConfig struct {
	RandomOrgKey string `yaml:"random_org_key"`
}

// DatabaseConfig holds the statistics store location. An empty path
// disables statistics.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ErrInvalid indicates a setting that cannot be used.
var ErrInvalid = errors.New("config: invalid setting")

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("config file not found, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 60
	}
	if c.Generation.Compress == nil {
		on := true
		c.Generation.Compress = &on
	}
	if len(c.Generation.Sizes) == 0 {
		c.Generation.Sizes = mapgen.DefaultSizes()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("MAPGEN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		} else {
			slog.Warn("ignoring MAPGEN_PORT", "value", v, "error", err)
		}
	}
	if v := getenv("MAPGEN_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getenv("RANDOM_ORG_KEY"); v != "" {
		c.Entropy.RandomOrgKey = v
	}
	if v := getenv("MAPGEN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				c.Server.CORSOrigins = append(c.Server.CORSOrigins, origin)
			}
		}
	}
}

// Validate checks that every size code yields a usable generator config.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Server.Port)
	}
	if n := len(c.Generation.AmplifyTable); n != 0 && n != 6 {
		return fmt.Errorf("%w: amplify_table needs 6 entries, got %d", ErrInvalid, n)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	for code, dims := range c.Generation.Sizes {
		cfg := c.MapConfig(dims, mapgen.MinPlayers)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("size %q: %w", code, err)
		}
	}
	return nil
}

// MapConfig builds the generator settings for one request.
func (c *Config) MapConfig(dims mapgen.Dimensions, players int) mapgen.Config {
	cfg := mapgen.DefaultConfig(dims.Rows, dims.Columns, players)
	g := c.Generation
	if g.HoleChance != nil {
		cfg.HoleChance = *g.HoleChance
	}
	if g.LinkChance != nil {
		cfg.LinkChance = *g.LinkChance
	}
	if g.DefaultCapacity != 0 {
		cfg.DefaultCapacity = g.DefaultCapacity
	}
	if g.AmplifiedCapacity != 0 {
		cfg.AmplifiedCapacity = g.AmplifiedCapacity
	}
	if g.StartPower != nil {
		cfg.StartPower = *g.StartPower
	}
	if len(g.AmplifyTable) == len(cfg.AmplifyTable) {
		copy(cfg.AmplifyTable[:], g.AmplifyTable)
	}
	if g.SampleAttempts != 0 {
		cfg.SampleAttempts = g.SampleAttempts
	}
	if g.RepairRetries != nil {
		cfg.RepairRetries = *g.RepairRetries
	}
	return cfg
}

// CompressOutput reports whether encoded maps drop trailing zeros.
func (c *Config) CompressOutput() bool {
	return c.Generation.Compress == nil || *c.Generation.Compress
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, name)
	}
	return level, nil
}

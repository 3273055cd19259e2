// Package config loads timeruler settings.
//
// Settings are layered: built-in defaults, then an optional TOML file, then
// TIMERULER_* environment variables. Command flags are applied last by the
// CLI. The merged result is validated before use.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/timeruler/pkg/errors"
	"github.com/matzehuels/timeruler/pkg/pipeline"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// EnvPrefix is the environment variable prefix, e.g. TIMERULER_RULER_PEAK.
const EnvPrefix = "timeruler"

// Cache backend types.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete timeruler configuration.
type Config struct {
	Range     RangeConfig     `toml:"range" envconfig:"RANGE"`
	Generator GeneratorConfig `toml:"generator" envconfig:"GENERATOR"`
	Ruler     RulerConfig     `toml:"ruler" envconfig:"RULER"`
	Server    ServerConfig    `toml:"server" envconfig:"SERVER"`
	Cache     CacheConfig     `toml:"cache" envconfig:"CACHE"`
}

// RangeConfig is the default date range of generated timelines.
type RangeConfig struct {
	Start timeline.Date `toml:"start" envconfig:"START"`
	End   timeline.Date `toml:"end" envconfig:"END"`
}

// GeneratorConfig holds the synthetic data policy. Zero is rejected rather
// than read as "use the default".
type GeneratorConfig struct {
	Seed             uint64  `toml:"seed" envconfig:"SEED"` // 0 = random
	BaseProbability  float64 `toml:"base_probability" envconfig:"BASE_PROBABILITY" validate:"gt=0,lte=1"`
	WeekendFactor    float64 `toml:"weekend_factor" envconfig:"WEEKEND_FACTOR" validate:"gt=0"`
	HolidayFactor    float64 `toml:"holiday_factor" envconfig:"HOLIDAY_FACTOR" validate:"gt=0"`
	ClusterFactor    float64 `toml:"cluster_factor" envconfig:"CLUSTER_FACTOR" validate:"gt=0"`
	PhotoProbability float64 `toml:"photo_probability" envconfig:"PHOTO_PROBABILITY" validate:"gt=0,lte=1"`
	MaxEntries       int     `toml:"max_entries" envconfig:"MAX_ENTRIES" validate:"gte=1"`
	DataFile         string  `toml:"data_file,omitempty" envconfig:"DATA_FILE"` // load instead of generating
}

// RulerConfig holds layout geometry and the magnification curve. As with
// GeneratorConfig, geometry fields must be positive.
type RulerConfig struct {
	Peak        float64 `toml:"peak" envconfig:"PEAK" validate:"gte=1"`
	Window      int     `toml:"window" envconfig:"WINDOW" validate:"gte=1"`
	BaseHeight  float64 `toml:"base_height" envconfig:"BASE_HEIGHT" validate:"gt=0"`
	Gap         float64 `toml:"gap" envconfig:"GAP" validate:"gt=0"`
	TopOffset   float64 `toml:"top_offset" envconfig:"TOP_OFFSET" validate:"gt=0"`
	RecentDays  int     `toml:"recent_days" envconfig:"RECENT_DAYS" validate:"gt=0"`
	YearSpacing float64 `toml:"year_spacing" envconfig:"YEAR_SPACING" validate:"gt=0"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr         string        `toml:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeout  time.Duration `toml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout time.Duration `toml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	RateLimit    int           `toml:"rate_limit" envconfig:"RATE_LIMIT" validate:"gte=0"` // requests per minute per IP, 0 = off
	ViewTTL      time.Duration `toml:"view_ttl" envconfig:"VIEW_TTL" validate:"gt=0"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Type        string `toml:"type" envconfig:"TYPE" validate:"oneof=none file redis"`
	Dir         string `toml:"dir,omitempty" envconfig:"DIR"`
	RedisAddr   string `toml:"redis_addr,omitempty" envconfig:"REDIS_ADDR" validate:"required_if=Type redis"`
	RedisDB     int    `toml:"redis_db" envconfig:"REDIS_DB" validate:"gte=0"`
	RedisPrefix string `toml:"redis_prefix" envconfig:"REDIS_PREFIX"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Range: RangeConfig{Start: timeline.DefaultStart, End: timeline.DefaultEnd},
		Generator: GeneratorConfig{
			BaseProbability:  timeline.DefaultBaseProbability,
			WeekendFactor:    timeline.DefaultWeekendFactor,
			HolidayFactor:    timeline.DefaultHolidayFactor,
			ClusterFactor:    timeline.DefaultClusterFactor,
			PhotoProbability: timeline.DefaultPhotoProbability,
			MaxEntries:       timeline.DefaultMaxEntries,
		},
		Ruler: RulerConfig{
			Peak:        layout.DefaultPeak,
			Window:      layout.DefaultWindow,
			BaseHeight:  layout.DefaultBaseHeight,
			Gap:         layout.DefaultGap,
			TopOffset:   layout.DefaultTopOffset,
			RecentDays:  layout.DefaultRecentDays,
			YearSpacing: layout.DefaultYearSpacing,
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit:    120,
			ViewTTL:      time.Hour,
		},
		Cache: CacheConfig{
			Type:        CacheFile,
			RedisPrefix: "timeruler:",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/timeruler/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "timeruler", "config.toml"), nil
}

// Load builds the effective configuration. A missing file at path is not an
// error; an empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := Read(f, c); err != nil {
		return fmt.Errorf("reading config from %s: %w", path, err)
	}
	return nil
}

// Read decodes TOML from r over the values already in cfg.
func Read(r io.Reader, cfg *Config) error {
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	return nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()
	return Write(f, cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the date range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	if !c.Range.Start.IsZero() && !c.Range.End.IsZero() && c.Range.End.Before(c.Range.Start) {
		return errors.New(errors.ErrCodeInvalidConfig, "range end %s is before start %s", c.Range.End, c.Range.Start)
	}
	return nil
}

// PipelineOptions converts the configuration to pipeline options.
// Callers set state and formats on the result.
func (c *Config) PipelineOptions() pipeline.Options {
	g := c.Generator
	r := c.Ruler
	return pipeline.Options{
		Start:    c.Range.Start,
		End:      c.Range.End,
		Seed:     g.Seed,
		DataFile: g.DataFile,
		Generator: timeline.GeneratorOptions{
			BaseProbability:  g.BaseProbability,
			WeekendFactor:    g.WeekendFactor,
			HolidayFactor:    g.HolidayFactor,
			ClusterFactor:    g.ClusterFactor,
			PhotoProbability: g.PhotoProbability,
			MaxEntries:       g.MaxEntries,
		},
		Peak:        r.Peak,
		Window:      r.Window,
		BaseHeight:  r.BaseHeight,
		Gap:         r.Gap,
		TopOffset:   r.TopOffset,
		RecentDays:  r.RecentDays,
		YearSpacing: r.YearSpacing,
	}
}

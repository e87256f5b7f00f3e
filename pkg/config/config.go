// Package config loads synthtext settings from TOML.
//
// [Default] reproduces the stock sample set exactly; a config file only needs
// the keys it changes. Unknown keys are rejected so typos do not silently
// fall back to defaults.
//
//	[[words]]
//	text = "سَلامت"
//
//	[[words]]
//	text = "خانه من سرای من"
//	name = "khane"
//
//	[raster]
//	backend = "browser"
//	timeout = "30s"
//
//	[degrade.noise]
//	mode = "gaussian"
//	variance = 0.05
package config

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/synthtext/pkg/cache"
	"github.com/matzehuels/synthtext/pkg/degrade"
	"github.com/matzehuels/synthtext/pkg/errors"
	sio "github.com/matzehuels/synthtext/pkg/io"
	"github.com/matzehuels/synthtext/pkg/manifest"
	"github.com/matzehuels/synthtext/pkg/markup"
	"github.com/matzehuels/synthtext/pkg/pipeline"
	"github.com/matzehuels/synthtext/pkg/raster"
	"github.com/matzehuels/synthtext/pkg/shape"
)

// Config is the complete configuration.
type Config struct {
	Words    []pipeline.WordSpec `toml:"words"`
	Fonts    markup.Fonts        `toml:"fonts"`
	Variants []markup.Style      `toml:"variants"`
	Shaper   string              `toml:"shaper"`
	Raster   Raster              `toml:"raster"`
	Degrade  degrade.Pipeline    `toml:"degrade"`
	Output   Output              `toml:"output"`
	Cache    Cache               `toml:"cache"`
	Manifest manifest.Config     `toml:"manifest"`
	Server   Server              `toml:"server"`
}

// Raster configures the rasterizer.
type Raster struct {
	Backend    string   `toml:"backend"`
	Width      int      `toml:"width"`
	Height     int      `toml:"height"`
	BrowserBin string   `toml:"browser_bin"`
	NoSandbox  bool     `toml:"no_sandbox"`
	RSVGBin    string   `toml:"rsvg_bin"`
	Timeout    Duration `toml:"timeout"`
}

// Output configures where samples go.
type Output struct {
	Dir    string `toml:"dir"`
	Format string `toml:"format"`
	// Seed for the noise generator; 0 picks a random seed per run.
	Seed uint64 `toml:"seed"`
}

// Cache kinds.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Cache configures the raster cache.
type Cache struct {
	Kind   string            `toml:"kind"`
	Dir    string            `toml:"dir"`
	TTL    Duration          `toml:"ttl"`
	Prefix string            `toml:"prefix"`
	Redis  cache.RedisConfig `toml:"redis"`
}

// Server configures `synthtext serve`.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxTextBytes int      `toml:"max_text_bytes"`
}

// Duration is a time.Duration written as a string such as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", b)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Words:    pipeline.Words(pipeline.DefaultWords...),
		Fonts:    markup.DefaultFonts(),
		Variants: markup.DefaultVariants(),
		Shaper:   shape.NameVisual,
		Raster: Raster{
			Backend: raster.BackendBrowser,
			Width:   markup.DefaultWidth,
			Height:  markup.DefaultHeight,
			Timeout: Duration{30 * time.Second},
		},
		Degrade: degrade.Default(),
		Output: Output{
			Dir:    pipeline.DefaultOutputDir,
			Format: string(pipeline.DefaultFormat),
		},
		Cache: Cache{
			Kind:   CacheNone,
			TTL:    Duration{7 * 24 * time.Hour},
			Prefix: "synthtext:",
			Redis:  cache.RedisConfig{Addr: "localhost:6379"},
		},
		Manifest: manifest.DefaultConfig(),
		Server: Server{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{2 * time.Minute},
			MaxTextBytes: 200,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	for i := range cfg.Variants {
		cfg.Variants[i] = withStyleDefaults(cfg.Variants[i])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withStyleDefaults fills the string fields a [[variants]] table omitted.
// Numeric fields default to 0 already.
func withStyleDefaults(s markup.Style) markup.Style {
	d := markup.DefaultStyle()
	if s.Weight == "" {
		s.Weight = d.Weight
	}
	if s.FontStyle == "" {
		s.FontStyle = d.FontStyle
	}
	if s.Decoration == "" {
		s.Decoration = d.Decoration
	}
	if s.Path == "" {
		s.Path = d.Path
	}
	return s
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := shape.ByName(c.Shaper); err != nil {
		return err
	}
	if _, err := raster.ParseBackend(c.Raster.Backend); err != nil {
		return err
	}
	if c.Raster.Width <= 0 || c.Raster.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "raster size %dx%d must be positive", c.Raster.Width, c.Raster.Height)
	}
	if c.Raster.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "raster timeout must not be negative")
	}
	if err := c.Degrade.Validate(); err != nil {
		return err
	}
	if err := c.Plan().Validate(); err != nil {
		return err
	}
	for _, v := range c.Variants {
		if v.Name == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "variant with suffix %q has no name", v.Suffix)
		}
	}
	switch c.Cache.Kind {
	case "", CacheNone:
	case CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis cache")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache kind %q (must be none, file or redis)", c.Cache.Kind)
	}
	if err := c.Manifest.Validate(); err != nil {
		return err
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if c.Server.MaxTextBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_text_bytes must be positive")
	}
	return nil
}

// Viewport returns the raster size.
func (c Config) Viewport() markup.Viewport {
	return markup.Viewport{Width: c.Raster.Width, Height: c.Raster.Height}
}

// Plan returns the batch described by the config.
func (c Config) Plan() pipeline.Plan {
	format, err := sio.ParseFormat(c.Output.Format)
	if err != nil {
		format = sio.Format(c.Output.Format) // rejected by Plan.Validate
	}
	return pipeline.Plan{
		Words:     c.Words,
		Fonts:     c.Fonts,
		Variants:  c.Variants,
		OutputDir: c.Output.Dir,
		Format:    format,
	}
}

// Package config loads tickarc settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/arloliu/tickarc/format"
	"github.com/arloliu/tickarc/tick"
)

// Prefix is prepended to every environment variable name.
const Prefix = "TICKARC_"

// Config represents the application configuration.
type Config struct {
	Log     LogConfig     `envPrefix:"LOG_"`
	Archive ArchiveConfig `envPrefix:"ARCHIVE_"`
	Batch   BatchConfig   `envPrefix:"BATCH_"`
	Fill    FillConfig    `envPrefix:"FILL_"`
	Preview PreviewConfig `envPrefix:"PREVIEW_"`
	Metrics MetricsConfig `envPrefix:"METRICS_"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `env:"LEVEL" envDefault:"info"`
}

// ArchiveConfig configures archive writing.
type ArchiveConfig struct {
	Compression     string `env:"COMPRESSION" envDefault:"gzip"`
	SelfCheckSample int    `env:"SELF_CHECK_SAMPLE" envDefault:"1000"`
	Strict          bool   `env:"STRICT" envDefault:"false"`
	// FileMode holds the octal permission bits of written archives.
	FileMode string `env:"FILE_MODE" envDefault:"0644"`
}

// BatchConfig configures the batch runner. Zero workers means GOMAXPROCS.
type BatchConfig struct {
	Workers int `env:"WORKERS" envDefault:"0"`
}

// FillConfig holds the values used for columns that are empty for a whole session.
type FillConfig struct {
	PriceDefault float64 `env:"PRICE_DEFAULT" envDefault:"0"`
	SizeDefault  float64 `env:"SIZE_DEFAULT" envDefault:"0"`
}

// PreviewConfig configures the decoded row preview.
type PreviewConfig struct {
	Rows int `env:"ROWS" envDefault:"5"`
}

// MetricsConfig configures the Prometheus textfile written after a batch.
type MetricsConfig struct {
	// Textfile is the output path; empty disables metrics output.
	Textfile string `env:"TEXTFILE"`
}

// Load reads the given dotenv files, or ".env" when none are given, then parses the
// environment. Variables already set in the environment win over dotenv values.
// A missing default ".env" is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	if _, err := c.CompressionType(); err != nil {
		return err
	}
	if _, err := c.FileMode(); err != nil {
		return err
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Batch.Workers)
	}

	return nil
}

// CompressionType parses Archive.Compression.
func (c *Config) CompressionType() (format.CompressionType, error) {
	return format.ParseCompression(c.Archive.Compression)
}

// FileMode parses Archive.FileMode as octal permission bits.
func (c *Config) FileMode() (os.FileMode, error) {
	bits, err := strconv.ParseUint(c.Archive.FileMode, 8, 32)
	if err != nil || bits&^uint64(fs.ModePerm) != 0 {
		return 0, fmt.Errorf("invalid archive file mode: %q", c.Archive.FileMode)
	}

	return os.FileMode(bits), nil
}

// FillPolicy returns the configured fill defaults.
func (c *Config) FillPolicy() tick.FillPolicy {
	return tick.FillPolicy{
		PriceDefault: c.Fill.PriceDefault,
		SizeDefault:  c.Fill.SizeDefault,
	}
}

// WorkerCount returns Batch.Workers, or GOMAXPROCS when it is zero.
func (c *Config) WorkerCount() int {
	if c.Batch.Workers > 0 {
		return c.Batch.Workers
	}

	return runtime.GOMAXPROCS(0)
}

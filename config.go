package gatedqueue

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/timzifer/gated_queue/internal/logging"
	"github.com/timzifer/gated_queue/internal/retry"
)

// DefaultMaxErrorRetries is the number of consecutive halted drains tolerated
// before recovery runs.
const DefaultMaxErrorRetries = 3

// Config is the file representation of the queue settings.
type Config struct {
	MaxErrorRetries int         `toml:"max_error_retries"`
	Retry           RetryConfig `toml:"retry"`
	Log             LogConfig   `toml:"log"`
}

// RetryConfig defines the retry timer backoff.
type RetryConfig struct {
	InitialInterval     time.Duration `toml:"initial_interval"`
	MaxInterval         time.Duration `toml:"max_interval"`
	Multiplier          float64       `toml:"multiplier"`
	RandomizationFactor float64       `toml:"randomization_factor"`
}

// LogConfig defines the console logger built by Config.NewLogger.
type LogConfig struct {
	Level     string `toml:"level"`
	Timestamp bool   `toml:"timestamp"`
	NoColor   bool   `toml:"no_color"`
}

// DefaultConfig returns the settings used when no file is loaded.
func DefaultConfig() Config {
	b := retry.DefaultBackoffConfig()
	return Config{
		MaxErrorRetries: DefaultMaxErrorRetries,
		Retry: RetryConfig{
			InitialInterval:     b.InitialInterval,
			MaxInterval:         b.MaxInterval,
			Multiplier:          b.Multiplier,
			RandomizationFactor: b.RandomizationFactor,
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("gatedqueue: open config: %w", err)
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%w (file %s)", err, path)
	}
	return cfg, nil
}

// DecodeConfig reads TOML from r on top of DefaultConfig. Unknown keys are
// rejected.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("gatedqueue: decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("gatedqueue: decode config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting in one joined error.
func (c Config) Validate() error {
	var errs []error
	if c.MaxErrorRetries < 0 {
		errs = append(errs, fmt.Errorf("max_error_retries must be >= 0, got %d", c.MaxErrorRetries))
	}
	if c.Retry.InitialInterval <= 0 {
		errs = append(errs, fmt.Errorf("retry.initial_interval must be positive, got %s", c.Retry.InitialInterval))
	}
	if c.Retry.MaxInterval < c.Retry.InitialInterval {
		errs = append(errs, fmt.Errorf("retry.max_interval %s is below retry.initial_interval %s",
			c.Retry.MaxInterval, c.Retry.InitialInterval))
	}
	if c.Retry.Multiplier < 1 {
		errs = append(errs, fmt.Errorf("retry.multiplier must be >= 1, got %g", c.Retry.Multiplier))
	}
	if c.Retry.RandomizationFactor < 0 || c.Retry.RandomizationFactor > 1 {
		errs = append(errs, fmt.Errorf("retry.randomization_factor must be within [0,1], got %g", c.Retry.RandomizationFactor))
	}
	if c.Log.Level != "" {
		if _, ok := logging.ParseLevel(c.Log.Level); !ok {
			errs = append(errs, fmt.Errorf("log.level %q is not a known level", c.Log.Level))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("gatedqueue: invalid config: %w", err)
	}
	return nil
}

// NewLogger builds a console logger from the log section, with the
// GATEDQUEUE_LOG_* environment variables taking precedence.
func (c Config) NewLogger(w io.Writer) zerolog.Logger {
	s := logging.DefaultSettings(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(c.Log.Level); ok {
		s.Level = lvl
	}
	s.Timestamp = c.Log.Timestamp
	s.NoColor = c.Log.NoColor
	return logging.New(w, "gatedqueue", logging.FromEnv(s))
}

func (rc RetryConfig) backoff() retry.BackoffConfig {
	return retry.BackoffConfig{
		InitialInterval:     rc.InitialInterval,
		MaxInterval:         rc.MaxInterval,
		Multiplier:          rc.Multiplier,
		RandomizationFactor: rc.RandomizationFactor,
	}
}

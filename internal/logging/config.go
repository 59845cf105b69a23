package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "GATEDQUEUE_LOG_LEVEL"
	EnvLogTimestamp = "GATEDQUEUE_LOG_TIMESTAMP"
	EnvLogNoColor   = "GATEDQUEUE_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Settings controls how New renders log lines.
type Settings struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

func DefaultSettings(profile Profile) Settings {
	switch profile {
	case ProfileTest:
		return Settings{Level: zerolog.DebugLevel, Timestamp: false, NoColor: true}
	default:
		return Settings{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// FromEnv applies the GATEDQUEUE_LOG_* overrides on top of s.
func FromEnv(s Settings) Settings {
	return applyOverrides(s, os.Getenv)
}

// New builds a console logger tagged with component.
func New(w io.Writer, component string, s Settings) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    s.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !s.Timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	ctx := zerolog.New(output).Level(s.Level).With()
	if s.Timestamp {
		ctx = ctx.Timestamp()
	}
	if component != "" {
		ctx = ctx.Str("component", component)
	}
	return ctx.Logger()
}

func applyOverrides(s Settings, getenv func(string) string) Settings {
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		s.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		s.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		s.NoColor = v
	}
	return s
}

// ParseLevel maps a level name onto zerolog. The boolean is false for empty
// or unknown input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

package testlog

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/timzifer/gated_queue/internal/logging"
)

// Start returns a logger that writes through t.Log at the test profile level.
func Start(t *testing.T) zerolog.Logger {
	t.Helper()
	s := logging.FromEnv(logging.DefaultSettings(logging.ProfileTest))
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(s.Level).With().Str("test", t.Name()).Logger()
	logger.Info().Msg("start")
	return logger
}

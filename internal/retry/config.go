package retry

import "time"

// BackoffConfig defines retry backoff behavior.
type BackoffConfig struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	Multiplier          float64
	RandomizationFactor float64
}

// DefaultBackoffConfig returns the delays used when nothing is configured.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialInterval:     time.Second,
		MaxInterval:         30 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.2,
	}
}

func (c BackoffConfig) normalized() BackoffConfig {
	def := DefaultBackoffConfig()
	if c.InitialInterval <= 0 {
		c.InitialInterval = def.InitialInterval
	}
	if c.MaxInterval < c.InitialInterval {
		c.MaxInterval = c.InitialInterval
	}
	if c.Multiplier < 1.0 {
		c.Multiplier = 1.0
	}
	if c.RandomizationFactor < 0 {
		c.RandomizationFactor = 0
	}
	if c.RandomizationFactor > 1 {
		c.RandomizationFactor = 1
	}
	return c
}

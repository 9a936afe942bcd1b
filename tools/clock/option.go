package clock

import "time"

type Option func(*Config)

// WithNow overrides the time source, mainly for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Config) {
		c.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(c *Config) {
		c.location = loc
	}
}

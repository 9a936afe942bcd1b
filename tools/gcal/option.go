package gcal

import (
	"time"

	"github.com/omakase-ai/concierge/tools/clock"
)

type Option func(*Config)

func WithCalendarID(id string) Option {
	return func(c *Config) {
		c.calendarID = id
	}
}

func WithInserter(ins EventInserter) Option {
	return func(c *Config) {
		c.inserter = ins
	}
}

func WithClock(clk *clock.Clock) Option {
	return func(c *Config) {
		c.clock = clk
	}
}

func WithDuration(d time.Duration) Option {
	return func(c *Config) {
		c.duration = d
	}
}

package hotpepper

import (
	"net/http"

	"github.com/omakase-ai/concierge/areacode"
)

type Option func(*Config)

func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.apiKey = key
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.baseURL = baseURL
	}
}

func WithCount(n int) Option {
	return func(c *Config) {
		c.count = n
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

func WithResolver(r *areacode.Resolver) Option {
	return func(c *Config) {
		c.resolver = r
	}
}

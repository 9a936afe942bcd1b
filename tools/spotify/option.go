package spotify

import "net/http"

type Option func(*Config)

func WithCredentials(clientID, clientSecret string) Option {
	return func(c *Config) {
		c.clientID = clientID
		c.clientSecret = clientSecret
	}
}

func WithAPIBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.apiBaseURL = baseURL
	}
}

func WithTokenURL(tokenURL string) Option {
	return func(c *Config) {
		c.tokenURL = tokenURL
	}
}

func WithLimit(n int) Option {
	return func(c *Config) {
		c.limit = n
	}
}

func WithHttpClient(clt *http.Client) Option {
	return func(c *Config) {
		c.httpClient = clt
	}
}

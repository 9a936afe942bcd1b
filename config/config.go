package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the full runtime configuration. YAML fields left empty fall back
// to environment variables, then to defaults.
type Config struct {
	Oracle    Oracle    `yaml:"oracle" validate:"required"`
	Providers Providers `yaml:"providers"`
	Loop      Loop      `yaml:"loop"`
}

// Oracle selects and authenticates the language-model backend.
type Oracle struct {
	Provider string `yaml:"provider" validate:"required,oneof=openai anthropic"`
	Model    string `yaml:"model" validate:"required"`
	APIKey   string `yaml:"api_key" validate:"required"`
}

// Providers holds the external data-source credentials. All optional; a tool
// with no credential simply fails into its fallback tiers.
type Providers struct {
	HotpepperKey  string `yaml:"hotpepper_key"`
	GoogleMapsKey string `yaml:"google_maps_key"`
	YouTubeKey    string `yaml:"youtube_key"`
	SpotifyID     string `yaml:"spotify_client_id"`
	SpotifySecret string `yaml:"spotify_client_secret"`
	TavilyKey     string `yaml:"tavily_key"`
	CalendarToken string `yaml:"calendar_token"`
	CalendarID    string `yaml:"calendar_id"`
}

// Loop bounds the worker tool-call loop.
type Loop struct {
	MaxIterations     int `yaml:"max_iterations" validate:"omitempty,gte=1,lte=100"`
	TurnBudgetSeconds int `yaml:"turn_budget_seconds" validate:"omitempty,gte=1,lte=3600"`
}

// TurnBudget returns the loop budget as a duration, zero when unset.
func (l Loop) TurnBudget() time.Duration {
	return time.Duration(l.TurnBudgetSeconds) * time.Second
}

// Load reads path, applies environment fallbacks and validates. An empty
// path builds the configuration from the environment alone.
func Load(path string) (*Config, error) {
	cfg := new(Config)
	if path != "" {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(bs, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds the configuration from environment variables alone.
func FromEnv() (*Config, error) {
	return Load("")
}

func (c *Config) applyEnv() {
	setIfEmpty(&c.Oracle.Provider, "ORACLE_PROVIDER")
	setIfEmpty(&c.Oracle.Model, "OPENAI_MODEL")
	switch c.Oracle.Provider {
	case "anthropic":
		setIfEmpty(&c.Oracle.APIKey, "ANTHROPIC_API_KEY")
	default:
		setIfEmpty(&c.Oracle.APIKey, "OPENAI_API_KEY")
	}
	setIfEmpty(&c.Providers.HotpepperKey, "HOTPEPPER_API_KEY")
	setIfEmpty(&c.Providers.GoogleMapsKey, "GOOGLE_MAPS_API_KEY")
	setIfEmpty(&c.Providers.YouTubeKey, "YOUTUBE_API_KEY")
	setIfEmpty(&c.Providers.SpotifyID, "SPOTIFY_CLIENT_ID")
	setIfEmpty(&c.Providers.SpotifySecret, "SPOTIFY_CLIENT_SECRET")
	setIfEmpty(&c.Providers.TavilyKey, "TAVILY_API_KEY")
	setIfEmpty(&c.Providers.CalendarToken, "GOOGLE_CALENDAR_TOKEN")
	setIfEmpty(&c.Providers.CalendarID, "GOOGLE_CALENDAR_ID")
}

func (c *Config) applyDefaults() {
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = "openai"
	}
	if c.Oracle.Model == "" {
		c.Oracle.Model = "gpt-4o-mini"
	}
	if c.Loop.MaxIterations == 0 {
		c.Loop.MaxIterations = 25
	}
	if c.Loop.TurnBudgetSeconds == 0 {
		c.Loop.TurnBudgetSeconds = 120
	}
}

func setIfEmpty(dst *string, env string) {
	if *dst == "" {
		*dst = os.Getenv(env)
	}
}

package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Display DisplayConfig `mapstructure:"display"`
	Filters FilterConfig  `mapstructure:"filters"`
	Update  UpdateConfig  `mapstructure:"update"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the movie API connection details
type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst     int           `mapstructure:"burst"`
}

// SessionConfig controls where the session is persisted
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// DisplayConfig contains output settings
type DisplayConfig struct {
	ShowDetails bool `mapstructure:"show_details"`
}

// FilterConfig maps filter names to expressions
type FilterConfig map[string]string

// UpdateConfig controls self-update
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

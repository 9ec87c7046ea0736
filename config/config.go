package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/s0up4200/myflix/myflix"
)

// EnvPrefix prefixes environment overrides, e.g. MYFLIX_API_URL
const EnvPrefix = "MYFLIX"

// Load loads the configuration. An explicit configPath must exist; otherwise
// the standard locations are searched and defaults apply when none has a file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".myflix"))
		}
		v.AddConfigPath("/etc/myflix/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if cfg.Session.Path == "" {
		cfg.Session.Path = DefaultSessionPath()
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", myflix.ErrInvalidConfig, err)
	}

	return &cfg, nil
}

// DefaultSessionPath is ~/.myflix/session.json, or a relative fallback
// when the home directory is unknown
func DefaultSessionPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".myflix", "session.json")
	}
	return filepath.Join(".myflix", "session.json")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", myflix.DefaultBaseURL)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.rate_limit", 5.0)
	v.SetDefault("api.burst", 10)

	v.SetDefault("session.path", "")

	v.SetDefault("display.show_details", false)

	v.SetDefault("update.repository", "s0up4200/myflix")

	// Logging defaults
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	u, err := url.Parse(cfg.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.url must be an absolute http(s) URL: %s", cfg.API.URL)
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive: %s", cfg.API.Timeout)
	}
	if cfg.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative: %v", cfg.API.RateLimit)
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filters.%s has an empty expression", name)
		}
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}
	return Parse()
}

// Parse reads configuration from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %q", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT: %q (must be text or json)", c.LogFormat))
	}

	for _, p := range []struct {
		name string
		port int
	}{
		{"SSH_PORT", c.SSHPort},
		{"WEB_PORT", c.WebPort},
		{"FEED_PORT", c.FeedPort},
	} {
		if p.port < 1 || p.port > 65535 {
			errs = append(errs, fmt.Errorf("invalid %s: %d (must be 1-65535)", p.name, p.port))
		}
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid METRICS_PORT: %d (must be 0-65535)", c.MetricsPort))
	}

	if c.SensorURL != "" && c.SensorReplay != "" {
		errs = append(errs, errors.New("SENSOR_URL and SENSOR_REPLAY are mutually exclusive"))
	}
	if c.SensorFPS < 0 {
		errs = append(errs, fmt.Errorf("invalid SENSOR_FPS: %d (must be >= 0)", c.SensorFPS))
	}
	if c.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("invalid IDLE_TIMEOUT: %s (must be >= 0)", c.IdleTimeout))
	}

	return errors.Join(errs...)
}

// ConfigureLogging applies LOG_LEVEL and LOG_FORMAT to the standard logrus
// logger.
func (c *Config) ConfigureLogging() {
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// Package config loads process configuration from the environment.
package config

import "time"

// Config holds all application configuration loaded from environment variables.
// Each binary reads the fields it needs.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text or json
	LogFile   string `env:"LOG_FILE"`                     // Log destination for the local terminal game

	// SSH server
	SSHHost    string `env:"SSH_HOST" envDefault:"::"`
	SSHPort    int    `env:"SSH_PORT" envDefault:"2222"`
	SSHHostKey string `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key"`

	// Landing page
	WebHost        string `env:"WEB_HOST" envDefault:"::"`
	WebPort        int    `env:"WEB_PORT" envDefault:"8080"`
	SSHDisplayHost string `env:"SSH_DISPLAY_HOST" envDefault:"localhost"`

	// Prometheus endpoint. Port 0 disables it.
	MetricsPort     int    `env:"METRICS_PORT" envDefault:"9090"`
	MetricsEndpoint string `env:"METRICS_ENDPOINT" envDefault:"/metrics"`

	// Sensor input. At most one of SensorURL and SensorReplay may be set.
	SensorURL        string `env:"SENSOR_URL"`
	SensorReplay     string `env:"SENSOR_REPLAY"`
	SensorReplayLoop bool   `env:"SENSOR_REPLAY_LOOP" envDefault:"true"`
	SensorFPS        int    `env:"SENSOR_FPS" envDefault:"30"`
	GestureConfig    string `env:"GESTURE_CONFIG"`

	// GameSeed fixes the block sequence. 0 seeds from the clock.
	GameSeed uint64 `env:"GAME_SEED" envDefault:"0"`

	// Sensor feed server
	FeedHost string `env:"FEED_HOST" envDefault:"::"`
	FeedPort int    `env:"FEED_PORT" envDefault:"8765"`
	FeedFile string `env:"FEED_FILE"`

	// IdleTimeout disconnects SSH clients that send no keys. 0 disables it.
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
}

// SensorEnabled reports whether a sensor source is configured.
func (c *Config) SensorEnabled() bool {
	return c.SensorURL != "" || c.SensorReplay != ""
}

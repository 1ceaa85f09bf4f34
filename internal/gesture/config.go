package gesture

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a gesture config fails validation.
var ErrInvalidConfig = errors.New("invalid gesture config")

// Default tuning, in sensor-space metres and frames.
const (
	DefaultReach          = 0.45
	DefaultProximity      = 0.1
	DefaultCooldownPeriod = 10
)

// Thresholds are the geometric constants used by the predicates.
type Thresholds struct {
	// Reach is how far a hand must extend sideways from the head to move.
	Reach float64 `yaml:"reach"`
	// Proximity is the per-axis distance under which both hands count as together.
	Proximity float64 `yaml:"proximity"`
}

// Config tunes classification and debounce.
type Config struct {
	Thresholds Thresholds `yaml:"thresholds"`
	// CooldownPeriod is the number of tracked frames in one decision window.
	CooldownPeriod int `yaml:"cooldown_period"`
}

// DefaultConfig returns the tuning the game ships with.
func DefaultConfig() Config {
	return Config{
		Thresholds: Thresholds{
			Reach:     DefaultReach,
			Proximity: DefaultProximity,
		},
		CooldownPeriod: DefaultCooldownPeriod,
	}
}

// LoadConfig reads a YAML config from path. Fields missing from the file keep
// their default values. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read gesture config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse gesture config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if c.Thresholds.Reach <= 0 {
		return fmt.Errorf("%w: reach must be positive, got %v", ErrInvalidConfig, c.Thresholds.Reach)
	}
	if c.Thresholds.Proximity <= 0 {
		return fmt.Errorf("%w: proximity must be positive, got %v", ErrInvalidConfig, c.Thresholds.Proximity)
	}
	if c.CooldownPeriod < 1 {
		return fmt.Errorf("%w: cooldown_period must be at least 1, got %d", ErrInvalidConfig, c.CooldownPeriod)
	}
	return nil
}

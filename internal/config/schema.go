package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version    int              `yaml:"version" validate:"gte=0"`
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Watch      WatchConfig      `yaml:"watch"`
	Validation ValidationConfig `yaml:"validation"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string   `yaml:"addr" validate:"required"`
	ReadTimeout     Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig holds run history settings. An empty path disables
// history.
type DatabaseConfig struct {
	Path      string   `yaml:"path"`
	Retention Duration `yaml:"retention,omitempty" validate:"gte=0"` // 0 keeps runs forever
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce Duration `yaml:"debounce" validate:"gte=0"`
}

// ValidationConfig holds validator settings
type ValidationConfig struct {
	BestPractices  *bool `yaml:"best_practices,omitempty"` // nil = enabled
	MaxSourceBytes int64 `yaml:"max_source_bytes" validate:"gt=0"`
}

// BestPracticesEnabled reports whether advisory warnings are produced
func (v ValidationConfig) BestPracticesEnabled() bool {
	return v.BestPractices == nil || *v.BestPractices
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config holds the application configuration
type Config struct {
	Parsing    ParsingConfig    `toml:"parsing"`
	Validation ValidationConfig `toml:"validation"`
	Output     OutputConfig     `toml:"output"`
	Log        LogConfig        `toml:"log"`
}

// ParsingConfig holds parsing-related configuration
type ParsingConfig struct {
	Format string `toml:"format" validate:"oneof=auto json logfmt"`
	Remap  bool   `toml:"remap"` // map level/msg style keys onto status/message
}

// ValidationConfig controls what a check reports
type ValidationConfig struct {
	ReportUnknown bool `toml:"report_unknown"`
	AllowBooleans bool `toml:"allow_booleans"`
}

// OutputConfig holds output-related configuration
type OutputConfig struct {
	Format      string `toml:"format" validate:"oneof=json yaml none"`
	OnlyInvalid bool   `toml:"only_invalid"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level   string `toml:"level" validate:"oneof=trace debug info warn error disabled"`
	Console bool   `toml:"console"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Parsing: ParsingConfig{
			Format: "auto",
			Remap:  true,
		},
		Validation: ValidationConfig{
			ReportUnknown: false,
			AllowBooleans: false,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// DefaultPath is where Load looks when no path is given
func DefaultPath() string {
	return filepath.Join("~", ".ddattrs", "config.toml")
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	// Expand home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s = %q (want one of %s)", fe.Namespace(), fe.Value(), fe.Param()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

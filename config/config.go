// Package config decodes and validates the tunables of the whole control core.
package config

import (
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/components/drivetrain"
	"github.com/sparkline-robotics/motioncore/logging"
	"github.com/sparkline-robotics/motioncore/maneuver"
	"github.com/sparkline-robotics/motioncore/operator"
	"github.com/sparkline-robotics/motioncore/routine"
)

// Config holds every tunable of the robot.
type Config struct {
	LogLevel      string            `json:"log_level"`
	Drivetrain    drivetrain.Config `json:"drivetrain"`
	Conveyor      conveyor.Config   `json:"conveyor"`
	Maneuver      maneuver.Config   `json:"maneuver"`
	DriverControl operator.Config   `json:"driver_control"`
	// Autonomous is an optional routine to run in the autonomous phase.
	Autonomous *routine.Config `json:"autonomous,omitempty"`
}

// Default returns the competition configuration.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		Drivetrain:    drivetrain.DefaultConfig(),
		Conveyor:      conveyor.DefaultConfig(),
		Maneuver:      maneuver.DefaultConfig(),
		DriverControl: operator.DefaultConfig(),
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate() error {
	if _, err := logging.LevelFromString(cfg.LogLevel); err != nil {
		return utils.NewConfigValidationError("log_level", err)
	}
	if err := cfg.Drivetrain.Validate("drivetrain"); err != nil {
		return err
	}
	if err := cfg.Conveyor.Validate("conveyor"); err != nil {
		return err
	}
	if err := cfg.Maneuver.Validate("maneuver"); err != nil {
		return err
	}
	if err := cfg.DriverControl.Validate("driver_control"); err != nil {
		return err
	}
	if cfg.Autonomous != nil {
		return cfg.Autonomous.Validate("autonomous")
	}
	return nil
}

// Level returns the configured log level.
func (cfg *Config) Level() logging.Level {
	level, err := logging.LevelFromString(cfg.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}

// FromAttributes decodes attributes over the defaults and validates the result. Keys that are
// absent keep their default. A list that is present replaces the default list entirely. Unknown
// keys are rejected.
func FromAttributes(attributes AttributeMap) (*Config, error) {
	cfg := Default()
	if dc := attributes.Section("driver_control"); dc.Has("bindings") {
		cfg.DriverControl.Bindings = nil
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   cfg,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return nil, errors.Wrap(err, "cannot decode config")
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return nil, errors.Errorf("unknown config attributes: %s", strings.Join(md.Unused, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromJSON decodes a JSON document with FromAttributes.
func FromJSON(data []byte) (*Config, error) {
	attributes, err := AttributeMapFromJSON(data)
	if err != nil {
		return nil, err
	}
	return FromAttributes(attributes)
}

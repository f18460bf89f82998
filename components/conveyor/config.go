package conveyor

import (
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Config holds the jam signature thresholds and the recovery pulse.
type Config struct {
	// A jam is a bottom stage turning slower than this while drawing more than JamCurrentAmps.
	JamVelocityRPM float64 `json:"jam_velocity_rpm"`
	JamCurrentAmps float64 `json:"jam_current_amps"`
	// How long the signature must hold continuously.
	JamDetectMs int `json:"jam_detect_ms"`

	UnjamReverseMs int     `json:"unjam_reverse_ms"`
	UnjamPct       float64 `json:"unjam_pct"`
}

// DefaultConfig returns the thresholds tuned on the competition robot.
func DefaultConfig() Config {
	return Config{
		JamVelocityRPM: 10,
		JamCurrentAmps: 2.0,
		JamDetectMs:    260,
		UnjamReverseMs: 220,
		UnjamPct:       58,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.JamDetectMs <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "jam_detect_ms")
	}
	if cfg.UnjamReverseMs <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "unjam_reverse_ms")
	}
	if cfg.JamVelocityRPM < 0 || cfg.JamCurrentAmps < 0 {
		return utils.NewConfigValidationError(path, errors.New("jam thresholds must not be negative"))
	}
	if cfg.UnjamPct <= 0 || cfg.UnjamPct > 100 {
		return utils.NewConfigValidationError(path, errors.New("unjam_pct must be within (0, 100]"))
	}
	return nil
}

// DetectWindow is how long the jam signature must persist.
func (cfg Config) DetectWindow() time.Duration {
	return time.Duration(cfg.JamDetectMs) * time.Millisecond
}

// RecoveryTime is the length of the reverse pulse.
func (cfg Config) RecoveryTime() time.Duration {
	return time.Duration(cfg.UnjamReverseMs) * time.Millisecond
}

package drivetrain

import (
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Defaults used when a caller does not choose its own speed or time budget.
const (
	DefaultDriveMaxPct  = 70.0
	DefaultDriveTimeout = 2500 * time.Millisecond
	DefaultTurnMaxPct   = 55.0
	DefaultTurnTimeout  = 1800 * time.Millisecond
	DefaultHold         = 120 * time.Millisecond
)

// Config is how you configure the drivetrain. Wheel diameter and track width are the values to
// re-tune first when distances or turns drift.
type Config struct {
	WheelDiameterMM float64 `json:"wheel_diameter_mm"`
	TrackWidthMM    float64 `json:"track_width_mm"`

	DriveKp float64 `json:"drive_kp"`
	TurnKp  float64 `json:"turn_kp"`
	SyncKp  float64 `json:"sync_kp"`

	// Command floors that overcome static friction at low error.
	MinDrivePct float64 `json:"min_drive_pct"`
	MinTurnPct  float64 `json:"min_turn_pct"`

	DriveToleranceDeg float64 `json:"drive_tolerance_deg"`
	TurnToleranceDeg  float64 `json:"turn_tolerance_deg"`

	TickMs int `json:"tick_ms"`
}

// DefaultConfig returns the tuning of the competition robot.
func DefaultConfig() Config {
	return Config{
		WheelDiameterMM:   82.55,
		TrackWidthMM:      285,
		DriveKp:           0.12,
		TurnKp:            0.24,
		SyncKp:            0.08,
		MinDrivePct:       14,
		MinTurnPct:        12,
		DriveToleranceDeg: 8,
		TurnToleranceDeg:  7,
		TickMs:            10,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.WheelDiameterMM <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "wheel_diameter_mm")
	}
	if cfg.TrackWidthMM <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "track_width_mm")
	}
	if cfg.TickMs <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "tick_ms")
	}
	if cfg.DriveKp < 0 || cfg.TurnKp < 0 || cfg.SyncKp < 0 {
		return utils.NewConfigValidationError(path, errors.New("gains must not be negative"))
	}
	if cfg.MinDrivePct < 0 || cfg.MinDrivePct > 100 || cfg.MinTurnPct < 0 || cfg.MinTurnPct > 100 {
		return utils.NewConfigValidationError(path, errors.New("command floors must be within [0, 100]"))
	}
	if cfg.DriveToleranceDeg <= 0 || cfg.TurnToleranceDeg <= 0 {
		return utils.NewConfigValidationError(path, errors.New("tolerances must be positive"))
	}
	return nil
}

// Tick returns the control loop period.
func (cfg Config) Tick() time.Duration {
	return time.Duration(cfg.TickMs) * time.Millisecond
}

// Kinematics returns the wheel geometry of the config.
func (cfg Config) Kinematics() Kinematics {
	return Kinematics{WheelDiameterMM: cfg.WheelDiameterMM, TrackWidthMM: cfg.TrackWidthMM}
}

package routine

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/components/drivetrain"
	"github.com/sparkline-robotics/motioncore/maneuver"
)

// Step operations accepted in a routine config.
const (
	OpDrive        = "drive"
	OpTurn         = "turn"
	OpCollect      = "collect"
	OpScoreHigh    = "score_high"
	OpScoreMiddle  = "score_middle"
	OpHold         = "hold"
	OpConveyor     = "conveyor"
	OpStopConveyor = "stop_conveyor"
	OpWait         = "wait"
)

// StepConfig describes one step of a configured routine. Zero speeds and durations fall back to
// the defaults of the operation.
type StepConfig struct {
	Op string `json:"op"`

	MM        float64 `json:"mm,omitempty"`
	Deg       float64 `json:"deg,omitempty"`
	MaxPct    float64 `json:"max_pct,omitempty"`
	TimeoutMs int     `json:"timeout_ms,omitempty"`
	SettleMs  int     `json:"settle_ms,omitempty"`
	Ms        int     `json:"ms,omitempty"`

	Mode string  `json:"mode,omitempty"`
	Pct  float64 `json:"pct,omitempty"`
}

// Config is a named list of steps.
type Config struct {
	Name  string       `json:"name"`
	Steps []StepConfig `json:"steps"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	for i, step := range cfg.Steps {
		if err := step.Validate(fmt.Sprintf("%s.steps.%d", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Validate ensures all parts of the step are valid.
func (cfg *StepConfig) Validate(path string) error {
	if cfg.MaxPct < 0 || cfg.MaxPct > 100 {
		return utils.NewConfigValidationError(path, errors.New("max_pct must be within [0, 100]"))
	}
	if cfg.TimeoutMs < 0 || cfg.SettleMs < 0 || cfg.Ms < 0 {
		return utils.NewConfigValidationError(path, errors.New("durations must not be negative"))
	}
	switch cfg.Op {
	case OpDrive, OpCollect:
		if cfg.MM == 0 {
			return utils.NewConfigValidationFieldRequiredError(path, "mm")
		}
	case OpTurn:
		if cfg.Deg == 0 {
			return utils.NewConfigValidationFieldRequiredError(path, "deg")
		}
	case OpHold, OpWait:
		if cfg.Ms == 0 {
			return utils.NewConfigValidationFieldRequiredError(path, "ms")
		}
	case OpConveyor:
		if cfg.Mode == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "mode")
		}
		if _, err := conveyor.ParseMode(cfg.Mode); err != nil {
			return utils.NewConfigValidationError(path, err)
		}
	case OpScoreHigh, OpScoreMiddle, OpStopConveyor:
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "op")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown op %q", cfg.Op))
	}
	return nil
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func orDefault[T float64 | time.Duration](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}

// Step builds the step the config describes. defaultSettle is used by scoring steps without a
// settle time.
func (cfg *StepConfig) Step(defaultSettle time.Duration) (Step, error) {
	switch cfg.Op {
	case OpDrive:
		return Drive(cfg.MM, orDefault(cfg.MaxPct, drivetrain.DefaultDriveMaxPct),
			orDefault(ms(cfg.TimeoutMs), drivetrain.DefaultDriveTimeout)), nil
	case OpTurn:
		return Turn(cfg.Deg, orDefault(cfg.MaxPct, drivetrain.DefaultTurnMaxPct),
			orDefault(ms(cfg.TimeoutMs), drivetrain.DefaultTurnTimeout)), nil
	case OpCollect:
		return Collect(cfg.MM, orDefault(cfg.MaxPct, maneuver.DefaultCollectSpeedPct)), nil
	case OpScoreHigh:
		return ScoreHigh(orDefault(ms(cfg.SettleMs), defaultSettle)), nil
	case OpScoreMiddle:
		return ScoreMiddle(orDefault(ms(cfg.SettleMs), defaultSettle)), nil
	case OpHold:
		return Hold(ms(cfg.Ms)), nil
	case OpWait:
		return Wait(ms(cfg.Ms)), nil
	case OpStopConveyor:
		return StopConveyor(), nil
	case OpConveyor:
		mode, err := conveyor.ParseMode(cfg.Mode)
		if err != nil {
			return Step{}, err
		}
		return SetConveyor(mode, orDefault(cfg.Pct, 100)), nil
	default:
		return Step{}, errors.Errorf("unknown op %q", cfg.Op)
	}
}

// Build returns the routine the config describes.
func (cfg *Config) Build(defaultSettle time.Duration) (*Routine, error) {
	steps := make([]Step, 0, len(cfg.Steps))
	for i := range cfg.Steps {
		step, err := cfg.Steps[i].Step(defaultSettle)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		steps = append(steps, step)
	}
	return New(cfg.Name, steps...), nil
}

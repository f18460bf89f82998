package operator

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
)

// Binding maps a held button to a conveyor mode.
type Binding struct {
	Button Button  `json:"button"`
	Mode   string  `json:"mode"`
	Pct    float64 `json:"pct"`
}

// A ModeBinding is a Binding with its mode decoded.
type ModeBinding struct {
	Button  Button
	Command conveyor.Command
}

// Config tunes the driver-control loop. Bindings are checked in order and the first held button
// wins.
type Config struct {
	TickMs   int       `json:"tick_ms"`
	Bindings []Binding `json:"bindings"`
}

// DefaultConfig returns the competition button layout.
func DefaultConfig() Config {
	return Config{
		TickMs: 20,
		Bindings: []Binding{
			{Button: ButtonL1, Mode: conveyor.Collect.String(), Pct: 100},
			{Button: ButtonL2, Mode: conveyor.ReversePurge.String(), Pct: 90},
			{Button: ButtonR1, Mode: conveyor.ScoreHigh.String(), Pct: 100},
			{Button: ButtonR2, Mode: conveyor.ScoreMiddle.String(), Pct: 100},
		},
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.TickMs <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "tick_ms")
	}
	for i, b := range cfg.Bindings {
		bindingPath := fmt.Sprintf("%s.bindings.%d", path, i)
		if b.Button == "" {
			return utils.NewConfigValidationFieldRequiredError(bindingPath, "button")
		}
		if _, err := conveyor.ParseMode(b.Mode); err != nil {
			return utils.NewConfigValidationError(bindingPath, err)
		}
		if b.Pct < 0 || b.Pct > 100 {
			return utils.NewConfigValidationError(bindingPath, errors.New("pct must be within [0, 100]"))
		}
	}
	return nil
}

// Tick returns the loop period.
func (cfg Config) Tick() time.Duration {
	return time.Duration(cfg.TickMs) * time.Millisecond
}

// ModeBindings decodes the bindings in order.
func (cfg Config) ModeBindings(path string) ([]ModeBinding, error) {
	out := make([]ModeBinding, 0, len(cfg.Bindings))
	for i, b := range cfg.Bindings {
		mode, err := conveyor.ParseMode(b.Mode)
		if err != nil {
			return nil, utils.NewConfigValidationError(fmt.Sprintf("%s.bindings.%d", path, i), err)
		}
		out = append(out, ModeBinding{Button: b.Button, Command: conveyor.Command{Mode: mode, Percent: b.Pct}})
	}
	return out, nil
}

package maneuver

import (
	"time"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// DefaultCollectSpeedPct is the drive speed used when collecting without an explicit speed.
const DefaultCollectSpeedPct = 65.0

// Config tunes the composite maneuvers.
type Config struct {
	// Conveyor magnitude while collecting. Kept below full so the intake does not outrun the
	// stages above it.
	CollectPct       float64 `json:"collect_pct"`
	CollectTimeoutMs int     `json:"collect_timeout_ms"`
	HoldMs           int     `json:"hold_ms"`
	SettleMs         int     `json:"settle_ms"`
}

// DefaultConfig returns the competition tuning.
func DefaultConfig() Config {
	return Config{
		CollectPct:       95,
		CollectTimeoutMs: 2600,
		HoldMs:           120,
		SettleMs:         450,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.CollectTimeoutMs <= 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "collect_timeout_ms")
	}
	if cfg.CollectPct <= 0 || cfg.CollectPct > 100 {
		return utils.NewConfigValidationError(path, errors.New("collect_pct must be within (0, 100]"))
	}
	if cfg.HoldMs < 0 || cfg.SettleMs < 0 {
		return utils.NewConfigValidationError(path, errors.New("hold_ms and settle_ms must not be negative"))
	}
	return nil
}

// CollectTimeout is the fixed time budget of a collecting drive.
func (cfg Config) CollectTimeout() time.Duration {
	return time.Duration(cfg.CollectTimeoutMs) * time.Millisecond
}

// Hold is how long to hold position before scoring.
func (cfg Config) Hold() time.Duration {
	return time.Duration(cfg.HoldMs) * time.Millisecond
}

// Settle is the default dwell after a scoring mode is commanded.
func (cfg Config) Settle() time.Duration {
	return time.Duration(cfg.SettleMs) * time.Millisecond
}

package conveyor

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects one of the conveyor's fixed actuation patterns.
type Mode int

// The conveyor modes.
const (
	Off Mode = iota
	Collect
	ScoreHigh
	ScoreMiddle
	ReversePurge
)

// Modes lists every mode in declaration order.
var Modes = []Mode{Off, Collect, ScoreHigh, ScoreMiddle, ReversePurge}

var modeNames = map[Mode]string{
	Off:          "off",
	Collect:      "collect",
	ScoreHigh:    "score_high",
	ScoreMiddle:  "score_middle",
	ReversePurge: "reverse_purge",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the mode with the given name.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range Modes {
		if modeNames[m] == name {
			return m, nil
		}
	}
	return Off, errors.Errorf("unknown conveyor mode %q", name)
}

// JamProtected reports whether the anti-jam monitor watches this mode. Off has nothing to jam,
// ReversePurge is already clearing, and ScoreMiddle runs the lower stages at reduced torque.
func (m Mode) JamProtected() bool {
	return m == Collect || m == ScoreHigh
}

package motor

import (
	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/logging"
)

// FaultLog collects port errors over one control run. A loop that keeps failing on the same
// port records and logs that failure once rather than once per tick.
type FaultLog struct {
	logger logging.Logger
	seen   map[string]struct{}
	err    error
}

// NewFaultLog returns an empty FaultLog.
func NewFaultLog(logger logging.Logger) *FaultLog {
	return &FaultLog{logger: logger, seen: map[string]struct{}{}}
}

// Add records err unless an identical error was already recorded. Each error may itself be a
// combination of several port errors.
func (f *FaultLog) Add(err error) {
	for _, e := range multierr.Errors(err) {
		key := e.Error()
		if _, ok := f.seen[key]; ok {
			continue
		}
		f.seen[key] = struct{}{}
		f.logger.Warnw("motor port error", "error", key)
		f.err = multierr.Append(f.err, e)
	}
}

// Err returns every distinct recorded error, or nil.
func (f *FaultLog) Err() error {
	return f.err
}

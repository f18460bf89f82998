package conveyor

import (
	"github.com/sparkline-robotics/motioncore/components/motor"
)

// NumStages is the number of conveyor stages, ordered bottom, middle, top-1, top-2.
const NumStages = 4

// StageDrive is how one stage runs for a mode: a direction and a scale applied to the commanded
// percent.
type StageDrive struct {
	Dir   motor.Direction
	Scale float64
}

// Pattern is the actuation of every stage for one mode. A coasting pattern stops every stage
// with coast and ignores Stages.
type Pattern struct {
	Coast  bool
	Stages [NumStages]StageDrive
}

func uniform(dir motor.Direction) [NumStages]StageDrive {
	return [NumStages]StageDrive{{dir, 1}, {dir, 1}, {dir, 1}, {dir, 1}}
}

var patterns = map[Mode]Pattern{
	Off:       {Coast: true},
	Collect:   {Stages: uniform(motor.Forward)},
	ScoreHigh: {Stages: uniform(motor.Forward)},
	ScoreMiddle: {Stages: [NumStages]StageDrive{
		{motor.Forward, 0.75},
		{motor.Forward, 0.75},
		{motor.Reverse, 1},
		{motor.Reverse, 1},
	}},
	ReversePurge: {Stages: uniform(motor.Reverse)},
}

// PatternFor returns the actuation pattern of mode. Unknown modes coast.
func PatternFor(mode Mode) (Pattern, bool) {
	p, ok := patterns[mode]
	if !ok {
		return Pattern{Coast: true}, false
	}
	return p, true
}

// SignedPercents returns each stage's signed output for the pattern run at pct, or nil for a
// coasting pattern.
func (p Pattern) SignedPercents(pct float64) []float64 {
	if p.Coast {
		return nil
	}
	out := make([]float64, NumStages)
	for i, s := range p.Stages {
		out[i] = s.Dir.Sign() * s.Scale * pct
	}
	return out
}

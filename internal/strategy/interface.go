package strategy

import "entropy_go/pkg/quant"

// Direction is the stance a signal requests for one bar.
type Direction int8

const (
	Flat Direction = iota
	Long
	Short
)

// String returns the string representation of Direction.
func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	case Flat:
		return "FLAT"
	default:
		return "UNKNOWN"
	}
}

// Signal is a pointwise direction attached to a bar index. Signals are
// emitted only where an entropy sample exists.
type Signal struct {
	Index     int
	Direction Direction
}

// Policy gates signal emission. When ZScoreThreshold is set, a non-Flat
// signal requires a defined entropy z-score with |z| >= threshold; when
// nil, the direction rule fires unconditionally. Undefined z-scores are
// always Flat under a threshold.
type Policy struct {
	ZScoreThreshold *float64
}

// SignalGenerator turns an entropy sample stream into a signal stream.
// Implementations are deterministic and carry no state between bars.
type SignalGenerator interface {
	Generate(prices []float64, samples []quant.EntropySample) []Signal
}

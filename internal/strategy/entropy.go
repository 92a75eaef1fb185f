package strategy

import "entropy_go/pkg/quant"

// EntropyMomentum is the documented direction rule for entropy-gated runs:
// follow the sign of the price move over the trailing symbol lookback.
// A lower-than-usual entropy means the recent symbol distribution is
// concentrated, i.e. the dominant pattern tends to persist, so the rule
// rides the move that produced it. Ties map to Flat.
type EntropyMomentum struct {
	policy   Policy
	lookback int
}

// NewEntropyMomentum builds the rule; lookback is the symbol width used by
// the coder, so the momentum span matches the pattern span.
func NewEntropyMomentum(policy Policy, lookback int) *EntropyMomentum {
	if lookback < 1 {
		lookback = 1
	}
	return &EntropyMomentum{policy: policy, lookback: lookback}
}

// Generate emits one signal per entropy sample. The output is aligned 1:1
// with samples; it never looks ahead of the sample's bar index.
func (g *EntropyMomentum) Generate(prices []float64, samples []quant.EntropySample) []Signal {
	signals := make([]Signal, 0, len(samples))
	for _, sample := range samples {
		sig := Signal{Index: sample.Index, Direction: Flat}

		gated := false
		if t := g.policy.ZScoreThreshold; t != nil {
			// Undefined z-score means "no filter available": stay flat
			// rather than trade on an unverifiable deviation.
			if !sample.ZValid {
				gated = true
			} else if z := sample.ZScore; z < *t && z > -*t {
				gated = true
			}
		}

		if !gated && sample.Index >= g.lookback {
			cur := prices[sample.Index]
			ref := prices[sample.Index-g.lookback]
			switch {
			case cur > ref:
				sig.Direction = Long
			case cur < ref:
				sig.Direction = Short
			}
		}
		signals = append(signals, sig)
	}
	return signals
}

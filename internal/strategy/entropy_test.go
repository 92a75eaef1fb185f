package strategy_test

import (
	"testing"

	"entropy_go/internal/strategy"
	"entropy_go/pkg/quant"
)

func sample(index int, z float64, valid bool) quant.EntropySample {
	return quant.EntropySample{Index: index, Entropy: 1.5, ZScore: z, ZValid: valid}
}

func TestEntropyMomentumDirections(t *testing.T) {
	gen := strategy.NewEntropyMomentum(strategy.Policy{}, 2)

	prices := []float64{100, 100, 105, 95, 105}
	samples := []quant.EntropySample{
		sample(2, 0, false), // prices[2]=105 > prices[0]=100 -> Long
		sample(3, 0, false), // prices[3]=95  < prices[1]=100 -> Short
		sample(4, 0, false), // prices[4]=105 = prices[2]=105 -> tie, Flat
	}

	signals := gen.Generate(prices, samples)
	if len(signals) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(signals))
	}

	want := []strategy.Direction{strategy.Long, strategy.Short, strategy.Flat}
	for i, sig := range signals {
		if sig.Index != samples[i].Index {
			t.Errorf("signal %d: index %d, want %d", i, sig.Index, samples[i].Index)
		}
		if sig.Direction != want[i] {
			t.Errorf("signal %d: direction %v, want %v", i, sig.Direction, want[i])
		}
	}
}

func TestEntropyMomentumZScoreGate(t *testing.T) {
	threshold := 1.0
	gen := strategy.NewEntropyMomentum(strategy.Policy{ZScoreThreshold: &threshold}, 1)

	// Rising prices throughout: any ungated signal is Long.
	prices := []float64{100, 101, 102, 103, 104, 105}

	cases := []struct {
		name string
		s    quant.EntropySample
		want strategy.Direction
	}{
		{"invalid z stays flat", sample(1, 5.0, false), strategy.Flat},
		{"below threshold", sample(2, 0.5, true), strategy.Flat},
		{"below negative threshold", sample(3, -0.5, true), strategy.Flat},
		{"above threshold", sample(4, 1.2, true), strategy.Long},
		{"deep negative z passes", sample(5, -1.5, true), strategy.Long},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signals := gen.Generate(prices, []quant.EntropySample{tc.s})
			if len(signals) != 1 {
				t.Fatalf("expected 1 signal, got %d", len(signals))
			}
			if signals[0].Direction != tc.want {
				t.Errorf("direction = %v, want %v", signals[0].Direction, tc.want)
			}
		})
	}
}

func TestEntropyMomentumThresholdBoundary(t *testing.T) {
	// |z| exactly at the threshold passes the gate.
	threshold := 1.0
	gen := strategy.NewEntropyMomentum(strategy.Policy{ZScoreThreshold: &threshold}, 1)

	prices := []float64{100, 101}
	signals := gen.Generate(prices, []quant.EntropySample{sample(1, 1.0, true)})
	if signals[0].Direction != strategy.Long {
		t.Errorf("direction at |z| == threshold = %v, want Long", signals[0].Direction)
	}
}

func TestEntropyMomentumNoLookahead(t *testing.T) {
	gen := strategy.NewEntropyMomentum(strategy.Policy{}, 3)

	// A sample before the lookback span cannot form a direction.
	prices := []float64{100, 120, 90}
	signals := gen.Generate(prices, []quant.EntropySample{sample(2, 0, false)})
	if signals[0].Direction != strategy.Flat {
		t.Errorf("direction without full lookback = %v, want Flat", signals[0].Direction)
	}
}

package quant

import (
	"fmt"
	"math"
)

// MaxBits bounds the symbol width. 2^8 buckets is already far beyond any
// window size used in practice; wider symbols would never fill a window.
const MaxBits = 8

// Symbol is a discretized return pattern, one of 2^bits categories.
type Symbol uint8

// EntropySample is one rolling-entropy observation aligned to a bar.
// ZScore is only meaningful when ZValid is true; an invalid z-score means
// "no filter" (fewer than 2 prior samples, or zero rolling std).
type EntropySample struct {
	Index   int     // bar index in the source series
	Entropy float64 // Shannon entropy in bits, within [0, bits]
	ZScore  float64
	ZValid  bool
}

// EntropyCoder discretizes a price series into fixed-width symbols and
// computes a rolling Shannon entropy over them.
//
// Quantization rule (fixed, deterministic): the symbol at bar i is the
// bits-wide mask of up/down signs of the trailing price deltas, bit j set
// when price[i-j] > price[i-j-1]. Bit 0 is the most recent delta.
type EntropyCoder struct {
	bits   int
	period int
}

// NewEntropyCoder validates the symbol width and window length.
func NewEntropyCoder(bits, period int) (*EntropyCoder, error) {
	if bits <= 0 || bits > MaxBits {
		return nil, fmt.Errorf("entropy bits must be in [1, %d], got %d", MaxBits, bits)
	}
	if period <= 0 {
		return nil, fmt.Errorf("entropy period must be positive, got %d", period)
	}
	return &EntropyCoder{bits: bits, period: period}, nil
}

// Bits returns the symbol width.
func (c *EntropyCoder) Bits() int { return c.bits }

// Period returns the rolling window length.
func (c *EntropyCoder) Period() int { return c.period }

// Warmup returns the number of leading bars that produce no symbol.
func (c *EntropyCoder) Warmup() int { return c.bits }

// Encode maps the price series to its symbol sequence. symbols[k]
// corresponds to bar k+bits; the first bits bars are warm-up. A series
// shorter than the warm-up yields an empty sequence.
func (c *EntropyCoder) Encode(prices []float64) []Symbol {
	if len(prices) <= c.bits {
		return nil
	}
	symbols := make([]Symbol, 0, len(prices)-c.bits)
	for i := c.bits; i < len(prices); i++ {
		var s Symbol
		for j := 0; j < c.bits; j++ {
			if prices[i-j] > prices[i-j-1] {
				s |= 1 << j
			}
		}
		symbols = append(symbols, s)
	}
	return symbols
}

// RollingEntropy computes, for every symbol position with a full trailing
// window of period prior symbols, the Shannon entropy (base 2) of the
// window's empirical symbol distribution, plus the z-score of that entropy
// against the running mean/std of entropy values seen earlier in the same
// run. Sample indices are bar indices in the original price series.
//
// The window is maintained incrementally: one symbol enters, the oldest
// leaves, and the entropy term sum is patched in O(1). A window never
// materializes, so the total cost is O(N) regardless of period.
//
// period >= len(symbols) yields an empty result, not an error.
func (c *EntropyCoder) RollingEntropy(symbols []Symbol) []EntropySample {
	n := c.period
	if len(symbols) <= n {
		return nil
	}

	// clog2[v] = v*log2(v); counts never exceed the window length.
	clog2 := make([]float64, n+1)
	for v := 2; v <= n; v++ {
		clog2[v] = float64(v) * math.Log2(float64(v))
	}

	counts := make([]int, 1<<c.bits)
	// termSum tracks sum(count*log2(count)) over all buckets, so
	// H = log2(n) - termSum/n at every step.
	termSum := 0.0
	for _, s := range symbols[:n] {
		termSum -= clog2[counts[s]]
		counts[s]++
		termSum += clog2[counts[s]]
	}

	log2n := math.Log2(float64(n))
	samples := make([]EntropySample, 0, len(symbols)-n)
	var stats RunningStats

	for i := n; i < len(symbols); i++ {
		h := log2n - termSum/float64(n)
		// Guard against float residue at the boundaries.
		if h < 0 {
			h = 0
		} else if max := float64(c.bits); h > max {
			h = max
		}

		sample := EntropySample{Index: i + c.bits, Entropy: h}
		if stats.Count() >= 2 {
			if std := stats.StdDev(); std > 0 {
				sample.ZScore = (h - stats.Mean()) / std
				sample.ZValid = true
			}
		}
		stats.Push(h)
		samples = append(samples, sample)

		// Slide the window: evict symbols[i-n], admit symbols[i].
		out, in := symbols[i-n], symbols[i]
		if out != in {
			termSum -= clog2[counts[out]]
			counts[out]--
			termSum += clog2[counts[out]]
			termSum -= clog2[counts[in]]
			counts[in]++
			termSum += clog2[counts[in]]
		}
	}
	return samples
}

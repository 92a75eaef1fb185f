package domain

// Bar is one time-stamped price observation. UnixMs may also carry a slot
// number for on-chain sources; the core only requires a monotonically
// increasing integer key.
type Bar struct {
	UnixMs int64   `json:"unix_ms"`
	Price  float64 `json:"price"`
}

// Point is one (time-key, value) pair handed to charting or reporting
// consumers.
type Point struct {
	X int64
	Y float64
}

// Series is an ordered sequence of bars. It is owned by the caller and
// borrowed read-only by every downstream stage.
type Series []Bar

// Validate rejects malformed input before it enters any stage. Time keys
// must be strictly ascending (the data source is responsible for
// deduplication) and prices must be positive.
func (s Series) Validate() error {
	for i, b := range s {
		// Negated comparison so NaN is rejected too.
		if !(b.Price > 0) {
			return &SeriesError{Index: i, Err: ErrNonPositivePrice}
		}
		if i > 0 && b.UnixMs <= s[i-1].UnixMs {
			return &SeriesError{Index: i, Err: ErrNonMonotonicSeries}
		}
	}
	return nil
}

// Prices copies the price column for numeric stages.
func (s Series) Prices() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Price
	}
	return out
}

// Points exposes the series as chartable (x, y) pairs.
func (s Series) Points() []Point {
	out := make([]Point, len(s))
	for i, b := range s {
		out[i] = Point{X: b.UnixMs, Y: b.Price}
	}
	return out
}

package execution

import (
	"errors"

	"entropy_go/internal/domain"
	"entropy_go/internal/strategy"
)

// EquityPoint is one mark-to-market equity observation aligned to a bar.
type EquityPoint struct {
	Index  int
	Equity float64
}

// EquityCurve is the per-bar equity series from the first tradable index
// onward.
type EquityCurve []EquityPoint

// Values copies the equity column for the metrics stage.
func (c EquityCurve) Values() []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = p.Equity
	}
	return out
}

// Points exposes the curve as chartable (time-key, equity) pairs.
func (c EquityCurve) Points(bars domain.Series) []domain.Point {
	out := make([]domain.Point, len(c))
	for i, p := range c {
		out[i] = domain.Point{X: bars[p.Index].UnixMs, Y: p.Equity}
	}
	return out
}

// Result is one simulated run: the equity curve plus trade accounting.
type Result struct {
	Curve  EquityCurve
	Trades int
	Wins   int
	// Bankrupt is set when equity hits zero; the run goes flat for the
	// remainder and the curve stays clamped at zero.
	Bankrupt bool
}

// Simulator converts a signal stream into positions and an equity curve
// under a flat fee-per-trade regime.
//
// State machine per run: Flat, Long, or Short. A signal that differs from
// the current state closes the open position and opens the new one, paying
// one fee leg per side (a flip pays two); holding pays none. Fees are a
// fixed fraction of traded notional, applied at transition time only.
// Equity is marked to market on every bar; realized P&L is booked on
// transitions.
type Simulator struct {
	feeBps         float64
	initialCapital float64
}

// NewSimulator validates the fee regime and starting capital.
func NewSimulator(feeBps, initialCapital float64) (*Simulator, error) {
	if feeBps < 0 {
		return nil, domain.NewConfigError("fee_bps", errors.New("must be >= 0"))
	}
	if initialCapital <= 0 {
		return nil, domain.NewConfigError("initial_capital", errors.New("must be > 0"))
	}
	return &Simulator{feeBps: feeBps, initialCapital: initialCapital}, nil
}

// Run simulates the signal stream against the bar series. An empty signal
// stream yields an empty curve, not an error. Signal indices must be valid
// positions in bars; the generator guarantees this by construction.
func (s *Simulator) Run(bars domain.Series, signals []strategy.Signal) *Result {
	res := &Result{}
	if len(signals) == 0 {
		return res
	}

	feeRate := s.feeBps / 10_000.0
	cash := s.initialCapital
	state := strategy.Flat
	var qty, entryPrice float64

	res.Curve = make(EquityCurve, 0, len(signals))
	for _, sig := range signals {
		price := bars[sig.Index].Price

		if !res.Bankrupt && sig.Direction != state {
			if state != strategy.Flat {
				cash += closeValue(state, qty, entryPrice, price)
				cash -= qty * price * feeRate
				res.Trades++
				if tradeWon(state, entryPrice, price) {
					res.Wins++
				}
				qty, entryPrice = 0, 0
			}
			if sig.Direction != strategy.Flat && cash > 0 {
				notional := cash
				cash -= notional * feeRate
				qty = cash / price
				entryPrice = price
				cash = 0
			}
			state = sig.Direction
			if state != strategy.Flat && qty == 0 {
				// Could not fund the position; stay flat.
				state = strategy.Flat
			}
		}

		equity := cash + closeValue(state, qty, entryPrice, price)
		if equity <= 0 {
			// Equity cannot go negative: clamp and stop trading.
			equity = 0
			res.Bankrupt = true
			state = strategy.Flat
			cash, qty, entryPrice = 0, 0, 0
		}
		res.Curve = append(res.Curve, EquityPoint{Index: sig.Index, Equity: equity})
	}
	return res
}

// closeValue is the cash released by closing the position at price.
func closeValue(state strategy.Direction, qty, entry, price float64) float64 {
	switch state {
	case strategy.Long:
		return qty * price
	case strategy.Short:
		// Entry notional plus short P&L: qty*entry + (entry-price)*qty.
		return qty * (2*entry - price)
	default:
		return 0
	}
}

// tradeWon reports whether the closed leg had a positive price move.
func tradeWon(state strategy.Direction, entry, exit float64) bool {
	if state == strategy.Long {
		return exit > entry
	}
	return exit < entry
}

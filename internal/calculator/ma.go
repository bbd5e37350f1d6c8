// Package calculator implements the indicator engine: pure functions over
// price series that return new series of the same length. Positions that
// need more history than is available, or that divide by zero, are NaN.
package calculator

import "math"

// Defaults used when callers have no configured value.
const (
	DefaultMAPeriod        = 9
	DefaultRSIPeriod       = 14
	DefaultBollingerPeriod = 20
	DefaultBollingerK      = 2.0
	DefaultMACDShort       = 12
	DefaultMACDLong        = 26
	DefaultMACDSignal      = 9
	DefaultATRPeriod       = 14
	DefaultRVWAPPeriod     = 20
)

// SMA computes the simple moving average over each trailing window of period values.
// The first period-1 positions are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	sums, err := RollingSum(values, period)
	if err != nil {
		return nil, err
	}
	for i := range sums {
		sums[i] /= float64(period)
	}
	return sums, nil
}

// EMA computes the exponential moving average with alpha = 2/(period+1).
// The recursion is seeded with the first observation and is not bias
// adjusted, so there is no warm-up gap. Leading NaNs stay NaN and an interior
// NaN carries the previous average forward.
func EMA(values []float64, period int) ([]float64, error) {
	if err := checkPeriod("period", period); err != nil {
		return nil, err
	}
	if err := checkSeries(values); err != nil {
		return nil, err
	}
	alpha := 2.0 / float64(period+1)
	out := make([]float64, len(values))
	prev := math.NaN()
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			// hold
		case math.IsNaN(prev):
			prev = v
		default:
			// alpha*v + (1-alpha)*prev, arranged so a flat input and alpha=1 stay exact
			prev = v + (1-alpha)*(prev-v)
		}
		out[i] = prev
	}
	return out, nil
}

// DEMA computes the double exponential moving average 2*e1 - e2,
// where e2 is the EMA of e1.
func DEMA(values []float64, period int) ([]float64, error) {
	e, err := emaChain(values, period, 2)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i := range out {
		out[i] = 2*e[0][i] - e[1][i]
	}
	return out, nil
}

// TEMA computes the triple exponential moving average 3*e1 - 3*e2 + e3.
func TEMA(values []float64, period int) ([]float64, error) {
	e, err := emaChain(values, period, 3)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i := range out {
		out[i] = 3*e[0][i] - 3*e[1][i] + e[2][i]
	}
	return out, nil
}

// emaChain returns depth successive EMAs, each computed over the previous one.
func emaChain(values []float64, period, depth int) ([][]float64, error) {
	chain := make([][]float64, 0, depth)
	src := values
	for d := 0; d < depth; d++ {
		e, err := EMA(src, period)
		if err != nil {
			return nil, err
		}
		chain = append(chain, e)
		src = e
	}
	return chain, nil
}

package calculator

import "math"

// RollingSum returns the sum over each trailing window of period values.
// Positions before the first full window are NaN; a NaN inside a window makes the window NaN.
func RollingSum(values []float64, period int) ([]float64, error) {
	if err := checkPeriod("period", period); err != nil {
		return nil, err
	}
	if err := checkSeries(values); err != nil {
		return nil, err
	}
	out := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum
	}
	return out, nil
}

// RollingStdDev returns the sample standard deviation (n-1 denominator) over
// each trailing window. A window of one value has no sample deviation and is NaN.
func RollingStdDev(values []float64, period int) ([]float64, error) {
	if err := checkPeriod("period", period); err != nil {
		return nil, err
	}
	if err := checkSeries(values); err != nil {
		return nil, err
	}
	out := nanSlice(len(values))
	if period == 1 {
		return out, nil
	}
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := sum(window) / float64(period)
		sq := 0.0
		for _, v := range window {
			d := v - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(period-1))
	}
	return out, nil
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

package calculator

import "math"

// RSI computes the relative strength index from simple rolling means of
// gains and losses. The first change is taken as zero, so the first defined
// value sits at index period-1.
//
// A window with losses of zero and some gain saturates at 100; a window with
// neither gains nor losses is NaN.
func RSI(values []float64, period int) ([]float64, error) {
	if err := checkPeriod("period", period); err != nil {
		return nil, err
	}
	if err := checkSeries(values); err != nil {
		return nil, err
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		switch {
		case math.IsNaN(delta):
			gains[i], losses[i] = math.NaN(), math.NaN()
		case delta > 0:
			gains[i] = delta
		case delta < 0:
			losses[i] = -delta
		}
	}

	avgGain, err := SMA(gains, period)
	if err != nil {
		return nil, err
	}
	avgLoss, err := SMA(losses, period)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	for i := range out {
		out[i] = rsiValue(avgGain[i], avgLoss[i])
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case math.IsNaN(avgGain) || math.IsNaN(avgLoss):
		return math.NaN()
	case avgLoss == 0 && avgGain == 0:
		return math.NaN()
	case avgLoss == 0:
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

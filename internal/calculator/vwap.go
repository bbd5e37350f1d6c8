package calculator

// RVWAP computes the rolling volume-weighted average of the typical price
// (H+L+C)/3 over each trailing window. Windows whose volume sums to zero are NaN.
func RVWAP(high, low, close, volume []float64, period int) ([]float64, error) {
	if err := checkPeriod("period", period); err != nil {
		return nil, err
	}
	if err := checkAligned(high, low, close, volume); err != nil {
		return nil, err
	}

	tpv := make([]float64, len(high))
	for i := range tpv {
		tp := (high[i] + low[i] + close[i]) / 3
		tpv[i] = tp * volume[i]
	}
	num, err := RollingSum(tpv, period)
	if err != nil {
		return nil, err
	}
	den, err := RollingSum(volume, period)
	if err != nil {
		return nil, err
	}
	out := nanSlice(len(high))
	for i := range out {
		if den[i] != 0 {
			out[i] = num[i] / den[i]
		}
	}
	return out, nil
}

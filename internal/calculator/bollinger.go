package calculator

// Bands holds the three Bollinger series.
type Bands struct {
	Upper []float64
	Mid   []float64
	Lower []float64
}

// Bollinger computes mid = SMA(period) and upper/lower = mid ± k·stddev, where
// stddev is the sample standard deviation over the same window.
func Bollinger(values []float64, period int, k float64) (Bands, error) {
	mid, err := SMA(values, period)
	if err != nil {
		return Bands{}, err
	}
	std, err := RollingStdDev(values, period)
	if err != nil {
		return Bands{}, err
	}
	b := Bands{
		Upper: make([]float64, len(values)),
		Mid:   mid,
		Lower: make([]float64, len(values)),
	}
	for i := range values {
		b.Upper[i] = mid[i] + k*std[i]
		b.Lower[i] = mid[i] - k*std[i]
	}
	return b, nil
}

package calculator

import (
	"fmt"
	"time"

	"QuantResearch/internal/model"
)

// The Series* functions wrap the slice functions for time-indexed input.
// Multi-column inputs must share the same timestamps, and every output
// carries the time index of its first input.

func SeriesSMA(s model.Series, period int) (model.Series, error) {
	return unary(s, period, fmt.Sprintf("SMA(%d)", period), SMA)
}

func SeriesEMA(s model.Series, period int) (model.Series, error) {
	return unary(s, period, fmt.Sprintf("EMA(%d)", period), EMA)
}

func SeriesDEMA(s model.Series, period int) (model.Series, error) {
	return unary(s, period, fmt.Sprintf("DEMA(%d)", period), DEMA)
}

func SeriesTEMA(s model.Series, period int) (model.Series, error) {
	return unary(s, period, fmt.Sprintf("TEMA(%d)", period), TEMA)
}

func SeriesRSI(s model.Series, period int) (model.Series, error) {
	return unary(s, period, fmt.Sprintf("RSI(%d)", period), RSI)
}

// SeriesBollinger returns upper, mid and lower bands in that order.
func SeriesBollinger(s model.Series, period int, k float64) ([3]model.Series, error) {
	b, err := Bollinger(s.Values, period, k)
	if err != nil {
		return [3]model.Series{}, err
	}
	return [3]model.Series{
		named(s, fmt.Sprintf("BB_UPPER(%d)", period), b.Upper),
		named(s, fmt.Sprintf("BB_MID(%d)", period), b.Mid),
		named(s, fmt.Sprintf("BB_LOWER(%d)", period), b.Lower),
	}, nil
}

// SeriesMACD returns the MACD line, signal and histogram in that order.
func SeriesMACD(s model.Series, short, long, signal int) ([3]model.Series, error) {
	m, err := MACD(s.Values, short, long, signal)
	if err != nil {
		return [3]model.Series{}, err
	}
	return [3]model.Series{
		named(s, "MACD", m.Line),
		named(s, "MACD_SIGNAL", m.Signal),
		named(s, "MACD_HIST", m.Histogram),
	}, nil
}

func SeriesATR(high, low, close model.Series, period int) (model.Series, error) {
	if err := CheckTimeAligned(high, low, close); err != nil {
		return model.Series{}, err
	}
	v, err := ATR(high.Values, low.Values, close.Values, period)
	if err != nil {
		return model.Series{}, err
	}
	return named(high, fmt.Sprintf("ATR(%d)", period), v), nil
}

func SeriesRVWAP(high, low, close, volume model.Series, period int) (model.Series, error) {
	if err := CheckTimeAligned(high, low, close, volume); err != nil {
		return model.Series{}, err
	}
	v, err := RVWAP(high.Values, low.Values, close.Values, volume.Values, period)
	if err != nil {
		return model.Series{}, err
	}
	return named(high, fmt.Sprintf("RVWAP(%d)", period), v), nil
}

// CheckTimeAligned fails with ErrInvalidInput unless every series has values
// for exactly the same timestamps.
func CheckTimeAligned(series ...model.Series) error {
	if len(series) == 0 {
		return fmt.Errorf("%w: no series", ErrInvalidInput)
	}
	ref := series[0]
	for _, s := range series {
		if len(s.Values) == 0 {
			return fmt.Errorf("%w: series %q is empty", ErrInvalidInput, s.Name)
		}
		if len(s.Times) != len(s.Values) {
			return fmt.Errorf("%w: series %q has %d timestamps for %d values", ErrInvalidInput, s.Name, len(s.Times), len(s.Values))
		}
		if len(s.Times) != len(ref.Times) {
			return fmt.Errorf("%w: series %q has %d rows, %q has %d", ErrInvalidInput, s.Name, len(s.Times), ref.Name, len(ref.Times))
		}
		for i := range s.Times {
			if !s.Times[i].Equal(ref.Times[i]) {
				return fmt.Errorf("%w: series %q and %q differ at row %d", ErrInvalidInput, s.Name, ref.Name, i)
			}
		}
	}
	return nil
}

func unary(s model.Series, period int, name string, fn func([]float64, int) ([]float64, error)) (model.Series, error) {
	v, err := fn(s.Values, period)
	if err != nil {
		return model.Series{}, err
	}
	return named(s, name, v), nil
}

func named(src model.Series, name string, values []float64) model.Series {
	times := make([]time.Time, len(src.Times))
	copy(times, src.Times)
	return model.Series{Name: name, Times: times, Values: values}
}

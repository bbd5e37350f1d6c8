package calculator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for a non-positive period, an empty series or
// columns that do not share one time index.
var ErrInvalidInput = errors.New("invalid input")

func checkPeriod(name string, period int) error {
	if period < 1 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidInput, name, period)
	}
	return nil
}

func checkSeries(values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: empty series", ErrInvalidInput)
	}
	return nil
}

// checkAligned verifies that all columns are non-empty and of equal length.
func checkAligned(columns ...[]float64) error {
	for i, c := range columns {
		if len(c) == 0 {
			return fmt.Errorf("%w: column %d is empty", ErrInvalidInput, i)
		}
		if len(c) != len(columns[0]) {
			return fmt.Errorf("%w: column %d has %d values, want %d", ErrInvalidInput, i, len(c), len(columns[0]))
		}
	}
	return nil
}

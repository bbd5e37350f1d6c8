package model

import (
	"math"
	"time"
)

// Series is an ordered sequence of values sharing a time index.
// Undefined positions (warm-up, zero denominators) hold NaN.
type Series struct {
	Name   string
	Times  []time.Time
	Values []float64
}

func (s Series) Len() int { return len(s.Values) }

// Defined returns the number of non-NaN values.
func (s Series) Defined() int {
	n := 0
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Last returns the most recent defined value and its timestamp.
func (s Series) Last() (time.Time, float64, bool) {
	for i := len(s.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(s.Values[i]) {
			var ts time.Time
			if i < len(s.Times) {
				ts = s.Times[i]
			}
			return ts, s.Values[i], true
		}
	}
	return time.Time{}, math.NaN(), false
}

// FirstDefined returns the index of the first defined value, or -1.
func (s Series) FirstDefined() int {
	for i, v := range s.Values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// Slice returns the suffix starting at index from, sharing no storage with s.
func (s Series) Slice(from int) Series {
	if from < 0 {
		from = 0
	}
	if from > len(s.Values) {
		from = len(s.Values)
	}
	out := Series{Name: s.Name, Values: append([]float64(nil), s.Values[from:]...)}
	if from <= len(s.Times) {
		out.Times = append([]time.Time(nil), s.Times[from:]...)
	}
	return out
}

// TrimWarmup drops the leading undefined span.
func (s Series) TrimWarmup() Series {
	i := s.FirstDefined()
	if i < 0 {
		return s.Slice(len(s.Values))
	}
	return s.Slice(i)
}

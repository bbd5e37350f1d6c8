package model

import (
	"math"
	"sort"
	"time"
)

// OHLCV represents a single candlestick bar. Missing provider values are NaN.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Complete reports whether every field of the bar carries a finite value.
func (b OHLCV) Complete() bool {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return !b.Time.IsZero()
}

// Column names accepted by Table.Column.
const (
	ColumnOpen   = "Open"
	ColumnHigh   = "High"
	ColumnLow    = "Low"
	ColumnClose  = "Close"
	ColumnVolume = "Volume"
)

// Table holds the OHLCV bars of one symbol for one analysis session.
// All five columns share the same time index; the table is not modified after NewTable.
type Table struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// NewTable sorts bars chronologically, keeps the first bar for a repeated
// timestamp and drops every bar with a missing field.
func NewTable(symbol string, bars []OHLCV) *Table {
	sorted := make([]OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	clean := make([]OHLCV, 0, len(sorted))
	for _, b := range sorted {
		if !b.Complete() {
			continue
		}
		if n := len(clean); n > 0 && clean[n-1].Time.Equal(b.Time) {
			continue
		}
		clean = append(clean, b)
	}
	return &Table{Symbol: symbol, Bars: clean, FetchedAt: time.Now()}
}

func (t *Table) Len() int    { return len(t.Bars) }
func (t *Table) Empty() bool { return len(t.Bars) == 0 }

// Times returns a copy of the shared time index.
func (t *Table) Times() []time.Time {
	ts := make([]time.Time, len(t.Bars))
	for i, b := range t.Bars {
		ts[i] = b.Time
	}
	return ts
}

func (t *Table) Opens() []float64   { return t.extract(func(b OHLCV) float64 { return b.Open }) }
func (t *Table) Highs() []float64   { return t.extract(func(b OHLCV) float64 { return b.High }) }
func (t *Table) Lows() []float64    { return t.extract(func(b OHLCV) float64 { return b.Low }) }
func (t *Table) Closes() []float64  { return t.extract(func(b OHLCV) float64 { return b.Close }) }
func (t *Table) Volumes() []float64 { return t.extract(func(b OHLCV) float64 { return b.Volume }) }

// Column returns the named column as a Series. ok is false for an unknown name.
func (t *Table) Column(name string) (s Series, ok bool) {
	var values []float64
	switch name {
	case ColumnOpen:
		values = t.Opens()
	case ColumnHigh:
		values = t.Highs()
	case ColumnLow:
		values = t.Lows()
	case ColumnClose:
		values = t.Closes()
	case ColumnVolume:
		values = t.Volumes()
	default:
		return Series{}, false
	}
	return Series{Name: name, Times: t.Times(), Values: values}, true
}

// First and Last return the bounds of the time index. Both are zero for an empty table.
func (t *Table) First() time.Time {
	if t.Empty() {
		return time.Time{}
	}
	return t.Bars[0].Time
}

func (t *Table) Last() time.Time {
	if t.Empty() {
		return time.Time{}
	}
	return t.Bars[len(t.Bars)-1].Time
}

func (t *Table) extract(field func(OHLCV) float64) []float64 {
	out := make([]float64, len(t.Bars))
	for i, b := range t.Bars {
		out[i] = field(b)
	}
	return out
}

package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/collector"
	"QuantResearch/internal/model"
)

// Reading is the latest defined value of one derived series.
type Reading struct {
	Name  string
	Time  time.Time
	Value float64
}

// Summary condenses an analysis into the figures shown in text reports.
type Summary struct {
	Symbol     string
	From       time.Time
	To         time.Time
	Rows       int
	LastClose  float64
	ChangePct  float64
	PeriodHigh float64
	PeriodLow  float64
	Position   float64 // 0 at the period low, 1 at the high
	Readings   []Reading
}

// Summarize extracts the latest close, the period change and range, and the
// last defined value of every enabled indicator.
func Summarize(state ViewState, a *model.Analysis) (Summary, error) {
	if a == nil || a.Table == nil || a.Table.Empty() {
		return Summary{}, fmt.Errorf("%w for %s", collector.ErrNoData, state.Symbol)
	}
	t := a.Table
	closes := t.Closes()
	hi, lo, err := calculator.HighLow(t.Highs(), t.Lows(), 0)
	if err != nil {
		return Summary{}, fmt.Errorf("period range: %w", err)
	}

	last := closes[len(closes)-1]
	s := Summary{
		Symbol:     t.Symbol,
		From:       t.First(),
		To:         t.Last(),
		Rows:       t.Len(),
		LastClose:  last,
		PeriodHigh: hi,
		PeriodLow:  lo,
		Position:   calculator.RangePosition(last, hi, lo),
	}
	if first := closes[0]; first != 0 {
		s.ChangePct = (last - first) / first * 100
	}

	for _, key := range state.Indicators() {
		series, err := required(a, key)
		if err != nil {
			return Summary{}, err
		}
		for _, sr := range series {
			ts, v, ok := sr.Last()
			if !ok {
				s.Readings = append(s.Readings, Reading{Name: sr.Name, Value: math.NaN()})
				continue
			}
			s.Readings = append(s.Readings, Reading{Name: sr.Name, Time: ts, Value: v})
		}
	}
	return s, nil
}

// FormatReport renders a summary as plain text for the terminal.
func FormatReport(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s → %s  (%d bars)\n", s.Symbol, s.From.Format("2006-01-02"), s.To.Format("2006-01-02"), s.Rows)
	fmt.Fprintf(&b, "Close   %.2f (%+.2f%%)\n", s.LastClose, s.ChangePct)
	fmt.Fprintf(&b, "Range   %.2f – %.2f (at %.0f%%)\n", s.PeriodLow, s.PeriodHigh, s.Position*100)
	if len(s.Readings) == 0 {
		return b.String()
	}
	b.WriteString("\n")
	for _, r := range s.Readings {
		fmt.Fprintf(&b, "%-16s %s\n", r.Name, FormatValue(r.Value))
	}
	return b.String()
}

// FormatValue prints an indicator value, or "n/a" while it is still warming up.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

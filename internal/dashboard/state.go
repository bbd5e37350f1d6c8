// Package dashboard turns an analysis into chart and text descriptions.
// The view state is a plain value: every change returns a new ViewState and
// Render is recomputed from it.
package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/collector"
	"QuantResearch/internal/model"
)

// ErrNoSymbol is returned when a session is requested without a ticker.
var ErrNoSymbol = errors.New("please enter a ticker symbol")

// RangePreset is one of the quick time-range buttons.
type RangePreset struct {
	Label string
	Days  int
}

// RangePresets lists the quick ranges, longest first.
var RangePresets = []RangePreset{
	{"5Y", 1825}, {"3Y", 1095}, {"1Y", 365}, {"9M", 270}, {"6M", 180}, {"3M", 90}, {"1M", 30},
}

// DefaultRangeDays is the range selected when no dates are given.
const DefaultRangeDays = 365

// ViewState selects what the dashboard shows. The zero value shows nothing.
type ViewState struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Weekly bool

	enabled map[string]bool
}

// NewViewState returns a state for symbol covering the default range ending at now.
func NewViewState(symbol string, now time.Time) ViewState {
	end := truncateDay(now)
	return ViewState{
		Symbol: normalizeSymbol(symbol),
		Start:  end.AddDate(0, 0, -DefaultRangeDays),
		End:    end,
	}
}

// Enabled reports whether the indicator is switched on.
func (v ViewState) Enabled(key string) bool { return v.enabled[key] }

// Overlays returns the enabled overlay indicators in display order.
func (v ViewState) Overlays() []string { return v.filter(model.OverlayIndicators) }

// Panels returns the enabled panel indicators in display order.
func (v ViewState) Panels() []string { return v.filter(model.PanelIndicators) }

// Indicators returns every enabled indicator, overlays first.
func (v ViewState) Indicators() []string { return append(v.Overlays(), v.Panels()...) }

// Toggle flips one indicator.
func (v ViewState) Toggle(key string) (ViewState, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if !model.IsIndicator(key) {
		return v, fmt.Errorf("%w: unknown indicator %q", calculator.ErrInvalidInput, key)
	}
	return v.set(key, !v.enabled[key]), nil
}

// WithIndicators switches on exactly the given indicators.
func (v ViewState) WithIndicators(keys ...string) (ViewState, error) {
	out := v
	out.enabled = nil
	for _, k := range keys {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if !model.IsIndicator(k) {
			return v, fmt.Errorf("%w: unknown indicator %q", calculator.ErrInvalidInput, k)
		}
		out = out.set(k, true)
	}
	return out, nil
}

// WithSymbol changes the ticker.
func (v ViewState) WithSymbol(symbol string) (ViewState, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return v, ErrNoSymbol
	}
	v.Symbol = symbol
	return v, nil
}

// PresetDays returns the length of a range preset such as "6M".
func PresetDays(label string) (int, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for _, p := range RangePresets {
		if p.Label == label {
			return p.Days, true
		}
	}
	return 0, false
}

// WithRange selects a preset range ending today.
func (v ViewState) WithRange(label string, now time.Time) (ViewState, error) {
	days, ok := PresetDays(label)
	if !ok {
		return v, fmt.Errorf("%w: unknown range %q", calculator.ErrInvalidInput, label)
	}
	return v.WithDays(days, now), nil
}

// WithDays selects the last days calendar days ending at now.
func (v ViewState) WithDays(days int, now time.Time) ViewState {
	v.End = truncateDay(now)
	v.Start = v.End.AddDate(0, 0, -days)
	return v
}

// WithDates selects an explicit range.
func (v ViewState) WithDates(start, end time.Time) (ViewState, error) {
	if !start.Before(end) {
		return v, fmt.Errorf("%w: start date must be before end date", calculator.ErrInvalidInput)
	}
	v.Start, v.End = start, end
	return v, nil
}

// WithWeekly switches between daily and weekly bars.
func (v ViewState) WithWeekly(weekly bool) ViewState {
	v.Weekly = weekly
	return v
}

// Request builds the collector request for this state.
func (v ViewState) Request() (collector.Request, error) {
	if v.Symbol == "" {
		return collector.Request{}, ErrNoSymbol
	}
	return collector.Request{
		Symbol:     v.Symbol,
		Start:      v.Start,
		End:        v.End,
		Weekly:     v.Weekly,
		Indicators: v.Indicators(),
	}, nil
}

// String renders the toggles as ON/OFF pairs.
func (v ViewState) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s → %s", v.Symbol, v.Start.Format("2006-01-02"), v.End.Format("2006-01-02"))
	if v.Weekly {
		b.WriteString(" (weekly)")
	}
	for _, k := range append(append([]string{}, model.OverlayIndicators...), model.PanelIndicators...) {
		state := "OFF"
		if v.enabled[k] {
			state = "ON"
		}
		fmt.Fprintf(&b, "\n%-6s %s", k, state)
	}
	return b.String()
}

func (v ViewState) set(key string, on bool) ViewState {
	enabled := make(map[string]bool, len(v.enabled)+1)
	for k, val := range v.enabled {
		enabled[k] = val
	}
	if on {
		enabled[key] = true
	} else {
		delete(enabled, key)
	}
	v.enabled = enabled
	return v
}

func (v ViewState) filter(keys []string) []string {
	var out []string
	for _, k := range keys {
		if v.enabled[k] {
			out = append(out, k)
		}
	}
	return out
}

func normalizeSymbol(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

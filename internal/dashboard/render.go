package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"QuantResearch/internal/collector"
	"QuantResearch/internal/model"
)

// Palette
const (
	colorUp      = "#00ff00"
	colorDown    = "#ff0000"
	colorSMA     = "#00aaff"
	colorEMA     = "#ff9500"
	colorDEMA    = "#af52de"
	colorTEMA    = "#ffcc00"
	colorBand    = "#ff4444"
	colorBandMid = "#ffa500"
	colorRVWAP   = "#00ff88"
	colorRSI     = "#af52de"
	colorPos     = "#00ff88"
	colorNeg     = "#ff4444"
	colorGuide   = "#ffffff"
)

// Layout is the sub-chart grid: the price chart spans the first row and
// panels share the second.
type Layout struct {
	Rows         int   `json:"rows"`
	Cols         int   `json:"cols"`
	HeightRatios []int `json:"height_ratios"`
}

// Point is one plotted value. Gap marks an undefined value; Y is then zero.
type Point struct {
	X   int     `json:"x"`
	Y   float64 `json:"y"`
	Gap bool    `json:"gap,omitempty"`
}

type Line struct {
	Label  string  `json:"label"`
	Color  string  `json:"color"`
	Style  string  `json:"style"`
	Points []Point `json:"points"`
}

// Bar is one histogram bar coloured by sign.
type Bar struct {
	Point
	Color string `json:"color"`
}

type Candle struct {
	X     int     `json:"x"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
	Color string  `json:"color"`
}

// Guide is a horizontal reference line.
type Guide struct {
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

type Tick struct {
	X     int    `json:"x"`
	Label string `json:"label"`
}

// Chart is one sub-chart of the frame.
type Chart struct {
	Title   string   `json:"title"`
	YLabel  string   `json:"y_label"`
	YMin    *float64 `json:"y_min,omitempty"`
	YMax    *float64 `json:"y_max,omitempty"`
	Candles []Candle `json:"candles,omitempty"`
	Lines   []Line   `json:"lines,omitempty"`
	Bars    []Bar    `json:"bars,omitempty"`
	Guides  []Guide  `json:"guides,omitempty"`
	Ticks   []Tick   `json:"ticks"`
}

// Frame is everything a plotting layer needs to draw one view.
type Frame struct {
	Symbol string  `json:"symbol"`
	Layout Layout  `json:"layout"`
	Main   Chart   `json:"main"`
	Panels []Chart `json:"panels,omitempty"`
}

// Render builds the frame for state from an analysis computed for it.
func Render(state ViewState, a *model.Analysis) (Frame, error) {
	if a == nil || a.Table == nil || a.Table.Empty() {
		return Frame{}, fmt.Errorf("%w for %s", collector.ErrNoData, state.Symbol)
	}
	times := a.Table.Times()
	panels := state.Panels()

	main := Chart{
		Title:   fmt.Sprintf("%s - Price Chart", a.Table.Symbol),
		YLabel:  "Price ($)",
		Candles: candles(a.Table),
		Ticks:   ticks(times, 10, "2006-01-02"),
	}
	for _, key := range state.Overlays() {
		series, err := required(a, key)
		if err != nil {
			return Frame{}, err
		}
		main.Lines = append(main.Lines, overlayLines(key, series)...)
	}

	f := Frame{Symbol: a.Table.Symbol, Layout: layoutFor(len(panels)), Main: main}
	for _, key := range panels {
		series, err := required(a, key)
		if err != nil {
			return Frame{}, err
		}
		chart := panelChart(key, series)
		chart.Ticks = ticks(times, 5, "01-02")
		f.Panels = append(f.Panels, chart)
	}
	return f, nil
}

func layoutFor(panels int) Layout {
	if panels == 0 {
		return Layout{Rows: 1, Cols: 1, HeightRatios: []int{1}}
	}
	return Layout{Rows: 2, Cols: panels, HeightRatios: []int{3, 1}}
}

func required(a *model.Analysis, key string) ([]model.Series, error) {
	series := a.Series(key)
	if len(series) == 0 {
		return nil, fmt.Errorf("indicator %s was not computed for this view", key)
	}
	return series, nil
}

func candles(t *model.Table) []Candle {
	out := make([]Candle, len(t.Bars))
	for i, b := range t.Bars {
		color := colorUp
		if b.Close < b.Open {
			color = colorDown
		}
		out[i] = Candle{X: i, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Color: color}
	}
	return out
}

func overlayLines(key string, series []model.Series) []Line {
	switch key {
	case model.IndicatorSMA:
		return []Line{line(series[0], colorSMA, "--")}
	case model.IndicatorEMA:
		return []Line{line(series[0], colorEMA, "--")}
	case model.IndicatorDEMA:
		return []Line{line(series[0], colorDEMA, "-.")}
	case model.IndicatorTEMA:
		return []Line{line(series[0], colorTEMA, "-.")}
	case model.IndicatorBB:
		return []Line{
			line(series[0], colorBand, "--"),
			line(series[1], colorBandMid, "-"),
			line(series[2], colorBand, "--"),
		}
	case model.IndicatorRVWAP:
		return []Line{line(series[0], colorRVWAP, "-")}
	}
	return nil
}

func panelChart(key string, series []model.Series) Chart {
	switch key {
	case model.IndicatorRSI:
		lo, hi := 0.0, 100.0
		return Chart{
			Title:  title(series[0].Name),
			YLabel: "RSI",
			YMin:   &lo,
			YMax:   &hi,
			Lines:  []Line{line(series[0], colorRSI, "-")},
			Guides: []Guide{{Y: 70, Color: colorNeg}, {Y: 30, Color: colorPos}},
		}
	case model.IndicatorMACD:
		return Chart{
			Title:  "MACD",
			YLabel: "Value",
			Lines:  []Line{line(series[0], colorSMA, "-"), line(series[1], colorEMA, "-")},
			Bars:   histogram(series[2]),
			Guides: []Guide{{Y: 0, Color: colorGuide}},
		}
	case model.IndicatorATR:
		return Chart{
			Title:  title(series[0].Name),
			YLabel: "ATR",
			Lines:  []Line{line(series[0], colorEMA, "-")},
		}
	}
	return Chart{Title: key}
}

func line(s model.Series, color, style string) Line {
	return Line{Label: s.Name, Color: color, Style: style, Points: points(s.Values)}
}

func points(values []float64) []Point {
	out := make([]Point, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = Point{X: i, Gap: true}
			continue
		}
		out[i] = Point{X: i, Y: v}
	}
	return out
}

func histogram(s model.Series) []Bar {
	pts := points(s.Values)
	out := make([]Bar, len(pts))
	for i, p := range pts {
		color := colorPos
		if p.Y < 0 {
			color = colorNeg
		}
		out[i] = Bar{Point: p, Color: color}
	}
	return out
}

// ticks labels every step-th bar so that about n labels are shown.
func ticks(times []time.Time, n int, layout string) []Tick {
	step := len(times) / n
	if step < 1 {
		step = 1
	}
	out := make([]Tick, 0, len(times)/step+1)
	for i := 0; i < len(times); i += step {
		out = append(out, Tick{X: i, Label: times[i].Format(layout)})
	}
	return out
}

// title turns "RSI(14)" into "RSI (14)".
func title(name string) string {
	return strings.Replace(name, "(", " (", 1)
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/model"

	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when the data source has no bars for the requested symbol and range.
var ErrNoData = errors.New("no data found")

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _ string, start, end time.Time) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return m.Bars, nil
	}
	return generateMockBars(m.Price, start, end), nil
}

// generateMockBars produces one weekday bar per day in [start, end) following a slow sine wave.
func generateMockBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/10))
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}

// Params holds the indicator parameters of a session.
type Params struct {
	MAPeriod    int
	RSIPeriod   int
	BBPeriod    int
	BBK         float64
	MACDShort   int
	MACDLong    int
	MACDSignal  int
	ATRPeriod   int
	RVWAPPeriod int
}

// DefaultParams returns the dashboard defaults: 20-bar moving averages, RSI/ATR 14,
// Bollinger 20×2, MACD 12/26/9 and a 20-bar rolling VWAP.
func DefaultParams() Params {
	return Params{
		MAPeriod:    20,
		RSIPeriod:   calculator.DefaultRSIPeriod,
		BBPeriod:    calculator.DefaultBollingerPeriod,
		BBK:         calculator.DefaultBollingerK,
		MACDShort:   calculator.DefaultMACDShort,
		MACDLong:    calculator.DefaultMACDLong,
		MACDSignal:  calculator.DefaultMACDSignal,
		ATRPeriod:   calculator.DefaultATRPeriod,
		RVWAPPeriod: calculator.DefaultRVWAPPeriod,
	}
}

// Request describes one analysis session.
type Request struct {
	Symbol     string
	Start      time.Time
	End        time.Time
	Weekly     bool
	Indicators []string
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Params  Params
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, params Params) *Collector {
	return &Collector{Fetcher: fetcher, Params: params}
}

// Collect fetches the table once and computes every requested indicator over it.
// Indicators are independent and computed concurrently; the table is only read.
func (c *Collector) Collect(ctx context.Context, req Request) (*model.Analysis, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", calculator.ErrInvalidInput)
	}
	if !req.Start.Before(req.End) {
		return nil, fmt.Errorf("%w: start %s is not before end %s", calculator.ErrInvalidInput,
			req.Start.Format("2006-01-02"), req.End.Format("2006-01-02"))
	}
	for _, key := range req.Indicators {
		if !model.IsIndicator(key) {
			return nil, fmt.Errorf("%w: unknown indicator %q", calculator.ErrInvalidInput, key)
		}
	}

	bars, err := c.Fetcher.FetchBars(ctx, req.Symbol, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	table := model.NewTable(req.Symbol, bars)
	if req.Weekly {
		table = model.NewTable(req.Symbol, aggregateDailyToWeekly(table.Bars))
	}
	if table.Empty() {
		return nil, fmt.Errorf("%w for %s", ErrNoData, req.Symbol)
	}
	log.Printf("[INFO] fetched %d bars for %s from %s (%s to %s)", table.Len(), req.Symbol, c.Fetcher.Name(),
		table.First().Format("2006-01-02"), table.Last().Format("2006-01-02"))

	results := make([][]model.Series, len(req.Indicators))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range req.Indicators {
		g.Go(func() error {
			// Skip the remaining work once the caller gives up or another indicator failed.
			if err := gctx.Err(); err != nil {
				return err
			}
			series, err := c.compute(table, key)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			results[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := &model.Analysis{Table: table, Indicators: make(map[string][]model.Series, len(req.Indicators))}
	for i, key := range req.Indicators {
		analysis.Indicators[key] = results[i]
	}
	return analysis, nil
}

func (c *Collector) compute(table *model.Table, key string) ([]model.Series, error) {
	closes, _ := table.Column(model.ColumnClose)
	p := c.Params

	switch key {
	case model.IndicatorSMA:
		return one(calculator.SeriesSMA(closes, p.MAPeriod))
	case model.IndicatorEMA:
		return one(calculator.SeriesEMA(closes, p.MAPeriod))
	case model.IndicatorDEMA:
		return one(calculator.SeriesDEMA(closes, p.MAPeriod))
	case model.IndicatorTEMA:
		return one(calculator.SeriesTEMA(closes, p.MAPeriod))
	case model.IndicatorRSI:
		return one(calculator.SeriesRSI(closes, p.RSIPeriod))
	case model.IndicatorBB:
		bands, err := calculator.SeriesBollinger(closes, p.BBPeriod, p.BBK)
		return bands[:], err
	case model.IndicatorMACD:
		m, err := calculator.SeriesMACD(closes, p.MACDShort, p.MACDLong, p.MACDSignal)
		return m[:], err
	case model.IndicatorATR:
		high, _ := table.Column(model.ColumnHigh)
		low, _ := table.Column(model.ColumnLow)
		return one(calculator.SeriesATR(high, low, closes, p.ATRPeriod))
	case model.IndicatorRVWAP:
		high, _ := table.Column(model.ColumnHigh)
		low, _ := table.Column(model.ColumnLow)
		volume, _ := table.Column(model.ColumnVolume)
		return one(calculator.SeriesRVWAP(high, low, closes, volume, p.RVWAPPeriod))
	}
	return nil, fmt.Errorf("%w: unknown indicator %q", calculator.ErrInvalidInput, key)
}

func one(s model.Series, err error) ([]model.Series, error) {
	if err != nil {
		return nil, err
	}
	return []model.Series{s}, nil
}

package model

// Indicator keys understood by the collector and the dashboard.
const (
	IndicatorSMA   = "SMA"
	IndicatorEMA   = "EMA"
	IndicatorDEMA  = "DEMA"
	IndicatorTEMA  = "TEMA"
	IndicatorBB    = "BB"
	IndicatorRVWAP = "RVWAP"
	IndicatorMACD  = "MACD"
	IndicatorATR   = "ATR"
	IndicatorRSI   = "RSI"
)

// OverlayIndicators are drawn over the candles; PanelIndicators get their own sub-chart.
var (
	OverlayIndicators = []string{IndicatorSMA, IndicatorEMA, IndicatorDEMA, IndicatorTEMA, IndicatorBB, IndicatorRVWAP}
	PanelIndicators   = []string{IndicatorMACD, IndicatorATR, IndicatorRSI}
)

// IsIndicator reports whether key names a known indicator.
func IsIndicator(key string) bool {
	for _, k := range OverlayIndicators {
		if k == key {
			return true
		}
	}
	for _, k := range PanelIndicators {
		if k == key {
			return true
		}
	}
	return false
}

// Analysis is the result of one analysis session: the fetched table and the
// derived series of every computed indicator, keyed by indicator.
type Analysis struct {
	Table      *Table
	Indicators map[string][]Series
}

// Series returns the derived series of one indicator.
func (a *Analysis) Series(key string) []Series {
	if a == nil || a.Indicators == nil {
		return nil
	}
	return a.Indicators[key]
}

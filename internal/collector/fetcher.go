package collector

import (
	"context"
	"time"

	"QuantResearch/internal/model"
)

// Fetcher defines the interface for fetching market data.
// A symbol or range without data yields an empty slice and a nil error.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

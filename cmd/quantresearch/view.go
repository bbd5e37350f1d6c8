package main

import (
	"fmt"
	"log"
	"time"

	"QuantResearch/internal/calculator"
	"QuantResearch/internal/config"
	"QuantResearch/internal/dashboard"
	"QuantResearch/internal/viewstore"
)

// initialState builds the starting view from config and flags. rollDays is
// how far back the range reaches when the service rolls it forward: the
// preset length for -range, 0 for explicit -start dates, the configured
// range otherwise.
func initialState(cfg *config.Config, preset, start, end string, now time.Time) (dashboard.ViewState, int, error) {
	rollDays := cfg.Dashboard.RangeDays
	state := dashboard.NewViewState(cfg.Dashboard.Symbol, now).
		WithDays(rollDays, now).
		WithWeekly(cfg.Dashboard.Weekly)
	if state.Symbol == "" {
		return state, 0, dashboard.ErrNoSymbol
	}

	state, err := state.WithIndicators(cfg.IndicatorKeys()...)
	if err != nil {
		return state, 0, err
	}
	if preset != "" {
		if state, err = state.WithRange(preset, now); err != nil {
			return state, 0, err
		}
		rollDays, _ = dashboard.PresetDays(preset)
	}
	if start == "" {
		return state, rollDays, nil
	}

	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return state, 0, fmt.Errorf("%w: start date: %v", calculator.ErrInvalidInput, err)
	}
	to := state.End
	if end != "" {
		if to, err = time.Parse("2006-01-02", end); err != nil {
			return state, 0, fmt.Errorf("%w: end date: %v", calculator.ErrInvalidInput, err)
		}
	}
	state, err = state.WithDates(from, to)
	return state, 0, err
}

// restoreView picks between the saved view and the one built from flags.
// Explicit view flags win over the saved view.
func restoreView(snap *viewstore.Snapshot, state dashboard.ViewState, rollDays int, viewFlags bool) (dashboard.ViewState, int) {
	if snap == nil {
		return state, rollDays
	}
	if viewFlags {
		log.Printf("[INFO] view flags given, ignoring saved view for %s", snap.Symbol)
		return state, rollDays
	}
	restored, err := snap.View()
	if err != nil {
		log.Printf("[WARN] restore view state: %v", err)
		return state, rollDays
	}
	log.Printf("[INFO] restored view for %s", restored.Symbol)
	return restored, snap.RollDays
}

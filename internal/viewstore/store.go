// Package viewstore persists the service's dashboard view between restarts.
package viewstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"QuantResearch/internal/dashboard"
)

// Snapshot is the on-disk form of a view state.
type Snapshot struct {
	Symbol     string    `json:"symbol"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Weekly     bool      `json:"weekly"`
	Indicators []string  `json:"indicators"`
	RollDays   int       `json:"roll_days"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromView captures v. rollDays is 0 for a fixed date range.
func FromView(v dashboard.ViewState, rollDays int) *Snapshot {
	return &Snapshot{
		Symbol:     v.Symbol,
		Start:      v.Start,
		End:        v.End,
		Weekly:     v.Weekly,
		Indicators: v.Indicators(),
		RollDays:   rollDays,
	}
}

// View rebuilds the view state.
func (s *Snapshot) View() (dashboard.ViewState, error) {
	v := dashboard.ViewState{Symbol: s.Symbol, Weekly: s.Weekly}
	v, err := v.WithDates(s.Start, s.End)
	if err != nil {
		return v, err
	}
	return v.WithIndicators(s.Indicators...)
}

// Load reads a snapshot from a JSON file. Returns nil if the file doesn't exist.
func Load(filePath string) (*Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	return &snap, nil
}

// Save writes the snapshot to a JSON file, replacing it atomically.
func Save(filePath string, snap *Snapshot) error {
	snap.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}

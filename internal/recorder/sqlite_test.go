package recorder

import (
	"math"
	"path/filepath"
	"testing"
	"time"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRecordSession_RoundTrip(t *testing.T) {
	r := openTestRecorder(t)
	start := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	for i, sym := range []string{"AAPL", "MSFT"} {
		err := r.RecordSession(&SessionRecord{
			RecordedAt: end.Add(time.Duration(i) * time.Hour),
			Symbol:     sym,
			Start:      start,
			End:        end,
			Indicators: []string{"SMA", "RSI"},
			Rows:       251,
			LastClose:  190.5,
			ChangePct:  4.2,
			Values:     map[string]float64{"SMA(20)": 188.1, "RSI(14)": math.NaN()},
			Trigger:    "cron",
			Duration:   1500 * time.Millisecond,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.RecentSessions(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Symbol != "MSFT" {
		t.Fatalf("sessions = %+v", got)
	}
	s := got[1]
	if !s.Start.Equal(start) || !s.End.Equal(end) || s.Rows != 251 || s.Trigger != "cron" {
		t.Errorf("session = %+v", s)
	}
	if len(s.Indicators) != 2 || s.Indicators[1] != "RSI" {
		t.Errorf("indicators = %v", s.Indicators)
	}
	if s.Values["SMA(20)"] != 188.1 {
		t.Errorf("values = %v", s.Values)
	}
	if _, ok := s.Values["RSI(14)"]; ok {
		t.Error("NaN reading should not be stored")
	}
	if s.Duration != 1500*time.Millisecond {
		t.Errorf("duration = %v", s.Duration)
	}
}

func TestRecordFailure(t *testing.T) {
	r := openTestRecorder(t)
	if err := r.RecordFailure(&FailureRecord{Symbol: "ZZZZ", Stage: "collect", Error: "no data found", Trigger: "command"}); err != nil {
		t.Fatal(err)
	}
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM session_failures WHERE stage = 'collect'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("failures = %d, want 1", n)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	r := openTestRecorder(t)
	if err := r.migrate(); err != nil {
		t.Errorf("second migrate: %v", err)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordSession(&SessionRecord{}); err != nil {
		t.Error(err)
	}
	if got, err := r.RecentSessions(3); got != nil || err != nil {
		t.Errorf("RecentSessions = %v, %v", got, err)
	}
}

package recorder

import "time"

// SessionRecord holds the outcome of one successful analysis session.
type SessionRecord struct {
	RecordedAt time.Time
	Symbol     string
	Start      time.Time
	End        time.Time
	Weekly     bool
	Indicators []string
	Rows       int
	LastClose  float64
	ChangePct  float64
	Values     map[string]float64 // latest defined value per derived series
	Trigger    string             // "cli", "cron" or "command"
	Duration   time.Duration
}

// FailureRecord holds a session that ended in an error.
type FailureRecord struct {
	RecordedAt time.Time
	Symbol     string
	Start      time.Time
	End        time.Time
	Stage      string // "collect", "render" or "notify"
	Error      string
	Trigger    string
}

// Recorder persists the session history of the service.
type Recorder interface {
	RecordSession(rec *SessionRecord) error
	RecordFailure(rec *FailureRecord) error
	RecentSessions(limit int) ([]SessionRecord, error)
	Close() error
}

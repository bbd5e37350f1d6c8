package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSession(_ *SessionRecord) error          { return nil }
func (n *NoopRecorder) RecordFailure(_ *FailureRecord) error          { return nil }
func (n *NoopRecorder) RecentSessions(_ int) ([]SessionRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                  { return nil }

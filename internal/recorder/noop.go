package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBuild(_ *BuildRecord) error           { return nil }
func (n *NoopRecorder) RecentBuilds(_ int) ([]BuildSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                               { return nil }

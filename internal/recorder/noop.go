package recorder

import "DoubleDown/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error                 { return nil }
func (n *NoopRecorder) RecordPoints(_ string, _ []model.Point) error { return nil }
func (n *NoopRecorder) ListRuns(_ int) ([]RunRecord, error)          { return nil, nil }
func (n *NoopRecorder) Points(_ string) ([]model.Point, error)       { return nil, nil }
func (n *NoopRecorder) Close() error                                 { return nil }

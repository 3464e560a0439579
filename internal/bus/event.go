package bus

import "time"

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Event kinds published by the conversion pipeline and the daemon.
const (
	KindConvertStarted  = "convert.started"
	KindConvertParsed   = "convert.parsed"
	KindMergeCompleted  = "merge.completed"
	KindRenderCompleted = "render.completed"
	KindDaemonState     = "daemon.state_changed"
	KindDaemonProcessed = "daemon.export_processed"
	KindDaemonFailed    = "daemon.export_failed"
)

// MergeResult is the payload for merge.completed events.
type MergeResult struct {
	Dataset  string
	Added    int
	Total    int
	IsUpdate bool
}

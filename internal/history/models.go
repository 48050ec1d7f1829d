package history

import "time"

const SchemaVersion = 1

// RunSnapshot is one persisted audit run: the counts a trend view needs,
// nothing row-level.
type RunSnapshot struct {
	RunID            string
	Timestamp        time.Time
	Workspace        string
	Dialect          string
	DeclarationCount int
	ReferenceCount   int
	ZeroUsageCount   int
	DurationMS       int64
	ReportPath       string
}

package ingest

// Pipeline stages for one instrument run. Every stage can fall through to
// StageFailed; StageDone and StageFailed are terminal.
const (
	StagePending     = "PENDING"
	StageExtracting  = "EXTRACTING"
	StageConverting  = "CONVERTING"
	StagePersisting  = "PERSISTING"
	StageAveraging   = "AVERAGING"
	StageDiscounting = "DISCOUNTING"
	StageDone        = "DONE"
	StageFailed      = "FAILED"
)

package model

import "time"

// IngestResult is the per-instrument outcome of one ingestion run.
type IngestResult struct {
	Instrument Instrument `json:"instrument"`
	Success    bool       `json:"success"`
	Stage      string     `json:"stage"`
	Message    string     `json:"message"`
	Timestamp  time.Time  `json:"timestamp"`
}

// IngestSummary is the combined outcome of one ingestAll invocation.
// Success is true only when every instrument ingested cleanly; the
// per-instrument results carry the individual failures.
type IngestSummary struct {
	RunID     string         `json:"run_id"`
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	Results   []IngestResult `json:"results"`
	Timestamp time.Time      `json:"timestamp"`
}

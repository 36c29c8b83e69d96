package ingest

import "fmt"

// AggregationError tags unexpected failures while computing the moving
// average window, e.g. the history read failing under the orchestrator.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failure: %v", e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

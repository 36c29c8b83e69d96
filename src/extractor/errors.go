package extractor

import (
	"fmt"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// ExtractionError covers every way a snapshot extraction can fail: source
// unreachable, quote response never arriving, unexpected payload shape, or
// no active contract in the payload.
type ExtractionError struct {
	Instrument model.Instrument
	Reason     string
	Err        error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction failed for %s: %s", e.Instrument, e.Reason)
	}
	return fmt.Sprintf("extraction failed for %s: %s: %v", e.Instrument, e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the OHLCV state of the active futures contract as captured
// from the source site. TradeDate comes from the quote payload itself, not
// from extraction wall-clock time.
type Snapshot struct {
	Instrument Instrument
	Contract   string
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	Volume     decimal.Decimal
	TradeDate  time.Time
}

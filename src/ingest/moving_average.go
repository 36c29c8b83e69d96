package ingest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// MovingAverage30 computes the arithmetic mean of the USD price over the
// most recent persisted records with trade_date <= asOf, at most
// MovingAverageWindow of them. Fewer records than the window means the
// mean of what exists; an empty history returns ok=false instead of a
// divide-by-zero. The average is always computed from persisted history,
// so the record ingested just before this call is part of its own window.
func (s *Service) MovingAverage30(
	ctx context.Context,
	instrument model.Instrument,
	asOf time.Time,
) (decimal.Decimal, bool, error) {
	rows, err := s.marketData.FetchRecent(ctx, instrument, asOf, MovingAverageWindow)
	if err != nil {
		return decimal.Zero, false, err
	}
	if len(rows) == 0 {
		return decimal.Zero, false, nil
	}

	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.USDPrice)
	}
	avg := sum.DivRound(decimal.NewFromInt(int64(len(rows))), 8)

	return avg, true, nil
}

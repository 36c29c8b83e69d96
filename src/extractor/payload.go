package extractor

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/utils"
)

// quotePayload mirrors the intercepted quotes API response. The schema is
// not under our control, so every field the pipeline depends on is treated
// as optional and validated before use.
type quotePayload struct {
	Data []contractQuote `json:"data"`
}

type contractQuote struct {
	Symbol    string   `json:"symbol"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
	TradeDate string   `json:"tradeDate"`
	IsActive  bool     `json:"isActive"`
}

var tradeDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseTradeDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range tradeDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return utils.DateOnly(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// parseQuotes selects the active contract from the captured payload and
// maps it to a snapshot. Kept free of browser plumbing so the selection and
// validation rules are testable on raw bytes.
func parseQuotes(body []byte, instrument model.Instrument) (*model.Snapshot, error) {
	var payload quotePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ExtractionError{Instrument: instrument, Reason: "decode quote payload", Err: err}
	}

	if len(payload.Data) == 0 {
		return nil, &ExtractionError{Instrument: instrument, Reason: "quote payload contains no contracts"}
	}

	var active *contractQuote
	for i := range payload.Data {
		if payload.Data[i].IsActive {
			active = &payload.Data[i]
			break
		}
	}
	if active == nil {
		return nil, &ExtractionError{Instrument: instrument, Reason: "no active contract in quote payload"}
	}

	if active.Open == nil || active.High == nil || active.Low == nil ||
		active.Close == nil || active.Volume == nil {
		return nil, &ExtractionError{Instrument: instrument, Reason: "active contract quote is missing price fields"}
	}
	if *active.Close <= 0 {
		return nil, &ExtractionError{Instrument: instrument, Reason: "active contract has a non-positive close price"}
	}
	if active.TradeDate == "" {
		return nil, &ExtractionError{Instrument: instrument, Reason: "active contract quote is missing its trade date"}
	}

	tradeDate, err := parseTradeDate(active.TradeDate)
	if err != nil {
		return nil, &ExtractionError{Instrument: instrument, Reason: "unparseable trade date in quote payload", Err: err}
	}

	return &model.Snapshot{
		Instrument: instrument,
		Contract:   active.Symbol,
		Open:       decimal.NewFromFloat(*active.Open),
		High:       decimal.NewFromFloat(*active.High),
		Low:        decimal.NewFromFloat(*active.Low),
		Close:      decimal.NewFromFloat(*active.Close),
		Volume:     decimal.NewFromFloat(*active.Volume),
		TradeDate:  tradeDate,
	}, nil
}

package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/discount"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/utils"
)

// SnapshotProvider extracts the active contract quote for an instrument.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, instrument model.Instrument) (*model.Snapshot, error)
}

// RateProvider supplies the USD→IDR rate. It degrades to a fallback
// internally and never fails.
type RateProvider interface {
	UsdToIdrRate(ctx context.Context) decimal.Decimal
}

// MarketDataStore is the durable store for daily market records.
type MarketDataStore interface {
	Upsert(ctx context.Context, md *model.MarketData) error
	UpdateMovingAverage(ctx context.Context, instrument model.Instrument, tradeDate time.Time, avg decimal.Decimal) error
	FetchRecent(ctx context.Context, instrument model.Instrument, to time.Time, limit int) ([]model.MarketData, error)
}

// DiscountSettingStore reads the externally managed discount rules.
type DiscountSettingStore interface {
	ListByInstrument(ctx context.Context, instrument model.Instrument) ([]model.MaDiscountSetting, error)
}

// DiscountValueStore persists derived discount values idempotently.
type DiscountValueStore interface {
	Replace(ctx context.Context, v *model.MaDiscountValue) error
}

// MovingAverageWindow is the number of trailing daily records averaged.
const MovingAverageWindow = 30

// Service orchestrates the per-instrument ingestion pipeline:
// extract → convert → upsert → average → update → discount values.
type Service struct {
	extractor  SnapshotProvider
	converter  RateProvider
	marketData MarketDataStore
	settings   DiscountSettingStore
	values     DiscountValueStore

	// runMu serializes overlapping triggers (scheduled run vs manual
	// trigger). Overlaps converge anyway through the keyed upserts, but a
	// single run lock keeps only one browser session active at a time.
	runMu sync.Mutex

	now func() time.Time
}

// NewService wires the pipeline from its collaborators.
func NewService(
	extractor SnapshotProvider,
	converter RateProvider,
	marketData MarketDataStore,
	settings DiscountSettingStore,
	values DiscountValueStore,
) *Service {
	return &Service{
		extractor:  extractor,
		converter:  converter,
		marketData: marketData,
		settings:   settings,
		values:     values,
		now:        time.Now,
	}
}

// Ingest runs the full pipeline for one instrument. Failures abort the run
// and come back as a tagged result; already-applied writes are not rolled
// back — the upsert keys make the next successful run self-correcting.
func (s *Service) Ingest(ctx context.Context, instrument model.Instrument) model.IngestResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	return s.ingestLocked(ctx, instrument)
}

// IngestAll ingests every instrument sequentially, isolating failures: a
// failed Robusta run never prevents the Arabica run from being attempted.
func (s *Service) IngestAll(ctx context.Context) model.IngestSummary {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	summary := model.IngestSummary{
		RunID:     uuid.NewString(),
		Success:   true,
		Timestamp: s.now().UTC(),
	}

	for _, instrument := range model.AllInstruments() {
		result := s.ingestLocked(ctx, instrument)
		summary.Results = append(summary.Results, result)
		if !result.Success {
			summary.Success = false
		}
	}

	if summary.Success {
		summary.Message = "all instruments ingested"
	} else {
		summary.Message = "one or more instruments failed to ingest"
	}

	logger.WithFields(map[string]interface{}{
		"component": "IngestService",
		"runID":     summary.RunID,
		"success":   summary.Success,
	}).Info("Combined ingestion run finished")

	return summary
}

func (s *Service) ingestLocked(ctx context.Context, instrument model.Instrument) model.IngestResult {
	stage := StagePending

	fail := func(err error) model.IngestResult {
		logger.WithFields(map[string]interface{}{
			"component":  "IngestService",
			"instrument": instrument,
			"stage":      stage,
		}).WithError(err).Error("Ingestion aborted")

		return model.IngestResult{
			Instrument: instrument,
			Success:    false,
			Stage:      stage,
			Message:    err.Error(),
			Timestamp:  s.now().UTC(),
		}
	}

	stage = StageExtracting
	snapshot, err := s.extractor.Snapshot(ctx, instrument)
	if err != nil {
		return fail(err)
	}

	stage = StageConverting
	rate := s.converter.UsdToIdrRate(ctx)

	stage = StagePersisting
	tradeDate := utils.DateOnly(snapshot.TradeDate)
	md := &model.MarketData{
		Instrument: instrument,
		TradeDate:  tradeDate,
		Open:       snapshot.Open,
		High:       snapshot.High,
		Low:        snapshot.Low,
		Close:      snapshot.Close,
		Volume:     snapshot.Volume,
		USDPrice:   snapshot.Close,
		IDRRate:    rate,
		IDRPrice:   snapshot.Close.Mul(rate),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.marketData.Upsert(ctx, md); err != nil {
		return fail(err)
	}

	stage = StageAveraging
	avg, ok, err := s.MovingAverage30(ctx, instrument, tradeDate)
	if err != nil {
		return fail(&AggregationError{Err: err})
	}
	if ok {
		if err := s.marketData.UpdateMovingAverage(ctx, instrument, tradeDate, avg); err != nil {
			return fail(err)
		}
		md.MovingAverage30 = decimal.NullDecimal{Decimal: avg, Valid: true}
	}

	stage = StageDiscounting
	settings, err := s.settings.ListByInstrument(ctx, instrument)
	if err != nil {
		return fail(err)
	}
	values := discount.GenerateValues(md, settings, s.now().UTC())
	for i := range values {
		if err := s.values.Replace(ctx, &values[i]); err != nil {
			return fail(err)
		}
	}

	stage = StageDone
	logger.WithFields(map[string]interface{}{
		"component":      "IngestService",
		"instrument":     instrument,
		"tradeDate":      tradeDate.Format("2006-01-02"),
		"close":          snapshot.Close,
		"idrRate":        rate,
		"discountValues": len(values),
	}).Info("Ingestion completed")

	return model.IngestResult{
		Instrument: instrument,
		Success:    true,
		Stage:      stage,
		Message:    fmt.Sprintf("ingested %s for %s", instrument, tradeDate.Format("2006-01-02")),
		Timestamp:  s.now().UTC(),
	}
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/database"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// MarketDataRepository implements market data persistence using GORM.
type MarketDataRepository struct {
	db *gorm.DB
}

// NewMarketDataRepository creates a new repository using the global main DB.
func NewMarketDataRepository() *MarketDataRepository {
	return &MarketDataRepository{
		db: database.MainDB,
	}
}

// NewMarketDataRepositoryWithDB creates a new repository using the given gorm DB.
func NewMarketDataRepositoryWithDB(db *gorm.DB) *MarketDataRepository {
	return &MarketDataRepository{
		db: db,
	}
}

// Upsert inserts the record or, when a row already exists for the same
// (instrument, trade_date), updates its price fields in place. The
// moving_average_30 column is deliberately left out of the conflict update:
// it belongs to the averaging pass that runs after the upsert.
func (s *MarketDataRepository) Upsert(ctx context.Context, md *model.MarketData) error {
	logger.WithFields(map[string]interface{}{
		"repo":       "MarketDataRepository",
		"op":         "Upsert",
		"instrument": md.Instrument,
		"tradeDate":  md.TradeDate.Format("2006-01-02"),
	}).Debug("Upserting market data")

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "instrument"}, {Name: "trade_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"open", "high", "low", "close", "volume",
			"usd_price", "idr_rate", "idr_price",
		}),
	}).Create(md).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "MarketDataRepository",
			"op":         "Upsert",
			"instrument": md.Instrument,
		}).WithError(err).Error("Failed to upsert market data")

		return &PersistenceError{Op: "Upsert", Err: err}
	}

	return nil
}

// UpdateMovingAverage writes the computed moving average onto the persisted
// row for (instrument, tradeDate).
func (s *MarketDataRepository) UpdateMovingAverage(
	ctx context.Context,
	instrument model.Instrument,
	tradeDate time.Time,
	avg decimal.Decimal,
) error {
	result := s.db.WithContext(ctx).
		Model(&model.MarketData{}).
		Where("instrument = ? AND trade_date = ?", instrument, tradeDate).
		Update("moving_average_30", avg)
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "MarketDataRepository",
			"op":         "UpdateMovingAverage",
			"instrument": instrument,
		}).WithError(result.Error).Error("Failed to update moving average")

		return &PersistenceError{Op: "UpdateMovingAverage", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		err := errors.New("no market data row matched the update key")
		logger.WithFields(map[string]interface{}{
			"repo":       "MarketDataRepository",
			"op":         "UpdateMovingAverage",
			"instrument": instrument,
			"tradeDate":  tradeDate.Format("2006-01-02"),
		}).WithError(err).Error("Moving average update matched nothing")

		return &PersistenceError{Op: "UpdateMovingAverage", Err: err}
	}

	return nil
}

// FetchRecent returns up to limit records for the instrument with
// trade_date <= to, most recent first.
func (s *MarketDataRepository) FetchRecent(
	ctx context.Context,
	instrument model.Instrument,
	to time.Time,
	limit int,
) ([]model.MarketData, error) {
	if limit <= 0 {
		limit = 30
	}

	var rows []model.MarketData
	err := s.db.WithContext(ctx).
		Where("instrument = ? AND trade_date <= ?", instrument, to).
		Order("trade_date DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "MarketDataRepository",
			"op":         "FetchRecent",
			"instrument": instrument,
		}).WithError(err).Error("Failed to fetch recent market data")

		return nil, &PersistenceError{Op: "FetchRecent", Err: err}
	}

	return rows, nil
}

// FindByKey fetches one record by its natural key.
// Returns (nil, nil) if not found.
func (s *MarketDataRepository) FindByKey(
	ctx context.Context,
	instrument model.Instrument,
	tradeDate time.Time,
) (*model.MarketData, error) {
	var md model.MarketData
	err := s.db.WithContext(ctx).
		Where("instrument = ? AND trade_date = ?", instrument, tradeDate).
		First(&md).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &PersistenceError{Op: "FindByKey", Err: err}
	}

	return &md, nil
}

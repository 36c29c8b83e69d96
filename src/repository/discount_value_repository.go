package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/database"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// DiscountValueRepository persists derived discount values.
type DiscountValueRepository struct {
	db *gorm.DB
}

// NewDiscountValueRepository creates a new repository using the global main DB.
func NewDiscountValueRepository() *DiscountValueRepository {
	return &DiscountValueRepository{
		db: database.MainDB,
	}
}

// NewDiscountValueRepositoryWithDB creates a new repository using the given gorm DB.
func NewDiscountValueRepositoryWithDB(db *gorm.DB) *DiscountValueRepository {
	return &DiscountValueRepository{
		db: db,
	}
}

// Replace upserts the value keyed on (trade_date, setting_id). Regenerating
// a trading day overwrites the prior value instead of appending a duplicate.
func (s *DiscountValueRepository) Replace(ctx context.Context, v *model.MaDiscountValue) error {
	logger.WithFields(map[string]interface{}{
		"repo":      "DiscountValueRepository",
		"op":        "Replace",
		"settingID": v.SettingID,
		"tradeDate": v.TradeDate.Format("2006-01-02"),
	}).Debug("Replacing discount value")

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trade_date"}, {Name: "setting_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"instrument", "label", "value", "created_at"}),
	}).Create(v).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":      "DiscountValueRepository",
			"op":        "Replace",
			"settingID": v.SettingID,
		}).WithError(err).Error("Failed to replace discount value")

		return &PersistenceError{Op: "Replace", Err: err}
	}

	return nil
}

// ListByTradeDate returns the discount values generated for an instrument
// on a trading day, ordered by setting.
func (s *DiscountValueRepository) ListByTradeDate(
	ctx context.Context,
	instrument model.Instrument,
	tradeDate time.Time,
) ([]model.MaDiscountValue, error) {
	var values []model.MaDiscountValue
	err := s.db.WithContext(ctx).
		Where("instrument = ? AND trade_date = ?", instrument, tradeDate).
		Order("setting_id ASC").
		Find(&values).Error
	if err != nil {
		return nil, &PersistenceError{Op: "ListByTradeDate", Err: err}
	}

	return values, nil
}

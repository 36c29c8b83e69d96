package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/database"
	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

// DiscountSettingRepository reads externally managed discount rules.
// The pipeline never writes to this table.
type DiscountSettingRepository struct {
	db *gorm.DB
}

// NewDiscountSettingRepository creates a new repository using the global main DB.
func NewDiscountSettingRepository() *DiscountSettingRepository {
	return &DiscountSettingRepository{
		db: database.MainDB,
	}
}

// NewDiscountSettingRepositoryWithDB creates a new repository using the given gorm DB.
func NewDiscountSettingRepositoryWithDB(db *gorm.DB) *DiscountSettingRepository {
	return &DiscountSettingRepository{
		db: db,
	}
}

// ListByInstrument returns every discount setting configured for the
// instrument. An empty result is not an error.
func (s *DiscountSettingRepository) ListByInstrument(
	ctx context.Context,
	instrument model.Instrument,
) ([]model.MaDiscountSetting, error) {
	var settings []model.MaDiscountSetting
	err := s.db.WithContext(ctx).
		Where("instrument = ?", instrument).
		Order("id ASC").
		Find(&settings).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":       "DiscountSettingRepository",
			"op":         "ListByInstrument",
			"instrument": instrument,
		}).WithError(err).Error("Failed to list discount settings")

		return nil, &PersistenceError{Op: "ListByInstrument", Err: err}
	}

	return settings, nil
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

func newSqliteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.MarketData{},
		&model.MaDiscountSetting{},
		&model.MaDiscountValue{},
	))

	return db
}

func marketDataRow(instrument model.Instrument, date string, usdPrice string) *model.MarketData {
	tradeDate, _ := time.Parse("2006-01-02", date)
	price := d(usdPrice)
	return &model.MarketData{
		Instrument: instrument,
		TradeDate:  tradeDate,
		Open:       price,
		High:       price,
		Low:        price,
		Close:      price,
		Volume:     d("100"),
		USDPrice:   price,
		IDRRate:    d("16000"),
		IDRPrice:   price.Mul(d("16000")),
		CreatedAt:  time.Now().UTC(),
	}
}

func TestMarketDataUpsertRoundTrip(t *testing.T) {
	db := newSqliteDB(t)
	repo := NewMarketDataRepositoryWithDB(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, marketDataRow(model.InstrumentRobusta, "2025-08-29", "4500")))
	require.NoError(t, repo.Upsert(ctx, marketDataRow(model.InstrumentRobusta, "2025-08-29", "4512")))

	var count int64
	require.NoError(t, db.Model(&model.MarketData{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	found, err := repo.FindByKey(ctx, model.InstrumentRobusta, time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, found)
	require.True(t, found.USDPrice.Equal(d("4512")))

	// Same trade date, other instrument: separate row.
	require.NoError(t, repo.Upsert(ctx, marketDataRow(model.InstrumentArabica, "2025-08-29", "390")))
	require.NoError(t, db.Model(&model.MarketData{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestMarketDataUpsertKeepsMovingAverage(t *testing.T) {
	db := newSqliteDB(t)
	repo := NewMarketDataRepositoryWithDB(db)
	ctx := context.Background()

	tradeDate := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, marketDataRow(model.InstrumentRobusta, "2025-08-29", "4500")))
	require.NoError(t, repo.UpdateMovingAverage(ctx, model.InstrumentRobusta, tradeDate, d("4450")))

	// A re-ingest touches price columns only; the averaging pass owns
	// moving_average_30.
	require.NoError(t, repo.Upsert(ctx, marketDataRow(model.InstrumentRobusta, "2025-08-29", "4505")))

	found, err := repo.FindByKey(ctx, model.InstrumentRobusta, tradeDate)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.True(t, found.MovingAverage30.Valid)
	require.True(t, found.MovingAverage30.Decimal.Equal(d("4450")))
	require.True(t, found.USDPrice.Equal(d("4505")))
}

func TestFindByKeyReturnsNilWhenMissing(t *testing.T) {
	db := newSqliteDB(t)
	repo := NewMarketDataRepositoryWithDB(db)

	found, err := repo.FindByKey(context.Background(), model.InstrumentArabica,
		time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestFetchRecentLimitsAndFilters(t *testing.T) {
	db := newSqliteDB(t)
	repo := NewMarketDataRepositoryWithDB(db)
	ctx := context.Background()

	dates := []string{"2025-08-25", "2025-08-26", "2025-08-27", "2025-08-28", "2025-08-29"}
	for _, date := range dates {
		require.NoError(t, repo.Upsert(ctx, marketDataRow(model.InstrumentRobusta, date, "4500")))
	}

	rows, err := repo.FetchRecent(ctx, model.InstrumentRobusta,
		time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC), rows[0].TradeDate.UTC())
	require.Equal(t, time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC), rows[2].TradeDate.UTC())
}

func TestDiscountValueReplace(t *testing.T) {
	db := newSqliteDB(t)
	repo := NewDiscountValueRepositoryWithDB(db)
	ctx := context.Background()

	tradeDate := time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC)
	first := &model.MaDiscountValue{
		Instrument: model.InstrumentRobusta,
		TradeDate:  tradeDate,
		SettingID:  1,
		Label:      "tier-1",
		Value:      d("4050"),
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Replace(ctx, first))

	second := &model.MaDiscountValue{
		Instrument: model.InstrumentRobusta,
		TradeDate:  tradeDate,
		SettingID:  1,
		Label:      "tier-1",
		Value:      d("4059"),
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.Replace(ctx, second))

	values, err := repo.ListByTradeDate(ctx, model.InstrumentRobusta, tradeDate)
	require.NoError(t, err)
	require.Len(t, values, 1)
	require.True(t, values[0].Value.Equal(d("4059")))
}

func TestDiscountSettingListByInstrument(t *testing.T) {
	db := newSqliteDB(t)
	repo := NewDiscountSettingRepositoryWithDB(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.MaDiscountSetting{
		Instrument: model.InstrumentRobusta, Label: "tier-1", DiscountRatio: d("0.1"),
	}).Error)
	require.NoError(t, db.Create(&model.MaDiscountSetting{
		Instrument: model.InstrumentArabica, Label: "kc-tier", DiscountRatio: d("0.05"),
	}).Error)

	settings, err := repo.ListByInstrument(ctx, model.InstrumentRobusta)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	require.Equal(t, "tier-1", settings[0].Label)

	empty, err := repo.ListByInstrument(ctx, "XX")
	require.NoError(t, err)
	require.Empty(t, empty)
}

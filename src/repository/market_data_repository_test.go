package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUpsertConflictsOnInstrumentAndTradeDate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMarketDataRepositoryWithDB(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "market_data" .+ON CONFLICT \("instrument","trade_date"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	md := &model.MarketData{
		Instrument: model.InstrumentRobusta,
		TradeDate:  time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC),
		Open:       d("4490"),
		High:       d("4515"),
		Low:        d("4480"),
		Close:      d("4500"),
		Volume:     d("5000"),
		USDPrice:   d("4500"),
		IDRRate:    d("16000"),
		IDRPrice:   d("72000000"),
	}
	require.NoError(t, repo.Upsert(context.Background(), md))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchRecentOrdersDescending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMarketDataRepositoryWithDB(db)

	rows := sqlmock.NewRows([]string{"id", "instrument", "trade_date", "usd_price"}).
		AddRow(2, "RM", time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC), 4510.0).
		AddRow(1, "RM", time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC), 4500.0)

	mock.ExpectQuery(`SELECT \* FROM "market_data" WHERE instrument = .+ AND trade_date <= .+ ORDER BY trade_date DESC LIMIT`).
		WillReturnRows(rows)

	got, err := repo.FetchRecent(context.Background(), model.InstrumentRobusta,
		time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC), 30)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].TradeDate.After(got[1].TradeDate))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMovingAverageRequiresMatchingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMarketDataRepositoryWithDB(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "market_data" SET "moving_average_30"=.+WHERE instrument = .+ AND trade_date = `).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateMovingAverage(context.Background(), model.InstrumentRobusta,
		time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC), d("4505"))
	require.Error(t, err)

	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	require.Equal(t, "UpdateMovingAverage", persistenceErr.Op)
	require.NoError(t, mock.ExpectationsWereMet())
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

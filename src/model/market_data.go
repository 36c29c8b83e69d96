package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one daily OHLCV snapshot for an instrument, enriched with
// the USD→IDR conversion and, after a second write, the trailing 30-day
// moving average.
type MarketData struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Instrument Instrument `json:"instrument" gorm:"type:varchar(10);not null;uniqueIndex:ux_market_data_instrument_trade_date,priority:1;index:idx_market_data_instrument_trade_date,priority:1"`
	TradeDate  time.Time  `json:"trade_date" gorm:"type:date;not null;uniqueIndex:ux_market_data_instrument_trade_date,priority:2;index:idx_market_data_instrument_trade_date,priority:2"`

	Open   decimal.Decimal `json:"open"   gorm:"type:double precision;not null"`
	High   decimal.Decimal `json:"high"   gorm:"type:double precision;not null"`
	Low    decimal.Decimal `json:"low"    gorm:"type:double precision;not null"`
	Close  decimal.Decimal `json:"close"  gorm:"type:double precision;not null"`
	Volume decimal.Decimal `json:"volume" gorm:"type:double precision;not null"`

	USDPrice decimal.Decimal `json:"usd_price" gorm:"type:double precision;not null"`
	IDRRate  decimal.Decimal `json:"idr_rate"  gorm:"type:double precision;not null"`
	IDRPrice decimal.Decimal `json:"idr_price" gorm:"type:double precision;not null"`

	// MovingAverage30 stays NULL until the averaging pass runs against the
	// persisted history that includes this row.
	MovingAverage30 decimal.NullDecimal `json:"moving_average_30" gorm:"type:double precision"`

	CreatedAt time.Time `json:"created_at"`
}

func (MarketData) TableName() string {
	return "market_data"
}

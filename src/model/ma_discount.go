package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaDiscountSetting is an externally managed discount rule. The pipeline
// only reads these rows, it never creates or edits them.
type MaDiscountSetting struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Instrument    Instrument      `json:"instrument" gorm:"type:varchar(10);not null;index:idx_ma_discount_settings_instrument"`
	Label         string          `json:"label" gorm:"type:varchar(100);not null"`
	DiscountRatio decimal.Decimal `json:"discount_ratio" gorm:"type:double precision;not null"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (MaDiscountSetting) TableName() string {
	return "ma_discount_settings"
}

// MaDiscountValue is derived from a persisted MarketData row and one
// discount setting. (TradeDate, SettingID) is the natural key: regeneration
// for an already processed day replaces the prior value.
type MaDiscountValue struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Instrument Instrument `json:"instrument" gorm:"type:varchar(10);not null;index:idx_ma_discount_values_instrument"`
	TradeDate  time.Time  `json:"trade_date" gorm:"type:date;not null;uniqueIndex:ux_ma_discount_values_trade_date_setting,priority:1"`
	SettingID  uint       `json:"setting_id" gorm:"not null;uniqueIndex:ux_ma_discount_values_trade_date_setting,priority:2"`

	Label     string          `json:"label" gorm:"type:varchar(100);not null"`
	Value     decimal.Decimal `json:"value" gorm:"type:double precision;not null"`
	CreatedAt time.Time       `json:"created_at"`
}

func (MaDiscountValue) TableName() string {
	return "ma_discount_values"
}

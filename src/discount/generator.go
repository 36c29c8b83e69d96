package discount

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhafinjulda/supply-onchain-price-cron/src/model"
)

var one = decimal.NewFromInt(1)

// GenerateValues derives one discount value per configured setting from a
// market data record whose moving average has been populated:
//
//	value = movingAverage30 * (1 - discountRatio)
//
// Pure function of the record and the settings, no I/O. Zero settings
// yields zero values, which is not an error.
func GenerateValues(
	md *model.MarketData,
	settings []model.MaDiscountSetting,
	now time.Time,
) []model.MaDiscountValue {
	if md == nil || !md.MovingAverage30.Valid {
		return nil
	}

	values := make([]model.MaDiscountValue, 0, len(settings))
	for _, setting := range settings {
		value := md.MovingAverage30.Decimal.Mul(one.Sub(setting.DiscountRatio))

		values = append(values, model.MaDiscountValue{
			Instrument: md.Instrument,
			TradeDate:  md.TradeDate,
			SettingID:  setting.ID,
			Label:      setting.Label,
			Value:      value,
			CreatedAt:  now,
		})
	}

	return values
}

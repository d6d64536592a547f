package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargebee-prices/core/types"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestMapItemPriceConvertsMinorUnits(t *testing.T) {
	for _, raw := range []int64{0, 1, 99, 500, 1000, 1500, 123456789} {
		price := MapItemPrice(RawItemPrice{ID: "p", Price: raw})
		want := decimal.NewFromInt(raw).Div(decimal.NewFromInt(100))
		assert.Truef(t, want.Equal(price.Price), "raw %d: got %s want %s", raw, price.Price, want)
	}
}

func TestMapItemPriceDefaults(t *testing.T) {
	price := MapItemPrice(RawItemPrice{ID: "com-1y-USD", CurrencyCode: "USD", Price: 1000})

	assert.Equal(t, types.DefaultPricingModel, price.PricingModel)
	assert.Equal(t, "", price.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(price.Price))
	assert.Nil(t, price.Period)
	assert.Nil(t, price.DifferentialPrices)
}

func TestMapItemPriceKeepsOptionalFields(t *testing.T) {
	price := MapItemPrice(RawItemPrice{
		ID:              "pro-monthly",
		Name:            "Pro Monthly",
		PricingModel:    "per_unit",
		CurrencyCode:    "EUR",
		Price:           2599,
		Period:          intPtr(1),
		PeriodUnit:      "month",
		TrialPeriod:     intPtr(14),
		TrialPeriodUnit: "day",
		FreeQuantity:    intPtr(2),
	})

	assert.Equal(t, "per_unit", price.PricingModel)
	assert.Equal(t, "Pro Monthly", price.Name)
	assert.Equal(t, "25.99", price.Price.String())
	require.NotNil(t, price.Period)
	assert.Equal(t, 1, *price.Period)
	assert.Equal(t, 14, *price.TrialPeriod)
	assert.Equal(t, 2, *price.FreeQuantity)
}

func TestMapChargeDefaults(t *testing.T) {
	charge := MapCharge(RawItem{ID: "setup", Name: "Setup fee"})

	assert.Equal(t, types.ItemTypeCharge, charge.Type)
	assert.True(t, charge.Price.IsZero())
	assert.Equal(t, "USD", charge.CurrencyCode)

	charge = MapCharge(RawItem{ID: "setup", Type: "charge", Price: int64Ptr(4900), CurrencyCode: "EUR"})
	assert.Equal(t, "49", charge.Price.String())
	assert.Equal(t, "EUR", charge.CurrencyCode)
}

func TestMapCoupon(t *testing.T) {
	coupon := MapCoupon(RawCoupon{
		ID:             "WELCOME",
		Name:           "Welcome",
		DiscountType:   "fixed_amount",
		DiscountAmount: int64Ptr(500),
		DurationType:   "one_time",
		ValidTill:      int64Ptr(1767225600),
		ApplyOn:        types.ApplyOnSpecificItems,
		ItemIDs:        []string{"item-42"},
	})

	require.NotNil(t, coupon.DiscountAmount)
	assert.Equal(t, "5", coupon.DiscountAmount.String())
	require.NotNil(t, coupon.ValidTill)
	assert.True(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Equal(*coupon.ValidTill))
	assert.Equal(t, []string{"item-42"}, coupon.ItemConstraints.ItemIDs)
	assert.Nil(t, coupon.ItemConstraints.ItemFamilyIDs)
}

func TestMapCouponWithoutAmount(t *testing.T) {
	pct := 15.0
	coupon := MapCoupon(RawCoupon{ID: "SAVE15", DiscountType: "percentage", DiscountPercentage: &pct, ApplyOn: types.ApplyOnAllItems})

	assert.Nil(t, coupon.DiscountAmount)
	assert.Nil(t, coupon.ValidTill)
	require.NotNil(t, coupon.DiscountPercentage)
	assert.Equal(t, 15.0, *coupon.DiscountPercentage)
}

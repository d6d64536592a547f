package billing

import (
	"time"

	"chargebee-prices/core/types"
)

// MapItem converts a raw item into the catalog item shape
func MapItem(raw RawItem) types.Item {
	return types.Item{
		ID:       raw.ID,
		Name:     raw.Name,
		Type:     raw.Type,
		FamilyID: raw.ItemFamilyID,
		Metadata: raw.Metadata,
	}
}

// MapItemPrice converts a raw item price, defaulting the pricing model to
// flat_fee and converting the amount to major units.
func MapItemPrice(raw RawItemPrice) types.Price {
	model := raw.PricingModel
	if model == "" {
		model = types.DefaultPricingModel
	}
	return types.Price{
		ID:              raw.ID,
		Name:            raw.Name,
		PricingModel:    model,
		CurrencyCode:    raw.CurrencyCode,
		Price:           types.MinorToMajor(raw.Price),
		Period:          raw.Period,
		PeriodUnit:      raw.PeriodUnit,
		TrialPeriod:     raw.TrialPeriod,
		TrialPeriodUnit: raw.TrialPeriodUnit,
		FreeQuantity:    raw.FreeQuantity,
	}
}

// MapDifferentialPrice converts a raw differential price to major units
func MapDifferentialPrice(raw RawDifferentialPrice) types.DifferentialPrice {
	return types.DifferentialPrice{
		ID:                raw.ID,
		ParentItemPriceID: raw.ParentItemPriceID,
		Price:             types.MinorToMajor(raw.Price),
		CurrencyCode:      raw.CurrencyCode,
		ParentItemID:      raw.ParentItemID,
	}
}

// MapCharge converts a charge item. A missing or zero price maps to 0, a
// missing currency to USD and a missing type to "charge".
func MapCharge(raw RawItem) types.Charge {
	charge := types.Charge{
		ID:           raw.ID,
		Name:         raw.Name,
		Type:         raw.Type,
		Price:        types.MinorToMajor(0),
		CurrencyCode: raw.CurrencyCode,
	}
	if charge.Type == "" {
		charge.Type = types.ItemTypeCharge
	}
	if raw.Price != nil && *raw.Price != 0 {
		charge.Price = types.MinorToMajor(*raw.Price)
	}
	if charge.CurrencyCode == "" {
		charge.CurrencyCode = types.DefaultChargeCurrency.String()
	}
	return charge
}

// MapCoupon converts a raw coupon. The discount amount is converted to major
// units when set and non-zero; valid_till is read as epoch seconds.
func MapCoupon(raw RawCoupon) types.Coupon {
	coupon := types.Coupon{
		ID:                 raw.ID,
		Name:               raw.Name,
		DiscountType:       raw.DiscountType,
		DiscountPercentage: raw.DiscountPercentage,
		DurationPeriod:     raw.DurationPeriod,
		DurationType:       raw.DurationType,
		MaxRedemptions:     raw.MaxRedemptions,
		ApplyOn:            raw.ApplyOn,
		ItemConstraints: types.ItemConstraints{
			ItemFamilyIDs: raw.ItemFamilyIDs,
			ItemIDs:       raw.ItemIDs,
		},
	}
	if raw.DiscountAmount != nil && *raw.DiscountAmount != 0 {
		amount := types.MinorToMajor(*raw.DiscountAmount)
		coupon.DiscountAmount = &amount
	}
	if raw.ValidTill != nil && *raw.ValidTill != 0 {
		validTill := time.Unix(*raw.ValidTill, 0).UTC()
		coupon.ValidTill = &validTill
	}
	return coupon
}

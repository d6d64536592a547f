package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargebee-prices/core/billing"
	"chargebee-prices/core/types"
)

func TestCouponApplies(t *testing.T) {
	tests := []struct {
		name   string
		coupon billing.RawCoupon
		want   bool
	}{
		{
			name:   "family listed",
			coupon: billing.RawCoupon{ApplyOn: types.ApplyOnAllItemsInFamily, ItemFamilyIDs: []string{"other", "fam-1"}},
			want:   true,
		},
		{
			name:   "family not listed",
			coupon: billing.RawCoupon{ApplyOn: types.ApplyOnAllItemsInFamily, ItemFamilyIDs: []string{"other"}},
		},
		{
			name:   "family list absent",
			coupon: billing.RawCoupon{ApplyOn: types.ApplyOnAllItemsInFamily},
		},
		{
			name:   "item listed",
			coupon: billing.RawCoupon{ApplyOn: types.ApplyOnSpecificItems, ItemIDs: []string{"plan-1"}},
			want:   true,
		},
		{
			name:   "item not listed",
			coupon: billing.RawCoupon{ApplyOn: types.ApplyOnSpecificItems, ItemIDs: []string{"plan-2"}},
		},
		{
			name:   "specific items ignores family list",
			coupon: billing.RawCoupon{ApplyOn: types.ApplyOnSpecificItems, ItemFamilyIDs: []string{"fam-1"}},
		},
		{
			name:   "all items",
			coupon: billing.RawCoupon{ApplyOn: types.ApplyOnAllItems},
			want:   true,
		},
		{
			name:   "unknown mode",
			coupon: billing.RawCoupon{ApplyOn: "each_specified_item", ItemIDs: []string{"plan-1"}},
		},
		{
			name:   "empty mode",
			coupon: billing.RawCoupon{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CouponApplies(tt.coupon, "fam-1", "plan-1"))
		})
	}
}

func TestEnricherCoupons(t *testing.T) {
	api := newFakeAPI()
	api.coupons = []billing.RawCoupon{
		{ID: "everything", ApplyOn: types.ApplyOnAllItems, DiscountType: "percentage", DiscountPercentage: ptr(10.0)},
		{ID: "family", ApplyOn: types.ApplyOnAllItemsInFamily, ItemFamilyIDs: []string{"fam-1"}},
		{ID: "elsewhere", ApplyOn: types.ApplyOnSpecificItems, ItemIDs: []string{"plan-9"}},
	}

	coupons := NewEnricher(api, testOptions()).Coupons(context.Background(), "fam-1", "plan-1")
	require.Len(t, coupons, 2)
	assert.Equal(t, "everything", coupons[0].ID)
	assert.Equal(t, "family", coupons[1].ID)
}

func TestEnricherNoApplicableCoupons(t *testing.T) {
	api := newFakeAPI()
	api.coupons = []billing.RawCoupon{{ID: "elsewhere", ApplyOn: types.ApplyOnSpecificItems, ItemIDs: []string{"plan-9"}}}

	assert.Nil(t, NewEnricher(api, testOptions()).Coupons(context.Background(), "fam-1", "plan-1"))
}

func TestEnricherToleratesFailures(t *testing.T) {
	api := newFakeAPI()
	api.chargeErr["plan-1"] = fmt.Errorf("boom")
	api.couponErr = fmt.Errorf("boom")

	rec := &countingRecorder{}
	opts := testOptions()
	opts.Failures = rec
	e := NewEnricher(api, opts)

	assert.Nil(t, e.Charges(context.Background(), "plan-1"))
	assert.Nil(t, e.Coupons(context.Background(), "fam-1", "plan-1"))
	assert.Equal(t, 1, rec.failures[ResourceCharges])
	assert.Equal(t, 1, rec.failures[ResourceCoupons])
}

func TestEnricherCharges(t *testing.T) {
	api := newFakeAPI()
	price := int64(2500)
	api.charges["setup"] = []billing.RawItem{{ID: "setup", Name: "Setup fee", Price: &price, CurrencyCode: "EUR"}}

	e := NewEnricher(api, testOptions())

	charges := e.Charges(context.Background(), "setup")
	require.Len(t, charges, 1)
	assert.Equal(t, "charge", charges[0].Type)
	assert.Equal(t, "25", charges[0].Price.String())
	assert.Equal(t, "EUR", charges[0].CurrencyCode)

	assert.Nil(t, e.Charges(context.Background(), "plan-1"), "no charge record")
}

func TestEnricherCouponCache(t *testing.T) {
	tests := []struct {
		name      string
		cache     bool
		wantCalls int
	}{
		{name: "per item", cache: false, wantCalls: 3},
		{name: "cached", cache: true, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.coupons = []billing.RawCoupon{{ID: "everything", ApplyOn: types.ApplyOnAllItems}}

			opts := testOptions()
			opts.CacheCoupons = tt.cache
			e := NewEnricher(api, opts)

			for _, id := range []string{"plan-1", "plan-2", "plan-3"} {
				assert.Len(t, e.Coupons(context.Background(), "fam-1", id), 1)
			}
			assert.Equal(t, tt.wantCalls, api.count("ListCoupons"))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargebee-prices/core/billing"
	"chargebee-prices/core/types"
)

func plan(id string, metadata map[string]any, prices ...types.Price) types.PlanPriceDetails {
	return types.PlanPriceDetails{ItemID: id, Prices: prices, Metadata: metadata}
}

func usd(id string, cents int64) types.Price {
	return types.Price{ID: id, CurrencyCode: "USD", Price: types.MinorToMajor(cents)}
}

func TestMatchesDomain(t *testing.T) {
	tests := []struct {
		name string
		plan types.PlanPriceDetails
		tld  string
		want bool
	}{
		{name: "prefix", plan: plan("com-1y", nil), tld: "com", want: true},
		{name: "domain prefix", plan: plan("comdomain-annual", nil), tld: "com", want: true},
		{name: "infix", plan: plan("register-com-1y", nil), tld: "com", want: true},
		{name: "suffix only", plan: plan("register-com", nil), tld: "com"},
		{name: "longer tld", plan: plan("company-1y", nil), tld: "com"},
		{name: "different tld", plan: plan("net-1y", nil), tld: "com"},
		{name: "metadata match", plan: plan("plan-1", map[string]any{"tld": "io"}), tld: "io", want: true},
		{name: "metadata wins over id", plan: plan("com-plan-1", map[string]any{"tld": "net"}), tld: "com"},
		{name: "metadata selects", plan: plan("com-plan-1", map[string]any{"tld": "net"}), tld: "net", want: true},
		{name: "empty metadata falls back", plan: plan("com-1y", map[string]any{"tld": ""}), tld: "com", want: true},
		{name: "non-string metadata falls back", plan: plan("com-1y", map[string]any{"tld": 7}), tld: "com", want: true},
		{name: "unrelated metadata", plan: plan("com-1y", map[string]any{"tier": "gold"}), tld: "com", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesDomain(tt.plan, tt.tld))
		})
	}
}

func TestFilterDomain(t *testing.T) {
	plans := []types.PlanPriceDetails{
		plan("com-1y", nil, usd("com-1y-USD", 1200), types.Price{ID: "com-1y-EUR", CurrencyCode: "EUR", Price: types.MinorToMajor(1100)}),
		plan("net-1y", nil, usd("net-1y-USD", 1400)),
		plan("com-2y", nil, usd("com-2y-USD", 2200)),
	}

	got := FilterDomain(plans, "com")
	require.Len(t, got, 3)
	assert.Equal(t, "com-1y-USD", got[0].ID)
	assert.True(t, decimal.NewFromInt(12).Equal(got[0].Price))
	assert.Equal(t, "EUR", got[1].Currency)
	assert.Equal(t, "com-2y-USD", got[2].ID)

	none := FilterDomain(plans, "org")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestDomainPrices(t *testing.T) {
	api := newFakeAPI()
	api.addFamily("domains",
		billing.RawItem{ID: "com-1y", Name: ".com", Type: "plan"},
		billing.RawItem{ID: "net-1y", Name: ".net", Type: "plan"},
	)
	api.prices["com-1y"] = []billing.RawItemPrice{{ID: "com-1y-USD", CurrencyCode: "USD", Price: 1299}}
	api.prices["net-1y"] = []billing.RawItemPrice{{ID: "net-1y-USD", CurrencyCode: "USD", Price: 1499}}

	got, err := New(api, testOptions()).DomainPrices(context.Background(), "domains", "com")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, types.DomainPriceInfo{ID: "com-1y-USD", Price: types.MinorToMajor(1299), Currency: "USD"}, got[0])
}

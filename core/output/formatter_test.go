package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chargebee-prices/core/types"
)

func samplePlans() []types.PlanPriceDetails {
	year := 1
	pct := 15.0
	till := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []types.PlanPriceDetails{
		{
			ItemID:     "com-1y",
			ItemName:   ".com registration",
			ItemType:   "plan",
			ItemFamily: "domains",
			Prices: []types.Price{{
				ID:           "com-1y-USD",
				PricingModel: "flat_fee",
				CurrencyCode: "USD",
				Price:        types.MinorToMajor(1299),
				Period:       &year,
				PeriodUnit:   "year",
				DifferentialPrices: []types.DifferentialPrice{
					{ID: "dp", ParentItemPriceID: "com-1y-USD", ParentItemID: "bundle", Price: types.MinorToMajor(999), CurrencyCode: "USD"},
				},
			}},
			Coupons: []types.Coupon{{ID: "LAUNCH", DiscountType: "percentage", DiscountPercentage: &pct, ApplyOn: "all_items", ValidTill: &till}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("cli")
	require.NoError(t, err)
	assert.Equal(t, FormatCLI, f)

	_, err = ParseFormat("html")
	assert.Error(t, err)
}

func TestJSONFamilyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Render(&buf, FamilyReport("domains", samplePlans())))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "com-1y", decoded[0]["itemId"])
	assert.NotContains(t, decoded[0], "charges")

	prices := decoded[0]["prices"].([]any)
	price := prices[0].(map[string]any)
	assert.Equal(t, 12.99, price["price"])
	assert.Contains(t, buf.String(), "\n  {\n    \"itemId\"")
}

func TestJSONEmptyReportsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Render(&buf, FamilyReport("empty", nil)))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, NewJSONFormatter().Render(&buf, DomainReport("domains", "org", nil)))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONDomainReport(t *testing.T) {
	var buf bytes.Buffer
	report := DomainReport("domains", "com", []types.DomainPriceInfo{{ID: "com-1y-USD", Price: types.MinorToMajor(1299), Currency: "USD"}})
	require.NoError(t, (&JSONFormatter{}).Render(&buf, report))
	assert.Equal(t, `[{"id":"com-1y-USD","price":12.99,"currency":"USD"}]`+"\n", buf.String())
}

func TestCLIFamilyReport(t *testing.T) {
	var buf bytes.Buffer
	report := FamilyReport("domains", samplePlans())
	report.Duration = 1500 * time.Millisecond
	require.NoError(t, NewCLIFormatter(true).Render(&buf, report))

	out := buf.String()
	assert.Contains(t, out, "Item family domains")
	assert.Contains(t, out, "com-1y-USD │ flat_fee │ 12.99 │ USD      │ 1 year │ 9.99 with bundle")
	assert.Contains(t, out, "LAUNCH │ 15%      │ all_items  │ 2026-01-01")
	assert.Contains(t, out, "✓ 1 items")
	assert.Contains(t, out, "Completed in 1.5s")
	assert.NotContains(t, out, "\033[")
}

func TestCLIDomainAndItemReports(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCLIFormatter(true).Render(&buf, DomainReport("domains", "org", nil)))
	assert.Contains(t, buf.String(), "No prices found for .org")

	buf.Reset()
	item := &types.ItemPrices{
		Item:   types.Item{ID: "pro", Name: "Pro", Type: "plan", FamilyID: "saas"},
		Prices: samplePlans()[0].Prices,
	}
	require.NoError(t, NewCLIFormatter(true).Render(&buf, ItemReport(item)))
	assert.Contains(t, buf.String(), "Pro (pro)")
	assert.Contains(t, buf.String(), "Type plan, family saas")
	assert.True(t, strings.Contains(buf.String(), "com-1y-USD"))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []Format{FormatCLI, FormatJSON}, r.Formats())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatJSON, ItemReport(&types.ItemPrices{Prices: []types.Price{}})))
	assert.Contains(t, buf.String(), `"prices": []`)

	assert.Error(t, r.Render(&buf, Format("xml"), FamilyReport("f", nil)))
}

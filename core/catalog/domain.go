package catalog

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"chargebee-prices/core/types"
)

// DomainPrices builds the full report of the family and narrows it to the
// prices of one TLD. Nothing is shared with earlier Build calls.
func (b *Builder) DomainPrices(ctx context.Context, familyID, tld string) ([]types.DomainPriceInfo, error) {
	plans, err := b.Build(ctx, familyID)
	if err != nil {
		return nil, err
	}
	prices := FilterDomain(plans, tld)
	b.opts.Logger.Info("Generated domain price information",
		zap.String("family_id", familyID),
		zap.String("tld", tld),
		zap.Int("count", len(prices)),
	)
	return prices, nil
}

// FilterDomain flattens the prices of every plan belonging to the TLD,
// preserving plan then price order.
func FilterDomain(plans []types.PlanPriceDetails, tld string) []types.DomainPriceInfo {
	out := []types.DomainPriceInfo{}
	for _, plan := range plans {
		if !MatchesDomain(plan, tld) {
			continue
		}
		out = append(out, lo.Map(plan.Prices, func(p types.Price, _ int) types.DomainPriceInfo {
			return types.DomainPriceInfo{ID: p.ID, Price: p.Price, Currency: p.CurrencyCode}
		})...)
	}
	return out
}

// MatchesDomain reports whether a plan sells the TLD. A "tld" metadata
// value is authoritative; without one the item id is matched against
// "tld-", "tlddomain-" and "-tld-".
func MatchesDomain(plan types.PlanPriceDetails, tld string) bool {
	if v, ok := plan.Metadata["tld"].(string); ok && v != "" {
		return v == tld
	}
	id := plan.ItemID
	return strings.HasPrefix(id, tld+"-") ||
		strings.HasPrefix(id, tld+"domain-") ||
		strings.Contains(id, "-"+tld+"-")
}

package catalog

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"chargebee-prices/core/billing"
	"chargebee-prices/core/types"
)

// PriceAssembler builds the price list of one item
type PriceAssembler struct {
	api      billing.API
	log      *zap.Logger
	failures FailureRecorder
}

// NewPriceAssembler creates a price assembler
func NewPriceAssembler(api billing.API, opts Options) *PriceAssembler {
	opts = opts.normalized()
	return &PriceAssembler{api: api, log: opts.Logger, failures: opts.Failures}
}

// Assemble fetches the first page of prices of an item and attaches the
// differential prices of each. Only the price listing itself is fatal.
func (a *PriceAssembler) Assemble(ctx context.Context, itemID string) ([]types.Price, error) {
	raws, err := a.api.ListItemPrices(ctx, itemID, billing.DefaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list prices of item %s: %w", itemID, err)
	}
	a.log.Debug("Retrieved item prices", zap.String("item_id", itemID), zap.Int("count", len(raws)))

	prices := lo.Map(raws, func(raw billing.RawItemPrice, _ int) types.Price {
		return billing.MapItemPrice(raw)
	})

	for i := range prices {
		diffs, err := a.api.ListDifferentialPrices(ctx, prices[i].ID, billing.DefaultListLimit)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			a.log.Warn("Could not fetch differential prices",
				zap.String("item_id", itemID),
				zap.String("price_id", prices[i].ID),
				zap.Error(err),
			)
			a.failures.SubfetchFailed(ResourceDifferentialPrices)
			continue
		}
		if len(diffs) == 0 {
			continue
		}
		prices[i].DifferentialPrices = lo.Map(diffs, func(d billing.RawDifferentialPrice, _ int) types.DifferentialPrice {
			return billing.MapDifferentialPrice(d)
		})
		a.log.Debug("Mapped differential prices", zap.String("price_id", prices[i].ID), zap.Int("count", len(diffs)))
	}

	return prices, nil
}

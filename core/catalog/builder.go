package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chargebee-prices/core/billing"
	"chargebee-prices/core/types"
)

// Builder produces the full price report of a family
type Builder struct {
	api        billing.API
	opts       Options
	enumerator *Enumerator
	prices     *PriceAssembler
}

// New creates a builder over the billing API
func New(api billing.API, opts Options) *Builder {
	opts = opts.normalized()
	return &Builder{
		api:        api,
		opts:       opts,
		enumerator: NewEnumerator(api, opts),
		prices:     NewPriceAssembler(api, opts),
	}
}

// Build returns one PlanPriceDetails per item of the family, in the order
// the items were enumerated. Items are enriched with up to
// Options.Concurrency workers; the first fatal error cancels the rest.
func (b *Builder) Build(ctx context.Context, familyID string) ([]types.PlanPriceDetails, error) {
	start := time.Now()
	log := b.opts.Logger.With(zap.String("family_id", familyID))
	log.Info("Fetching data for product family")

	items, err := b.enumerator.Enumerate(ctx, familyID)
	if err != nil {
		return nil, err
	}

	// A fresh enricher per run keeps any coupon cache scoped to this run.
	enricher := NewEnricher(b.api, b.opts)

	plans := make([]types.PlanPriceDetails, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plan, err := b.buildPlan(gctx, enricher, familyID, item)
			if err != nil {
				return err
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("Completed fetching all plan details",
		zap.Int("count", len(plans)),
		zap.Duration("duration", time.Since(start)),
	)
	return plans, nil
}

func (b *Builder) buildPlan(ctx context.Context, enricher *Enricher, familyID string, item types.Item) (types.PlanPriceDetails, error) {
	b.opts.Logger.Debug("Processing item",
		zap.String("item_id", item.ID),
		zap.String("name", item.Name),
		zap.String("type", item.Type),
	)

	prices, err := b.prices.Assemble(ctx, item.ID)
	if err != nil {
		return types.PlanPriceDetails{}, err
	}

	plan := types.PlanPriceDetails{
		ItemID:     item.ID,
		ItemName:   item.Name,
		ItemType:   item.Type,
		ItemFamily: familyID,
		Prices:     prices,
		Metadata:   item.Metadata,
	}
	plan.Charges = enricher.Charges(ctx, item.ID)
	plan.Coupons = enricher.Coupons(ctx, familyID, item.ID)
	if err := ctx.Err(); err != nil {
		return types.PlanPriceDetails{}, err
	}

	b.opts.Logger.Debug("Adding plan details to results",
		zap.String("item_id", plan.ItemID),
		zap.Int("price_count", len(plan.Prices)),
		zap.Int("charge_count", len(plan.Charges)),
		zap.Int("coupon_count", len(plan.Coupons)),
	)
	return plan, nil
}

// ItemPrices looks up a single item and its prices
func (b *Builder) ItemPrices(ctx context.Context, itemID string) (*types.ItemPrices, error) {
	raw, err := b.api.RetrieveItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("retrieve item %s: %w", itemID, err)
	}
	b.opts.Logger.Info("Fetching prices for item", zap.String("item_id", itemID), zap.String("name", raw.Name))

	prices, err := b.prices.Assemble(ctx, itemID)
	if err != nil {
		return nil, err
	}

	return &types.ItemPrices{
		Item: types.Item{
			ID:       raw.ID,
			Name:     raw.Name,
			Type:     raw.Type,
			FamilyID: raw.ItemFamilyID,
		},
		Prices: prices,
	}, nil
}

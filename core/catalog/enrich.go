package catalog

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"chargebee-prices/core/billing"
	"chargebee-prices/core/types"
)

// Enricher looks up the charges and applicable coupons of an item.
// Every lookup is best effort: failures are logged and yield nil.
type Enricher struct {
	api      billing.API
	log      *zap.Logger
	failures FailureRecorder

	cacheCoupons bool
	couponsOnce  sync.Once
	coupons      []billing.RawCoupon
	couponsErr   error
}

// NewEnricher creates an enricher. With CacheCoupons set, the enricher
// fetches the coupon list once and must not outlive a single run.
func NewEnricher(api billing.API, opts Options) *Enricher {
	opts = opts.normalized()
	return &Enricher{
		api:          api,
		log:          opts.Logger,
		failures:     opts.Failures,
		cacheCoupons: opts.CacheCoupons,
	}
}

// Charges returns the charge records sharing the item's id. Charges are
// items of type "charge", so this queries the items collection with a
// compound id + type filter and can match at most one record.
func (e *Enricher) Charges(ctx context.Context, itemID string) []types.Charge {
	raws, err := e.api.ListItemsByTypeAndID(ctx, itemID, types.ItemTypeCharge, billing.DefaultListLimit)
	if err != nil {
		e.log.Warn("Could not fetch charges", zap.String("item_id", itemID), zap.Error(err))
		e.failures.SubfetchFailed(ResourceCharges)
		return nil
	}
	e.log.Debug("Retrieved charges", zap.String("item_id", itemID), zap.Int("count", len(raws)))
	if len(raws) == 0 {
		return nil
	}
	return lo.Map(raws, func(raw billing.RawItem, _ int) types.Charge {
		return billing.MapCharge(raw)
	})
}

// Coupons returns the active coupons applicable to the item
func (e *Enricher) Coupons(ctx context.Context, familyID, itemID string) []types.Coupon {
	raws, err := e.activeCoupons(ctx)
	if err != nil {
		e.log.Warn("Could not fetch coupons", zap.String("item_id", itemID), zap.Error(err))
		e.failures.SubfetchFailed(ResourceCoupons)
		return nil
	}

	applicable := lo.Filter(raws, func(c billing.RawCoupon, _ int) bool {
		applies := CouponApplies(c, familyID, itemID)
		e.log.Debug("Coupon applicability",
			zap.String("coupon_id", c.ID),
			zap.String("apply_on", c.ApplyOn),
			zap.String("item_id", itemID),
			zap.Bool("applies", applies),
		)
		return applies
	})
	e.log.Debug("Filtered applicable coupons", zap.String("item_id", itemID), zap.Int("count", len(applicable)))
	if len(applicable) == 0 {
		return nil
	}
	return lo.Map(applicable, func(c billing.RawCoupon, _ int) types.Coupon {
		return billing.MapCoupon(c)
	})
}

func (e *Enricher) activeCoupons(ctx context.Context) ([]billing.RawCoupon, error) {
	if !e.cacheCoupons {
		return e.api.ListCoupons(ctx, billing.CouponStatusActive, billing.DefaultListLimit)
	}
	e.couponsOnce.Do(func() {
		e.coupons, e.couponsErr = e.api.ListCoupons(ctx, billing.CouponStatusActive, billing.DefaultListLimit)
	})
	return e.coupons, e.couponsErr
}

// CouponApplies evaluates the coupon's applicability mode for an item:
// family membership for all_items_in_family, item membership for
// specific_items, and otherwise only all_items applies.
func CouponApplies(c billing.RawCoupon, familyID, itemID string) bool {
	switch c.ApplyOn {
	case types.ApplyOnAllItemsInFamily:
		return lo.Contains(c.ItemFamilyIDs, familyID)
	case types.ApplyOnSpecificItems:
		return lo.Contains(c.ItemIDs, itemID)
	default:
		return c.ApplyOn == types.ApplyOnAllItems
	}
}

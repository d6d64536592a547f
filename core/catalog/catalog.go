// Package catalog assembles the price report of an item family.
//
// The pipeline enumerates the items of a family, fans out per item to its
// prices, differential prices, charges and applicable coupons, and collects
// one PlanPriceDetails per item in enumeration order. Failures listing the
// family, its items or an item's prices abort the run; failures of the
// optional sub-fetches are logged and leave the field out.
package catalog

import (
	"go.uber.org/zap"

	"chargebee-prices/core/billing"
	"chargebee-prices/internal/logging"
)

// Sub-resources whose fetch failures are tolerated
const (
	ResourceDifferentialPrices = "differential_prices"
	ResourceCharges            = "charges"
	ResourceCoupons            = "coupons"
)

// MaxConcurrency bounds the number of items processed at once
const MaxConcurrency = 32

// FailureRecorder is notified of every tolerated sub-fetch failure
type FailureRecorder interface {
	SubfetchFailed(resource string)
}

type noopRecorder struct{}

func (noopRecorder) SubfetchFailed(string) {}

// Options configures a Builder
type Options struct {
	// PageLimit is the item page size (1..100)
	PageLimit int

	// Concurrency is the number of items enriched in parallel.
	// 1 processes items strictly one after another.
	Concurrency int

	// CacheCoupons fetches the active coupon list once per run instead of
	// once per item
	CacheCoupons bool

	Logger   *zap.Logger
	Failures FailureRecorder
}

// DefaultOptions returns the sequential reference behaviour
func DefaultOptions() Options {
	return Options{
		PageLimit:   billing.DefaultListLimit,
		Concurrency: 1,
	}
}

func (o Options) normalized() Options {
	if o.PageLimit <= 0 || o.PageLimit > billing.DefaultListLimit {
		o.PageLimit = billing.DefaultListLimit
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.Concurrency > MaxConcurrency {
		o.Concurrency = MaxConcurrency
	}
	o.Logger = logging.Or(o.Logger)
	if o.Failures == nil {
		o.Failures = noopRecorder{}
	}
	return o
}

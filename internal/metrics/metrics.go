// Package metrics exposes Prometheus instrumentation for billing API calls
// and tolerated catalog sub-fetch failures.
package metrics

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chargebee-prices/core/billing"
	cperrors "chargebee-prices/internal/errors"
)

const namespace = "chargebee_prices"

// Call outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Metrics holds the collectors of one registry
type Metrics struct {
	registry        *prometheus.Registry
	apiCalls        *prometheus.CounterVec
	apiLatency      *prometheus.HistogramVec
	subfetchFailure *prometheus.CounterVec
	runs            *prometheus.CounterVec
}

// New creates and registers the collectors on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "billing_api_calls_total",
			Help:      "Billing API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "billing_api_call_duration_seconds",
			Help:      "Billing API call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		subfetchFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_subfetch_failures_total",
			Help:      "Tolerated sub-fetch failures by resource.",
		}, []string{"resource"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_runs_total",
			Help:      "Catalog runs by mode and outcome.",
		}, []string{"mode", "outcome"}),
	}
	reg.MustRegister(
		m.apiCalls,
		m.apiLatency,
		m.subfetchFailure,
		m.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SubfetchFailed implements catalog.FailureRecorder
func (m *Metrics) SubfetchFailed(resource string) {
	m.subfetchFailure.WithLabelValues(resource).Inc()
}

// RunFinished records the outcome of a catalog run
func (m *Metrics) RunFinished(mode string, err error) {
	m.runs.WithLabelValues(mode, Outcome(err)).Inc()
}

// Outcome classifies an error into a low-cardinality label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case cperrors.IsType(err, cperrors.TypeNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	m.apiLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.apiCalls.WithLabelValues(op, Outcome(err)).Inc()
}

// Instrument wraps a billing API so every call is counted and timed
func (m *Metrics) Instrument(api billing.API) billing.API {
	return &instrumented{next: api, m: m}
}

type instrumented struct {
	next billing.API
	m    *Metrics
}

func (i *instrumented) done(op string) func(*error) {
	start := time.Now()
	return func(err *error) {
		i.m.observe(op, start, *err)
	}
}

func (i *instrumented) RetrieveFamily(ctx context.Context, familyID string) (_ *billing.Family, err error) {
	defer i.done("retrieve_family")(&err)
	return i.next.RetrieveFamily(ctx, familyID)
}

func (i *instrumented) RetrieveItem(ctx context.Context, itemID string) (_ *billing.RawItem, err error) {
	defer i.done("retrieve_item")(&err)
	return i.next.RetrieveItem(ctx, itemID)
}

func (i *instrumented) ListItems(ctx context.Context, req billing.ListItemsRequest) (_ *billing.ItemPage, err error) {
	defer i.done("list_items")(&err)
	return i.next.ListItems(ctx, req)
}

func (i *instrumented) ListItemPrices(ctx context.Context, itemID string, limit int) (_ []billing.RawItemPrice, err error) {
	defer i.done("list_item_prices")(&err)
	return i.next.ListItemPrices(ctx, itemID, limit)
}

func (i *instrumented) ListDifferentialPrices(ctx context.Context, itemPriceID string, limit int) (_ []billing.RawDifferentialPrice, err error) {
	defer i.done("list_differential_prices")(&err)
	return i.next.ListDifferentialPrices(ctx, itemPriceID, limit)
}

func (i *instrumented) ListItemsByTypeAndID(ctx context.Context, itemID, itemType string, limit int) (_ []billing.RawItem, err error) {
	defer i.done("list_items_by_type")(&err)
	return i.next.ListItemsByTypeAndID(ctx, itemID, itemType, limit)
}

func (i *instrumented) ListCoupons(ctx context.Context, status string, limit int) (_ []billing.RawCoupon, err error) {
	defer i.done("list_coupons")(&err)
	return i.next.ListCoupons(ctx, status, limit)
}

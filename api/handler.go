// Package api exposes the price reports to event and HTTP callers.
// The handler only validates input and orchestrates a catalog run.
package api

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargebee-prices/core/billing"
	"chargebee-prices/core/catalog"
	"chargebee-prices/core/types"
	cperrors "chargebee-prices/internal/errors"
	"chargebee-prices/internal/logging"
)

// Run modes
const (
	ModeFamily = "family"
	ModeDomain = "domain"
	ModeItem   = "item"
)

// RunRecorder is notified when a run finishes
type RunRecorder interface {
	RunFinished(mode string, err error)
}

type noopRuns struct{}

func (noopRuns) RunFinished(string, error) {}

// Handler runs catalog reports. Every call builds a fresh pipeline so
// nothing is shared between runs.
type Handler struct {
	api  billing.API
	opts catalog.Options
	runs RunRecorder
	log  *zap.Logger
}

// NewHandler creates a handler. runs may be nil.
func NewHandler(api billing.API, opts catalog.Options, runs RunRecorder, log *zap.Logger) *Handler {
	if runs == nil {
		runs = noopRuns{}
	}
	return &Handler{api: api, opts: opts, runs: runs, log: logging.Or(log)}
}

// HandleEvent produces the full report of the event's family
func (h *Handler) HandleEvent(ctx context.Context, ev Event) ([]types.PlanPriceDetails, error) {
	return h.FamilyPrices(ctx, ev.ItemFamilyID)
}

// FamilyPrices produces the full report of a family
func (h *Handler) FamilyPrices(ctx context.Context, familyID string) (plans []types.PlanPriceDetails, err error) {
	familyID = strings.TrimSpace(familyID)
	if familyID == "" {
		return nil, cperrors.Input("item family id is required")
	}

	b, done := h.start(ModeFamily, zap.String("family_id", familyID))
	defer func() { done(err) }()

	return b.Build(ctx, familyID)
}

// DomainPrices produces the price projection of one TLD
func (h *Handler) DomainPrices(ctx context.Context, familyID, tld string) (prices []types.DomainPriceInfo, err error) {
	familyID = strings.TrimSpace(familyID)
	tld = strings.TrimSpace(tld)
	if familyID == "" {
		return nil, cperrors.Input("item family id is required")
	}
	if tld == "" {
		return nil, cperrors.Input("domain TLD is required")
	}

	b, done := h.start(ModeDomain, zap.String("family_id", familyID), zap.String("tld", tld))
	defer func() { done(err) }()

	return b.DomainPrices(ctx, familyID, tld)
}

// ItemPrices looks up the prices of a single item
func (h *Handler) ItemPrices(ctx context.Context, itemID string) (item *types.ItemPrices, err error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, cperrors.Input("item id is required")
	}

	b, done := h.start(ModeItem, zap.String("item_id", itemID))
	defer func() { done(err) }()

	return b.ItemPrices(ctx, itemID)
}

func (h *Handler) start(mode string, fields ...zap.Field) (*catalog.Builder, func(error)) {
	log := h.log.With(append(fields, zap.String("run_id", uuid.NewString()), zap.String("mode", mode))...)
	opts := h.opts
	opts.Logger = log

	start := time.Now()
	log.Debug("Run started")
	return catalog.New(h.api, opts), func(err error) {
		h.runs.RunFinished(mode, err)
		if err != nil {
			log.Error("Run failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
			return
		}
		log.Info("Run completed", zap.Duration("duration", time.Since(start)))
	}
}

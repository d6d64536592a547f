package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chargebee-prices/core/billing"
	"chargebee-prices/core/types"
)

// Enumerator lists every item of a family
type Enumerator struct {
	api       billing.API
	pageLimit int
	log       *zap.Logger
}

// NewEnumerator creates an enumerator
func NewEnumerator(api billing.API, opts Options) *Enumerator {
	opts = opts.normalized()
	return &Enumerator{api: api, pageLimit: opts.PageLimit, log: opts.Logger}
}

// Enumerate verifies the family exists and pages through its items until
// the API stops returning a continuation offset. Items keep request order;
// an id seen on an earlier page is skipped.
func (e *Enumerator) Enumerate(ctx context.Context, familyID string) ([]types.Item, error) {
	family, err := e.api.RetrieveFamily(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("retrieve item family %s: %w", familyID, err)
	}
	e.log.Info("Found item family", zap.String("family_id", family.ID), zap.String("name", family.Name))

	items := []types.Item{}
	seen := make(map[string]struct{})
	offset := ""
	for page := 1; ; page++ {
		if offset != "" {
			e.log.Debug("Using pagination offset", zap.String("offset", offset))
		}
		resp, err := e.api.ListItems(ctx, billing.ListItemsRequest{
			FamilyID: familyID,
			Offset:   offset,
			Limit:    e.pageLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("list items of family %s (page %d): %w", familyID, page, err)
		}

		e.log.Debug("Item list page received",
			zap.Int("page", page),
			zap.Int("count", len(resp.Items)),
			zap.Bool("has_next_page", resp.NextOffset != ""),
		)

		for _, raw := range resp.Items {
			if _, dup := seen[raw.ID]; dup {
				e.log.Debug("Skipping duplicate item", zap.String("item_id", raw.ID))
				continue
			}
			seen[raw.ID] = struct{}{}
			items = append(items, billing.MapItem(raw))
		}

		if resp.NextOffset == "" {
			break
		}
		offset = resp.NextOffset
	}

	e.log.Info("Found items in the family", zap.String("family_id", familyID), zap.Int("count", len(items)))
	return items, nil
}

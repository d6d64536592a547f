package catalog

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"chargebee-prices/core/billing"
	cperrors "chargebee-prices/internal/errors"
)

// fakeAPI is an in-memory billing API. Items are served in pages of the
// requested limit with numeric offsets.
type fakeAPI struct {
	mu sync.Mutex

	families map[string]billing.Family
	items    map[string][]billing.RawItem
	prices   map[string][]billing.RawItemPrice
	diffs    map[string][]billing.RawDifferentialPrice
	charges  map[string][]billing.RawItem
	coupons  []billing.RawCoupon

	itemPricesErr map[string]error
	diffErr       map[string]error
	chargeErr     map[string]error
	couponErr     error
	listItemsErr  error

	calls map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		families:      map[string]billing.Family{},
		items:         map[string][]billing.RawItem{},
		prices:        map[string][]billing.RawItemPrice{},
		diffs:         map[string][]billing.RawDifferentialPrice{},
		charges:       map[string][]billing.RawItem{},
		itemPricesErr: map[string]error{},
		diffErr:       map[string]error{},
		chargeErr:     map[string]error{},
		calls:         map[string]int{},
	}
}

func (f *fakeAPI) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) addFamily(id string, items ...billing.RawItem) {
	f.families[id] = billing.Family{ID: id, Name: id + " family"}
	for i := range items {
		items[i].ItemFamilyID = id
	}
	f.items[id] = append(f.items[id], items...)
}

func (f *fakeAPI) RetrieveFamily(_ context.Context, familyID string) (*billing.Family, error) {
	f.record("RetrieveFamily")
	fam, ok := f.families[familyID]
	if !ok {
		return nil, cperrors.NotFound("item_family", familyID)
	}
	return &fam, nil
}

func (f *fakeAPI) RetrieveItem(_ context.Context, itemID string) (*billing.RawItem, error) {
	f.record("RetrieveItem")
	for _, items := range f.items {
		for _, item := range items {
			if item.ID == itemID {
				item := item
				return &item, nil
			}
		}
	}
	return nil, cperrors.NotFound("item", itemID)
}

func (f *fakeAPI) ListItems(_ context.Context, req billing.ListItemsRequest) (*billing.ItemPage, error) {
	f.record("ListItems")
	if f.listItemsErr != nil {
		return nil, f.listItemsErr
	}
	all := f.items[req.FamilyID]
	start := 0
	if req.Offset != "" {
		n, err := strconv.Atoi(req.Offset)
		if err != nil {
			return nil, fmt.Errorf("bad offset %q", req.Offset)
		}
		start = n
	}
	end := start + req.Limit
	if end > len(all) {
		end = len(all)
	}
	page := &billing.ItemPage{Items: append([]billing.RawItem(nil), all[start:end]...)}
	if end < len(all) {
		page.NextOffset = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakeAPI) ListItemPrices(_ context.Context, itemID string, _ int) ([]billing.RawItemPrice, error) {
	f.record("ListItemPrices")
	if err := f.itemPricesErr[itemID]; err != nil {
		return nil, err
	}
	return f.prices[itemID], nil
}

func (f *fakeAPI) ListDifferentialPrices(_ context.Context, itemPriceID string, _ int) ([]billing.RawDifferentialPrice, error) {
	f.record("ListDifferentialPrices")
	if err := f.diffErr[itemPriceID]; err != nil {
		return nil, err
	}
	return f.diffs[itemPriceID], nil
}

func (f *fakeAPI) ListItemsByTypeAndID(_ context.Context, itemID, itemType string, _ int) ([]billing.RawItem, error) {
	f.record("ListItemsByTypeAndID")
	if err := f.chargeErr[itemID]; err != nil {
		return nil, err
	}
	if itemType != "charge" {
		return nil, nil
	}
	return f.charges[itemID], nil
}

func (f *fakeAPI) ListCoupons(_ context.Context, status string, _ int) ([]billing.RawCoupon, error) {
	f.record("ListCoupons")
	if f.couponErr != nil {
		return nil, f.couponErr
	}
	if status != billing.CouponStatusActive {
		return nil, nil
	}
	return f.coupons, nil
}

type countingRecorder struct {
	mu       sync.Mutex
	failures map[string]int
}

func (r *countingRecorder) SubfetchFailed(resource string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures == nil {
		r.failures = map[string]int{}
	}
	r.failures[resource]++
}

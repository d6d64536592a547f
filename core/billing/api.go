// Package billing defines the billing API capability the catalog depends on
// and the raw records it returns. Monetary fields are minor-unit integers.
package billing

import "context"

// DefaultListLimit is the largest page the billing API returns
const DefaultListLimit = 100

// CouponStatusActive filters coupons that can currently be redeemed
const CouponStatusActive = "active"

// API is the remote billing platform
type API interface {
	// RetrieveFamily returns the item family or a NotFound error
	RetrieveFamily(ctx context.Context, familyID string) (*Family, error)

	// RetrieveItem returns a single item or a NotFound error
	RetrieveItem(ctx context.Context, itemID string) (*RawItem, error)

	// ListItems returns one page of the items of a family
	ListItems(ctx context.Context, req ListItemsRequest) (*ItemPage, error)

	// ListItemPrices returns the first page of prices of an item
	ListItemPrices(ctx context.Context, itemID string, limit int) ([]RawItemPrice, error)

	// ListDifferentialPrices returns the first page of differential prices of an item price
	ListDifferentialPrices(ctx context.Context, itemPriceID string, limit int) ([]RawDifferentialPrice, error)

	// ListItemsByTypeAndID queries the items collection with id[is] AND type[is]
	ListItemsByTypeAndID(ctx context.Context, itemID, itemType string, limit int) ([]RawItem, error)

	// ListCoupons returns the first page of coupons with the given status
	ListCoupons(ctx context.Context, status string, limit int) ([]RawCoupon, error)
}

// ListItemsRequest selects a page of items in a family
type ListItemsRequest struct {
	FamilyID string
	// Offset is the continuation cursor of the previous page
	Offset string
	Limit  int
}

// ItemPage is one page of the item listing
type ItemPage struct {
	Items []RawItem
	// NextOffset is empty on the last page
	NextOffset string
}

// Family is an item family
type Family struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// RawItem is an item as returned by the billing API.
// Price and CurrencyCode are only populated on some charge items.
type RawItem struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	ItemFamilyID string         `json:"item_family_id"`
	Status       string         `json:"status,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Price        *int64         `json:"price,omitempty"`
	CurrencyCode string         `json:"currency_code,omitempty"`
}

// RawItemPrice is an item price as returned by the billing API
type RawItemPrice struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ItemID          string `json:"item_id"`
	PricingModel    string `json:"pricing_model"`
	CurrencyCode    string `json:"currency_code"`
	Price           int64  `json:"price"`
	Period          *int   `json:"period,omitempty"`
	PeriodUnit      string `json:"period_unit,omitempty"`
	TrialPeriod     *int   `json:"trial_period,omitempty"`
	TrialPeriodUnit string `json:"trial_period_unit,omitempty"`
	FreeQuantity    *int   `json:"free_quantity,omitempty"`
}

// RawDifferentialPrice is a differential price as returned by the billing API
type RawDifferentialPrice struct {
	ID                string `json:"id"`
	ParentItemPriceID string `json:"parent_item_price_id"`
	ItemPriceID       string `json:"item_price_id,omitempty"`
	ParentItemID      string `json:"parent_item_id"`
	Price             int64  `json:"price"`
	CurrencyCode      string `json:"currency_code"`
}

// RawCoupon is a coupon as returned by the billing API
type RawCoupon struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	DiscountType       string   `json:"discount_type"`
	DiscountAmount     *int64   `json:"discount_amount,omitempty"`
	DiscountPercentage *float64 `json:"discount_percentage,omitempty"`
	DurationPeriod     *int     `json:"duration_period,omitempty"`
	DurationType       string   `json:"duration_type,omitempty"`
	MaxRedemptions     *int     `json:"max_redemptions,omitempty"`
	ValidTill          *int64   `json:"valid_till,omitempty"`
	Status             string   `json:"status,omitempty"`
	ApplyOn            string   `json:"apply_on"`
	ItemFamilyIDs      []string `json:"item_family_ids,omitempty"`
	ItemIDs            []string `json:"item_ids,omitempty"`
}

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon applicability modes
const (
	ApplyOnAllItemsInFamily = "all_items_in_family"
	ApplyOnSpecificItems    = "specific_items"
	ApplyOnAllItems         = "all_items"
)

// Item types used by the catalog
const (
	ItemTypePlan   = "plan"
	ItemTypeAddon  = "addon"
	ItemTypeCharge = "charge"
)

// DefaultPricingModel is applied when a price has no pricing model
const DefaultPricingModel = "flat_fee"

// Item is a sellable plan, addon or charge
type Item struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	FamilyID string         `json:"familyId"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Price is an item price in major currency units
type Price struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	PricingModel string          `json:"pricingModel"`
	CurrencyCode string          `json:"currencyCode"`
	Price        decimal.Decimal `json:"price"`

	Period          *int   `json:"period,omitempty"`
	PeriodUnit      string `json:"periodUnit,omitempty"`
	TrialPeriod     *int   `json:"trialPeriod,omitempty"`
	TrialPeriodUnit string `json:"trialPeriodUnit,omitempty"`
	FreeQuantity    *int   `json:"freeQuantity,omitempty"`

	// DifferentialPrices is nil when none were found or the lookup failed
	DifferentialPrices []DifferentialPrice `json:"differentialPrices,omitempty"`
}

// DifferentialPrice overrides a price when sold alongside a parent item
type DifferentialPrice struct {
	ID                string          `json:"id"`
	ParentItemPriceID string          `json:"parentItemPriceId"`
	Price             decimal.Decimal `json:"price"`
	CurrencyCode      string          `json:"currencyCode"`
	ParentItemID      string          `json:"parentItemId"`
}

// Charge is a billable item of type "charge"
type Charge struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
}

// ItemConstraints carries the raw applicability lists of a coupon
type ItemConstraints struct {
	ItemFamilyIDs []string `json:"itemFamilyIds,omitempty"`
	ItemIDs       []string `json:"itemIds,omitempty"`
}

// Coupon is a discount definition applicable to an item
type Coupon struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	DiscountType       string           `json:"discountType"`
	DiscountAmount     *decimal.Decimal `json:"discountAmount,omitempty"`
	DiscountPercentage *float64         `json:"discountPercentage,omitempty"`
	DurationPeriod     *int             `json:"durationPeriod,omitempty"`
	DurationType       string           `json:"durationType,omitempty"`
	MaxRedemptions     *int             `json:"maxRedemptions,omitempty"`
	ValidTill          *time.Time       `json:"validTill,omitempty"`
	ApplyOn            string           `json:"applyOn"`
	ItemConstraints    ItemConstraints  `json:"itemConstraints"`
}

// PlanPriceDetails is the aggregate record produced for every item of a family
type PlanPriceDetails struct {
	ItemID     string         `json:"itemId"`
	ItemName   string         `json:"itemName"`
	ItemType   string         `json:"itemType"`
	ItemFamily string         `json:"itemFamily"`
	Prices     []Price        `json:"prices"`
	Charges    []Charge       `json:"charges,omitempty"`
	Coupons    []Coupon       `json:"coupons,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// DomainPriceInfo is the flattened price view of a TLD
type DomainPriceInfo struct {
	ID       string          `json:"id"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

// ItemPrices is the result of a single-item price lookup
type ItemPrices struct {
	Item   Item    `json:"item"`
	Prices []Price `json:"prices"`
}

package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"chargebee-prices/core/types"
	"chargebee-prices/core/ui"
)

// CLIFormatter renders reports as terminal tables
type CLIFormatter struct {
	noColor bool
}

// NewCLIFormatter creates a table formatter
func NewCLIFormatter(noColor bool) *CLIFormatter {
	return &CLIFormatter{noColor: noColor}
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render implements Formatter
func (f *CLIFormatter) Render(out io.Writer, report *Report) error {
	w := ui.NewWriter(out, f.noColor)

	switch report.Kind {
	case KindDomain:
		f.renderDomain(w, report)
	case KindItem:
		f.renderItem(w, report)
	default:
		f.renderFamily(w, report)
	}

	if report.Duration > 0 {
		w.Println("")
		w.Dimmed("Completed in %s", report.Duration.Round(time.Millisecond))
	}
	return nil
}

func (f *CLIFormatter) renderFamily(w *ui.Writer, report *Report) {
	w.Header("Item family " + report.FamilyID)
	if len(report.Plans) == 0 {
		w.Warning("No items found")
		return
	}

	for _, plan := range report.Plans {
		w.SubHeader(fmt.Sprintf("%s (%s, %s)", plan.ItemName, plan.ItemID, plan.ItemType))
		priceTable(w, plan.Prices)

		if len(plan.Charges) > 0 {
			table := w.NewTable("Charge", "Name", "Price", "Currency")
			for _, c := range plan.Charges {
				table.AddRow(c.ID, c.Name, c.Price.StringFixed(2), c.CurrencyCode)
			}
			table.Render()
		}
		if len(plan.Coupons) > 0 {
			table := w.NewTable("Coupon", "Discount", "Applies to", "Valid till")
			for _, c := range plan.Coupons {
				table.AddRow(c.ID, discount(c), c.ApplyOn, validTill(c))
			}
			table.Render()
		}
		w.Println("")
	}
	w.Success("%d items", len(report.Plans))
}

func (f *CLIFormatter) renderDomain(w *ui.Writer, report *Report) {
	w.Header(fmt.Sprintf("Domain .%s in %s", report.TLD, report.FamilyID))
	if len(report.DomainPrices) == 0 {
		w.Warning("No prices found for .%s", report.TLD)
		return
	}
	table := w.NewTable("Price ID", "Price", "Currency")
	for _, p := range report.DomainPrices {
		table.AddRow(p.ID, p.Price.StringFixed(2), p.Currency)
	}
	table.Render()
	w.Println("")
	w.Success("%d prices", len(report.DomainPrices))
}

func (f *CLIFormatter) renderItem(w *ui.Writer, report *Report) {
	if report.Item == nil {
		w.Warning("No item")
		return
	}
	item := report.Item.Item
	w.Header(fmt.Sprintf("%s (%s)", item.Name, item.ID))
	w.Dimmed("Type %s, family %s", item.Type, item.FamilyID)
	priceTable(w, report.Item.Prices)
}

func priceTable(w *ui.Writer, prices []types.Price) {
	if len(prices) == 0 {
		w.Warning("No prices")
		return
	}
	table := w.NewTable("Price ID", "Model", "Price", "Currency", "Period", "Differential")
	for _, p := range prices {
		table.AddRow(p.ID, p.PricingModel, p.Price.StringFixed(2), p.CurrencyCode, period(p), differential(p))
	}
	table.Render()
}

func period(p types.Price) string {
	if p.Period == nil || p.PeriodUnit == "" {
		return ""
	}
	return fmt.Sprintf("%d %s", *p.Period, p.PeriodUnit)
}

func differential(p types.Price) string {
	parts := make([]string, 0, len(p.DifferentialPrices))
	for _, d := range p.DifferentialPrices {
		parts = append(parts, fmt.Sprintf("%s with %s", d.Price.StringFixed(2), d.ParentItemID))
	}
	return strings.Join(parts, ", ")
}

func discount(c types.Coupon) string {
	switch {
	case c.DiscountPercentage != nil:
		return fmt.Sprintf("%g%%", *c.DiscountPercentage)
	case c.DiscountAmount != nil:
		return c.DiscountAmount.StringFixed(2)
	default:
		return c.DiscountType
	}
}

func validTill(c types.Coupon) string {
	if c.ValidTill == nil {
		return ""
	}
	return c.ValidTill.Format("2006-01-02")
}

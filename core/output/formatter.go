// Package output renders price reports.
// JSON is the machine-readable report; cli is a table summary for humans.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"chargebee-prices/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCLI, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or cli)", s)
	}
}

// Kind identifies which report a Report carries
type Kind string

const (
	KindFamily Kind = "family"
	KindDomain Kind = "domain"
	KindItem   Kind = "item"
)

// Report is the result of one run
type Report struct {
	Kind     Kind
	FamilyID string
	TLD      string

	Plans        []types.PlanPriceDetails
	DomainPrices []types.DomainPriceInfo
	Item         *types.ItemPrices

	Duration time.Duration
}

// FamilyReport wraps a full family report
func FamilyReport(familyID string, plans []types.PlanPriceDetails) *Report {
	return &Report{Kind: KindFamily, FamilyID: familyID, Plans: plans}
}

// DomainReport wraps a TLD projection
func DomainReport(familyID, tld string, prices []types.DomainPriceInfo) *Report {
	return &Report{Kind: KindDomain, FamilyID: familyID, TLD: tld, DomainPrices: prices}
}

// ItemReport wraps a single-item lookup
func ItemReport(item *types.ItemPrices) *Report {
	return &Report{Kind: KindItem, Item: item}
}

// Payload returns the value serialized by machine-readable formats
func (r *Report) Payload() any {
	switch r.Kind {
	case KindDomain:
		if r.DomainPrices == nil {
			return []types.DomainPriceInfo{}
		}
		return r.DomainPrices
	case KindItem:
		return r.Item
	default:
		if r.Plans == nil {
			return []types.PlanPriceDetails{}
		}
		return r.Plans
	}
}

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Registry manages formatter registration
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry returns a registry with the json and cli formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(NewJSONFormatter())
	r.Register(NewCLIFormatter(true))
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// Formats lists the registered formats
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render looks up the formatter and renders the report
func (r *Registry) Render(w io.Writer, format Format, report *Report) error {
	f, ok := r.Get(format)
	if !ok {
		return fmt.Errorf("no formatter registered for %q", format)
	}
	return f.Render(w, report)
}

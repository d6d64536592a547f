package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargebee-prices/core/billing"
	cperrors "chargebee-prices/internal/errors"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = zap.NewNop()
	return opts
}

func makeItems(n int) []billing.RawItem {
	items := make([]billing.RawItem, n)
	for i := range items {
		items[i] = billing.RawItem{ID: fmt.Sprintf("item-%03d", i), Name: fmt.Sprintf("Item %d", i), Type: "plan"}
	}
	return items
}

func TestEnumeratePagination(t *testing.T) {
	tests := []struct {
		name      string
		items     int
		wantCalls int
	}{
		{name: "empty family", items: 0, wantCalls: 1},
		{name: "single partial page", items: 42, wantCalls: 1},
		{name: "exactly one page", items: 100, wantCalls: 1},
		{name: "two full pages", items: 200, wantCalls: 2},
		{name: "three pages", items: 250, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.addFamily("fam-1", makeItems(tt.items)...)

			items, err := NewEnumerator(api, testOptions()).Enumerate(context.Background(), "fam-1")
			require.NoError(t, err)
			require.Len(t, items, tt.items)
			assert.Equal(t, tt.wantCalls, api.count("ListItems"))

			for i, item := range items {
				assert.Equal(t, fmt.Sprintf("item-%03d", i), item.ID, "order must follow pages")
				assert.Equal(t, "fam-1", item.FamilyID)
			}
		})
	}
}

func TestEnumerateSkipsDuplicates(t *testing.T) {
	api := newFakeAPI()
	items := makeItems(3)
	items = append(items, billing.RawItem{ID: "item-001", Name: "again"})
	api.addFamily("fam-1", items...)

	got, err := NewEnumerator(api, testOptions()).Enumerate(context.Background(), "fam-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Item 1", got[1].Name)
}

func TestEnumerateUnknownFamily(t *testing.T) {
	api := newFakeAPI()

	_, err := NewEnumerator(api, testOptions()).Enumerate(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, cperrors.IsType(err, cperrors.TypeNotFound))
	assert.Zero(t, api.count("ListItems"), "no listing after a failed family lookup")
}

func TestEnumeratePageFailurePropagates(t *testing.T) {
	api := newFakeAPI()
	api.addFamily("fam-1", makeItems(5)...)
	api.listItemsErr = cperrors.Network("list items", fmt.Errorf("connection reset"))

	_, err := NewEnumerator(api, testOptions()).Enumerate(context.Background(), "fam-1")
	require.Error(t, err)
	assert.True(t, cperrors.IsType(err, cperrors.TypeNetwork))
	assert.Equal(t, 1, api.count("ListItems"), "no retry")
}

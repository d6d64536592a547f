package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"chargebee-prices/api"
	"chargebee-prices/core/output"
)

var itemFlags runFlags

// itemCmd reports the prices of a single item
var itemCmd = &cobra.Command{
	Use:   "item <itemId>",
	Short: "Report the prices of a single item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, &itemFlags, "Fetching "+args[0], func(ctx context.Context, h *api.Handler) (*output.Report, error) {
			item, err := h.ItemPrices(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return output.ItemReport(item), nil
		})
	},
}

func init() {
	itemFlags.register(itemCmd)
}

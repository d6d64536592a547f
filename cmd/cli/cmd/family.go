package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"chargebee-prices/api"
	"chargebee-prices/core/output"
)

var (
	familyFlags runFlags
	domainFlags runFlags
	familyTLD   string
)

// familyCmd reports every item of a family
var familyCmd = &cobra.Command{
	Use:   "family <familyId>",
	Short: "Report the prices, charges and coupons of every item in a family",
	Long: `Fetch every item of the family with its prices, differential prices,
charges and applicable coupons, and print the report as JSON.

With --domain, print only the prices of the items selling that TLD.

Examples:
  chargebee-prices family domains
  chargebee-prices family domains --concurrency 8 --cache-coupons
  chargebee-prices family domains --domain com --format cli`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		familyID := args[0]
		if cmd.Flags().Changed("domain") {
			return runDomain(cmd, &familyFlags, familyID, familyTLD)
		}
		return execute(cmd, &familyFlags, "Fetching "+familyID, func(ctx context.Context, h *api.Handler) (*output.Report, error) {
			plans, err := h.FamilyPrices(ctx, familyID)
			if err != nil {
				return nil, err
			}
			return output.FamilyReport(familyID, plans), nil
		})
	},
}

// domainCmd reports the prices of one TLD
var domainCmd = &cobra.Command{
	Use:   "domain <familyId> <tld>",
	Short: "Report the prices of the items selling a TLD",
	Long: `Build the family report and keep the prices of items selling the TLD.
An item sells the TLD when its "tld" metadata equals it or, without that
metadata, when its id starts with "<tld>-" or "<tld>domain-" or contains
"-<tld>-".

Examples:
  chargebee-prices domain domains com`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDomain(cmd, &domainFlags, args[0], args[1])
	},
}

func runDomain(cmd *cobra.Command, flags *runFlags, familyID, tld string) error {
	return execute(cmd, flags, "Fetching ."+tld+" prices", func(ctx context.Context, h *api.Handler) (*output.Report, error) {
		prices, err := h.DomainPrices(ctx, familyID, tld)
		if err != nil {
			return nil, err
		}
		return output.DomainReport(familyID, tld, prices), nil
	})
}

func init() {
	familyFlags.register(familyCmd)
	familyCmd.Flags().StringVar(&familyTLD, "domain", "", "only report prices of this TLD")
	domainFlags.register(domainCmd)
}

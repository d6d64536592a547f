// Package cmd provides the CLI commands for chargebee-prices.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chargebee-prices/internal/config"
	"chargebee-prices/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chargebee-prices",
	Short: "Report the prices of a Chargebee item family",
	Long: `chargebee-prices collects every item of a Chargebee product family with
its prices, differential prices, charges and applicable coupons.

Examples:
  chargebee-prices family domains
  chargebee-prices family domains --domain com
  chargebee-prices domain domains com
  chargebee-prices item com-1y --format cli
  echo '{"itemFamilyId":"domains"}' | chargebee-prices event -`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.json, .yaml, .toml or .hcl)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(familyCmd)
	rootCmd.AddCommand(domainCmd)
	rootCmd.AddCommand(itemCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chargebee-prices version %s\n", Version)
	},
}

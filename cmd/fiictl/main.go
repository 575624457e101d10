// fiictl runs the FII Sentinel engine over local snapshot files
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "fiictl",
		Short: "Technical indicators and trading signals for FIIs",
		Long: `fiictl computes technical indicators, trading signals, NAV arbitrage
opportunities and alert triggers from a YAML or JSON snapshot file.

The input document has the same field names as the HTTP API:

  assets:
    - ticker: HGLG11
      sector: Logístico
      current_price: 160.5
      dividend_yield: 8.4
  prices:
    HGLG11: [150.2, 151.0, 152.3]
  alerts:
    - ticker: HGLG11
      type: PRICE
      condition: above
      target_value: 160`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "-", "Input file (YAML or JSON), - for stdin")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", formatJSON, "Output format: json or yaml")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&opts.workers, "workers", 4, "Parallel workers for the signal scan")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(indicatorsCmd(opts))
	rootCmd.AddCommand(signalCmd(opts))
	rootCmd.AddCommand(arbitrageCmd(opts))
	rootCmd.AddCommand(alertsCmd(opts))
	rootCmd.AddCommand(strategiesCmd(opts))

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fiictl version %s\n", version)
		},
	}
}

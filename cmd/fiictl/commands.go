package main

import (
	"os"

	"github.com/aristath/fiisentinel/internal/domain"
	"github.com/aristath/fiisentinel/internal/modules/alerts"
	"github.com/aristath/fiisentinel/internal/modules/arbitrage"
	"github.com/aristath/fiisentinel/internal/modules/indicators"
	"github.com/aristath/fiisentinel/internal/modules/signals"
	"github.com/aristath/fiisentinel/internal/modules/strategies"
	"github.com/aristath/fiisentinel/internal/scanner"
	"github.com/aristath/fiisentinel/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	file     string
	output   string
	logLevel string
	workers  int
}

func (o *globalOptions) logger() zerolog.Logger {
	return logger.Component(logger.New(logger.Config{
		Level:  o.logLevel,
		Pretty: true,
		Output: os.Stderr,
	}), "fiictl")
}

// IndicatorsResult pairs a ticker with its computed indicators
type IndicatorsResult struct {
	Ticker     string                      `json:"ticker"`
	Indicators *domain.TechnicalIndicators `json:"indicators,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

func indicatorsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "Compute RSI, MACD, moving averages, Bollinger Bands and yield metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(opts.file)
			if err != nil {
				return err
			}

			svc := indicators.NewService(opts.logger())
			out := make([]IndicatorsResult, 0, len(in.Assets))
			for _, asset := range in.Assets {
				res := IndicatorsResult{Ticker: asset.Ticker}
				ind, err := svc.ComputeIndicators(asset, in.Prices[asset.Ticker])
				if err != nil {
					res.Error = err.Error()
				} else {
					res.Indicators = &ind
				}
				out = append(out, res)
			}

			return render(cmd.OutOrStdout(), opts.output, out)
		},
	}
}

func signalCmd(opts *globalOptions) *cobra.Command {
	var actionableOnly bool

	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Generate a consolidated trading signal per asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(opts.file)
			if err != nil {
				return err
			}

			log := opts.logger()
			pool := scanner.NewWorkerPool(opts.workers, indicators.NewService(log), signals.NewEngine())

			inputs := make([]scanner.Input, 0, len(in.Assets))
			for _, asset := range in.Assets {
				inputs = append(inputs, scanner.Input{Asset: asset, Prices: in.Prices[asset.Ticker]})
			}

			results := pool.ScanBatch(inputs)
			if actionableOnly {
				filtered := make([]scanner.Result, 0, len(results))
				for _, r := range results {
					if r.OK() && r.Signal.IsActionable() {
						filtered = append(filtered, r)
					}
				}
				results = filtered
			}

			return render(cmd.OutOrStdout(), opts.output, results)
		},
	}

	cmd.Flags().BoolVar(&actionableOnly, "actionable", false, "Only print BUY and SELL signals")
	return cmd
}

func arbitrageCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "arbitrage",
		Short: "Find funds trading at a premium or discount to estimated NAV",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(opts.file)
			if err != nil {
				return err
			}

			detector := arbitrage.NewDetector(opts.logger())
			return render(cmd.OutOrStdout(), opts.output, detector.FindOpportunities(in.Assets))
		},
	}
}

func alertsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate the alerts in the input against its assets",
		Long: `Evaluate the alerts listed in the input document against its assets and
print the alerts that trigger. Alerts already marked triggered never fire again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := loadInput(opts.file)
			if err != nil {
				return err
			}

			for _, a := range in.Alerts {
				if err := a.Validate(); err != nil {
					return err
				}
			}

			evaluator := alerts.NewEvaluator(opts.logger())
			_, triggered := evaluator.Evaluate(in.Assets, in.Alerts)
			return render(cmd.OutOrStdout(), opts.output, triggered)
		},
	}
}

func strategiesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies [id]",
		Short: "List the built-in strategies or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := strategies.NewCatalog(opts.logger())
			if len(args) == 0 {
				return render(cmd.OutOrStdout(), opts.output, catalog.List())
			}

			s, err := catalog.Get(args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts.output, s)
		},
	}

	cmd.AddCommand(summaryCmd(opts))
	return cmd
}

// SummaryInput is the document read by "strategies summary"
type SummaryInput struct {
	Period string                     `json:"period"`
	Trades []strategies.BacktestTrade `json:"trades"`
}

func summaryCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <id>",
		Short: "Summarize backtest trades for a strategy",
		Long: `Compute return, volatility, Sharpe ratio, max drawdown and win rate for
a list of trades. The input document holds "period" and "trades".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := strategies.NewCatalog(opts.logger())
			s, err := catalog.Get(args[0])
			if err != nil {
				return err
			}

			data, err := readSource(opts.file)
			if err != nil {
				return err
			}
			var in SummaryInput
			if err := decodeDocument(data, &in); err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), opts.output, strategies.SummarizeTrades(s, in.Period, in.Trades))
		},
	}
}

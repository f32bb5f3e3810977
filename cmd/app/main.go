package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"FinSignal/internal/di"
	"FinSignal/internal/domain/models"
	"FinSignal/pkg/config"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "finsignal",
		Short: "Multi-timeframe trading signal engine",
		Long: `finsignal scores configured instruments across several timeframes,
filters the opportunities against open positions and publishes the result.

Examples:
  finsignal serve --config configs/config.yaml
  finsignal once`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "config file path")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run scheduled analysis cycles and serve the HTTP API",
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "once",
			Short: "Run a single analysis cycle and print the result",
			RunE:  once,
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}

func once(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := app.RunOnce(ctx)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

func printResult(w io.Writer, res *models.CycleResult) {
	fmt.Fprintf(w, "\nAnalyzed %d instruments in %s, skipped %d, emitted %d\n\n",
		res.Analyzed, res.Duration.Round(time.Millisecond), len(res.Skipped), len(res.Emitted))

	if len(res.Emitted) > 0 {
		table := tablewriter.NewTable(w,
			tablewriter.WithHeader([]string{"Instrument", "Action", "Confidence", "Score", "Entry", "Target", "Stop", "Agreed"}),
		)
		for _, s := range res.Emitted {
			table.Append([]string{
				s.Instrument,
				string(s.Action),
				string(s.Confidence),
				fmt.Sprintf("%.3f", s.TotalScore),
				fmt.Sprintf("%.4f", s.EntryPrice),
				fmt.Sprintf("%.4f", s.TargetPrice),
				fmt.Sprintf("%.4f", s.StopLoss),
				fmt.Sprintf("%t", s.FullyAgreed),
			})
		}
		table.Render()
	}

	if len(res.Dropped) > 0 {
		parts := make([]string, 0, len(res.Dropped))
		for stage, n := range res.Dropped {
			parts = append(parts, fmt.Sprintf("%s=%d", stage, n))
		}
		sort.Strings(parts)
		fmt.Fprintf(w, "\nDropped: %s\n", strings.Join(parts, " "))
	}

	if len(res.Attention) > 0 {
		fmt.Fprintln(w)
		table := tablewriter.NewTable(w,
			tablewriter.WithHeader([]string{"Instrument", "Side", "Reason", "Detail"}),
		)
		for _, f := range res.Attention {
			table.Append([]string{f.Position.Instrument, string(f.Position.Side), string(f.Reason), f.Detail})
		}
		table.Render()
	}

	fmt.Fprintln(w)
}

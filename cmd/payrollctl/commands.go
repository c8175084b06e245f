package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go-erp/internal/app"
	"go-erp/internal/bootstrap"
	"go-erp/internal/payroll"
	"go-erp/internal/taxbracket"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Batch payroll operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "conf", "", "path to configuration file")

	root.AddCommand(newGenerateCmd(opts), newAggregateCmd(opts), newTaxCmd(opts))
	return root
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		period  string
		runDate string
		replace bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the payroll run for a month",
		Example: "  payrollctl generate --period 2023-02\n" +
			"  payrollctl generate --period 2023-02 --replace",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := payroll.ParseRunRequest(payroll.CreateRunRequest{Period: period, RunDate: runDate, Replace: replace})
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), opts, func(ctx context.Context, svc *app.Services) error {
				res, err := svc.Payroll.GenerateRun(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), payroll.NewGenerateRunResponse(res))
			})
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "pay period as YYYY-MM")
	cmd.Flags().StringVar(&runDate, "run-date", "", "run date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete an existing run for the period first")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}

func newAggregateCmd(opts *rootOptions) *cobra.Command {
	var runID uint64
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Recompute a run's totals from its entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID == 0 {
				return errors.New("--run-id must be a positive number")
			}
			return withServices(cmd.Context(), opts, func(ctx context.Context, svc *app.Services) error {
				resp, err := svc.Payroll.Aggregate(ctx, runID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().Uint64Var(&runID, "run-id", 0, "payroll run id")
	_ = cmd.MarkFlagRequired("run-id")
	return cmd
}

func newTaxCmd(opts *rootOptions) *cobra.Command {
	var (
		year   int
		income string
	)
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Preview annual tax for an income using the published brackets",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(income)
			if err != nil {
				return errors.New("--income must be a decimal number")
			}
			return withServices(cmd.Context(), opts, func(ctx context.Context, svc *app.Services) error {
				resp, err := svc.TaxBracket.Calculate(ctx, taxbracket.CalculateTaxRequest{TaxYear: year, AnnualIncome: amount})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "tax year")
	cmd.Flags().StringVar(&income, "income", "", "annual income")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("income")
	return cmd
}

func withServices(parent context.Context, opts *rootOptions, fn func(ctx context.Context, svc *app.Services) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := app.Setup(opts.configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	infra, err := app.NewInfra(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	svc, err := app.NewServices(infra, bootstrap.NewZapAuditLogger(logger))
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

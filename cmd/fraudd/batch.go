package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/supplyshield/riskengine/internal/infrastructure/csvio"
)

func importCommand(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Score a CSV batch of financing events",
		Long: "Score every row of a CSV batch with columns " +
			"invoice_no,amount,supplier,buyer,lender and print the summary as JSON.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), opts, file, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "CSV file to import, - for stdin")
	return cmd
}

func runImport(ctx context.Context, opts *globalOptions, file string, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := loadConfig(opts, stderr)
	if err != nil {
		return err
	}

	in := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open batch: %w", err)
		}
		defer f.Close()
		in = f
	}
	rows, err := csvio.ReadFinancingRows(in)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	// duplicates must be judged against everything already on record
	if err := a.restoreRelationships(ctx); err != nil {
		return err
	}

	result, runErr := a.importFinancing.Execute(ctx, rows)
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to write summary: %w", err))
	}
	if err := a.flushOutbox(ctx); err != nil {
		// the events stay in the outbox for the next relay
		logger.Warn("events not yet published", "error", err)
	}
	if runErr != nil {
		return fmt.Errorf("import stopped after %d rows: %w", result.Processed, runErr)
	}
	logger.Info("import finished",
		"processed", result.Processed,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"fraud", result.Fraud,
	)
	return nil
}

func exportCommand(opts *globalOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the transaction report as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), opts, out, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "destination file, - for stdout")
	return cmd
}

func runExport(ctx context.Context, opts *globalOptions, out string, stdout, stderr io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := loadConfig(opts, stderr)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	rows, err := a.exportRows.Execute(ctx)
	if err != nil {
		return err
	}

	w := stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close report: %w", cerr)
			}
		}()
		w = f
	}
	if err := csvio.WriteTransactionReport(w, rows); err != nil {
		return err
	}
	logger.Info("export finished", "rows", len(rows), "out", out)
	return nil
}

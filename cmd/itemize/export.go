package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/config"
	"github.com/Veraticus/hotel-itemizer/internal/engine"
	"github.com/Veraticus/hotel-itemizer/internal/model"
	"github.com/Veraticus/hotel-itemizer/internal/sheets"
)

// resultWriter is satisfied by sheets.Writer and sheets.MockWriter.
type resultWriter interface {
	Write(ctx context.Context, result model.ItemizationResult) (string, error)
}

// newSheetsWriter is replaced in tests.
var newSheetsWriter = func(ctx context.Context) (resultWriter, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, err
	}
	writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a saved run",
	}

	cmd.AddCommand(exportSheetsCmd())
	cmd.AddCommand(exportPDFCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <run-id>",
		Short: "Write a saved run to Google Sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out, err := loadExportable(cmd, args[0])
			if err != nil {
				return err
			}

			writer, err := newSheetsWriter(ctx)
			if err != nil {
				return fmt.Errorf("failed to configure Google Sheets: %w", err)
			}

			id, err := writer.Write(ctx, *out.Result)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported to spreadsheet "+id))
			return nil
		},
	}
}

func exportPDFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf <run-id>",
		Short: "Render a saved run as a PDF summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := loadExportable(cmd, args[0])
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("output")
			if path == "" {
				path = fmt.Sprintf("itemization-%s.pdf", out.RunID)
			}
			if err := writePDF(path, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote "+path))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "PDF file (default: itemization-<run-id>.pdf)")
	return cmd
}

// loadExportable loads a run that produced an itemization result.
func loadExportable(cmd *cobra.Command, id string) (*engine.Outcome, error) {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore(store)

	_, out, err := loadOutcome(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, fmt.Errorf("run %s stopped at stage %s and has no itemization to export", id, out.Stage)
	}
	return out, nil
}

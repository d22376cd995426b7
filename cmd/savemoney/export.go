package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/savemoney/internal/cli"
	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/export"
	"github.com/Veraticus/savemoney/internal/model"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal to an XLSX workbook",
		RunE:  runExport,
	}
	cmd.Flags().String("from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringP("output", "o", "", "output file (default: savemoney-<date>.xlsx)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(model.DateLayout, d); err != nil {
			return common.NewUserError("日期格式无效，应为YYYY-MM-DD", fmt.Errorf("%w: %q", common.ErrInvalidConfig, d))
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = fmt.Sprintf("savemoney-%s.xlsx", time.Now().Format(model.DateLayout))
	}

	journal, err := initJournal(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	data, err := export.NewService(journal, slog.Default()).ExpensesXLSX(ctx, from, to)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("已导出到 "+output))
	return nil
}

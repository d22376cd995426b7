package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/savemoney/internal/cli"
	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/sheets"
	"github.com/Veraticus/savemoney/internal/storage"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved records",
		Long: `List saved records from the local journal, or from the ledger with --ledger.
Journal listings can be filtered by category and date range.`,
		RunE: runList,
	}
	cmd.Flags().IntP("limit", "n", 20, "maximum number of records")
	cmd.Flags().Bool("ledger", false, "read from the ledger instead of the journal")
	cmd.Flags().String("category", "", "only this category")
	cmd.Flags().String("from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().Bool("unsynced", false, "only records not yet written to the ledger")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	if useLedger, _ := cmd.Flags().GetBool("ledger"); useLedger {
		ledger, err := initLedger(ctx)
		if err != nil {
			return err
		}
		rows, err := ledger.ListExpenses(ctx, limit)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRows(rows))
		return err
	}

	filter := storage.Filter{Limit: limit}
	filter.From, _ = cmd.Flags().GetString("from")
	filter.To, _ = cmd.Flags().GetString("to")
	filter.Unsynced, _ = cmd.Flags().GetBool("unsynced")
	if name, _ := cmd.Flags().GetString("category"); name != "" {
		c, ok := model.ParseCategory(name)
		if !ok {
			return common.NewUserError("无效的分类: "+name, nil)
		}
		filter.Category = c
	}

	journal, err := initJournal(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	expenses, err := journal.ListExpenses(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([]sheets.ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		id := e.ID
		if e.LedgerID != nil {
			id = *e.LedgerID
		}
		rows = append(rows, sheets.RowFromRecord(id, e.Record))
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRows(rows))
	return err
}

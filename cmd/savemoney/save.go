package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/savemoney/internal/cli"
	"github.com/Veraticus/savemoney/internal/model"
)

func saveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <text>",
		Short: "Extract an expense record from text and save it",
		Long: `Extract an expense record from text and save it to the ledger and the
local journal. With --interactive the record is shown first so open questions
can be answered and suggestions accepted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSave,
	}
	cmd.Flags().BoolP("interactive", "i", false, "review and correct the record before saving")
	return cmd
}

func runSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	engine, err := newEngine(nil)
	if err != nil {
		return err
	}
	rec := engine.Process(ctx, joinArgs(args))

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		reviewed, ok, err := prompter.Review(ctx, rec)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("已放弃，未保存"))
			return nil
		}
		rec = reviewed
	} else if err := printRecord(cmd.OutOrStdout(), rec, false); err != nil {
		return err
	}

	return persist(cmd, rec)
}

// persist saves rec to the configured ledger and the journal.
func persist(cmd *cobra.Command, rec model.ExpenseRecord) error {
	ctx := cmd.Context()

	ledger, err := initLedger(ctx)
	if err != nil {
		return err
	}
	journal, err := initJournal(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	result, err := saveRecord(ctx, ledger, journal, rec)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("记账成功 #%d", result.Row.ID)
	if result.Simulated {
		msg += "（模拟模式）"
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
	return nil
}

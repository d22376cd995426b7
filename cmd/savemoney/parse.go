package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/savemoney/internal/cli"
	"github.com/Veraticus/savemoney/internal/model"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Extract an expense record from text without saving it",
		Example: `  savemoney parse 今天中午吃饭花了二十五块钱
  savemoney parse --json 打车回家花了三十八块五`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := newEngine(nil)
			if err != nil {
				return err
			}
			rec := engine.Process(cmd.Context(), joinArgs(args))

			asJSON, _ := cmd.Flags().GetBool("json")
			return printRecord(cmd.OutOrStdout(), rec, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "print the record as JSON")
	return cmd
}

func printRecord(w io.Writer, rec model.ExpenseRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(rec)
	}

	content := cli.RenderRecord(rec)
	for _, q := range rec.ConfirmationQuestions {
		content += "\n" + cli.WarningStyle.Render(cli.WarningIcon+" "+q)
	}
	if _, err := fmt.Fprintln(w, cli.RenderBox("解析结果", content)); err != nil {
		return err
	}
	if len(rec.Suggestions) > 0 {
		if _, err := fmt.Fprintln(w, cli.FormatPrompt("分类建议:")+"\n"+cli.RenderSuggestions(rec.Suggestions)); err != nil {
			return err
		}
	}
	return nil
}

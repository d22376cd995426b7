package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/Veraticus/savemoney/internal/cli"
	"github.com/Veraticus/savemoney/internal/metrics"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/sheets"
	"github.com/Veraticus/savemoney/internal/storage"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Process one utterance per line from a file",
		Long: `Process one utterance per line from a file. Blank lines and lines starting
with # are skipped. Records are printed as JSON lines to --output when given and
saved when --save is set.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}
	cmd.Flags().Bool("save", false, "save every record")
	cmd.Flags().StringP("output", "o", "", "write records as JSON lines to this file")
	return cmd
}

func readUtterances(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func runBatch(cmd *cobra.Command, args []string) error {
	lines, err := readUtterances(args[0])
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("文件中没有可处理的内容"))
		return nil
	}

	var done atomic.Int64
	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), func() (int, int) {
		return int(done.Load()), len(lines)
	})

	m := metrics.New()
	engine, err := newEngine(m)
	if err != nil {
		return err
	}

	save, _ := cmd.Flags().GetBool("save")
	var (
		ledger  sheets.Store
		journal *storage.SQLiteStorage
	)
	if save {
		if ledger, err = initLedger(ctx); err != nil {
			return err
		}
		if journal, err = initJournal(ctx); err != nil {
			return err
		}
		defer func() { _ = journal.Close() }()
	}

	var enc *json.Encoder
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path) // #nosec G304
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		enc = json.NewEncoder(f)
		enc.SetEscapeHTML(false)
	}

	bar := cli.NewProgressBar(len(lines), cmd.ErrOrStderr(), "处理记账文本...")
	totals := make(map[model.Category]int)
	var confirm, saved int

	for _, line := range lines {
		if ctx.Err() != nil {
			break
		}
		rec := engine.Process(ctx, line)
		totals[rec.Category]++
		if rec.NeedsConfirmation {
			confirm++
		}

		if enc != nil {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("failed to write record: %w", err)
			}
		}
		if save {
			if _, err := saveRecord(ctx, ledger, journal, rec); err != nil {
				_ = bar.Clear()
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatError(fmt.Sprintf("%s: %v", line, err)))
			} else {
				saved++
			}
		}

		done.Add(1)
		_ = bar.Add(1)
	}

	summary := fmt.Sprintf("%s 共处理 %d/%d 条\n", cli.ChartIcon, done.Load(), len(lines))
	for _, c := range model.Categories {
		if n := totals[c]; n > 0 {
			summary += fmt.Sprintf("  • %s: %d\n", c, n)
		}
	}
	summary += fmt.Sprintf("  • 需要确认: %d\n", confirm)
	if save {
		summary += fmt.Sprintf("  • 已保存: %d\n", saved)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("批量处理完成", summary))

	if handler.WasInterrupted() {
		return ctx.Err()
	}
	return nil
}

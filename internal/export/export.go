// Package export renders the local journal as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/savemoney/internal/sheets"
	"github.com/Veraticus/savemoney/internal/storage"
)

const (
	expensesSheet = "支出"
	summarySheet  = "汇总"
)

// Journal is the read side of the local journal.
type Journal interface {
	ListExpenses(ctx context.Context, f storage.Filter) ([]storage.Expense, error)
	TotalsByCategory(ctx context.Context, from, to string) ([]storage.CategoryTotal, error)
}

// Service produces XLSX exports of the journal.
type Service struct {
	journal Journal
	logger  *slog.Logger
}

// NewService creates an export service.
func NewService(journal Journal, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{journal: journal, logger: logger}
}

// ExpensesXLSX returns a workbook of every entry in the inclusive date range
// (empty bounds are open) plus a per-category summary sheet.
func (s *Service) ExpensesXLSX(ctx context.Context, from, to string) ([]byte, error) {
	start := time.Now()

	expenses, err := s.journal.ListExpenses(ctx, storage.Filter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	totals, err := s.journal.TotalsByCategory(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", expensesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	headers := append(append([]any{}, sheets.Headers...), "置信度")
	if err := f.SetSheetRow(expensesSheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, e := range expenses {
		ledgerID := e.ID
		if e.LedgerID != nil {
			ledgerID = *e.LedgerID
		}
		row := sheets.RowFromRecord(ledgerID, e.Record).Values()
		row = append(row, e.Record.Confidence)

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(expensesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(expensesSheet, "A", "A", 16)
	_ = f.SetColWidth(expensesSheet, "B", "E", 12)
	_ = f.SetColWidth(expensesSheet, "F", "F", 28)
	_ = f.SetColWidth(expensesSheet, "J", "J", 40)
	if err := f.SetPanes(expensesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	if err := writeSummary(f, totals); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(expenses),
		"elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, totals []storage.CategoryTotal) error {
	header := []any{"分类", "笔数", "合计"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return err
	}

	for i, t := range totals {
		row := []any{string(t.Category), t.Count, t.Total.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	if len(totals) > 0 {
		last := len(totals) + 1
		labelCell, _ := excelize.CoordinatesToCellName(1, last+1)
		if err := f.SetCellValue(summarySheet, labelCell, "总计"); err != nil {
			return err
		}
		for col, letter := range map[int]string{2: "B", 3: "C"} {
			cell, _ := excelize.CoordinatesToCellName(col, last+1)
			if err := f.SetCellFormula(summarySheet, cell, fmt.Sprintf("SUM(%s2:%s%d)", letter, letter, last)); err != nil {
				return err
			}
		}
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
)

// Expense is a journal entry: a saved record plus bookkeeping columns.
type Expense struct {
	CreatedAt time.Time           `json:"created_at"`
	SyncedAt  *time.Time          `json:"synced_at,omitempty"`
	LedgerID  *int64              `json:"ledger_id,omitempty"`
	Record    model.ExpenseRecord `json:"record"`
	ID        int64               `json:"id"`
}

// Filter narrows ListExpenses. Zero fields match everything.
type Filter struct {
	Category model.Category
	From     string
	To       string
	Limit    int
	Unsynced bool
}

const expenseColumns = `id, amount, category, subcategory, description, date, type, payment_method,
	raw_text, is_daily, is_necessary, confidence, source, ledger_id, synced_at, created_at`

// SaveExpense stores rec and returns its journal ID.
func (s *SQLiteStorage) SaveExpense(ctx context.Context, rec model.ExpenseRecord) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (amount, category, subcategory, description, date, type, payment_method,
			raw_text, is_daily, is_necessary, confidence, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Amount.String(), string(rec.Category), rec.Subcategory, rec.Description, rec.Date,
		string(rec.Type), string(rec.PaymentMethod), rec.RawText, string(rec.IsDaily),
		string(rec.IsNecessary), rec.Confidence, string(rec.Source), s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read expense id: %w", err)
	}
	return id, nil
}

// MarkSynced records the ledger row an entry was written to.
func (s *SQLiteStorage) MarkSynced(ctx context.Context, id, ledgerID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET ledger_id = ?, synced_at = ? WHERE id = ?`,
		ledgerID, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark expense %d synced: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// GetExpense returns one journal entry.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpenses returns entries newest first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, f Filter) ([]Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if f.Limit < 0 {
		return nil, ErrInvalidLimit
	}

	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	if f.From != "" {
		where = append(where, "date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "date <= ?")
		args = append(args, f.To)
	}
	if f.Unsynced {
		where = append(where, "synced_at IS NULL")
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return out, nil
}

// CategoryTotal is the sum of journal amounts for one category.
type CategoryTotal struct {
	Category model.Category
	Total    decimal.Decimal
	Count    int
}

// TotalsByCategory sums amounts per category over an inclusive date range.
// Amounts are summed as decimals, not in SQL, to stay exact.
func (s *SQLiteStorage) TotalsByCategory(ctx context.Context, from, to string) ([]CategoryTotal, error) {
	expenses, err := s.ListExpenses(ctx, Filter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	totals := make(map[model.Category]*CategoryTotal)
	for _, e := range expenses {
		if e.Record.Type == model.TypeIncome {
			continue
		}
		t, ok := totals[e.Record.Category]
		if !ok {
			t = &CategoryTotal{Category: e.Record.Category}
			totals[e.Record.Category] = t
		}
		t.Total = t.Total.Add(e.Record.Amount)
		t.Count++
	}

	out := make([]CategoryTotal, 0, len(totals))
	for _, c := range model.Categories {
		if t, ok := totals[c]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(sc scanner) (*Expense, error) {
	var (
		e        Expense
		amount   string
		ledgerID sql.NullInt64
		syncedAt sql.NullTime
	)
	r := &e.Record
	err := sc.Scan(&e.ID, &amount, &r.Category, &r.Subcategory, &r.Description, &r.Date, &r.Type,
		&r.PaymentMethod, &r.RawText, &r.IsDaily, &r.IsNecessary, &r.Confidence, &r.Source,
		&ledgerID, &syncedAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	r.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	if ledgerID.Valid {
		id := ledgerID.Int64
		e.LedgerID = &id
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		e.SyncedAt = &t
	}
	return &e, nil
}

package sheets

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/savemoney/internal/model"
)

// MemoryStore is the simulated ledger used when no spreadsheet is configured.
// Rows live only as long as the process.
type MemoryStore struct {
	logger *slog.Logger
	now    func() time.Time
	rows   []ExpenseRow
	mu     sync.Mutex
}

// NewMemoryStore creates an empty simulated ledger.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{logger: logger, now: time.Now}
}

// AppendExpense validates and stores rec.
func (m *MemoryStore) AppendExpense(ctx context.Context, rec model.ExpenseRecord) (SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return SaveResult{}, err
	}
	if err := ValidateRecord(rec); err != nil {
		return SaveResult{}, err
	}

	row := RowFromRecord(NewRecordID(m.now()), rec)

	m.mu.Lock()
	m.rows = append(m.rows, row)
	m.mu.Unlock()

	m.logger.Info("simulated ledger append",
		"id", row.ID,
		"amount", row.Amount.String(),
		"category", row.Category)

	return SaveResult{Row: row, Simulated: true}, nil
}

// ListExpenses returns up to limit rows, newest first. A non-positive limit returns all.
func (m *MemoryStore) ListExpenses(_ context.Context, limit int) ([]ExpenseRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return newestFirst(m.rows, limit), nil
}

// TestConnection always succeeds.
func (m *MemoryStore) TestConnection(context.Context) error {
	return nil
}

// Simulated reports true.
func (m *MemoryStore) Simulated() bool {
	return true
}

func newestFirst(rows []ExpenseRow, limit int) []ExpenseRow {
	n := len(rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ExpenseRow, 0, n)
	for i := len(rows) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, rows[i])
	}
	return out
}

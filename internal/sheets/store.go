package sheets

import (
	"context"

	"github.com/Veraticus/savemoney/internal/model"
)

// Store persists expense records to a ledger.
type Store interface {
	AppendExpense(ctx context.Context, rec model.ExpenseRecord) (SaveResult, error)
	ListExpenses(ctx context.Context, limit int) ([]ExpenseRow, error)
	TestConnection(ctx context.Context) error
	Simulated() bool
}

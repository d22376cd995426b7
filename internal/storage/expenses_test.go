package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
)

func TestSaveAndGetExpense(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rec := testRecord("25.50", model.CategoryFood, "2025-03-14")
	id, err := store.SaveExpense(ctx, rec)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := store.GetExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "25.5", got.Record.Amount.String())
	assert.Equal(t, model.CategoryFood, got.Record.Category)
	assert.Equal(t, model.Yes, got.Record.IsNecessary)
	assert.Equal(t, model.SourceRules, got.Record.Source)
	assert.Equal(t, rec.RawText, got.Record.RawText)
	assert.Nil(t, got.SyncedAt)
	assert.Nil(t, got.LedgerID)
	assert.Equal(t, 2025, got.CreatedAt.Year())

	_, err = store.GetExpense(ctx, id+100)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkSynced(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.SaveExpense(ctx, testRecord("10", model.CategoryTransport, "2025-03-14"))
	require.NoError(t, err)
	other, err := store.SaveExpense(ctx, testRecord("12", model.CategoryTransport, "2025-03-14"))
	require.NoError(t, err)

	require.NoError(t, store.MarkSynced(ctx, id, 1710000001234))
	require.ErrorIs(t, store.MarkSynced(ctx, 9999, 1), common.ErrNotFound)

	got, err := store.GetExpense(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.LedgerID)
	assert.Equal(t, int64(1710000001234), *got.LedgerID)
	assert.NotNil(t, got.SyncedAt)

	unsynced, err := store.ListExpenses(ctx, Filter{Unsynced: true})
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, other, unsynced[0].ID)
}

func TestListExpenses(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for _, rec := range []model.ExpenseRecord{
		testRecord("25", model.CategoryFood, "2025-03-12"),
		testRecord("38", model.CategoryTransport, "2025-03-13"),
		testRecord("18", model.CategoryFood, "2025-03-14"),
		testRecord("67", model.CategoryShopping, "2025-03-14"),
	} {
		_, err := store.SaveExpense(ctx, rec)
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		filter  Filter
		amounts []string
	}{
		{name: "all newest first", filter: Filter{}, amounts: []string{"67", "18", "38", "25"}},
		{name: "limit", filter: Filter{Limit: 2}, amounts: []string{"67", "18"}},
		{name: "category", filter: Filter{Category: model.CategoryFood}, amounts: []string{"18", "25"}},
		{name: "date range", filter: Filter{From: "2025-03-13", To: "2025-03-13"}, amounts: []string{"38"}},
		{name: "empty", filter: Filter{Category: model.CategoryMedical}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListExpenses(ctx, tt.filter)
			require.NoError(t, err)
			var amounts []string
			for _, e := range got {
				amounts = append(amounts, e.Record.Amount.String())
			}
			assert.Equal(t, tt.amounts, amounts)
		})
	}

	_, err := store.ListExpenses(ctx, Filter{Limit: -1})
	require.ErrorIs(t, err, ErrInvalidLimit)
}

func TestTotalsByCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	income := testRecord("1000", model.CategoryOther, "2025-03-14")
	income.Type = model.TypeIncome

	for _, rec := range []model.ExpenseRecord{
		testRecord("0.1", model.CategoryFood, "2025-03-14"),
		testRecord("0.2", model.CategoryFood, "2025-03-14"),
		testRecord("38", model.CategoryTransport, "2025-03-14"),
		testRecord("99", model.CategoryFood, "2025-02-01"),
		income,
	} {
		_, err := store.SaveExpense(ctx, rec)
		require.NoError(t, err)
	}

	totals, err := store.TotalsByCategory(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, model.CategoryFood, totals[0].Category)
	assert.Equal(t, "0.3", totals[0].Total.String())
	assert.Equal(t, 2, totals[0].Count)
	assert.Equal(t, model.CategoryTransport, totals[1].Category)
}

package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/savemoney/internal/common"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	first := testRecord()
	second := testRecord()
	second.Description = "晚饭"

	res, err := store.AppendExpense(ctx, first)
	require.NoError(t, err)
	assert.True(t, res.Simulated)
	assert.NotZero(t, res.Row.ID)

	_, err = store.AppendExpense(ctx, second)
	require.NoError(t, err)

	bad := testRecord()
	bad.Description = ""
	_, err = store.AppendExpense(ctx, bad)
	require.ErrorIs(t, err, common.ErrMissingField)

	rows, err := store.ListExpenses(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "晚饭", rows[0].Description)

	rows, err = store.ListExpenses(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.NoError(t, store.TestConnection(ctx))
	assert.True(t, store.Simulated())
}

func TestNewStore_UnconfiguredIsSimulated(t *testing.T) {
	store, err := NewStore(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)
	assert.True(t, store.Simulated())
}

package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables(t *testing.T) {
	tables := DefaultTables()
	require.Len(t, tables.Categories, len(model.Categories))

	for i, c := range tables.Categories {
		assert.Equal(t, model.Categories[i], c.Name, "category order must match registration order")
		assert.NotEmpty(t, c.Keywords)
	}

	food, ok := tables.Category(model.CategoryFood)
	require.True(t, ok)
	assert.Equal(t, "吃饭", food.Keywords[0])
	assert.Equal(t, "正餐", food.Subcategories["吃饭"])

	require.Len(t, tables.Payments, 4)
	assert.Equal(t, model.PaymentWeChat, tables.Payments[0].Method)

	require.Len(t, tables.Context, 5)
	for _, rule := range tables.Context {
		assert.Len(t, rule.compiled, len(rule.Patterns))
	}

	assert.Same(t, tables, DefaultTables())
}

func TestLoadTables_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "no categories", yaml: "categories: []"},
		{name: "unknown category", yaml: "categories:\n  - name: 住房\n    keywords: [房租]"},
		{name: "duplicate category", yaml: "categories:\n  - name: 餐饮\n    keywords: [饭]\n  - name: 餐饮\n    keywords: [面]"},
		{name: "empty keyword", yaml: "categories:\n  - name: 餐饮\n    keywords: ['']"},
		{name: "bad context regex", yaml: "categories:\n  - name: 餐饮\n    keywords: [饭]\ncontext:\n  - category: 餐饮\n    patterns: ['(']"},
		{name: "unknown payment", yaml: "categories:\n  - name: 餐饮\n    keywords: [饭]\npayments:\n  - method: PayPal\n    keywords: [paypal]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTables([]byte(tt.yaml))
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}

	_, err := LoadTables([]byte("categories: [unterminated"))
	require.Error(t, err)
}

func TestLoadTablesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.yaml")
	custom := `categories:
  - name: 餐饮
    keywords: [拉面]
    subcategories:
      拉面: 面食
payments:
  - method: 现金
    keywords: [零钱]
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	tables, err := LoadTablesFile(path)
	require.NoError(t, err)

	p := NewRuleParser(tables, fixedClock, fixedRand(0))
	draft := p.Parse("拉面 用零钱付了20元")
	assert.Equal(t, model.CategoryFood, draft.Category)
	assert.Equal(t, "面食", draft.Subcategory)
	assert.Equal(t, model.PaymentCash, draft.PaymentMethod)
	assert.Equal(t, "20", draft.Amount.String())

	_, err = LoadTablesFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

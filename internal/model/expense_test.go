package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func TestExpenseDraft_FinalizeDefaults(t *testing.T) {
	record := ExpenseDraft{RawText: "随便说说"}.Finalize(testToday, Annotations{})

	assert.True(t, record.Amount.IsZero())
	assert.Equal(t, CategoryOther, record.Category)
	assert.Equal(t, "其他", record.Subcategory)
	assert.Equal(t, DefaultDescription, record.Description)
	assert.Equal(t, "2025-03-14", record.Date)
	assert.Equal(t, TypeExpense, record.Type)
	assert.Equal(t, PaymentWeChat, record.PaymentMethod)
	assert.Equal(t, Undetermined, record.IsDaily)
	assert.Equal(t, Undetermined, record.IsNecessary)
	assert.Equal(t, "随便说说", record.RawText)
	assert.False(t, record.NeedsConfirmation)
	assert.Empty(t, record.ConfirmationQuestions)
	assert.Nil(t, record.Suggestions)
}

func TestExpenseDraft_FinalizeClampsAndNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		draft ExpenseDraft
		check func(t *testing.T, r ExpenseRecord)
	}{
		{
			name:  "confidence above one",
			draft: ExpenseDraft{Confidence: 1.4},
			check: func(t *testing.T, r ExpenseRecord) { assert.InDelta(t, 1.0, r.Confidence, 1e-9) },
		},
		{
			name:  "negative confidence",
			draft: ExpenseDraft{Confidence: -0.2},
			check: func(t *testing.T, r ExpenseRecord) { assert.InDelta(t, 0.0, r.Confidence, 1e-9) },
		},
		{
			name:  "negative amount",
			draft: ExpenseDraft{Amount: decimal.NewFromInt(-12)},
			check: func(t *testing.T, r ExpenseRecord) { assert.Equal(t, "12", r.Amount.String()) },
		},
		{
			name:  "unknown category",
			draft: ExpenseDraft{Category: "Groceries", Subcategory: ""},
			check: func(t *testing.T, r ExpenseRecord) {
				assert.Equal(t, CategoryOther, r.Category)
				assert.Equal(t, "其他", r.Subcategory)
			},
		},
		{
			name:  "missing subcategory uses category default",
			draft: ExpenseDraft{Category: CategoryFood},
			check: func(t *testing.T, r ExpenseRecord) { assert.Equal(t, "正餐", r.Subcategory) },
		},
		{
			name:  "malformed date",
			draft: ExpenseDraft{Date: "yesterday"},
			check: func(t *testing.T, r ExpenseRecord) { assert.Equal(t, "2025-03-14", r.Date) },
		},
		{
			name:  "explicit date kept",
			draft: ExpenseDraft{Date: "2025-01-02"},
			check: func(t *testing.T, r ExpenseRecord) { assert.Equal(t, "2025-01-02", r.Date) },
		},
		{
			name:  "income kept",
			draft: ExpenseDraft{Type: TypeIncome},
			check: func(t *testing.T, r ExpenseRecord) { assert.Equal(t, TypeIncome, r.Type) },
		},
		{
			name:  "unknown payment method",
			draft: ExpenseDraft{PaymentMethod: "PayPal"},
			check: func(t *testing.T, r ExpenseRecord) { assert.Equal(t, PaymentWeChat, r.PaymentMethod) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.draft.Finalize(testToday, Annotations{}))
		})
	}
}

func TestExpenseDraft_FinalizeAnnotations(t *testing.T) {
	notes := Annotations{
		Suggestions: CategorySuggestions{
			{Category: CategoryFood, Confidence: 0.4, Reason: "a"},
		},
		ConfirmationQuestions: []string{"请确认消费分类"},
	}

	record := ExpenseDraft{Category: CategoryOther}.Finalize(testToday, notes)
	assert.True(t, record.NeedsConfirmation)
	assert.Equal(t, []string{"请确认消费分类"}, record.ConfirmationQuestions)
	require.Len(t, record.Suggestions, 1)

	// The record must not alias the caller's slices.
	notes.ConfirmationQuestions[0] = "changed"
	notes.Suggestions[0].Reason = "changed"
	assert.Equal(t, "请确认消费分类", record.ConfirmationQuestions[0])
	assert.Equal(t, "a", record.Suggestions[0].Reason)
}

func TestExpenseRecord_MarshalJSON(t *testing.T) {
	record := ExpenseDraft{
		Amount:     decimal.RequireFromString("38.50"),
		Category:   CategoryTransport,
		Confidence: 0.9,
	}.Finalize(testToday, Annotations{})

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.InDelta(t, 38.5, decoded["amount"], 1e-9)
	assert.Equal(t, "交通", decoded["category"])
	assert.Equal(t, "微信支付", decoded["payment_method"])
	assert.Equal(t, "待定", decoded["is_daily"])
	assert.NotContains(t, decoded, "has_suggestions")
	assert.NotContains(t, decoded, "category_suggestions")
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		input  string
		want   PaymentMethod
		wantOK bool
	}{
		{input: "支付宝", want: PaymentAlipay, wantOK: true},
		{input: "cash", want: PaymentCash, wantOK: true},
		{input: "Credit Card", want: PaymentBankCard, wantOK: true},
		{input: "微信", want: PaymentWeChat, wantOK: true},
		{input: "PayPal", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePaymentMethod(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTristate(t *testing.T) {
	assert.Equal(t, Yes, ParseTristate("是"))
	assert.Equal(t, Yes, ParseTristate("YES"))
	assert.Equal(t, No, ParseTristate("否"))
	assert.Equal(t, No, ParseTristate("n"))
	assert.Equal(t, Undetermined, ParseTristate(""))
	assert.Equal(t, Undetermined, ParseTristate("maybe"))
}

func TestExpenseDraft_DescriptionLength(t *testing.T) {
	assert.Equal(t, 2, ExpenseDraft{Description: " 午饭 "}.DescriptionLength())
	assert.Equal(t, 0, ExpenseDraft{}.DescriptionLength())
}

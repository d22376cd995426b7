package parser

import (
	"testing"

	"github.com/Veraticus/savemoney/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRuleParser_LunchScenario(t *testing.T) {
	draft := newTestParser().Parse("今天中午吃饭花了二十五块钱")

	assert.Equal(t, "25", draft.Amount.String())
	assert.False(t, draft.AmountEstimated)
	assert.Equal(t, model.CategoryFood, draft.Category)
	assert.Equal(t, "正餐", draft.Subcategory)
	assert.Equal(t, "今天中午二十五", draft.Description)
	assert.Equal(t, model.PaymentWeChat, draft.PaymentMethod)
	assert.Equal(t, "2025-03-14", draft.Date)
	assert.Equal(t, model.TypeExpense, draft.Type)
	assert.Equal(t, model.SourceRules, draft.Source)
	assert.Equal(t, "今天中午吃饭花了二十五块钱", draft.RawText)
	assert.GreaterOrEqual(t, draft.Confidence, 0.9)
	assert.InDelta(t, 1.0, draft.Confidence, 1e-9)
}

func TestRuleParser_EmptyText(t *testing.T) {
	draft := newTestParser().Parse("")

	assert.Equal(t, model.CategoryOther, draft.Category)
	assert.Equal(t, "其他", draft.Subcategory)
	assert.Equal(t, model.DefaultDescription, draft.Description)
	assert.True(t, draft.AmountEstimated)
	assert.Equal(t, "55", draft.Amount.String())
	assert.Equal(t, "2025-03-14", draft.Date)
	assert.InDelta(t, 0.9, draft.Confidence, 1e-9)
}

func TestRuleParser_DigitAmountsAreExact(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "地铁3元", want: "3"},
		{text: "咖啡18.5元", want: "18.5"},
		{text: "停车费10块", want: "10"},
		{text: "加油花了300块", want: "300"},
		{text: "看病消费120.75元", want: "120.75"},
		{text: "午饭花了２５元", want: "25"},
		{text: "咖啡３８块", want: "38"},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			draft := p.Parse(tt.text)
			assert.Equal(t, tt.want, draft.Amount.String())
			assert.False(t, draft.AmountEstimated)
		})
	}
}

func TestRuleParser_FullWidthInput(t *testing.T) {
	draft := newTestParser().Parse("打车花了２５元")

	assert.Equal(t, "25", draft.Amount.String())
	assert.False(t, draft.AmountEstimated)
	assert.Equal(t, model.CategoryTransport, draft.Category)
	assert.Equal(t, model.DefaultDescription, draft.Description)
	assert.Equal(t, "打车花了２５元", draft.RawText)
}

func TestRuleParser_NoKeywordsMeansOther(t *testing.T) {
	p := newTestParser()
	for _, text := range []string{"123元", "嗯", "随便说说"} {
		t.Run(text, func(t *testing.T) {
			draft := p.Parse(text)
			assert.Equal(t, model.CategoryOther, draft.Category)
			assert.Equal(t, "其他", draft.Subcategory)
		})
	}
}

func TestRuleParser_Idempotent(t *testing.T) {
	p := newTestParser()
	texts := []string{
		"买了一杯咖啡十八元",
		"打车回家花了38元",
		"用支付宝在超市购物消费67元",
		"看电影花了45块钱",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			first := p.Parse(text)
			second := p.Parse(text)
			assert.True(t, first.Amount.Equal(second.Amount))

			first.Amount, second.Amount = decimal.Zero, decimal.Zero
			assert.Equal(t, first, second)
		})
	}
}

func TestRuleParser_SampleUtterances(t *testing.T) {
	tests := []struct {
		text         string
		wantAmount   string
		wantCategory model.Category
	}{
		{text: "买了一杯咖啡十八元", wantAmount: "18", wantCategory: model.CategoryFood},
		{text: "打车回家花了三十八块五", wantAmount: "38", wantCategory: model.CategoryTransport},
		{text: "超市购物消费六十七元", wantAmount: "67", wantCategory: model.CategoryShopping},
		{text: "看电影花了四十五块钱", wantAmount: "45", wantCategory: model.CategoryEntertainment},
		{text: "外卖点餐四十二元", wantAmount: "42", wantCategory: model.CategoryFood},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			draft := p.Parse(tt.text)
			assert.Equal(t, tt.wantAmount, draft.Amount.String())
			assert.Equal(t, tt.wantCategory, draft.Category)
		})
	}
}

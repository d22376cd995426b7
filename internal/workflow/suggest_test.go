package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/parser"
)

func TestParseSuggestions(t *testing.T) {
	response := `好的，以下是建议：
[
  {"category": "餐饮", "confidence": 0.8, "reason": "提到了咖啡"},
  {"category": "shopping", "confidence": "0.4", "reason": "可能是零售"},
  {"category": "旅行", "confidence": 0.3, "reason": "未知分类"},
  {"category": "娱乐", "reason": "缺少置信度"},
  {"category": "医疗", "confidence": 1.7, "reason": "超出范围"}
]`

	got, err := parseSuggestions(response)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, model.CategoryFood, got[0].Category)
	assert.InDelta(t, 0.8, got[0].Confidence, 1e-9)
	assert.Equal(t, model.CategoryShopping, got[1].Category)
	assert.InDelta(t, 0.4, got[1].Confidence, 1e-9)
	assert.Equal(t, model.CategoryMedical, got[2].Category)
	assert.InDelta(t, 1.0, got[2].Confidence, 1e-9)
}

func TestParseSuggestions_NoArray(t *testing.T) {
	_, err := parseSuggestions("我无法给出建议")
	require.ErrorIs(t, err, common.ErrMalformedResponse)
}

func TestKeywordSuggestions(t *testing.T) {
	classifier := parser.NewClassifier(parser.DefaultTables())

	got := keywordSuggestions(classifier, "在商场买了咖啡")

	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), maxSuggestions)
	for i, s := range got {
		assert.NotEqual(t, model.CategoryOther, s.Category)
		assert.LessOrEqual(t, s.Confidence, maxKeywordConfidence)
		assert.Greater(t, s.Confidence, 0.0)
		assert.Contains(t, s.Reason, string(s.Category))
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Confidence, s.Confidence)
		}
	}

	assert.Empty(t, keywordSuggestions(classifier, "嗯"))
}

func TestSuggestStage(t *testing.T) {
	tests := []struct {
		name        string
		client      llm.Client
		wantFirst   model.Category
		wantFailure bool
	}{
		{
			name:      "model ranking",
			client:    &llm.MockClient{Responses: []string{`[{"category": "娱乐", "confidence": 0.7, "reason": "电影"}]`}},
			wantFirst: model.CategoryEntertainment,
		},
		{
			name:      "empty ranking falls back to keywords",
			client:    &llm.MockClient{Responses: []string{"[]"}},
			wantFirst: model.CategoryShopping,
		},
		{
			name:        "model error falls back to keywords",
			client:      &llm.MockClient{Err: errors.New("timeout")},
			wantFirst:   model.CategoryShopping,
			wantFailure: true,
		},
		{
			name:      "no model",
			wantFirst: model.CategoryShopping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEngine(tt.client)
			st := newState("id", "超市购物")
			st.Draft = model.ExpenseDraft{Category: model.CategoryOther, Confidence: 0.5}

			require.NoError(t, e.suggest(context.Background(), st))

			require.NotEmpty(t, st.Suggestions)
			assert.Equal(t, tt.wantFirst, st.Suggestions[0].Category)
			assert.Equal(t, tt.wantFailure, len(st.Failures) == 1)
		})
	}
}

func TestSuggestStage_CapsAtThree(t *testing.T) {
	client := &llm.MockClient{Responses: []string{`[
		{"category": "餐饮", "confidence": 0.2, "reason": "a"},
		{"category": "交通", "confidence": 0.9, "reason": "b"},
		{"category": "购物", "confidence": 0.5, "reason": "c"},
		{"category": "娱乐", "confidence": 0.7, "reason": "d"}
	]`}}
	e, _, _ := newTestEngine(client)
	st := newState("id", "x")

	require.NoError(t, e.suggest(context.Background(), st))

	require.Len(t, st.Suggestions, 3)
	assert.Equal(t, model.CategoryTransport, st.Suggestions[0].Category)
	assert.Equal(t, model.CategoryEntertainment, st.Suggestions[1].Category)
	assert.Equal(t, model.CategoryShopping, st.Suggestions[2].Category)
}

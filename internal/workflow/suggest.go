package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/parser"
)

const suggestPrompt = `请分析以下消费文本，提供可能的分类建议：

文本："%s"
当前分类：%s
当前置信度：%.2f

可选分类：餐饮、交通、购物、娱乐、医疗、其他。
请提供2-3个最可能的分类建议，按可能性从高到低排序。
每个建议包含：
- category: 分类名称
- confidence: 置信度（0-1）
- reason: 建议理由

请以JSON数组格式返回。`

const maxKeywordConfidence = 0.9

var suggestionSchema = llm.MustCompileSchema("suggestion.json", map[string]any{
	"type":     "object",
	"required": []any{"category", "confidence", "reason"},
	"properties": map[string]any{
		"category":   map[string]any{"type": "string"},
		"confidence": map[string]any{"type": []any{"number", "string"}},
		"reason":     map[string]any{"type": "string"},
	},
})

func (e *Engine) suggest(ctx context.Context, st *State) error {
	var suggestions model.CategorySuggestions
	if e.client != nil {
		ranked, err := e.modelSuggestions(ctx, st)
		if err != nil {
			e.recordFailure(ctx, st, StageSuggest, err)
		}
		suggestions = ranked
	}
	if len(suggestions) == 0 {
		suggestions = keywordSuggestions(e.rules.Classifier(), st.RawText)
	}
	st.Suggestions = suggestions.Top(maxSuggestions)
	return nil
}

func (e *Engine) modelSuggestions(ctx context.Context, st *State) (model.CategorySuggestions, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	response, err := e.client.Complete(callCtx, llm.Request{
		Prompt:      fmt.Sprintf(suggestPrompt, st.RawText, st.Draft.Category, st.Draft.Confidence),
		Temperature: 0.1,
		MaxTokens:   400,
	})
	if err != nil {
		return nil, err
	}
	return parseSuggestions(response)
}

// parseSuggestions reads the first JSON array in response. Items that fail
// validation or name an unknown category are dropped.
func parseSuggestions(response string) (model.CategorySuggestions, error) {
	items, err := llm.FirstJSONArray(response)
	if err != nil {
		return nil, err
	}

	var out model.CategorySuggestions
	for _, item := range items {
		if suggestionSchema.Validate(item) != nil {
			continue
		}
		obj := item.(map[string]any)

		category, ok := model.ParseCategory(obj["category"].(string))
		if !ok {
			continue
		}
		confidence, ok := number(obj["confidence"])
		if !ok {
			continue
		}
		out = append(out, model.CategorySuggestion{
			Category:   category,
			Reason:     obj["reason"].(string),
			Confidence: model.ClampConfidence(confidence),
		})
	}
	return out, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// keywordSuggestions scores the five concrete categories by keyword weight.
func keywordSuggestions(c *parser.Classifier, text string) model.CategorySuggestions {
	var out model.CategorySuggestions
	for _, category := range model.Categories {
		if category == model.CategoryOther {
			continue
		}
		score := c.KeywordScore(text, category)
		if score <= 0 {
			continue
		}
		out = append(out, model.CategorySuggestion{
			Category:   category,
			Reason:     fmt.Sprintf("文本中包含'%s'相关关键词", category),
			Confidence: math.Min(score/10, maxKeywordConfidence),
		})
	}
	return out.Top(maxSuggestions)
}

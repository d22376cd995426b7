package parser

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/shopspring/decimal"
)

const (
	fallbackConfidence     = 0.3
	defaultModelConfidence = 0.5
)

var scalarOrNull = []string{"number", "string", "null"}

var expenseSchema = llm.MustCompileSchema("expense.json", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"amount":         map[string]any{"type": scalarOrNull},
		"confidence":     map[string]any{"type": scalarOrNull},
		"category":       map[string]any{"type": []string{"string", "null"}},
		"subcategory":    map[string]any{"type": []string{"string", "null"}},
		"description":    map[string]any{"type": []string{"string", "null"}},
		"type":           map[string]any{"type": []string{"string", "null"}},
		"payment_method": map[string]any{"type": []string{"string", "null"}},
		"date":           map[string]any{"type": []string{"string", "null"}},
		"is_daily":       map[string]any{"type": []string{"string", "boolean", "null"}},
		"is_necessary":   map[string]any{"type": []string{"string", "boolean", "null"}},
	},
})

// ParseExpenseResponse converts a model response into a draft. The draft is
// always usable: a response without a usable JSON object yields a fixed
// low-confidence draft, and the returned error says why.
func ParseExpenseResponse(response, rawText string, today time.Time) (model.ExpenseDraft, error) {
	return common.Attempt(
		func() (model.ExpenseDraft, error) { return DecodeExpenseResponse(response, rawText, today) },
		func() model.ExpenseDraft { return FallbackDraft(rawText, today) },
	)
}

// DecodeExpenseResponse decodes the first JSON object in response, backfilling
// absent fields. It fails with common.ErrMalformedResponse when no well-formed
// object is present.
func DecodeExpenseResponse(response, rawText string, today time.Time) (model.ExpenseDraft, error) {
	obj, err := llm.FirstJSONObject(response)
	if err != nil {
		return model.ExpenseDraft{}, err
	}
	if err := expenseSchema.Validate(obj); err != nil {
		return model.ExpenseDraft{}, err
	}

	draft := model.ExpenseDraft{
		Amount:        decimalField(obj, "amount"),
		Category:      categoryField(obj),
		Subcategory:   stringField(obj, "subcategory"),
		Description:   stringField(obj, "description"),
		Date:          dateField(obj, today),
		Type:          model.TypeExpense,
		PaymentMethod: model.PaymentWeChat,
		Confidence:    defaultModelConfidence,
		RawText:       rawText,
		IsDaily:       tristateField(obj, "is_daily"),
		IsNecessary:   tristateField(obj, "is_necessary"),
		Source:        model.SourceModel,
	}

	if strings.EqualFold(stringField(obj, "type"), string(model.TypeIncome)) {
		draft.Type = model.TypeIncome
	}
	if pm, ok := model.ParsePaymentMethod(stringField(obj, "payment_method")); ok {
		draft.PaymentMethod = pm
	}
	if _, present := obj["confidence"]; present {
		draft.Confidence = model.ClampConfidence(floatField(obj, "confidence"))
	}

	return draft, nil
}

// FallbackDraft is the fixed draft used when a model response cannot be parsed.
func FallbackDraft(rawText string, today time.Time) model.ExpenseDraft {
	description := strings.TrimSpace(rawText)
	if description == "" {
		description = model.DefaultDescription
	}
	return model.ExpenseDraft{
		Amount:        decimal.Zero,
		Category:      model.CategoryOther,
		Subcategory:   string(model.CategoryOther),
		Description:   description,
		Date:          today.Format(model.DateLayout),
		Type:          model.TypeExpense,
		PaymentMethod: model.PaymentWeChat,
		Confidence:    fallbackConfidence,
		RawText:       rawText,
		IsDaily:       model.Undetermined,
		IsNecessary:   model.Undetermined,
		Source:        model.SourceFallback,
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// decimalField coerces numbers and numeric strings; anything else is zero.
func decimalField(obj map[string]any, key string) decimal.Decimal {
	switch v := obj[key].(type) {
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func floatField(obj map[string]any, key string) float64 {
	switch v := obj[key].(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case float64:
		return v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return 0
}

func categoryField(obj map[string]any) model.Category {
	if c, ok := model.ParseCategory(stringField(obj, "category")); ok {
		return c
	}
	return model.CategoryOther
}

func dateField(obj map[string]any, today time.Time) string {
	date := stringField(obj, "date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return today.Format(model.DateLayout)
	}
	return date
}

func tristateField(obj map[string]any, key string) model.Tristate {
	switch v := obj[key].(type) {
	case bool:
		if v {
			return model.Yes
		}
		return model.No
	case string:
		return model.ParseTristate(v)
	}
	return model.Undetermined
}

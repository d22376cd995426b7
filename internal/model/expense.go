package model

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO 8601 calendar date layout used for ExpenseRecord.Date.
const DateLayout = "2006-01-02"

// DefaultDescription is used when no description could be extracted.
const DefaultDescription = "日常消费"

// EntryType distinguishes spending from income.
type EntryType string

// Entry type constants.
const (
	TypeExpense EntryType = "expense"
	TypeIncome  EntryType = "income"
)

// PaymentMethod is one of the fixed payment channels.
type PaymentMethod string

// Payment method constants.
const (
	PaymentWeChat   PaymentMethod = "微信支付"
	PaymentAlipay   PaymentMethod = "支付宝"
	PaymentCash     PaymentMethod = "现金"
	PaymentBankCard PaymentMethod = "银行卡"
)

// PaymentMethods lists the payment methods in lookup order.
var PaymentMethods = []PaymentMethod{PaymentWeChat, PaymentAlipay, PaymentCash, PaymentBankCard}

// ParsePaymentMethod resolves a payment method label.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.TrimSpace(s)
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, true
		}
	}
	switch strings.ToLower(s) {
	case "wechat", "wechat pay", "微信":
		return PaymentWeChat, true
	case "alipay":
		return PaymentAlipay, true
	case "cash":
		return PaymentCash, true
	case "bank card", "card", "credit card":
		return PaymentBankCard, true
	}
	return "", false
}

// Tristate is a user-correctable yes/no/undetermined flag.
type Tristate string

// Tristate constants.
const (
	Yes          Tristate = "是"
	No           Tristate = "否"
	Undetermined Tristate = "待定"
)

// ParseTristate accepts the localized labels and common English spellings.
func ParseTristate(s string) Tristate {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Yes), "yes", "y", "true":
		return Yes
	case string(No), "no", "n", "false":
		return No
	default:
		return Undetermined
	}
}

// Source identifies the extraction strategy that produced a draft.
type Source string

// Source constants.
const (
	SourceRules    Source = "rules"
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// ExpenseRecord is the finalized, immutable result of processing one utterance.
type ExpenseRecord struct {
	Amount                decimal.Decimal     `json:"amount"`
	Category              Category            `json:"category"`
	Subcategory           string              `json:"subcategory"`
	Description           string              `json:"description"`
	Date                  string              `json:"date"`
	Type                  EntryType           `json:"type"`
	PaymentMethod         PaymentMethod       `json:"payment_method"`
	RawText               string              `json:"raw_text"`
	IsDaily               Tristate            `json:"is_daily"`
	IsNecessary           Tristate            `json:"is_necessary"`
	Source                Source              `json:"source,omitempty"`
	Suggestions           CategorySuggestions `json:"category_suggestions,omitempty"`
	ConfirmationQuestions []string            `json:"confirmation_questions"`
	Confidence            float64             `json:"confidence"`
	NeedsConfirmation     bool                `json:"needs_confirmation"`
	AmountEstimated       bool                `json:"amount_estimated,omitempty"`
}

// MarshalJSON encodes the amount as a JSON number rather than a quoted string.
func (r ExpenseRecord) MarshalJSON() ([]byte, error) {
	type alias ExpenseRecord
	return json.Marshal(struct {
		alias
		Amount         json.Number `json:"amount"`
		HasSuggestions bool        `json:"has_suggestions,omitempty"`
	}{
		alias:          alias(r),
		Amount:         json.Number(r.Amount.String()),
		HasSuggestions: len(r.Suggestions) > 0,
	})
}

// ExpenseDraft is the mutable, partially-populated record used while stages run.
type ExpenseDraft struct {
	Amount          decimal.Decimal
	Category        Category
	Subcategory     string
	Description     string
	Date            string
	Type            EntryType
	PaymentMethod   PaymentMethod
	RawText         string
	IsDaily         Tristate
	IsNecessary     Tristate
	Source          Source
	Confidence      float64
	AmountEstimated bool
}

// Annotations are the workflow outputs attached to a record on finalize.
type Annotations struct {
	Suggestions           CategorySuggestions
	ConfirmationQuestions []string
}

// ClampConfidence bounds a confidence score to [0, 1].
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0 || c != c:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

// Finalize converts the draft into an ExpenseRecord, applying every default.
// today is used when the draft carries no valid date.
func (d ExpenseDraft) Finalize(today time.Time, notes Annotations) ExpenseRecord {
	category := d.Category
	if !category.Valid() {
		category = CategoryOther
	}

	subcategory := strings.TrimSpace(d.Subcategory)
	if subcategory == "" {
		subcategory = category.DefaultSubcategory()
	}

	description := strings.TrimSpace(d.Description)
	if description == "" {
		description = DefaultDescription
	}

	date := strings.TrimSpace(d.Date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		date = today.Format(DateLayout)
	}

	entryType := d.Type
	if entryType != TypeIncome {
		entryType = TypeExpense
	}

	payment := d.PaymentMethod
	if _, ok := ParsePaymentMethod(string(payment)); !ok {
		payment = PaymentWeChat
	}

	isDaily := d.IsDaily
	if isDaily == "" {
		isDaily = Undetermined
	}
	isNecessary := d.IsNecessary
	if isNecessary == "" {
		isNecessary = Undetermined
	}

	questions := make([]string, len(notes.ConfirmationQuestions))
	copy(questions, notes.ConfirmationQuestions)

	var suggestions CategorySuggestions
	if len(notes.Suggestions) > 0 {
		suggestions = make(CategorySuggestions, len(notes.Suggestions))
		copy(suggestions, notes.Suggestions)
	}

	return ExpenseRecord{
		Amount:                d.Amount.Abs(),
		Category:              category,
		Subcategory:           subcategory,
		Description:           description,
		Date:                  date,
		Type:                  entryType,
		PaymentMethod:         payment,
		Confidence:            ClampConfidence(d.Confidence),
		RawText:               d.RawText,
		IsDaily:               isDaily,
		IsNecessary:           isNecessary,
		Source:                d.Source,
		AmountEstimated:       d.AmountEstimated,
		Suggestions:           suggestions,
		ConfirmationQuestions: questions,
		NeedsConfirmation:     len(questions) > 0,
	}
}

// DescriptionLength returns the length of the trimmed description in characters.
func (d ExpenseDraft) DescriptionLength() int {
	return utf8.RuneCountInString(strings.TrimSpace(d.Description))
}

// Package parser turns free-form expense utterances into expense drafts, either
// with keyword rules or with a generative model.
package parser

import (
	"time"

	"github.com/Veraticus/savemoney/internal/model"
)

// Clock returns the current time. Injected so dates are deterministic in tests.
type Clock func() time.Time

// RuleParser extracts an expense draft with keyword rules alone.
// It always succeeds and is deterministic given its clock and random source.
type RuleParser struct {
	tables     *Tables
	amounts    *AmountExtractor
	classifier *Classifier
	clock      Clock
}

// NewRuleParser creates a rule parser. Nil tables select the embedded tables,
// a nil clock selects time.Now and a nil src the process-wide random source.
func NewRuleParser(tables *Tables, clock Clock, src RandSource) *RuleParser {
	if tables == nil {
		tables = DefaultTables()
	}
	if clock == nil {
		clock = time.Now
	}
	return &RuleParser{
		tables:     tables,
		amounts:    NewAmountExtractor(src),
		classifier: NewClassifier(tables),
		clock:      clock,
	}
}

// Parse extracts a draft from text. Empty text yields the documented defaults.
// Matching runs on the normalized text; RawText keeps the input as given.
func (p *RuleParser) Parse(raw string) model.ExpenseDraft {
	text := Normalize(raw)
	amount := p.amounts.Extract(text)
	category, subcategory := p.classifier.Classify(text)

	return model.ExpenseDraft{
		Amount:          amount.Value,
		AmountEstimated: amount.Estimated(),
		Category:        category,
		Subcategory:     subcategory,
		Description:     p.tables.ExtractDescription(text),
		Date:            p.clock().Format(model.DateLayout),
		Type:            model.TypeExpense,
		PaymentMethod:   p.tables.ExtractPaymentMethod(text),
		Confidence:      Confidence(amount.Value, p.classifier.CategoriesHit(text)),
		RawText:         raw,
		IsDaily:         model.Undetermined,
		IsNecessary:     model.Undetermined,
		Source:          model.SourceRules,
	}
}

// Classifier exposes the keyword classifier used by the parser.
func (p *RuleParser) Classifier() *Classifier {
	return p.classifier
}

// Now returns the parser's current time.
func (p *RuleParser) Now() time.Time {
	return p.clock()
}

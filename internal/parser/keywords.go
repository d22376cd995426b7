package parser

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sync"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// CategoryKeywords is the keyword list and subcategory lookup for one category.
type CategoryKeywords struct {
	Subcategories map[string]string `yaml:"subcategories"`
	Name          model.Category    `yaml:"name"`
	Keywords      []string          `yaml:"keywords"`
}

// ContextRule maps regex patterns to a category when no keyword matched.
type ContextRule struct {
	Category model.Category `yaml:"category"`
	Patterns []string       `yaml:"patterns"`
	compiled []*regexp.Regexp
}

// PaymentKeywords lists the phrases that identify one payment method.
type PaymentKeywords struct {
	Method   model.PaymentMethod `yaml:"method"`
	Keywords []string            `yaml:"keywords"`
}

// Tables holds every keyword table used by the rule-based parser.
// Tables are read-only after loading and safe to share between goroutines.
type Tables struct {
	Categories []CategoryKeywords `yaml:"categories"`
	Context    []ContextRule      `yaml:"context"`
	Payments   []PaymentKeywords  `yaml:"payments"`
}

var (
	defaultTables     *Tables
	defaultTablesOnce sync.Once
)

// DefaultTables returns the embedded keyword tables.
func DefaultTables() *Tables {
	defaultTablesOnce.Do(func() {
		t, err := LoadTables(defaultKeywordsYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded keyword tables are invalid: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

// LoadTablesFile loads keyword tables from a YAML file.
func LoadTablesFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword tables: %w", err)
	}
	return LoadTables(data)
}

// LoadTables parses and validates keyword tables.
func LoadTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse keyword tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("%w: no categories defined", common.ErrInvalidConfig)
	}

	seen := make(map[model.Category]bool, len(t.Categories))
	for _, c := range t.Categories {
		if !c.Name.Valid() {
			return fmt.Errorf("%w: unknown category %q", common.ErrInvalidConfig, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate category %q", common.ErrInvalidConfig, c.Name)
		}
		seen[c.Name] = true
		for _, kw := range c.Keywords {
			if kw == "" {
				return fmt.Errorf("%w: empty keyword in %q", common.ErrInvalidConfig, c.Name)
			}
		}
	}

	for i := range t.Context {
		rule := &t.Context[i]
		if !rule.Category.Valid() {
			return fmt.Errorf("%w: unknown context category %q", common.ErrInvalidConfig, rule.Category)
		}
		rule.compiled = make([]*regexp.Regexp, 0, len(rule.Patterns))
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return fmt.Errorf("%w: context pattern %q: %v", common.ErrInvalidConfig, p, err)
			}
			rule.compiled = append(rule.compiled, re)
		}
	}

	for _, p := range t.Payments {
		if _, ok := model.ParsePaymentMethod(string(p.Method)); !ok {
			return fmt.Errorf("%w: unknown payment method %q", common.ErrInvalidConfig, p.Method)
		}
	}

	return nil
}

// Category returns the keyword table for c.
func (t *Tables) Category(c model.Category) (CategoryKeywords, bool) {
	for _, ck := range t.Categories {
		if ck.Name == c {
			return ck, true
		}
	}
	return CategoryKeywords{}, false
}

// AllKeywords returns every keyword of every category in table order,
// duplicates included.
func (t *Tables) AllKeywords() []string {
	var out []string
	for _, c := range t.Categories {
		out = append(out, c.Keywords...)
	}
	return out
}

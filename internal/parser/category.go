package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
)

// Scores are kept in tenths so ties compare exactly.
const (
	primaryBonus        = 5 // 0.5
	primaryWindow       = 10
	leadingTokens       = 3
	subcategoryBonusLen = 5
)

// amountIndicators mark the part of an utterance that states the price.
var amountIndicators = []*regexp.Regexp{
	regexp.MustCompile(`\d+(?:\.\d+)?[元块]`),
	regexp.MustCompile(`花了`),
	regexp.MustCompile(`消费`),
}

// CategoryScore is the keyword score of one category.
type CategoryScore struct {
	Category model.Category
	Matched  []string
	tenths   int
}

// Classifier assigns a category and subcategory from keyword tables.
type Classifier struct {
	tables *Tables
}

// NewClassifier creates a classifier over tables. Nil selects the embedded tables.
func NewClassifier(tables *Tables) *Classifier {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Classifier{tables: tables}
}

// Classify never fails. With no keyword hit the context rules decide, yielding
// subcategory 其他; with nothing at all the result is (其他, 其他).
func (c *Classifier) Classify(text string) (model.Category, string) {
	best, ok := c.best(text)
	if ok {
		return best.Category, c.subcategory(text, best)
	}

	if inferred := c.infer(text); inferred != model.CategoryOther {
		return inferred, string(model.CategoryOther)
	}
	return model.CategoryOther, string(model.CategoryOther)
}

// Scores returns the weighted score of every category with at least one hit,
// in table order.
func (c *Classifier) Scores(text string) []CategoryScore {
	var out []CategoryScore
	for _, ck := range c.tables.Categories {
		s := CategoryScore{Category: ck.Name}
		for _, kw := range ck.Keywords {
			if !strings.Contains(text, kw) {
				continue
			}
			s.Matched = append(s.Matched, kw)
			s.tenths += utf8.RuneCountInString(kw)
			if isPrimary(text, kw) {
				s.tenths += primaryBonus
			}
		}
		if s.tenths > 0 {
			out = append(out, s)
		}
	}
	return out
}

// KeywordScore returns the unweighted keyword score of one category:
// the sum of 0.1 per character of every matched keyword.
func (c *Classifier) KeywordScore(text string, category model.Category) float64 {
	ck, ok := c.tables.Category(category)
	if !ok {
		return 0
	}
	tenths := 0
	for _, kw := range ck.Keywords {
		if strings.Contains(text, kw) {
			tenths += utf8.RuneCountInString(kw)
		}
	}
	return float64(tenths) / 10
}

// CategoriesHit counts categories with at least one keyword present.
func (c *Classifier) CategoriesHit(text string) int {
	n := 0
	for _, ck := range c.tables.Categories {
		for _, kw := range ck.Keywords {
			if strings.Contains(text, kw) {
				n++
				break
			}
		}
	}
	return n
}

func (c *Classifier) best(text string) (CategoryScore, bool) {
	var (
		best  CategoryScore
		found bool
	)
	for _, s := range c.Scores(text) {
		if !found || s.tenths > best.tenths {
			best, found = s, true
		}
	}
	return best, found
}

func (c *Classifier) subcategory(text string, s CategoryScore) string {
	bestKeyword, bestScore := "", 0
	for _, kw := range s.Matched {
		score := utf8.RuneCountInString(kw)
		if isPrimary(text, kw) {
			score += subcategoryBonusLen
		}
		if score > bestScore {
			bestKeyword, bestScore = kw, score
		}
	}

	ck, _ := c.tables.Category(s.Category)
	if sub, ok := ck.Subcategories[bestKeyword]; ok && sub != "" {
		return sub
	}
	return string(s.Category)
}

func (c *Classifier) infer(text string) model.Category {
	for _, rule := range c.tables.Context {
		for _, re := range rule.compiled {
			if re.MatchString(text) {
				return rule.Category
			}
		}
	}
	return model.CategoryOther
}

// isPrimary reports whether keyword is one of the leading whitespace tokens,
// or sits within primaryWindow characters of an amount indicator.
func isPrimary(text, keyword string) bool {
	fields := strings.Fields(text)
	if len(fields) > leadingTokens {
		fields = fields[:leadingTokens]
	}
	for _, f := range fields {
		if f == keyword {
			return true
		}
	}

	byteIdx := strings.Index(text, keyword)
	if byteIdx < 0 {
		return false
	}
	keywordPos := common.RuneOffset(text, byteIdx)

	for _, re := range amountIndicators {
		pos := common.FindRuneIndex(re, text)
		if pos < 0 {
			continue
		}
		if abs(pos-keywordPos) < primaryWindow {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package parser

import (
	"math/rand/v2"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// AmountSource records how an amount was obtained.
type AmountSource int

// Amount sources.
const (
	AmountDigits AmountSource = iota
	AmountNumeral
	AmountPlaceholder
)

func (s AmountSource) String() string {
	switch s {
	case AmountDigits:
		return "digits"
	case AmountNumeral:
		return "numeral"
	default:
		return "placeholder"
	}
}

// AmountResult is the outcome of amount extraction.
type AmountResult struct {
	Value  decimal.Decimal
	Source AmountSource
}

// Estimated reports whether the value was invented rather than read from the text.
func (r AmountResult) Estimated() bool {
	return r.Source == AmountPlaceholder
}

// RandSource supplies uniformly distributed values in [0, 1).
// *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// globalRand draws from the concurrency-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Patterns tried in order; the first match wins.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)[元块]`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)块钱`),
	regexp.MustCompile(`花了(\d+(?:\.\d+)?)[元块]`),
	regexp.MustCompile(`消费(\d+(?:\.\d+)?)[元块]`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)元`),
}

const (
	placeholderMin = 10
	placeholderMax = 100
)

type numeral struct {
	word  string
	value int64
}

// numerals is ordered longest word first; equal lengths keep numeric order.
// 两百 and 二百 are both 200.
var numerals = buildNumerals()

func buildNumerals() []numeral {
	digits := []string{"", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

	out := make([]numeral, 0, 108)
	for n := 1; n <= 99; n++ {
		tens, ones := n/10, n%10
		var word string
		switch {
		case n < 10:
			word = digits[ones]
		case tens == 1:
			word = "十" + digits[ones]
		default:
			word = digits[tens] + "十" + digits[ones]
		}
		out = append(out, numeral{word: word, value: int64(n)})
	}

	out = append(out, numeral{word: "一百", value: 100}, numeral{word: "两百", value: 200}, numeral{word: "二百", value: 200})
	for h := 3; h <= 9; h++ {
		out = append(out, numeral{word: digits[h] + "百", value: int64(h * 100)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].word) > utf8.RuneCountInString(out[j].word)
	})
	return out
}

// AmountExtractor reads a monetary amount from free text.
type AmountExtractor struct {
	src RandSource
}

// NewAmountExtractor returns an extractor drawing placeholders from src.
// A nil src uses the process-wide random source.
func NewAmountExtractor(src RandSource) *AmountExtractor {
	if src == nil {
		src = globalRand{}
	}
	return &AmountExtractor{src: src}
}

// Extract never fails. Digit forms win over spelled-out numerals; with neither
// present a placeholder in [10, 100] is returned and flagged as estimated.
func (e *AmountExtractor) Extract(text string) AmountResult {
	text = Normalize(text)
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := decimal.NewFromString(m[1]); err == nil {
			return AmountResult{Value: v, Source: AmountDigits}
		}
	}

	for _, n := range numerals {
		if strings.Contains(text, n.word) {
			return AmountResult{Value: decimal.NewFromInt(n.value), Source: AmountNumeral}
		}
	}

	return AmountResult{Value: e.placeholder(), Source: AmountPlaceholder}
}

func (e *AmountExtractor) placeholder() decimal.Decimal {
	v := placeholderMin + e.src.Float64()*(placeholderMax-placeholderMin)
	return decimal.NewFromFloat(v).Round(2)
}

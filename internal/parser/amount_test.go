package parser

import (
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountExtractor_Extract(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		want       string
		wantSource AmountSource
	}{
		{name: "digits with yuan", text: "午饭25元", want: "25", wantSource: AmountDigits},
		{name: "decimal with kuai", text: "打车花了38.5块", want: "38.5", wantSource: AmountDigits},
		{name: "kuai qian", text: "一共12块钱", want: "12", wantSource: AmountDigits},
		{name: "zero amount", text: "免费0元", want: "0", wantSource: AmountDigits},
		{name: "first match wins", text: "咖啡18元面包12元", want: "18", wantSource: AmountDigits},
		{name: "spelled two digits", text: "今天中午吃饭花了二十五块钱", want: "25", wantSource: AmountNumeral},
		{name: "longest numeral wins", text: "打车回家花了三十八块五", want: "38", wantSource: AmountNumeral},
		{name: "teens", text: "买了一杯咖啡十八元", want: "18", wantSource: AmountNumeral},
		{name: "hundreds", text: "充话费一百元", want: "100", wantSource: AmountNumeral},
		{name: "liang bai", text: "两百", want: "200", wantSource: AmountNumeral},
		{name: "single digit", text: "五", want: "5", wantSource: AmountNumeral},
		{name: "full-width digits", text: "打车花了２５元", want: "25", wantSource: AmountDigits},
		{name: "full-width decimal", text: "咖啡３８．５块", want: "38.5", wantSource: AmountDigits},
		{name: "er bai", text: "花了二百元", want: "200", wantSource: AmountNumeral},
		{name: "digits beat numerals", text: "二十五块，其实是30元", want: "30", wantSource: AmountDigits},
	}

	extractor := NewAmountExtractor(fixedRand(0.5))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(tt.text)
			assert.Equal(t, tt.want, got.Value.String())
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantSource == AmountPlaceholder, got.Estimated())
		})
	}
}

func TestAmountExtractor_Placeholder(t *testing.T) {
	tests := []struct {
		name string
		rand RandSource
		want string
	}{
		{name: "low end", rand: fixedRand(0), want: "10"},
		{name: "midpoint", rand: fixedRand(0.5), want: "55"},
		{name: "rounded to cents", rand: fixedRand(0.123456), want: "21.11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAmountExtractor(tt.rand).Extract("没有金额")
			assert.Equal(t, tt.want, got.Value.String())
			assert.Equal(t, AmountPlaceholder, got.Source)
			assert.True(t, got.Estimated())
		})
	}
}

func TestAmountExtractor_DefaultSourceInRange(t *testing.T) {
	extractor := NewAmountExtractor(nil)
	for i := 0; i < 50; i++ {
		got := extractor.Extract("")
		assert.True(t, got.Value.GreaterThanOrEqual(decimal.NewFromInt(10)), got.Value.String())
		assert.True(t, got.Value.LessThanOrEqual(decimal.NewFromInt(100)), got.Value.String())
		assert.True(t, got.Value.Equal(got.Value.Round(2)))
	}
}

func TestNumeralsOrdering(t *testing.T) {
	assert.Len(t, numerals, 109)
	assert.Equal(t, "二十一", numerals[0].word)

	for i := 1; i < len(numerals); i++ {
		prev := utf8.RuneCountInString(numerals[i-1].word)
		cur := utf8.RuneCountInString(numerals[i].word)
		assert.GreaterOrEqual(t, prev, cur, "numerals must be ordered longest first")
		if prev == cur {
			assert.LessOrEqual(t, numerals[i-1].value, numerals[i].value, "equal-length numerals keep numeric order")
		}
	}
}

func TestAmountSource_String(t *testing.T) {
	assert.Equal(t, "digits", AmountDigits.String())
	assert.Equal(t, "numeral", AmountNumeral.String())
	assert.Equal(t, "placeholder", AmountPlaceholder.String())
}

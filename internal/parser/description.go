package parser

import (
	"regexp"
	"strings"

	"github.com/Veraticus/savemoney/internal/model"
)

var descriptionNoise = []*regexp.Regexp{
	regexp.MustCompile(`\d+(?:\.\d+)?[元块]`),
	regexp.MustCompile(`花了`),
	regexp.MustCompile(`消费`),
	regexp.MustCompile(`块钱`),
}

// ExtractDescription strips amount phrases and every category keyword from
// text. The result is never empty.
func (t *Tables) ExtractDescription(text string) string {
	cleaned := text
	for _, re := range descriptionNoise {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	for _, kw := range t.AllKeywords() {
		cleaned = strings.ReplaceAll(cleaned, kw, "")
	}

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return model.DefaultDescription
	}
	return cleaned
}

package parser

import "golang.org/x/text/width"

// Normalize folds full-width forms to their narrow equivalents, so "２５元"
// reads as "25元". Ideographs are unchanged. Input method and speech
// recognition output often carries full-width digits.
func Normalize(text string) string {
	return width.Narrow.String(text)
}

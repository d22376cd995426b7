package common

import (
	"regexp"
	"unicode/utf8"
)

// RuneOffset converts a byte offset within s into a character offset.
func RuneOffset(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset > len(s) {
		byteOffset = len(s)
	}
	return utf8.RuneCountInString(s[:byteOffset])
}

// FindRuneIndex returns the character offset of the first match of re in s, or -1.
func FindRuneIndex(re *regexp.Regexp, s string) int {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return RuneOffset(s, loc[0])
}

package model

import "sort"

// CategorySuggestion is an alternative category offered for low-confidence records.
type CategorySuggestion struct {
	Category   Category `json:"category"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
}

// CategorySuggestions is an ordered list of suggestions.
type CategorySuggestions []CategorySuggestion

// SortByConfidence orders suggestions by descending confidence, keeping
// insertion order between equal scores.
func (s CategorySuggestions) SortByConfidence() {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Confidence > s[j].Confidence
	})
}

// Top returns at most n suggestions, highest confidence first.
func (s CategorySuggestions) Top(n int) CategorySuggestions {
	if n <= 0 || len(s) == 0 {
		return nil
	}
	sorted := make(CategorySuggestions, len(s))
	copy(sorted, s)
	sorted.SortByConfidence()
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

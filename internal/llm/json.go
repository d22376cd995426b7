package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/savemoney/internal/common"
)

var errNoJSON = fmt.Errorf("no JSON value found: %w", common.ErrMalformedResponse)

// FirstJSONObject returns the first well-formed JSON object embedded in text.
// Models often wrap JSON in prose or markdown fences; both are skipped.
// Numbers are decoded as json.Number.
func FirstJSONObject(text string) (map[string]any, error) {
	v, err := firstJSON(text, '{')
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// FirstJSONArray returns the first well-formed JSON array embedded in text.
func FirstJSONArray(text string) ([]any, error) {
	v, err := firstJSON(text, '[')
	if err != nil {
		return nil, err
	}
	return v.([]any), nil
}

func firstJSON(text string, open byte) (any, error) {
	found := false
	for i := 0; i < len(text); i++ {
		if text[i] != open {
			continue
		}
		found = true

		dec := json.NewDecoder(strings.NewReader(text[i:]))
		dec.UseNumber()

		var v any
		if err := dec.Decode(&v); err != nil {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			return v, nil
		}
	}
	if !found {
		return nil, errNoJSON
	}
	return nil, common.ErrMalformedResponse
}

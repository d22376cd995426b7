package llm

import (
	"testing"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Validate(t *testing.T) {
	schema := MustCompileSchema("item.json", map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"score": map[string]any{"type": "number"},
		},
	})

	valid, err := FirstJSONObject(`{"name": "x", "score": 0.5}`)
	require.NoError(t, err)
	require.NoError(t, schema.Validate(valid))

	invalid, err := FirstJSONObject(`{"score": "high"}`)
	require.NoError(t, err)
	err = schema.Validate(invalid)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformedResponse)
}

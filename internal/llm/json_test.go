package llm

import (
	"encoding/json"
	"testing"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantErr bool
	}{
		{name: "bare object", text: `{"amount": 25}`, wantKey: "amount"},
		{name: "wrapped in prose", text: "好的，结果如下：\n{\"category\": \"餐饮\"}\n希望有帮助", wantKey: "category"},
		{name: "markdown fence", text: "```json\n{\"date\": \"2025-03-14\"}\n```", wantKey: "date"},
		{name: "skips malformed prefix", text: `{oops} then {"type": "expense"}`, wantKey: "type"},
		{name: "no json", text: "无法解析", wantErr: true},
		{name: "only malformed", text: `{amount: 25}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FirstJSONObject(tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantKey)
		})
	}
}

func TestFirstJSONObject_UsesNumbers(t *testing.T) {
	got, err := FirstJSONObject(`{"amount": 25.30}`)
	require.NoError(t, err)
	assert.Equal(t, json.Number("25.30"), got["amount"])
}

func TestFirstJSONArray(t *testing.T) {
	got, err := FirstJSONArray(`建议：[{"category":"餐饮","confidence":0.8,"reason":"吃饭"}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = FirstJSONArray(`{"not": "array"}`)
	require.Error(t, err)
}

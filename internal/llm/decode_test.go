package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStrict(t *testing.T) {
	var out struct {
		Collection string `json:"collection"`
	}

	err := DecodeStrict(`{"collection": "transactions"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "transactions", out.Collection)
}

func TestDecodeStrict_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   \n"},
		{"markdown fence", "```json\n{\"collection\": \"transactions\"}\n```"},
		{"leading commentary", "Here is the pipeline: {\"collection\": \"transactions\"}"},
		{"trailing commentary", "{\"collection\": \"transactions\"} hope that helps!"},
		{"not json", "transactions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Collection string `json:"collection"`
			}
			err := DecodeStrict(tt.raw, &out)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_ReusesCompleters(t *testing.T) {
	r := &Registry{completers: make(map[completerKey]*GeminiCompleter)}

	a := r.Completer("gemini-2.5-flash", 0)
	b := r.Completer("gemini-2.5-flash", 0)
	c := r.Completer("gemini-2.5-flash", 0.7)
	d := r.Completer("gemini-2.5-flash-lite", 0)

	assert.Same(t, a, b, "same configuration pair should reuse the instance")
	assert.NotSame(t, a, c, "different temperature should get its own instance")
	assert.NotSame(t, a, d, "different model should get its own instance")
}

package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeStrict unmarshals a model response that must be bare JSON into v.
// Markdown fences, leading commentary or trailing text all fail: guessing
// at what the model meant would silently corrupt financial data, so a
// malformed response is an error the caller turns into its own typed
// failure.
func DecodeStrict(raw string, v any) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fmt.Errorf("DecodeStrict: empty response")
	}
	if strings.HasPrefix(s, "```") {
		return fmt.Errorf("DecodeStrict: response is wrapped in a markdown fence")
	}

	dec := json.NewDecoder(strings.NewReader(s))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("DecodeStrict: %w", err)
	}

	// Anything after the JSON value is commentary the model was told not
	// to produce.
	if dec.More() {
		return fmt.Errorf("DecodeStrict: trailing content after JSON value")
	}

	return nil
}

package openai

import (
	"encoding/json"
	"strings"

	"github.com/masar-farm/masar/internal/vision"
)

// ExtractContent folds the content encodings seen in the wild into one
// display string. Three explicit cases, tried in order:
//
//  1. a plain JSON string;
//  2. an ordered part list, from which the first non-empty text part
//     is taken;
//  3. any other JSON-serializable shape, re-serialized as a last
//     resort.
//
// A null body, an empty string, or a part list with no text yields the
// fixed fallback sentence — never an error.
func ExtractContent(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return vision.FallbackAnalysis
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return vision.FallbackAnalysis
		}
		return s
	}

	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parts); err == nil {
		for _, p := range parts {
			if p.Type == "text" && strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
		return vision.FallbackAnalysis
	}

	var v any
	if err := json.Unmarshal(raw, &v); err == nil && v != nil {
		if out, err := json.Marshal(v); err == nil && len(out) > 0 {
			return string(out)
		}
	}

	return vision.FallbackAnalysis
}

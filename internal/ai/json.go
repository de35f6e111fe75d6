package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON extracts the first JSON object from a completion, ignoring code fences and prose
func DecodeJSON(text string, dest interface{}) error {
	raw := strings.TrimSpace(text)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if end := strings.LastIndex(raw, "```"); end >= 0 {
			raw = raw[:end]
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in completion")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), dest); err != nil {
		return fmt.Errorf("failed to decode completion: %w", err)
	}
	return nil
}

package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNoJSON = errors.New("no JSON object found in response")

// ExtractJSON pulls the first top-level JSON object out of model output.
// Models wrap their JSON in prose or markdown fences, so we slice from
// the first '{' to the last '}' and parse that. Text with multiple
// sibling objects, or stray braces in prose, will break this slicing;
// callers treat any error here as "use the stage defaults".
func ExtractJSON(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, ErrNoJSON
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, fmt.Errorf("parse extracted JSON: %w", err)
	}
	return out, nil
}

// ExtractJSONInto is ExtractJSON with a typed destination.
func ExtractJSONInto(text string, dest any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), dest); err != nil {
		return fmt.Errorf("parse extracted JSON: %w", err)
	}
	return nil
}

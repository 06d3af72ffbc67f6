package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON unmarshals a JSON object out of raw LLM output. Models wrap
// payloads in markdown fences, prefix them with prose, or emit Python-style
// None; all of that is stripped before decoding.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr := strings.TrimSpace(response)
	if strings.HasPrefix(jsonStr, "```") {
		jsonStr = strings.Trim(jsonStr, "`")
		jsonStr = strings.TrimPrefix(jsonStr, "json")
	}

	start := strings.Index(jsonStr, "{")
	end := strings.LastIndex(jsonStr, "}")
	if start == -1 || end == -1 || end < start {
		return zero, fmt.Errorf("no JSON object found in response")
	}
	jsonStr = jsonStr[start : end+1]
	jsonStr = strings.ReplaceAll(jsonStr, ": None", ": null")

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return result, nil
}

package workflow

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parsePositiveInt parses a base-10 integer greater than zero.
// "2.5", "abc", "0" and "-1" are all rejected.
func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// parseNonNegativeInt parses a base-10 integer greater than or equal to zero.
func parseNonNegativeInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

// parseJSON validates raw as any JSON document; blank input yields {}.
func parseJSON(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("invalid json")
	}
	return json.RawMessage(raw), nil
}

// parseJSONObject requires raw to be a JSON object; blank input yields {}.
func parseJSONObject(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil || dec.More() {
		return nil, fmt.Errorf("not a json object")
	}
	return obj, nil
}

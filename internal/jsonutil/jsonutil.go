// Package jsonutil provides shared utilities for JSON parsing patterns:
// error handling and loosely-typed field access.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// UnmarshalWithContext unmarshals JSON data into v and wraps any error
// with the provided context message.
func UnmarshalWithContext(data []byte, v interface{}, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// GetString safely extracts a string value from a map[string]interface{}.
// Returns the value if it's a string, otherwise returns empty string.
func GetString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// ToString converts an interface{} value to a string representation.
// Handles string, float64 (formatted as integer), bool, and other types.
func ToString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Format as integer for whole numbers, otherwise as float
		if val == float64(int64(val)) {
			return fmt.Sprintf("%.0f", val)
		}
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FirstScalar returns the first set scalar found under keys, checked in
// order and rendered with ToString. Empty strings, zero, false, null and
// objects or arrays are skipped.
func FirstScalar(m map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		switch val := m[key].(type) {
		case string:
			if val == "" {
				continue
			}
		case float64:
			if val == 0 {
				continue
			}
		case bool:
			if !val {
				continue
			}
		default:
			continue
		}
		return ToString(m[key]), true
	}
	return "", false
}

// UnmarshalObject unmarshals data as a JSON object. A body that is valid JSON
// but not an object (array, string, number) yields an empty map and no error.
func UnmarshalObject(data []byte, context string) (map[string]interface{}, error) {
	var raw interface{}
	if err := UnmarshalWithContext(data, &raw, context); err != nil {
		return nil, err
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}, nil
	}
	return obj, nil
}

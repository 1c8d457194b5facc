package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Decode converts the response payload into T.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, errors.New("decode: nil response")
	}
	if v, ok := resp.Data.(T); ok {
		return v, nil
	}

	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return out, fmt.Errorf("decode: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

// cloneData deep-copies a decoded payload so cached values never share
// maps or slices with a caller. JSON shapes are copied directly; anything
// else goes through a JSON round trip and is returned as-is if that fails.
func cloneData(v interface{}) interface{} {
	switch t := v.(type) {
	case nil, string, float64, bool, json.Number:
		return t
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = cloneData(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = cloneData(item)
		}
		return out
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// Package devutil holds helpers for inspecting catalog data from the CLI.
package devutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pick round-trips v through JSON and keeps only the requested keys. Keys
// missing from v are skipped. With no keys the whole object is returned.
func Pick(v any, keys ...string) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("devutil: marshal: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("devutil: %T is not a JSON object: %w", v, err)
	}
	if len(keys) == 0 {
		return m, nil
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := m[k]; ok {
			out[k] = val
		}
	}
	return out, nil
}

// SplitFields parses a comma separated field list such as "id, title".
func SplitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

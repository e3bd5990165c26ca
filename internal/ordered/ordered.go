// Package ordered provides an insertion-ordered string-keyed map.
//
// The API specification document and the discovery document built from it
// are both key-order sensitive: the wire output must follow the order keys
// appear in the source document, which Go's native maps cannot guarantee.
// Map preserves insertion order across parsing, merging, and JSON/YAML
// serialization.
package ordered

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Map is a string-keyed map that remembers insertion order.
// The zero value is not usable; use New.
type Map struct {
	keys   []string
	values map[string]any
}

// New creates an empty Map.
func New() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.values[key]
	return ok
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key. Setting an existing key overwrites the value
// but keeps the key's original position. This is what makes duplicate
// operationIds resolve to the last definition seen without reordering links.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Fill adds every key of other that is not already present, in other's own
// key order. Existing keys keep their values, so the receiver's entries take
// precedence over other's.
func (m *Map) Fill(other *Map) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		if !m.Has(key) {
			m.Set(key, other.values[key])
		}
	}
}

// GetString returns the value for key as a string, or "" when the key is
// absent or not a string.
func (m *Map) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetMap returns the value for key as a *Map, or nil when the key is absent
// or holds a different type.
func (m *Map) GetMap(key string) *Map {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	sub, _ := v.(*Map)
	return sub
}

// MarshalJSON serializes the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML serializes the map as a YAML mapping in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	if m == nil {
		return nil, nil
	}
	ms := make(yaml.MapSlice, 0, len(m.keys))
	for _, key := range m.keys {
		ms = append(ms, yaml.MapItem{Key: key, Value: m.values[key]})
	}
	return ms, nil
}

// UnmarshalYAML parses a YAML (or JSON; JSON is a YAML subset) mapping,
// preserving document key order at every nesting level.
func (m *Map) UnmarshalYAML(data []byte) error {
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return err
	}

	converted, ok := Convert(raw).(*Map)
	if !ok {
		return fmt.Errorf("ordered: expected a mapping, got %T", raw)
	}

	m.keys = converted.keys
	m.values = converted.values
	return nil
}

// Convert rewrites a decoded YAML value tree, replacing every yaml.MapSlice
// with a *Map, recursively. Non-mapping values pass through unchanged.
func Convert(v any) any {
	switch val := v.(type) {
	case yaml.MapSlice:
		m := New()
		for _, item := range val {
			m.Set(fmt.Sprint(item.Key), Convert(item.Value))
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Convert(item)
		}
		return out
	default:
		return v
	}
}

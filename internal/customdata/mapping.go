package customdata

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Mapping is a string to string mapping with the key order of a JSON object
// as browsers see it: array index keys ("0", "2", "10") come first in
// ascending numeric order, then every other key in the order it was first set.
// Setting an existing key replaces its value but keeps its position.
type Mapping struct {
	keys   []string
	values map[string]string
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]string)}
}

// Set assigns value to key
func (m *Mapping) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored for key
func (m *Mapping) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of keys
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Keys returns the keys in mapping order
func (m *Mapping) Keys() []string {
	var indices, names []string
	for _, k := range m.keys {
		if _, ok := arrayIndex(k); ok {
			indices = append(indices, k)
		} else {
			names = append(names, k)
		}
	}
	sort.Slice(indices, func(i, j int) bool {
		a, _ := arrayIndex(indices[i])
		b, _ := arrayIndex(indices[j])
		return a < b
	})
	return append(indices, names...)
}

// arrayIndex reports whether key is the canonical decimal form of an array index.
func arrayIndex(key string) (uint64, bool) {
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 || strconv.FormatUint(n, 10) != key {
		return 0, false
	}
	return n, true
}

// Map returns an unordered copy of the mapping
func (m *Mapping) Map() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the mapping as a JSON object with keys in mapping order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, m.values[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode returns the JSON text of the mapping
func (m *Mapping) Encode() (string, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates each value with a newline.
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

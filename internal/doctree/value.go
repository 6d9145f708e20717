package doctree

import (
	"bytes"
	"encoding/json"
	"io"
)

// Value is the JSON-compatible form of a section: either a leaf string or an
// ordered mapping of titles to values.
type Value struct {
	mapping bool
	leaf    string
	entries []Entry
	index   map[string]int
}

// Entry is one key/value pair of a mapping Value.
type Entry struct {
	Key   string
	Value Value
}

// Leaf returns a string Value.
func Leaf(s string) Value {
	return Value{leaf: s}
}

// Mapping returns a mapping Value holding entries in order. A repeated key
// overwrites the earlier value but keeps the earlier position.
func Mapping(entries ...Entry) Value {
	v := newMapping(len(entries))
	for _, e := range entries {
		v.set(e.Key, e.Value)
	}
	return v
}

func newMapping(capacity int) Value {
	return Value{
		mapping: true,
		entries: make([]Entry, 0, capacity),
		index:   make(map[string]int, capacity),
	}
}

func (v *Value) set(key string, val Value) {
	if i, ok := v.index[key]; ok {
		v.entries[i].Value = val
		return
	}
	v.index[key] = len(v.entries)
	v.entries = append(v.entries, Entry{Key: key, Value: val})
}

func (v Value) IsLeaf() bool { return !v.mapping }

// Leaf returns the string of a leaf value ("" for mappings).
func (v Value) Leaf() string { return v.leaf }

// lookup finds the value stored under key in a mapping.
func (v Value) lookup(key string) (Value, bool) {
	i, ok := v.index[key]
	if !ok {
		return Value{}, false
	}
	return v.entries[i].Value, true
}

// MarshalJSON writes leaves as JSON strings and mappings as JSON objects with
// keys in insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	if !v.mapping {
		return writeString(buf, v.leaf)
	}

	buf.WriteByte('{')
	for i, e := range v.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(buf, e.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := e.Value.writeJSON(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeString appends s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode always terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Encode writes v to w as JSON followed by a newline. A non-empty indent
// produces one entry per line.
func Encode(w io.Writer, v Value, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(v)
}

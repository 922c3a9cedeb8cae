package hfledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// jsonObjectWriter builds a JSON object whose keys keep the order they were
// written in, so that snapshot lines stay stable and diff friendly.
// The zero value is an empty object.
type jsonObjectWriter struct {
	buf bytes.Buffer
	err error
}

// field writes a "key":value pair followed by the separator.
func (w *jsonObjectWriter) field(key string, raw []byte) {
	w.buf.WriteString(strconv.Quote(key))
	w.buf.WriteByte(':')
	w.buf.Write(raw)
	w.buf.WriteByte(',')
}

// Embed merges the members of the raw JSON object into the one being built.
func (w *jsonObjectWriter) Embed(raw []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	members := bytes.TrimSpace(raw)
	if len(members) < 2 || members[0] != '{' || members[len(members)-1] != '}' {
		w.err = fmt.Errorf("cannot embed %q: not a JSON object", raw)
		return w
	}
	members = bytes.TrimSpace(members[1 : len(members)-1])
	if len(members) > 0 {
		w.buf.Write(members)
		w.buf.WriteByte(',')
	}
	return w
}

// EmbedFrom marshals v and merges its members, v must marshal to an object.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("cannot embed %T: %w", v, err)
		return w
	}
	return w.Embed(raw)
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal %q: %w", key, err)
		return w
	}
	w.field(key, raw)
	return w
}

// Optional is like Append but skips zero values.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the object, or the first error met while building it.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	members := bytes.TrimSuffix(w.buf.Bytes(), []byte{','})
	out := make([]byte, 0, len(members)+2)
	out = append(out, '{')
	out = append(out, members...)
	return append(out, '}'), nil
}

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Header is a single name/value entry of a Headers map
type Header struct {
	Key   string
	Value string
}

// Headers is a string map that remembers insertion order. Setting an existing
// key overwrites the value in place, so the key keeps its original position.
// The zero value is an empty map ready to use.
type Headers struct {
	entries []Header
}

// NewHeaders builds a Headers map from alternating key, value arguments
func NewHeaders(kv ...string) Headers {
	var h Headers
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}

// Set adds or overwrites key
func (h *Headers) Set(key, value string) {
	for i := range h.entries {
		if h.entries[i].Key == key {
			h.entries[i].Value = value
			return
		}
	}
	h.entries = append(h.entries, Header{Key: key, Value: value})
}

// Get returns the value stored for key
func (h Headers) Get(key string) (string, bool) {
	for _, e := range h.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Del removes key if present
func (h *Headers) Del(key string) {
	for i := range h.entries {
		if h.entries[i].Key == key {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return
		}
	}
}

// Len returns the number of keys
func (h Headers) Len() int {
	return len(h.entries)
}

// All returns a copy of the entries in order
func (h Headers) All() []Header {
	out := make([]Header, len(h.entries))
	copy(out, h.entries)
	return out
}

// Keys returns the keys in order
func (h Headers) Keys() []string {
	keys := make([]string, len(h.entries))
	for i, e := range h.entries {
		keys[i] = e.Key
	}
	return keys
}

// Clone returns an independent copy
func (h Headers) Clone() Headers {
	return Headers{entries: h.All()}
}

// MarshalJSON writes the headers as a JSON object in insertion order
func (h Headers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range h.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, e.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the key order of the document
func (h *Headers) UnmarshalJSON(data []byte) error {
	h.entries = nil
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("headers: expected JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("headers: expected string key")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("headers: value for %q: %w", key, err)
		}
		h.Set(key, value)
	}

	_, err = dec.Token()
	return err
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Package kvlist holds the editable key/value rows behind the header and
// query parameter editors, and converts them to and from query strings.
package kvlist

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vedsharma/apitester/internal/model"
)

// Field selects which half of a pair Update edits
type Field int

const (
	FieldKey Field = iota
	FieldValue
)

// ParseField maps "key"/"value" to a Field
func ParseField(s string) (Field, error) {
	switch strings.ToLower(s) {
	case "key":
		return FieldKey, nil
	case "value":
		return FieldValue, nil
	default:
		return 0, fmt.Errorf("unknown field %q (use key or value)", s)
	}
}

// IndexError reports an edit addressed to a row that does not exist
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range (list has %d entries)", e.Index, e.Len)
}

// List is an ordered list of pairs. Duplicate keys are kept as separate rows.
type List struct {
	pairs []model.KeyValuePair
}

// New wraps existing pairs
func New(pairs ...model.KeyValuePair) *List {
	l := &List{}
	l.pairs = append(l.pairs, pairs...)
	return l
}

// Add appends an empty pair
func (l *List) Add() {
	l.pairs = append(l.pairs, model.KeyValuePair{})
}

// Append adds a filled pair
func (l *List) Append(key, value string) {
	l.pairs = append(l.pairs, model.KeyValuePair{Key: key, Value: value})
}

// Update sets one field of the pair at index
func (l *List) Update(index int, field Field, value string) error {
	if index < 0 || index >= len(l.pairs) {
		return &IndexError{Index: index, Len: len(l.pairs)}
	}
	switch field {
	case FieldKey:
		l.pairs[index].Key = value
	case FieldValue:
		l.pairs[index].Value = value
	default:
		return fmt.Errorf("unknown field %d", field)
	}
	return nil
}

// Remove deletes the pair at index, shifting later pairs down
func (l *List) Remove(index int) error {
	if index < 0 || index >= len(l.pairs) {
		return &IndexError{Index: index, Len: len(l.pairs)}
	}
	l.pairs = append(l.pairs[:index], l.pairs[index+1:]...)
	return nil
}

// Replace swaps the whole content
func (l *List) Replace(pairs []model.KeyValuePair) {
	l.pairs = append([]model.KeyValuePair(nil), pairs...)
}

// Len returns the number of rows
func (l *List) Len() int {
	return len(l.pairs)
}

// Pairs returns a copy of the rows
func (l *List) Pairs() []model.KeyValuePair {
	out := make([]model.KeyValuePair, len(l.pairs))
	copy(out, l.pairs)
	return out
}

// ToQueryString encodes pairs with a non-empty key, in list order
func ToQueryString(pairs []model.KeyValuePair) string {
	var b strings.Builder
	for _, p := range pairs {
		if p.Key == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// FromQueryString decodes a query string into pairs in encounter order,
// one pair per occurrence. A leading "?" is ignored.
func FromQueryString(s string) []model.KeyValuePair {
	s = strings.TrimPrefix(s, "?")
	pairs := []model.KeyValuePair{}
	for _, part := range strings.Split(s, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		pairs = append(pairs, model.KeyValuePair{
			Key:   unescape(key),
			Value: unescape(value),
		})
	}
	return pairs
}

// unescape decodes form encoding, keeping the input when it is malformed
func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// ParsePair splits "key=value" (query params) or "Key: Value" (headers)
func ParsePair(s, sep string) (model.KeyValuePair, bool) {
	key, value, ok := strings.Cut(s, sep)
	if !ok {
		return model.KeyValuePair{}, false
	}
	return model.KeyValuePair{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}, true
}

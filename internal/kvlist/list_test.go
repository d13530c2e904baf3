package kvlist

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedsharma/apitester/internal/model"
)

func TestList_AddUpdateRemove(t *testing.T) {
	l := New()
	l.Add()
	l.Add()

	require.NoError(t, l.Update(0, FieldKey, "page"))
	require.NoError(t, l.Update(0, FieldValue, "2"))
	require.NoError(t, l.Update(1, FieldKey, "sort"))

	assert.Equal(t, []model.KeyValuePair{{Key: "page", Value: "2"}, {Key: "sort"}}, l.Pairs())

	require.NoError(t, l.Remove(0))
	assert.Equal(t, []model.KeyValuePair{{Key: "sort"}}, l.Pairs())
}

func TestList_OutOfRange(t *testing.T) {
	l := New(model.KeyValuePair{Key: "a", Value: "1"})

	tests := []struct {
		name string
		run  func() error
	}{
		{"update past end", func() error { return l.Update(1, FieldKey, "x") }},
		{"update negative", func() error { return l.Update(-1, FieldValue, "x") }},
		{"remove past end", func() error { return l.Remove(5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var idxErr *IndexError
			require.True(t, errors.As(err, &idxErr))
			assert.Equal(t, 1, idxErr.Len)
		})
	}

	// list untouched
	assert.Equal(t, []model.KeyValuePair{{Key: "a", Value: "1"}}, l.Pairs())
}

func TestToQueryString(t *testing.T) {
	tests := []struct {
		name  string
		pairs []model.KeyValuePair
		want  string
	}{
		{"empty", nil, ""},
		{"only blank keys", []model.KeyValuePair{{Key: "", Value: "x"}}, ""},
		{"order kept", []model.KeyValuePair{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}}, "b=2&a=1"},
		{"blank key skipped", []model.KeyValuePair{{Key: "a", Value: "1"}, {Value: "z"}, {Key: "c"}}, "a=1&c="},
		{"encoding", []model.KeyValuePair{{Key: "q", Value: "a b&c"}}, "q=a+b%26c"},
		{"duplicates", []model.KeyValuePair{{Key: "t", Value: "1"}, {Key: "t", Value: "2"}}, "t=1&t=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToQueryString(tt.pairs))
		})
	}
}

func TestFromQueryString(t *testing.T) {
	pairs := FromQueryString("?a=1&b=x+y&a=3&flag&&c=%2F")
	assert.Equal(t, []model.KeyValuePair{
		{Key: "a", Value: "1"},
		{Key: "b", Value: "x y"},
		{Key: "a", Value: "3"},
		{Key: "flag", Value: ""},
		{Key: "c", Value: "/"},
	}, pairs)

	assert.Empty(t, FromQueryString(""))
}

func TestQueryStringRoundTrip(t *testing.T) {
	pairs := []model.KeyValuePair{
		{Key: "z", Value: "last"},
		{Key: "", Value: "dropped"},
		{Key: "dup", Value: "one"},
		{Key: "dup", Value: "two"},
		{Key: "sym", Value: "a=b&c?d"},
	}

	got := FromQueryString(ToQueryString(pairs))
	assert.Equal(t, []model.KeyValuePair{
		{Key: "z", Value: "last"},
		{Key: "dup", Value: "one"},
		{Key: "dup", Value: "two"},
		{Key: "sym", Value: "a=b&c?d"},
	}, got)
}

func TestParsePair(t *testing.T) {
	p, ok := ParsePair("Content-Type: application/json", ":")
	require.True(t, ok)
	assert.Equal(t, model.KeyValuePair{Key: "Content-Type", Value: "application/json"}, p)

	p, ok = ParsePair("limit=10", "=")
	require.True(t, ok)
	assert.Equal(t, "limit", p.Key)

	_, ok = ParsePair("novalue", ":")
	assert.False(t, ok)
}

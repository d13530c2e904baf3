package collection

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/storage"
)

func saved(url string) model.SavedRequest {
	return model.SavedRequest{Method: "GET", URL: url}
}

func urls(col model.Collection) []string {
	out := make([]string, 0, len(col.Requests))
	for _, r := range col.Requests {
		out = append(out, r.URL)
	}
	return out
}

func TestCreate_DefaultNames(t *testing.T) {
	s := New(storage.NewMemoryStore())

	first, err := s.Create("")
	require.NoError(t, err)
	assert.Equal(t, "New Collection 1", first.Name)

	second, err := s.Create("")
	require.NoError(t, err)
	assert.Equal(t, "New Collection 2", second.Name)

	named, err := s.Create("Users API")
	require.NoError(t, err)
	assert.Equal(t, "Users API", named.Name)

	cols, err := s.List()
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.NotEqual(t, cols[0].ID, cols[1].ID)
}

func TestRenameAndDelete(t *testing.T) {
	s := New(storage.NewMemoryStore())
	col, _ := s.Create("old")

	require.NoError(t, s.Rename(col.ID, "new"))
	got, err := s.Get("new")
	require.NoError(t, err)
	assert.Equal(t, col.ID, got.ID)

	require.NoError(t, s.Delete("new"))
	_, err = s.Get(col.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRequest(t *testing.T) {
	s := New(storage.NewMemoryStore())
	col, _ := s.Create("api")

	req, err := s.AddRequest(col.ID, saved("https://a.test"))
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)

	got, _ := s.Get("api")
	assert.Equal(t, []string{"https://a.test"}, urls(got))
}

func TestAddRequest_RequiresSelection(t *testing.T) {
	store := storage.NewMemoryStore()
	s := New(store)
	_, _ = s.Create("api")
	before, _, _ := store.Get(storage.KeyCollections)

	_, err := s.AddRequest("", saved("https://a.test"))
	assert.ErrorIs(t, err, ErrNoCollectionSelected)

	_, err = s.AddRequest("missing", saved("https://a.test"))
	assert.ErrorIs(t, err, ErrNotFound)

	after, _, _ := store.Get(storage.KeyCollections)
	assert.Equal(t, before, after)
}

func TestRemoveAndMoveRequest(t *testing.T) {
	s := New(storage.NewMemoryStore())
	col, _ := s.Create("api")
	for _, u := range []string{"a", "b", "c", "d"} {
		_, err := s.AddRequest(col.ID, saved(u))
		require.NoError(t, err)
	}

	require.NoError(t, s.MoveRequest(col.ID, 1, 3))
	got, _ := s.Get(col.ID)
	assert.Equal(t, []string{"b", "c", "a", "d"}, urls(got))

	require.NoError(t, s.MoveRequest(col.ID, 4, 1))
	got, _ = s.Get(col.ID)
	assert.Equal(t, []string{"d", "b", "c", "a"}, urls(got))

	require.NoError(t, s.RemoveRequest(col.ID, 2))
	got, _ = s.Get(col.ID)
	assert.Equal(t, []string{"d", "c", "a"}, urls(got))

	assert.ErrorIs(t, s.RemoveRequest(col.ID, 4), ErrRequestOutOfRange)
	assert.ErrorIs(t, s.MoveRequest(col.ID, 0, 1), ErrRequestOutOfRange)
	assert.ErrorIs(t, s.MoveRequest(col.ID, 1, 9), ErrRequestOutOfRange)
}

func TestExport(t *testing.T) {
	s := New(storage.NewMemoryStore())
	col, _ := s.Create("api")
	_, _ = s.AddRequest(col.ID, model.SavedRequest{ID: "r1", Name: "list", Method: "GET", URL: "https://a.test"})

	var buf bytes.Buffer
	require.NoError(t, s.Export(&buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[\n  {\n    \"id\": \""+col.ID+"\""))
	assert.Contains(t, out, `"name": "list"`)
}

func TestImport_IDCollision(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	s := New(storage.NewMemoryStore(), WithClock(func() time.Time { return at }))

	_, err := s.Import(strings.NewReader(`[{"id":"c1","name":"Original","requests":[]}]`))
	require.NoError(t, err)

	imported, err := s.Import(strings.NewReader(`[{"id":"c1","name":"Imported Collection"},{"id":"c2","name":"Other"}]`))
	require.NoError(t, err)
	require.Len(t, imported, 2)
	assert.Equal(t, "c1-1700000000123", imported[0].ID)
	assert.Equal(t, "c2", imported[1].ID)
	assert.NotNil(t, imported[0].Requests)

	cols, _ := s.List()
	require.Len(t, cols, 3)
	assert.Equal(t, "c1", cols[0].ID)
	assert.Equal(t, "Original", cols[0].Name)
	assert.Equal(t, "Imported Collection", cols[1].Name)
}

func TestImport_InvalidJSONLeavesStateUntouched(t *testing.T) {
	store := storage.NewMemoryStore()
	s := New(store)
	_, _ = s.Create("keep")
	before, _, _ := store.Get(storage.KeyCollections)

	_, err := s.Import(strings.NewReader("Invalid JSON"))
	require.ErrorIs(t, err, ErrInvalidJSONFile)
	assert.Equal(t, "Invalid JSON file", err.Error())

	after, _, _ := store.Get(storage.KeyCollections)
	assert.Equal(t, before, after)
}

package mock

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/storage"
)

func newRegistry() *Registry {
	return NewRegistry(storage.NewMemoryStore(), NewDictionary(rand.New(rand.NewSource(1))))
}

func TestRegistry_Toggle(t *testing.T) {
	r := newRegistry()

	enabled, err := r.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = r.Toggle()
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = r.Toggle()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestRegistry_AddListRemove(t *testing.T) {
	r := newRegistry()

	assert.ErrorIs(t, r.Add(model.MockEndpoint{Path: "  ", Response: "x"}), ErrInvalidEndpoint)

	require.NoError(t, r.Add(model.MockEndpoint{Path: "/api/a", Response: "first"}))
	require.NoError(t, r.Add(model.MockEndpoint{Path: "/api/b", Response: "second"}))

	eps, err := r.List()
	require.NoError(t, err)
	require.Len(t, eps, 2)
	assert.Equal(t, "/api/a", eps[0].Path)

	require.NoError(t, r.Remove("/api/a"))
	assert.ErrorIs(t, r.Remove("/api/a"), ErrNotFound)

	eps, _ = r.List()
	assert.Equal(t, []model.MockEndpoint{{Path: "/api/b", Response: "second"}}, eps)
}

func TestRegistry_Render(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Add(model.MockEndpoint{Path: "/hello", Response: "hi {{random}} and {{random}}"}))
	require.NoError(t, r.Add(model.MockEndpoint{Path: "/static", Response: `say "hi"`}))

	out, err := r.Render("/static")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"say \"hi\""}`, string(out))

	out, err = r.Render("/hello")
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, `{"message":"hi `)
	assert.Contains(t, s, ` and {{random}}"}`)
	assert.NotContains(t, s, "hi {{random}}")

	_, err = r.Render("/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDictionary(t *testing.T) {
	d := NewDictionary(rand.New(rand.NewSource(7)))
	assert.Contains(t, d.Words(), d.RandomWord())

	dir := t.TempDir()
	path := filepath.Join(dir, "words")
	require.NoError(t, os.WriteFile(path, []byte("Alpha\nno\nbeta-1\ngamma\n"), 0644))

	d, err := LoadDictionary(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "gamma"}, d.Words())

	d, err = LoadDictionary(filepath.Join(dir, "missing"), nil)
	require.NoError(t, err)
	assert.Equal(t, fallbackWords, d.Words())
}

func TestFile_RoundTrip(t *testing.T) {
	for _, name := range []string{"mocks.yaml", "mocks.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			r := newRegistry()
			require.NoError(t, r.Add(model.MockEndpoint{Path: "/api/test", Response: "hello {{random}}"}))
			_, _ = r.Toggle()
			require.NoError(t, r.Export(path))

			other := newRegistry()
			f, err := other.Import(path)
			require.NoError(t, err)
			assert.True(t, f.Enabled)

			eps, _ := other.List()
			assert.Equal(t, []model.MockEndpoint{{Path: "/api/test", Response: "hello {{random}}"}}, eps)
			enabled, _ := other.Enabled()
			assert.True(t, enabled)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "mocks.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("endpoints:\n  - path: \"\"\n    response: x\n"), 0644))
	_, err = LoadFile(bad)
	assert.ErrorIs(t, err, ErrInvalidEndpoint)

	assert.Error(t, SaveFile(&File{}, filepath.Join(dir, "mocks.txt")))
}

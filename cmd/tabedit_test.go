package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/workspace"
)

func tabWithRequest(t *testing.T, a *app, rawURL string) *workspace.Workspace {
	t.Helper()
	desc, err := buildRequest(a, model.MethodGet, rawURL, requestFlags{headers: []string{"Accept: text/plain"}})
	require.NoError(t, err)

	ws, err := workspace.Load(a.store)
	require.NoError(t, err)
	require.NoError(t, ws.UpdateRequest("", desc))
	return ws
}

func TestEditTabPairs_Headers(t *testing.T) {
	a := testApp(t)
	ws := tabWithRequest(t, a, "https://api.example.com/users")

	desc, err := editTabPairs(ws, "", headerRows, addPair("X-Trace", "abc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Content-Type", "Accept", "X-Trace"}, desc.Headers.Keys())

	edit, err := setPair("2", "value", "application/json")
	require.NoError(t, err)
	desc, err = editTabPairs(ws, "", headerRows, edit)
	require.NoError(t, err)
	v, _ := desc.Headers.Get("Accept")
	assert.Equal(t, "application/json", v)

	edit, err = removePair("1")
	require.NoError(t, err)
	desc, err = editTabPairs(ws, "", headerRows, edit)
	require.NoError(t, err)
	assert.Equal(t, []string{"Accept", "X-Trace"}, desc.Headers.Keys())

	tab, ok := ws.Active()
	require.True(t, ok)
	assert.Equal(t, desc, tab.Request)
}

func TestEditTabPairs_ParamsRebuildURL(t *testing.T) {
	a := testApp(t)
	ws := tabWithRequest(t, a, "https://api.example.com/users?page=1#top")

	desc, err := editTabPairs(ws, "", paramRows, addPair("sort", "name"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/users?page=1&sort=name#top", desc.URL)

	edit, err := setPair("1", "key", "p")
	require.NoError(t, err)
	desc, err = editTabPairs(ws, "", paramRows, edit)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/users?p=1&sort=name#top", desc.URL)
}

func TestEditTabPairs_Errors(t *testing.T) {
	a := testApp(t)
	ws := tabWithRequest(t, a, "https://api.example.com/users")

	edit, err := removePair("5")
	require.NoError(t, err)
	_, err = editTabPairs(ws, "", headerRows, edit)
	require.Error(t, err)
	assert.EqualError(t, describeIndexError(err), "no row 5 (2 rows)")

	_, err = setPair("x", "key", "k")
	assert.EqualError(t, err, `invalid index "x"`)

	_, err = setPair("1", "name", "k")
	assert.Error(t, err)

	_, err = editTabPairs(ws, "missing", headerRows, addPair("a", "b"))
	assert.Error(t, err)

	empty := ws.Add("blank")
	_, err = editTabPairs(ws, empty.ID, paramRows, addPair("a", "b"))
	assert.EqualError(t, err, "tab 'blank' has no URL yet")
}

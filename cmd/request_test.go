package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apitester/internal/collection"
	"github.com/vedsharma/apitester/internal/config"
	"github.com/vedsharma/apitester/internal/history"
	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/settings"
	"github.com/vedsharma/apitester/internal/storage"
)

func testApp(t *testing.T) *app {
	t.Helper()
	store := storage.NewMemoryStore()
	return &app{
		cfg:         config.Default(t.TempDir()),
		store:       store,
		settings:    settings.New(store),
		history:     history.New(store),
		collections: collection.New(store),
	}
}

func TestBuildRequest(t *testing.T) {
	a := testApp(t)

	desc, err := buildRequest(a, model.MethodPost, "https://api.example.com/users?page=1", requestFlags{
		headers: []string{"X-Trace: abc"},
		params:  []string{"sort=name", "flag"},
		data:    `{"name":"Ada"}`,
		bearer:  "tok",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MethodPost, desc.Method)
	assert.Equal(t, "https://api.example.com/users?page=1&sort=name&flag=", desc.URL)
	assert.Equal(t, `{"name":"Ada"}`, desc.Body)
	assert.Equal(t, model.AuthBearer, desc.Auth.Type)

	v, ok := desc.Headers.Get("Authorization")
	require.True(t, ok)
	assert.Equal(t, "Bearer tok", v)
	v, _ = desc.Headers.Get("X-Trace")
	assert.Equal(t, "abc", v)
}

func TestBuildRequest_ResolvesAlias(t *testing.T) {
	a := testApp(t)
	require.NoError(t, a.settings.SetAlias("starwars", "https://www.swapi.tech/api"))

	desc, err := buildRequest(a, model.MethodGet, "starwars/people/1", requestFlags{data: "ignored"})
	require.NoError(t, err)

	assert.Equal(t, "https://www.swapi.tech/api/people/1", desc.URL)
	assert.False(t, desc.HasBody())
}

func TestBuildRequest_Errors(t *testing.T) {
	a := testApp(t)

	tests := []struct {
		name  string
		flags requestFlags
	}{
		{"header without colon", requestFlags{headers: []string{"broken"}}},
		{"unknown auth type", requestFlags{authType: "digest"}},
		{"body file outside working dir", requestFlags{data: "@/etc/passwd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRequest(a, model.MethodPost, "https://api.example.com", tt.flags)
			assert.Error(t, err)
		})
	}
}

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			confirm := promptConfirm(strings.NewReader(tt.input))
			assert.Equal(t, tt.want, confirm("Close?"))
		})
	}
}

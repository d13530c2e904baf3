package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apitester/internal/storage"
)

func TestTheme(t *testing.T) {
	store := storage.NewMemoryStore()
	s := New(store)

	theme, err := s.Theme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	assert.ErrorIs(t, s.SetTheme("blue"), ErrInvalidTheme)

	next, err := s.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)

	raw, _, _ := store.Get(storage.KeyTheme)
	assert.Equal(t, "light", raw)

	next, _ = s.ToggleTheme()
	assert.Equal(t, ThemeDark, next)
}

func TestTheme_DefaultFromConfig(t *testing.T) {
	s := New(storage.NewMemoryStore(), WithDefaultTheme(ThemeLight))
	theme, _ := s.Theme()
	assert.Equal(t, ThemeLight, theme)

	s = New(storage.NewMemoryStore(), WithDefaultTheme("sepia"))
	theme, _ = s.Theme()
	assert.Equal(t, ThemeDark, theme)
}

func TestOnboarding(t *testing.T) {
	store := storage.NewMemoryStore()
	s := New(store)

	show, err := s.ShowOnboarding()
	require.NoError(t, err)
	assert.True(t, show)

	require.NoError(t, s.DismissOnboarding())
	raw, _, _ := store.Get(storage.KeyOnboarding)
	assert.Equal(t, "dismissed", raw)

	show, _ = s.ShowOnboarding()
	assert.False(t, show)

	require.NoError(t, s.ResetOnboarding())
	show, _ = s.ShowOnboarding()
	assert.True(t, show)
}

func TestWhatsNew(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 500, time.UTC)
	store := storage.NewMemoryStore()
	s := New(store, WithClock(func() time.Time { return at }))

	_, ok, err := s.WhatsNewLastSeen()
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.MarkWhatsNewSeen()
	require.NoError(t, err)

	raw, _, _ := store.Get(storage.KeyWhatsNew)
	assert.Equal(t, "2024-05-06T07:08:09Z", raw)

	seen, ok, err := s.WhatsNewLastSeen()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, at.Truncate(time.Second).Equal(seen))

	require.NoError(t, store.Set(storage.KeyWhatsNew, "yesterday"))
	_, _, err = s.WhatsNewLastSeen()
	assert.Error(t, err)
}

func TestAliases(t *testing.T) {
	s := New(storage.NewMemoryStore())

	require.NoError(t, s.SetAlias("starwars", "https://www.swapi.tech/api/"))
	require.NoError(t, s.SetAlias("local", "http://localhost:8080"))
	assert.Error(t, s.SetAlias("a/b", "https://x.test"))

	aliases, err := s.Aliases()
	require.NoError(t, err)
	assert.Equal(t, []Alias{
		{Name: "local", URL: "http://localhost:8080"},
		{Name: "starwars", URL: "https://www.swapi.tech/api/"},
	}, aliases)

	tests := []struct {
		in   string
		want string
	}{
		{"starwars/people/1", "https://www.swapi.tech/api/people/1"},
		{"starwars", "https://www.swapi.tech/api"},
		{"local//health", "http://localhost:8080/health"},
		{"https://example.com/x", "https://example.com/x"},
		{"unknown/path", "unknown/path"},
	}
	for _, tt := range tests {
		got, err := s.ResolveURL(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	require.NoError(t, s.DeleteAlias("local"))
	assert.ErrorIs(t, s.DeleteAlias("local"), ErrAliasNotFound)
}

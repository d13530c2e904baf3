// Package settings stores user preferences: theme, onboarding state, the
// last time release notes were read, and URL aliases.
package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/vedsharma/apitester/internal/storage"
)

// Themes
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// OnboardingDismissed marks the onboarding tip as dismissed
const OnboardingDismissed = "dismissed"

var ErrInvalidTheme = errors.New("theme must be dark or light")

// Settings reads and writes preference keys
type Settings struct {
	store        storage.Store
	defaultTheme string
	now          func() time.Time
}

// Option configures Settings
type Option func(*Settings)

// WithDefaultTheme sets the theme reported before one is chosen
func WithDefaultTheme(theme string) Option {
	return func(s *Settings) {
		if ValidTheme(theme) {
			s.defaultTheme = theme
		}
	}
}

// WithClock replaces the time source for whatsNewLastSeen
func WithClock(now func() time.Time) Option {
	return func(s *Settings) {
		s.now = now
	}
}

// New creates Settings over store
func New(store storage.Store, opts ...Option) *Settings {
	s := &Settings{store: store, defaultTheme: ThemeDark, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidTheme reports whether theme is dark or light
func ValidTheme(theme string) bool {
	return theme == ThemeDark || theme == ThemeLight
}

// Theme returns the stored theme, or the default when none or an unknown value is stored
func (s *Settings) Theme() (string, error) {
	v, ok, err := s.store.Get(storage.KeyTheme)
	if err != nil {
		return "", err
	}
	if !ok || !ValidTheme(v) {
		return s.defaultTheme, nil
	}
	return v, nil
}

// SetTheme stores theme
func (s *Settings) SetTheme(theme string) error {
	if !ValidTheme(theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.store.Set(storage.KeyTheme, theme)
}

// ToggleTheme switches between dark and light and returns the new theme
func (s *Settings) ToggleTheme() (string, error) {
	current, err := s.Theme()
	if err != nil {
		return "", err
	}
	next := ThemeDark
	if current == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}

// ShowOnboarding reports whether the onboarding tip is still shown
func (s *Settings) ShowOnboarding() (bool, error) {
	v, _, err := s.store.Get(storage.KeyOnboarding)
	if err != nil {
		return false, err
	}
	return v != OnboardingDismissed, nil
}

// DismissOnboarding hides the onboarding tip for good
func (s *Settings) DismissOnboarding() error {
	return s.store.Set(storage.KeyOnboarding, OnboardingDismissed)
}

// ResetOnboarding shows the onboarding tip again
func (s *Settings) ResetOnboarding() error {
	return s.store.Remove(storage.KeyOnboarding)
}

// WhatsNewLastSeen returns when release notes were last read. ok is false if never.
func (s *Settings) WhatsNewLastSeen() (time.Time, bool, error) {
	v, ok, err := s.store.Get(storage.KeyWhatsNew)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid %s value %q: %w", storage.KeyWhatsNew, v, err)
	}
	return t, true, nil
}

// MarkWhatsNewSeen records the current time as the last read of release notes
func (s *Settings) MarkWhatsNewSeen() (time.Time, error) {
	t := s.now().UTC().Truncate(time.Second)
	return t, s.store.Set(storage.KeyWhatsNew, t.Format(time.RFC3339))
}

// ReleaseSection is one heading of the release notes
type ReleaseSection struct {
	Title string
	Items []string
}

// ReleaseNotes lists what changed in this release
var ReleaseNotes = []ReleaseSection{
	{
		Title: "🚀 New Features",
		Items: []string{
			"--format formatted pretty-prints JSON request and response bodies.",
			"snippet curl copies any request as a cURL command.",
			"Request history is now saved between runs.",
		},
	},
	{
		Title: "💅 UI Improvements",
		Items: []string{
			"Response headers render as a table.",
			"Output adapts to light and dark terminals.",
			"Tabs keep several requests open at once.",
		},
	},
}

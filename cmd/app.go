package cmd

import (
	"fmt"
	"os"

	"github.com/vedsharma/apitester/internal/collection"
	"github.com/vedsharma/apitester/internal/config"
	"github.com/vedsharma/apitester/internal/format"
	"github.com/vedsharma/apitester/internal/history"
	"github.com/vedsharma/apitester/internal/mock"
	"github.com/vedsharma/apitester/internal/settings"
	"github.com/vedsharma/apitester/internal/storage"
)

// app bundles the configuration and the stores a command works with
type app struct {
	cfg         *config.Config
	store       storage.Store
	settings    *settings.Settings
	history     *history.History
	collections *collection.Store
	mocks       *mock.Registry

	closed bool
}

var (
	// current is the app opened by mustOpenApp; exit closes it
	current *app
	osExit  = os.Exit
)

// openApp loads config, opens the store and applies the theme
func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backend != "" {
		cfg.Backend = backend
	}

	store, err := storage.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		store:       store,
		settings:    settings.New(store, settings.WithDefaultTheme(cfg.ThemeDefault)),
		history:     history.New(store, history.WithRedaction(cfg.Redact())),
		collections: collection.New(store),
		mocks:       mock.NewRegistry(store, nil),
	}

	if theme, err := a.settings.Theme(); err == nil {
		format.ApplyTheme(theme)
	}
	return a, nil
}

// mustOpenApp opens the app or exits with a message prefixed by action
func mustOpenApp(action string) *app {
	a, err := openApp()
	if err != nil {
		fail(action, err)
	}
	current = a
	return a
}

func (a *app) close() {
	if a == nil || a.closed {
		return
	}
	a.closed = true
	storage.Close(a.store)
}

func (a *app) theme() string {
	theme, err := a.settings.Theme()
	if err != nil {
		return settings.ThemeDark
	}
	return theme
}

// fail prints "<action>: <err>" and exits
func fail(action string, err error) {
	format.PrintError(fmt.Sprintf("%s: %v", action, err))
	exit(1)
}

// exit closes the open app before leaving; os.Exit skips deferred calls
func exit(code int) {
	current.close()
	osExit(code)
}

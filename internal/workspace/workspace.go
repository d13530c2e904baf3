// Package workspace holds the open request tabs and which one is active.
package workspace

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/storage"
)

// DefaultTabName names every new tab
const DefaultTabName = "New Request"

var (
	ErrCloseCancelled = errors.New("close cancelled")
	ErrTabNotFound    = errors.New("tab not found")
)

// ConfirmFunc asks the user before a destructive action
type ConfirmFunc func(prompt string) bool

// CloseLastPrompt is shown before closing the only remaining tab
const CloseLastPrompt = "You are about to close the last tab. Are you sure?"

type state struct {
	Tabs   []model.Tab `json:"tabs"`
	Active string      `json:"active"`
}

// Workspace is the persisted tab set
type Workspace struct {
	store storage.Store
	state state
}

// Load reads the tab set. An empty workspace opens with one new tab.
func Load(store storage.Store) (*Workspace, error) {
	w := &Workspace{store: store}
	if _, err := storage.GetJSON(store, storage.KeyTabs, &w.state); err != nil {
		return nil, fmt.Errorf("failed to load tabs: %w", err)
	}

	if len(w.state.Tabs) == 0 {
		tab := newTab()
		w.state = state{Tabs: []model.Tab{tab}, Active: tab.ID}
	}
	if w.index(w.state.Active) < 0 {
		w.state.Active = w.state.Tabs[0].ID
	}
	return w, nil
}

func newTab() model.Tab {
	return model.Tab{
		ID:      uuid.New().String()[:8],
		Name:    DefaultTabName,
		Request: model.RequestDescriptor{Method: model.MethodGet, Auth: model.AuthSpec{Type: model.AuthNone}},
	}
}

// Save persists the tab set
func (w *Workspace) Save() error {
	if err := storage.SetJSON(w.store, storage.KeyTabs, w.state); err != nil {
		return fmt.Errorf("failed to save tabs: %w", err)
	}
	return nil
}

// Tabs returns the open tabs in order
func (w *Workspace) Tabs() []model.Tab {
	return w.state.Tabs
}

// Active returns the active tab. ok is false once every tab has been closed.
func (w *Workspace) Active() (model.Tab, bool) {
	i := w.index(w.state.Active)
	if i < 0 {
		return model.Tab{}, false
	}
	return w.state.Tabs[i], true
}

// Get returns the referenced tab. An empty ref is the active tab.
func (w *Workspace) Get(ref string) (model.Tab, error) {
	i, err := w.find(ref)
	if err != nil {
		return model.Tab{}, err
	}
	return w.state.Tabs[i], nil
}

// Add opens a new tab and activates it
func (w *Workspace) Add(name string) model.Tab {
	tab := newTab()
	if name != "" {
		tab.Name = name
	}
	w.state.Tabs = append(w.state.Tabs, tab)
	w.state.Active = tab.ID
	return tab
}

// Close removes a tab. Closing the last tab requires confirm to return true.
// When the active tab closes, the first remaining tab becomes active.
func (w *Workspace) Close(ref string, confirm ConfirmFunc) (model.Tab, error) {
	i, err := w.find(ref)
	if err != nil {
		return model.Tab{}, err
	}

	if len(w.state.Tabs) == 1 {
		if confirm == nil || !confirm(CloseLastPrompt) {
			return model.Tab{}, ErrCloseCancelled
		}
	}

	closed := w.state.Tabs[i]
	w.state.Tabs = append(w.state.Tabs[:i], w.state.Tabs[i+1:]...)

	if w.state.Active == closed.ID {
		w.state.Active = ""
		if len(w.state.Tabs) > 0 {
			w.state.Active = w.state.Tabs[0].ID
		}
	}
	return closed, nil
}

// Activate makes the referenced tab active
func (w *Workspace) Activate(ref string) (model.Tab, error) {
	i, err := w.find(ref)
	if err != nil {
		return model.Tab{}, err
	}
	w.state.Active = w.state.Tabs[i].ID
	return w.state.Tabs[i], nil
}

// Next activates the tab after the active one, wrapping around
func (w *Workspace) Next() (model.Tab, error) {
	return w.step(1)
}

// Prev activates the tab before the active one, wrapping around
func (w *Workspace) Prev() (model.Tab, error) {
	return w.step(-1)
}

func (w *Workspace) step(delta int) (model.Tab, error) {
	n := len(w.state.Tabs)
	if n == 0 {
		return model.Tab{}, ErrTabNotFound
	}
	i := w.index(w.state.Active)
	if i < 0 {
		i = 0
	}
	i = ((i+delta)%n + n) % n
	w.state.Active = w.state.Tabs[i].ID
	return w.state.Tabs[i], nil
}

// Rename changes a tab's display name
func (w *Workspace) Rename(ref, name string) error {
	i, err := w.find(ref)
	if err != nil {
		return err
	}
	w.state.Tabs[i].Name = name
	return nil
}

// UpdateRequest replaces the request of the referenced tab
func (w *Workspace) UpdateRequest(ref string, desc model.RequestDescriptor) error {
	i, err := w.find(ref)
	if err != nil {
		return err
	}
	w.state.Tabs[i].Request = desc
	return nil
}

// UpdateResponse replaces any prior response of the referenced tab
func (w *Workspace) UpdateResponse(ref string, rec *model.ResponseRecord) error {
	i, err := w.find(ref)
	if err != nil {
		return err
	}
	w.state.Tabs[i].Response = rec
	return nil
}

func (w *Workspace) index(id string) int {
	for i, tab := range w.state.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

// find matches an empty ref to the active tab, then ids, then names
func (w *Workspace) find(ref string) (int, error) {
	if ref == "" {
		ref = w.state.Active
	}
	if i := w.index(ref); i >= 0 {
		return i, nil
	}
	for i, tab := range w.state.Tabs {
		if tab.Name == ref {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrTabNotFound, ref)
}

// Package mock keeps path/response-template definitions for mock endpoints.
// Definitions are stored and rendered on demand; no traffic is intercepted.
package mock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/storage"
)

// Placeholder is replaced by a random word when a template is rendered
const Placeholder = "{{random}}"

var (
	ErrInvalidEndpoint = errors.New("endpoint path is required")
	ErrNotFound        = errors.New("mock endpoint not found")
)

// Registry stores endpoints and the enabled flag
type Registry struct {
	store storage.Store
	dict  *Dictionary
}

// NewRegistry creates a registry over store. A nil dict uses the built-in words.
func NewRegistry(store storage.Store, dict *Dictionary) *Registry {
	if dict == nil {
		dict = NewDictionary(nil)
	}
	return &Registry{store: store, dict: dict}
}

// Enabled reports whether the mock server toggle is on
func (r *Registry) Enabled() (bool, error) {
	v, _, err := r.store.Get(storage.KeyMockEnabled)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetEnabled sets the toggle
func (r *Registry) SetEnabled(enabled bool) error {
	if !enabled {
		return r.store.Remove(storage.KeyMockEnabled)
	}
	return r.store.Set(storage.KeyMockEnabled, "true")
}

// Toggle flips the toggle and returns the new state
func (r *Registry) Toggle() (bool, error) {
	enabled, err := r.Enabled()
	if err != nil {
		return false, err
	}
	return !enabled, r.SetEnabled(!enabled)
}

// List returns endpoints in insertion order
func (r *Registry) List() ([]model.MockEndpoint, error) {
	var endpoints []model.MockEndpoint
	if _, err := storage.GetJSON(r.store, storage.KeyMockEndpoints, &endpoints); err != nil {
		return nil, fmt.Errorf("failed to load mock endpoints: %w", err)
	}
	if endpoints == nil {
		endpoints = []model.MockEndpoint{}
	}
	return endpoints, nil
}

// Add appends an endpoint. Paths may repeat; Get returns the first match.
func (r *Registry) Add(ep model.MockEndpoint) error {
	ep.Path = strings.TrimSpace(ep.Path)
	if ep.Path == "" {
		return ErrInvalidEndpoint
	}

	endpoints, err := r.List()
	if err != nil {
		return err
	}
	return r.save(append(endpoints, ep))
}

// Replace swaps every endpoint for eps
func (r *Registry) Replace(eps []model.MockEndpoint) error {
	for i, ep := range eps {
		if strings.TrimSpace(ep.Path) == "" {
			return fmt.Errorf("endpoint %d: %w", i, ErrInvalidEndpoint)
		}
	}
	return r.save(eps)
}

// Remove deletes every endpoint registered at path
func (r *Registry) Remove(path string) error {
	endpoints, err := r.List()
	if err != nil {
		return err
	}

	kept := endpoints[:0]
	for _, ep := range endpoints {
		if ep.Path != path {
			kept = append(kept, ep)
		}
	}
	if len(kept) == len(endpoints) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return r.save(kept)
}

// Get returns the first endpoint registered at path
func (r *Registry) Get(path string) (model.MockEndpoint, error) {
	endpoints, err := r.List()
	if err != nil {
		return model.MockEndpoint{}, err
	}
	for _, ep := range endpoints {
		if ep.Path == path {
			return ep, nil
		}
	}
	return model.MockEndpoint{}, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Render produces the JSON body the endpoint at path would answer with
func (r *Registry) Render(path string) ([]byte, error) {
	ep, err := r.Get(path)
	if err != nil {
		return nil, err
	}
	return r.RenderTemplate(ep.Response)
}

// RenderTemplate replaces the first placeholder with a random word and wraps
// the text as {"message": ...}
func (r *Registry) RenderTemplate(template string) ([]byte, error) {
	text := template
	if strings.Contains(text, Placeholder) {
		text = strings.Replace(text, Placeholder, r.dict.RandomWord(), 1)
	}
	return json.Marshal(struct {
		Message string `json:"message"`
	}{Message: text})
}

func (r *Registry) save(endpoints []model.MockEndpoint) error {
	if err := storage.SetJSON(r.store, storage.KeyMockEndpoints, endpoints); err != nil {
		return fmt.Errorf("failed to save mock endpoints: %w", err)
	}
	return nil
}

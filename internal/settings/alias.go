package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vedsharma/apitester/internal/storage"
)

var ErrAliasNotFound = errors.New("alias not found")

// Alias maps a short name to a base URL
type Alias struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (s *Settings) loadAliases() (map[string]string, error) {
	aliases := make(map[string]string)
	if _, err := storage.GetJSON(s.store, storage.KeyAliases, &aliases); err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}
	return aliases, nil
}

// Aliases returns every alias sorted by name
func (s *Settings) Aliases() ([]Alias, error) {
	m, err := s.loadAliases()
	if err != nil {
		return nil, err
	}

	out := make([]Alias, 0, len(m))
	for name, url := range m {
		out = append(out, Alias{Name: name, URL: url})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Alias looks up one alias
func (s *Settings) Alias(name string) (string, bool, error) {
	m, err := s.loadAliases()
	if err != nil {
		return "", false, err
	}
	url, ok := m[name]
	return url, ok, nil
}

// SetAlias creates or replaces an alias
func (s *Settings) SetAlias(name, url string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid alias name %q", name)
	}
	m, err := s.loadAliases()
	if err != nil {
		return err
	}
	m[name] = url
	return storage.SetJSON(s.store, storage.KeyAliases, m)
}

// DeleteAlias removes an alias
func (s *Settings) DeleteAlias(name string) error {
	m, err := s.loadAliases()
	if err != nil {
		return err
	}
	if _, ok := m[name]; !ok {
		return fmt.Errorf("%w: %s", ErrAliasNotFound, name)
	}
	delete(m, name)
	return storage.SetJSON(s.store, storage.KeyAliases, m)
}

// ResolveURL expands "alias/path" to the alias base URL joined with path.
// Full http(s) URLs and unknown names are returned unchanged.
func (s *Settings) ResolveURL(raw string) (string, error) {
	// Skip if already a full URL
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}

	name, path, _ := strings.Cut(raw, "/")

	baseURL, ok, err := s.Alias(name)
	if err != nil {
		return raw, err
	}
	if !ok {
		return raw, nil
	}

	// Combine base URL with path (auto-normalize trailing slashes)
	baseURL = strings.TrimSuffix(baseURL, "/")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		return baseURL, nil
	}
	return baseURL + "/" + path, nil
}

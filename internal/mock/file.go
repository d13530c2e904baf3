package mock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vedsharma/apitester/internal/model"
)

// File is the on-disk shape of a mock definition file
type File struct {
	Enabled   bool                 `json:"enabled" yaml:"enabled"`
	Endpoints []model.MockEndpoint `json:"endpoints" yaml:"endpoints"`
}

// LoadFile reads endpoint definitions from a .yaml, .yml or .json file
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock file: %w", err)
	}

	var f File

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML mock file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON mock file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported mock file format: %s (use .yaml, .yml, or .json)", ext)
	}

	for i, ep := range f.Endpoints {
		if strings.TrimSpace(ep.Path) == "" {
			return nil, fmt.Errorf("invalid mock file: endpoint %d: %w", i, ErrInvalidEndpoint)
		}
	}

	return &f, nil
}

// SaveFile writes endpoint definitions, picking the format from the extension
func SaveFile(f *File, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(f)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(f, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported mock file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mock file: %w", err)
	}

	return nil
}

// Import replaces the registry contents with a definition file
func (r *Registry) Import(path string) (*File, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := r.Replace(f.Endpoints); err != nil {
		return nil, err
	}
	if err := r.SetEnabled(f.Enabled); err != nil {
		return nil, err
	}
	return f, nil
}

// Export writes the registry contents to a definition file
func (r *Registry) Export(path string) error {
	endpoints, err := r.List()
	if err != nil {
		return err
	}
	enabled, err := r.Enabled()
	if err != nil {
		return err
	}
	return SaveFile(&File{Enabled: enabled, Endpoints: endpoints}, path)
}

package storage

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
)

const (
	jsonStoreFile = "store.json"

	// Secure file permissions - owner read/write only
	jsonSecureFileMode = 0600 // -rw-------
	jsonSecureDirMode  = 0700 // drwx------
)

// JSONStorage keeps every key in one JSON object on disk
type JSONStorage struct {
	mu      sync.Mutex
	dataDir string
}

// NewJSONStorage creates a JSON file store under dataDir
func NewJSONStorage(dataDir string) (*JSONStorage, error) {
	if err := os.MkdirAll(dataDir, jsonSecureDirMode); err != nil {
		return nil, err
	}
	return &JSONStorage{dataDir: dataDir}, nil
}

// path returns the path to the store file
func (s *JSONStorage) path() string {
	return filepath.Join(s.dataDir, jsonStoreFile)
}

// load reads the whole store from disk
func (s *JSONStorage) load() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// save writes the whole store to disk
func (s *JSONStorage) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), data, jsonSecureFileMode)
}

func (s *JSONStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *JSONStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *JSONStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// All returns every stored key/value pair
func (s *JSONStorage) All() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

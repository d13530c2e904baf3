// Package collection manages named, ordered groups of saved requests.
package collection

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/storage"
)

// ExportFile is the file name used for exported collections
const ExportFile = "collections.json"

var (
	ErrNoCollectionSelected = errors.New("please select a collection first")
	ErrNotFound             = errors.New("collection not found")
	ErrInvalidJSONFile      = errors.New("Invalid JSON file")
	ErrRequestOutOfRange    = errors.New("request index out of range")
)

// Store keeps collections under the collections key
type Store struct {
	store storage.Store
	now   func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the time source used for import id suffixes
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a collection store
func New(store storage.Store, opts ...Option) *Store {
	s := &Store{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every collection in stored order
func (s *Store) List() ([]model.Collection, error) {
	var cols []model.Collection
	if _, err := storage.GetJSON(s.store, storage.KeyCollections, &cols); err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	if cols == nil {
		cols = []model.Collection{}
	}
	return cols, nil
}

func (s *Store) save(cols []model.Collection) error {
	if err := storage.SetJSON(s.store, storage.KeyCollections, cols); err != nil {
		return fmt.Errorf("failed to save collections: %w", err)
	}
	return nil
}

// Create appends an empty collection. An empty name becomes "New Collection N".
func (s *Store) Create(name string) (model.Collection, error) {
	cols, err := s.List()
	if err != nil {
		return model.Collection{}, err
	}

	if name == "" {
		name = fmt.Sprintf("New Collection %d", len(cols)+1)
	}

	col := model.Collection{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Requests: []model.SavedRequest{},
	}
	if err := s.save(append(cols, col)); err != nil {
		return model.Collection{}, err
	}
	return col, nil
}

// Get finds a collection by id or name
func (s *Store) Get(ref string) (model.Collection, error) {
	cols, err := s.List()
	if err != nil {
		return model.Collection{}, err
	}
	i, err := find(cols, ref)
	if err != nil {
		return model.Collection{}, err
	}
	return cols[i], nil
}

// Rename changes a collection's display name
func (s *Store) Rename(ref, name string) error {
	return s.update(ref, func(col *model.Collection) error {
		col.Name = name
		return nil
	})
}

// Delete removes a collection and its requests
func (s *Store) Delete(ref string) error {
	cols, err := s.List()
	if err != nil {
		return err
	}
	i, err := find(cols, ref)
	if err != nil {
		return err
	}
	return s.save(append(cols[:i], cols[i+1:]...))
}

// AddRequest appends req to the referenced collection
func (s *Store) AddRequest(ref string, req model.SavedRequest) (model.SavedRequest, error) {
	if req.ID == "" {
		req.ID = uuid.New().String()[:8]
	}
	err := s.update(ref, func(col *model.Collection) error {
		col.Requests = append(col.Requests, req)
		return nil
	})
	if err != nil {
		return model.SavedRequest{}, err
	}
	return req, nil
}

// RemoveRequest deletes the request at the 1-based index
func (s *Store) RemoveRequest(ref string, index int) error {
	return s.update(ref, func(col *model.Collection) error {
		if index < 1 || index > len(col.Requests) {
			return fmt.Errorf("%w: %d (collection has %d)", ErrRequestOutOfRange, index, len(col.Requests))
		}
		col.Requests = append(col.Requests[:index-1], col.Requests[index:]...)
		return nil
	})
}

// MoveRequest moves the request at 1-based from to 1-based to, shifting the rest
func (s *Store) MoveRequest(ref string, from, to int) error {
	return s.update(ref, func(col *model.Collection) error {
		n := len(col.Requests)
		if from < 1 || from > n {
			return fmt.Errorf("%w: %d (collection has %d)", ErrRequestOutOfRange, from, n)
		}
		if to < 1 || to > n {
			return fmt.Errorf("%w: %d (collection has %d)", ErrRequestOutOfRange, to, n)
		}

		moved := col.Requests[from-1]
		rest := append([]model.SavedRequest{}, col.Requests[:from-1]...)
		rest = append(rest, col.Requests[from:]...)

		reordered := make([]model.SavedRequest, 0, n)
		reordered = append(reordered, rest[:to-1]...)
		reordered = append(reordered, moved)
		reordered = append(reordered, rest[to-1:]...)
		col.Requests = reordered
		return nil
	})
}

// Export writes every collection as an indented JSON array
func (s *Store) Export(w io.Writer) error {
	cols, err := s.List()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cols, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to export collections: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Import appends the collections in r. An imported id that collides with an
// existing one is rewritten to "<id>-<unix millis>". Malformed input leaves
// the store untouched.
func (s *Store) Import(r io.Reader) ([]model.Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}

	var imported []model.Collection
	if err := json.Unmarshal(data, &imported); err != nil {
		return nil, ErrInvalidJSONFile
	}

	cols, err := s.List()
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(cols))
	for _, col := range cols {
		existing[col.ID] = true
	}

	stamp := s.now().UnixMilli()
	for i := range imported {
		if existing[imported[i].ID] {
			imported[i].ID = fmt.Sprintf("%s-%d", imported[i].ID, stamp)
		}
		if imported[i].Requests == nil {
			imported[i].Requests = []model.SavedRequest{}
		}
	}

	if err := s.save(append(cols, imported...)); err != nil {
		return nil, err
	}
	return imported, nil
}

func (s *Store) update(ref string, fn func(*model.Collection) error) error {
	if ref == "" {
		return ErrNoCollectionSelected
	}

	cols, err := s.List()
	if err != nil {
		return err
	}
	i, err := find(cols, ref)
	if err != nil {
		return err
	}
	if err := fn(&cols[i]); err != nil {
		return err
	}
	return s.save(cols)
}

// find matches by id first, then by name
func find(cols []model.Collection, ref string) (int, error) {
	if ref == "" {
		return -1, ErrNoCollectionSelected
	}
	for i, col := range cols {
		if col.ID == ref {
			return i, nil
		}
	}
	for i, col := range cols {
		if col.Name == ref {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

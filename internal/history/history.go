// Package history keeps the bounded, most-recent-first log of sent requests.
package history

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/vedsharma/apitester/internal/model"
	"github.com/vedsharma/apitester/internal/storage"
)

// MaxEntries bounds the history length
const MaxEntries = 50

// ErrNotFound is returned when no entry matches an id or index
var ErrNotFound = errors.New("request not found")

// History reads and writes the requestHistory key
type History struct {
	store  storage.Store
	now    func() time.Time
	redact bool
}

// Option configures a History
type Option func(*History)

// WithClock replaces the time source for entry timestamps
func WithClock(now func() time.Time) Option {
	return func(h *History) {
		h.now = now
	}
}

// WithRedaction stores sensitive header values as [REDACTED]
func WithRedaction(redact bool) Option {
	return func(h *History) {
		h.redact = redact
	}
}

// New creates a History over store
func New(store storage.Store, opts ...Option) *History {
	h := &History{store: store, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// List returns all entries, newest first
func (h *History) List() ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	if _, err := storage.GetJSON(h.store, storage.KeyHistory, &entries); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	return entries, nil
}

// Add prepends a sent request and drops the oldest entries past MaxEntries
func (h *History) Add(desc model.RequestDescriptor, rec *model.ResponseRecord) (model.HistoryEntry, error) {
	entries, err := h.List()
	if err != nil {
		return model.HistoryEntry{}, err
	}

	if h.redact {
		desc.Headers = RedactHeaders(desc.Headers)
		if desc.Auth.Token != "" {
			desc.Auth.Token = Redacted
		}
	}

	entry := model.HistoryEntry{
		ID:                uuid.New().String()[:8],
		Timestamp:         h.now(),
		RequestDescriptor: desc,
	}
	if rec != nil {
		entry.Status = rec.Status
		entry.TimingMs = rec.TimingMs
	}

	if len(entries) > MaxEntries-1 {
		entries = entries[:MaxEntries-1]
	}
	entries = append([]model.HistoryEntry{entry}, entries...)

	if err := storage.SetJSON(h.store, storage.KeyHistory, entries); err != nil {
		return model.HistoryEntry{}, fmt.Errorf("failed to save history: %w", err)
	}
	return entry, nil
}

// Get finds an entry by id, or by 1-based position when identifier is a number
func (h *History) Get(identifier string) (model.HistoryEntry, error) {
	entries, err := h.List()
	if err != nil {
		return model.HistoryEntry{}, err
	}

	i, err := find(entries, identifier)
	if err != nil {
		return model.HistoryEntry{}, err
	}
	return entries[i], nil
}

// Remove deletes one entry by id or 1-based position
func (h *History) Remove(identifier string) error {
	entries, err := h.List()
	if err != nil {
		return err
	}

	i, err := find(entries, identifier)
	if err != nil {
		return err
	}
	entries = append(entries[:i], entries[i+1:]...)
	return storage.SetJSON(h.store, storage.KeyHistory, entries)
}

// Clear removes every entry
func (h *History) Clear() error {
	return h.store.Remove(storage.KeyHistory)
}

func find(entries []model.HistoryEntry, identifier string) (int, error) {
	// Try to parse as index first (1-based)
	if index, err := strconv.Atoi(identifier); err == nil {
		if index > 0 && index <= len(entries) {
			return index - 1, nil
		}
	}

	for i, e := range entries {
		if e.ID == identifier {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, identifier)
}

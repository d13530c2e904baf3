package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vedsharma/apitester/internal/storage"
)

// closingStore counts Close calls on top of a memory store
type closingStore struct {
	*storage.MemoryStore
	closed int
}

func (s *closingStore) Close() error {
	s.closed++
	return nil
}

func TestFail_ClosesOpenAppBeforeExit(t *testing.T) {
	prevApp, prevExit := current, osExit
	t.Cleanup(func() { current, osExit = prevApp, prevExit })

	store := &closingStore{MemoryStore: storage.NewMemoryStore()}
	current = &app{store: store}

	code := -1
	osExit = func(c int) { code = c }

	fail("Request failed", errors.New("boom"))
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, store.closed)

	// the command's deferred close runs after and must not close twice
	current.close()
	assert.Equal(t, 1, store.closed)
}

func TestExit_WithoutOpenApp(t *testing.T) {
	prevApp, prevExit := current, osExit
	t.Cleanup(func() { current, osExit = prevApp, prevExit })

	current = nil
	code := -1
	osExit = func(c int) { code = c }

	exit(2)
	assert.Equal(t, 2, code)
}

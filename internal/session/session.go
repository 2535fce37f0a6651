package session

import (
	"context"
	"encoding/hex"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"
)

// Store persists uploaded documents for the form-fill editor, keyed by an
// opaque session id.
type Store interface {
	// Create stores data under a fresh id and returns the id.
	Create(ctx context.Context, data []byte) (string, error)
	// Get returns the stored document. It returns InvalidIDError for a
	// malformed id without touching the backend, and NotFoundError for an
	// unknown or expired id.
	Get(ctx context.Context, id string) ([]byte, error)
	Close() error
}

type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid session id %q", e.ID)
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.ID)
}

// idPattern is the only shape a session id can take. Anything else is
// rejected before it can reach the filesystem or a backend key.
var idPattern = regexp.MustCompile(`^[0-9a-f]{1,64}$`)

// ValidateID reports whether id is a well-formed session id.
func ValidateID(id string) bool {
	return idPattern.MatchString(id)
}

// NewID returns a fresh 32-char lowercase hex id.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Locks serializes work per session id so concurrent applies against the
// same document do not interleave. Entries are refcounted and dropped when
// the last holder releases, so the map stays bounded by the ids in flight.
type Locks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func NewLocks() *Locks {
	return &Locks{m: make(map[string]*lockEntry)}
}

// Lock blocks until the id's slot is free and returns the release func.
func (l *Locks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.ch <- struct{}{}
	return func() {
		<-e.ch
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

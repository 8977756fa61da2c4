package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"amora-be/internal/domain"
)

// ErrNoStoredSession reports that the durable slot is empty
var ErrNoStoredSession = errors.New("no stored session")

// SessionStore is the durable backup slot for the demo session. It holds
// at most one serialized session. Session-creation flows write it, the
// recovery orchestrator reads and deletes it; nothing else touches it.
type SessionStore interface {
	// Load reads the stored session; ErrNoStoredSession when absent
	Load(ctx context.Context) (*domain.StoredSession, error)

	// Save replaces the stored session
	Save(ctx context.Context, session *domain.StoredSession) error

	// Clear removes the stored session; clearing an empty slot is not an error
	Clear(ctx context.Context) error
}

// FileSessionStore keeps the session as a single JSON file on disk
type FileSessionStore struct {
	path string
	mu   sync.Mutex
}

// NewFileSessionStore creates a file-backed session store at path
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Load reads the stored session; ErrNoStoredSession when absent
func (s *FileSessionStore) Load(ctx context.Context) (*domain.StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoStoredSession
		}
		return nil, err
	}

	var session domain.StoredSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Save replaces the stored session
func (s *FileSessionStore) Save(ctx context.Context, session *domain.StoredSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored session
func (s *FileSessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemorySessionStore is an in-memory store for tests
type MemorySessionStore struct {
	mu      sync.Mutex
	session *domain.StoredSession
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

// Load reads the stored session; ErrNoStoredSession when absent
func (s *MemorySessionStore) Load(ctx context.Context) (*domain.StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoStoredSession
	}
	copied := *s.session
	return &copied, nil
}

// Save replaces the stored session
func (s *MemorySessionStore) Save(ctx context.Context, session *domain.StoredSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

// Clear removes the stored session
func (s *MemorySessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

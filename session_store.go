package rentlens

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// sessionRecord is the single persisted value: the id of the signed-in user.
type sessionRecord struct {
	UserID  string    `json:"user_id"`
	SavedAt time.Time `json:"saved_at"`
}

// FileSessionStore persists the session record as a small JSON file. One
// reader/writer per device process; calls are short-lived and sequential, so
// a plain mutex is enough.
type FileSessionStore struct {
	path string
	mu   sync.Mutex
}

var _ SessionStore = (*FileSessionStore)(nil)

// NewFileSessionStore creates a store backed by the given file path. The
// parent directory is created on first save, not here, so construction never
// touches the disk.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Save persists the user id. Storage errors propagate to the caller; a
// sign-in whose session cannot be persisted must not be treated as durable.
func (s *FileSessionStore) Save(userID string) error {
	if userID == "" {
		return goerrors.New("session user id must not be empty", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := sessionRecord{UserID: userID, SavedAt: time.Now()}
	data, err := json.Marshal(record)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode session record")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create session directory")
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist session record")
	}

	return nil
}

// Read returns the persisted user id, or ErrSessionNotFound when no record
// was ever saved (or it has been cleared).
func (s *FileSessionStore) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read session record")
	}

	if len(data) == 0 {
		return "", ErrSessionNotFound
	}

	var record sessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// A corrupt record is indistinguishable from no session; callers
		// fall back to the unauthenticated startup path.
		return "", ErrSessionNotFound
	}

	if record.UserID == "" {
		return "", ErrSessionNotFound
	}

	return record.UserID, nil
}

// Clear removes the persisted record. Idempotent: clearing an absent record
// is not an error.
func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear session record")
	}

	return nil
}

// IsSessionNotFound reports whether err means "no session persisted".
func IsSessionNotFound(err error) bool {
	return hasTextCode(err, TextCodeSessionNotFound)
}

// Package uistate persists small client state blobs (filter selections,
// pinned players, saved value-config overrides) across restarts.
package uistate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// Store is a file-backed key-value store. Values are opaque JSON documents;
// the whole map is rewritten on every Put so the file stays consistent.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]json.RawMessage
}

func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, crerr.Wrap(err, "read state file")
	}
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &s.data); err != nil {
			return nil, crerr.Wrap(err, "decode state file")
		}
	}

	return s, nil
}

// Get returns the stored document for key, or ok=false.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)

	return out, true, nil
}

// Put stores the document under key and flushes the file. The value must be
// valid JSON.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	if !sonic.Valid(value) {
		return crerr.Newf("value for %q is not valid json", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := make([]byte, len(value))
	copy(doc, value)
	s.data[key] = doc

	return s.flushLocked()
}

// Delete removes key and flushes the file. Deleting a missing key is a no-op.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)

	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	raw, err := sonic.Marshal(s.data)
	if err != nil {
		return crerr.Wrap(err, "encode state")
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return crerr.Wrap(err, "create state dir")
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return crerr.Wrap(err, "write state file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return crerr.Wrap(err, "replace state file")
	}

	return nil
}

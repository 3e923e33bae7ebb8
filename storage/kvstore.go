// storage/kvstore.go - durable synchronous key/value tier
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// KVStore is the durable synchronous tier: a string -> JSON map backed by a
// single file, rewritten after every mutation. Storage failures are logged
// and swallowed; callers never see an error from this tier, at worst the
// in-memory copy stays the only one until the next successful write.
//
// Writers in separate processes race with last-write-wins on the whole file.
// Accepted limitation; this tier has exactly one writer in normal use.
type KVStore struct {
	path string
	log  *zap.SugaredLogger

	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewKVStore loads the store file if it exists. An unreadable or corrupt
// file is logged and treated as empty rather than failing construction.
func NewKVStore(path string, log *zap.SugaredLogger) *KVStore {
	s := &KVStore{
		path: path,
		log:  log,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("kvstore: failed to read %s: %v", path, err)
		}
		return s
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		log.Warnf("kvstore: discarding corrupt store file %s: %v", path, err)
		s.data = make(map[string]json.RawMessage)
	}
	return s
}

// SetItem serializes value and stores it under key. Serialization or write
// failures are logged, never returned.
func (s *KVStore) SetItem(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.log.Errorf("kvstore: failed to serialize %q: %v", key, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	s.saveLocked()
}

// GetItem deserializes the value under key into dest and reports whether it
// was present and parseable. A missing or unparseable entry leaves dest
// untouched, so a pre-filled dest acts as the default value.
func (s *KVStore) GetItem(key string, dest any) bool {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warnf("kvstore: failed to deserialize %q: %v", key, err)
		return false
	}
	return true
}

// RemoveItem deletes the entry under key if present.
func (s *KVStore) RemoveItem(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.saveLocked()
}

// Len returns the number of stored entries.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// saveLocked rewrites the store file through a temp file + rename so a
// crash mid-write never corrupts the previous contents. Caller holds mu.
func (s *KVStore) saveLocked() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.log.Errorf("kvstore: failed to serialize store: %v", err)
		return
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.log.Errorf("kvstore: failed to create %s: %v", dir, err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.log.Errorf("kvstore: failed to write %s: %v", tmp, err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.Errorf("kvstore: failed to replace %s: %v", s.path, err)
	}
}

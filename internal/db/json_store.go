package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// jsonFile is the on-disk layout of the JSON store.
type jsonFile struct {
	Hunters map[string]json.RawMessage `json:"hunters"`
}

// JSONFileStore persists every hunter in one JSON file.
// The whole file is rewritten on each save via a temp file and rename.
type JSONFileStore struct {
	path string

	mu   sync.RWMutex
	data jsonFile
}

// OpenJSONFileStore loads path, creating an empty store if the file does not exist.
func OpenJSONFileStore(path string) (*JSONFileStore, error) {
	s := &JSONFileStore{
		path: filepath.Clean(path),
		data: jsonFile{Hunters: make(map[string]json.RawMessage)},
	}

	raw, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Пустое хранилище: первый запуск, файл создаётся сразу.
		if err := s.flush(); err != nil {
			return nil, fmt.Errorf("creating store file %s: %w", s.path, err)
		}
		slog.Info("created hunter store", "path", s.path)
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading store file %s: %w", s.path, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("parsing store file %s: %w", s.path, err)
		}
	}
	if s.data.Hunters == nil {
		s.data.Hunters = make(map[string]json.RawMessage)
	}
	slog.Info("opened hunter store", "path", s.path, "hunters", len(s.data.Hunters))
	return s, nil
}

// Load implements HunterStore.
func (s *JSONFileStore) Load(_ context.Context, id string) (*model.Hunter, error) {
	s.mu.RLock()
	raw, ok := s.data.Hunters[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	h, err := decodeHunter(raw)
	if err != nil {
		return nil, fmt.Errorf("loading hunter %q: %w", id, err)
	}
	return h, nil
}

// Save implements HunterStore.
func (s *JSONFileStore) Save(_ context.Context, h *model.Hunter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored := s.storedVersion(h.ID); stored != h.Version {
		return fmt.Errorf("saving hunter %q (have v%d, stored v%d): %w", h.ID, h.Version, stored, ErrVersionConflict)
	}

	next := *h
	next.Version++
	raw, err := encodeHunter(&next)
	if err != nil {
		return err
	}

	prev, existed := s.data.Hunters[h.ID]
	s.data.Hunters[h.ID] = raw
	if err := s.flush(); err != nil {
		if existed {
			s.data.Hunters[h.ID] = prev
		} else {
			delete(s.data.Hunters, h.ID)
		}
		return fmt.Errorf("saving hunter %q: %w", h.ID, err)
	}
	h.Version = next.Version
	return nil
}

// storedVersion returns the version of the stored record, 0 if absent.
func (s *JSONFileStore) storedVersion(id string) int64 {
	raw, ok := s.data.Hunters[id]
	if !ok {
		return 0
	}
	var v struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v.Version
}

// flush writes the whole store atomically. Caller holds mu.
func (s *JSONFileStore) flush() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// Close implements HunterStore.
func (s *JSONFileStore) Close() error {
	return nil
}

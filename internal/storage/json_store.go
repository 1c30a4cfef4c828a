package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DefaultLockTimeout is used when NewJSONStore is given a non-positive timeout.
const DefaultLockTimeout = 5 * time.Second

// JSONStore owns the state file for one load-mutate-save cycle.
type JSONStore struct {
	path string
	lock *FileLock
	doc  *Document
}

// NewJSONStore locks the state file at path and loads it. A missing file
// yields an empty document; nothing but the directory and the lock file is
// written until Save.
func NewJSONStore(path string, lockTimeout time.Duration) (*JSONStore, error) {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	// The lock file sits next to the state file.
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StorageError{Op: "lock", Entity: "directory", ID: filepath.Dir(path), Err: err}
	}

	s := &JSONStore{
		path: path,
		lock: NewFileLock(path),
	}

	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	return s, nil
}

// Path returns the state file location.
func (s *JSONStore) Path() string { return s.path }

// Document returns the in-memory document. Callers mutate it directly and
// call Save to persist.
func (s *JSONStore) Document() *Document { return s.doc }

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.doc = NewDocument()
			return nil
		}
		return &StorageError{Op: "read", Entity: "document", ID: s.path, Err: err}
	}

	doc, err := Decode(data)
	if err != nil {
		return &StorageError{Op: "read", Entity: "document", ID: s.path, Err: err}
	}
	s.doc = doc
	return nil
}

// Save writes the document atomically.
func (s *JSONStore) Save() error {
	err := writeFileAtomic(s.path, func(w io.Writer) error {
		return Encode(w, s.doc)
	})
	if err != nil {
		return &StorageError{Op: "write", Entity: "document", ID: s.path, Err: err}
	}
	return nil
}

// writeFileAtomic streams write into a temp file beside path, fsyncs it and
// renames it over path. On any failure the temp file is removed and path is
// left as it was.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mindfultube-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Close releases the state file lock.
func (s *JSONStore) Close() error {
	return s.lock.Unlock()
}

// Decode parses a state document and builds its URL index.
func Decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	if doc.Playlists == nil {
		doc.Playlists = make(map[string]*PlaylistRecord)
	}
	for id, rec := range doc.Playlists {
		if rec == nil {
			return nil, fmt.Errorf("%w: playlist %s is null", ErrStorageCorrupt, id)
		}
		for _, v := range rec.Videos {
			if v == nil {
				return nil, fmt.Errorf("%w: playlist %s has a null video", ErrStorageCorrupt, id)
			}
		}
	}
	doc.Reindex()
	return doc, nil
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(doc)
}

// Package store keeps the whole catalog/cart/order data set as a single JSON
// document of named collections. The document is loaded once and written back
// in full after every successful write transaction.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrReadOnly = errors.New("write inside a read-only transaction")
)

type document map[string][]json.RawMessage

// Store is a JSON-file backed collection store. A zero path keeps the
// document in memory only.
type Store struct {
	path string
	mu   sync.Mutex
	doc  document
}

// Open loads the document at path. A missing file yields an empty store; the
// file is created by the first write.
func Open(path string) (*Store, error) {
	s := &Store{path: path, doc: document{}}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
	}
	if s.doc == nil {
		s.doc = document{}
	}
	return s, nil
}

// NewMemory returns a store that is never written to disk.
func NewMemory() *Store {
	s, _ := Open("")
	return s
}

// Path returns the backing file, empty for memory stores.
func (s *Store) Path() string {
	return s.path
}

// View runs fn against a read-only view of the document.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{doc: s.doc})
}

// Update runs fn against a private copy of the document. When fn succeeds the
// copy replaces the document and the whole store is flushed to disk once. If
// fn or the flush fails the previous document stays in place.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{doc: s.doc.clone(), writable: true}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}
	if err := flush(s.path, tx.doc); err != nil {
		return err
	}
	s.doc = tx.doc
	return nil
}

func (d document) clone() document {
	out := make(document, len(d))
	for name, records := range d {
		cp := make([]json.RawMessage, len(records))
		copy(cp, records)
		out[name] = cp
	}
	return out
}

// flush serializes the document and swaps it into place with a rename so a
// crash leaves either the old or the new file.
func flush(path string, doc document) error {
	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

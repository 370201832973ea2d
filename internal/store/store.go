package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Yolazega/web3-music-platform-new-sub000/internal/models"
	"github.com/Yolazega/web3-music-platform-new-sub000/pkg/apperr"
)

const fileName = "db.json"

// Store persists the whole contest document as a single JSON file. Every
// mutation runs a load-modify-save cycle under one mutex, so concurrent
// requests cannot lose each other's writes.
type Store struct {
	path string
	mu   sync.Mutex
}

func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, apperr.Storage("failed to create data directory", err)
	}
	return &Store{path: filepath.Join(dataDir, fileName)}, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the whole document. A missing file yields an empty document.
func (s *Store) Load() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save rewrites the whole document.
func (s *Store) Save(doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

// Update runs fn against the current document and persists the result if
// fn succeeds. The document is only written back when fn returns nil.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// View runs fn against a loaded copy of the document without writing back.
func (s *Store) View(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *Store) load() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc := &models.Document{}
		doc.Normalize()
		return doc, nil
	}
	if err != nil {
		return nil, apperr.Storage("failed to read database file", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Storage("failed to decode database file", err)
	}
	doc.Normalize()
	return &doc, nil
}

// save writes to a temp file and renames it into place so a crash mid-write
// never leaves a truncated document behind.
func (s *Store) save(doc *models.Document) error {
	doc.Normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperr.Storage("failed to encode database document", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperr.Storage("failed to write database file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperr.Storage("failed to replace database file", err)
	}
	return nil
}

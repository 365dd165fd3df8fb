package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tracked document names exposed over the API.
const (
	DocResume = "resume"
	DocNotes  = "notes"
)

var ErrUnknownDocument = errors.New("unknown document")

// Store maps the two tracked documents to explicit filesystem paths.
// Reads and writes are whole-file; last write wins.
type Store struct {
	paths map[string]string
}

func NewStore(resumePath, notesPath string) (*Store, error) {
	resumePath = strings.TrimSpace(resumePath)
	notesPath = strings.TrimSpace(notesPath)
	if resumePath == "" || notesPath == "" {
		return nil, fmt.Errorf("storage paths must be configured")
	}
	return &Store{paths: map[string]string{
		DocResume: resumePath,
		DocNotes:  notesPath,
	}}, nil
}

// Load returns the document content. A document that does not exist yet
// reads as empty, matching a fresh install.
func (s *Store) Load(name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(b), nil
}

// Save overwrites the document. Content goes through a temp file in the
// same directory and a rename, so readers never observe a torn write.
func (s *Store) Save(name string, content string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// Path exposes the configured location of a tracked document.
func (s *Store) Path(name string) (string, error) {
	return s.path(name)
}

func (s *Store) path(name string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil store")
	}
	p, ok := s.paths[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}
	return p, nil
}

package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "data_science_resume.tex"), filepath.Join(dir, "resume.txt"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	content := "\\documentclass{article}\n% ünïcode & \\& stuff\n"
	if err := s.Save(DocResume, content); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(DocResume)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != content {
		t.Fatalf("round trip not byte-identical:\nwant %q\ngot  %q", content, got)
	}
}

func TestStore_MissingFileReadsEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Load(DocNotes)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty content, got %q", got)
	}
}

func TestStore_LastWriteWins(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(DocNotes, "first"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(DocNotes, "second"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(DocNotes)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected last write, got %q", got)
	}
}

func TestStore_UnknownDocument(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Load("cover-letter"); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("expected ErrUnknownDocument, got %v", err)
	}
	if err := s.Save("cover-letter", "x"); !errors.Is(err, ErrUnknownDocument) {
		t.Fatalf("expected ErrUnknownDocument, got %v", err)
	}
}

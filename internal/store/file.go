package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tradelens/tradelens/internal/models"
)

// FileStore keeps documents as JSON files named after their kind
// (gdp-data.json, industry-data.json, company-data.json).
type FileStore struct {
	dir string
	log *logrus.Logger
	mu  sync.Mutex // serializes writers within this process
}

var _ DocumentStore = (*FileStore)(nil)

// NewFileStore returns a FileStore rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string, log *logrus.Logger) *FileStore {
	return &FileStore{dir: dir, log: log}
}

// Driver implements DocumentStore.
func (s *FileStore) Driver() string { return "file" }

// Path returns the file holding kind's document.
func (s *FileStore) Path(kind models.Kind) string {
	return filepath.Join(s.dir, kind.FileName())
}

// Get implements DocumentStore.
func (s *FileStore) Get(_ context.Context, kind models.Kind) ([]byte, error) {
	body, err := os.ReadFile(s.Path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, models.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", kind.FileName(), err)
	}

	return body, nil
}

// Put writes body to a temporary file and renames it into place, so readers
// never observe a partial document.
func (s *FileStore) Put(_ context.Context, kind models.Kind, body []byte) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return time.Time{}, fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+kind.FileName()+".*")
	if err != nil {
		return time.Time{}, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()        //nolint:errcheck // already failing
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
	}

	if _, err := tmp.Write(body); err != nil {
		cleanup()
		return time.Time{}, fmt.Errorf("writing %s: %w", kind.FileName(), err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return time.Time{}, fmt.Errorf("syncing %s: %w", kind.FileName(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return time.Time{}, fmt.Errorf("closing %s: %w", kind.FileName(), err)
	}

	if err := os.Rename(tmpName, s.Path(kind)); err != nil {
		os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return time.Time{}, fmt.Errorf("replacing %s: %w", kind.FileName(), err)
	}

	s.log.WithFields(logrus.Fields{
		"kind":  kind,
		"bytes": len(body),
		"path":  s.Path(kind),
	}).Debug("document written")

	return time.Now().UTC(), nil
}

// Ping verifies the data directory exists (creating it if needed) and is a directory.
func (s *FileStore) Ping(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", s.dir)
	}

	return nil
}

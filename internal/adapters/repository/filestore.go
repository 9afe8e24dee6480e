package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/salesboard/internal/domain/model"
)

// File names used by the file driver.
const (
	membersFile    = "members.json"
	activitiesFile = "activities.json"
	logsFile       = "logs.json"
)

// File permission constants.
const (
	dataDirPermission  = 0o750
	dataFilePermission = 0o640
)

// FileStore keeps each collection as an indented JSON array in its own file.
// Writes go to a temporary file that is renamed over the target, so a failed
// write never leaves a truncated document behind. A missing file reads as an
// empty collection.
type FileStore struct {
	dir string
	// mu serialises writers in this process; readers see whole files.
	mu sync.Mutex
}

// NewFileStore returns a store rooted at dir, creating it if necessary.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, dataDirPermission); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory the store reads and writes.
func (s *FileStore) Dir() string { return s.dir }

// LoadCatalogs implements Store.
func (s *FileStore) LoadCatalogs(ctx context.Context) (Catalogs, error) {
	if err := ctx.Err(); err != nil {
		return Catalogs{}, unavailable("load catalogs", err)
	}
	members, err := readJSON[model.Member](s.path(membersFile))
	if err != nil {
		return Catalogs{}, unavailable("read members", err)
	}
	activities, err := readJSON[model.Activity](s.path(activitiesFile))
	if err != nil {
		return Catalogs{}, unavailable("read activities", err)
	}
	return Catalogs{Members: members, Activities: activities}, nil
}

// LoadEvents implements Store.
func (s *FileStore) LoadEvents(ctx context.Context) ([]model.ActivityEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("load events", err)
	}
	rows, err := readJSON[json.RawMessage](s.path(logsFile))
	if err != nil {
		return nil, unavailable("read events", err)
	}
	return decodeEvents(rows), nil
}

// ReplaceMembers implements Store.
func (s *FileStore) ReplaceMembers(ctx context.Context, members []model.Member) error {
	if err := ctx.Err(); err != nil {
		return writeFailed("replace members", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(s.path(membersFile), nonNil(members)); err != nil {
		return writeFailed("write members", err)
	}
	return nil
}

// ReplaceActivities implements Store.
func (s *FileStore) ReplaceActivities(ctx context.Context, activities []model.Activity) error {
	if err := ctx.Err(); err != nil {
		return writeFailed("replace activities", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeJSON(s.path(activitiesFile), nonNil(activities)); err != nil {
		return writeFailed("write activities", err)
	}
	return nil
}

// AppendEvent implements Store. Existing rows are written back verbatim.
// A log that is not a JSON array is never overwritten: the append fails instead.
func (s *FileStore) AppendEvent(ctx context.Context, e model.ActivityEvent) error {
	if err := ctx.Err(); err != nil {
		return writeFailed("append event", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := readJSON[json.RawMessage](s.path(logsFile))
	if err != nil {
		return writeFailed("read events", err)
	}
	row, err := json.Marshal(e)
	if err != nil {
		return writeFailed("encode event", err)
	}
	if err := writeJSON(s.path(logsFile), append(rows, row)); err != nil {
		return writeFailed("write events", err)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func readJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nonNil(out), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, dataFilePermission); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

type Storer[T ValidatingSpec] interface {
	Save(string, T) error
	Get(string) T
	GetAll() map[string]T
}

// FileStore keeps one JSON asset file per record under a directory.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[string]T

	mu sync.RWMutex
}

// NewFileStore loads every asset under path. The directory is created if missing.
func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	s := &FileStore[T]{
		path:    path,
		records: map[string]T{},
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[string]T{}

	return filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		asset, err := s.loadAsset(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}

		err = asset.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		if _, ok := s.records[asset.Id()]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id()] = asset.Spec
		return nil
	})
}

func (s *FileStore[T]) Save(id string, o T) error {
	if !ValidIdentifier(id) || id == "" {
		return fmt.Errorf("invalid id %q", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	asset := &Asset[T]{
		Version:    1,
		Identifier: id,
		Spec:       o,
	}

	jsonData, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	err = atomicWrite(s.filePath(id), jsonData, 0644)
	if err != nil {
		return err
	}

	s.records[id] = o
	return nil
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Get returns the record for id, or the zero value if there is none.
func (s *FileStore[T]) Get(id string) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[id]
}

func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[string]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

func (s *FileStore[T]) filePath(id string) string {
	return filepath.Join(s.path, fmt.Sprintf("%s.json", id))
}

func (s *FileStore[T]) loadAsset(path string) (*Asset[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Ignoring close error - file is read-only, error is not actionable
	defer func() { _ = file.Close() }()

	jsonData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	err = json.Unmarshal(jsonData, asset)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}

	return asset, nil
}

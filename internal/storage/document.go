package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Document is a single configuration file holding one value of T. The format
// is picked from the file extension: .yaml/.yml or .json.
type Document[T ValidatingSpec] struct {
	path     string
	defaults []byte
	value    T

	mu sync.RWMutex
}

// DocumentOpt configures a Document.
type DocumentOpt[T ValidatingSpec] func(*Document[T])

// WithDefaults sets the raw file contents written when the document does not exist yet.
func WithDefaults[T ValidatingSpec](raw []byte) DocumentOpt[T] {
	return func(d *Document[T]) {
		d.defaults = raw
	}
}

// NewDocument opens the document at path and loads it.
func NewDocument[T ValidatingSpec](path string, opts ...DocumentOpt[T]) (*Document[T], error) {
	d := &Document[T]{path: path}
	for _, opt := range opts {
		opt(d)
	}

	if _, err := codecFor(path); err != nil {
		return nil, err
	}

	if err := d.writeDefaults(); err != nil {
		return nil, err
	}

	if err := d.Reload(); err != nil {
		return nil, err
	}

	return d, nil
}

// writeDefaults creates the file from the bundled defaults if it is missing.
func (d *Document[T]) writeDefaults() error {
	if d.defaults == nil {
		return nil
	}

	_, err := os.Stat(d.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", d.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", d.path, err)
	}
	return atomicWrite(d.path, d.defaults, 0644)
}

// Reload replaces the cached value with the contents of the file.
// The cached value is left untouched if the file cannot be read or is invalid.
func (d *Document[T]) Reload() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.path, err)
	}

	c, err := codecFor(d.path)
	if err != nil {
		return err
	}

	var v T
	if err := c.unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshalling %s: %w", filepath.Base(d.path), err)
	}

	if err := v.Validate(); err != nil {
		return fmt.Errorf("validating %s: %w", filepath.Base(d.path), err)
	}

	d.mu.Lock()
	d.value = v
	d.mu.Unlock()

	return nil
}

// Get returns the cached value.
func (d *Document[T]) Get() T {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.value
}

// Save writes v to disk and caches it.
func (d *Document[T]) Save(v T) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	c, err := codecFor(d.path)
	if err != nil {
		return err
	}

	data, err := c.marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", filepath.Base(d.path), err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := atomicWrite(d.path, data, 0644); err != nil {
		return err
	}
	d.value = v

	return nil
}

// Path returns the file location of the document.
func (d *Document[T]) Path() string {
	return d.path
}

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}, nil
	case ".json":
		return codec{
			marshal: func(v any) ([]byte, error) {
				return json.MarshalIndent(v, "", "  ")
			},
			unmarshal: json.Unmarshal,
		}, nil
	default:
		return codec{}, fmt.Errorf("unsupported document format %q", filepath.Ext(path))
	}
}

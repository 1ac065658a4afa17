package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type mockDoc struct {
	Limits map[string]int `json:"limits" yaml:"limits"`
}

func (d *mockDoc) Validate() error {
	if d == nil {
		return nil
	}
	for k, v := range d.Limits {
		if v < 0 {
			return fmt.Errorf("limit %q must not be negative", k)
		}
	}
	return nil
}

func TestNewDocument(t *testing.T) {
	tests := map[string]struct {
		file     string
		contents string
		defaults string
		expErr   string
		expLimit int
	}{
		"loads yaml": {
			file:     "doc.yml",
			contents: "limits:\n  a: 3\n",
			expLimit: 3,
		},
		"loads json": {
			file:     "doc.json",
			contents: `{"limits":{"a":7}}`,
			expLimit: 7,
		},
		"writes defaults when missing": {
			file:     "doc.yaml",
			defaults: "limits:\n  a: 11\n",
			expLimit: 11,
		},
		"existing file wins over defaults": {
			file:     "doc.yaml",
			contents: "limits:\n  a: 1\n",
			defaults: "limits:\n  a: 11\n",
			expLimit: 1,
		},
		"missing without defaults": {
			file:   "doc.yaml",
			expErr: "reading",
		},
		"unsupported extension": {
			file:     "doc.toml",
			contents: "a = 1",
			expErr:   `unsupported document format ".toml"`,
		},
		"invalid contents": {
			file:     "doc.yaml",
			contents: "limits:\n  a: -1\n",
			expErr:   `limit "a" must not be negative`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if tt.contents != "" {
				if err := os.WriteFile(path, []byte(tt.contents), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			var opts []DocumentOpt[*mockDoc]
			if tt.defaults != "" {
				opts = append(opts, WithDefaults[*mockDoc]([]byte(tt.defaults)))
			}

			doc, err := NewDocument(path, opts...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "limit", doc.Get().Limits["a"], tt.expLimit)
		})
	}
}

func TestDocument_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	doc, err := NewDocument(path, WithDefaults[*mockDoc]([]byte("limits: {}\n")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = doc.Save(&mockDoc{Limits: map[string]int{"a": 5}})
	if err != nil {
		t.Fatalf("unexpected error saving: %v", err)
	}

	err = os.WriteFile(path, []byte("limits:\n  a: 9\n"), 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	testutil.AssertEqual(t, "cached before reload", doc.Get().Limits["a"], 5)

	if err := doc.Reload(); err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}
	testutil.AssertEqual(t, "after reload", doc.Get().Limits["a"], 9)
}

func TestDocument_SaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	doc, err := NewDocument(path, WithDefaults[*mockDoc]([]byte("limits:\n  a: 2\n")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = doc.Save(&mockDoc{Limits: map[string]int{"a": -4}})
	testutil.AssertErrorContains(t, err, "must not be negative")
	testutil.AssertEqual(t, "cached", doc.Get().Limits["a"], 2)
}

func TestDocument_BadReloadKeepsValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	doc, err := NewDocument(path, WithDefaults[*mockDoc]([]byte("limits:\n  a: 2\n")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.WriteFile(path, []byte("limits: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	err = doc.Reload()
	testutil.AssertErrorContains(t, err, "unmarshalling doc.yaml")
	testutil.AssertEqual(t, "cached", doc.Get().Limits["a"], 2)
}

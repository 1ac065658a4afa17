package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

// mockStoreSpec implements ValidatingSpec for testing FileStore
type mockStoreSpec struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (s *mockStoreSpec) Validate() error {
	return nil
}

func writeAsset(t *testing.T, path string, asset Asset[*mockStoreSpec]) {
	t.Helper()
	data, err := json.Marshal(asset)
	if err != nil {
		t.Fatalf("failed to marshal test asset: %v", err)
	}
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "path", store.path, tmpDir)
	testutil.AssertEqual(t, "records length", len(store.records), 0)
}

func TestNewFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "accounts")

	_, err := NewFileStore[*mockStoreSpec](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	testutil.AssertEqual(t, "is dir", info.IsDir(), true)
}

func TestNewFileStore_Load(t *testing.T) {
	tests := map[string]struct {
		files    map[string]Asset[*mockStoreSpec]
		raw      map[string]string
		expErr   string
		expCount int
	}{
		"loads valid assets": {
			files: map[string]Asset[*mockStoreSpec]{
				"item-1.json": {Version: 1, Identifier: "item-1", Spec: &mockStoreSpec{Name: "First", Value: 1}},
				"item-2.json": {Version: 1, Identifier: "item-2", Spec: &mockStoreSpec{Name: "Second", Value: 2}},
			},
			expCount: 2,
		},
		"invalid json": {
			raw:    map[string]string{"bad.json": `{invalid json`},
			expErr: "unmarshalling asset",
		},
		"validation error": {
			files: map[string]Asset[*mockStoreSpec]{
				"test.json": {Version: 0, Identifier: "test", Spec: &mockStoreSpec{}},
			},
			expErr: "version must be set",
		},
		"duplicate key": {
			files: map[string]Asset[*mockStoreSpec]{
				"a.json": {Version: 1, Identifier: "dup", Spec: &mockStoreSpec{}},
				"b.json": {Version: 1, Identifier: "dup", Spec: &mockStoreSpec{}},
			},
			expErr: "duplicate key detected: dup",
		},
		"ignores non json files": {
			files: map[string]Asset[*mockStoreSpec]{
				"valid.json": {Version: 1, Identifier: "valid", Spec: &mockStoreSpec{}},
			},
			raw: map[string]string{
				"readme.txt": "ignore me",
				"data.yaml":  "ignore: me",
			},
			expCount: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for file, asset := range tt.files {
				writeAsset(t, filepath.Join(tmpDir, file), asset)
			}
			for file, content := range tt.raw {
				if err := os.WriteFile(filepath.Join(tmpDir, file), []byte(content), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			store, err := NewFileStore[*mockStoreSpec](tmpDir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", len(store.records), tt.expCount)
		})
	}
}

func TestFileStore_Get(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[string]*mockStoreSpec{
		"existing": {Name: "Test", Value: 42},
	}

	if got := store.Get("missing"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}

	got := store.Get("existing")
	if got == nil {
		t.Fatal("expected record")
	}
	testutil.AssertEqual(t, "name", got.Name, "Test")
	testutil.AssertEqual(t, "value", got.Value, 42)
}

func TestFileStore_GetAllReturnsCopy(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}
	store.records = map[string]*mockStoreSpec{
		"one": {Name: "One"},
		"two": {Name: "Two"},
	}

	all := store.GetAll()
	delete(all, "one")

	testutil.AssertEqual(t, "record count", len(store.records), 2)
}

func TestFileStore_Save(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Save("test-id", &mockStoreSpec{Name: "Initial", Value: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = store.Save("test-id", &mockStoreSpec{Name: "Updated", Value: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "test-id.json"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}

	var asset Asset[*mockStoreSpec]
	if err := json.Unmarshal(data, &asset); err != nil {
		t.Fatalf("failed to unmarshal saved data: %v", err)
	}

	testutil.AssertEqual(t, "asset version", asset.Version, uint(1))
	testutil.AssertEqual(t, "asset id", asset.Identifier, "test-id")
	testutil.AssertEqual(t, "spec name", asset.Spec.Name, "Updated")
	testutil.AssertEqual(t, "cached value", store.Get("test-id").Value, 2)

	reloaded, err := NewFileStore[*mockStoreSpec](tmpDir)
	if err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}
	testutil.AssertEqual(t, "reloaded value", reloaded.Get("test-id").Value, 2)
}

func TestFileStore_SaveRejectsBadId(t *testing.T) {
	store, err := NewFileStore[*mockStoreSpec](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error creating store: %v", err)
	}

	err = store.Save("../escape", &mockStoreSpec{})
	testutil.AssertErrorContains(t, err, "invalid id")
	testutil.AssertEqual(t, "record count", len(store.GetAll()), 0)
}

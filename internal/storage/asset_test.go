package storage_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/shopspring/decimal"

	"github.com/pixil98/go-quicksell/internal/economy"
	"github.com/pixil98/go-quicksell/internal/storage"
)

func account(balance string) *economy.Account {
	return &economy.Account{Balance: decimal.RequireFromString(balance)}
}

func TestAsset_ValidateAccount(t *testing.T) {
	tests := map[string]struct {
		asset   storage.Asset[*economy.Account]
		expErrs []string
	}{
		"player account": {
			asset: storage.Asset[*economy.Account]{
				Version:    1,
				Identifier: "069a79f4-44e9-4726-a5be-fca90e38aaf5",
				Spec:       account("50.25"),
			},
		},
		"missing version": {
			asset: storage.Asset[*economy.Account]{
				Identifier: "steve",
				Spec:       account("1"),
			},
			expErrs: []string{"version must be set"},
		},
		"player id with a dot": {
			asset: storage.Asset[*economy.Account]{
				Version:    1,
				Identifier: "steve.alt",
				Spec:       account("1"),
			},
			expErrs: []string{"id must be alphanumeric"},
		},
		"overdrawn": {
			asset: storage.Asset[*economy.Account]{
				Version:    1,
				Identifier: "steve",
				Spec:       account("-0.01"),
			},
			expErrs: []string{"balance must not be negative"},
		},
		"no spec": {
			asset: storage.Asset[*economy.Account]{
				Version:    1,
				Identifier: "steve",
			},
			expErrs: []string{"account spec is required"},
		},
		"everything wrong": {
			asset: storage.Asset[*economy.Account]{
				Spec: account("-5"),
			},
			expErrs: []string{"version must be set", "id must be set", "balance must not be negative"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()
			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			for _, exp := range tt.expErrs {
				testutil.AssertErrorContains(t, err, exp)
			}
		})
	}
}

func TestFileStore_AccountFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "accounts")

	store, err := storage.NewFileStore[*economy.Account](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("steve", account("12.50")); err != nil {
		t.Fatalf("saving: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "steve.json"))
	if err != nil {
		t.Fatalf("reading account file: %v", err)
	}
	testutil.AssertEqual(t, "indented", strings.Contains(string(data), "\n  \"spec\": {"), true)

	var asset storage.Asset[*economy.Account]
	if err := json.Unmarshal(data, &asset); err != nil {
		t.Fatalf("decoding account file: %v", err)
	}
	if err := asset.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "id", asset.Id(), "steve")
	testutil.AssertEqual(t, "balance", asset.Spec.Balance.StringFixed(2), "12.50")
}

func TestFileStore_RejectsOverdrawnAccountFile(t *testing.T) {
	dir := t.TempDir()
	raw := `{"version": 1, "id": "steve", "spec": {"balance": "-3"}}`
	if err := os.WriteFile(filepath.Join(dir, "steve.json"), []byte(raw), 0644); err != nil {
		t.Fatalf("writing account file: %v", err)
	}

	_, err := storage.NewFileStore[*economy.Account](dir)
	testutil.AssertErrorContains(t, err, "balance must not be negative")
}

func TestValidIdentifier(t *testing.T) {
	tests := map[string]struct {
		id  string
		exp bool
	}{
		"simple identifier": {id: "test", exp: true},
		"empty identifier":  {id: "", exp: true},
		"player uuid":       {id: "069a79f4-44e9-4726-a5be-fca90e38aaf5", exp: true},
		"path traversal":    {id: "../etc", exp: false},
		"spaces":            {id: "two words", exp: false},
		"subject wildcard":  {id: "steve.>", exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", storage.ValidIdentifier(tt.id), tt.exp)
		})
	}
}

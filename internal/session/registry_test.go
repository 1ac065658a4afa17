package session

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-quicksell/internal/host"
	"github.com/pixil98/go-quicksell/internal/menu"
)

func TestRegistry_Open(t *testing.T) {
	r := NewRegistry()
	p := host.NewMemPlayer("p1", "Steve")

	first, replaced := r.Open(p, menu.NewView("a"))
	if replaced != nil {
		t.Fatalf("expected nothing replaced, got %v", replaced)
	}

	second, replaced := r.Open(p, menu.NewView("b"))
	if replaced != first {
		t.Errorf("expected first session to be replaced")
	}

	got, ok := r.Lookup("p1")
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "last writer wins", got.View.ID, second.View.ID)
	testutil.AssertEqual(t, "len", r.Len(), 1)
}

func TestRegistry_Owns(t *testing.T) {
	r := NewRegistry()
	p := host.NewMemPlayer("p1", "Steve")
	s, _ := r.Open(p, menu.NewView("a"))

	tests := map[string]struct {
		playerID string
		viewID   string
		exp      bool
	}{
		"matching view":  {playerID: "p1", viewID: s.View.ID, exp: true},
		"other view":     {playerID: "p1", viewID: "chest-123", exp: false},
		"empty view id":  {playerID: "p1", viewID: "", exp: false},
		"unknown player": {playerID: "p2", viewID: s.View.ID, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok := r.Owns(tt.playerID, tt.viewID)
			testutil.AssertEqual(t, "owns", ok, tt.exp)
		})
	}
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()
	p := host.NewMemPlayer("p1", "Steve")
	r.Open(p, menu.NewView("a"))

	s, ok := r.Close("p1")
	testutil.AssertEqual(t, "closed", ok, true)
	testutil.AssertEqual(t, "player", s.PlayerID(), "p1")

	_, ok = r.Close("p1")
	testutil.AssertEqual(t, "second close", ok, false)
	testutil.AssertEqual(t, "len", r.Len(), 0)
}

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	r.Open(host.NewMemPlayer("c", "Carol"), menu.NewView("a"))
	r.Open(host.NewMemPlayer("a", "Alex"), menu.NewView("a"))
	r.Open(host.NewMemPlayer("b", "Bo"), menu.NewView("a"))

	var ids []string
	for _, s := range r.All() {
		ids = append(ids, s.PlayerID())
	}
	testutil.AssertEqual(t, "order", strings.Join(ids, ","), "a,b,c")
}

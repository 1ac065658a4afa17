package session

import (
	"cmp"
	"slices"
	"time"

	"github.com/pixil98/go-quicksell/internal/host"
	"github.com/pixil98/go-quicksell/internal/menu"
)

// Session is a player's open sell window.
type Session struct {
	Player   host.Player
	View     *menu.View
	OpenedAt time.Time
}

// PlayerID returns the id of the player owning the session.
func (s *Session) PlayerID() string {
	return s.Player.ID()
}

// Registry tracks at most one session per player. It is not safe for
// concurrent use; the plugin only touches it from its loop.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

// Open registers a session for p showing v. Any session the player already had
// is replaced and returned so the caller can settle it.
func (r *Registry) Open(p host.Player, v *menu.View) (s *Session, replaced *Session) {
	replaced = r.sessions[p.ID()]

	s = &Session{
		Player:   p,
		View:     v,
		OpenedAt: time.Now(),
	}
	r.sessions[p.ID()] = s

	return s, replaced
}

// Close removes and returns the player's session.
func (r *Registry) Close(playerID string) (*Session, bool) {
	s, ok := r.sessions[playerID]
	if ok {
		delete(r.sessions, playerID)
	}
	return s, ok
}

// Lookup returns the player's session.
func (r *Registry) Lookup(playerID string) (*Session, bool) {
	s, ok := r.sessions[playerID]
	return s, ok
}

// Owns returns the player's session only if viewID is the identity of its view.
func (r *Registry) Owns(playerID, viewID string) (*Session, bool) {
	s, ok := r.sessions[playerID]
	if !ok || viewID == "" || s.View.ID != viewID {
		return nil, false
	}
	return s, true
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// All returns every open session ordered by player id.
func (r *Registry) All() []*Session {
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Session) int {
		return cmp.Compare(a.PlayerID(), b.PlayerID())
	})
	return out
}

// Package hostlink connects the plugin to a game host over NATS. The host
// forwards window events and commands, and the plugin drives the host's
// players through per-player subjects. All payloads are JSON.
package hostlink

import (
	"fmt"

	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/storage"
)

// Subjects the plugin listens on.
const (
	SubjectClick   = "quicksell.events.click"
	SubjectDrag    = "quicksell.events.drag"
	SubjectClose   = "quicksell.events.close"
	SubjectCommand = "quicksell.commands"
)

// Per-player verbs the host answers on.
const (
	VerbMessage = "message"
	VerbView    = "view"
	VerbGive    = "give"
	VerbDrop    = "drop"
	VerbHeld    = "held"
)

// PlayerSubject is the subject the host serves verb on for one player.
func PlayerSubject(playerID, verb string) string {
	return fmt.Sprintf("host.players.%s.%s", playerID, verb)
}

// PlayerRef identifies a player and carries the permissions they held when
// the host sent the message.
type PlayerRef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Valid reports whether the id can be placed in a player subject. Dots and
// wildcards would address other players' subjects.
func (r PlayerRef) Valid() bool {
	return r.ID != "" && storage.ValidIdentifier(r.ID)
}

type ClickMsg struct {
	Player   PlayerRef     `json:"player"`
	ViewID   string        `json:"view_id"`
	Where    string        `json:"where"`
	Slot     int           `json:"slot"`
	Contents []*item.Stack `json:"contents,omitempty"`
}

type DragMsg struct {
	Player   PlayerRef     `json:"player"`
	ViewID   string        `json:"view_id"`
	Slots    []int         `json:"slots"`
	Contents []*item.Stack `json:"contents,omitempty"`
}

type CloseMsg struct {
	Player   PlayerRef     `json:"player"`
	ViewID   string        `json:"view_id"`
	Contents []*item.Stack `json:"contents,omitempty"`
}

// CancelReply answers click and drag events.
type CancelReply struct {
	Cancel bool `json:"cancel"`
}

// CommandMsg is a command typed by a player, or by the console when Sender is nil.
type CommandMsg struct {
	Sender *PlayerRef `json:"sender,omitempty"`
	Name   string     `json:"name"`
	Args   []string   `json:"args,omitempty"`
}

// CommandReply reports the command result. Messages only holds text meant
// for the console; players get theirs on their message subject.
type CommandReply struct {
	OK       bool     `json:"ok"`
	Messages []string `json:"messages,omitempty"`
}

type ViewAction string

const (
	ViewOpen   ViewAction = "open"
	ViewUpdate ViewAction = "update"
	ViewClose  ViewAction = "close"
)

// ViewMsg asks the host to show, refresh or close the player's window.
type ViewMsg struct {
	Action ViewAction    `json:"action"`
	ViewID string        `json:"view_id,omitempty"`
	Title  string        `json:"title,omitempty"`
	Slots  []*item.Stack `json:"slots,omitempty"`
}

type MessageMsg struct {
	Text string `json:"text"`
}

type ItemsMsg struct {
	Items []*item.Stack `json:"items"`
}

// GiveReply lists what did not fit in the player's inventory.
type GiveReply struct {
	Overflow []*item.Stack `json:"overflow,omitempty"`
	Error    string        `json:"error,omitempty"`
}

type HeldReply struct {
	Item  *item.Stack `json:"item,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Reply is the generic acknowledgement for host requests.
type Reply struct {
	Error string `json:"error,omitempty"`
}

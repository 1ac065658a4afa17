package hostlink

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-quicksell/internal/host"
	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/menu"
)

// remotePlayer is a host.Player living on the game host.
type remotePlayer struct {
	ref     PlayerRef
	conn    *nats.Conn
	timeout time.Duration
}

var _ host.Player = (*remotePlayer)(nil)

func (p *remotePlayer) ID() string   { return p.ref.ID }
func (p *remotePlayer) Name() string { return p.ref.Name }

func (p *remotePlayer) HasPermission(perm string) bool {
	return slices.Contains(p.ref.Permissions, perm)
}

func (p *remotePlayer) Message(_ context.Context, msg string) error {
	return p.publish(VerbMessage, MessageMsg{Text: msg})
}

func (p *remotePlayer) Give(ctx context.Context, stacks []*item.Stack) ([]*item.Stack, error) {
	var reply GiveReply
	if err := p.request(ctx, VerbGive, ItemsMsg{Items: stacks}, &reply); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("giving items: %s", reply.Error)
	}
	return reply.Overflow, nil
}

func (p *remotePlayer) Drop(_ context.Context, stacks []*item.Stack) error {
	return p.publish(VerbDrop, ItemsMsg{Items: stacks})
}

func (p *remotePlayer) HeldItem(ctx context.Context) (*item.Stack, error) {
	var reply HeldReply
	if err := p.request(ctx, VerbHeld, struct{}{}, &reply); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("reading held item: %s", reply.Error)
	}
	if reply.Item.IsEmpty() {
		return nil, nil
	}
	return reply.Item, nil
}

func (p *remotePlayer) OpenView(ctx context.Context, v *menu.View) error {
	return p.view(ctx, ViewMsg{Action: ViewOpen, ViewID: v.ID, Title: v.Title, Slots: v.Grid().Slots()})
}

func (p *remotePlayer) UpdateView(ctx context.Context, v *menu.View) error {
	return p.view(ctx, ViewMsg{Action: ViewUpdate, ViewID: v.ID, Slots: v.Grid().Slots()})
}

func (p *remotePlayer) CloseView(ctx context.Context) error {
	return p.view(ctx, ViewMsg{Action: ViewClose})
}

func (p *remotePlayer) view(ctx context.Context, msg ViewMsg) error {
	var reply Reply
	if err := p.request(ctx, VerbView, msg, &reply); err != nil {
		return err
	}
	if reply.Error != "" {
		return fmt.Errorf("%s view: %s", msg.Action, reply.Error)
	}
	return nil
}

func (p *remotePlayer) publish(verb string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", verb, err)
	}
	if err := p.conn.Publish(PlayerSubject(p.ref.ID, verb), data); err != nil {
		return fmt.Errorf("publishing %s: %w", verb, err)
	}
	return nil
}

func (p *remotePlayer) request(ctx context.Context, verb string, v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", verb, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg, err := p.conn.RequestWithContext(ctx, PlayerSubject(p.ref.ID, verb), data)
	if err != nil {
		return fmt.Errorf("requesting %s for %s: %w", verb, p.ref.ID, err)
	}
	if err := json.Unmarshal(msg.Data, out); err != nil {
		return fmt.Errorf("decoding %s reply: %w", verb, err)
	}
	return nil
}

// consoleSender collects the messages sent to the server console so they can
// be returned with the command reply. The console holds every permission.
type consoleSender struct {
	messages []string
}

func (c *consoleSender) Name() string { return "CONSOLE" }

func (c *consoleSender) HasPermission(_ string) bool { return true }

func (c *consoleSender) Message(_ context.Context, msg string) error {
	c.messages = append(c.messages, msg)
	return nil
}

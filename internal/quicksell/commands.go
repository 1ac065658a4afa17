package quicksell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pixil98/go-quicksell/internal/host"
	"github.com/pixil98/go-quicksell/internal/pricing"
)

// Command names. They are matched case-insensitively.
const (
	CommandSell   = "quicksell"
	CommandAdd    = "quickselladd"
	CommandReload = "quicksellreload"
)

// Dispatch runs a command and reports whether it succeeded. User errors are
// shown to the sender; anything else is logged.
func (p *Plugin) Dispatch(ctx context.Context, sender host.Sender, name string, args ...string) bool {
	err := p.Exec(ctx, sender, name, args...)
	if err == nil {
		return true
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		if merr := sender.Message(ctx, userErr.Message); merr != nil {
			slog.WarnContext(ctx, "sending message", "to", sender.Name(), "error", merr)
		}
		return false
	}

	slog.ErrorContext(ctx, "running command", "command", name, "sender", sender.Name(), "error", err)
	return false
}

// Exec runs the named command for sender.
func (p *Plugin) Exec(ctx context.Context, sender host.Sender, name string, args ...string) error {
	name = strings.ToLower(name)
	data := messageData{Player: sender.Name(), Command: name}

	switch name {
	case CommandSell:
		player, ok := sender.(host.Player)
		if !ok {
			return NewUserError(p.text(ctx, p.templates.playersOnly, data))
		}
		return p.Open(ctx, player)

	case CommandAdd:
		if !sender.HasPermission(host.PermissionAdd) {
			return NewUserError(p.text(ctx, p.templates.noPermission, data))
		}
		if len(args) != 1 {
			return NewUserError(p.text(ctx, p.templates.badArgCount, data))
		}
		price, err := strconv.ParseFloat(args[0], 64)
		if err != nil || pricing.ValidatePrice(price) != nil {
			return NewUserError(p.text(ctx, p.templates.badPrice, data))
		}
		player, ok := sender.(host.Player)
		if !ok {
			return NewUserError(p.text(ctx, p.templates.playersOnly, data))
		}
		return p.addPrice(ctx, player, price)

	case CommandReload:
		if !sender.HasPermission(host.PermissionReload) {
			return NewUserError(p.text(ctx, p.templates.noPermission, data))
		}
		if err := p.book.Reload(); err != nil {
			return err
		}
		p.message(ctx, sender, p.templates.reloaded, data)
		return nil

	default:
		return NewUserError(p.text(ctx, p.templates.unknownCommand, data))
	}
}

// addPrice prices the item the player is holding. An empty hand only earns
// the player a message.
func (p *Plugin) addPrice(ctx context.Context, player host.Player, price float64) error {
	data := messageData{Player: player.Name(), Command: CommandAdd}

	held, err := player.HeldItem(ctx)
	if err != nil {
		return fmt.Errorf("reading held item: %w", err)
	}
	if held.IsEmpty() {
		p.message(ctx, player, p.templates.emptyHand, data)
		return nil
	}

	k, err := p.book.SetPrice(held, price)
	if err != nil {
		return err
	}

	data.Key = k.String()
	data.Price = strconv.FormatFloat(price, 'f', -1, 64)
	p.message(ctx, player, p.templates.priceAdded, data)

	return nil
}

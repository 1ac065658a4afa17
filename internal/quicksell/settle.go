package quicksell

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/pixil98/go-quicksell/internal/display"
	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/pricing"
	"github.com/pixil98/go-quicksell/internal/session"
)

// SellAll sells everything in the view of s, credits the player and closes
// the view. Items worth nothing are returned first. If the deposit fails the
// items stay in the view and the session stays open.
func (p *Plugin) SellAll(ctx context.Context, s *session.Session) error {
	p.refresher.Cancel(s.PlayerID())

	payout := pricing.Payout(p.appraise(ctx, s))

	if payout.IsPositive() {
		if err := p.econ.Deposit(ctx, s.PlayerID(), payout); err != nil {
			p.builder.Render(s.View, payout)
			if uerr := s.Player.UpdateView(ctx, s.View); uerr != nil {
				slog.WarnContext(ctx, "updating sell view", "player", s.PlayerID(), "error", uerr)
			}
			p.message(ctx, s.Player, p.templates.saleFailed, messageData{Player: s.Player.Name()})
			return fmt.Errorf("depositing %s: %w", display.Money(payout), err)
		}
	}

	sold := s.View.Take()
	slog.InfoContext(ctx, "items sold", "player", s.PlayerID(), "items", item.Count(sold), "total", display.Money(payout))

	p.message(ctx, s.Player, p.templates.sold, messageData{
		Player: s.Player.Name(),
		Items:  item.Count(sold),
		Total:  display.Money(payout),
	})

	p.builder.Render(s.View, decimal.Zero)
	if err := s.Player.UpdateView(ctx, s.View); err != nil {
		slog.WarnContext(ctx, "updating sell view", "player", s.PlayerID(), "error", err)
	}

	p.sessions.Close(s.PlayerID())
	if err := s.Player.CloseView(ctx); err != nil {
		slog.WarnContext(ctx, "closing sell view", "player", s.PlayerID(), "error", err)
	}

	return nil
}

package hostlink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-quicksell/internal/economy"
	"github.com/pixil98/go-quicksell/internal/item"
	"github.com/pixil98/go-quicksell/internal/loop"
	"github.com/pixil98/go-quicksell/internal/menu"
	"github.com/pixil98/go-quicksell/internal/messaging"
	"github.com/pixil98/go-quicksell/internal/pricing"
	"github.com/pixil98/go-quicksell/internal/quicksell"
)

const (
	DefaultDiscoverTimeout = 5 * time.Second
	DefaultRequestTimeout  = 2 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Link is the worker that runs the plugin against a remote game host.
type Link struct {
	url  string
	book *pricing.Book

	discoverTimeout time.Duration
	requestTimeout  time.Duration
	pluginOpts      []quicksell.PluginOpt

	ready chan struct{}
}

type LinkOpt func(*Link)

// WithDiscoverTimeout bounds the wait for an economy provider at startup.
func WithDiscoverTimeout(d time.Duration) LinkOpt {
	return func(l *Link) {
		l.discoverTimeout = d
	}
}

// WithRequestTimeout bounds every request sent to the host or the economy.
func WithRequestTimeout(d time.Duration) LinkOpt {
	return func(l *Link) {
		l.requestTimeout = d
	}
}

// WithPluginOpts passes options through to the plugin.
func WithPluginOpts(opts ...quicksell.PluginOpt) LinkOpt {
	return func(l *Link) {
		l.pluginOpts = append(l.pluginOpts, opts...)
	}
}

func NewLink(url string, book *pricing.Book, opts ...LinkOpt) *Link {
	l := &Link{
		url:             url,
		book:            book,
		discoverTimeout: DefaultDiscoverTimeout,
		requestTimeout:  DefaultRequestTimeout,
		ready:           make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Ready is closed once the link is subscribed and serving events.
func (l *Link) Ready() <-chan struct{} {
	return l.ready
}

// Start connects, looks for an economy provider and serves host events until
// ctx is canceled. Without a provider the plugin stays disabled.
func (l *Link) Start(ctx context.Context) error {
	conn, err := messaging.Connect(ctx, l.url, "quicksell")
	if err != nil {
		return err
	}
	defer conn.Close()

	econ := economy.NewClient(conn, economy.WithRequestTimeout(l.requestTimeout))

	dctx, cancel := context.WithTimeout(ctx, l.discoverTimeout)
	provider, err := econ.Discover(dctx)
	cancel()
	if err != nil {
		if !errors.Is(err, economy.ErrUnavailable) {
			return err
		}
		slog.ErrorContext(ctx, "no economy provider found, quicksell disabled", "error", err)
		<-ctx.Done()
		return nil
	}
	slog.InfoContext(ctx, "economy provider found", "provider", provider.Name)

	lp := loop.New()
	opts := append([]quicksell.PluginOpt{quicksell.WithAfterFunc(lp.AfterFunc)}, l.pluginOpts...)
	plugin, err := quicksell.New(l.book, econ, opts...)
	if err != nil {
		return fmt.Errorf("creating plugin: %w", err)
	}

	// The loop outlives ctx so open views can be settled on shutdown.
	loopCtx, stopLoop := context.WithCancel(context.WithoutCancel(ctx))
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = lp.Start(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	h := &handler{conn: conn, loop: lp, plugin: plugin, timeout: l.requestTimeout}
	subs, err := h.subscribe()
	if err != nil {
		return err
	}
	close(l.ready)

	slog.InfoContext(ctx, "quicksell serving host events", "url", conn.ConnectedUrl())
	<-ctx.Done()

	for _, sub := range subs {
		if err := sub.Unsubscribe(); err != nil {
			slog.Warn("unsubscribing", "subject", sub.Subject, "error", err)
		}
	}

	sctx, cancel := context.WithTimeout(loopCtx, DefaultShutdownTimeout)
	defer cancel()
	err = lp.Call(sctx, func() error {
		plugin.CloseAll(sctx)
		return nil
	})
	if err != nil {
		slog.Warn("settling open views on shutdown", "error", err)
	}

	return nil
}

// handler decodes host messages and runs them on the plugin loop.
type handler struct {
	conn    *nats.Conn
	loop    *loop.Loop
	plugin  *quicksell.Plugin
	timeout time.Duration
}

func (h *handler) subscribe() ([]*nats.Subscription, error) {
	routes := map[string]nats.MsgHandler{
		SubjectClick:   h.onClick,
		SubjectDrag:    h.onDrag,
		SubjectClose:   h.onClose,
		SubjectCommand: h.onCommand,
	}

	var subs []*nats.Subscription
	for subject, fn := range routes {
		sub, err := h.conn.Subscribe(subject, fn)
		if err != nil {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
		}
		subs = append(subs, sub)
	}

	if err := h.conn.Flush(); err != nil {
		return nil, fmt.Errorf("flushing subscriptions: %w", err)
	}
	return subs, nil
}

func (h *handler) accept(subject string, ref PlayerRef) bool {
	if ref.Valid() {
		return true
	}
	slog.Warn("rejecting player id", "subject", subject, "id", ref.ID)
	return false
}

func (h *handler) player(ref PlayerRef) *remotePlayer {
	return &remotePlayer{ref: ref, conn: h.conn, timeout: h.timeout}
}

// run executes fn on the loop with a context that ends after the host's
// request would have timed out.
func (h *handler) run(fn func(ctx context.Context)) error {
	ctx, cancel := context.WithTimeout(context.Background(), 4*h.timeout)
	defer cancel()

	return h.loop.Call(ctx, func() error {
		fn(ctx)
		return nil
	})
}

func (h *handler) onClick(msg *nats.Msg) {
	var ev ClickMsg
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		slog.Warn("decoding click", "error", err)
		h.respond(msg, CancelReply{Cancel: true})
		return
	}
	if !h.accept(msg.Subject, ev.Player) {
		h.respond(msg, CancelReply{Cancel: true})
		return
	}

	var cancel bool
	err := h.run(func(ctx context.Context) {
		cancel = h.plugin.HandleClick(ctx, quicksell.ClickEvent{
			Player:   h.player(ev.Player),
			ViewID:   ev.ViewID,
			Where:    quicksell.Where(ev.Where),
			Slot:     ev.Slot,
			Contents: sellable(ev.Contents),
		})
	})
	if err != nil {
		slog.Warn("handling click", "player", ev.Player.ID, "error", err)
	}

	h.respond(msg, CancelReply{Cancel: cancel})
}

func (h *handler) onDrag(msg *nats.Msg) {
	var ev DragMsg
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		slog.Warn("decoding drag", "error", err)
		h.respond(msg, CancelReply{Cancel: true})
		return
	}
	if !h.accept(msg.Subject, ev.Player) {
		h.respond(msg, CancelReply{Cancel: true})
		return
	}

	var cancel bool
	err := h.run(func(ctx context.Context) {
		cancel = h.plugin.HandleDrag(ctx, quicksell.DragEvent{
			Player:   h.player(ev.Player),
			ViewID:   ev.ViewID,
			Slots:    ev.Slots,
			Contents: sellable(ev.Contents),
		})
	})
	if err != nil {
		slog.Warn("handling drag", "player", ev.Player.ID, "error", err)
	}

	h.respond(msg, CancelReply{Cancel: cancel})
}

func (h *handler) onClose(msg *nats.Msg) {
	var ev CloseMsg
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		slog.Warn("decoding close", "error", err)
		return
	}
	if !h.accept(msg.Subject, ev.Player) {
		h.respond(msg, Reply{})
		return
	}

	err := h.run(func(ctx context.Context) {
		h.plugin.HandleClose(ctx, quicksell.CloseEvent{
			Player:   h.player(ev.Player),
			ViewID:   ev.ViewID,
			Contents: sellable(ev.Contents),
		})
	})
	if err != nil {
		slog.Warn("handling close", "player", ev.Player.ID, "error", err)
	}

	// Close is normally published, but acknowledge it if the host asked.
	if msg.Reply != "" {
		h.respond(msg, Reply{})
	}
}

func (h *handler) onCommand(msg *nats.Msg) {
	var cmd CommandMsg
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		slog.Warn("decoding command", "error", err)
		h.respond(msg, CommandReply{})
		return
	}
	if cmd.Sender != nil && !h.accept(msg.Subject, *cmd.Sender) {
		h.respond(msg, CommandReply{})
		return
	}

	var reply CommandReply
	err := h.run(func(ctx context.Context) {
		if cmd.Sender == nil {
			console := &consoleSender{}
			reply.OK = h.plugin.Dispatch(ctx, console, cmd.Name, cmd.Args...)
			reply.Messages = console.messages
			return
		}
		reply.OK = h.plugin.Dispatch(ctx, h.player(*cmd.Sender), cmd.Name, cmd.Args...)
	})
	if err != nil {
		slog.Warn("handling command", "command", cmd.Name, "error", err)
	}

	h.respond(msg, reply)
}

func (h *handler) respond(msg *nats.Msg, v any) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("encoding reply", "subject", msg.Subject, "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.Warn("sending reply", "subject", msg.Subject, "error", err)
	}
}

// sellable keeps only the player-editable part of reported view contents.
func sellable(contents []*item.Stack) []*item.Stack {
	if contents == nil {
		return nil
	}
	out := make([]*item.Stack, menu.SellableSlots)
	copy(out, contents)
	return out
}

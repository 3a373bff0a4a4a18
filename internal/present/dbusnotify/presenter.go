// Package dbusnotify implements a presenter backed by the desktop's
// org.freedesktop.Notifications service. Rendering, placement, and user
// interaction all belong to the system notification daemon; this
// package only forwards shows and translates NotificationClosed signals
// back into dismissal events.
package dbusnotify

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/mlvnd/banner/internal/present"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")

	methodNotify = busName + ".Notify"
	methodClose  = busName + ".CloseNotification"
	signalClosed = busName + ".NotificationClosed"
)

// shown tracks one live notification: the view identity it was shown
// for and the config whose listeners receive its dismissal.
type shown struct {
	viewID string
	cfg    *present.Config
}

// Presenter shows views as desktop notifications.
type Presenter struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	logger *slog.Logger

	appName string
	defCfg  *present.Config

	active    map[uint32]shown
	signals   chan *dbus.Signal
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithLogger supplies a logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Presenter) { p.logger = logger }
}

// WithAppName sets the application name sent with each notification.
func WithAppName(name string) Option {
	return func(p *Presenter) { p.appName = name }
}

// WithDefaultConfig sets the config handed out by DefaultConfig.
func WithDefaultConfig(cfg *present.Config) Option {
	return func(p *Presenter) { p.defCfg = cfg }
}

// New connects to the session bus and subscribes to close signals.
// Call Close to release the connection.
func New(opts ...Option) (*Presenter, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	p := &Presenter{
		conn:    conn,
		logger:  slog.Default(),
		appName: "banner",
		defCfg:  &present.Config{Timeout: 10 * time.Second},
		active:  make(map[uint32]shown),
		signals: make(chan *dbus.Signal, 16),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface(busName),
		dbus.WithMatchMember("NotificationClosed"),
	); err != nil {
		return nil, fmt.Errorf("failed to subscribe to close signals: %w", err)
	}

	conn.Signal(p.signals)
	go p.watch()

	return p, nil
}

// Close stops watching for signals. Safe to call more than once. The
// bus connection is shared and stays open.
func (p *Presenter) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.conn != nil {
			p.conn.RemoveSignal(p.signals)
		}
	})
}

// DefaultConfig returns a copy of the presenter's default config.
func (p *Presenter) DefaultConfig() *present.Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defCfg.Clone()
}

// Geometry returns a zero snapshot: the desktop daemon owns layout and
// its container size is not observable from here.
func (p *Presenter) Geometry() present.Geometry {
	return present.Geometry{}
}

// Show sends a Notify call for the view and tracks the returned
// notification ID so its later close signal can be correlated.
func (p *Presenter) Show(cfg *present.Config, view *present.View) error {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgencyHint(view.Severity)),
	}

	var id uint32
	call := p.conn.Object(busName, objectPath).Call(
		methodNotify, 0,
		p.appName,
		uint32(0), // never replace; identity lives in the view ID
		"",        // app icon
		view.Summary,
		view.Body,
		[]string{}, // no actions
		hints,
		expireTimeoutMS(cfg.Timeout),
	)
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify call failed: %w", err)
	}

	p.mu.Lock()
	p.active[id] = shown{viewID: view.ID, cfg: cfg}
	p.mu.Unlock()

	p.logger.Debug("desktop notification shown",
		"view_id", view.ID,
		"notification_id", id,
	)
	return nil
}

// HideAll closes every live notification. The daemon answers each close
// with a NotificationClosed signal, which produces the did-hide events.
func (p *Presenter) HideAll() {
	p.mu.Lock()
	ids := make([]uint32, 0, len(p.active))
	for id := range p.active {
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, id := range ids {
		if call := p.conn.Object(busName, objectPath).Call(methodClose, 0, id); call.Err != nil {
			p.logger.Warn("failed to close notification",
				"notification_id", id,
				"error", call.Err,
			)
		}
	}
}

// watch translates NotificationClosed signals into dismissal events.
func (p *Presenter) watch() {
	for {
		select {
		case sig, ok := <-p.signals:
			if !ok {
				return
			}
			if sig.Name != signalClosed || len(sig.Body) != 2 {
				continue
			}
			id, ok1 := sig.Body[0].(uint32)
			wire, ok2 := sig.Body[1].(uint32)
			if !ok1 || !ok2 {
				continue
			}
			p.handleClosed(id, wire)

		case <-p.done:
			return
		}
	}
}

// handleClosed emits the did-hide event for a closed notification.
// Signals for notifications this presenter never showed are ignored.
func (p *Presenter) handleClosed(id, wire uint32) {
	p.mu.Lock()
	s, ok := p.active[id]
	if ok {
		delete(p.active, id)
	}
	p.mu.Unlock()

	if !ok {
		return
	}

	reason := mapReason(wire)
	p.logger.Debug("desktop notification closed",
		"view_id", s.viewID,
		"notification_id", id,
		"reason", reason,
	)

	s.cfg.NotifyDismissed(present.DismissalEvent{
		ID:   s.viewID,
		Kind: present.KindWillHide,
	})
	s.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     s.viewID,
		Kind:   present.KindDidHide,
		Reason: reason,
	})
}

// urgencyHint maps a view severity to the freedesktop urgency hint.
func urgencyHint(severity int) byte {
	switch severity {
	case present.SeverityLow:
		return 0
	case present.SeverityCritical:
		return 2
	default:
		return 1
	}
}

// expireTimeoutMS converts a config timeout to the wire format:
// milliseconds, with 0 meaning never expire.
func expireTimeoutMS(d time.Duration) int32 {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(ms)
}

// mapReason maps a NotificationClosed wire reason to a present.Reason.
func mapReason(wire uint32) present.Reason {
	switch present.Reason(wire) {
	case present.ReasonExpired, present.ReasonDismissed, present.ReasonClosed:
		return present.Reason(wire)
	default:
		return present.ReasonUndefined
	}
}

// Package tui provides a terminal overlay presenter and the interactive
// demo program, built on Bubble Tea and Lip Gloss.
package tui

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mlvnd/banner/internal/present"
)

// Banner is a terminal presenter holding at most one live view. It is
// designed to be embedded in a Bubble Tea model: the parent feeds it
// window sizes and composes View() into its own output, while timeouts
// and hides emit dismissal events through the config each view was
// shown with.
type Banner struct {
	mu     sync.Mutex
	logger *slog.Logger
	defCfg *present.Config

	width  int
	height int

	live *liveView
}

// liveView is the currently presented view with its show-time config.
type liveView struct {
	view    *present.View
	cfg     *present.Config
	shownAt time.Time
	timer   *time.Timer
}

// BannerOption configures a Banner.
type BannerOption func(*Banner)

// WithLogger supplies a logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) BannerOption {
	return func(b *Banner) { b.logger = logger }
}

// WithDefaultConfig sets the config handed out by DefaultConfig.
func WithDefaultConfig(cfg *present.Config) BannerOption {
	return func(b *Banner) { b.defCfg = cfg }
}

// NewBanner creates a terminal presenter.
func NewBanner(opts ...BannerOption) *Banner {
	b := &Banner{
		logger: slog.Default(),
		defCfg: &present.Config{
			Timeout:  10 * time.Second,
			Position: "top-right",
			MaxWidth: 60,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSize records the container geometry, typically from a
// tea.WindowSizeMsg.
func (b *Banner) SetSize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width = width
	b.height = height
}

// SetDefaultConfig replaces the default config, e.g. after a config
// hot-reload. Views already showing keep the config they were shown
// with.
func (b *Banner) SetDefaultConfig(cfg *present.Config) {
	if cfg == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.defCfg = cfg
}

// Geometry returns the container snapshot.
func (b *Banner) Geometry() present.Geometry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return present.Geometry{Width: b.width, Height: b.height}
}

// DefaultConfig returns a copy of the banner's default config.
func (b *Banner) DefaultConfig() *present.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.defCfg.Clone()
}

// Show presents view. Anything still showing is dismissed first with a
// did-hide event, so Show is safe to call without a preceding HideAll.
func (b *Banner) Show(cfg *present.Config, view *present.View) error {
	b.mu.Lock()
	prev := b.detachLocked()

	lv := &liveView{
		view:    view,
		cfg:     cfg,
		shownAt: time.Now(),
	}
	if cfg.Timeout > 0 {
		id := view.ID
		lv.timer = time.AfterFunc(cfg.Timeout, func() {
			b.expire(id)
		})
	}
	b.live = lv
	b.mu.Unlock()

	b.emit(prev, present.ReasonClosed)

	b.logger.Debug("banner shown",
		"id", view.ID,
		"severity", view.Severity,
		"timeout", cfg.Timeout,
	)
	return nil
}

// HideAll dismisses the live view, if any, emitting will-hide and
// did-hide with the programmatic close reason.
func (b *Banner) HideAll() {
	b.mu.Lock()
	prev := b.detachLocked()
	b.mu.Unlock()

	b.emit(prev, present.ReasonClosed)
}

// Dismiss hides the live view on behalf of the user (e.g. a key press),
// emitting did-hide with the dismissed reason.
func (b *Banner) Dismiss() {
	b.mu.Lock()
	prev := b.detachLocked()
	b.mu.Unlock()

	b.emit(prev, present.ReasonDismissed)
}

// Live returns the currently shown view and when it appeared, or nil.
func (b *Banner) Live() (*present.View, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.live == nil {
		return nil, time.Time{}
	}
	return b.live.view, b.live.shownAt
}

// expire handles a timeout firing for the view shown as id. A timer for
// a superseded view finds the id gone and does nothing.
func (b *Banner) expire(id string) {
	b.mu.Lock()
	if b.live == nil || b.live.view.ID != id {
		b.mu.Unlock()
		return
	}
	prev := b.detachLocked()
	b.mu.Unlock()

	b.logger.Debug("banner expired", "id", id)
	b.emit(prev, present.ReasonExpired)
}

// detachLocked removes the live view and stops its timer. Caller must
// hold the lock; events are emitted by the caller after unlocking, so
// listeners that re-enter the banner do not deadlock.
func (b *Banner) detachLocked() *liveView {
	lv := b.live
	if lv == nil {
		return nil
	}
	if lv.timer != nil {
		lv.timer.Stop()
	}
	b.live = nil
	return lv
}

// emit delivers the hide events for a detached view.
func (b *Banner) emit(lv *liveView, reason present.Reason) {
	if lv == nil {
		return
	}
	lv.cfg.NotifyDismissed(present.DismissalEvent{
		ID:   lv.view.ID,
		Kind: present.KindWillHide,
	})
	lv.cfg.NotifyDismissed(present.DismissalEvent{
		ID:     lv.view.ID,
		Kind:   present.KindDidHide,
		Reason: reason,
	})
}

// View renders the live view, or an empty string when nothing is
// showing.
func (b *Banner) View() string {
	b.mu.Lock()
	lv := b.live
	width := b.width
	b.mu.Unlock()

	if lv == nil {
		return ""
	}
	return renderView(lv.view, lv.cfg, width)
}

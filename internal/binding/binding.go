package binding

import (
	"log/slog"
	"sync/atomic"

	"github.com/mlvnd/banner/internal/model"
	"github.com/mlvnd/banner/internal/present"
)

// BuildFunc turns a message into a presentable view. geo is a read-only
// snapshot of the presenter's container for builders that size their
// output.
type BuildFunc func(m model.Message, geo present.Geometry) *present.View

// SoundPlayer plays a sound file when a message is shown. Satisfied by
// audio.Player.
type SoundPlayer interface {
	Play(path string) error
}

// Binding keeps "is a message visually presented" synchronized with
// "is a message present in the cell". It supports exactly one active
// message: every change hides everything the presenter is showing
// before presenting the new value.
type Binding struct {
	cell      *Cell
	build     BuildFunc
	presenter present.Presenter
	config    *present.Config
	logger    *slog.Logger

	player SoundPlayer
	sounds map[int]string

	// gen counts re-synchronizations. Each show's dismissal listener
	// captures the generation it was created under, so events from a
	// superseded show are ignored even when the superseding message
	// carries the same identity.
	gen atomic.Uint64

	cancel func()
}

// Option configures a Binding.
type Option func(*Binding)

// WithPresenter supplies an explicit presenter instead of the
// process-wide default.
func WithPresenter(p present.Presenter) Option {
	return func(b *Binding) { b.presenter = p }
}

// WithConfig supplies an explicit presentation config. It is used
// verbatim (plus the appended dismissal listener), overriding both the
// message's self-described config and the presenter's default.
func WithConfig(cfg *present.Config) Option {
	return func(b *Binding) { b.config = cfg }
}

// WithLogger supplies a logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binding) { b.logger = logger }
}

// WithSound plays a per-severity sound whenever a message is shown.
// A config-level Sound path takes precedence over the severity map.
func WithSound(player SoundPlayer, sounds map[int]string) Option {
	return func(b *Binding) {
		b.player = player
		b.sounds = sounds
	}
}

// Bind subscribes to cell and synchronizes the presenter to its current
// value immediately, then on every change. Close releases the
// subscription.
func Bind(cell *Cell, build BuildFunc, opts ...Option) *Binding {
	b := &Binding{
		cell:   cell,
		build:  build,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.build == nil {
		b.build = DefaultBuilder
	}

	b.cancel = cell.Subscribe(b.onCellChanged)
	b.onCellChanged(cell.Get())
	return b
}

// BindDefault is Bind with the default content builder, for callers
// whose messages present as plain summary/body views.
func BindDefault(cell *Cell, opts ...Option) *Binding {
	return Bind(cell, DefaultBuilder, opts...)
}

// DefaultBuilder maps a message verbatim onto a view.
func DefaultBuilder(m model.Message, _ present.Geometry) *present.View {
	return &present.View{
		ID:       m.ID,
		Summary:  m.Summary,
		Body:     m.Body,
		Severity: m.Severity,
	}
}

// Close detaches the binding from its cell. Views already showing are
// left to the presenter's own lifecycle.
func (b *Binding) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// onCellChanged re-synchronizes the presenter to the new cell value.
// It runs once per change, including the initial value at bind time.
func (b *Binding) onCellChanged(m *model.Message) {
	gen := b.gen.Add(1)

	p := b.presenter
	if p == nil {
		p = present.Default()
	}
	if p == nil {
		b.logger.Warn("no presenter available, message dropped")
		return
	}

	// One active message per binding: whatever is showing is superseded,
	// whether the new value is a message or empty.
	p.HideAll()

	if m == nil {
		return
	}
	msg := *m

	cfg := b.effectiveConfig(&msg, p).Clone()
	cfg.OnDismiss(b.dismissListener(gen))

	view := b.build(msg, p.Geometry())

	b.playSound(cfg, msg.Severity)

	if err := p.Show(cfg, view); err != nil {
		b.logger.Warn("failed to show message",
			"id", msg.ID,
			"summary", msg.Summary,
			"error", err,
		)
		return
	}

	b.logger.Debug("showed message",
		"id", msg.ID,
		"severity", msg.SeverityName,
	)
}

// effectiveConfig resolves the presentation config: explicit binding
// config, else the message's self-described config, else the
// presenter's default. Each layer is asked in turn; the first present
// value wins.
func (b *Binding) effectiveConfig(m *model.Message, p present.Presenter) *present.Config {
	if b.config != nil {
		return b.config
	}
	if m.Present != nil {
		return m.Present
	}
	return p.DefaultConfig()
}

// dismissListener closes the loop from the presenter back to the cell.
// The cell is re-read live when the event fires: a delayed dismissal
// for a superseded message must not clear a cell that has since been
// reassigned. The generation check covers the case identity cannot:
// re-setting the same message hides and re-shows it, and the hidden
// instance's did-hide must not clear the cell out from under the new
// show. Presenters that deliver events synchronously from HideAll hit
// this while onCellChanged is still on the stack.
func (b *Binding) dismissListener(gen uint64) present.DismissListener {
	return func(ev present.DismissalEvent) {
		if ev.Kind != present.KindDidHide {
			return
		}
		if gen != b.gen.Load() {
			return
		}
		cur := b.cell.Get()
		if cur == nil || cur.ID != ev.ID {
			return
		}
		b.logger.Debug("message dismissed",
			"id", ev.ID,
			"reason", ev.Reason,
		)
		b.cell.Clear()
	}
}

// playSound plays the show sound, if any is configured.
func (b *Binding) playSound(cfg *present.Config, severity int) {
	if b.player == nil {
		return
	}
	path := cfg.Sound
	if path == "" {
		path = b.sounds[severity]
	}
	if path == "" {
		return
	}
	if err := b.player.Play(path); err != nil {
		b.logger.Warn("failed to play show sound", "path", path, "error", err)
	}
}

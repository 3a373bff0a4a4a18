package present

import "time"

// DismissListener receives dismissal events for the view its config was
// shown with. Listeners are invoked synchronously by presenters; they
// must not block.
type DismissListener func(ev DismissalEvent)

// Config carries the presentation options for a single show. It is
// opaque to bindings except for one augmentation: listeners may be
// appended before each show.
type Config struct {
	// Timeout is how long the view stays visible. Zero means never
	// expire.
	Timeout time.Duration

	// Position is the screen anchor, e.g. "top-right" or "bottom-left".
	Position string

	// MaxWidth caps the rendered width in cells/pixels. Zero means the
	// presenter's own limit applies.
	MaxWidth int

	// Sound is an optional sound file played when the view is shown.
	Sound string

	listeners []DismissListener
}

// Clone returns a copy of the config, including its listeners. Shows
// append a listener per presentation, so callers that reuse a config
// across shows clone it first.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	out := *c
	out.listeners = make([]DismissListener, len(c.listeners))
	copy(out.listeners, c.listeners)
	return &out
}

// OnDismiss appends a dismissal listener.
func (c *Config) OnDismiss(fn DismissListener) {
	if fn == nil {
		return
	}
	c.listeners = append(c.listeners, fn)
}

// NotifyDismissed delivers ev to every registered listener, in
// registration order. Presenters call this for each view they remove,
// using the config that view was shown with.
func (c *Config) NotifyDismissed(ev DismissalEvent) {
	if c == nil {
		return
	}
	for _, fn := range c.listeners {
		fn(ev)
	}
}

// Package present defines the boundary between message bindings and the
// imperative overlay engines that draw them. A Presenter owns all visual
// side effects; bindings only instruct it to show and hide views and
// listen for the dismissal events it emits.
package present

// Severity levels matching the freedesktop urgency values.
const (
	SeverityLow      = 0
	SeverityNormal   = 1
	SeverityCritical = 2
)

// SeverityNames maps severity levels to human-readable names.
var SeverityNames = map[int]string{
	SeverityLow:      "low",
	SeverityNormal:   "normal",
	SeverityCritical: "critical",
}

// View is a presentable rendering of a message. ID is the identity that
// correlates a show with its later dismissal event; it is carried through
// the presenter untouched.
type View struct {
	ID       string
	Summary  string
	Body     string
	Severity int

	// Content is optional pre-rendered text used by terminal presenters.
	// When empty, presenters compose their own rendering from Summary
	// and Body.
	Content string
}

// Geometry is a read-only snapshot of the presentation container,
// passed to geometry-aware content builders.
type Geometry struct {
	Width  int
	Height int
}

// Presenter is the single side-effecting dependency of a binding.
type Presenter interface {
	// Show presents view governed by cfg. It may be called while another
	// view is still showing; the caller is expected to have issued
	// HideAll first, but presenters must tolerate overlapping calls.
	Show(cfg *Config, view *View) error

	// HideAll dismisses every currently presented view. Each dismissed
	// view eventually produces a did-hide event through the listeners
	// registered on the config it was shown with, even when the hide was
	// programmatic.
	HideAll()

	// DefaultConfig returns the config used when a caller supplies none.
	DefaultConfig() *Config

	// Geometry returns the current container snapshot.
	Geometry() Geometry
}

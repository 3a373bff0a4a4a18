package present

// EventKind distinguishes the phases of a dismissal. Only KindDidHide
// marks a view as actually gone; bindings ignore everything else.
type EventKind int

const (
	// KindWillHide is emitted just before a view is removed.
	KindWillHide EventKind = iota
	// KindDidHide is emitted after a view has been removed.
	KindDidHide
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case KindWillHide:
		return "will-hide"
	case KindDidHide:
		return "did-hide"
	default:
		return "unknown"
	}
}

// Reason describes why a view was dismissed. The values match the
// freedesktop.org notification close reasons.
type Reason uint32

const (
	// ReasonExpired indicates the view's timeout elapsed.
	ReasonExpired Reason = 1
	// ReasonDismissed indicates the user dismissed the view.
	ReasonDismissed Reason = 2
	// ReasonClosed indicates the view was hidden programmatically.
	ReasonClosed Reason = 3
	// ReasonUndefined is reserved/undefined per the freedesktop
	// notifications protocol.
	ReasonUndefined Reason = 4
)

// String returns the string representation of the close reason.
func (r Reason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonClosed:
		return "closed"
	case ReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// DismissalEvent is emitted by a presenter when a presented view stops
// being displayed. ID is the identity the view was shown with.
type DismissalEvent struct {
	ID     string
	Kind   EventKind
	Reason Reason
}

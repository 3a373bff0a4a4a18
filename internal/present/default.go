package present

import "sync"

// The process-wide default presenter is explicitly installed rather than
// looked up implicitly, so tests can substitute a fake without touching
// global display state.
var (
	defaultMu        sync.RWMutex
	defaultPresenter Presenter
)

// SetDefault installs the process-wide default presenter used by
// bindings that were not given an explicit one. Passing nil uninstalls
// the default.
func SetDefault(p Presenter) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultPresenter = p
}

// Default returns the process-wide default presenter, or nil if none
// has been installed.
func Default() Presenter {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultPresenter
}

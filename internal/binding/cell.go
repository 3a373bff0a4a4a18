// Package binding synchronizes an observable optional message with an
// imperative overlay presenter, in both directions: cell changes drive
// show/hide calls, and presenter dismissals clear the cell.
package binding

import (
	"sync"

	"github.com/mlvnd/banner/internal/model"
)

// Cell is a mutable optional message storage location owned by the
// application and observed by bindings. Observers are invoked
// synchronously after the value swap, outside the lock, so an observer
// may set the cell again (the dismissal path does exactly that).
type Cell struct {
	mu   sync.Mutex
	val  *model.Message
	subs []subscriber
	next int
}

type subscriber struct {
	id int
	fn func(*model.Message)
}

// NewCell creates an empty cell.
func NewCell() *Cell {
	return &Cell{}
}

// Get returns the current value, or nil when the cell is empty.
func (c *Cell) Get() *model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

// Set stores m (which may be nil to empty the cell) and notifies every
// subscriber. Subscribers observe the new value already in place, so a
// re-read during notification sees m.
func (c *Cell) Set(m *model.Message) {
	c.mu.Lock()
	c.val = m
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(m)
	}
}

// Clear empties the cell, notifying subscribers.
func (c *Cell) Clear() {
	c.Set(nil)
}

// Subscribe registers fn to be called on every change. The returned
// cancel function removes the subscription; it is safe to call more
// than once.
func (c *Cell) Subscribe(fn func(*model.Message)) (cancel func()) {
	c.mu.Lock()
	id := c.next
	c.next++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

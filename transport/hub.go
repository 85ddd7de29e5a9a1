// Package transport serializes access to a *spreadsheet.Engine across the
// several command surfaces that can reach it at once: the stdin CLI loop
// (C9), the live viewport server (C10), and the remote control plane (C11).
//
// The core itself is strictly single-threaded: no command observes a
// partial state, and effects of command i are fully visible before command
// i+1 begins. The core's own Dispatch has no locking because it is meant to
// be driven by a single caller. Once more than one transport can call
// Dispatch concurrently, something has to enforce that same one-at-a-time
// ordering from the outside; Hub is that something, a mutex guarding
// concurrent callers mutating one *Engine.
package transport

import (
	"strings"
	"sync"

	"gridsheet/spreadsheet"
)

// Hub wraps an Engine with a mutex so that Dispatch calls arriving from
// different goroutines are totally ordered, and with a simple broadcast
// channel so viewport observers (C10) can wake up after every mutation
// without polling.
type Hub struct {
	mu     sync.Mutex
	engine *spreadsheet.Engine

	subMu sync.Mutex
	subs  map[chan struct{}]struct{}
}

// New wraps an already-constructed Engine.
func New(e *spreadsheet.Engine) *Hub {
	return &Hub{engine: e, subs: make(map[chan struct{}]struct{})}
}

// Dispatch executes one command line against the wrapped Engine, holding
// the Hub's mutex for the duration, then wakes any subscribers.
func (h *Hub) Dispatch(line string) spreadsheet.Result {
	h.mu.Lock()
	r := h.engine.Dispatch(line)
	h.mu.Unlock()
	h.broadcast()
	return r
}

// View runs fn with the Hub's mutex held, for callers (viewport rendering,
// diagnostics) that need a consistent read of engine state without racing a
// concurrent Dispatch.
func (h *Hub) View(fn func(e *spreadsheet.Engine)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.engine)
}

// Viewport renders the current 10x10 window under the Hub's lock.
func (h *Hub) Viewport() string {
	var b strings.Builder
	h.View(func(e *spreadsheet.Engine) {
		e.RenderViewport(&b)
	})
	return b.String()
}

// Subscribe registers a channel that receives a notification (non-blocking,
// capacity 1 — a coalesced "something changed" signal, not an event queue)
// after every Dispatch. The returned func unregisters it.
func (h *Hub) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.subMu.Lock()
	h.subs[ch] = struct{}{}
	h.subMu.Unlock()
	return ch, func() {
		h.subMu.Lock()
		delete(h.subs, ch)
		h.subMu.Unlock()
	}
}

func (h *Hub) broadcast() {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

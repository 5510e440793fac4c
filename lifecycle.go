// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

// contextState tracks the context lifecycle: Live -> Lost -> Restoring ->
// Live. Loss notifications arrive asynchronously from the host but are
// treated as happening strictly between frames; every bind/draw entry point
// gates on the state so nothing reaches the driver while the context is
// gone.
type contextState uint8

const (
	stateLive contextState = iota
	stateLost
	stateRestoring
)

// String returns the state name.
func (s contextState) String() string {
	switch s {
	case stateLive:
		return "Live"
	case stateLost:
		return "Lost"
	case stateRestoring:
		return "Restoring"
	default:
		return "Unknown"
	}
}

// lifecycleManager owns the context state machine and the observer lists.
type lifecycleManager struct {
	st contextState

	// generation counts restorations. Recorded snapshots (vertex arrays)
	// carry the generation they were recorded under and go stale when it
	// bumps.
	generation uint64

	nextToken         int
	lostObservers     map[int]func()
	restoredObservers map[int]func()
}

func newLifecycleManager() *lifecycleManager {
	return &lifecycleManager{
		st:                stateLive,
		lostObservers:     make(map[int]func()),
		restoredObservers: make(map[int]func()),
	}
}

func (l *lifecycleManager) state() contextState { return l.st }

// IsContextLost reports whether the engine is currently gating calls because
// the context is lost or mid-restoration.
func (e *Engine) IsContextLost() bool {
	return e.lifecycle.state() != stateLive
}

// ContextGeneration returns the restoration counter. It bumps once per
// completed restoration; consumers compare it to decide whether recorded
// state (vertex arrays, effects) predates the current context.
func (e *Engine) ContextGeneration() uint64 {
	return e.lifecycle.generation
}

// OnContextLost subscribes fn to context-loss notifications. The returned
// function removes the subscription.
func (e *Engine) OnContextLost(fn func()) (remove func()) {
	l := e.lifecycle
	token := l.nextToken
	l.nextToken++
	l.lostObservers[token] = fn
	return func() { delete(l.lostObservers, token) }
}

// OnContextRestored subscribes fn to restoration notifications. Observers
// run after the engine has finished its own re-initialization, so they may
// immediately recompile effects and re-record vertex arrays.
func (e *Engine) OnContextRestored(fn func()) (remove func()) {
	l := e.lifecycle
	token := l.nextToken
	l.nextToken++
	l.restoredObservers[token] = fn
	return func() { delete(l.restoredObservers, token) }
}

// NotifyContextLost moves the engine to the Lost state. The host has already
// freed every driver-side allocation, so nothing is deleted here: compiled
// programs are marked invalid, the capability record is considered stale,
// and every subsequent bind/draw call becomes a safe no-op until
// restoration.
//
// Drivers that receive host loss events (the browser's webglcontextlost)
// call this; tests call it directly to simulate loss.
func (e *Engine) NotifyContextLost() {
	if e.ignoreLossEvents {
		return
	}
	l := e.lifecycle
	if l.st != stateLive {
		return
	}
	l.st = stateLost
	Logger().Info("thinengine: context lost")

	e.invalidatePrograms()

	for _, fn := range l.lostObservers {
		fn()
	}
}

// NotifyContextRestored brings the engine back to Live: the capability probe
// runs again, the state cache is wiped and resized against the fresh record,
// the default framebuffer binding is rebuilt, and the context generation
// bumps. Only then are restoration observers notified — consumers holding
// effects must recompile them (the engine does not retain their source
// text), and recorded vertex arrays must be re-recorded.
func (e *Engine) NotifyContextRestored() {
	if e.ignoreLossEvents {
		return
	}
	l := e.lifecycle
	if l.st != stateLost {
		return
	}
	l.st = stateRestoring
	Logger().Info("thinengine: context restoring")

	e.caps = probeCapabilities(e.ctx, e.userAgent, e.quirks)
	e.state = newStateCache(e.ctx, e.caps.MaxTextureChannels, e.caps.MaxVertexAttribs)
	e.state.wipe()

	l.generation++
	l.st = stateLive
	Logger().Info("thinengine: context restored", "generation", l.generation)

	for _, fn := range l.restoredObservers {
		fn()
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"github.com/gogpu/thinengine/driver"
	"github.com/gogpu/thinengine/internal/pipecache"
)

// Engine owns exactly one graphics context and everything derived from it:
// the capability record, the bound-state cache, the resource tables and the
// context lifecycle.
//
// Engine is not safe for concurrent use. One goroutine drives the render
// loop and issues all graphics calls; the underlying context cannot be
// safely called from multiple goroutines and the engine adds no locking on
// top. Context loss notifications may originate elsewhere but must be
// delivered between frames.
//
// Sharing one context between two engine instances is unsupported. The
// documented escape hatch for callers who do it anyway is WipeCache: call it
// every time control returns to this engine, so its cache stops assuming it
// knows the context state.
type Engine struct {
	ctx       driver.Context
	caps      Capabilities
	state     *stateCache
	lifecycle *lifecycleManager
	programs  *pipecache.Table[string, *pipelineContext]

	userAgent        string
	quirks           []Quirk
	globalDefines    string
	ignoreLossEvents bool
}

// New creates an engine over a graphics context. Without WithDriver the
// driver registry's best available driver is used; ErrNoDriver is returned
// when none is registered.
//
// Creation probes capabilities once and wipes the state cache so cache and
// context start in agreement.
func New(opts ...Option) (*Engine, error) {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	ctx := o.ctx
	if ctx == nil {
		var err error
		ctx, err = driver.Default()
		if err != nil {
			return nil, ErrNoDriver
		}
	}

	globalDefines := o.globalDefines
	if o.reversedDepth {
		globalDefines += "#define REVERSED_DEPTH\n"
	}

	e := &Engine{
		ctx:              ctx,
		lifecycle:        newLifecycleManager(),
		programs:         pipecache.New[string, *pipelineContext](),
		userAgent:        o.userAgent,
		quirks:           o.quirks,
		globalDefines:    globalDefines,
		ignoreLossEvents: o.ignoreLossEvents,
	}
	e.caps = probeCapabilities(ctx, e.userAgent, e.quirks)
	e.state = newStateCache(ctx, e.caps.MaxTextureChannels, e.caps.MaxVertexAttribs)
	e.state.wipe()

	Logger().Info("thinengine: engine created",
		"version", e.caps.Version,
		"renderer", e.caps.Renderer,
		"textureChannels", e.caps.MaxTextureChannels)
	return e, nil
}

// Caps returns the capability record probed at creation (or at the last
// restoration). The record is immutable; callers may hold it.
func (e *Engine) Caps() Capabilities {
	return e.caps
}

// ProgramCacheStats reports compiled-program memoization counters.
func (e *Engine) ProgramCacheStats() pipecache.Stats {
	return e.programs.Stats()
}

// WipeCache forcibly resets the bound-state cache and reissues default
// state. Use it after a foreign code path may have mutated the context
// behind the engine's back — including the unsupported pattern of two
// engines hand-sharing one context — and after any driver call that threw
// mid-binding, which leaves the cache provably wrong.
func (e *Engine) WipeCache() {
	if e.lifecycle.state() != stateLive {
		return
	}
	e.state.wipe()
}

// Dispose releases every table the engine owns. Live programs are deleted
// regardless of reference count; the engine is unusable afterwards. Buffer
// and texture handles remain the responsibility of their owners.
func (e *Engine) Dispose() {
	if e.lifecycle.state() == stateLive {
		e.programs.Range(func(_ string, pc *pipelineContext) {
			if pc.valid {
				e.ctx.DeleteProgram(pc.program)
			}
			pc.valid = false
		})
	}
	e.programs.Clear()
}

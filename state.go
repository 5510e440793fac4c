// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"github.com/gogpu/thinengine/driver"
)

// attribPointer is the full tuple behind one vertex attribute slot. The
// underlying API has no way to patch a single field, so any difference forces
// a full re-issue of the pointer call.
type attribPointer struct {
	buffer     driver.Buffer
	size       int
	typ        driver.AttribType
	normalized bool
	stride     int
	offset     int
}

// attribState is the cached state of one vertex attribute slot.
type attribState struct {
	enabled      bool
	enabledKnown bool
	ptr          attribPointer
	ptrKnown     bool
	divisor      int
	divisorKnown bool
}

// stateCache mirrors the context's mutable binding state. Every mutation of
// the context flows through here; a call whose requested value equals the
// cached value is free (no driver call, no side effect).
//
// The cache must always equal the actual context state. Code that mutates the
// context behind the cache's back breaks that invariant; the only recovery is
// wipe. There is no locking: the engine is driven by a single goroutine.
type stateCache struct {
	ctx driver.Context

	buffers      [driver.NumBufferTargets]driver.Buffer
	buffersKnown [driver.NumBufferTargets]bool

	textures      []driver.Texture
	texturesKnown []bool

	activeChannel      int
	activeChannelKnown bool

	program      driver.Program
	programKnown bool

	framebuffer      driver.Framebuffer
	framebufferKnown bool

	vertexArray      driver.VertexArray
	vertexArrayKnown bool

	attribs []attribState

	viewport      [4]int
	viewportKnown bool
}

// newStateCache creates a cache sized from the capability record. All slots
// start unknown; the caller is expected to wipe, which reissues defaults.
func newStateCache(ctx driver.Context, channels, attribs int) *stateCache {
	return &stateCache{
		ctx:           ctx,
		textures:      make([]driver.Texture, channels),
		texturesKnown: make([]bool, channels),
		attribs:       make([]attribState, attribs),
	}
}

// bindBuffer binds b to the target, skipping the driver call when b is
// already current.
func (s *stateCache) bindBuffer(target driver.BufferTarget, b driver.Buffer) {
	if s.buffersKnown[target] && s.buffers[target] == b {
		return
	}
	s.ctx.BindBuffer(target, b)
	s.buffers[target] = b
	s.buffersKnown[target] = true
}

// activeTexture selects the active channel, skipping when already selected.
func (s *stateCache) activeTexture(channel int) {
	if s.activeChannelKnown && s.activeChannel == channel {
		return
	}
	s.ctx.ActiveTexture(channel)
	s.activeChannel = channel
	s.activeChannelKnown = true
}

// bindTexture binds t on the given channel, selecting the channel first.
// The skip path still selects the channel: callers follow a bind with
// per-texture calls (TexImage2D, TexParameteri) that target whatever channel
// is active, and the select itself is cached.
func (s *stateCache) bindTexture(channel int, t driver.Texture) {
	if s.texturesKnown[channel] && s.textures[channel] == t {
		s.activeTexture(channel)
		return
	}
	s.activeTexture(channel)
	s.ctx.BindTexture(t)
	s.textures[channel] = t
	s.texturesKnown[channel] = true
}

// useProgram makes p current, skipping when already current.
func (s *stateCache) useProgram(p driver.Program) {
	if s.programKnown && s.program == p {
		return
	}
	s.ctx.UseProgram(p)
	s.program = p
	s.programKnown = true
}

// bindFramebuffer binds f; the zero handle selects the default framebuffer.
func (s *stateCache) bindFramebuffer(f driver.Framebuffer) {
	if s.framebufferKnown && s.framebuffer == f {
		return
	}
	s.ctx.BindFramebuffer(f)
	s.framebuffer = f
	s.framebufferKnown = true
}

// bindVertexArray binds a recorded vertex array. Switching vertex arrays
// swaps the context's element buffer and attribute state underneath us, so
// those slots become unknown.
func (s *stateCache) bindVertexArray(a driver.VertexArray) {
	if s.vertexArrayKnown && s.vertexArray == a {
		return
	}
	s.ctx.BindVertexArray(a)
	s.vertexArray = a
	s.vertexArrayKnown = true

	s.buffersKnown[driver.TargetElementArray] = false
	for i := range s.attribs {
		s.attribs[i] = attribState{}
	}
}

// setViewport sets the viewport rectangle, skipping when unchanged.
func (s *stateCache) setViewport(x, y, width, height int) {
	rect := [4]int{x, y, width, height}
	if s.viewportKnown && s.viewport == rect {
		return
	}
	s.ctx.Viewport(x, y, width, height)
	s.viewport = rect
	s.viewportKnown = true
}

// enableAttrib enables or disables one attribute slot.
func (s *stateCache) enableAttrib(index int, enabled bool) {
	a := &s.attribs[index]
	if a.enabledKnown && a.enabled == enabled {
		return
	}
	if enabled {
		s.ctx.EnableVertexAttrib(index)
	} else {
		s.ctx.DisableVertexAttrib(index)
	}
	a.enabled = enabled
	a.enabledKnown = true
}

// setAttribute configures one attribute slot from ptr.buffer. The whole tuple
// is diffed: one differing field re-issues the full pointer call.
func (s *stateCache) setAttribute(index int, ptr attribPointer) {
	a := &s.attribs[index]
	if a.ptrKnown && a.ptr == ptr {
		return
	}
	s.bindBuffer(driver.TargetArray, ptr.buffer)
	s.ctx.VertexAttribPointer(index, ptr.size, ptr.typ, ptr.normalized, ptr.stride, ptr.offset)
	a.ptr = ptr
	a.ptrKnown = true
}

// setAttribDivisor sets the instancing divisor of one attribute slot.
func (s *stateCache) setAttribDivisor(index, divisor int) {
	a := &s.attribs[index]
	if a.divisorKnown && a.divisor == divisor {
		return
	}
	s.ctx.VertexAttribDivisor(index, divisor)
	a.divisor = divisor
	a.divisorKnown = true
}

// forgetBuffer scrubs a deleted buffer from every slot that may hold it.
// The context clears those bindings itself on deletion; the cache must agree.
func (s *stateCache) forgetBuffer(b driver.Buffer) {
	for t := driver.BufferTarget(0); t < driver.NumBufferTargets; t++ {
		if s.buffersKnown[t] && s.buffers[t] == b {
			s.buffers[t] = driver.Buffer{}
		}
	}
	for i := range s.attribs {
		if s.attribs[i].ptrKnown && s.attribs[i].ptr.buffer == b {
			s.attribs[i].ptrKnown = false
		}
	}
}

// forgetTexture scrubs a deleted texture from every channel.
func (s *stateCache) forgetTexture(t driver.Texture) {
	for i := range s.textures {
		if s.texturesKnown[i] && s.textures[i] == t {
			s.textures[i] = driver.Texture{}
		}
	}
}

// unbindAllTextures force-unbinds every channel. Used on texture release so a
// freed allocation can never remain referenced from a stale cache slot.
func (s *stateCache) unbindAllTextures() {
	for i := range s.textures {
		s.bindTexture(i, driver.Texture{})
	}
}

// forgetProgram scrubs a deleted program.
func (s *stateCache) forgetProgram(p driver.Program) {
	if s.programKnown && s.program == p {
		s.program = driver.Program{}
	}
}

// forgetFramebuffer scrubs a deleted framebuffer; the context falls back to
// the default framebuffer.
func (s *stateCache) forgetFramebuffer(f driver.Framebuffer) {
	if s.framebufferKnown && s.framebuffer == f {
		s.framebuffer = driver.Framebuffer{}
	}
}

// forgetVertexArray scrubs a deleted vertex array.
func (s *stateCache) forgetVertexArray(a driver.VertexArray) {
	if s.vertexArrayKnown && s.vertexArray == a {
		s.vertexArrayKnown = false
	}
}

// wipe resets every cached slot to unknown and reissues the default state.
// Used after context restoration and when a foreign code path may have
// mutated the context behind the cache (sharing the context with another
// engine instance).
func (s *stateCache) wipe() {
	Logger().Debug("thinengine: state cache wiped")

	for t := range s.buffersKnown {
		s.buffersKnown[t] = false
	}
	for i := range s.texturesKnown {
		s.texturesKnown[i] = false
	}
	s.activeChannelKnown = false
	s.programKnown = false
	s.framebufferKnown = false
	s.vertexArrayKnown = false
	s.viewportKnown = false
	for i := range s.attribs {
		s.attribs[i] = attribState{}
	}

	// Reissue defaults. The unconditional driver calls below repopulate the
	// cache with known values matching the context.
	s.ctx.BindVertexArray(driver.VertexArray{})
	s.vertexArray = driver.VertexArray{}
	s.vertexArrayKnown = true

	s.ctx.UseProgram(driver.Program{})
	s.program = driver.Program{}
	s.programKnown = true

	s.ctx.BindFramebuffer(driver.Framebuffer{})
	s.framebuffer = driver.Framebuffer{}
	s.framebufferKnown = true

	for t := driver.BufferTarget(0); t < driver.NumBufferTargets; t++ {
		s.ctx.BindBuffer(t, driver.Buffer{})
		s.buffers[t] = driver.Buffer{}
		s.buffersKnown[t] = true
	}

	for i := len(s.textures) - 1; i >= 0; i-- {
		s.ctx.ActiveTexture(i)
		s.ctx.BindTexture(driver.Texture{})
		s.textures[i] = driver.Texture{}
		s.texturesKnown[i] = true
	}
	s.activeChannel = 0
	s.activeChannelKnown = true

	for i := range s.attribs {
		s.ctx.DisableVertexAttrib(i)
		s.attribs[i].enabled = false
		s.attribs[i].enabledKnown = true
	}
}

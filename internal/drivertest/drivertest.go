// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package drivertest provides a recording fake graphics context for engine
// tests.
//
// Every driver call is appended to a log and counted by name, so tests can
// assert exact call sequences — in particular that a redundant bind issues
// no underlying call at all. Capability answers, attribute reflection and
// failure injection are all configurable fields.
package drivertest

import (
	"fmt"

	"github.com/gogpu/thinengine/driver"
)

// Context is a fake driver.Context that records calls instead of talking to
// a GPU.
type Context struct {
	// Version is the reported context major version.
	Version int

	// Extensions answers HasExtension queries.
	Extensions map[string]bool

	// Integers answers GetInteger queries.
	Integers map[driver.Param]int

	// Strings answers GetString queries.
	Strings map[driver.Param]string

	// Lost answers IsContextLost.
	Lost bool

	// FailCreate makes every Create* call fail, for allocation-failure
	// paths.
	FailCreate bool

	// CompileErr, when set, is returned by CompileProgram.
	CompileErr error

	// AttribLocations answers AttribLocation; absent names return -1.
	AttribLocations map[string]int

	// Calls is the ordered log of driver calls, one formatted entry each.
	Calls []string

	counts     map[string]int
	nextHandle uint64
}

// New returns a fake version 2 context with generous default limits.
func New() *Context {
	return &Context{
		Version: 2,
		Integers: map[driver.Param]int{
			driver.ParamMaxTextureSize:     16384,
			driver.ParamMaxTextureChannels: 16,
			driver.ParamMaxVertexAttribs:   16,
			driver.ParamMaxDrawBuffers:     8,
			driver.ParamMaxAnisotropy:      16,
		},
		Strings: map[driver.Param]string{
			driver.ParamVendor:   "drivertest",
			driver.ParamRenderer: "fake",
		},
		Extensions:      map[string]bool{},
		AttribLocations: map[string]int{},
		counts:          map[string]int{},
	}
}

// NewV1 returns a fake version 1 context with the given extensions enabled.
func NewV1(extensions ...string) *Context {
	c := New()
	c.Version = 1
	for _, ext := range extensions {
		c.Extensions[ext] = true
	}
	return c
}

func (c *Context) record(name string, args ...any) {
	entry := name
	if len(args) > 0 {
		entry = name + fmt.Sprintf("%v", args)
	}
	c.Calls = append(c.Calls, entry)
	c.counts[name]++
}

// Count returns how many times the named call was issued.
func (c *Context) Count(name string) int { return c.counts[name] }

// TotalCalls returns the total number of recorded calls.
func (c *Context) TotalCalls() int { return len(c.Calls) }

// Reset clears the call log and counters, keeping configuration.
func (c *Context) Reset() {
	c.Calls = nil
	c.counts = map[string]int{}
}

func (c *Context) alloc() uint64 {
	c.nextHandle++
	return c.nextHandle
}

// APIVersion implements driver.Context.
func (c *Context) APIVersion() int { return c.Version }

// GetInteger implements driver.Context.
func (c *Context) GetInteger(p driver.Param) int { return c.Integers[p] }

// GetString implements driver.Context.
func (c *Context) GetString(p driver.Param) string { return c.Strings[p] }

// HasExtension implements driver.Context.
func (c *Context) HasExtension(name string) bool { return c.Extensions[name] }

// IsContextLost implements driver.Context.
func (c *Context) IsContextLost() bool { return c.Lost }

// CreateBuffer implements driver.Context.
func (c *Context) CreateBuffer() (driver.Buffer, error) {
	if c.FailCreate {
		return driver.Buffer{}, driver.ErrAllocationFailed
	}
	c.record("CreateBuffer")
	return driver.Buffer{V: c.alloc()}, nil
}

// CreateTexture implements driver.Context.
func (c *Context) CreateTexture() (driver.Texture, error) {
	if c.FailCreate {
		return driver.Texture{}, driver.ErrAllocationFailed
	}
	c.record("CreateTexture")
	return driver.Texture{V: c.alloc()}, nil
}

// CreateFramebuffer implements driver.Context.
func (c *Context) CreateFramebuffer() (driver.Framebuffer, error) {
	if c.FailCreate {
		return driver.Framebuffer{}, driver.ErrAllocationFailed
	}
	c.record("CreateFramebuffer")
	return driver.Framebuffer{V: c.alloc()}, nil
}

// CreateVertexArray implements driver.Context.
func (c *Context) CreateVertexArray() (driver.VertexArray, error) {
	if c.FailCreate {
		return driver.VertexArray{}, driver.ErrAllocationFailed
	}
	c.record("CreateVertexArray")
	return driver.VertexArray{V: c.alloc()}, nil
}

// CompileProgram implements driver.Context.
func (c *Context) CompileProgram(vertexSrc, fragmentSrc string) (driver.Program, error) {
	if c.CompileErr != nil {
		return driver.Program{}, c.CompileErr
	}
	c.record("CompileProgram")
	return driver.Program{V: c.alloc()}, nil
}

// DeleteBuffer implements driver.Context.
func (c *Context) DeleteBuffer(b driver.Buffer) { c.record("DeleteBuffer", b.V) }

// DeleteTexture implements driver.Context.
func (c *Context) DeleteTexture(t driver.Texture) { c.record("DeleteTexture", t.V) }

// DeleteFramebuffer implements driver.Context.
func (c *Context) DeleteFramebuffer(f driver.Framebuffer) { c.record("DeleteFramebuffer", f.V) }

// DeleteVertexArray implements driver.Context.
func (c *Context) DeleteVertexArray(a driver.VertexArray) { c.record("DeleteVertexArray", a.V) }

// DeleteProgram implements driver.Context.
func (c *Context) DeleteProgram(p driver.Program) { c.record("DeleteProgram", p.V) }

// BindBuffer implements driver.Context.
func (c *Context) BindBuffer(t driver.BufferTarget, b driver.Buffer) {
	c.record("BindBuffer", t, b.V)
}

// ActiveTexture implements driver.Context.
func (c *Context) ActiveTexture(channel int) { c.record("ActiveTexture", channel) }

// BindTexture implements driver.Context.
func (c *Context) BindTexture(t driver.Texture) { c.record("BindTexture", t.V) }

// BindFramebuffer implements driver.Context.
func (c *Context) BindFramebuffer(f driver.Framebuffer) { c.record("BindFramebuffer", f.V) }

// BindVertexArray implements driver.Context.
func (c *Context) BindVertexArray(a driver.VertexArray) { c.record("BindVertexArray", a.V) }

// UseProgram implements driver.Context.
func (c *Context) UseProgram(p driver.Program) { c.record("UseProgram", p.V) }

// Viewport implements driver.Context.
func (c *Context) Viewport(x, y, width, height int) { c.record("Viewport", x, y, width, height) }

// EnableVertexAttrib implements driver.Context.
func (c *Context) EnableVertexAttrib(index int) { c.record("EnableVertexAttrib", index) }

// DisableVertexAttrib implements driver.Context.
func (c *Context) DisableVertexAttrib(index int) { c.record("DisableVertexAttrib", index) }

// VertexAttribPointer implements driver.Context.
func (c *Context) VertexAttribPointer(index, size int, t driver.AttribType, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer", index, size, t, normalized, stride, offset)
}

// VertexAttribDivisor implements driver.Context.
func (c *Context) VertexAttribDivisor(index, divisor int) {
	c.record("VertexAttribDivisor", index, divisor)
}

// BufferData implements driver.Context.
func (c *Context) BufferData(t driver.BufferTarget, data []byte, usage driver.Usage) {
	c.record("BufferData", t, len(data), usage)
}

// BufferSubData implements driver.Context.
func (c *Context) BufferSubData(t driver.BufferTarget, offset int, data []byte) {
	c.record("BufferSubData", t, offset, len(data))
}

// TexImage2D implements driver.Context.
func (c *Context) TexImage2D(level int, triple driver.TextureTriple, width, height int, data []byte) {
	c.record("TexImage2D", level, triple.Internal, width, height, len(data))
}

// TexSubImage2D implements driver.Context.
func (c *Context) TexSubImage2D(level, x, y, width, height int, triple driver.TextureTriple, data []byte) {
	c.record("TexSubImage2D", level, x, y, width, height, len(data))
}

// TexParameteri implements driver.Context.
func (c *Context) TexParameteri(p driver.TexParam, v int) { c.record("TexParameteri", p, v) }

// GenerateMipmap implements driver.Context.
func (c *Context) GenerateMipmap() { c.record("GenerateMipmap") }

// AttribLocation implements driver.Context.
func (c *Context) AttribLocation(p driver.Program, name string) int {
	loc, ok := c.AttribLocations[name]
	if !ok {
		return -1
	}
	return loc
}

// DrawArrays implements driver.Context.
func (c *Context) DrawArrays(mode driver.DrawMode, first, count int) {
	c.record("DrawArrays", mode, first, count)
}

// DrawElements implements driver.Context.
func (c *Context) DrawElements(mode driver.DrawMode, count int, t driver.IndexType, byteOffset int) {
	c.record("DrawElements", mode, count, t, byteOffset)
}

// DrawArraysInstanced implements driver.Context.
func (c *Context) DrawArraysInstanced(mode driver.DrawMode, first, count, instances int) {
	c.record("DrawArraysInstanced", mode, first, count, instances)
}

// DrawElementsInstanced implements driver.Context.
func (c *Context) DrawElementsInstanced(mode driver.DrawMode, count int, t driver.IndexType, byteOffset, instances int) {
	c.record("DrawElementsInstanced", mode, count, t, byteOffset, instances)
}

var _ driver.Context = (*Context)(nil)

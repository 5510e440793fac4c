// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js

// Package webgl provides the browser WebGL driver, backed by syscall/js.
//
// New tries WebGL2 first and falls back to WebGL1. The package registers
// both factories with the driver registry from init; the factories attach to
// the first canvas element in the document. Hosts with their own canvas call
// New directly.
package webgl

import (
	"fmt"
	"syscall/js"

	"github.com/gogpu/thinengine/driver"
)

// WebGL enum values used by this driver.
const (
	glArrayBuffer        = 0x8892
	glElementArrayBuffer = 0x8893

	glStaticDraw  = 0x88E4
	glDynamicDraw = 0x88E8

	glPoints        = 0x0000
	glLines         = 0x0001
	glLineStrip     = 0x0003
	glTriangles     = 0x0004
	glTriangleStrip = 0x0005
	glTriangleFan   = 0x0006

	glUnsignedByte  = 0x1401
	glShort         = 0x1402
	glUnsignedShort = 0x1403
	glInt           = 0x1404
	glUnsignedInt   = 0x1405
	glFloat         = 0x1406

	glMaxTextureSize       = 0x0D33
	glMaxCombinedTexUnits  = 0x8B4D
	glMaxVertexAttribs     = 0x8869
	glMaxDrawBuffers       = 0x8824
	glMaxAnisotropyExt     = 0x84FF
	glVendor               = 0x1F00
	glRenderer             = 0x1F01
	glTexture2D            = 0x0DE1
	glTexture0             = 0x84C0
	glFramebuffer          = 0x8D40
	glTextureMagFilter     = 0x2800
	glTextureMinFilter     = 0x2801
	glTextureWrapS         = 0x2802
	glTextureWrapT         = 0x2803
	glTextureAnisotropyExt = 0x84FE

	glNearest              = 0x2600
	glLinear               = 0x2601
	glNearestMipmapNearest = 0x2700
	glLinearMipmapLinear   = 0x2703

	glRepeat         = 0x2901
	glClampToEdge    = 0x812F
	glMirroredRepeat = 0x8370

	glFragmentShader = 0x8B30
	glVertexShader   = 0x8B31
	glCompileStatus  = 0x8B81
	glLinkStatus     = 0x8B82
)

var bufferTargets = [driver.NumBufferTargets]int{
	driver.TargetArray:        glArrayBuffer,
	driver.TargetElementArray: glElementArrayBuffer,
}

var drawModes = map[driver.DrawMode]int{
	driver.DrawPoints:        glPoints,
	driver.DrawLines:         glLines,
	driver.DrawLineStrip:     glLineStrip,
	driver.DrawTriangles:     glTriangles,
	driver.DrawTriangleStrip: glTriangleStrip,
	driver.DrawTriangleFan:   glTriangleFan,
}

var attribTypes = map[driver.AttribType]int{
	driver.AttribFloat:         glFloat,
	driver.AttribUnsignedByte:  glUnsignedByte,
	driver.AttribShort:         glShort,
	driver.AttribUnsignedShort: glUnsignedShort,
	driver.AttribInt:           glInt,
}

var texParams = map[driver.TexParam]int{
	driver.TexParamMinFilter:  glTextureMinFilter,
	driver.TexParamMagFilter:  glTextureMagFilter,
	driver.TexParamWrapS:      glTextureWrapS,
	driver.TexParamWrapT:      glTextureWrapT,
	driver.TexParamAnisotropy: glTextureAnisotropyExt,
}

var filterValues = map[int]int{
	driver.FilterNearest:           glNearest,
	driver.FilterLinear:            glLinear,
	driver.FilterLinearMipLinear:   glLinearMipmapLinear,
	driver.FilterNearestMipNearest: glNearestMipmapNearest,
}

var wrapValues = map[int]int{
	driver.WrapRepeat:      glRepeat,
	driver.WrapClampToEdge: glClampToEdge,
	driver.WrapMirror:      glMirroredRepeat,
}

func init() {
	driver.Register(driver.NameWebGL2, func() (driver.Context, error) {
		return newFromDocument(2)
	})
	driver.Register(driver.NameWebGL, func() (driver.Context, error) {
		return newFromDocument(1)
	})
}

func newFromDocument(version int) (*Context, error) {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return nil, driver.ErrNotAvailable
	}
	canvas := doc.Call("querySelector", "canvas")
	if !canvas.Truthy() {
		return nil, driver.ErrNotAvailable
	}
	return newContext(canvas, version)
}

// Context is a WebGL1/WebGL2 rendering context on one canvas element.
//
// JavaScript object references cannot round-trip through integer handles, so
// the context keeps a side table from handle values to js.Value per resource
// kind. Handle values are never reused.
type Context struct {
	gl      js.Value
	canvas  js.Value
	version int

	// Extension objects needed on version 1 contexts.
	instancing  js.Value
	vertexArray js.Value
	anisotropy  js.Value

	exts map[string]bool

	nextID       uint64
	buffers      map[uint64]js.Value
	textures     map[uint64]js.Value
	framebuffers map[uint64]js.Value
	programs     map[uint64]js.Value
	vaos         map[uint64]js.Value

	// uint8Array is the constructor, cached to avoid a global lookup per
	// upload.
	uint8Array js.Value
}

// New creates a context on the given canvas element, trying WebGL2 first.
func New(canvas js.Value) (*Context, error) {
	if c, err := newContext(canvas, 2); err == nil {
		return c, nil
	}
	return newContext(canvas, 1)
}

func newContext(canvas js.Value, version int) (*Context, error) {
	name := "webgl2"
	if version < 2 {
		name = "webgl"
	}
	gl := canvas.Call("getContext", name)
	if !gl.Truthy() {
		return nil, driver.ErrNotAvailable
	}

	c := &Context{
		gl:           gl,
		canvas:       canvas,
		version:      version,
		exts:         make(map[string]bool),
		buffers:      make(map[uint64]js.Value),
		textures:     make(map[uint64]js.Value),
		framebuffers: make(map[uint64]js.Value),
		programs:     make(map[uint64]js.Value),
		vaos:         make(map[uint64]js.Value),
		uint8Array:   js.Global().Get("Uint8Array"),
	}

	supported := gl.Call("getSupportedExtensions")
	for i := 0; i < supported.Length(); i++ {
		c.exts[supported.Index(i).String()] = true
	}

	// Activate the extensions the engine relies on; getExtension both
	// queries and enables in WebGL.
	if version < 2 {
		c.instancing = gl.Call("getExtension", "ANGLE_instanced_arrays")
		c.vertexArray = gl.Call("getExtension", "OES_vertex_array_object")
	}
	c.anisotropy = gl.Call("getExtension", "EXT_texture_filter_anisotropic")

	return c, nil
}

// OnContextLost forwards the canvas webglcontextlost event to fn. The default
// is prevented so the browser will attempt restoration.
func (c *Context) OnContextLost(fn func()) {
	c.canvas.Call("addEventListener", "webglcontextlost",
		js.FuncOf(func(this js.Value, args []js.Value) any {
			args[0].Call("preventDefault")
			fn()
			return nil
		}))
}

// OnContextRestored forwards the canvas webglcontextrestored event to fn.
func (c *Context) OnContextRestored(fn func()) {
	c.canvas.Call("addEventListener", "webglcontextrestored",
		js.FuncOf(func(this js.Value, args []js.Value) any {
			fn()
			return nil
		}))
}

func (c *Context) alloc(table map[uint64]js.Value, v js.Value) uint64 {
	c.nextID++
	table[c.nextID] = v
	return c.nextID
}

func (c *Context) jsBuffer(b driver.Buffer) js.Value {
	if !b.Valid() {
		return js.Null()
	}
	return c.buffers[b.V]
}

func (c *Context) bytes(data []byte) js.Value {
	arr := c.uint8Array.New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

// APIVersion implements driver.Context.
func (c *Context) APIVersion() int { return c.version }

// GetInteger implements driver.Context.
func (c *Context) GetInteger(p driver.Param) int {
	switch p {
	case driver.ParamMaxTextureSize:
		return c.gl.Call("getParameter", glMaxTextureSize).Int()
	case driver.ParamMaxTextureChannels:
		return c.gl.Call("getParameter", glMaxCombinedTexUnits).Int()
	case driver.ParamMaxVertexAttribs:
		return c.gl.Call("getParameter", glMaxVertexAttribs).Int()
	case driver.ParamMaxDrawBuffers:
		if c.version < 2 {
			return 1
		}
		return c.gl.Call("getParameter", glMaxDrawBuffers).Int()
	case driver.ParamMaxAnisotropy:
		if !c.anisotropy.Truthy() {
			return 1
		}
		return c.gl.Call("getParameter", glMaxAnisotropyExt).Int()
	}
	return 0
}

// GetString implements driver.Context.
func (c *Context) GetString(p driver.Param) string {
	switch p {
	case driver.ParamVendor:
		return c.gl.Call("getParameter", glVendor).String()
	case driver.ParamRenderer:
		return c.gl.Call("getParameter", glRenderer).String()
	}
	return ""
}

// HasExtension implements driver.Context.
func (c *Context) HasExtension(name string) bool { return c.exts[name] }

// IsContextLost implements driver.Context.
func (c *Context) IsContextLost() bool {
	return c.gl.Call("isContextLost").Bool()
}

// CreateBuffer implements driver.Context.
func (c *Context) CreateBuffer() (driver.Buffer, error) {
	v := c.gl.Call("createBuffer")
	if !v.Truthy() {
		return driver.Buffer{}, driver.ErrAllocationFailed
	}
	return driver.Buffer{V: c.alloc(c.buffers, v)}, nil
}

// CreateTexture implements driver.Context.
func (c *Context) CreateTexture() (driver.Texture, error) {
	v := c.gl.Call("createTexture")
	if !v.Truthy() {
		return driver.Texture{}, driver.ErrAllocationFailed
	}
	return driver.Texture{V: c.alloc(c.textures, v)}, nil
}

// CreateFramebuffer implements driver.Context.
func (c *Context) CreateFramebuffer() (driver.Framebuffer, error) {
	v := c.gl.Call("createFramebuffer")
	if !v.Truthy() {
		return driver.Framebuffer{}, driver.ErrAllocationFailed
	}
	return driver.Framebuffer{V: c.alloc(c.framebuffers, v)}, nil
}

// CreateVertexArray implements driver.Context.
func (c *Context) CreateVertexArray() (driver.VertexArray, error) {
	var v js.Value
	switch {
	case c.version >= 2:
		v = c.gl.Call("createVertexArray")
	case c.vertexArray.Truthy():
		v = c.vertexArray.Call("createVertexArrayOES")
	default:
		return driver.VertexArray{}, driver.ErrNotAvailable
	}
	if !v.Truthy() {
		return driver.VertexArray{}, driver.ErrAllocationFailed
	}
	return driver.VertexArray{V: c.alloc(c.vaos, v)}, nil
}

// CompileProgram implements driver.Context.
func (c *Context) CompileProgram(vertexSrc, fragmentSrc string) (driver.Program, error) {
	vs, err := c.compileShader(glVertexShader, vertexSrc)
	if err != nil {
		return driver.Program{}, err
	}
	defer c.gl.Call("deleteShader", vs)

	fs, err := c.compileShader(glFragmentShader, fragmentSrc)
	if err != nil {
		return driver.Program{}, err
	}
	defer c.gl.Call("deleteShader", fs)

	prog := c.gl.Call("createProgram")
	c.gl.Call("attachShader", prog, vs)
	c.gl.Call("attachShader", prog, fs)
	c.gl.Call("linkProgram", prog)
	if !c.gl.Call("getProgramParameter", prog, glLinkStatus).Bool() {
		log := c.gl.Call("getProgramInfoLog", prog).String()
		c.gl.Call("deleteProgram", prog)
		return driver.Program{}, fmt.Errorf("%w: link: %s", driver.ErrCompileFailed, log)
	}
	return driver.Program{V: c.alloc(c.programs, prog)}, nil
}

func (c *Context) compileShader(kind int, src string) (js.Value, error) {
	sh := c.gl.Call("createShader", kind)
	c.gl.Call("shaderSource", sh, src)
	c.gl.Call("compileShader", sh)
	if !c.gl.Call("getShaderParameter", sh, glCompileStatus).Bool() {
		log := c.gl.Call("getShaderInfoLog", sh).String()
		c.gl.Call("deleteShader", sh)
		return js.Value{}, fmt.Errorf("%w: %s", driver.ErrCompileFailed, log)
	}
	return sh, nil
}

// DeleteBuffer implements driver.Context.
func (c *Context) DeleteBuffer(b driver.Buffer) {
	if v, ok := c.buffers[b.V]; ok {
		c.gl.Call("deleteBuffer", v)
		delete(c.buffers, b.V)
	}
}

// DeleteTexture implements driver.Context.
func (c *Context) DeleteTexture(t driver.Texture) {
	if v, ok := c.textures[t.V]; ok {
		c.gl.Call("deleteTexture", v)
		delete(c.textures, t.V)
	}
}

// DeleteFramebuffer implements driver.Context.
func (c *Context) DeleteFramebuffer(f driver.Framebuffer) {
	if v, ok := c.framebuffers[f.V]; ok {
		c.gl.Call("deleteFramebuffer", v)
		delete(c.framebuffers, f.V)
	}
}

// DeleteVertexArray implements driver.Context.
func (c *Context) DeleteVertexArray(a driver.VertexArray) {
	v, ok := c.vaos[a.V]
	if !ok {
		return
	}
	if c.version >= 2 {
		c.gl.Call("deleteVertexArray", v)
	} else {
		c.vertexArray.Call("deleteVertexArrayOES", v)
	}
	delete(c.vaos, a.V)
}

// DeleteProgram implements driver.Context.
func (c *Context) DeleteProgram(p driver.Program) {
	if v, ok := c.programs[p.V]; ok {
		c.gl.Call("deleteProgram", v)
		delete(c.programs, p.V)
	}
}

// BindBuffer implements driver.Context.
func (c *Context) BindBuffer(t driver.BufferTarget, b driver.Buffer) {
	c.gl.Call("bindBuffer", bufferTargets[t], c.jsBuffer(b))
}

// ActiveTexture implements driver.Context.
func (c *Context) ActiveTexture(channel int) {
	c.gl.Call("activeTexture", glTexture0+channel)
}

// BindTexture implements driver.Context.
func (c *Context) BindTexture(t driver.Texture) {
	if !t.Valid() {
		c.gl.Call("bindTexture", glTexture2D, js.Null())
		return
	}
	c.gl.Call("bindTexture", glTexture2D, c.textures[t.V])
}

// BindFramebuffer implements driver.Context.
func (c *Context) BindFramebuffer(f driver.Framebuffer) {
	if !f.Valid() {
		c.gl.Call("bindFramebuffer", glFramebuffer, js.Null())
		return
	}
	c.gl.Call("bindFramebuffer", glFramebuffer, c.framebuffers[f.V])
}

// BindVertexArray implements driver.Context.
func (c *Context) BindVertexArray(a driver.VertexArray) {
	v := js.Null()
	if a.Valid() {
		v = c.vaos[a.V]
	}
	if c.version >= 2 {
		c.gl.Call("bindVertexArray", v)
	} else if c.vertexArray.Truthy() {
		c.vertexArray.Call("bindVertexArrayOES", v)
	}
}

// UseProgram implements driver.Context.
func (c *Context) UseProgram(p driver.Program) {
	if !p.Valid() {
		c.gl.Call("useProgram", js.Null())
		return
	}
	c.gl.Call("useProgram", c.programs[p.V])
}

// Viewport implements driver.Context.
func (c *Context) Viewport(x, y, width, height int) {
	c.gl.Call("viewport", x, y, width, height)
}

// EnableVertexAttrib implements driver.Context.
func (c *Context) EnableVertexAttrib(index int) {
	c.gl.Call("enableVertexAttribArray", index)
}

// DisableVertexAttrib implements driver.Context.
func (c *Context) DisableVertexAttrib(index int) {
	c.gl.Call("disableVertexAttribArray", index)
}

// VertexAttribPointer implements driver.Context.
func (c *Context) VertexAttribPointer(index, size int, t driver.AttribType, normalized bool, stride, offset int) {
	c.gl.Call("vertexAttribPointer", index, size, attribTypes[t], normalized, stride, offset)
}

// VertexAttribDivisor implements driver.Context.
func (c *Context) VertexAttribDivisor(index, divisor int) {
	if c.version >= 2 {
		c.gl.Call("vertexAttribDivisor", index, divisor)
	} else if c.instancing.Truthy() {
		c.instancing.Call("vertexAttribDivisorANGLE", index, divisor)
	}
}

// BufferData implements driver.Context.
func (c *Context) BufferData(t driver.BufferTarget, data []byte, usage driver.Usage) {
	u := glStaticDraw
	if usage == driver.UsageDynamic {
		u = glDynamicDraw
	}
	c.gl.Call("bufferData", bufferTargets[t], c.bytes(data), u)
}

// BufferSubData implements driver.Context.
func (c *Context) BufferSubData(t driver.BufferTarget, offset int, data []byte) {
	c.gl.Call("bufferSubData", bufferTargets[t], offset, c.bytes(data))
}

// TexImage2D implements driver.Context.
func (c *Context) TexImage2D(level int, triple driver.TextureTriple, width, height int, data []byte) {
	pixels := js.Null()
	if data != nil {
		pixels = c.bytes(data)
	}
	c.gl.Call("texImage2D", glTexture2D, level, int(triple.Internal),
		width, height, 0, int(triple.Format), int(triple.Type), pixels)
}

// TexSubImage2D implements driver.Context.
func (c *Context) TexSubImage2D(level, x, y, width, height int, triple driver.TextureTriple, data []byte) {
	c.gl.Call("texSubImage2D", glTexture2D, level, x, y, width, height,
		int(triple.Format), int(triple.Type), c.bytes(data))
}

// TexParameteri implements driver.Context.
func (c *Context) TexParameteri(p driver.TexParam, v int) {
	value := v
	switch p {
	case driver.TexParamMinFilter, driver.TexParamMagFilter:
		value = filterValues[v]
	case driver.TexParamWrapS, driver.TexParamWrapT:
		value = wrapValues[v]
	case driver.TexParamAnisotropy:
		if !c.anisotropy.Truthy() {
			return
		}
		c.gl.Call("texParameterf", glTexture2D, glTextureAnisotropyExt, float64(v))
		return
	}
	c.gl.Call("texParameteri", glTexture2D, texParams[p], value)
}

// GenerateMipmap implements driver.Context.
func (c *Context) GenerateMipmap() {
	c.gl.Call("generateMipmap", glTexture2D)
}

// AttribLocation implements driver.Context.
func (c *Context) AttribLocation(p driver.Program, name string) int {
	if !p.Valid() {
		return -1
	}
	return c.gl.Call("getAttribLocation", c.programs[p.V], name).Int()
}

// DrawArrays implements driver.Context.
func (c *Context) DrawArrays(mode driver.DrawMode, first, count int) {
	c.gl.Call("drawArrays", drawModes[mode], first, count)
}

// DrawElements implements driver.Context.
func (c *Context) DrawElements(mode driver.DrawMode, count int, t driver.IndexType, byteOffset int) {
	c.gl.Call("drawElements", drawModes[mode], count, indexType(t), byteOffset)
}

// DrawArraysInstanced implements driver.Context.
func (c *Context) DrawArraysInstanced(mode driver.DrawMode, first, count, instances int) {
	if c.version >= 2 {
		c.gl.Call("drawArraysInstanced", drawModes[mode], first, count, instances)
	} else if c.instancing.Truthy() {
		c.instancing.Call("drawArraysInstancedANGLE", drawModes[mode], first, count, instances)
	}
}

// DrawElementsInstanced implements driver.Context.
func (c *Context) DrawElementsInstanced(mode driver.DrawMode, count int, t driver.IndexType, byteOffset, instances int) {
	if c.version >= 2 {
		c.gl.Call("drawElementsInstanced", drawModes[mode], count, indexType(t), byteOffset, instances)
	} else if c.instancing.Truthy() {
		c.instancing.Call("drawElementsInstancedANGLE", drawModes[mode], count, indexType(t), byteOffset, instances)
	}
}

func indexType(t driver.IndexType) int {
	if t == driver.IndexUnsignedInt {
		return glUnsignedInt
	}
	return glUnsignedShort
}

var _ driver.Context = (*Context)(nil)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import "errors"

// Common driver errors.
var (
	// ErrNotAvailable is returned when a requested driver is not available.
	ErrNotAvailable = errors.New("driver: not available")

	// ErrAllocationFailed is returned when the underlying context fails to
	// allocate a resource handle.
	ErrAllocationFailed = errors.New("driver: resource allocation failed")

	// ErrCompileFailed is returned when shader compilation or linking fails.
	// The error text carries the driver's info log.
	ErrCompileFailed = errors.New("driver: program compilation failed")
)

// Buffer is a handle to a GPU buffer allocation. The zero value is the nil
// handle (no buffer bound).
type Buffer struct{ V uint64 }

// Valid reports whether the handle refers to an allocation.
func (b Buffer) Valid() bool { return b.V != 0 }

// Texture is a handle to a GPU texture allocation. The zero value is the nil
// handle.
type Texture struct{ V uint64 }

// Valid reports whether the handle refers to an allocation.
func (t Texture) Valid() bool { return t.V != 0 }

// Framebuffer is a handle to a framebuffer object. The zero value means the
// default (back buffer) framebuffer.
type Framebuffer struct{ V uint64 }

// Valid reports whether the handle refers to a non-default framebuffer.
func (f Framebuffer) Valid() bool { return f.V != 0 }

// Program is a handle to a compiled and linked shader program. The zero value
// is the nil handle.
type Program struct{ V uint64 }

// Valid reports whether the handle refers to a linked program.
func (p Program) Valid() bool { return p.V != 0 }

// VertexArray is a handle to a vertex array object. The zero value is the nil
// handle (default attribute state).
type VertexArray struct{ V uint64 }

// Valid reports whether the handle refers to a recorded vertex array.
func (a VertexArray) Valid() bool { return a.V != 0 }

// BufferTarget selects a buffer binding point.
type BufferTarget uint8

const (
	// TargetArray is the vertex data binding point.
	TargetArray BufferTarget = iota
	// TargetElementArray is the index data binding point.
	TargetElementArray

	// NumBufferTargets is the number of buffer binding points.
	NumBufferTargets
)

// String returns the target name.
func (t BufferTarget) String() string {
	switch t {
	case TargetArray:
		return "ARRAY_BUFFER"
	case TargetElementArray:
		return "ELEMENT_ARRAY_BUFFER"
	default:
		return "UNKNOWN_BUFFER_TARGET"
	}
}

// Usage hints how buffer contents will be updated.
type Usage uint8

const (
	// UsageStatic marks contents written once and drawn many times.
	UsageStatic Usage = iota
	// UsageDynamic marks contents rewritten frequently.
	UsageDynamic
)

// DrawMode selects the primitive kind for a draw call.
type DrawMode uint8

const (
	// DrawPoints draws independent points.
	DrawPoints DrawMode = iota
	// DrawLines draws independent line segments.
	DrawLines
	// DrawLineStrip draws a connected line strip.
	DrawLineStrip
	// DrawTriangles draws independent triangles.
	DrawTriangles
	// DrawTriangleStrip draws a connected triangle strip.
	DrawTriangleStrip
	// DrawTriangleFan draws a triangle fan.
	DrawTriangleFan
)

// IndexType is the element width of a bound index buffer.
type IndexType uint8

const (
	// IndexUnsignedShort selects 16-bit indices.
	IndexUnsignedShort IndexType = iota
	// IndexUnsignedInt selects 32-bit indices. Requires the 32-bit index
	// capability on version 1 contexts.
	IndexUnsignedInt
)

// AttribType is the component type of a vertex attribute.
type AttribType uint8

const (
	// AttribFloat is a 32-bit float component.
	AttribFloat AttribType = iota
	// AttribUnsignedByte is an 8-bit unsigned component.
	AttribUnsignedByte
	// AttribShort is a 16-bit signed component.
	AttribShort
	// AttribUnsignedShort is a 16-bit unsigned component.
	AttribUnsignedShort
	// AttribInt is a 32-bit signed component.
	AttribInt
)

// Param identifies an integer or string context query.
type Param uint8

const (
	// ParamMaxTextureSize is the largest square texture dimension.
	ParamMaxTextureSize Param = iota
	// ParamMaxTextureChannels is the number of simultaneous texture channels.
	ParamMaxTextureChannels
	// ParamMaxVertexAttribs is the number of vertex attribute slots.
	ParamMaxVertexAttribs
	// ParamMaxDrawBuffers is the number of simultaneous color attachments.
	ParamMaxDrawBuffers
	// ParamMaxAnisotropy is the maximum anisotropic filtering level.
	// Meaningful only when the anisotropic filtering extension is present.
	ParamMaxAnisotropy
	// ParamVendor is the context vendor string.
	ParamVendor
	// ParamRenderer is the context renderer string.
	ParamRenderer
)

// TexParam identifies a texture sampling parameter.
type TexParam uint8

const (
	// TexParamMinFilter is the minification filter.
	TexParamMinFilter TexParam = iota
	// TexParamMagFilter is the magnification filter.
	TexParamMagFilter
	// TexParamWrapS is the horizontal wrap mode.
	TexParamWrapS
	// TexParamWrapT is the vertical wrap mode.
	TexParamWrapT
	// TexParamAnisotropy is the anisotropic filtering level.
	TexParamAnisotropy
)

// Sampling filter values for TexParamMinFilter/TexParamMagFilter.
const (
	// FilterNearest selects nearest-neighbor sampling.
	FilterNearest = 0
	// FilterLinear selects linear sampling.
	FilterLinear = 1
	// FilterLinearMipLinear selects trilinear sampling.
	FilterLinearMipLinear = 2
	// FilterNearestMipNearest selects nearest sampling with nearest mip.
	FilterNearestMipNearest = 3
)

// Wrap mode values for TexParamWrapS/TexParamWrapT.
const (
	// WrapRepeat tiles the texture.
	WrapRepeat = 0
	// WrapClampToEdge clamps coordinates to the edge texel.
	WrapClampToEdge = 1
	// WrapMirror tiles with mirroring.
	WrapMirror = 2
)

// TextureTriple is the resolved (internal format, upload format, component
// type) for a texture allocation. Values are driver-private enums produced
// only by the engine's format resolver; drivers map them to API constants.
type TextureTriple struct {
	Internal uint32
	Format   uint32
	Type     uint32
}

// Context is a live GL-style graphics context. All methods must be called
// from the single goroutine driving the render loop; drivers perform no
// internal locking.
//
// Binding calls mutate the context's state machine directly. The engine's
// bound-state cache is the only intended caller; anything else bypassing the
// cache breaks cache coherency.
type Context interface {
	// APIVersion returns the context major version (1 or 2).
	APIVersion() int

	// GetInteger queries an integer context parameter.
	GetInteger(p Param) int

	// GetString queries a string context parameter.
	GetString(p Param) string

	// HasExtension reports whether a named extension is supported.
	// Absence is not an error.
	HasExtension(name string) bool

	// IsContextLost reports whether the context has been lost by the host.
	IsContextLost() bool

	// CreateBuffer allocates a buffer handle.
	CreateBuffer() (Buffer, error)

	// CreateTexture allocates a texture handle.
	CreateTexture() (Texture, error)

	// CreateFramebuffer allocates a framebuffer handle.
	CreateFramebuffer() (Framebuffer, error)

	// CreateVertexArray allocates a vertex array handle.
	// Fails on version 1 contexts without the vertex array extension.
	CreateVertexArray() (VertexArray, error)

	// CompileProgram compiles and links a program from opaque shader source
	// text. The source dialect is whatever the context accepts; the engine
	// does not inspect it.
	CompileProgram(vertexSrc, fragmentSrc string) (Program, error)

	DeleteBuffer(b Buffer)
	DeleteTexture(t Texture)
	DeleteFramebuffer(f Framebuffer)
	DeleteVertexArray(a VertexArray)
	DeleteProgram(p Program)

	// BindBuffer binds b to the given target. The zero handle unbinds.
	BindBuffer(t BufferTarget, b Buffer)

	// ActiveTexture selects the active texture channel.
	ActiveTexture(channel int)

	// BindTexture binds t on the active channel. The zero handle unbinds.
	BindTexture(t Texture)

	// BindFramebuffer binds f. The zero handle selects the default
	// framebuffer.
	BindFramebuffer(f Framebuffer)

	// BindVertexArray binds a recorded vertex array. The zero handle restores
	// default attribute state.
	BindVertexArray(a VertexArray)

	// UseProgram makes p the active program. The zero handle unbinds.
	UseProgram(p Program)

	// Viewport sets the viewport rectangle.
	Viewport(x, y, width, height int)

	EnableVertexAttrib(index int)
	DisableVertexAttrib(index int)

	// VertexAttribPointer configures an attribute slot from the buffer
	// currently bound to TargetArray.
	VertexAttribPointer(index, size int, t AttribType, normalized bool, stride, offset int)

	// VertexAttribDivisor sets the instancing divisor for an attribute slot.
	// Requires the instancing capability.
	VertexAttribDivisor(index, divisor int)

	// BufferData allocates and uploads the full contents of the buffer bound
	// to the given target.
	BufferData(t BufferTarget, data []byte, usage Usage)

	// BufferSubData overwrites a range of the buffer bound to the target.
	BufferSubData(t BufferTarget, offset int, data []byte)

	// TexImage2D allocates and uploads one mip level of the texture bound on
	// the active channel. data may be nil for an uninitialized allocation.
	TexImage2D(level int, triple TextureTriple, width, height int, data []byte)

	// TexSubImage2D overwrites a region of one mip level.
	TexSubImage2D(level, x, y, width, height int, triple TextureTriple, data []byte)

	// TexParameteri sets a sampling parameter on the texture bound on the
	// active channel.
	TexParameteri(p TexParam, v int)

	// GenerateMipmap builds the mip chain of the texture bound on the active
	// channel. Not all formats are supported; the engine falls back to a CPU
	// path for the rest.
	GenerateMipmap()

	// AttribLocation returns the attribute slot bound to name in p, or -1
	// when the program does not use the attribute.
	AttribLocation(p Program, name string) int

	DrawArrays(mode DrawMode, first, count int)
	DrawElements(mode DrawMode, count int, t IndexType, byteOffset int)
	DrawArraysInstanced(mode DrawMode, first, count, instances int)
	DrawElementsInstanced(mode DrawMode, count int, t IndexType, byteOffset, instances int)
}

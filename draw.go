// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"github.com/gogpu/thinengine/driver"
)

// VertexBinding attaches a buffer region to a semantic attribute name for a
// draw call.
type VertexBinding struct {
	// Buffer holds the vertex data.
	Buffer *DataBuffer

	// Size is the component count per vertex (1..4).
	Size int

	// Type is the component type.
	Type driver.AttribType

	// Normalized marks integer components normalized to [0,1]/[-1,1].
	Normalized bool

	// Stride and Offset locate the attribute within the buffer, in bytes.
	Stride int
	Offset int

	// Divisor is the instancing divisor; 0 advances per vertex.
	Divisor int
}

// Draw resolves semantic bindings against the effect's reflection data,
// issues the minimal bind sequence through the state cache, and issues
// exactly one draw call.
//
// Semantics with no matching attribute location in the program are silently
// skipped — shaders commonly use a subset of the supplied attributes.
// first/count are in elements for indexed draws and vertices otherwise.
//
// instances > 0 on a context without the instancing capability is a caller
// contract violation: no draw is issued. The engine does not emulate
// instancing; quad-heavy consumers expand vertices on the CPU instead (see
// ExpandQuadVertices).
func (e *Engine) Draw(bindings map[string]VertexBinding, index *DataBuffer, fx *Effect, mode driver.DrawMode, first, count, instances int) {
	if e.lifecycle.state() != stateLive {
		return
	}
	if fx == nil {
		Logger().Warn("thinengine: draw without an effect dropped")
		return
	}
	if !fx.Valid() {
		Logger().Warn("thinengine: draw with invalidated effect dropped", "key", fx.Key())
		return
	}
	if instances > 0 && !e.caps.Instancing {
		Logger().Warn("thinengine: instanced draw without instancing capability dropped")
		return
	}

	e.state.useProgram(fx.pipeline.program)

	for _, name := range fx.attributes {
		loc := fx.locations[name]
		if loc < 0 {
			continue
		}
		binding, ok := bindings[name]
		if !ok || binding.Buffer == nil {
			continue
		}
		e.state.enableAttrib(loc, true)
		e.state.setAttribute(loc, attribPointer{
			buffer:     binding.Buffer.handle,
			size:       binding.Size,
			typ:        binding.Type,
			normalized: binding.Normalized,
			stride:     binding.Stride,
			offset:     binding.Offset,
		})
		if e.caps.Instancing {
			e.state.setAttribDivisor(loc, binding.Divisor)
		}
	}

	if index != nil {
		e.state.bindBuffer(driver.TargetElementArray, index.handle)
		typ := index.IndexType()
		elemSize := 2
		if index.Is32Bits {
			elemSize = 4
		}
		byteOffset := first * elemSize
		if instances > 0 {
			e.ctx.DrawElementsInstanced(mode, count, typ, byteOffset, instances)
		} else {
			e.ctx.DrawElements(mode, count, typ, byteOffset)
		}
		return
	}

	if instances > 0 {
		e.ctx.DrawArraysInstanced(mode, first, count, instances)
	} else {
		e.ctx.DrawArrays(mode, first, count)
	}
}

// SetViewport sets the viewport rectangle through the state cache.
func (e *Engine) SetViewport(x, y, width, height int) {
	if e.lifecycle.state() != stateLive {
		return
	}
	e.state.setViewport(x, y, width, height)
}

// BindFramebuffer binds a raw framebuffer handle through the state cache.
// The zero handle selects the default back buffer.
func (e *Engine) BindFramebuffer(f driver.Framebuffer) {
	if e.lifecycle.state() != stateLive {
		return
	}
	e.state.bindFramebuffer(f)
}

// CreateFramebuffer allocates a framebuffer handle.
func (e *Engine) CreateFramebuffer() (driver.Framebuffer, error) {
	if e.lifecycle.state() != stateLive {
		return driver.Framebuffer{}, ErrContextLost
	}
	f, err := e.ctx.CreateFramebuffer()
	if err != nil {
		return driver.Framebuffer{}, err
	}
	return f, nil
}

// ReleaseFramebuffer deletes a framebuffer and scrubs it from the cache;
// the context falls back to the default framebuffer.
func (e *Engine) ReleaseFramebuffer(f driver.Framebuffer) {
	if !f.Valid() {
		return
	}
	if e.lifecycle.state() == stateLive {
		e.ctx.DeleteFramebuffer(f)
	}
	e.state.forgetFramebuffer(f)
}

// ExpandQuadVertices realizes per-quad records into 4 discrete vertices for
// contexts without instancing: each stride-sized chunk of src appears four
// times in the result, once per quad corner. This multiplies vertex-buffer
// writes by four and is a binary fallback, not a tunable.
func ExpandQuadVertices(src []float32, stride int) []float32 {
	if stride <= 0 || len(src)%stride != 0 {
		return nil
	}
	quads := len(src) / stride
	dst := make([]float32, 0, 4*len(src))
	for q := 0; q < quads; q++ {
		record := src[q*stride : (q+1)*stride]
		for corner := 0; corner < 4; corner++ {
			dst = append(dst, record...)
		}
	}
	return dst
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"fmt"

	"github.com/gogpu/thinengine/driver"
)

// VertexArrayObject is an immutable recorded snapshot of a full
// vertex-buffer-to-attribute configuration. Binding it replays the whole
// multi-call setup in one driver call.
//
// A recording is tied to the context it was made on: after a restoration it
// is stale and must be re-recorded by its owner.
type VertexArrayObject struct {
	handle     driver.VertexArray
	generation uint64
}

// RecordVertexArray captures the given bindings, index buffer and effect
// attribute layout into a vertex array object.
//
// Recording writes into the vertex array's own state, so the element binding
// and attribute pointers go straight to the driver. The array-buffer binding
// is global context state even while a vertex array is bound, so it flows
// through the state cache like any other bind. Binding targets are not
// validated during recording — supplying a released buffer is undefined
// behavior, matching the underlying API.
func (e *Engine) RecordVertexArray(bindings map[string]VertexBinding, index *DataBuffer, fx *Effect) (*VertexArrayObject, error) {
	if e.lifecycle.state() != stateLive {
		return nil, ErrContextLost
	}
	if !e.caps.VertexArrayObjects {
		return nil, ErrVertexArraysUnsupported
	}

	handle, err := e.ctx.CreateVertexArray()
	if err != nil {
		return nil, fmt.Errorf("thinengine: create vertex array: %w", err)
	}

	e.state.bindVertexArray(handle)
	for _, name := range fx.attributes {
		loc := fx.locations[name]
		if loc < 0 {
			continue
		}
		binding, ok := bindings[name]
		if !ok || binding.Buffer == nil {
			continue
		}
		e.ctx.EnableVertexAttrib(loc)
		e.state.bindBuffer(driver.TargetArray, binding.Buffer.handle)
		e.ctx.VertexAttribPointer(loc, binding.Size, binding.Type, binding.Normalized, binding.Stride, binding.Offset)
		if e.caps.Instancing {
			e.ctx.VertexAttribDivisor(loc, binding.Divisor)
		}
	}
	if index != nil {
		e.ctx.BindBuffer(driver.TargetElementArray, index.handle)
	}
	e.state.bindVertexArray(driver.VertexArray{})

	return &VertexArrayObject{
		handle:     handle,
		generation: e.lifecycle.generation,
	}, nil
}

// BindVertexArray makes the recording current through the state cache. A nil
// argument restores default attribute state. Binding a recording made before
// the last context restoration is a logged no-op; the owner must re-record.
func (e *Engine) BindVertexArray(vao *VertexArrayObject) {
	if e.lifecycle.state() != stateLive {
		return
	}
	if vao == nil {
		e.state.bindVertexArray(driver.VertexArray{})
		return
	}
	if vao.generation != e.lifecycle.generation {
		Logger().Warn("thinengine: stale vertex array bind dropped",
			"recorded", vao.generation, "current", e.lifecycle.generation)
		return
	}
	e.state.bindVertexArray(vao.handle)
}

// ReleaseVertexArray deletes the recording. Stale recordings (from before a
// restoration) have no driver-side allocation left to free.
func (e *Engine) ReleaseVertexArray(vao *VertexArrayObject) {
	if vao == nil || !vao.handle.Valid() {
		return
	}
	if e.lifecycle.state() == stateLive && vao.generation == e.lifecycle.generation {
		e.ctx.DeleteVertexArray(vao.handle)
		e.state.forgetVertexArray(vao.handle)
	}
	vao.handle = driver.VertexArray{}
}

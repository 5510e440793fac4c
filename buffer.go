// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/thinengine/driver"
)

// DataBuffer owns one GPU buffer allocation. The creator holds one
// reference; each additional consumer that attaches the buffer calls Retain.
// The allocation is freed only when the count reaches zero, via
// Engine.ReleaseBuffer.
type DataBuffer struct {
	handle driver.Buffer
	target driver.BufferTarget
	usage  driver.Usage

	// references is the live consumer count. Not atomic: buffers are owned
	// by the single render goroutine.
	references int

	// Capacity is the allocation size in bytes.
	Capacity int

	// Is32Bits reports whether an index buffer holds 32-bit elements.
	// Always false for vertex buffers.
	Is32Bits bool
}

// Retain adds a reference for an additional consumer.
func (b *DataBuffer) Retain() {
	b.references++
}

// References returns the current reference count. Zero means the underlying
// allocation has been freed.
func (b *DataBuffer) References() int {
	return b.references
}

// IndexType returns the element type matching the buffer's index width.
func (b *DataBuffer) IndexType() driver.IndexType {
	if b.Is32Bits {
		return driver.IndexUnsignedInt
	}
	return driver.IndexUnsignedShort
}

// CreateVertexBuffer allocates a static vertex buffer and uploads data.
// The new buffer is bound through the state cache for the upload and unbound
// afterwards, so creation never leaves the cache pointing at a buffer the
// caller did not request.
func (e *Engine) CreateVertexBuffer(data []byte) (*DataBuffer, error) {
	return e.createBuffer(driver.TargetArray, data, len(data), driver.UsageStatic)
}

// CreateDynamicVertexBuffer allocates a vertex buffer of the given byte size
// with dynamic usage and no initial contents.
func (e *Engine) CreateDynamicVertexBuffer(size int) (*DataBuffer, error) {
	return e.createBuffer(driver.TargetArray, nil, size, driver.UsageDynamic)
}

// CreateIndexBuffer allocates an index buffer from 32-bit index values,
// choosing the narrowest element width that can represent them.
//
// 32-bit elements are chosen only when the capability record allows them AND
// at least one value exceeds 65535. Without the capability the data is
// narrowed to 16 bits regardless of range; values that do not fit are
// truncated. That loss is an accepted degradation on limited hardware, not
// an error — it is logged once per buffer.
func (e *Engine) CreateIndexBuffer(indices []uint32) (*DataBuffer, error) {
	wide := false
	if e.caps.Uint32Indices {
		for _, v := range indices {
			if v > 0xffff {
				wide = true
				break
			}
		}
	}

	var data []byte
	if wide {
		data = make([]byte, 4*len(indices))
		for i, v := range indices {
			binary.LittleEndian.PutUint32(data[4*i:], v)
		}
	} else {
		truncated := false
		data = make([]byte, 2*len(indices))
		for i, v := range indices {
			if v > 0xffff {
				truncated = true
			}
			binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
		}
		if truncated {
			Logger().Warn("thinengine: index values truncated to 16 bits",
				"count", len(indices))
		}
	}

	buf, err := e.createBuffer(driver.TargetElementArray, data, len(data), driver.UsageStatic)
	if err != nil {
		return nil, err
	}
	buf.Is32Bits = wide
	return buf, nil
}

// createBuffer is the shared allocation path. data may be nil, in which case
// size bytes are allocated uninitialized.
func (e *Engine) createBuffer(target driver.BufferTarget, data []byte, size int, usage driver.Usage) (*DataBuffer, error) {
	if e.lifecycle.state() != stateLive {
		return nil, ErrContextLost
	}

	handle, err := e.ctx.CreateBuffer()
	if err != nil {
		return nil, fmt.Errorf("thinengine: create buffer: %w", err)
	}

	e.state.bindBuffer(target, handle)
	if data != nil {
		e.ctx.BufferData(target, data, usage)
	} else {
		e.ctx.BufferData(target, make([]byte, size), usage)
	}
	e.state.bindBuffer(target, driver.Buffer{})

	return &DataBuffer{
		handle:     handle,
		target:     target,
		usage:      usage,
		references: 1,
		Capacity:   size,
	}, nil
}

// UpdateDynamicBuffer overwrites a byte range of a dynamic buffer. The write
// goes through the state cache bind and leaves the target unbound.
func (e *Engine) UpdateDynamicBuffer(b *DataBuffer, offset int, data []byte) {
	if e.lifecycle.state() != stateLive {
		return
	}
	e.state.bindBuffer(b.target, b.handle)
	e.ctx.BufferSubData(b.target, offset, data)
	e.state.bindBuffer(b.target, driver.Buffer{})
}

// ReleaseBuffer drops one reference. The transition to zero frees the
// underlying allocation and scrubs it from the state cache.
func (e *Engine) ReleaseBuffer(b *DataBuffer) {
	if b.references <= 0 {
		return
	}
	b.references--
	if b.references > 0 {
		return
	}
	if e.lifecycle.state() == stateLive {
		e.ctx.DeleteBuffer(b.handle)
	}
	e.state.forgetBuffer(b.handle)
	b.handle = driver.Buffer{}
}

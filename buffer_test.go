// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"errors"
	"testing"

	"github.com/gogpu/thinengine/driver"
	"github.com/gogpu/thinengine/internal/drivertest"
)

// newTestEngine creates an engine over a fresh recording context and clears
// the creation-time call log so tests count only their own calls.
func newTestEngine(t *testing.T, ctx *drivertest.Context) *Engine {
	t.Helper()
	e, err := New(WithDriver(ctx))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx.Reset()
	return e
}

func TestCreateIndexBufferWidth(t *testing.T) {
	tests := []struct {
		name     string
		uint32OK bool
		indices  []uint32
		want32   bool
		wantLen  int
	}{
		{"small values narrow", true, []uint32{0, 1, 2, 0, 2, 3}, false, 12},
		{"wide value promotes", true, []uint32{0, 1, 70000}, true, 12},
		{"boundary stays narrow", true, []uint32{0, 65535}, false, 4},
		{"no capability forces narrow", false, []uint32{0, 1, 70000}, false, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := drivertest.New()
			if !tt.uint32OK {
				ctx = drivertest.NewV1()
			}
			e := newTestEngine(t, ctx)

			buf, err := e.CreateIndexBuffer(tt.indices)
			if err != nil {
				t.Fatalf("CreateIndexBuffer: %v", err)
			}
			if buf.Is32Bits != tt.want32 {
				t.Errorf("Is32Bits = %v, want %v", buf.Is32Bits, tt.want32)
			}
			if buf.Capacity != tt.wantLen {
				t.Errorf("Capacity = %d, want %d", buf.Capacity, tt.wantLen)
			}
		})
	}
}

func TestIndexTypeMatchesWidth(t *testing.T) {
	narrow := &DataBuffer{}
	if got := narrow.IndexType(); got != driver.IndexUnsignedShort {
		t.Errorf("narrow IndexType = %v, want IndexUnsignedShort", got)
	}
	wide := &DataBuffer{Is32Bits: true}
	if got := wide.IndexType(); got != driver.IndexUnsignedInt {
		t.Errorf("wide IndexType = %v, want IndexUnsignedInt", got)
	}
}

func TestCreateBufferUploadSequence(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	_, err := e.CreateVertexBuffer([]byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("CreateVertexBuffer: %v", err)
	}

	// Bind for upload, upload, unbind. Creation must not leave the new
	// buffer bound.
	if got := ctx.Count("BindBuffer"); got != 2 {
		t.Errorf("BindBuffer issued %d times, want 2 (bind + unbind)", got)
	}
	if got := ctx.Count("BufferData"); got != 1 {
		t.Errorf("BufferData issued %d times, want 1", got)
	}
}

func TestCreateDynamicVertexBuffer(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	buf, err := e.CreateDynamicVertexBuffer(256)
	if err != nil {
		t.Fatalf("CreateDynamicVertexBuffer: %v", err)
	}
	if buf.Capacity != 256 {
		t.Errorf("Capacity = %d, want 256", buf.Capacity)
	}

	e.UpdateDynamicBuffer(buf, 16, []byte{9, 9, 9, 9})
	if got := ctx.Count("BufferSubData"); got != 1 {
		t.Errorf("BufferSubData issued %d times, want 1", got)
	}
}

func TestBufferReferenceCounting(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	buf, err := e.CreateVertexBuffer([]byte{0})
	if err != nil {
		t.Fatalf("CreateVertexBuffer: %v", err)
	}
	buf.Retain()
	if got := buf.References(); got != 2 {
		t.Fatalf("References = %d, want 2", got)
	}

	e.ReleaseBuffer(buf)
	if ctx.Count("DeleteBuffer") != 0 {
		t.Fatal("buffer freed while still referenced")
	}

	e.ReleaseBuffer(buf)
	if ctx.Count("DeleteBuffer") != 1 {
		t.Fatal("buffer not freed at zero references")
	}
	if got := buf.References(); got != 0 {
		t.Fatalf("References = %d after final release, want 0", got)
	}

	// Releasing past zero must not double-free.
	e.ReleaseBuffer(buf)
	if ctx.Count("DeleteBuffer") != 1 {
		t.Fatal("double free on release past zero")
	}
}

func TestCreateBufferWhileLost(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	e.NotifyContextLost()
	ctx.Reset()

	_, err := e.CreateVertexBuffer([]byte{1})
	if !errors.Is(err, ErrContextLost) {
		t.Fatalf("CreateVertexBuffer while lost: err = %v, want ErrContextLost", err)
	}
	if _, err := e.CreateIndexBuffer([]uint32{0}); !errors.Is(err, ErrContextLost) {
		t.Fatalf("CreateIndexBuffer while lost: err = %v, want ErrContextLost", err)
	}
	if got := ctx.TotalCalls(); got != 0 {
		t.Fatalf("%d driver calls issued while lost, want 0", got)
	}
}

func TestCreateBufferAllocationFailure(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	ctx.FailCreate = true

	_, err := e.CreateVertexBuffer([]byte{1})
	if !errors.Is(err, driver.ErrAllocationFailed) {
		t.Fatalf("err = %v, want ErrAllocationFailed", err)
	}
}

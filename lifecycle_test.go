// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"testing"

	"github.com/gogpu/thinengine/driver"
	"github.com/gogpu/thinengine/internal/drivertest"
)

func TestContextStateString(t *testing.T) {
	tests := []struct {
		st   contextState
		want string
	}{
		{stateLive, "Live"},
		{stateLost, "Lost"},
		{stateRestoring, "Restoring"},
		{contextState(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.st.String(); got != tt.want {
			t.Errorf("contextState(%d).String() = %q, want %q", tt.st, got, tt.want)
		}
	}
}

func TestLostContextGatesAllCalls(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	buf, _ := e.CreateVertexBuffer([]byte{1, 2, 3, 4})
	fx, _ := e.CreateEffect(quadEffect)
	e.NotifyContextLost()
	ctx.Reset()

	// Every entry point must be a safe no-op while the context is lost.
	e.Draw(nil, nil, fx, driver.DrawTriangles, 0, 3, 0)
	e.SetViewport(0, 0, 10, 10)
	e.BindFramebuffer(driver.Framebuffer{V: 1})
	e.UpdateDynamicBuffer(buf, 0, []byte{9})
	e.WipeCache()
	e.BindVertexArray(nil)

	if got := ctx.TotalCalls(); got != 0 {
		t.Fatalf("%d driver calls issued while lost, want 0\ncalls: %v", got, ctx.Calls)
	}
	if !e.IsContextLost() {
		t.Fatal("IsContextLost = false while lost")
	}
}

func TestLossObserversNotified(t *testing.T) {
	e := newTestEngine(t, drivertest.New())

	lost, restored := 0, 0
	e.OnContextLost(func() { lost++ })
	e.OnContextRestored(func() { restored++ })

	e.NotifyContextLost()
	if lost != 1 || restored != 0 {
		t.Fatalf("after loss: lost=%d restored=%d, want 1/0", lost, restored)
	}

	// A duplicate loss notification must not re-fire.
	e.NotifyContextLost()
	if lost != 1 {
		t.Fatalf("duplicate loss notification fired observers: lost=%d", lost)
	}

	e.NotifyContextRestored()
	if restored != 1 {
		t.Fatalf("after restore: restored=%d, want 1", restored)
	}

	// Restoring an already-live context is a no-op.
	e.NotifyContextRestored()
	if restored != 1 {
		t.Fatalf("duplicate restore notification fired observers: restored=%d", restored)
	}
}

func TestObserverRemoval(t *testing.T) {
	e := newTestEngine(t, drivertest.New())

	calls := 0
	remove := e.OnContextLost(func() { calls++ })
	remove()

	e.NotifyContextLost()
	if calls != 0 {
		t.Fatalf("removed observer fired %d times", calls)
	}
}

func TestRestorationBumpsGeneration(t *testing.T) {
	e := newTestEngine(t, drivertest.New())
	if got := e.ContextGeneration(); got != 0 {
		t.Fatalf("initial generation = %d, want 0", got)
	}

	e.NotifyContextLost()
	if got := e.ContextGeneration(); got != 0 {
		t.Fatalf("generation bumped on loss: %d", got)
	}

	e.NotifyContextRestored()
	if got := e.ContextGeneration(); got != 1 {
		t.Fatalf("generation after restore = %d, want 1", got)
	}
}

func TestRestorationReprobesAndWipes(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	// The context comes back with different limits; the capability record
	// and the cache must be rebuilt against them.
	ctx.Integers[driver.ParamMaxTextureChannels] = 8
	e.NotifyContextLost()
	ctx.Reset()
	e.NotifyContextRestored()

	if got := e.Caps().MaxTextureChannels; got != 8 {
		t.Fatalf("MaxTextureChannels after restore = %d, want 8", got)
	}
	if got := len(e.state.textures); got != 8 {
		t.Fatalf("cache texture slots after restore = %d, want 8", got)
	}
	// The wipe reissues defaults, so binds reached the driver.
	if ctx.Count("BindTexture") != 8 {
		t.Fatalf("restore wipe issued %d BindTexture calls, want 8", ctx.Count("BindTexture"))
	}

	// Post-restore binds must be issued: the cache may not assume any
	// pre-loss state survived.
	ctx.Reset()
	buf, err := e.CreateVertexBuffer([]byte{1})
	if err != nil {
		t.Fatalf("CreateVertexBuffer after restore: %v", err)
	}
	e.state.bindBuffer(driver.TargetArray, buf.handle)
	if ctx.Count("BindBuffer") < 3 {
		t.Fatal("post-restore bind skipped by stale cache state")
	}
}

func TestObserversRunAfterReinit(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	// Restoration observers may immediately recompile; the engine must be
	// live again by the time they run.
	var liveInObserver bool
	var errInObserver error
	e.OnContextRestored(func() {
		liveInObserver = !e.IsContextLost()
		_, errInObserver = e.CreateEffect(quadEffect)
	})

	e.NotifyContextLost()
	e.NotifyContextRestored()

	if !liveInObserver {
		t.Fatal("engine not live inside restoration observer")
	}
	if errInObserver != nil {
		t.Fatalf("CreateEffect inside restoration observer: %v", errInObserver)
	}
}

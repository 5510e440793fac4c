// Package thinengine is the state-tracking core of a browser-oriented 3D
// rendering engine.
//
// # Overview
//
// thinengine owns a single GL-style graphics context and mediates between it
// and everything that issues draw calls: materials, meshes, particle
// systems. Its job is redundant-call elimination — every binding operation
// (buffer, texture channel, program, framebuffer, vertex array, attribute
// pointer, viewport) is checked against a bound-state cache and only reaches
// the driver when the cached value differs. Redundant binds are free.
//
// The engine also owns resource creation (reference-counted buffers,
// textures, memoized compiled programs), the capability probe, the texture
// format resolver, and the context loss/restoration lifecycle.
//
// # Quick Start
//
//	eng, err := thinengine.New() // best registered driver
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	indices, _ := eng.CreateIndexBuffer([]uint32{0, 1, 2, 0, 2, 3})
//	positions, _ := eng.CreateVertexBuffer(quadBytes)
//	fx, _ := eng.CreateEffect(thinengine.EffectDescriptor{
//		VertexSourceID:   "quad.vert",
//		FragmentSourceID: "flat.frag",
//		VertexSource:     vertSrc,
//		FragmentSource:   fragSrc,
//		Attributes:       []string{"position"},
//	})
//
//	eng.Draw(map[string]thinengine.VertexBinding{
//		"position": {Buffer: positions, Size: 3, Type: driver.AttribFloat, Stride: 12},
//	}, indices, fx, driver.DrawTriangles, 0, 6, 0)
//
// # Context loss
//
// Loss and restoration events arrive asynchronously from the host. While
// the context is lost every bind and draw call is a safe no-op; resource
// creation returns ErrContextLost. After restoration the engine re-probes
// capabilities, wipes its cache and notifies observers — consumers must
// recompile their effects and re-record their vertex arrays, because the
// engine does not retain shader source text on their behalf.
//
// # Threading
//
// One goroutine drives the engine. There is no internal locking because the
// underlying context is not callable from multiple goroutines; see the
// Engine documentation for the shared-context escape hatch.
package thinengine

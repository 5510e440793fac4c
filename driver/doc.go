// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package driver defines the contract between the thinengine core and an
// underlying GL-style graphics context.
//
// A driver.Context is a stateful binding machine: buffer targets, texture
// channels, vertex attribute slots and the current program are all slots in
// the context's own state. The engine core never touches that state directly;
// it routes every mutation through its bound-state cache so redundant calls
// can be eliminated. Drivers therefore must not cache or reorder calls
// themselves, and must never be shared between two engine instances without
// an explicit cache wipe in between.
//
// Implementations register themselves from init() via Register and are
// selected by name or priority with Get and Default. The only implementation
// shipped with the module is the WebGL driver in driver/webgl, which is
// compiled for GOOS=js only; tests use a recording fake.
package driver

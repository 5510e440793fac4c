// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import "errors"

// Engine errors.
var (
	// ErrNoDriver is returned by New when no driver is supplied and none is
	// registered.
	ErrNoDriver = errors.New("thinengine: no graphics driver available")

	// ErrContextLost is returned by resource creation while the context is
	// lost. Bind and draw calls never return it; they become no-ops instead.
	ErrContextLost = errors.New("thinengine: graphics context is lost")

	// ErrUnknownFormat is returned by the format resolver for a
	// format/type/color-space combination with no mapping on the current
	// context version.
	ErrUnknownFormat = errors.New("thinengine: no texture format mapping")

	// ErrMultiviewUnsupported is returned when a multiview texture is routed
	// through the generic binding path. Multiview requires its own path;
	// taking the generic one is a logic error, not a degradation.
	ErrMultiviewUnsupported = errors.New("thinengine: multiview binding requires the multiview path")

	// ErrVertexArraysUnsupported is returned by RecordVertexArray when the
	// capability is absent.
	ErrVertexArraysUnsupported = errors.New("thinengine: vertex array objects unsupported")
)

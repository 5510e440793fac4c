// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"github.com/gogpu/thinengine/driver"
)

// Option configures an Engine during creation.
//
// Example:
//
//	// Default driver from the registry
//	eng, err := thinengine.New()
//
//	// Injected driver (dependency injection, tests)
//	eng, err := thinengine.New(thinengine.WithDriver(ctx))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	ctx              driver.Context
	userAgent        string
	quirks           []Quirk
	globalDefines    string
	reversedDepth    bool
	ignoreLossEvents bool
}

// WithDriver injects the graphics context instead of selecting one from the
// driver registry.
func WithDriver(ctx driver.Context) Option {
	return func(o *engineOptions) {
		o.ctx = ctx
	}
}

// WithUserAgent supplies the host user-agent string consulted by the
// capability quirk table. Without it no quirk rules match.
func WithUserAgent(ua string) Option {
	return func(o *engineOptions) {
		o.userAgent = ua
	}
}

// WithQuirks appends caller-supplied capability quirk rules, applied after
// the built-in table.
func WithQuirks(quirks ...Quirk) Option {
	return func(o *engineOptions) {
		o.quirks = append(o.quirks, quirks...)
	}
}

// WithGlobalDefines appends a define block injected into every compiled
// program. It becomes part of every program memoization key.
func WithGlobalDefines(defines string) Option {
	return func(o *engineOptions) {
		o.globalDefines += defines
	}
}

// WithReversedDepth injects the reversed-depth define into every program,
// for hosts rendering with a reversed depth range.
func WithReversedDepth() Option {
	return func(o *engineOptions) {
		o.reversedDepth = true
	}
}

// WithDoNotHandleContextLost opts the engine out of the loss/restoration
// lifecycle: NotifyContextLost and NotifyContextRestored become no-ops and
// the host owns recovery entirely. Loss is still observable through the
// driver's IsContextLost query.
func WithDoNotHandleContextLost() Option {
	return func(o *engineOptions) {
		o.ignoreLossEvents = true
	}
}

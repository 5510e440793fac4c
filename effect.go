// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"fmt"

	"github.com/gogpu/thinengine/driver"
)

// EffectDescriptor is a consumer's request for a compiled program. Source
// text is opaque to the engine; it is handed to the driver verbatim after
// define injection.
type EffectDescriptor struct {
	// VertexSourceID and FragmentSourceID identify the source text for
	// memoization. Two requests with the same IDs and defines share one
	// compiled program without comparing source text.
	VertexSourceID   string
	FragmentSourceID string

	// VertexSource and FragmentSource are the shader source text.
	VertexSource   string
	FragmentSource string

	// Attributes are the semantic names the consumer will supply vertex
	// buffers for. Names the program does not use resolve to no location and
	// are skipped at draw time.
	Attributes []string

	// Defines is the consumer's preprocessor define block.
	Defines string
}

// pipelineContext owns one compiled, linked program. It is shared between
// every Effect requesting the same key and reference-counted by them.
type pipelineContext struct {
	key        string
	program    driver.Program
	references int

	// valid flips to false on context loss: the host already freed the
	// underlying program, the handle just must not be used again.
	valid bool
}

// Effect is a consumer's view of a compiled program: the shared pipeline
// context plus resolved attribute locations (reflection data).
type Effect struct {
	pipeline   *pipelineContext
	attributes []string
	locations  map[string]int
}

// Key returns the memoization key of the underlying program.
func (fx *Effect) Key() string { return fx.pipeline.key }

// AttributeLocation returns the attribute slot for a semantic name, or -1
// when the program does not use it.
func (fx *Effect) AttributeLocation(name string) int {
	loc, ok := fx.locations[name]
	if !ok {
		return -1
	}
	return loc
}

// Valid reports whether the compiled program survived the last context loss.
// Invalid effects must be re-created by their owner; the engine cannot
// recompile on their behalf because it does not retain source text.
func (fx *Effect) Valid() bool { return fx.pipeline.valid }

// programKey builds the memoization key: vertex source id + fragment source
// id + "@" + the fully expanded defines string, including the engine's
// globally injected defines suffix.
func (e *Engine) programKey(desc *EffectDescriptor) string {
	return desc.VertexSourceID + "+" + desc.FragmentSourceID + "@" + desc.Defines + e.globalDefines
}

// CreateEffect returns a compiled program for the descriptor.
//
// The lookup key is checked before any compilation: a hit increments the
// existing program's reference count and returns it unchanged, skipping
// compilation entirely. A miss compiles and links via the driver (define
// blocks are prepended to both stages), resolves attribute locations, and
// inserts the program into the table.
func (e *Engine) CreateEffect(desc EffectDescriptor) (*Effect, error) {
	if e.lifecycle.state() != stateLive {
		return nil, ErrContextLost
	}

	key := e.programKey(&desc)
	if pc, ok := e.programs.Get(key); ok && pc.valid {
		pc.references++
		return e.newEffectView(pc, desc.Attributes), nil
	}

	defines := desc.Defines + e.globalDefines
	vsrc := defines + desc.VertexSource
	fsrc := defines + desc.FragmentSource
	program, err := e.ctx.CompileProgram(vsrc, fsrc)
	if err != nil {
		return nil, fmt.Errorf("thinengine: compile effect %q: %w", key, err)
	}

	pc := &pipelineContext{
		key:        key,
		program:    program,
		references: 1,
		valid:      true,
	}
	e.programs.Set(key, pc)
	return e.newEffectView(pc, desc.Attributes), nil
}

// newEffectView resolves attribute locations for one consumer of a shared
// pipeline context.
func (e *Engine) newEffectView(pc *pipelineContext, attributes []string) *Effect {
	locations := make(map[string]int, len(attributes))
	for _, name := range attributes {
		locations[name] = e.ctx.AttribLocation(pc.program, name)
	}
	return &Effect{
		pipeline:   pc,
		attributes: attributes,
		locations:  locations,
	}
}

// ReleaseEffect drops one reference on the effect's program. The transition
// to zero deletes the program and removes it from the memoization table.
func (e *Engine) ReleaseEffect(fx *Effect) {
	pc := fx.pipeline
	if pc.references <= 0 {
		return
	}
	pc.references--
	if pc.references > 0 {
		return
	}
	if pc.valid && e.lifecycle.state() == stateLive {
		e.ctx.DeleteProgram(pc.program)
		e.state.forgetProgram(pc.program)
	}
	pc.valid = false
	e.programs.Delete(pc.key)
}

// invalidatePrograms marks every compiled program dead without freeing:
// after a context loss the host has already discarded the underlying
// allocations. Consumers are told to recompile via the restoration
// observers.
func (e *Engine) invalidatePrograms() {
	e.programs.Range(func(_ string, pc *pipelineContext) {
		pc.valid = false
	})
	e.programs.Clear()
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/thinengine/driver"
)

// Format is the semantic channel layout of a texture.
type Format uint8

const (
	// FormatAlpha is a single alpha channel.
	FormatAlpha Format = iota
	// FormatLuminance is a single luminance channel.
	FormatLuminance
	// FormatR is a single red channel.
	FormatR
	// FormatRG is a two-channel red/green layout.
	FormatRG
	// FormatRGB is a three-channel layout.
	FormatRGB
	// FormatRGBA is the standard four-channel layout.
	FormatRGBA
	// FormatDepth16 is a 16-bit depth layout.
	FormatDepth16
	// FormatDepth24Stencil8 is a combined depth/stencil layout.
	FormatDepth24Stencil8
)

// ComponentType is the numeric type of a texture's components.
type ComponentType uint8

const (
	// TypeUnsignedByte is an 8-bit unsigned normalized component.
	TypeUnsignedByte ComponentType = iota
	// TypeHalfFloat is a 16-bit float component.
	TypeHalfFloat
	// TypeFloat is a 32-bit float component.
	TypeFloat
)

// GL enum values shared by every GL-dialect context. The resolver emits
// these verbatim; drivers pass them straight through to the API.
const (
	glAlpha     = 0x1906
	glLuminance = 0x1909
	glRed       = 0x1903
	glRG        = 0x8227
	glRGB       = 0x1907
	glRGBA      = 0x1908

	glR8    = 0x8229
	glRG8   = 0x822B
	glRGB8  = 0x8051
	glRGBA8 = 0x8058

	glSRGBExt      = 0x8C40
	glSRGBAlphaExt = 0x8C42
	glSRGB8        = 0x8C41
	glSRGB8Alpha8  = 0x8C43

	glR16F    = 0x822D
	glRG16F   = 0x822F
	glRGB16F  = 0x881B
	glRGBA16F = 0x881A
	glR32F    = 0x822E
	glRG32F   = 0x8230
	glRGB32F  = 0x8815
	glRGBA32F = 0x8814

	glDepthComponent   = 0x1902
	glDepthComponent16 = 0x81A5
	glDepthStencil     = 0x84F9
	glDepth24Stencil8  = 0x88F0

	glUnsignedByte  = 0x1401
	glUnsignedShort = 0x1403
	glUnsignedInt   = 0x1405
	glFloat         = 0x1406
	glHalfFloat     = 0x140B
	glHalfFloatOES  = 0x8D61
	glUnsignedInt248 = 0x84FA
)

// resolveTriple maps a semantic (format, type, color-space) triple to the
// context's (internal format, upload format, component type) enums. The
// mapping is version-dependent: version 1 contexts use unsized internal
// formats and the OES half-float enum; version 2 contexts use sized formats.
//
// sRGB internal formats are selected only when the caller asks for sRGB AND
// the capability record reports sRGB buffer support; otherwise the linear
// format is returned (degradation, not an error).
func resolveTriple(f Format, t ComponentType, srgb bool, caps *Capabilities) (driver.TextureTriple, error) {
	srgb = srgb && caps.SRGBBuffers

	// Depth layouts ignore the component type argument.
	switch f {
	case FormatDepth16:
		return driver.TextureTriple{
			Internal: pick(caps.Version >= 2, glDepthComponent16, glDepthComponent),
			Format:   glDepthComponent,
			Type:     glUnsignedShort,
		}, nil
	case FormatDepth24Stencil8:
		return driver.TextureTriple{
			Internal: pick(caps.Version >= 2, glDepth24Stencil8, glDepthStencil),
			Format:   glDepthStencil,
			Type:     glUnsignedInt248,
		}, nil
	}

	if caps.Version < 2 {
		return resolveTripleV1(f, t, srgb)
	}
	return resolveTripleV2(f, t, srgb)
}

// resolveTripleV1 covers version 1 contexts: internal format equals the
// upload format, sRGB comes from the EXT enums, half float from the OES enum.
func resolveTripleV1(f Format, t ComponentType, srgb bool) (driver.TextureTriple, error) {
	var format uint32
	switch f {
	case FormatAlpha:
		format = glAlpha
	case FormatLuminance:
		format = glLuminance
	case FormatR:
		// RED is not a version 1 format; luminance is the closest layout.
		format = glLuminance
	case FormatRGB:
		format = glRGB
	case FormatRGBA:
		format = glRGBA
	default:
		return driver.TextureTriple{}, ErrUnknownFormat
	}

	var typ uint32
	switch t {
	case TypeUnsignedByte:
		typ = glUnsignedByte
	case TypeHalfFloat:
		typ = glHalfFloatOES
	case TypeFloat:
		typ = glFloat
	default:
		return driver.TextureTriple{}, ErrUnknownFormat
	}

	internal := format
	if srgb && t == TypeUnsignedByte {
		switch f {
		case FormatRGB:
			internal, format = glSRGBExt, glSRGBExt
		case FormatRGBA:
			internal, format = glSRGBAlphaExt, glSRGBAlphaExt
		}
	}
	return driver.TextureTriple{Internal: internal, Format: format, Type: typ}, nil
}

// v2Sized maps (format, type) to the sized internal format of a version 2
// context.
var v2Sized = map[Format][3]uint32{
	// indexed by ComponentType: UnsignedByte, HalfFloat, Float
	FormatR:    {glR8, glR16F, glR32F},
	FormatRG:   {glRG8, glRG16F, glRG32F},
	FormatRGB:  {glRGB8, glRGB16F, glRGB32F},
	FormatRGBA: {glRGBA8, glRGBA16F, glRGBA32F},
}

func resolveTripleV2(f Format, t ComponentType, srgb bool) (driver.TextureTriple, error) {
	var format uint32
	switch f {
	case FormatAlpha:
		format = glAlpha
	case FormatLuminance:
		format = glLuminance
	case FormatR:
		format = glRed
	case FormatRG:
		format = glRG
	case FormatRGB:
		format = glRGB
	case FormatRGBA:
		format = glRGBA
	default:
		return driver.TextureTriple{}, ErrUnknownFormat
	}

	var typ uint32
	switch t {
	case TypeUnsignedByte:
		typ = glUnsignedByte
	case TypeHalfFloat:
		typ = glHalfFloat
	case TypeFloat:
		typ = glFloat
	default:
		return driver.TextureTriple{}, ErrUnknownFormat
	}

	internal := format
	if sized, ok := v2Sized[f]; ok {
		internal = sized[t]
	}
	if srgb && t == TypeUnsignedByte {
		switch f {
		case FormatRGB:
			internal = glSRGB8
		case FormatRGBA:
			internal = glSRGB8Alpha8
		}
	}
	return driver.TextureTriple{Internal: internal, Format: format, Type: typ}, nil
}

// WebGPUFormat maps a semantic triple to the equivalent WebGPU texture
// format. Hosts that embed the engine next to a WebGPU stack use this for
// interop and diagnostics; combinations without a WebGPU equivalent map to
// TextureFormatUndefined.
func WebGPUFormat(f Format, t ComponentType, srgb bool) gputypes.TextureFormat {
	switch f {
	case FormatR, FormatAlpha, FormatLuminance:
		switch t {
		case TypeUnsignedByte:
			return gputypes.TextureFormatR8Unorm
		case TypeFloat:
			return gputypes.TextureFormatR32Float
		}
	case FormatRG:
		if t == TypeUnsignedByte {
			return gputypes.TextureFormatRG8Unorm
		}
	case FormatRGBA:
		switch t {
		case TypeUnsignedByte:
			if srgb {
				return gputypes.TextureFormatRGBA8UnormSrgb
			}
			return gputypes.TextureFormatRGBA8Unorm
		case TypeHalfFloat:
			return gputypes.TextureFormatRGBA16Float
		case TypeFloat:
			return gputypes.TextureFormatRGBA32Float
		}
	case FormatDepth24Stencil8:
		return gputypes.TextureFormatDepth24PlusStencil8
	}
	return gputypes.TextureFormatUndefined
}

// pick returns a when cond holds, else b. Small helper for the
// version-dependent tables.
func pick(cond bool, a, b uint32) uint32 {
	if cond {
		return a
	}
	return b
}

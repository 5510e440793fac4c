// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"strings"

	"github.com/gogpu/thinengine/driver"
)

// Capabilities is an immutable snapshot of what the underlying context
// supports, taken once per context creation. It is replaced wholesale after a
// context restoration; nothing else mutates it.
type Capabilities struct {
	// Version is the context major version (1 or 2).
	Version int

	// Vendor and Renderer are the driver identification strings.
	Vendor   string
	Renderer string

	// MaxTextureSize is the largest supported square texture dimension.
	MaxTextureSize int

	// MaxTextureChannels is the number of simultaneous texture channels.
	// It sizes the bound-state cache's texture slot array.
	MaxTextureChannels int

	// MaxVertexAttribs is the number of vertex attribute slots.
	MaxVertexAttribs int

	// MaxDrawBuffers is the number of simultaneous color attachments.
	MaxDrawBuffers int

	// MaxAnisotropy is the maximum anisotropic filtering level, 1 when the
	// extension is absent.
	MaxAnisotropy int

	// Instancing reports instanced draw support.
	Instancing bool

	// VertexArrayObjects reports vertex array object support.
	VertexArrayObjects bool

	// Uint32Indices reports 32-bit index buffer support.
	Uint32Indices bool

	// TextureFloat reports 32-bit float texture support.
	TextureFloat bool

	// TextureFloatLinear reports linear filtering of float textures.
	TextureFloatLinear bool

	// TextureFloatRender reports float render target support.
	TextureFloatRender bool

	// TextureHalfFloat reports 16-bit float texture support.
	TextureHalfFloat bool

	// TextureHalfFloatLinear reports linear filtering of half-float textures.
	TextureHalfFloatLinear bool

	// SRGBBuffers reports sRGB texture and framebuffer support.
	SRGBBuffers bool

	// AnisotropicFilter reports anisotropic filtering support.
	AnisotropicFilter bool

	// Multiview reports multiview render target support.
	Multiview bool
}

// Quirk is a data-driven capability override keyed on a user-agent substring.
// Rules are consulted exactly once, when the probe runs; they are
// configuration data, not logic sprinkled through the engine.
type Quirk struct {
	// UserAgentContains selects the rule when the host user-agent string
	// contains this substring. Matching is case-insensitive.
	UserAgentContains string

	// Apply mutates the freshly probed capability record.
	Apply func(*Capabilities)
}

// defaultQuirks are the exception rules shipped with the engine. They mirror
// known driver defects on browsers that report capabilities they cannot
// deliver.
var defaultQuirks = []Quirk{
	{
		// Mali-4xx era WebGL stacks advertise OES_element_index_uint but
		// render garbage past 65535.
		UserAgentContains: "mali-4",
		Apply:             func(c *Capabilities) { c.Uint32Indices = false },
	},
	{
		// Older iOS WebKit filters float textures as if the extension were
		// present, then samples black.
		UserAgentContains: "iphone os 9",
		Apply: func(c *Capabilities) {
			c.TextureFloatLinear = false
			c.TextureHalfFloatLinear = false
		},
	},
}

// probeCapabilities queries the context once and produces the capability
// record. Extension queries are best-effort: absence degrades a flag, it is
// never an error. Version 2 contexts imply several features without an
// extension.
func probeCapabilities(ctx driver.Context, userAgent string, quirks []Quirk) Capabilities {
	ver := ctx.APIVersion()
	caps := Capabilities{
		Version:            ver,
		Vendor:             ctx.GetString(driver.ParamVendor),
		Renderer:           ctx.GetString(driver.ParamRenderer),
		MaxTextureSize:     ctx.GetInteger(driver.ParamMaxTextureSize),
		MaxTextureChannels: ctx.GetInteger(driver.ParamMaxTextureChannels),
		MaxVertexAttribs:   ctx.GetInteger(driver.ParamMaxVertexAttribs),
		MaxAnisotropy:      1,
		MaxDrawBuffers:     1,
	}

	if ver >= 2 {
		caps.MaxDrawBuffers = ctx.GetInteger(driver.ParamMaxDrawBuffers)
		caps.Instancing = true
		caps.VertexArrayObjects = true
		caps.Uint32Indices = true
		caps.TextureFloat = true
		caps.TextureHalfFloat = true
		caps.TextureHalfFloatLinear = true
		caps.SRGBBuffers = true
		caps.TextureFloatLinear = ctx.HasExtension("OES_texture_float_linear")
		caps.TextureFloatRender = ctx.HasExtension("EXT_color_buffer_float")
	} else {
		caps.Instancing = ctx.HasExtension("ANGLE_instanced_arrays")
		caps.VertexArrayObjects = ctx.HasExtension("OES_vertex_array_object")
		caps.Uint32Indices = ctx.HasExtension("OES_element_index_uint")
		caps.TextureFloat = ctx.HasExtension("OES_texture_float")
		caps.TextureFloatLinear = ctx.HasExtension("OES_texture_float_linear")
		caps.TextureFloatRender = caps.TextureFloat && ctx.HasExtension("WEBGL_color_buffer_float")
		caps.TextureHalfFloat = ctx.HasExtension("OES_texture_half_float")
		caps.TextureHalfFloatLinear = ctx.HasExtension("OES_texture_half_float_linear")
		caps.SRGBBuffers = ctx.HasExtension("EXT_sRGB")
	}

	caps.AnisotropicFilter = ctx.HasExtension("EXT_texture_filter_anisotropic")
	if caps.AnisotropicFilter {
		caps.MaxAnisotropy = ctx.GetInteger(driver.ParamMaxAnisotropy)
		if caps.MaxAnisotropy < 1 {
			caps.MaxAnisotropy = 1
		}
	}
	caps.Multiview = ctx.HasExtension("OVR_multiview2")

	applyQuirks(&caps, userAgent, quirks)
	return caps
}

// applyQuirks runs the default rule table followed by caller-supplied rules.
func applyQuirks(caps *Capabilities, userAgent string, extra []Quirk) {
	if userAgent == "" {
		return
	}
	ua := strings.ToLower(userAgent)
	for _, rules := range [][]Quirk{defaultQuirks, extra} {
		for _, q := range rules {
			if q.Apply == nil {
				continue
			}
			if strings.Contains(ua, strings.ToLower(q.UserAgentContains)) {
				Logger().Warn("thinengine: capability quirk applied",
					"match", q.UserAgentContains)
				q.Apply(caps)
			}
		}
	}
}

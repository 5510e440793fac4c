// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"testing"

	"github.com/gogpu/thinengine/driver"
	"github.com/gogpu/thinengine/internal/drivertest"
)

func TestProbeVersion2Implications(t *testing.T) {
	ctx := drivertest.New()
	caps := probeCapabilities(ctx, "", nil)

	if caps.Version != 2 {
		t.Fatalf("Version = %d, want 2", caps.Version)
	}
	for name, got := range map[string]bool{
		"Instancing":             caps.Instancing,
		"VertexArrayObjects":     caps.VertexArrayObjects,
		"Uint32Indices":          caps.Uint32Indices,
		"TextureFloat":           caps.TextureFloat,
		"TextureHalfFloat":       caps.TextureHalfFloat,
		"TextureHalfFloatLinear": caps.TextureHalfFloatLinear,
		"SRGBBuffers":            caps.SRGBBuffers,
	} {
		if !got {
			t.Errorf("%s = false on a version 2 context, want true", name)
		}
	}
	// Float-linear stays extension-gated even on version 2.
	if caps.TextureFloatLinear {
		t.Error("TextureFloatLinear = true without OES_texture_float_linear")
	}
	if caps.MaxDrawBuffers != 8 {
		t.Errorf("MaxDrawBuffers = %d, want 8", caps.MaxDrawBuffers)
	}
}

func TestProbeVersion1Extensions(t *testing.T) {
	tests := []struct {
		ext   string
		check func(Capabilities) bool
	}{
		{"ANGLE_instanced_arrays", func(c Capabilities) bool { return c.Instancing }},
		{"OES_vertex_array_object", func(c Capabilities) bool { return c.VertexArrayObjects }},
		{"OES_element_index_uint", func(c Capabilities) bool { return c.Uint32Indices }},
		{"OES_texture_float", func(c Capabilities) bool { return c.TextureFloat }},
		{"OES_texture_float_linear", func(c Capabilities) bool { return c.TextureFloatLinear }},
		{"OES_texture_half_float", func(c Capabilities) bool { return c.TextureHalfFloat }},
		{"OES_texture_half_float_linear", func(c Capabilities) bool { return c.TextureHalfFloatLinear }},
		{"EXT_sRGB", func(c Capabilities) bool { return c.SRGBBuffers }},
		{"OVR_multiview2", func(c Capabilities) bool { return c.Multiview }},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			bare := probeCapabilities(drivertest.NewV1(), "", nil)
			if tt.check(bare) {
				t.Fatalf("capability set without %s", tt.ext)
			}
			with := probeCapabilities(drivertest.NewV1(tt.ext), "", nil)
			if !tt.check(with) {
				t.Fatalf("capability not set with %s", tt.ext)
			}
		})
	}
}

func TestProbeFloatRenderRequiresBoth(t *testing.T) {
	// Version 1 float render targets need the texture extension AND the
	// color buffer extension.
	only := probeCapabilities(drivertest.NewV1("WEBGL_color_buffer_float"), "", nil)
	if only.TextureFloatRender {
		t.Fatal("TextureFloatRender set without OES_texture_float")
	}
	both := probeCapabilities(drivertest.NewV1("OES_texture_float", "WEBGL_color_buffer_float"), "", nil)
	if !both.TextureFloatRender {
		t.Fatal("TextureFloatRender not set with both extensions")
	}
}

func TestProbeAnisotropy(t *testing.T) {
	without := probeCapabilities(drivertest.New(), "", nil)
	if without.AnisotropicFilter || without.MaxAnisotropy != 1 {
		t.Fatalf("without extension: filter=%v max=%d, want false/1",
			without.AnisotropicFilter, without.MaxAnisotropy)
	}

	ctx := drivertest.New()
	ctx.Extensions["EXT_texture_filter_anisotropic"] = true
	with := probeCapabilities(ctx, "", nil)
	if !with.AnisotropicFilter || with.MaxAnisotropy != 16 {
		t.Fatalf("with extension: filter=%v max=%d, want true/16",
			with.AnisotropicFilter, with.MaxAnisotropy)
	}
}

func TestQuirks(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		check     func(t *testing.T, c Capabilities)
	}{
		{
			name:      "mali-4 disables wide indices",
			userAgent: "Mozilla/5.0 (Linux; Android 4.4) MALI-450",
			check: func(t *testing.T, c Capabilities) {
				if c.Uint32Indices {
					t.Error("Uint32Indices survived the mali-4 quirk")
				}
			},
		},
		{
			name:      "old iOS disables float filtering",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 9_3 like Mac OS X)",
			check: func(t *testing.T, c Capabilities) {
				if c.TextureFloatLinear || c.TextureHalfFloatLinear {
					t.Error("float filtering survived the iOS 9 quirk")
				}
			},
		},
		{
			name:      "unrelated agent untouched",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64)",
			check: func(t *testing.T, c Capabilities) {
				if !c.Uint32Indices || !c.TextureHalfFloatLinear {
					t.Error("quirk applied without a user-agent match")
				}
			},
		},
		{
			name:      "empty agent matches nothing",
			userAgent: "",
			check: func(t *testing.T, c Capabilities) {
				if !c.Uint32Indices {
					t.Error("quirk applied with empty user agent")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := probeCapabilities(drivertest.New(), tt.userAgent, nil)
			tt.check(t, caps)
		})
	}
}

func TestCallerQuirksRunAfterDefaults(t *testing.T) {
	quirks := []Quirk{{
		UserAgentContains: "mali-450",
		Apply:             func(c *Capabilities) { c.Uint32Indices = true },
	}}
	caps := probeCapabilities(drivertest.New(), "Mali-450", quirks)
	if !caps.Uint32Indices {
		t.Fatal("caller quirk did not override the default rule")
	}
}

func TestProbeReadsLimits(t *testing.T) {
	ctx := drivertest.New()
	ctx.Integers[driver.ParamMaxTextureSize] = 4096
	ctx.Integers[driver.ParamMaxVertexAttribs] = 12
	caps := probeCapabilities(ctx, "", nil)

	if caps.MaxTextureSize != 4096 {
		t.Errorf("MaxTextureSize = %d, want 4096", caps.MaxTextureSize)
	}
	if caps.MaxVertexAttribs != 12 {
		t.Errorf("MaxVertexAttribs = %d, want 12", caps.MaxVertexAttribs)
	}
	if caps.Vendor != "drivertest" || caps.Renderer != "fake" {
		t.Errorf("identification = %q/%q", caps.Vendor, caps.Renderer)
	}
}

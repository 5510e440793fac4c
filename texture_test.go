// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/thinengine/driver"
	"github.com/gogpu/thinengine/internal/drivertest"
)

func rgbaDescriptor(w, h int) TextureDescriptor {
	return TextureDescriptor{
		Width:     w,
		Height:    h,
		Format:    FormatRGBA,
		Type:      TypeUnsignedByte,
		MinFilter: gputypes.FilterModeLinear,
		MagFilter: gputypes.FilterModeLinear,
	}
}

func TestCreateTextureSetup(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	tex, err := e.CreateTexture(rgbaDescriptor(64, 64))
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}

	if ctx.Count("TexImage2D") != 1 {
		t.Errorf("TexImage2D issued %d times, want 1", ctx.Count("TexImage2D"))
	}
	// Min, mag, wrap S, wrap T.
	if ctx.Count("TexParameteri") != 4 {
		t.Errorf("TexParameteri issued %d times, want 4", ctx.Count("TexParameteri"))
	}
	// Bound for setup and unbound afterwards, on the scratch channel.
	if ctx.Count("BindTexture") != 2 {
		t.Errorf("BindTexture issued %d times, want 2", ctx.Count("BindTexture"))
	}
	if tex.Channel != -1 {
		t.Errorf("fresh texture Channel = %d, want -1", tex.Channel)
	}
	if tex.Layers != 1 {
		t.Errorf("Layers = %d, want 1 default", tex.Layers)
	}
}

func TestFloatFilteringDowngrade(t *testing.T) {
	// Context reports float textures but no float-linear filtering.
	ctx := drivertest.NewV1("OES_texture_float")
	e := newTestEngine(t, ctx)

	desc := rgbaDescriptor(16, 16)
	desc.Type = TypeFloat
	min, mag := e.effectiveFilters(desc)
	if min != driver.FilterNearest || mag != driver.FilterNearest {
		t.Fatalf("filters = %d/%d, want nearest downgrade", min, mag)
	}

	// With the extension the request is honored.
	ctx2 := drivertest.NewV1("OES_texture_float", "OES_texture_float_linear")
	e2 := newTestEngine(t, ctx2)
	min, mag = e2.effectiveFilters(desc)
	if min != driver.FilterLinear || mag != driver.FilterLinear {
		t.Fatalf("filters = %d/%d, want linear honored", min, mag)
	}
}

func TestUploadTextureDriverMipmap(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)

	desc := rgbaDescriptor(64, 64)
	desc.GenerateMipmaps = true
	tex, _ := e.CreateTexture(desc)
	ctx.Reset()

	e.UploadTexture(tex, image.NewRGBA(image.Rect(0, 0, 64, 64)))
	if ctx.Count("GenerateMipmap") != 1 {
		t.Fatalf("GenerateMipmap issued %d times, want 1 on a version 2 context", ctx.Count("GenerateMipmap"))
	}
	if ctx.Count("TexImage2D") != 1 {
		t.Fatalf("TexImage2D issued %d times, want 1 (level 0 only)", ctx.Count("TexImage2D"))
	}
}

func TestUploadTextureCPUMipChain(t *testing.T) {
	// A version 1 context cannot driver-mipmap non-power-of-two textures;
	// the chain is computed on the CPU level by level.
	ctx := drivertest.NewV1()
	e := newTestEngine(t, ctx)

	desc := rgbaDescriptor(20, 12)
	desc.GenerateMipmaps = true
	tex, _ := e.CreateTexture(desc)
	ctx.Reset()

	e.UploadTexture(tex, image.NewRGBA(image.Rect(0, 0, 20, 12)))

	if ctx.Count("GenerateMipmap") != 0 {
		t.Fatal("driver mipmap path taken for NPOT version 1 texture")
	}
	// Level 0 plus 20x12 -> 10x6 -> 5x3 -> 2x1 -> 1x1.
	if got := ctx.Count("TexImage2D"); got != 5 {
		t.Fatalf("TexImage2D issued %d times, want 5 (level 0 + 4 mip levels)", got)
	}
}

func TestUpdateTextureRegion(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	tex, _ := e.CreateTexture(rgbaDescriptor(32, 32))
	ctx.Reset()

	e.UpdateTextureRegion(tex, 0, 4, 4, 8, 8, make([]byte, 8*8*4))
	if ctx.Count("TexSubImage2D") != 1 {
		t.Fatalf("TexSubImage2D issued %d times, want 1", ctx.Count("TexSubImage2D"))
	}
}

func TestResizeTexture(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	tex, _ := e.CreateTexture(rgbaDescriptor(32, 32))
	ctx.Reset()

	e.ResizeTexture(tex, 128, 64)
	if tex.Width != 128 || tex.Height != 64 {
		t.Fatalf("dimensions = %dx%d, want 128x64", tex.Width, tex.Height)
	}
	if ctx.Count("TexImage2D") != 1 {
		t.Fatalf("TexImage2D issued %d times, want 1", ctx.Count("TexImage2D"))
	}
}

func TestSetAnisotropy(t *testing.T) {
	ctx := drivertest.New()
	ctx.Extensions["EXT_texture_filter_anisotropic"] = true
	e := newTestEngine(t, ctx)
	tex, _ := e.CreateTexture(rgbaDescriptor(32, 32))
	ctx.Reset()

	// Clamped to the probed maximum.
	e.SetAnisotropy(tex, 64)
	if ctx.Count("TexParameteri") != 1 {
		t.Fatalf("TexParameteri issued %d times, want 1", ctx.Count("TexParameteri"))
	}

	// Redundant level skips the driver entirely.
	e.SetAnisotropy(tex, 16)
	if ctx.Count("TexParameteri") != 1 {
		t.Fatal("redundant anisotropy level reached the driver")
	}
}

func TestSetAnisotropyWithoutExtension(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	tex, _ := e.CreateTexture(rgbaDescriptor(32, 32))
	ctx.Reset()

	e.SetAnisotropy(tex, 8)
	if ctx.TotalCalls() != 0 {
		t.Fatal("anisotropy call issued without extension support")
	}
}

func TestSetWrapModesSkipsRedundant(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	desc := rgbaDescriptor(32, 32)
	desc.WrapU = gputypes.AddressModeClampToEdge
	desc.WrapV = gputypes.AddressModeClampToEdge
	tex, _ := e.CreateTexture(desc)
	ctx.Reset()

	e.SetWrapModes(tex, gputypes.AddressModeClampToEdge, gputypes.AddressModeClampToEdge)
	if ctx.TotalCalls() != 0 {
		t.Fatal("redundant wrap modes reached the driver")
	}

	// Only the changed axis is reissued.
	e.SetWrapModes(tex, gputypes.AddressModeClampToEdge, gputypes.AddressModeMirrorRepeat)
	if ctx.Count("TexParameteri") != 1 {
		t.Fatalf("TexParameteri issued %d times, want 1 (one axis changed)", ctx.Count("TexParameteri"))
	}
}

func TestBindTextureChannel(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	tex, _ := e.CreateTexture(rgbaDescriptor(32, 32))
	ctx.Reset()

	if err := e.BindTextureChannel(3, tex); err != nil {
		t.Fatalf("BindTextureChannel: %v", err)
	}
	if tex.Channel != 3 {
		t.Fatalf("Channel = %d, want 3", tex.Channel)
	}
	// Redundant bind is free.
	if err := e.BindTextureChannel(3, tex); err != nil {
		t.Fatal(err)
	}
	if ctx.Count("BindTexture") != 1 {
		t.Fatalf("BindTexture issued %d times, want 1", ctx.Count("BindTexture"))
	}

	// nil unbinds.
	if err := e.BindTextureChannel(3, nil); err != nil {
		t.Fatal(err)
	}
	if ctx.Count("BindTexture") != 2 {
		t.Fatal("nil bind did not unbind the channel")
	}
}

func TestUploadTextureAfterChannelSwitch(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	tex, _ := e.CreateTexture(rgbaDescriptor(4, 4))
	other, _ := e.CreateTexture(rgbaDescriptor(4, 4))

	// Leave tex on the scratch channel and make another channel active.
	e.BindTextureChannel(e.scratchChannel(), tex)
	e.BindTextureChannel(0, other)
	ctx.Reset()

	e.UploadTexture(tex, image.NewRGBA(image.Rect(0, 0, 4, 4)))

	// The upload's scratch bind is redundant, but the channel must still be
	// selected before TexImage2D or the upload lands on channel 0's texture.
	if got := ctx.Count("ActiveTexture"); got != 1 {
		t.Fatalf("ActiveTexture issued %d times, want 1\ncalls: %v", got, ctx.Calls)
	}
	if got := ctx.Count("TexImage2D"); got != 1 {
		t.Fatalf("TexImage2D issued %d times, want 1", got)
	}
}

func TestBindTextureChannelMultiview(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	desc := rgbaDescriptor(32, 32)
	desc.Multiview = true
	tex, _ := e.CreateTexture(desc)
	ctx.Reset()

	err := e.BindTextureChannel(0, tex)
	if !errors.Is(err, ErrMultiviewUnsupported) {
		t.Fatalf("err = %v, want ErrMultiviewUnsupported", err)
	}
	if ctx.TotalCalls() != 0 {
		t.Fatal("multiview texture reached the sampling bind path")
	}
}

func TestReleaseTextureUnbindsEverywhere(t *testing.T) {
	ctx := drivertest.New()
	e := newTestEngine(t, ctx)
	tex, _ := e.CreateTexture(rgbaDescriptor(32, 32))

	// Bind the texture on two channels, then release it.
	e.BindTextureChannel(0, tex)
	e.BindTextureChannel(5, tex)
	ctx.Reset()

	e.ReleaseTexture(tex)

	if ctx.Count("DeleteTexture") != 1 {
		t.Fatalf("DeleteTexture issued %d times, want 1", ctx.Count("DeleteTexture"))
	}
	// Both holding channels are force-unbound.
	if ctx.Count("BindTexture") != 2 {
		t.Fatalf("release unbound %d channels, want 2", ctx.Count("BindTexture"))
	}
	if tex.Channel != -1 {
		t.Fatalf("Channel = %d after release, want -1", tex.Channel)
	}

	// Double release is a no-op.
	ctx.Reset()
	e.ReleaseTexture(tex)
	if ctx.TotalCalls() != 0 {
		t.Fatal("double release reached the driver")
	}
}

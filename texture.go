// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package thinengine

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/thinengine/driver"
)

// TextureDescriptor describes a texture allocation. Sampling semantics use
// the WebGPU vocabulary from gputypes; the format resolver maps everything
// to the context's own enums.
type TextureDescriptor struct {
	// Width and Height are the level-0 dimensions in pixels.
	Width  int
	Height int

	// Layers is the array layer count; 1 for plain 2D textures.
	Layers int

	// Format, Type and SRGB form the semantic pixel format triple.
	Format Format
	Type   ComponentType
	SRGB   bool

	// MinFilter and MagFilter select the sampling mode.
	MinFilter gputypes.FilterMode
	MagFilter gputypes.FilterMode

	// WrapU and WrapV select the wrap modes.
	WrapU gputypes.AddressMode
	WrapV gputypes.AddressMode

	// GenerateMipmaps requests a mip chain.
	GenerateMipmaps bool

	// Multiview marks a texture that may only travel the multiview binding
	// path.
	Multiview bool
}

// InternalTexture owns one GPU texture allocation plus its semantic
// metadata. It is created by the engine's resource factory, mutated in place
// on resize, and destroyed via Engine.ReleaseTexture.
type InternalTexture struct {
	handle driver.Texture
	triple driver.TextureTriple

	// Width, Height and Layers mirror the current allocation.
	Width  int
	Height int
	Layers int

	// Format, Type and SRGB are the semantic pixel format.
	Format Format
	Type   ComponentType
	SRGB   bool

	// Channel is the texture channel this texture was last bound to, -1 when
	// never bound.
	Channel int

	// Multiview marks a texture restricted to the multiview binding path.
	Multiview bool

	generateMipmaps bool

	// Cached sampling state, used to skip redundant parameter calls.
	minFilter  int
	magFilter  int
	wrapU      int
	wrapV      int
	anisotropy int
}

// scratchChannel returns the channel used for creation and upload binds. The
// highest channel is sacrificed so material bindings on the low channels are
// not disturbed.
func (e *Engine) scratchChannel() int {
	return len(e.state.textures) - 1
}

// CreateTexture allocates a texture per the descriptor. The new texture is
// bound through the state cache for setup and unbound afterwards. A driver
// allocation failure is fatal at this call site; sampling-mode degradation
// for unfilterable float formats is not (logged warning, nearest filtering).
func (e *Engine) CreateTexture(desc TextureDescriptor) (*InternalTexture, error) {
	if e.lifecycle.state() != stateLive {
		return nil, ErrContextLost
	}

	triple, err := resolveTriple(desc.Format, desc.Type, desc.SRGB, &e.caps)
	if err != nil {
		return nil, err
	}

	handle, err := e.ctx.CreateTexture()
	if err != nil {
		return nil, fmt.Errorf("thinengine: create texture: %w", err)
	}

	if desc.Layers == 0 {
		desc.Layers = 1
	}
	t := &InternalTexture{
		handle:          handle,
		triple:          triple,
		Width:           desc.Width,
		Height:          desc.Height,
		Layers:          desc.Layers,
		Format:          desc.Format,
		Type:            desc.Type,
		SRGB:            desc.SRGB && e.caps.SRGBBuffers,
		Channel:         -1,
		Multiview:       desc.Multiview,
		generateMipmaps: desc.GenerateMipmaps,
		anisotropy:      1,
	}

	scratch := e.scratchChannel()
	e.state.bindTexture(scratch, handle)
	e.ctx.TexImage2D(0, triple, desc.Width, desc.Height, nil)

	min, mag := e.effectiveFilters(desc)
	e.ctx.TexParameteri(driver.TexParamMinFilter, min)
	e.ctx.TexParameteri(driver.TexParamMagFilter, mag)
	t.minFilter, t.magFilter = min, mag

	t.wrapU = wrapModeValue(desc.WrapU)
	t.wrapV = wrapModeValue(desc.WrapV)
	e.ctx.TexParameteri(driver.TexParamWrapS, t.wrapU)
	e.ctx.TexParameteri(driver.TexParamWrapT, t.wrapV)

	e.state.bindTexture(scratch, driver.Texture{})
	return t, nil
}

// effectiveFilters resolves the descriptor's sampling mode against the
// capability record. Float formats silently downgrade to nearest filtering
// when linear filtering is unsupported; that is a logged degradation, never
// an error.
func (e *Engine) effectiveFilters(desc TextureDescriptor) (min, mag int) {
	linearOK := true
	switch desc.Type {
	case TypeFloat:
		linearOK = e.caps.TextureFloatLinear
	case TypeHalfFloat:
		linearOK = e.caps.TextureHalfFloatLinear
	}

	wantLinear := desc.MinFilter == gputypes.FilterModeLinear ||
		desc.MagFilter == gputypes.FilterModeLinear
	if wantLinear && !linearOK {
		Logger().Warn("thinengine: linear filtering unsupported for float format, using nearest",
			"format", desc.Format, "type", desc.Type)
		if desc.GenerateMipmaps {
			return driver.FilterNearestMipNearest, driver.FilterNearest
		}
		return driver.FilterNearest, driver.FilterNearest
	}

	min = filterValue(desc.MinFilter, desc.GenerateMipmaps)
	mag = filterValue(desc.MagFilter, false)
	return min, mag
}

// filterValue maps a WebGPU filter mode to the driver filter enum.
func filterValue(f gputypes.FilterMode, mipmapped bool) int {
	if f == gputypes.FilterModeLinear {
		if mipmapped {
			return driver.FilterLinearMipLinear
		}
		return driver.FilterLinear
	}
	if mipmapped {
		return driver.FilterNearestMipNearest
	}
	return driver.FilterNearest
}

// wrapModeValue maps a WebGPU address mode to the driver wrap enum.
func wrapModeValue(m gputypes.AddressMode) int {
	switch m {
	case gputypes.AddressModeClampToEdge:
		return driver.WrapClampToEdge
	case gputypes.AddressModeMirrorRepeat:
		return driver.WrapMirror
	default:
		return driver.WrapRepeat
	}
}

// UploadTexture writes img into level 0 and, when the texture was created
// with GenerateMipmaps, builds the mip chain. The driver path is used when
// available; otherwise the chain is computed on the CPU by successive
// bilinear downscales and uploaded level by level.
func (e *Engine) UploadTexture(t *InternalTexture, img *image.RGBA) {
	if e.lifecycle.state() != stateLive {
		return
	}
	scratch := e.scratchChannel()
	e.state.bindTexture(scratch, t.handle)

	b := img.Bounds()
	e.ctx.TexImage2D(0, t.triple, b.Dx(), b.Dy(), img.Pix)
	t.Width, t.Height = b.Dx(), b.Dy()

	if t.generateMipmaps {
		if e.canDriverMipmap(t) {
			e.ctx.GenerateMipmap()
		} else {
			e.uploadCPUMipChain(t, img)
		}
	}
	e.state.bindTexture(scratch, driver.Texture{})
}

// canDriverMipmap reports whether the context can build the mip chain
// itself. Version 1 contexts require power-of-two dimensions.
func (e *Engine) canDriverMipmap(t *InternalTexture) bool {
	if e.caps.Version >= 2 {
		return true
	}
	pot := func(v int) bool { return v > 0 && v&(v-1) == 0 }
	return pot(t.Width) && pot(t.Height)
}

// uploadCPUMipChain builds and uploads mip levels 1..n by halving the image
// with a bilinear scaler until both dimensions reach 1.
func (e *Engine) uploadCPUMipChain(t *InternalTexture, img *image.RGBA) {
	level := 1
	src := img
	w, h := t.Width, t.Height
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		e.ctx.TexImage2D(level, t.triple, w, h, dst.Pix)
		src = dst
		level++
	}
}

// UpdateTextureRegion overwrites a region of one mip level.
func (e *Engine) UpdateTextureRegion(t *InternalTexture, level, x, y, width, height int, data []byte) {
	if e.lifecycle.state() != stateLive {
		return
	}
	scratch := e.scratchChannel()
	e.state.bindTexture(scratch, t.handle)
	e.ctx.TexSubImage2D(level, x, y, width, height, t.triple, data)
	e.state.bindTexture(scratch, driver.Texture{})
}

// ResizeTexture reallocates level 0 in place, keeping format and sampling
// state. Contents are undefined until the next upload.
func (e *Engine) ResizeTexture(t *InternalTexture, width, height int) {
	if e.lifecycle.state() != stateLive {
		return
	}
	scratch := e.scratchChannel()
	e.state.bindTexture(scratch, t.handle)
	e.ctx.TexImage2D(0, t.triple, width, height, nil)
	e.state.bindTexture(scratch, driver.Texture{})
	t.Width, t.Height = width, height
}

// SetAnisotropy sets the anisotropic filtering level, clamped to the
// capability record. Redundant levels are skipped via the per-texture cache.
func (e *Engine) SetAnisotropy(t *InternalTexture, level int) {
	if e.lifecycle.state() != stateLive {
		return
	}
	if !e.caps.AnisotropicFilter {
		return
	}
	if level > e.caps.MaxAnisotropy {
		level = e.caps.MaxAnisotropy
	}
	if level < 1 {
		level = 1
	}
	if level == t.anisotropy {
		return
	}
	scratch := e.scratchChannel()
	e.state.bindTexture(scratch, t.handle)
	e.ctx.TexParameteri(driver.TexParamAnisotropy, level)
	e.state.bindTexture(scratch, driver.Texture{})
	t.anisotropy = level
}

// SetWrapModes sets the wrap modes, skipping redundant parameter calls via
// the per-texture cache.
func (e *Engine) SetWrapModes(t *InternalTexture, u, v gputypes.AddressMode) {
	if e.lifecycle.state() != stateLive {
		return
	}
	wu, wv := wrapModeValue(u), wrapModeValue(v)
	if wu == t.wrapU && wv == t.wrapV {
		return
	}
	scratch := e.scratchChannel()
	e.state.bindTexture(scratch, t.handle)
	if wu != t.wrapU {
		e.ctx.TexParameteri(driver.TexParamWrapS, wu)
		t.wrapU = wu
	}
	if wv != t.wrapV {
		e.ctx.TexParameteri(driver.TexParamWrapT, wv)
		t.wrapV = wv
	}
	e.state.bindTexture(scratch, driver.Texture{})
}

// BindTextureChannel binds t on the given channel for sampling. Multiview
// textures must travel their own path; routing one through here is a logic
// error, not a degradation.
func (e *Engine) BindTextureChannel(channel int, t *InternalTexture) error {
	if e.lifecycle.state() != stateLive {
		return nil
	}
	if t != nil && t.Multiview {
		return ErrMultiviewUnsupported
	}
	if t == nil {
		e.state.bindTexture(channel, driver.Texture{})
		return nil
	}
	e.state.bindTexture(channel, t.handle)
	t.Channel = channel
	return nil
}

// ReleaseTexture frees the underlying allocation and force-unbinds every
// texture channel, so the freed texture can never remain referenced from a
// stale cache slot.
func (e *Engine) ReleaseTexture(t *InternalTexture) {
	if !t.handle.Valid() {
		return
	}
	if e.lifecycle.state() == stateLive {
		e.ctx.DeleteTexture(t.handle)
		e.state.unbindAllTextures()
	}
	e.state.forgetTexture(t.handle)
	t.handle = driver.Texture{}
	t.Channel = -1
}

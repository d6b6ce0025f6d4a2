// Package matrix maps 2D drawing onto single or tiled LED matrices whose
// pixels are wired as one addressable string.
//
// A Matrix is a draw.Image, so image/draw and golang.org/x/image/font can
// render straight onto it. Every write is clipped to the rotated canvas,
// resolved to a physical index and stored in a PixelBuffer.
//
// A Matrix is not safe for concurrent use.
package matrix

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// PixelBuffer owns the physical LED colors in wiring order.
type PixelBuffer interface {
	SetPixelColor(i int, c uint32)
	PixelColor(i int) uint32
	NumPixels() int
}

type Matrix struct {
	mapper   Mapper
	rotation Rotation
	buf      PixelBuffer

	passThru    uint32
	passThruSet bool
}

var _ draw.Image = (*Matrix)(nil)

// New returns a Matrix writing into buf, which must hold exactly
// g.Count() pixels.
func New(g Geometry, l Layout, buf PixelBuffer) (*Matrix, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrBufferSize)
	}
	if n := buf.NumPixels(); n != g.Count() {
		return nil, fmt.Errorf("%w: buffer has %d pixels, %s needs %d", ErrBufferSize, n, g, g.Count())
	}
	return &Matrix{
		mapper: Mapper{Geometry: g, Layout: l},
		buf:    buf,
	}, nil
}

func (m *Matrix) Geometry() Geometry  { return m.mapper.Geometry }
func (m *Matrix) Layout() Layout      { return m.mapper.Layout }
func (m *Matrix) Buffer() PixelBuffer { return m.buf }

// Width is the canvas width after rotation.
func (m *Matrix) Width() int {
	w, _ := m.rotation.Size(m.mapper.Geometry.Width(), m.mapper.Geometry.Height())
	return w
}

// Height is the canvas height after rotation.
func (m *Matrix) Height() int {
	_, h := m.rotation.Size(m.mapper.Geometry.Width(), m.mapper.Geometry.Height())
	return h
}

func (m *Matrix) Rotation() Rotation { return m.rotation }

// SetRotation sets the number of quarter turns; values wrap modulo 4.
func (m *Matrix) SetRotation(r Rotation) { m.rotation = r & 3 }

// SetRemap installs a custom coordinate mapping used for every later write.
func (m *Matrix) SetRemap(r Remapper) { m.mapper.Remap = r }

// ClearRemap restores the geometry based mapping.
func (m *Matrix) ClearRemap() { m.mapper.Remap = nil }

// Resolve returns the physical index for canvas (x, y).
func (m *Matrix) Resolve(x, y int) (int, bool) {
	return m.mapper.Resolve(x, y, m.rotation)
}

// SetPassThru makes every following write store c verbatim, skipping gamma
// expansion. It stays active until ClearPassThru.
func (m *Matrix) SetPassThru(c uint32) {
	m.passThru = c
	m.passThruSet = true
}

func (m *Matrix) ClearPassThru() { m.passThruSet = false }

// PassThru returns the raw color and whether pass-through is active.
func (m *Matrix) PassThru() (uint32, bool) { return m.passThru, m.passThruSet }

// WithPassThru runs fn with pass-through set to c and clears it afterwards,
// even if fn panics.
func (m *Matrix) WithPassThru(c uint32, fn func()) {
	m.SetPassThru(c)
	defer m.ClearPassThru()
	fn()
}

func (m *Matrix) resolveColor(c Color565) uint32 {
	if m.passThruSet {
		return m.passThru
	}
	return c.Expand()
}

// DrawPixel writes c at canvas (x, y). Points outside the canvas are
// dropped.
func (m *Matrix) DrawPixel(x, y int, c Color565) {
	idx, ok := m.Resolve(x, y)
	if !ok {
		return
	}
	m.buf.SetPixelColor(idx, m.resolveColor(c))
}

// FillScreen writes c to every physical pixel.
func (m *Matrix) FillScreen(c Color565) {
	v := m.resolveColor(c)
	for i, n := 0, m.buf.NumPixels(); i < n; i++ {
		m.buf.SetPixelColor(i, v)
	}
}

// Clear fills the display with black, ignoring pass-through.
func (m *Matrix) Clear() {
	for i, n := 0, m.buf.NumPixels(); i < n; i++ {
		m.buf.SetPixelColor(i, 0)
	}
}

func (m *Matrix) ColorModel() color.Model { return Model }

func (m *Matrix) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width(), m.Height())
}

// At returns the logical color drawn at (x, y), so it can be blended and
// written back through Set unchanged. Raw values that no Color565 expands to,
// such as pass-through colors, are returned as Packed.
func (m *Matrix) At(x, y int) color.Color {
	idx, ok := m.Resolve(x, y)
	if !ok || idx < 0 || idx >= m.buf.NumPixels() {
		return Color565(0)
	}
	p := m.buf.PixelColor(idx)
	if c, ok := Unexpand(p); ok {
		return c
	}
	return Packed(p)
}

// Set implements draw.Image. Packed colors are stored as they are.
func (m *Matrix) Set(x, y int, c color.Color) {
	if p, ok := c.(Packed); ok {
		idx, ok := m.Resolve(x, y)
		if !ok {
			return
		}
		if m.passThruSet {
			p = Packed(m.passThru)
		}
		m.buf.SetPixelColor(idx, uint32(p))
		return
	}
	m.DrawPixel(x, y, Model.Convert(c).(Color565))
}

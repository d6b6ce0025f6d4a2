// Package strip holds the colors of an addressable LED string in wiring
// order and hands them to periph.io display drivers.
package strip

import (
	"image"
	"image/color"
	"io"

	"periph.io/x/conn/v3/display"
)

// Strip is a packed 0x00RRGGBB pixel buffer.
type Strip struct {
	px    []uint32
	order Order

	// Brightness scales output in Image and Bytes; stored colors are
	// untouched. Values outside (0,1] mean full brightness.
	Brightness float64
}

// New allocates a strip of n black pixels whose wire encoding uses o.
func New(n int, o Order) *Strip {
	if n < 0 {
		n = 0
	}
	return &Strip{px: make([]uint32, n), order: o, Brightness: 1}
}

func (s *Strip) NumPixels() int { return len(s.px) }
func (s *Strip) Order() Order   { return s.order }

// SetPixelColor stores c at index i. Indices outside the strip are ignored.
func (s *Strip) SetPixelColor(i int, c uint32) {
	if i < 0 || i >= len(s.px) {
		return
	}
	s.px[i] = c
}

// PixelColor returns the stored color, or 0 for indices outside the strip.
func (s *Strip) PixelColor(i int) uint32 {
	if i < 0 || i >= len(s.px) {
		return 0
	}
	return s.px[i]
}

func (s *Strip) Fill(c uint32) {
	for i := range s.px {
		s.px[i] = c
	}
}

func (s *Strip) Clear() { s.Fill(0) }

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

func (s *Strip) scale() (float64, bool) {
	b := s.Brightness
	if b <= 0 || b >= 1 {
		return 1, false
	}
	return b, true
}

func (s *Strip) channel(c uint32, off uint8) uint8 {
	v := getcolor(c, off)
	if b, ok := s.scale(); ok {
		v = uint8(float64(v) * b)
	}
	return v
}

// Bytes encodes the strip, three bytes per pixel in wire order.
func (s *Strip) Bytes() []byte {
	offs := s.order.offsets()
	buf := make([]byte, 0, 3*len(s.px))
	for _, c := range s.px {
		buf = append(buf, s.channel(c, offs[0]), s.channel(c, offs[1]), s.channel(c, offs[2]))
	}
	return buf
}

// WriteTo writes Bytes to w.
func (s *Strip) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

// Image returns the strip as a 1 x N image in RGB order. periph.io drivers
// apply their own channel order.
func (s *Strip) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(s.px), 1))
	for x, c := range s.px {
		im.SetNRGBA(x, 0, color.NRGBA{
			R: s.channel(c, RED_OFFSET),
			G: s.channel(c, GREEN_OFFSET),
			B: s.channel(c, BLUE_OFFSET),
			A: 255,
		})
	}
	return im
}

// Wired is implemented by drawers that put image channels on the wire in a
// fixed order of their own.
type Wired interface {
	WireOrder() (Order, bool)
}

// WireImage returns the strip as a 1 x N image laid out for a driver that
// sends channels in native order, so the LEDs receive the strip's order.
func (s *Strip) WireImage(native Order) *image.NRGBA {
	if native == s.order {
		return s.Image()
	}
	want, have := s.order.offsets(), native.offsets()
	im := image.NewNRGBA(image.Rect(0, 0, len(s.px), 1))
	for x, c := range s.px {
		// Indexed by channel offset / 8: blue, green, red.
		var v [3]uint8
		for k := range want {
			v[have[k]/8] = s.channel(c, want[k])
		}
		im.SetNRGBA(x, 0, color.NRGBA{R: v[2], G: v[1], B: v[0], A: 255})
	}
	return im
}

// Show draws the strip on d, honouring the channel order when d reports
// its wire order.
func (s *Strip) Show(d display.Drawer) error {
	img := s.Image()
	if w, ok := d.(Wired); ok {
		if native, ok := w.WireOrder(); ok {
			img = s.WireImage(native)
		}
	}
	return d.Draw(d.Bounds(), img, image.Point{})
}

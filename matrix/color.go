package matrix

import (
	"image/color"
	"math"
)

// Gamma used to build the expansion tables.
const Gamma = 2.6

// Color565 is the logical drawing color: 5 bits red, 6 bits green, 5 bits blue.
type Color565 uint16

// RGB quantizes an 8-bit per channel color to 565.
func RGB(r, g, b uint8) Color565 {
	return Color565(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3))
}

func (c Color565) r5() uint8 { return uint8(c >> 11) }
func (c Color565) g6() uint8 { return uint8(c>>5) & 0x3F }
func (c Color565) b5() uint8 { return uint8(c) & 0x1F }

var (
	gamma5, ungamma5 = buildGamma(32)
	gamma6, ungamma6 = buildGamma(64)
)

// buildGamma returns an n-level table that is strictly increasing, so every
// non-zero level stays lit, and its inverse (-1 where no level maps).
func buildGamma(n int) ([]uint8, [256]int8) {
	lut := make([]uint8, n)
	var inv [256]int8
	for i := range inv {
		inv[i] = -1
	}
	top := float64(n - 1)
	for i := range lut {
		v := int(math.Pow(float64(i)/top, Gamma)*255 + 0.5)
		if i > 0 && v <= int(lut[i-1]) {
			v = int(lut[i-1]) + 1
		}
		lut[i] = uint8(v)
		inv[v] = int8(i)
	}
	return lut, inv
}

// Unexpand finds the color whose Expand is p. ok is false for values no
// Color565 produces, such as pass-through colors.
func Unexpand(p uint32) (c Color565, ok bool) {
	r, g, b := ungamma5[uint8(p>>16)], ungamma6[uint8(p>>8)], ungamma5[uint8(p)]
	if p>>24 != 0 || r < 0 || g < 0 || b < 0 {
		return 0, false
	}
	return Color565(uint16(r)<<11 | uint16(g)<<5 | uint16(b)), true
}

// Expand converts to the packed 0x00RRGGBB value sent to the LEDs, with
// gamma correction.
func (c Color565) Expand() uint32 {
	return uint32(gamma5[c.r5()])<<16 | uint32(gamma6[c.g6()])<<8 | uint32(gamma5[c.b5()])
}

// RGBA implements color.Color without gamma, replicating high bits into the
// low ones.
func (c Color565) RGBA() (r, g, b, a uint32) {
	r8 := uint32(c.r5())<<3 | uint32(c.r5())>>2
	g8 := uint32(c.g6())<<2 | uint32(c.g6())>>4
	b8 := uint32(c.b5())<<3 | uint32(c.b5())>>2
	return r8 | r8<<8, g8 | g8<<8, b8 | b8<<8, 0xFFFF
}

// Model converts any color to Color565. Alpha is premultiplied, so
// transparent colors become black.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if c, ok := c.(Color565); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB(to8(r), to8(g), to8(b))
})

// to8 rounds a 16-bit channel to 8 bits so blends that lose a fraction of a
// step land back on the same level.
func to8(v uint32) uint8 {
	v = (v + 0x80) >> 8
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

// Packed is a raw 0x00RRGGBB value as stored in the pixel buffer.
type Packed uint32

func (p Packed) RGBA() (r, g, b, a uint32) {
	r = uint32(p>>16) & 0xFF
	g = uint32(p>>8) & 0xFF
	b = uint32(p) & 0xFF
	return r | r<<8, g | g<<8, b | b<<8, 0xFFFF
}

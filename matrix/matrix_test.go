package matrix_test

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/dotmatrix/matrix"
	"github.com/coreman2200/dotmatrix/strip"
)

// recorder counts every write it receives.
type recorder struct {
	px     []uint32
	writes int
}

func newRecorder(n int) *recorder { return &recorder{px: make([]uint32, n)} }

func (r *recorder) SetPixelColor(i int, c uint32) {
	r.writes++
	if i >= 0 && i < len(r.px) {
		r.px[i] = c
	}
}
func (r *recorder) PixelColor(i int) uint32 { return r.px[i] }
func (r *recorder) NumPixels() int          { return len(r.px) }

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := matrix.New(matrix.Single(0, 4), matrix.Layout{}, newRecorder(0))
	assert.ErrorIs(t, err, matrix.ErrGeometry)

	_, err = matrix.New(matrix.Tiled(4, 4, 2, 1), matrix.Layout{}, newRecorder(16))
	assert.ErrorIs(t, err, matrix.ErrBufferSize)

	_, err = matrix.New(matrix.Single(4, 4), matrix.Layout{}, nil)
	assert.ErrorIs(t, err, matrix.ErrBufferSize)
}

func TestDrawPixelClips(t *testing.T) {
	buf := newRecorder(12)
	m, err := matrix.New(matrix.Single(4, 3), matrix.Layout{}, buf)
	require.NoError(t, err)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 3}} {
		m.DrawPixel(p[0], p[1], matrix.RGB(255, 255, 255))
	}
	assert.Equal(t, 0, buf.writes)

	m.SetRotation(matrix.Rotate90)
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 4, m.Height())
	m.DrawPixel(3, 0, matrix.RGB(255, 255, 255))
	assert.Equal(t, 0, buf.writes)
	m.DrawPixel(0, 3, matrix.RGB(255, 255, 255))
	assert.Equal(t, 1, buf.writes)
}

func TestPassThru(t *testing.T) {
	buf := newRecorder(4)
	m, err := matrix.New(matrix.Single(2, 2), matrix.Layout{}, buf)
	require.NoError(t, err)

	m.SetPassThru(0x123456)
	m.DrawPixel(0, 0, matrix.RGB(255, 0, 0))
	m.DrawPixel(1, 1, 0)
	assert.Equal(t, uint32(0x123456), buf.px[0])
	assert.Equal(t, uint32(0x123456), buf.px[3])

	m.ClearPassThru()
	m.DrawPixel(0, 0, matrix.RGB(255, 0, 0))
	assert.Equal(t, uint32(0xFF0000), buf.px[0])
	_, on := m.PassThru()
	assert.False(t, on)
}

func TestWithPassThruAlwaysClears(t *testing.T) {
	buf := newRecorder(4)
	m, err := matrix.New(matrix.Single(2, 2), matrix.Layout{}, buf)
	require.NoError(t, err)

	m.WithPassThru(0xABCDEF, func() {
		c, on := m.PassThru()
		assert.True(t, on)
		assert.Equal(t, uint32(0xABCDEF), c)
		m.FillScreen(0)
	})
	_, on := m.PassThru()
	assert.False(t, on)
	assert.Equal(t, []uint32{0xABCDEF, 0xABCDEF, 0xABCDEF, 0xABCDEF}, buf.px)

	assert.Panics(t, func() {
		m.WithPassThru(1, func() { panic("boom") })
	})
	_, on = m.PassThru()
	assert.False(t, on)
}

func TestFillScreenWritesEveryPixel(t *testing.T) {
	g := matrix.Tiled(3, 2, 2, 2)
	buf := newRecorder(g.Count())
	m, err := matrix.New(g, matrix.LayoutFromFlags(0xFF), buf)
	require.NoError(t, err)
	m.SetRemap(matrix.RemapFunc(func(x, y int) int { return 0 }))

	c := matrix.RGB(0, 255, 0)
	m.FillScreen(c)
	assert.Equal(t, 24, buf.writes)
	for i, v := range buf.px {
		assert.Equal(t, c.Expand(), v, "pixel %d", i)
	}
}

func TestRemapOverridesGeometry(t *testing.T) {
	s := strip.New(16, strip.RGB)
	m, err := matrix.New(matrix.Single(4, 4), matrix.Layout{}, s)
	require.NoError(t, err)

	m.SetRemap(matrix.RemapFunc(func(x, y int) int { return 15 - (y*4 + x) }))
	m.DrawPixel(0, 0, matrix.RGB(255, 255, 255))
	assert.Equal(t, uint32(0xFFFFFF), s.PixelColor(15))
	assert.Equal(t, uint32(0), s.PixelColor(0))

	// Indices past the strip are dropped by the buffer, not the matrix.
	m.SetRemap(matrix.RemapFunc(func(x, y int) int { return 99 }))
	m.DrawPixel(1, 1, matrix.RGB(255, 255, 255))

	m.ClearRemap()
	m.DrawPixel(1, 0, matrix.RGB(255, 255, 255))
	assert.Equal(t, uint32(0xFFFFFF), s.PixelColor(1))
}

func TestMatrixIsDrawImage(t *testing.T) {
	s := strip.New(8, strip.GRB)
	m, err := matrix.New(matrix.Single(4, 2), matrix.Layout{Pixel: matrix.Arrangement{Order: matrix.Zigzag}}, s)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), m.Bounds())

	draw.Draw(m, image.Rect(0, 1, 1, 2), image.NewUniform(color.White), image.Point{}, draw.Src)
	assert.Equal(t, uint32(0xFFFFFF), s.PixelColor(7))
	assert.Equal(t, matrix.Color565(0xFFFF), m.At(0, 1))
	assert.Equal(t, matrix.Color565(0), m.At(9, 9))

	m.Clear()
	assert.Equal(t, uint32(0), s.PixelColor(7))
}

func TestColor565(t *testing.T) {
	assert.Equal(t, matrix.Color565(0xF800), matrix.RGB(0xFF, 0, 0))
	assert.Equal(t, matrix.Color565(0x07E0), matrix.RGB(0, 0xFF, 0))
	assert.Equal(t, matrix.Color565(0x001F), matrix.RGB(0, 0, 0xFF))
	assert.Equal(t, uint32(0), matrix.Color565(0).Expand())
	assert.Equal(t, uint32(0xFFFFFF), matrix.Color565(0xFFFF).Expand())

	prev := uint32(0)
	for r := 0; r < 32; r++ {
		v := matrix.Color565(r << 11).Expand() >> 16
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}

	r, g, b, a := matrix.RGB(255, 255, 255).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}, []uint32{r, g, b, a})
	assert.Equal(t, matrix.RGB(0x80, 0x40, 0x20), matrix.Model.Convert(color.NRGBA{0x80, 0x40, 0x20, 0xFF}))
}

func TestSetAtLeavesPixelUnchanged(t *testing.T) {
	s := strip.New(1, strip.RGB)
	m, err := matrix.New(matrix.Single(1, 1), matrix.Layout{}, s)
	require.NoError(t, err)

	for c := 0; c <= 0xFFFF; c++ {
		m.DrawPixel(0, 0, matrix.Color565(c))
		want := s.PixelColor(0)
		m.Set(0, 0, m.At(0, 0))
		require.Equal(t, want, s.PixelColor(0), "color %#04x", c)
	}

	// Raw values come back as Packed and are written back raw.
	m.WithPassThru(0xFEFEFE, func() { m.DrawPixel(0, 0, 0) })
	assert.Equal(t, matrix.Packed(0xFEFEFE), m.At(0, 0))
	m.Set(0, 0, m.At(0, 0))
	assert.Equal(t, uint32(0xFEFEFE), s.PixelColor(0))
}

func TestNearlyTransparentOverIsNoOp(t *testing.T) {
	s := strip.New(1, strip.RGB)
	m, err := matrix.New(matrix.Single(1, 1), matrix.Layout{}, s)
	require.NoError(t, err)
	src := image.NewUniform(color.NRGBA{0, 0, 0, 1})

	for c := 0; c <= 0xFFFF; c++ {
		m.DrawPixel(0, 0, matrix.Color565(c))
		want := s.PixelColor(0)
		draw.Draw(m, m.Bounds(), src, image.Point{}, draw.Over)
		require.Equal(t, want, s.PixelColor(0), "color %#04x", c)
	}
}

func TestExpandIsStrictlyIncreasing(t *testing.T) {
	channels := []struct {
		name   string
		levels int
		shift  uint
		out    uint
	}{
		{"red", 32, 11, 16},
		{"green", 64, 5, 8},
		{"blue", 32, 0, 0},
	}
	for _, ch := range channels {
		prev := uint32(0)
		for l := 1; l < ch.levels; l++ {
			v := matrix.Color565(l<<ch.shift).Expand() >> ch.out & 0xFF
			assert.Greater(t, v, prev, "%s level %d", ch.name, l)
			prev = v
		}
		assert.Equal(t, uint32(0xFF), prev, ch.name)
	}
	assert.NotZero(t, matrix.RGB(8, 4, 8).Expand()&0xFF00FF)

	for c := 0; c <= 0xFFFF; c++ {
		got, ok := matrix.Unexpand(matrix.Color565(c).Expand())
		require.True(t, ok)
		require.Equal(t, matrix.Color565(c), got)
	}
}

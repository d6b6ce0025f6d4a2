// Package calib draws wiring calibration patterns so a physical panel can be
// checked against its configured layout.
package calib

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/dotmatrix/matrix"
)

type Kind string

const (
	None        Kind = ""
	IndexSweep  Kind = "index_sweep"
	RGBChannels Kind = "rgb_channels"
	Corners     Kind = "corners"
	TileIDs     Kind = "tile_ids"
)

var kinds = []Kind{IndexSweep, RGBChannels, Corners, TileIDs}

func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown calibration %q", s)
}

// Corner marker colors: top-left, top-right, bottom-left, bottom-right.
var (
	MarkTL = matrix.RGB(255, 0, 0)
	MarkTR = matrix.RGB(0, 255, 0)
	MarkBL = matrix.RGB(0, 0, 255)
	MarkBR = matrix.RGB(255, 255, 255)
)

type Runner struct {
	kind Kind
	step int
}

func NewRunner(k Kind) *Runner { return &Runner{kind: k} }
func (r *Runner) Kind() Kind   { return r.kind }

// Steps is the number of frames the pattern takes on m.
func (r *Runner) Steps(m *matrix.Matrix) int {
	switch r.kind {
	case IndexSweep:
		return m.Buffer().NumPixels()
	case RGBChannels:
		return 3
	case Corners:
		return 1
	case TileIDs:
		g := m.Geometry()
		return (g.Width() / g.TileWidth) * (g.Height() / g.TileHeight)
	}
	return 0
}

// Step draws the next frame onto m; returns false when complete, leaving
// the last frame in place. Patterns are drawn unrotated so they match the
// wiring.
func (r *Runner) Step(m *matrix.Matrix) bool {
	if r.step >= r.Steps(m) {
		return false
	}
	rot := m.Rotation()
	m.SetRotation(matrix.Rotate0)
	defer m.SetRotation(rot)

	m.Clear()
	switch r.kind {
	case IndexSweep:
		// Physical order, bypassing the mapper.
		m.Buffer().SetPixelColor(r.step, 0xFFFFFF)
	case RGBChannels:
		m.FillScreen([]matrix.Color565{MarkTL, MarkTR, MarkBL}[r.step])
	case Corners:
		w, h := m.Width(), m.Height()
		m.DrawPixel(0, 0, MarkTL)
		m.DrawPixel(w-1, 0, MarkTR)
		m.DrawPixel(0, h-1, MarkBL)
		m.DrawPixel(w-1, h-1, MarkBR)
	case TileIDs:
		g := m.Geometry()
		drawTile(m, r.step, g.Width()/g.TileWidth)
	}
	r.step++
	return true
}

// drawTile fills tile t and marks its id. Tiles too small for the label
// font get a white pixel on their top-left corner instead.
func drawTile(m *matrix.Matrix, t, tilesX int) {
	g := m.Geometry()
	x0, y0 := (t%tilesX)*g.TileWidth, (t/tilesX)*g.TileHeight
	fill := hue(t)
	for y := y0; y < y0+g.TileHeight; y++ {
		for x := x0; x < x0+g.TileWidth; x++ {
			m.DrawPixel(x, y, fill)
		}
	}

	face := basicfont.Face7x13
	label := strconv.Itoa(t)
	d := &font.Drawer{Dst: m, Src: image.NewUniform(color.White), Face: face}
	if d.MeasureString(label).Ceil() > g.TileWidth || face.Height > g.TileHeight {
		m.DrawPixel(x0, y0, MarkBR)
		return
	}
	d.Dot = fixed.P(x0, y0+face.Ascent)
	d.DrawString(label)
}

// hue spreads tile colors around the RGB wheel at half intensity.
func hue(t int) matrix.Color565 {
	switch t % 6 {
	case 0:
		return matrix.RGB(128, 0, 0)
	case 1:
		return matrix.RGB(128, 128, 0)
	case 2:
		return matrix.RGB(0, 128, 0)
	case 3:
		return matrix.RGB(0, 128, 128)
	case 4:
		return matrix.RGB(0, 0, 128)
	default:
		return matrix.RGB(128, 0, 128)
	}
}

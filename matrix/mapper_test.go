package matrix_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/coreman2200/dotmatrix/matrix"
)

var TestGeometries = []Geometry{
	Single(5, 3),
	Single(1, 1),
	Tiled(3, 2, 2, 3),
	Tiled(4, 4, 3, 1),
	Tiled(2, 5, 1, 2),
}

func TestResolveIsBijection(t *testing.T) {
	for _, g := range TestGeometries {
		for f := 0; f < 256; f++ {
			l := LayoutFromFlags(uint8(f))
			for r := Rotate0; r <= Rotate270; r++ {
				m := Mapper{Geometry: g, Layout: l}
				w, h := r.Size(g.Width(), g.Height())
				seen := make([]bool, g.Count())
				for y := 0; y < h; y++ {
					for x := 0; x < w; x++ {
						idx, ok := m.Resolve(x, y, r)
						require.True(t, ok, "%s %s %s (%d,%d)", g, l, r, x, y)
						require.True(t, idx >= 0 && idx < g.Count(), "%s %s %s (%d,%d) -> %d", g, l, r, x, y, idx)
						require.False(t, seen[idx], "%s %s %s (%d,%d) -> %d twice", g, l, r, x, y, idx)
						seen[idx] = true
					}
				}
			}
		}
	}
}

func TestResolveClipsOutOfBounds(t *testing.T) {
	m := Mapper{Geometry: Single(4, 2)}
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 2}, {100, 100}} {
		_, ok := m.Resolve(p[0], p[1], Rotate0)
		assert.False(t, ok, "(%d,%d)", p[0], p[1])
	}

	// Rotated canvas is 2 wide and 4 tall.
	_, ok := m.Resolve(3, 0, Rotate90)
	assert.False(t, ok)
	_, ok = m.Resolve(1, 3, Rotate90)
	assert.True(t, ok)
}

func TestZigzagRows(t *testing.T) {
	const W, H = 5, 4
	m := Mapper{
		Geometry: Single(W, H),
		Layout:   Layout{Pixel: Arrangement{Corner: TopLeft, Axis: Rows, Order: Zigzag}},
	}
	for _, c := range []struct{ x, y, want int }{
		{0, 0, 0},
		{W - 1, 0, W - 1},
		{W - 1, 1, W},
		{0, 1, 2*W - 1},
		{0, 2, 2 * W},
	} {
		idx, ok := m.Resolve(c.x, c.y, Rotate0)
		require.True(t, ok)
		assert.Equal(t, c.want, idx, "(%d,%d)", c.x, c.y)
	}
}

func TestTiledProgressive(t *testing.T) {
	m := Mapper{Geometry: Tiled(8, 8, 2, 1)}

	idx, _ := m.Resolve(0, 0, Rotate0)
	assert.Equal(t, 0, idx)
	idx, _ = m.Resolve(8, 0, Rotate0)
	assert.Equal(t, 64, idx)
	idx, _ = m.Resolve(15, 7, Rotate0)
	assert.Equal(t, 127, idx)
}

func TestColumnsFromBottomRight(t *testing.T) {
	m := Mapper{
		Geometry: Single(3, 2),
		Layout:   Layout{Pixel: Arrangement{Corner: BottomRight, Axis: Columns}},
	}
	assert.Equal(t, 0, m.Index(2, 1))
	assert.Equal(t, 1, m.Index(2, 0))
	assert.Equal(t, 2, m.Index(1, 1))
	assert.Equal(t, 5, m.Index(0, 0))
}

func TestTileZigzagFlipsEntryCorner(t *testing.T) {
	m := Mapper{
		Geometry: Tiled(2, 2, 2, 2),
		Layout: Layout{
			Pixel: Arrangement{Corner: TopLeft, Axis: Rows, Order: Progressive},
			Tile:  Arrangement{Corner: TopLeft, Axis: Rows, Order: Zigzag},
		},
	}
	// Even tile row keeps the top-left entry.
	assert.Equal(t, 4, m.Index(2, 0))
	assert.Equal(t, 7, m.Index(3, 1))
	// Odd tile row runs right to left and enters tiles bottom-right.
	assert.Equal(t, 8, m.Index(3, 3))
	assert.Equal(t, 11, m.Index(2, 2))
	assert.Equal(t, 12, m.Index(1, 3))
	assert.Equal(t, 15, m.Index(0, 2))
}

func TestTileColumns(t *testing.T) {
	m := Mapper{
		Geometry: Tiled(2, 1, 2, 2),
		Layout:   Layout{Tile: Arrangement{Axis: Columns}},
	}
	assert.Equal(t, 0, m.Index(0, 0))
	assert.Equal(t, 2, m.Index(0, 1))
	assert.Equal(t, 4, m.Index(2, 0))
	assert.Equal(t, 6, m.Index(2, 1))
}

func TestRotationQuarterTurns(t *testing.T) {
	m := Mapper{Geometry: Single(4, 2)}
	cases := []struct {
		r          Rotation
		x, y, want int
	}{
		{Rotate90, 0, 0, 3},
		{Rotate90, 1, 0, 7},
		{Rotate90, 0, 3, 0},
		{Rotate180, 0, 0, 7},
		{Rotate270, 0, 0, 4},
		{Rotate270, 1, 3, 3},
	}
	for _, c := range cases {
		idx, ok := m.Resolve(c.x, c.y, c.r)
		require.True(t, ok)
		assert.Equal(t, c.want, idx, "%s (%d,%d)", c.r, c.x, c.y)
	}
}

func TestRotate180Twice(t *testing.T) {
	g := Tiled(3, 2, 2, 2)
	m := Mapper{Geometry: g, Layout: LayoutFromFlags(0x5A)}
	w, h := g.Width(), g.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rx, ry := Rotate180.Apply(x, y, w, h)
			twice, ok := m.Resolve(rx, ry, Rotate180)
			require.True(t, ok)
			once, _ := m.Resolve(x, y, Rotate0)
			assert.Equal(t, once, twice)
		}
	}
}

func TestRemapWins(t *testing.T) {
	calls := 0
	m := Mapper{
		Geometry: Single(4, 4),
		Layout:   LayoutFromFlags(0xFF),
		Remap: RemapFunc(func(x, y int) int {
			calls++
			return 1000 + 10*x + y
		}),
	}
	idx, ok := m.Resolve(2, 3, Rotate0)
	require.True(t, ok)
	assert.Equal(t, 1023, idx)

	// Remap sees unrotated coordinates.
	idx, _ = m.Resolve(0, 0, Rotate180)
	assert.Equal(t, 1033, idx)

	_, ok = m.Resolve(4, 0, Rotate0)
	assert.False(t, ok)
	assert.Equal(t, 2, calls)
}

func TestLayoutFlagsRoundTrip(t *testing.T) {
	for f := 0; f < 256; f++ {
		assert.Equal(t, uint8(f), LayoutFromFlags(uint8(f)).Flags())
	}
	l := LayoutFromFlags(0x01 | 0x02 | 0x08 | 0x40)
	assert.Equal(t, BottomRight, l.Pixel.Corner)
	assert.Equal(t, Rows, l.Pixel.Axis)
	assert.Equal(t, Zigzag, l.Pixel.Order)
	assert.Equal(t, TopLeft, l.Tile.Corner)
	assert.Equal(t, Columns, l.Tile.Axis)
	assert.Equal(t, Progressive, l.Tile.Order)
}

func TestArrangementText(t *testing.T) {
	var a Arrangement
	require.NoError(t, a.Corner.UnmarshalText([]byte("Bottom-Left")))
	require.NoError(t, a.Axis.UnmarshalText([]byte("columns")))
	require.NoError(t, a.Order.UnmarshalText([]byte(" zigzag ")))
	assert.Equal(t, "bottom-left,columns,zigzag", a.String())

	assert.Error(t, a.Corner.UnmarshalText([]byte("middle")))
	assert.Equal(t, "Corner(9)", fmt.Sprint(Corner(9)))
}

func TestGeometryValidate(t *testing.T) {
	assert.NoError(t, Single(8, 8).Validate())
	assert.NoError(t, Tiled(8, 8, 1, 1).Validate())
	for _, g := range []Geometry{Single(0, 8), Single(8, -1), Tiled(8, 8, 2, 0), Tiled(8, 8, -1, -1)} {
		assert.ErrorIs(t, g.Validate(), ErrGeometry, "%+v", g)
	}
	assert.Equal(t, 256, Tiled(8, 8, 4, 1).Count())
	assert.Equal(t, 32, Tiled(8, 8, 4, 1).Width())
}

package matrix

// Remapper replaces the geometry based mapping for displays that are not
// uniformly tiled. The returned index is used verbatim.
type Remapper interface {
	Remap(x, y int) int
}

// RemapFunc adapts an ordinary function to a Remapper.
type RemapFunc func(x, y int) int

func (f RemapFunc) Remap(x, y int) int { return f(x, y) }

// Mapper resolves canvas coordinates to physical LED indices.
type Mapper struct {
	Geometry Geometry
	Layout   Layout
	// Remap, when non-nil, wins over Geometry and Layout.
	Remap Remapper
}

// Resolve maps (x, y) on the canvas rotated by r to a physical index. ok is
// false when the point lies outside the rotated canvas.
func (m *Mapper) Resolve(x, y int, r Rotation) (idx int, ok bool) {
	w, h := m.Geometry.Width(), m.Geometry.Height()
	rw, rh := r.Size(w, h)
	if x < 0 || y < 0 || x >= rw || y >= rh {
		return 0, false
	}
	x, y = r.Apply(x, y, w, h)

	if m.Remap != nil {
		return m.Remap.Remap(x, y), true
	}
	return m.Index(x, y), true
}

// Index maps unrotated, in-bounds coordinates through the tile and pixel
// arrangements. It ignores Remap.
func (m *Mapper) Index(x, y int) int {
	g := m.Geometry
	corner := m.Layout.Pixel.Corner
	tileOffset := 0

	if g.Tiled() {
		tile := m.Layout.Tile
		minor, major := x/g.TileWidth, y/g.TileHeight
		x -= minor * g.TileWidth
		y -= major * g.TileHeight

		if tile.Corner.right() {
			minor = g.TilesX - 1 - minor
		}
		if tile.Corner.bottom() {
			major = g.TilesY - 1 - major
		}

		scale := g.TilesX
		if tile.Axis == Columns {
			major, minor = minor, major
			scale = g.tilesY()
		}

		var n int
		if tile.Order == Zigzag && major&1 != 0 {
			// Reversed tile lines also enter each tile from the opposite corner.
			corner = corner.opposite()
			n = (major+1)*scale - 1 - minor
		} else {
			n = major*scale + minor
		}
		tileOffset = n * g.TileWidth * g.TileHeight
	}

	return tileOffset + m.Layout.Pixel.offset(corner, x, y, g.TileWidth, g.TileHeight)
}

// offset is the index of (x, y) within one w x h tile entered at corner.
func (a Arrangement) offset(corner Corner, x, y, w, h int) int {
	minor, major := x, y
	if corner.right() {
		minor = w - 1 - minor
	}
	if corner.bottom() {
		major = h - 1 - major
	}

	scale := w
	if a.Axis == Columns {
		major, minor = minor, major
		scale = h
	}

	if a.Order == Zigzag && major&1 != 0 {
		return (major+1)*scale - 1 - minor
	}
	return major*scale + minor
}

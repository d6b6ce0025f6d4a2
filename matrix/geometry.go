package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrGeometry is returned for geometries that cannot map every pixel.
	ErrGeometry = errors.New("invalid matrix geometry")
	// ErrBufferSize is returned when the pixel buffer does not match the geometry.
	ErrBufferSize = errors.New("pixel buffer size mismatch")
)

// Geometry is the physical size of the display. A zero tile count means the
// display is a single matrix of TileWidth x TileHeight.
type Geometry struct {
	TileWidth  int `yaml:"tile_width"`
	TileHeight int `yaml:"tile_height"`
	TilesX     int `yaml:"tiles_x"`
	TilesY     int `yaml:"tiles_y"`
}

// Single returns the geometry of one untiled w x h matrix.
func Single(w, h int) Geometry {
	return Geometry{TileWidth: w, TileHeight: h}
}

// Tiled returns the geometry of tx x ty tiles of tw x th pixels each.
func Tiled(tw, th, tx, ty int) Geometry {
	return Geometry{TileWidth: tw, TileHeight: th, TilesX: tx, TilesY: ty}
}

func (g Geometry) Tiled() bool { return g.TilesX > 0 }

func (g Geometry) tilesX() int {
	if g.TilesX > 0 {
		return g.TilesX
	}
	return 1
}

func (g Geometry) tilesY() int {
	if g.TilesY > 0 {
		return g.TilesY
	}
	return 1
}

// Width is the unrotated canvas width in pixels.
func (g Geometry) Width() int { return g.TileWidth * g.tilesX() }

// Height is the unrotated canvas height in pixels.
func (g Geometry) Height() int { return g.TileHeight * g.tilesY() }

// Count is the number of physical LEDs.
func (g Geometry) Count() int { return g.Width() * g.Height() }

// Validate reports geometries that would divide by zero or leave the tile
// grid half specified.
func (g Geometry) Validate() error {
	if g.TileWidth <= 0 || g.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrGeometry, g.TileWidth, g.TileHeight)
	}
	if g.TilesX < 0 || g.TilesY < 0 {
		return fmt.Errorf("%w: negative tile count %dx%d", ErrGeometry, g.TilesX, g.TilesY)
	}
	if (g.TilesX == 0) != (g.TilesY == 0) {
		return fmt.Errorf("%w: tile grid %dx%d must set both counts or neither", ErrGeometry, g.TilesX, g.TilesY)
	}
	return nil
}

func (g Geometry) String() string {
	if g.Tiled() {
		return fmt.Sprintf("%dx%d tiles of %dx%d", g.TilesX, g.TilesY, g.TileWidth, g.TileHeight)
	}
	return fmt.Sprintf("%dx%d", g.TileWidth, g.TileHeight)
}

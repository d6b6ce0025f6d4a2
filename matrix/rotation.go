package matrix

import "fmt"

// Rotation is the number of quarter turns applied to the canvas.
type Rotation uint8

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

type rotateFunc func(x, y, w, h int) (int, int)

// Each entry maps a point of the rotated canvas back onto the unrotated
// w x h matrix.
var rotations = [4]rotateFunc{
	Rotate0:   func(x, y, _, _ int) (int, int) { return x, y },
	Rotate90:  func(x, y, w, _ int) (int, int) { return w - 1 - y, x },
	Rotate180: func(x, y, w, h int) (int, int) { return w - 1 - x, h - 1 - y },
	Rotate270: func(x, y, _, h int) (int, int) { return y, h - 1 - x },
}

// Apply converts (x, y) on the rotated canvas to coordinates on the
// unrotated w x h matrix.
func (r Rotation) Apply(x, y, w, h int) (int, int) {
	return rotations[r&3](x, y, w, h)
}

// Size returns the canvas size seen through the rotation.
func (r Rotation) Size(w, h int) (int, int) {
	if r&1 != 0 {
		return h, w
	}
	return w, h
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r&3)*90)
}

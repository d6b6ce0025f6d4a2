package matrix

import (
	"fmt"
	"strings"
)

// Corner is where index 0 sits: the first pixel of a matrix, or the first
// tile of a tiled display.
type Corner uint8

const (
	TopLeft Corner = iota
	BottomLeft
	TopRight
	BottomRight
)

func (c Corner) bottom() bool { return c&0x01 != 0 }
func (c Corner) right() bool  { return c&0x02 != 0 }

// opposite mirrors the corner on both axes.
func (c Corner) opposite() Corner { return c ^ 0x03 }

// Axis is the direction the wiring advances fastest.
type Axis uint8

const (
	Rows Axis = iota
	Columns
)

// Order says whether successive lines keep or reverse direction.
type Order uint8

const (
	Progressive Order = iota
	Zigzag
)

var (
	cornerNames = [...]string{TopLeft: "top-left", BottomLeft: "bottom-left", TopRight: "top-right", BottomRight: "bottom-right"}
	axisNames   = [...]string{Rows: "rows", Columns: "columns"}
	orderNames  = [...]string{Progressive: "progressive", Zigzag: "zigzag"}
)

func (c Corner) String() string {
	if int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return fmt.Sprintf("Corner(%d)", uint8(c))
}

func (a Axis) String() string {
	if int(a) < len(axisNames) {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

func (o Order) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}

func lookup(names []string, kind, s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (want one of %s)", kind, s, strings.Join(names, ", "))
}

func (c Corner) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (a Axis) MarshalText() ([]byte, error)   { return []byte(a.String()), nil }
func (o Order) MarshalText() ([]byte, error)  { return []byte(o.String()), nil }

func (c *Corner) UnmarshalText(b []byte) error {
	i, err := lookup(cornerNames[:], "corner", string(b))
	if err != nil {
		return err
	}
	*c = Corner(i)
	return nil
}

func (a *Axis) UnmarshalText(b []byte) error {
	i, err := lookup(axisNames[:], "axis", string(b))
	if err != nil {
		return err
	}
	*a = Axis(i)
	return nil
}

func (o *Order) UnmarshalText(b []byte) error {
	i, err := lookup(orderNames[:], "order", string(b))
	if err != nil {
		return err
	}
	*o = Order(i)
	return nil
}

// Arrangement describes one level of wiring: where it starts, which axis it
// runs along, and whether lines zigzag.
type Arrangement struct {
	Corner Corner `yaml:"corner"`
	Axis   Axis   `yaml:"axis"`
	Order  Order  `yaml:"order"`
}

func (a Arrangement) String() string {
	return a.Corner.String() + "," + a.Axis.String() + "," + a.Order.String()
}

// Layout is the full wiring descriptor. Tile is ignored for untiled
// geometries.
type Layout struct {
	Pixel Arrangement `yaml:"pixel"`
	Tile  Arrangement `yaml:"tile"`
}

func (l Layout) String() string {
	return "pixel=" + l.Pixel.String() + " tile=" + l.Tile.String()
}

// Legacy single-byte layout flags. Pixel fields use the low nibble, tile
// fields the high nibble.
const (
	flagBottom = 0x01
	flagRight  = 0x02
	flagCorner = 0x03
	flagAxis   = 0x04
	flagOrder  = 0x08
	tileShift  = 4
)

func (a Arrangement) flags() uint8 {
	f := uint8(a.Corner) & flagCorner
	if a.Axis == Columns {
		f |= flagAxis
	}
	if a.Order == Zigzag {
		f |= flagOrder
	}
	return f
}

func arrangementFromFlags(f uint8) Arrangement {
	a := Arrangement{Corner: Corner(f & flagCorner)}
	if f&flagAxis != 0 {
		a.Axis = Columns
	}
	if f&flagOrder != 0 {
		a.Order = Zigzag
	}
	return a
}

// Flags packs the layout into the legacy matrix type byte.
func (l Layout) Flags() uint8 {
	return l.Pixel.flags() | l.Tile.flags()<<tileShift
}

// LayoutFromFlags decodes a legacy matrix type byte.
func LayoutFromFlags(f uint8) Layout {
	return Layout{
		Pixel: arrangementFromFlags(f & 0x0F),
		Tile:  arrangementFromFlags(f >> tileShift),
	}
}

package strip

import (
	"fmt"
	"strings"
)

// Order is the sequence in which an LED expects its color bytes on the wire.
type Order uint8

const (
	RGB Order = iota
	RBG
	GRB
	GBR
	BRG
	BGR
)

const (
	RED_OFFSET   uint8 = 0x10
	GREEN_OFFSET uint8 = 0x08
	BLUE_OFFSET  uint8 = 0x00
)

var orders = [...]struct {
	name string
	offs [3]uint8
}{
	RGB: {"RGB", [3]uint8{RED_OFFSET, GREEN_OFFSET, BLUE_OFFSET}},
	RBG: {"RBG", [3]uint8{RED_OFFSET, BLUE_OFFSET, GREEN_OFFSET}},
	GRB: {"GRB", [3]uint8{GREEN_OFFSET, RED_OFFSET, BLUE_OFFSET}},
	GBR: {"GBR", [3]uint8{GREEN_OFFSET, BLUE_OFFSET, RED_OFFSET}},
	BRG: {"BRG", [3]uint8{BLUE_OFFSET, RED_OFFSET, GREEN_OFFSET}},
	BGR: {"BGR", [3]uint8{BLUE_OFFSET, GREEN_OFFSET, RED_OFFSET}},
}

// ParseOrder accepts names like "GRB", case insensitive.
func ParseOrder(s string) (Order, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, o := range orders {
		if o.name == s {
			return Order(i), nil
		}
	}
	return RGB, fmt.Errorf("unknown color order %q", s)
}

func (o Order) String() string {
	if int(o) < len(orders) {
		return orders[o].name
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}

// offsets returns the bit offsets of the wire bytes, first byte first.
func (o Order) offsets() [3]uint8 {
	if int(o) < len(orders) {
		return orders[o].offs
	}
	return orders[RGB].offs
}

func (o Order) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Order) UnmarshalText(b []byte) error {
	v, err := ParseOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

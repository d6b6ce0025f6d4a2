package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-errors/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/dotmatrix/matrix"
	"github.com/coreman2200/dotmatrix/strip"
)

type Preview struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"` // e.g. :8080
}

type Config struct {
	Driver     string      `yaml:"driver"`   // "apa102" | "nrz" | "console"
	SPIPort    string      `yaml:"spi_port"` // periph spireg name, "" = first port
	SPIHz      int         `yaml:"spi_hz"`
	ColorOrder strip.Order `yaml:"color_order"` // wire order the LEDs expect
	Brightness float64     `yaml:"brightness"`
	FPS        int         `yaml:"fps"`
	Rotation   int         `yaml:"rotation"` // quarter turns

	Geometry matrix.Geometry `yaml:"geometry"`
	Layout   matrix.Layout   `yaml:"layout"`
	// LayoutFlags, when set, replaces Layout with the legacy packed byte.
	LayoutFlags *uint8 `yaml:"layout_flags,omitempty"`

	Preview Preview `yaml:"preview"`
}

// Default is an 8x32 panel built from 8x8 DotStar tiles.
func Default() *Config {
	return &Config{
		Driver:     "apa102",
		SPIHz:      4000000,
		ColorOrder: strip.BGR,
		Brightness: 0.5,
		FPS:        30,
		Geometry:   matrix.Tiled(8, 8, 4, 1),
		Layout: matrix.Layout{
			Pixel: matrix.Arrangement{Corner: matrix.TopLeft, Axis: matrix.Rows, Order: matrix.Zigzag},
			Tile:  matrix.Arrangement{Corner: matrix.TopLeft, Axis: matrix.Rows, Order: matrix.Progressive},
		},
		Preview: Preview{Addr: ":8080"},
	}
}

// Load reads path over the defaults. Fields missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	c := Default()
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile overrides c with the fields set in path and validates the result.
// c is left untouched when the file cannot be read or parsed.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	next := *c
	if err := yaml.Unmarshal(b, &next); err != nil {
		return errors.WrapPrefix(err, path, 0)
	}
	if next.LayoutFlags != nil {
		next.Layout = matrix.LayoutFromFlags(*next.LayoutFlags)
		next.LayoutFlags = nil
	}
	if err := next.Validate(); err != nil {
		return errors.WrapPrefix(err, path, 0)
	}
	*c = next
	return nil
}

// AddFlags binds command line flags to c.
func (c *Config) AddFlags(fs *pflag.FlagSet) *Config {
	fs.StringVarP(&c.Driver, "driver", "d", c.Driver, "LED driver: apa102 | nrz | console")
	fs.StringVar(&c.SPIPort, "spi-port", c.SPIPort, "periph SPI port name, empty for the first one")
	fs.IntVar(&c.SPIHz, "spi-hz", c.SPIHz, "SPI clock limit in Hz")
	fs.Var(&orderValue{&c.ColorOrder}, "color", "strip color order (RGB, GRB, BGR, ...)")
	fs.Float64VarP(&c.Brightness, "brightness", "b", c.Brightness, "global brightness 0..1")
	fs.IntVar(&c.FPS, "fps", c.FPS, "target frames per second")
	fs.IntVarP(&c.Rotation, "rotation", "r", c.Rotation, "quarter turns clockwise 0..3")
	fs.IntVar(&c.Geometry.TileWidth, "tile-width", c.Geometry.TileWidth, "pixels per tile row")
	fs.IntVar(&c.Geometry.TileHeight, "tile-height", c.Geometry.TileHeight, "pixel rows per tile")
	fs.IntVar(&c.Geometry.TilesX, "tiles-x", c.Geometry.TilesX, "tiles across, 0 for a single matrix")
	fs.IntVar(&c.Geometry.TilesY, "tiles-y", c.Geometry.TilesY, "tiles down, 0 for a single matrix")
	fs.Var(&layoutValue{&c.Layout}, "layout-flags", "legacy packed layout byte, e.g. 0x0B")
	fs.BoolVarP(&c.Preview.Enabled, "preview", "p", c.Preview.Enabled, "serve the websocket preview")
	fs.StringVar(&c.Preview.Addr, "preview-addr", c.Preview.Addr, "preview listen address")
	return c
}

type orderValue struct{ o *strip.Order }

func (v *orderValue) String() string {
	if v.o == nil {
		return ""
	}
	return v.o.String()
}
func (v *orderValue) Type() string   { return "order" }
func (v *orderValue) Set(s string) error {
	o, err := strip.ParseOrder(s)
	if err != nil {
		return err
	}
	*v.o = o
	return nil
}

type layoutValue struct{ l *matrix.Layout }

func (v *layoutValue) String() string {
	if v.l == nil {
		return ""
	}
	return fmt.Sprintf("%#02x", v.l.Flags())
}
func (v *layoutValue) Type() string   { return "uint8" }
func (v *layoutValue) Set(s string) error {
	f, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return err
	}
	*v.l = matrix.LayoutFromFlags(uint8(f))
	return nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func (c *Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	switch c.Driver {
	case "apa102", "nrz", "console":
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.Rotation < 0 || c.Rotation > 3 {
		return fmt.Errorf("rotation %d out of range 0..3", c.Rotation)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		return fmt.Errorf("brightness %v out of range 0..1", c.Brightness)
	}
	return nil
}

// Package device opens the periph.io driver the LED string is attached to.
package device

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/dotmatrix/strip"
)

// NRZFreq is the WS281x data rate.
const NRZFreq = 800 * physic.KiloHertz

type Opts struct {
	Driver     string // "apa102" | "nrz" | "console"
	Port       string // spireg name, "" = first registered port
	Hz         int    // SPI clock limit, 0 = driver default
	NumPixels  int
	Brightness float64 // APA102 global intensity, 0..1
}

// Native channel orders of the periph drivers.
const (
	APA102Order = strip.BGR
	NRZOrder    = strip.GRB
)

// Dev is an opened display and the port it owns.
type Dev struct {
	display.Drawer
	port  spi.PortCloser
	wire  strip.Order
	wired bool
}

// WireOrder reports the order the driver sends image channels in. The
// console has none.
func (d *Dev) WireOrder() (strip.Order, bool) { return d.wire, d.wired }

// Close halts the display and releases the SPI port.
func (d *Dev) Close() error {
	err := d.Halt()
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Console returns a terminal emulation of n LEDs.
func Console(n int) *Dev {
	return &Dev{Drawer: screen.New(n)}
}

// Open initializes the host and the configured driver. When no SPI port is
// available it falls back to the console.
func Open(o Opts) (*Dev, error) {
	if o.NumPixels <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", o.NumPixels)
	}
	if o.Driver == "console" {
		return Console(o.NumPixels), nil
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(o.Port)
	if err != nil {
		log.Warn().Err(err).Str("port", o.Port).Msg("no SPI port; printing at the console")
		return Console(o.NumPixels), nil
	}
	if o.Hz > 0 {
		if err := p.LimitSpeed(physic.Frequency(o.Hz) * physic.Hertz); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("spi speed: %w", err)
		}
	}
	d, err := New(p, o)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	d.port = p
	log.Info().Str("driver", o.Driver).Str("port", p.String()).Int("pixels", o.NumPixels).Msg("LED device ready")
	return d, nil
}

// New binds the driver named in o to an already opened port. The port is
// not owned by the returned Dev.
func New(p spi.Port, o Opts) (*Dev, error) {
	switch o.Driver {
	case "apa102":
		opts := apa102.Opts{
			NumPixels:   o.NumPixels,
			Intensity:   255,
			Temperature: 6500,
		}
		if o.Brightness > 0 && o.Brightness <= 1 {
			opts.Intensity = uint8(o.Brightness * 255)
		}
		d, err := apa102.New(p, &opts)
		if err != nil {
			return nil, fmt.Errorf("apa102: %w", err)
		}
		return &Dev{Drawer: d, wire: APA102Order, wired: true}, nil
	case "nrz":
		opts := nrzled.Opts{
			NumPixels: o.NumPixels,
			Channels:  3,
			Freq:      NRZFreq,
		}
		d, err := nrzled.NewSPI(p, &opts)
		if err != nil {
			return nil, fmt.Errorf("nrzled: %w", err)
		}
		d.Halt()
		return &Dev{Drawer: d, wire: NRZOrder, wired: true}, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", o.Driver)
	}
}

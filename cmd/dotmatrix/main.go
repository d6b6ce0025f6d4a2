package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/coreman2200/dotmatrix/internal/calib"
	"github.com/coreman2200/dotmatrix/internal/config"
	"github.com/coreman2200/dotmatrix/internal/device"
	"github.com/coreman2200/dotmatrix/internal/loop"
	"github.com/coreman2200/dotmatrix/internal/preview"
	"github.com/coreman2200/dotmatrix/matrix"
	"github.com/coreman2200/dotmatrix/strip"
)

func main() {
	// ---- Flags (config.yaml overrides what it sets) ----
	cfg := config.Default().AddFlags(pflag.CommandLine)
	var (
		configPath = pflag.StringP("config", "c", "config.yaml", "path to config.yaml")
		text       = pflag.StringP("text", "t", "Hello, matrix!", "text to scroll")
		speed      = pflag.Float64("speed", 12, "scroll speed in pixels per second")
		calibrate  = pflag.String("calib", "", "run a calibration pattern: index_sweep | rgb_channels | corners | tile_ids")
		stepEvery  = pflag.Duration("calib-step", 250*time.Millisecond, "time each calibration frame is held")
		save       = pflag.Bool("save", false, "write the effective configuration to --config and exit")
		debug      = pflag.Bool("debug", false, "debug logging")
	)
	pflag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	if *save {
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("save config")
		}
		log.Info().Str("path", *configPath).Msg("configuration saved")
		return
	}

	if err := cfg.LoadFile(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("invalid configuration")
		}
	}

	// ---- Strip and matrix ----
	n := cfg.Geometry.Count()
	s := strip.New(n, cfg.ColorOrder)
	if cfg.Driver != "apa102" {
		// APA102 dims in hardware instead.
		s.Brightness = cfg.Brightness
	}
	m, err := matrix.New(cfg.Geometry, cfg.Layout, s)
	if err != nil {
		log.Fatal().Err(err).Msg("matrix")
	}
	m.SetRotation(matrix.Rotation(cfg.Rotation))
	log.Info().
		Str("geometry", cfg.Geometry.String()).
		Str("layout", cfg.Layout.String()).
		Str("rotation", m.Rotation().String()).
		Int("pixels", n).
		Msg("matrix ready")

	// ---- Device: fall back to the console when the driver cannot start ----
	dev, err := device.Open(device.Opts{
		Driver:     cfg.Driver,
		Port:       cfg.SPIPort,
		Hz:         cfg.SPIHz,
		NumPixels:  n,
		Brightness: cfg.Brightness,
	})
	if err != nil {
		log.Warn().Err(err).Str("driver", cfg.Driver).Msg("device init failed; printing at the console")
		dev = device.Console(n)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Warn().Err(err).Msg("device close")
		}
	}()

	// ---- Frame source ----
	update := newScroller(m, *text, *speed).update
	if *calibrate != "" {
		k, err := calib.ParseKind(*calibrate)
		if err != nil {
			log.Fatal().Err(err).Msg("calibration")
		}
		st := &stepper{m: m, r: calib.NewRunner(k), period: *stepEvery}
		update = st.update
		log.Info().Str("pattern", string(k)).Int("steps", st.r.Steps(m)).Msg("calibrating")
	}
	l := loop.New(s, dev, cfg.FPS, update)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ---- Preview ----
	if cfg.Preview.Enabled {
		hub := preview.NewHub(preview.TopologyOf(m, cfg.Driver))
		l.OnFrame(hub.Broadcast)
		go func() {
			if err := hub.Serve(ctx, cfg.Preview.Addr); err != nil {
				log.Error().Err(err).Msg("preview server crashed")
			}
		}()
	}

	if err := l.Start(ctx); err != nil {
		log.Error().Err(err).Msg("refresh loop")
	}
	log.Info().Uint64("frames", l.Frames()).Msg("shutting down")
}

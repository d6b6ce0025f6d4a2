// Package loop refreshes a strip onto its device at a fixed frame rate.
package loop

import (
	"context"
	"image"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/dotmatrix/strip"
)

const DFLT_FPS = 30

// UpdateFunc draws the frame for elapsed time t. Returning false ends the
// loop after that frame is shown.
type UpdateFunc func(t time.Duration) bool

// SinkFunc receives a copy of every frame shown.
type SinkFunc func(frameID uint64, img *image.NRGBA)

type Looper struct {
	fps    int
	strip  *strip.Strip
	dev    display.Drawer
	update UpdateFunc
	sinks  []SinkFunc
	frames uint64
}

func New(s *strip.Strip, d display.Drawer, fps int, update UpdateFunc) *Looper {
	if fps <= 0 {
		fps = DFLT_FPS
	}
	return &Looper{fps: fps, strip: s, dev: d, update: update}
}

// OnFrame adds a sink. Not safe to call while running.
func (l *Looper) OnFrame(fn SinkFunc) { l.sinks = append(l.sinks, fn) }

func (l *Looper) Frames() uint64 { return l.frames }

func (l *Looper) render(start time.Time) (bool, error) {
	more := l.update(time.Since(start))
	if err := l.strip.Show(l.dev); err != nil {
		return false, err
	}
	l.frames++
	if len(l.sinks) > 0 {
		img := l.strip.Image()
		for _, fn := range l.sinks {
			fn(l.frames, img)
		}
	}
	return more, nil
}

// Run refreshes until ctx is done, the update ends or the device fails.
func (l *Looper) Run(ctx context.Context) error {
	delta := time.Second / time.Duration(l.fps)
	ticker := time.NewTicker(delta)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ticker.C:
			t := time.Now()
			more, err := l.render(start)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
			if spent := time.Since(t); spent > delta {
				log.Debug().Dur("spent", spent).Dur("budget", delta).Msg("frame overran")
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Start runs until interrupted, then blanks the device.
func (l *Looper) Start(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	log.Info().Int("fps", l.fps).Str("device", l.dev.String()).Msg("refresh loop started")
	err := l.Run(ctx)
	if ctx.Err() != nil {
		log.Info().Msg("got interrupt, aborting")
	}
	if herr := l.dev.Halt(); err == nil {
		err = herr
	}
	return err
}

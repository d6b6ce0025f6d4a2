package main

import (
	"image"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/dotmatrix/internal/calib"
	"github.com/coreman2200/dotmatrix/matrix"
)

// scroller moves text right to left across the matrix.
type scroller struct {
	m     *matrix.Matrix
	text  string
	speed float64 // pixels per second
	face  *basicfont.Face
}

func newScroller(m *matrix.Matrix, text string, speed float64) *scroller {
	return &scroller{m: m, text: text, speed: speed, face: basicfont.Face7x13}
}

func (s *scroller) update(t time.Duration) bool {
	s.m.Clear()
	w, h := s.m.Width(), s.m.Height()
	span := font.MeasureString(s.face, s.text).Ceil() + w
	off := int(t.Seconds()*s.speed) % span

	baseline := (h-s.face.Height)/2 + s.face.Ascent
	d := font.Drawer{
		Dst:  s.m,
		Src:  image.NewUniform(wheel(t)),
		Face: s.face,
		Dot:  fixed.P(w-off, baseline),
	}
	d.DrawString(s.text)
	return true
}

// wheel cycles through the hues once every six seconds.
func wheel(t time.Duration) matrix.Color565 {
	pos := int(t/time.Millisecond) % 6000 * 255 / 1000
	seg, v := pos/255, uint8(pos%255)
	switch seg {
	case 0:
		return matrix.RGB(255, v, 0)
	case 1:
		return matrix.RGB(255-v, 255, 0)
	case 2:
		return matrix.RGB(0, 255, v)
	case 3:
		return matrix.RGB(0, 255-v, 255)
	case 4:
		return matrix.RGB(v, 0, 255)
	default:
		return matrix.RGB(255, 0, 255-v)
	}
}

// stepper advances a calibration runner once per period. The last frame
// stays up until the loop is interrupted.
type stepper struct {
	m      *matrix.Matrix
	r      *calib.Runner
	period time.Duration
	next   time.Duration
	done   bool
}

func (s *stepper) update(t time.Duration) bool {
	if s.done || t < s.next {
		return true
	}
	s.next = t + s.period
	if !s.r.Step(s.m) {
		s.done = true
		log.Info().Str("pattern", string(s.r.Kind())).Msg("calibration complete; holding last frame")
	}
	return true
}

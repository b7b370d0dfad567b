// Package scroll implements a horizontal marquee over a framebuffer with a
// hidden staging area.
//
// Every tick shifts the whole frame one column to the left and refreshes the
// panel. Once per glyph width the next glyph is drawn into the staging
// columns, so it slides into view over the following ticks. After the last
// glyph an idle pause of Space glyph widths lets the text scroll out before
// the sequence starts again.
//
// The engine never blocks on its own: call Step from any scheduling loop, or
// Run with a context to tick at a fixed interval until cancelled.
package scroll

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/flavioheleno/ssd1306/framebuffer"
)

// Cycle is the number of ticks per glyph, the width of the staging area.
const Cycle = framebuffer.StagingWidth - framebuffer.Width

// ErrNoGlyphs is returned by New when Opts.Count is not positive.
var ErrNoGlyphs = errors.New("scroll: no glyphs to scroll")

// Shifter moves every column of a frame one position to the left.
type Shifter interface {
	ShiftLeft()
}

// GlyphDrawer draws the wide glyph index at (x, y).
//
// text.Renderer implements it.
type GlyphDrawer interface {
	Wide(x, y, index, size int, on bool) error
}

// Refresher pushes the frame to the panel.
//
// ssd1306.Dev implements it.
type Refresher interface {
	Refresh() error
}

// Opts is the configuration of a scroll Engine.
type Opts struct {
	// Count is the number of wide glyphs, shown as indexes 0 to Count-1.
	Count int
	// Space is the pause after the last glyph, in glyph widths.
	Space int
	// Size is the wide glyph size. Defaults to 16.
	Size int
	// At is the top left corner of each new glyph. Nil means (128, 24), the
	// first staging column.
	At *image.Point
	// Invert draws glyphs off on an on background.
	Invert bool
}

// Engine is the scroll state machine.
//
// It is not safe for concurrent use; it shares its frame with whatever else
// draws on it.
type Engine struct {
	fb   Shifter
	r    GlyphDrawer
	out  Refresher
	opts Opts
	at   image.Point

	t    int // Next glyph index
	m    int // Tick within the current glyph width
	idle int // Remaining pause ticks
}

// New returns an Engine scrolling glyphs drawn by r through fb, refreshing out
// after each shift.
func New(fb Shifter, r GlyphDrawer, out Refresher, opts Opts) (*Engine, error) {
	if opts.Count <= 0 {
		return nil, ErrNoGlyphs
	}
	if opts.Space < 0 {
		return nil, fmt.Errorf("scroll: invalid space %d", opts.Space)
	}
	if opts.Size == 0 {
		opts.Size = 16
	}
	at := image.Pt(framebuffer.Width, 24)
	if opts.At != nil {
		at = *opts.At
	}
	return &Engine{fb: fb, r: r, out: out, opts: opts, at: at}, nil
}

// Step runs one tick: draw the next glyph on a glyph boundary, shift the
// frame one column and refresh.
//
// A glyph error aborts the tick before the frame moves, so the tick can be
// retried.
func (e *Engine) Step() error {
	if e.idle > 0 {
		e.idle--
		return e.advance()
	}
	if e.m == 0 {
		if err := e.r.Wide(e.at.X, e.at.Y, e.t, e.opts.Size, !e.opts.Invert); err != nil {
			return fmt.Errorf("scroll: glyph %d: %w", e.t, err)
		}
		e.t++
	}
	if e.t == e.opts.Count {
		e.t = 0
		e.idle = Cycle * e.opts.Space
	}
	e.m = (e.m + 1) % Cycle
	return e.advance()
}

func (e *Engine) advance() error {
	e.fb.ShiftLeft()
	if err := e.out.Refresh(); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// Run calls Step every interval until ctx is done or a tick fails.
//
// With a non-positive interval ticks run back to back, paced only by the
// refresh.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Step(); err != nil {
			return err
		}
		if tick == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}

// Reset rewinds the engine to the first glyph. The frame is left untouched.
func (e *Engine) Reset() {
	e.t, e.m, e.idle = 0, 0, 0
}

// State returns the next glyph index, the tick within the current glyph width
// and the remaining pause ticks.
func (e *Engine) State() (t, m, idle int) {
	return e.t, e.m, e.idle
}

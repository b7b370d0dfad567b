// Package text renders bitmap glyphs, numbers and pictures onto a 1-bit
// pixel store.
//
// Glyph data is column-major: a glyph is a run of 8-row bands, each band a
// byte per column with bit 0 at the top. Every bit is drawn, so a glyph paints
// its background as well as its strokes. Passing on=false draws the glyph
// inverted.
//
// Renderer methods report unsupported sizes and missing glyphs as errors and
// draw nothing in that case. Callers that ignore the error get a silent no-op.
package text

import (
	"errors"
	"fmt"
	"slices"

	"github.com/flavioheleno/ssd1306/raster"
)

var (
	// ErrUnsupportedSize is returned for a size with no glyph table.
	ErrUnsupportedSize = errors.New("text: unsupported size")
	// ErrNoGlyph is returned when the table has no glyph at the index.
	ErrNoGlyph = errors.New("text: no such glyph")
	// ErrShortBitmap is returned when a picture has fewer bytes than its
	// dimensions require.
	ErrShortBitmap = errors.New("text: bitmap too short")
)

// Nominal heights of the ASCII and wide glyph tables.
var (
	ASCIISizes = []int{8, 12, 16, 24}
	WideSizes  = []int{16, 24, 32, 64}
)

// Table is an immutable set of glyphs of one nominal size.
type Table struct {
	Size   int
	Glyphs [][]byte
}

// Glyph returns glyph i, or false if the table has none.
func (t *Table) Glyph(i int) ([]byte, bool) {
	if t == nil || i < 0 || i >= len(t.Glyphs) {
		return nil, false
	}
	return t.Glyphs[i], true
}

// Stride returns the number of bytes of an ASCII glyph of the given size.
//
// Size 8 glyphs are 6 columns of one band. Other sizes are size/2 columns
// over ceil(size/8) bands.
func Stride(size int) int {
	if size == 8 {
		return 6
	}
	return bands(size) * (size / 2)
}

// WideStride returns the number of bytes of a square wide glyph.
func WideStride(size int) int {
	return bands(size) * size
}

// Advance returns the horizontal pitch between characters of a string.
func Advance(size int) int {
	if size == 8 {
		return 6
	}
	return size / 2
}

// Renderer draws glyphs from a fixed set of tables.
type Renderer struct {
	p     raster.Plotter
	ascii map[int]*Table
	wide  map[int]*Table
}

// NewRenderer returns a Renderer drawing on p.
//
// ascii tables are indexed from ' ' and must use one of ASCIISizes; wide
// tables must use one of WideSizes. Every glyph must be exactly one stride
// long.
func NewRenderer(p raster.Plotter, ascii, wide []*Table) (*Renderer, error) {
	r := &Renderer{
		p:     p,
		ascii: map[int]*Table{},
		wide:  map[int]*Table{},
	}
	for _, t := range ascii {
		if err := validate(t, ASCIISizes, Stride); err != nil {
			return nil, err
		}
		r.ascii[t.Size] = t
	}
	for _, t := range wide {
		if err := validate(t, WideSizes, WideStride); err != nil {
			return nil, err
		}
		r.wide[t.Size] = t
	}
	return r, nil
}

func validate(t *Table, sizes []int, stride func(int) int) error {
	if !slices.Contains(sizes, t.Size) {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, t.Size)
	}
	want := stride(t.Size)
	for i, g := range t.Glyphs {
		if len(g) != want {
			return fmt.Errorf("text: size %d glyph %d is %d bytes, want %d", t.Size, i, len(g), want)
		}
	}
	return nil
}

// Char draws the printable ASCII character ch with its top left corner at
// (x, y).
func (r *Renderer) Char(x, y int, ch byte, size int, on bool) error {
	t, ok := r.ascii[size]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	g, ok := t.Glyph(int(ch) - ' ')
	if !ok {
		return fmt.Errorf("%w: %q at size %d", ErrNoGlyph, ch, size)
	}
	wrap := size / 2
	if size == 8 {
		wrap = 0
	}
	r.blit(x, y, g, wrap, on)
	return nil
}

// String draws s from (x, y) rightwards.
//
// Drawing stops at the first byte outside ' '..'~'; the rest of s is
// ignored.
func (r *Renderer) String(x, y int, s string, size int, on bool) error {
	if _, ok := r.ascii[size]; !ok {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	for i := 0; i < len(s) && s[i] >= ' ' && s[i] <= '~'; i++ {
		if err := r.Char(x, y, s[i], size, on); err != nil {
			return err
		}
		x += Advance(size)
	}
	return nil
}

// Number draws v as exactly digits decimal digits, most significant first.
// Leading zeros are drawn; higher digits are dropped.
func (r *Renderer) Number(x, y int, v uint32, digits, size int, on bool) error {
	if _, ok := r.ascii[size]; !ok {
		return fmt.Errorf("%w: %d", ErrUnsupportedSize, size)
	}
	pitch := size / 2
	if size == 8 {
		pitch += 2
	}
	for t := 0; t < digits; t++ {
		d := byte((v / pow10(digits-t-1)) % 10)
		if err := r.Char(x+pitch*t, y, '0'+d, size, on); err != nil {
			return err
		}
	}
	return nil
}

// Wide draws glyph index of the wide table of the given size. The index is
// opaque; mapping text to indices is up to the caller.
func (r *Renderer) Wide(x, y, index, size int, on bool) error {
	t, ok := r.wide[size]
	if !ok {
		return fmt.Errorf("%w: wide %d", ErrUnsupportedSize, size)
	}
	g, ok := t.Glyph(index)
	if !ok {
		return fmt.Errorf("%w: wide index %d at size %d", ErrNoGlyph, index, size)
	}
	r.blit(x, y, g, size, on)
	return nil
}

// Picture draws a w x h bitmap in glyph layout. The height is rounded up to
// whole bands.
func (r *Renderer) Picture(x, y, w, h int, bmp []byte, on bool) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	n := bands(h) * w
	if len(bmp) < n {
		return fmt.Errorf("%w: %d bytes for %dx%d, want %d", ErrShortBitmap, len(bmp), w, h, n)
	}
	r.blit(x, y, bmp[:n], w, on)
	return nil
}

// blit unpacks data column by column. When wrap is positive, the column
// cursor returns to x and moves down a band every wrap bytes.
func (r *Renderer) blit(x, y int, data []byte, wrap int, on bool) {
	x0, y0 := x, y
	for _, b := range data {
		for m := 0; m < 8; m++ {
			r.p.SetPixel(x, y0+m, (b&1 != 0) == on)
			b >>= 1
		}
		x++
		if wrap > 0 && x-x0 == wrap {
			x = x0
			y0 += 8
		}
	}
}

func bands(h int) int {
	return (h + 7) / 8
}

func pow10(n int) uint32 {
	v := uint32(1)
	for ; n > 0; n-- {
		v *= 10
	}
	return v
}

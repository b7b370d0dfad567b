// Package fonts builds glyph tables for the text renderer from the
// golang.org/x/image basic bitmap font.
//
// The 7x13 face is rasterized once per rune and scaled with nearest
// neighbour sampling to the cell of each nominal size, so every size has
// the same look. Tables are returned fresh on each call; callers keep them.
package fonts

import (
	"fmt"
	"image"
	"slices"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/flavioheleno/ssd1306/framebuffer"
	"github.com/flavioheleno/ssd1306/text"
)

// First and last runes of the ASCII tables.
const (
	First = ' '
	Last  = '~'
)

var face = basicfont.Face7x13

// ASCII returns the printable ASCII table of the given nominal size.
func ASCII(size int) (*text.Table, error) {
	if !slices.Contains(text.ASCIISizes, size) {
		return nil, fmt.Errorf("fonts: %w: %d", text.ErrUnsupportedSize, size)
	}
	w := text.Stride(size) / ((size + 7) / 8)
	t := &text.Table{Size: size}
	for r := rune(First); r <= Last; r++ {
		t.Glyphs = append(t.Glyphs, glyph(r, w, size))
	}
	return t, nil
}

// AllASCII returns one ASCII table per supported size. It panics if a size
// cannot be built.
func AllASCII() []*text.Table {
	out := make([]*text.Table, 0, len(text.ASCIISizes))
	for _, size := range text.ASCIISizes {
		t, err := ASCII(size)
		if err != nil {
			panic(err)
		}
		out = append(out, t)
	}
	return out
}

// Wide returns a square table of the given size with one glyph per rune of
// s, in order. Runes missing from the face render blank.
func Wide(size int, s string) (*text.Table, error) {
	if !slices.Contains(text.WideSizes, size) {
		return nil, fmt.Errorf("fonts: %w: wide %d", text.ErrUnsupportedSize, size)
	}
	t := &text.Table{Size: size}
	for _, r := range s {
		t.Glyphs = append(t.Glyphs, glyph(r, size, size))
	}
	return t, nil
}

// glyph rasterizes r and packs it into a w x h cell.
func glyph(r rune, w, h int) []byte {
	src := image.NewGray(image.Rect(0, 0, face.Width, face.Height))
	d := font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(string(r))

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return framebuffer.Pack(dst, dst.Bounds())
}

package framebuffer

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Geometry of the display RAM mirror.
const (
	Width        = 128 // Visible columns
	Height       = 64  // Visible rows
	Pages        = Height / 8
	StagingWidth = Width + 16 // Allocated columns, including the staging area
)

// Frame is the column-major, page-packed pixel store.
//
// A Frame has a single owner. It does no locking; concurrent users must
// serialize access themselves.
type Frame struct {
	Pix []byte // StagingWidth*Pages bytes, Pix[x*Pages+page]
}

// New returns a cleared Frame.
func New() *Frame {
	return &Frame{Pix: make([]byte, StagingWidth*Pages)}
}

// SetPixel turns the pixel at (x, y) on or off.
//
// x may address the staging columns. Coordinates outside
// [0, StagingWidth) x [0, Height) are ignored.
func (f *Frame) SetPixel(x, y int, on bool) {
	offset, mask, ok := f.pixOffset(x, y)
	if !ok {
		return
	}
	if on {
		f.Pix[offset] |= mask
	} else {
		f.Pix[offset] &^= mask
	}
}

// Pixel reports whether the pixel at (x, y) is on. Out of range reads are off.
func (f *Frame) Pixel(x, y int) bool {
	offset, mask, ok := f.pixOffset(x, y)
	if !ok {
		return false
	}
	return f.Pix[offset]&mask != 0
}

// Clear turns every pixel off, including the staging columns.
func (f *Frame) Clear() {
	clear(f.Pix)
}

// ShiftLeft moves every column one position to the left.
//
// Column 0 is discarded. The last staging column keeps its previous content.
func (f *Frame) ShiftLeft() {
	copy(f.Pix, f.Pix[Pages:])
}

// Page returns the visible bytes of page p in column order.
//
// This is the payload streamed to the controller for that page.
func (f *Frame) Page(p int) []byte {
	out := make([]byte, Width)
	for x := range out {
		out[x] = f.Pix[x*Pages+p]
	}
	return out
}

// Column returns the Pages bytes of column x, top page first.
func (f *Frame) Column(x int) []byte {
	return f.Pix[x*Pages : (x+1)*Pages]
}

// LoadPages replaces the visible area with page-major data, as produced by
// image1bit.VerticalLSB: Width bytes for page 0, then page 1, and so on.
func (f *Frame) LoadPages(pix []byte) {
	for p := 0; p < Pages; p++ {
		for x := 0; x < Width; x++ {
			f.Pix[x*Pages+p] = pix[p*Width+x]
		}
	}
}

// ColorModel returns the color model of the frame.
func (f *Frame) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the visible area. The staging columns are not part of it.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (f *Frame) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// BitAt returns the Bit of the pixel at (x, y).
func (f *Frame) BitAt(x, y int) image1bit.Bit {
	return image1bit.Bit(f.Pixel(x, y))
}

// Opaque reports that every pixel is opaque.
func (f *Frame) Opaque() bool {
	return true
}

// Set sets the color of the pixel at (x, y).
// It implements the draw.Image interface.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetBit(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

// SetBit sets the Bit of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (f *Frame) SetBit(x, y int, b image1bit.Bit) {
	f.SetPixel(x, y, bool(b))
}

// pixOffset returns the byte offset and bit mask for the pixel at (x, y).
// Memory layout: each byte holds 8 rows of one column.
// Bit 0 is the top row of the page.
func (f *Frame) pixOffset(x, y int) (offset int, mask byte, ok bool) {
	if x < 0 || x >= StagingWidth || y < 0 || y >= Height {
		return 0, 0, false
	}
	return x*Pages + y/8, 1 << uint(y%8), true
}

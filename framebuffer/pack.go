package framebuffer

import (
	"image"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Pack converts the region r of img into the band layout used by glyph
// tables and pictures.
//
// The output holds ceil(r.Dy()/8) bands. Each band is r.Dx() bytes, one per
// column from left to right, bit 0 being the top row of the band. Rows past
// the bottom of r are packed as off.
func Pack(img image.Image, r image.Rectangle) []byte {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	bands := (h + 7) / 8
	out := make([]byte, 0, bands*w)
	for band := 0; band < bands; band++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var b byte
			for m := 0; m < 8; m++ {
				y := r.Min.Y + band*8 + m
				if y >= r.Max.Y {
					break
				}
				if image1bit.BitModel.Convert(img.At(x, y)).(image1bit.Bit) {
					b |= 1 << uint(m)
				}
			}
			out = append(out, b)
		}
	}
	return out
}

// Package framebuffer provides the 1-bit pixel store mirrored to the SSD1306
// display RAM.
//
// The controller addresses its memory in pages: horizontal bands 8 pixels
// high where one byte holds 8 vertically stacked pixels. Bit 0 is the top
// row of the band.
//
// Memory layout example for one column of page 0:
//
//	Rows:  0 1 2 3 4 5 6 7
//	Pixel: 1 0 1 1 0 0 0 0
//	Byte:  0x0D
//
// Frame stores the cells column-major, Pix[x*Pages+page], over 144 columns.
// Only columns 0..127 are shown on the panel. Columns 128..143 are a staging
// area: content drawn there is invisible until ShiftLeft moves it into view.
//
// Example usage:
//
//	fb := framebuffer.New()
//	fb.SetPixel(10, 20, true)
//	on := fb.Pixel(10, 20) // true
//
//	// Frame is a draw.Image over the visible 128x64 area.
//	draw.Draw(fb, fb.Bounds(), image.NewUniform(image1bit.On), image.Point{}, draw.Src)
package framebuffer

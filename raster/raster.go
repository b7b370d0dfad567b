// Package raster draws points, lines and circles on a 1-bit pixel store.
package raster

// Plotter is a pixel store that can turn single pixels on or off.
//
// *framebuffer.Frame implements it.
type Plotter interface {
	SetPixel(x, y int, on bool)
}

// Point turns the pixel at (x, y) on or off.
func Point(p Plotter, x, y int, on bool) {
	p.SetPixel(x, y, on)
}

// Line draws a line from (x1, y1) to (x2, y2), both end points included.
//
// It is an integer error accumulating walk along the major axis; both axes
// may advance in the same step.
func Line(p Plotter, x1, y1, x2, y2 int, on bool) {
	dx, incx := absSign(x2 - x1)
	dy, incy := absSign(y2 - y1)
	distance := max(dx, dy)

	x, y := x1, y1
	xerr, yerr := 0, 0
	for t := 0; t <= distance; t++ {
		p.SetPixel(x, y, on)
		xerr += dx
		yerr += dy
		if xerr >= distance {
			xerr -= distance
			x += incx
		}
		if yerr >= distance {
			yerr -= distance
			y += incy
		}
	}
}

// Circle draws a circle of radius r centred on (cx, cy).
//
// The walk covers one octant and mirrors it 8 ways. It steps a while the
// distance to the centre stays within r and otherwise pulls b in, which
// approximates rather than rounds the midpoint circle. A zero radius draws
// only the centre.
func Circle(p Plotter, cx, cy, r int) {
	if r <= 0 {
		p.SetPixel(cx, cy, true)
		return
	}
	a, b := 0, r
	for 2*b*b >= r*r {
		p.SetPixel(cx+a, cy-b, true)
		p.SetPixel(cx-a, cy-b, true)
		p.SetPixel(cx-a, cy+b, true)
		p.SetPixel(cx+a, cy+b, true)

		p.SetPixel(cx+b, cy+a, true)
		p.SetPixel(cx+b, cy-a, true)
		p.SetPixel(cx-b, cy-a, true)
		p.SetPixel(cx-b, cy+a, true)

		a++
		if a*a+b*b-r*r > 0 {
			b--
			a--
		}
	}
}

// absSign returns |v| and the step direction of v in {-1, 0, 1}.
func absSign(v int) (int, int) {
	switch {
	case v > 0:
		return v, 1
	case v < 0:
		return -v, -1
	}
	return 0, 0
}

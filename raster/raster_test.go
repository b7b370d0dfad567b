package raster

import (
	"image"
	"testing"

	"github.com/flavioheleno/ssd1306/framebuffer"
)

// canvas records the final state of every pixel touched.
type canvas map[image.Point]bool

func (c canvas) SetPixel(x, y int, on bool) {
	c[image.Pt(x, y)] = on
}

func (c canvas) lit() map[image.Point]bool {
	out := map[image.Point]bool{}
	for p, on := range c {
		if on {
			out[p] = true
		}
	}
	return out
}

func points(pts ...int) map[image.Point]bool {
	out := map[image.Point]bool{}
	for i := 0; i < len(pts); i += 2 {
		out[image.Pt(pts[i], pts[i+1])] = true
	}
	return out
}

func equalSets(t *testing.T, name string, got, want map[image.Point]bool) {
	t.Helper()
	for p := range want {
		if !got[p] {
			t.Errorf("%s: missing pixel %v", name, p)
		}
	}
	for p := range got {
		if !want[p] {
			t.Errorf("%s: unexpected pixel %v", name, p)
		}
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		want           map[image.Point]bool
	}{
		{"horizontal", 0, 0, 5, 0, points(0, 0, 1, 0, 2, 0, 3, 0, 4, 0, 5, 0)},
		{"horizontal reversed", 5, 0, 0, 0, points(0, 0, 1, 0, 2, 0, 3, 0, 4, 0, 5, 0)},
		{"vertical", 2, 1, 2, 4, points(2, 1, 2, 2, 2, 3, 2, 4)},
		{"diagonal", 0, 0, 3, 3, points(0, 0, 1, 1, 2, 2, 3, 3)},
		{"anti-diagonal", 0, 3, 3, 0, points(0, 3, 1, 2, 2, 1, 3, 0)},
		{"shallow", 0, 0, 5, 2, points(0, 0, 1, 0, 2, 0, 3, 1, 4, 1, 5, 2)},
		{"shallow upward", 0, 2, 5, 0, points(0, 2, 1, 2, 2, 2, 3, 1, 4, 1, 5, 0)},
		{"single point", 7, 7, 7, 7, points(7, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := canvas{}
			Line(c, tt.x1, tt.y1, tt.x2, tt.y2, true)
			equalSets(t, tt.name, c.lit(), tt.want)
		})
	}
}

func TestLineEndpoints(t *testing.T) {
	for x2 := 0; x2 < 20; x2++ {
		for y2 := 0; y2 < 20; y2++ {
			c := canvas{}
			Line(c, 10, 10, x2, y2, true)
			if !c[image.Pt(10, 10)] || !c[image.Pt(x2, y2)] {
				t.Errorf("Line(10, 10, %d, %d) misses an end point", x2, y2)
			}
		}
	}
}

func TestLineClears(t *testing.T) {
	fb := framebuffer.New()
	Line(fb, 0, 0, 127, 63, true)
	Line(fb, 0, 0, 127, 63, false)
	for i, b := range fb.Pix {
		if b != 0 {
			t.Fatalf("Pix[%d] = 0x%02X after drawing and clearing the same line", i, b)
		}
	}
}

func TestPoint(t *testing.T) {
	fb := framebuffer.New()
	Point(fb, 3, 9, true)
	if !fb.Pixel(3, 9) {
		t.Error("Point did not set the pixel")
	}
	Point(fb, 3, 9, false)
	if fb.Pixel(3, 9) {
		t.Error("Point did not clear the pixel")
	}
}

func TestCircleZeroRadius(t *testing.T) {
	c := canvas{}
	Circle(c, 20, 30, 0)
	equalSets(t, "r=0", c.lit(), points(20, 30))
}

func TestCircle(t *testing.T) {
	tests := []struct {
		name string
		r    int
		want map[image.Point]bool
	}{
		{"r=1", 1, points(0, -1, 0, 1, 1, 0, -1, 0)},
		{"r=2", 2, points(0, -2, 0, 2, 2, 0, -2, 0)},
		{"r=5", 5, points(
			0, -5, 0, 5, 5, 0, -5, 0,
			0, -4, 0, 4, 4, 0, -4, 0,
			1, -4, -1, -4, -1, 4, 1, 4, 4, 1, 4, -1, -4, -1, -4, 1,
			2, -4, -2, -4, -2, 4, 2, 4, 4, 2, 4, -2, -4, -2, -4, 2,
			3, -4, -3, -4, -3, 4, 3, 4, 4, 3, 4, -3, -4, -3, -4, 3,
		)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := canvas{}
			Circle(c, 0, 0, tt.r)
			equalSets(t, tt.name, c.lit(), tt.want)
		})
	}
}

func TestCircleSymmetry(t *testing.T) {
	c := canvas{}
	Circle(c, 64, 32, 20)
	for p := range c.lit() {
		dx, dy := p.X-64, p.Y-32
		for _, q := range []image.Point{{-dx, dy}, {dx, -dy}, {dy, dx}, {-dy, -dx}} {
			if !c[image.Pt(64+q.X, 32+q.Y)] {
				t.Errorf("pixel %v has no mirror at %v", p, image.Pt(64+q.X, 32+q.Y))
			}
		}
	}
}

package text

import (
	"errors"
	"testing"

	"github.com/flavioheleno/ssd1306/framebuffer"
)

// solid returns an ASCII table of size where every glyph is filled and
// glyph '!' has only its top left pixel set.
func solid(size int) *Table {
	t := &Table{Size: size}
	for c := ' '; c <= '~'; c++ {
		g := make([]byte, Stride(size))
		for i := range g {
			g[i] = 0xFF
		}
		if c == '!' {
			clear(g)
			g[0] = 0x01
		}
		t.Glyphs = append(t.Glyphs, g)
	}
	return t
}

func newRenderer(t *testing.T, ascii []*Table, wide []*Table) (*Renderer, *framebuffer.Frame) {
	t.Helper()
	fb := framebuffer.New()
	r, err := NewRenderer(fb, ascii, wide)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r, fb
}

func litColumns(fb *framebuffer.Frame) (min, max int) {
	min, max = framebuffer.StagingWidth, -1
	for x := 0; x < framebuffer.StagingWidth; x++ {
		for y := 0; y < framebuffer.Height; y++ {
			if fb.Pixel(x, y) {
				if x < min {
					min = x
				}
				if x > max {
					max = x
				}
			}
		}
	}
	return
}

func TestStride(t *testing.T) {
	tests := []struct {
		size, stride, wide, advance int
	}{
		{8, 6, 8, 6},
		{12, 12, 24, 6},
		{16, 16, 32, 8},
		{24, 36, 72, 12},
		{32, 64, 128, 16},
		{64, 256, 512, 32},
	}
	for _, tt := range tests {
		if got := Stride(tt.size); got != tt.stride {
			t.Errorf("Stride(%d) = %d, want %d", tt.size, got, tt.stride)
		}
		if got := WideStride(tt.size); got != tt.wide {
			t.Errorf("WideStride(%d) = %d, want %d", tt.size, got, tt.wide)
		}
		if got := Advance(tt.size); got != tt.advance {
			t.Errorf("Advance(%d) = %d, want %d", tt.size, got, tt.advance)
		}
	}
}

func TestNewRendererValidation(t *testing.T) {
	tests := []struct {
		name    string
		ascii   []*Table
		wide    []*Table
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"valid ascii", []*Table{solid(8), solid(24)}, nil, false},
		{"unsupported ascii size", []*Table{{Size: 10}}, nil, true},
		{"bad glyph length", []*Table{{Size: 8, Glyphs: [][]byte{make([]byte, 5)}}}, nil, true},
		{"valid wide", nil, []*Table{{Size: 16, Glyphs: [][]byte{make([]byte, 32)}}}, false},
		{"unsupported wide size", nil, []*Table{{Size: 8}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRenderer(framebuffer.New(), tt.ascii, tt.wide)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRenderer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCharSize8(t *testing.T) {
	r, fb := newRenderer(t, []*Table{solid(8)}, nil)
	if err := r.Char(10, 5, 'A', 8, true); err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			want := x >= 10 && x < 16 && y >= 5 && y < 13
			if got := fb.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCharWrapsBands(t *testing.T) {
	// Size 16 glyph: 8 columns per band, 2 bands. Byte 8 is the first column
	// of the second band.
	tab := &Table{Size: 16}
	for c := ' '; c <= '~'; c++ {
		tab.Glyphs = append(tab.Glyphs, make([]byte, 16))
	}
	tab.Glyphs['B'-' '][8] = 0x01
	r, fb := newRenderer(t, []*Table{tab}, nil)

	if err := r.Char(0, 0, 'B', 16, true); err != nil {
		t.Fatal(err)
	}
	if !fb.Pixel(0, 8) {
		t.Error("Pixel(0, 8) = false, want the second band to start at column 0")
	}
	if min, max := litColumns(fb); min != 0 || max != 0 {
		t.Errorf("lit columns = [%d, %d], want [0, 0]", min, max)
	}
}

func TestCharInverted(t *testing.T) {
	r, fb := newRenderer(t, []*Table{solid(8)}, nil)
	for x := 0; x < 6; x++ {
		for y := 0; y < 8; y++ {
			fb.SetPixel(x, y, true)
		}
	}
	// '!' has only bit 0 of column 0 set; inverted, that is the only pixel
	// left off.
	if err := r.Char(0, 0, '!', 8, false); err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 6; x++ {
		for y := 0; y < 8; y++ {
			want := !(x == 0 && y == 0)
			if got := fb.Pixel(x, y); got != want {
				t.Errorf("Pixel(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCharUnsupported(t *testing.T) {
	r, fb := newRenderer(t, []*Table{solid(8)}, nil)
	if err := r.Char(0, 0, 'A', 12, true); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("Char(size 12) error = %v, want ErrUnsupportedSize", err)
	}
	if err := r.Char(0, 0, 0x7F, 8, true); !errors.Is(err, ErrNoGlyph) {
		t.Errorf("Char(0x7F) error = %v, want ErrNoGlyph", err)
	}
	if min, max := litColumns(fb); max >= min {
		t.Error("failed Char calls drew pixels")
	}
}

func TestStringStopsAtControl(t *testing.T) {
	r, fb := newRenderer(t, []*Table{solid(8)}, nil)
	if err := r.String(0, 0, "ab\ncd", 8, true); err != nil {
		t.Fatal(err)
	}
	min, max := litColumns(fb)
	if min != 0 || max != 11 {
		t.Errorf("lit columns = [%d, %d], want [0, 11]", min, max)
	}
}

func TestStringAdvance(t *testing.T) {
	r, fb := newRenderer(t, []*Table{solid(16)}, nil)
	if err := r.String(4, 0, "xyz", 16, true); err != nil {
		t.Fatal(err)
	}
	min, max := litColumns(fb)
	if min != 4 || max != 4+3*8-1 {
		t.Errorf("lit columns = [%d, %d], want [4, 27]", min, max)
	}
}

func TestStringUnsupported(t *testing.T) {
	r, fb := newRenderer(t, []*Table{solid(8)}, nil)
	if err := r.String(0, 0, "abc", 24, true); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("String(size 24) error = %v, want ErrUnsupportedSize", err)
	}
	if _, max := litColumns(fb); max != -1 {
		t.Error("unsupported String drew pixels")
	}
}

// digitTable encodes digit d as d+1 set bits in the first column of the glyph.
func digitTable(size int) *Table {
	t := &Table{Size: size}
	for c := ' '; c <= '~'; c++ {
		g := make([]byte, Stride(size))
		if c >= '0' && c <= '9' {
			g[0] = byte(1<<uint(c-'0'+1) - 1)
		}
		t.Glyphs = append(t.Glyphs, g)
	}
	return t
}

func columnHeight(fb *framebuffer.Frame, x int) int {
	n := 0
	for y := 0; y < 8; y++ {
		if fb.Pixel(x, y) {
			n++
		}
	}
	return n
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		v      uint32
		digits int
		want   []int
		pitch  int
	}{
		{"leading zeros", 8, 42, 4, []int{0, 0, 4, 2}, 6},
		{"truncates high digits", 8, 12345, 3, []int{3, 4, 5}, 6},
		{"size 16 pitch", 16, 607, 3, []int{6, 0, 7}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := newRenderer(t, []*Table{digitTable(tt.size)}, nil)
			if err := r.Number(0, 0, tt.v, tt.digits, tt.size, true); err != nil {
				t.Fatal(err)
			}
			for i, d := range tt.want {
				if got := columnHeight(fb, i*tt.pitch); got != d+1 {
					t.Errorf("digit %d = %d, want %d", i, got-1, d)
				}
			}
		})
	}
}

func TestWide(t *testing.T) {
	g := make([]byte, WideStride(16))
	g[0] = 0x01  // (0, 0)
	g[15] = 0x80 // (15, 7)
	g[16] = 0x01 // (0, 8), second band
	r, fb := newRenderer(t, nil, []*Table{{Size: 16, Glyphs: [][]byte{g}}})

	if err := r.Wide(128, 24, 0, 16, true); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{128, 24}, {143, 31}, {128, 32}} {
		if !fb.Pixel(p[0], p[1]) {
			t.Errorf("Pixel(%d, %d) = false, want true", p[0], p[1])
		}
	}
	if err := r.Wide(0, 0, 1, 16, true); !errors.Is(err, ErrNoGlyph) {
		t.Errorf("Wide(index 1) error = %v, want ErrNoGlyph", err)
	}
	if err := r.Wide(0, 0, 0, 24, true); !errors.Is(err, ErrUnsupportedSize) {
		t.Errorf("Wide(size 24) error = %v, want ErrUnsupportedSize", err)
	}
}

func TestPicture(t *testing.T) {
	r, fb := newRenderer(t, nil, nil)
	// 3x10 picture: two bands of 3 columns.
	bmp := []byte{0x01, 0x00, 0x80, 0x02, 0x00, 0x00}
	if err := r.Picture(5, 5, 3, 10, bmp, true); err != nil {
		t.Fatal(err)
	}
	want := map[[2]int]bool{{5, 5}: true, {7, 12}: true, {5, 14}: true}
	for x := 5; x < 8; x++ {
		for y := 5; y < 21; y++ {
			if got := fb.Pixel(x, y); got != want[[2]int{x, y}] {
				t.Errorf("Pixel(%d, %d) = %v, want %v", x, y, got, want[[2]int{x, y}])
			}
		}
	}
	if err := r.Picture(0, 0, 3, 10, bmp[:5], true); !errors.Is(err, ErrShortBitmap) {
		t.Errorf("Picture(short) error = %v, want ErrShortBitmap", err)
	}
}

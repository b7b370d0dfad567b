package ssd1306

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/flavioheleno/ssd1306/framebuffer"
)

// DefaultAddr is the 7-bit bus address of the controller with SA0 low. It
// goes on the wire as 0x78.
const DefaultAddr = 0x3C

// Control bytes prefixing every transaction.
const (
	i2cCmd  = 0x00 // Command stream
	i2cData = 0x40 // Data stream
)

// ErrHalted is returned by drawing and configuration calls after Halt.
var ErrHalted = errors.New("ssd1306: halted")

// Opts is the configuration for the display.
type Opts struct {
	// Addr is the bus address used by NewI2C. Defaults to DefaultAddr.
	Addr uint16
	// RST is the optional reset line, pulsed low before any command.
	RST gpio.PinOut
	// ResetDelay is how long RST is held low. Defaults to 200ms.
	ResetDelay time.Duration
	// Frame is the pixel store to display. A new one is allocated when nil.
	Frame *framebuffer.Frame
	// Logger receives Debug traces. Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Dev is the device handle for a 128x64 monochrome panel.
//
// Drawing happens on Frame() with the raster and text packages; Refresh
// pushes it to the panel. A Dev is not safe for concurrent use.
type Dev struct {
	c   conn.Conn
	rst gpio.PinOut
	fb  *framebuffer.Frame
	log logrus.FieldLogger

	halted bool
}

// NewI2C returns a Dev talking to the controller at opts.Addr on b.
//
// b is typically a *bitbang.Bus; any i2c.Bus works.
//
// opts can be nil to use defaults.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultAddr
	}
	return New(&i2c.Dev{Bus: b, Addr: addr}, opts)
}

// New returns a Dev writing transactions to c and runs the initialization
// sequence. Each Tx on c is one bus transaction: a control byte then its
// payload.
//
// opts can be nil to use defaults.
func New(c conn.Conn, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	d := &Dev{c: c, rst: opts.RST, fb: opts.Frame, log: opts.Logger}
	if d.fb == nil {
		d.fb = framebuffer.New()
	}
	if d.log == nil {
		d.log = logrus.StandardLogger()
	}
	d.log = d.log.WithField("dev", c.String())

	delay := opts.ResetDelay
	if delay == 0 {
		delay = 200 * time.Millisecond
	}
	if err := d.init(delay); err != nil {
		return nil, err
	}
	return d, nil
}

// init resets the controller and sends the power-up configuration.
func (d *Dev) init(delay time.Duration) error {
	if d.rst != nil {
		d.log.WithField("delay", delay).Debug("resetting")
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST low: %w", err)
		}
		time.Sleep(delay)
		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST high: %w", err)
		}
	}

	// Every byte is its own command transaction; order matters.
	cmds := []byte{
		0xAE,       // Display off
		0x00,       // Lower column start address
		0x10,       // Higher column start address
		0x40,       // Start line 0
		0x81, 0xCF, // Contrast
		0xA1,       // Segment remap, column 127 at SEG0
		0xC8,       // COM scan direction remapped
		0xA6,       // Normal display
		0xA8, 0x3F, // Multiplex ratio 1/64
		0xD3, 0x00, // Display offset
		0xD5, 0x80, // Clock divide ratio and oscillator frequency
		0xD9, 0xF1, // Pre-charge period
		0xDA, 0x12, // COM pins hardware configuration
		0xDB, 0x30, // VCOMH deselect level
		0x20, 0x02, // Page addressing mode
		0x8D, 0x14, // Charge pump on
	}
	d.log.Debug("initializing")
	if err := d.sendCommands(cmds...); err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}
	return d.sendCommand(0xAF)
}

// sendCommand sends cmd in a command transaction.
func (d *Dev) sendCommand(cmd byte) error {
	if err := d.c.Tx([]byte{i2cCmd, cmd}, nil); err != nil {
		return fmt.Errorf("ssd1306: command 0x%02X: %w", cmd, err)
	}
	return nil
}

// sendCommands sends each command in its own transaction and stops at the
// first failure.
func (d *Dev) sendCommands(cmds ...byte) error {
	for _, c := range cmds {
		if err := d.sendCommand(c); err != nil {
			return err
		}
	}
	return nil
}

// sendData streams data in one data transaction.
func (d *Dev) sendData(data []byte) error {
	w := make([]byte, 1+len(data))
	w[0] = i2cData
	copy(w[1:], data)
	if err := d.c.Tx(w, nil); err != nil {
		return fmt.Errorf("ssd1306: data: %w", err)
	}
	return nil
}

// Frame returns the pixel store shown by Refresh.
func (d *Dev) Frame() *framebuffer.Frame {
	return d.fb
}

// Refresh sends the visible area of the frame, one page at a time.
func (d *Dev) Refresh() error {
	if d.halted {
		return ErrHalted
	}
	for p := 0; p < framebuffer.Pages; p++ {
		if err := d.sendCommands(0xB0+byte(p), 0x00, 0x10); err != nil {
			return err
		}
		if err := d.sendData(d.fb.Page(p)); err != nil {
			return err
		}
	}
	return nil
}

// Clear turns every pixel off and refreshes the panel.
func (d *Dev) Clear() error {
	if d.halted {
		return ErrHalted
	}
	d.fb.Clear()
	return d.Refresh()
}

// Invert swaps on and off pixels on the panel. The frame is not modified.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return ErrHalted
	}
	mode := byte(0xA6) // Normal display
	if invert {
		mode = 0xA7 // Inverted display
	}
	d.log.WithField("invert", invert).Debug("display mode")
	return d.sendCommand(mode)
}

// Flip rotates the picture by 180°.
//
// COM scan direction and segment remap are sent as a pair; the remap is not
// sent if the scan direction failed.
func (d *Dev) Flip(flip bool) error {
	if d.halted {
		return ErrHalted
	}
	scan, remap := byte(0xC8), byte(0xA1)
	if flip {
		scan, remap = 0xC0, 0xA0
	}
	d.log.WithField("flip", flip).Debug("orientation")
	return d.sendCommands(scan, remap)
}

// DisplayOn enables the charge pump and turns the panel on. It also resumes a
// halted device.
func (d *Dev) DisplayOn() error {
	d.log.Debug("display on")
	if err := d.sendCommands(0x8D, 0x14, 0xAF); err != nil {
		return err
	}
	d.halted = false
	return nil
}

// DisplayOff disables the charge pump and turns the panel off. Display RAM is
// kept.
func (d *Dev) DisplayOff() error {
	d.log.Debug("display off")
	return d.sendCommands(0x8D, 0x10, 0xAE)
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommands(0x81, contrast)
}

// Halt turns the display off. Drawing calls fail with ErrHalted until
// DisplayOn.
func (d *Dev) Halt() error {
	d.halted = true
	return d.DisplayOff()
}

// ScrollSpeed is the number of frames between two horizontal scroll steps.
type ScrollSpeed byte

// Scroll step intervals, in frames.
const (
	Speed2Frames   ScrollSpeed = 0x07
	Speed3Frames   ScrollSpeed = 0x04
	Speed4Frames   ScrollSpeed = 0x05
	Speed5Frames   ScrollSpeed = 0x00
	Speed25Frames  ScrollSpeed = 0x06
	Speed64Frames  ScrollSpeed = 0x01
	Speed128Frames ScrollSpeed = 0x02
	Speed256Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts the controller's continuous horizontal scroll of
// pages startPage to endPage. If right is true, the picture moves right.
//
// Any running scroll is stopped first. Call StopScroll before drawing; the
// display RAM has to be refreshed after a scroll.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return ErrHalted
	}
	if int(endPage) >= framebuffer.Pages || startPage > endPage {
		return fmt.Errorf("ssd1306: invalid scroll pages %d-%d", startPage, endPage)
	}
	if speed > Speed2Frames {
		return fmt.Errorf("ssd1306: invalid scroll speed 0x%02X", byte(speed))
	}
	dir := byte(0x27) // Left horizontal scroll
	if right {
		dir = 0x26 // Right horizontal scroll
	}
	d.log.WithFields(logrus.Fields{"start": startPage, "end": endPage, "right": right}).Debug("scroll")
	return d.sendCommands(
		0x2E, // Deactivate scroll
		dir,
		0x00, // Dummy byte
		startPage,
		byte(speed),
		endPage,
		0x00, 0xFF, // Dummy bytes
		0x2F, // Activate scroll
	)
}

// StopScroll stops the hardware scroll.
func (d *Dev) StopScroll() error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommand(0x2E)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the visible area.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Write replaces the visible area with pixels in image1bit.VerticalLSB
// layout and refreshes the panel. pixels must be exactly 1024 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, ErrHalted
	}
	if len(pixels) != framebuffer.Width*framebuffer.Pages {
		return 0, errors.New("ssd1306: invalid buffer size")
	}
	d.fb.LoadPages(pixels)
	if err := d.Refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Draw draws src onto the frame and refreshes the panel.
// It implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}
	if r.Intersect(d.Bounds()).Empty() {
		return nil
	}
	if img, ok := src.(*image1bit.VerticalLSB); ok && r == d.Bounds() && img.Rect == r && sp == (image.Point{}) {
		d.fb.LoadPages(img.Pix)
	} else {
		draw.Draw(d.fb, r, src, sp, draw.Src)
	}
	return d.Refresh()
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%s, %dx%d}", d.c, framebuffer.Width, framebuffer.Height)
}

var _ display.Drawer = &Dev{}

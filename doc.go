// Package ssd1306 controls a 128x64 monochrome OLED panel built on the
// SSD1306 controller over a two-wire bus.
//
// The bus is usually bit-banged on two GPIO lines with the bitbang package,
// but any periph.io i2c.Bus works. This driver implements the
// display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 1 bit per pixel, 128 columns by 64 rows in 8 pages of 8 rows
// - Write-only bus: every transaction is a control byte (0x00 command,
// 0x40 data) followed by its payload
// - 16 hidden staging columns in the frame, used by the scroll package
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → any GPIO (clock)
//	SDA         → any GPIO (data)
//	RES         → Optional: GPIO for hardware reset
//
// # Basic Usage
//
//	package main
//
//	import (
//		"github.com/flavioheleno/ssd1306"
//		"github.com/flavioheleno/ssd1306/bitbang"
//		"github.com/flavioheleno/ssd1306/fonts"
//		"github.com/flavioheleno/ssd1306/raster"
//		"github.com/flavioheleno/ssd1306/text"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		bus, _ := bitbang.New(gpioreg.ByName("GPIO6"), gpioreg.ByName("GPIO7"), nil)
//		dev, _ := ssd1306.NewI2C(bus, &ssd1306.Opts{RST: gpioreg.ByName("GPIO8")})
//		defer dev.Halt()
//
//		fb := dev.Frame()
//		raster.Circle(fb, 64, 32, 20)
//		r, _ := text.NewRenderer(fb, fonts.AllASCII(), nil)
//		r.String(0, 0, "Hello", 16, true)
//		dev.Refresh()
//	}
//
// # Drawing
//
// Primitives draw on the frame only. Nothing reaches the panel until Refresh,
// which sends the 8 pages in turn: page address, column address, then the 128
// data bytes in a single transaction. Write and Draw load a whole image and
// refresh in one call.
//
// ScrollHorizontal starts the controller's own scroll of a range of pages,
// with no bus traffic per step. StopScroll ends it; refresh afterwards, as the
// display RAM is left shifted.
//
// # Initialization
//
// New pulses the reset line, sends the configuration commands one per
// transaction, clears the panel and turns it on. The command order is the
// one the panel vendor requires; do not reorder it.
//
// # Logging
//
// The device traces reset, initialization, power and orientation changes at
// Debug level on Opts.Logger.
package ssd1306

package hostio

import (
	"errors"
	"fmt"

	"github.com/davecheney/i2c"
	pi2c "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// i2cWriter is the subset of *i2c.I2C used by I2CDev.
type i2cWriter interface {
	Write(b []byte) (int, error)
	Close() error
}

// I2CDev is a hardware I²C adapter bound to a single device address through
// /dev/i2c-N.
//
// It implements i2c.Bus for that address only. Each Tx is one kernel write,
// so the adapter generates the start and stop conditions.
type I2CDev struct {
	w    i2cWriter
	bus  int
	addr uint16
}

// OpenI2C opens /dev/i2c-<bus> for the device at addr.
func OpenI2C(bus int, addr uint16) (*I2CDev, error) {
	if addr > 0x7F {
		return nil, fmt.Errorf("hostio: invalid 7-bit address 0x%X", addr)
	}
	w, err := i2c.New(uint8(addr), bus)
	if err != nil {
		return nil, fmt.Errorf("hostio: i2c-%d: %w", bus, err)
	}
	return &I2CDev{w: w, bus: bus, addr: addr}, nil
}

// String returns the device node and address.
func (d *I2CDev) String() string {
	return fmt.Sprintf("i2c-%d@0x%02X", d.bus, d.addr)
}

// Tx writes w to the bound device. Reads are not supported.
func (d *I2CDev) Tx(addr uint16, w, r []byte) error {
	if len(r) != 0 {
		return errors.New("hostio: read transactions are not supported")
	}
	if addr != d.addr {
		return fmt.Errorf("hostio: %s cannot address 0x%02X", d, addr)
	}
	n, err := d.w.Write(w)
	if err != nil {
		return fmt.Errorf("hostio: %s: %w", d, err)
	}
	if n != len(w) {
		return fmt.Errorf("hostio: %s: short write %d of %d bytes", d, n, len(w))
	}
	return nil
}

// SetSpeed is not supported; the kernel driver owns the bus clock.
func (d *I2CDev) SetSpeed(f physic.Frequency) error {
	return fmt.Errorf("hostio: %s: the bus speed is set by the kernel", d)
}

// Close releases the device node.
func (d *I2CDev) Close() error {
	return d.w.Close()
}

var _ pi2c.Bus = &I2CDev{}

// Package hostio adapts host GPIO and I²C drivers outside periph.io to the
// periph.io interfaces used by the display stack.
//
// RPIOPin drives a Raspberry Pi GPIO through the memory-mapped registers of
// go-rpio, which is much faster than sysfs when bit-banging. CdevPin requests
// a line from the Linux GPIO character device. I2CDev sends transactions
// through the kernel /dev/i2c-N driver.
package hostio

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// errPWM is returned by PWM on every pin of this package.
var errPWM = errors.New("hostio: PWM is not supported")

// rpioLine is the subset of rpio.Pin used by RPIOPin.
type rpioLine interface {
	Input()
	Output()
	High()
	Low()
	Read() rpio.State
	PullUp()
	PullDown()
	PullOff()
	Detect(edge rpio.Edge)
	EdgeDetected() bool
}

// RPIOPin is a BCM GPIO driven through go-rpio.
//
// rpio.Open must have succeeded before the pin is used.
type RPIOPin struct {
	l    rpioLine
	num  int
	pull gpio.Pull
	out  bool
	edge bool
}

// NewRPIOPin returns the BCM GPIO num. The pin direction is left unchanged
// until the first In or Out.
func NewRPIOPin(num int) *RPIOPin {
	return &RPIOPin{l: rpio.Pin(num), num: num, pull: gpio.PullNoChange}
}

// String returns the pin name.
func (p *RPIOPin) String() string {
	return p.Name()
}

// Name returns the BCM name of the pin, like GPIO17.
func (p *RPIOPin) Name() string {
	return "GPIO" + strconv.Itoa(p.num)
}

// Number returns the BCM number.
func (p *RPIOPin) Number() int {
	return p.num
}

// Function returns the current direction.
func (p *RPIOPin) Function() string {
	if p.out {
		return "Out"
	}
	return "In"
}

// Halt stops edge detection.
func (p *RPIOPin) Halt() error {
	if p.edge {
		p.l.Detect(rpio.NoEdge)
		p.edge = false
	}
	return nil
}

// In configures the pin as an input with the given pull and edge detection.
func (p *RPIOPin) In(pull gpio.Pull, edge gpio.Edge) error {
	e, err := rpioEdge(edge)
	if err != nil {
		return fmt.Errorf("hostio: %s: %w", p, err)
	}
	p.l.Input()
	p.out = false
	switch pull {
	case gpio.PullUp:
		p.l.PullUp()
	case gpio.PullDown:
		p.l.PullDown()
	case gpio.Float:
		p.l.PullOff()
	case gpio.PullNoChange:
	default:
		return fmt.Errorf("hostio: %s: unknown pull %s", p, pull)
	}
	if pull != gpio.PullNoChange {
		p.pull = pull
	}
	p.l.Detect(e)
	p.edge = edge != gpio.NoEdge
	return nil
}

// Read returns the current level of the pin.
func (p *RPIOPin) Read() gpio.Level {
	return p.l.Read() == rpio.High
}

// WaitForEdge polls for the edge selected by In. A negative timeout waits
// forever.
func (p *RPIOPin) WaitForEdge(timeout time.Duration) bool {
	if !p.edge {
		return false
	}
	deadline := time.Now().Add(timeout)
	for {
		if p.l.EdgeDetected() {
			return true
		}
		if timeout >= 0 && !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// Pull returns the last pull set by In.
func (p *RPIOPin) Pull() gpio.Pull {
	return p.pull
}

// DefaultPull returns PullNoChange; the reset state of each BCM pin differs.
func (p *RPIOPin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out drives the pin, switching it to output first if needed.
func (p *RPIOPin) Out(l gpio.Level) error {
	if !p.out {
		p.Halt()
		p.l.Output()
		p.out = true
	}
	if l {
		p.l.High()
	} else {
		p.l.Low()
	}
	return nil
}

// PWM is not supported.
func (p *RPIOPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errPWM
}

func rpioEdge(e gpio.Edge) (rpio.Edge, error) {
	switch e {
	case gpio.NoEdge:
		return rpio.NoEdge, nil
	case gpio.RisingEdge:
		return rpio.RiseEdge, nil
	case gpio.FallingEdge:
		return rpio.FallEdge, nil
	case gpio.BothEdges:
		return rpio.AnyEdge, nil
	}
	return rpio.NoEdge, fmt.Errorf("unknown edge %s", e)
}

var _ gpio.PinIO = &RPIOPin{}

package hostio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Consumer is the label shown for lines requested by this package.
const Consumer = "ssd1306"

// cdevLine is the subset of gpiocdev.Line used by CdevPin.
type cdevLine interface {
	SetValue(value int) error
	Value() (int, error)
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	Close() error
}

// CdevPin is a GPIO line requested from the Linux GPIO character device.
//
// Edge detection is not supported.
type CdevPin struct {
	l      cdevLine
	chip   string
	offset int
	pull   gpio.Pull
	out    bool
}

// NewCdevPin requests line offset of chip, like "gpiochip0", as an output
// driven high: the idle level of both bus lines.
func NewCdevPin(chip string, offset int) (*CdevPin, error) {
	l, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(1), gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("hostio: %s:%d: %w", chip, offset, err)
	}
	return &CdevPin{l: l, chip: chip, offset: offset, pull: gpio.PullNoChange, out: true}, nil
}

// String returns the chip and offset of the line.
func (p *CdevPin) String() string {
	return fmt.Sprintf("%s:%d", p.chip, p.offset)
}

// Name returns the same as String.
func (p *CdevPin) Name() string {
	return p.String()
}

// Number returns the line offset within its chip.
func (p *CdevPin) Number() int {
	return p.offset
}

// Function returns the current direction.
func (p *CdevPin) Function() string {
	if p.out {
		return "Out"
	}
	return "In"
}

// Halt releases the line.
func (p *CdevPin) Halt() error {
	return p.l.Close()
}

// In reconfigures the line as an input with the given bias.
func (p *CdevPin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return fmt.Errorf("hostio: %s: edge detection is not supported", p)
	}
	opts := []gpiocdev.LineConfigOption{gpiocdev.AsInput}
	switch pull {
	case gpio.PullUp:
		opts = append(opts, gpiocdev.WithPullUp)
	case gpio.PullDown:
		opts = append(opts, gpiocdev.WithPullDown)
	case gpio.Float:
		opts = append(opts, gpiocdev.WithBiasDisabled)
	case gpio.PullNoChange:
	default:
		return fmt.Errorf("hostio: %s: unknown pull %s", p, pull)
	}
	if err := p.l.Reconfigure(opts...); err != nil {
		return fmt.Errorf("hostio: %s: %w", p, err)
	}
	if pull != gpio.PullNoChange {
		p.pull = pull
	}
	p.out = false
	return nil
}

// Read returns the level of the line, Low if it cannot be read.
func (p *CdevPin) Read() gpio.Level {
	v, err := p.l.Value()
	return err == nil && v != 0
}

// WaitForEdge always returns false.
func (p *CdevPin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull returns the last bias set by In.
func (p *CdevPin) Pull() gpio.Pull {
	return p.pull
}

// DefaultPull returns PullNoChange.
func (p *CdevPin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out drives the line, switching it back to output first if needed.
func (p *CdevPin) Out(l gpio.Level) error {
	v := 0
	if l {
		v = 1
	}
	if !p.out {
		if err := p.l.Reconfigure(gpiocdev.AsOutput(v)); err != nil {
			return fmt.Errorf("hostio: %s: %w", p, err)
		}
		p.out = true
		return nil
	}
	if err := p.l.SetValue(v); err != nil {
		return fmt.Errorf("hostio: %s: %w", p, err)
	}
	return nil
}

// PWM is not supported.
func (p *CdevPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errPWM
}

var _ gpio.PinIO = &CdevPin{}

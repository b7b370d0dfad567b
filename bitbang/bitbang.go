// Package bitbang drives a two-wire (I²C style) bus by toggling two GPIO
// lines.
//
// The bus is a single master, write-only implementation: no clock
// stretching, no arbitration and no read transactions. Every line transition
// is followed by a fixed busy-wait of half a clock period.
//
// By default the acknowledgment bit is clocked but never sampled, so a
// missing device goes unnoticed. Set Opts.CheckAck with an SDA line that
// implements gpio.PinIO to detect it.
//
// Bus implements i2c.Bus so it can back an i2c.Dev:
//
//	b, _ := bitbang.New(gpioreg.ByName("GPIO6"), gpioreg.ByName("GPIO7"), nil)
//	d := &i2c.Dev{Bus: b, Addr: 0x3C}
//	d.Write([]byte{0x00, 0xAF})
package bitbang

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrNack is returned when CheckAck is set and a byte was not
	// acknowledged. The transaction still ran to its stop condition.
	ErrNack = errors.New("bitbang: no acknowledgment")
	// ErrReadUnsupported is returned by Tx when a read is requested.
	ErrReadUnsupported = errors.New("bitbang: read transactions are not supported")
)

// Mode selects the stream a byte belongs to.
type Mode byte

const (
	Command Mode = 0x00 // Control byte of a command stream
	Data    Mode = 0x40 // Control byte of a data stream
)

// Opts is the configuration for the bus.
type Opts struct {
	// Freq is the clock frequency. Each transition waits Freq.Period()/2.
	// Defaults to 400kHz.
	Freq physic.Frequency
	// CheckAck samples SDA during the acknowledgment clock. It requires an
	// SDA line implementing gpio.PinIO.
	CheckAck bool
}

// Bus is a bit-banged two-wire master.
type Bus struct {
	scl, sda gpio.PinOut
	sdaIn    gpio.PinIO // Set when acknowledgments are sampled
	delay    time.Duration

	err  error // First GPIO failure of the current transaction
	nack bool
}

// New returns a Bus clocking scl and driving sda.
//
// opts can be nil to use defaults.
func New(scl, sda gpio.PinOut, opts *Opts) (*Bus, error) {
	if scl == nil || sda == nil {
		return nil, errors.New("bitbang: scl and sda must be provided")
	}
	if opts == nil {
		opts = &Opts{}
	}
	b := &Bus{scl: scl, sda: sda}
	if opts.CheckAck {
		in, ok := sda.(gpio.PinIO)
		if !ok {
			return nil, fmt.Errorf("bitbang: %s cannot be read to check acknowledgments", sda)
		}
		b.sdaIn = in
	}
	f := opts.Freq
	if f == 0 {
		f = 400 * physic.KiloHertz
	}
	if err := b.SetSpeed(f); err != nil {
		return nil, err
	}
	return b, nil
}

// String returns a string representation of the bus.
func (b *Bus) String() string {
	return fmt.Sprintf("bitbang.Bus{%s, %s}", b.scl, b.sda)
}

// SetSpeed changes the clock frequency.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	if f <= 0 {
		return fmt.Errorf("bitbang: invalid frequency %s", f)
	}
	b.delay = f.Period() / 2
	return nil
}

// Tx writes w to the device at addr in a single transaction: start, address,
// every byte of w each followed by an acknowledgment clock, stop.
//
// This is the bulk streaming mode; a display refresh sends a whole page in
// one call.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if len(r) != 0 {
		return ErrReadUnsupported
	}
	if addr > 0x7F {
		return fmt.Errorf("bitbang: invalid 7-bit address 0x%X", addr)
	}
	b.err = nil
	b.nack = false

	b.start()
	b.sendByte(byte(addr << 1))
	b.ackWait()
	for _, v := range w {
		b.sendByte(v)
		b.ackWait()
	}
	if b.err != nil {
		b.abort()
		return b.err
	}
	b.stop()
	if b.err != nil {
		b.abort()
		return b.err
	}
	if b.nack {
		return fmt.Errorf("%w from 0x%02X", ErrNack, addr)
	}
	return nil
}

// Write sends a transaction of the given mode to addr: start, address,
// control byte, payload, stop. With a single payload byte this is the
// one-byte command or data write.
func (b *Bus) Write(addr uint16, mode Mode, payload ...byte) error {
	return b.Tx(addr, append([]byte{byte(mode)}, payload...), nil)
}

// start emits a start condition: SDA falls while SCL is high.
func (b *Bus) start() {
	b.set(b.sda, gpio.High)
	b.set(b.scl, gpio.High)
	b.wait()
	b.set(b.sda, gpio.Low)
	b.wait()
	b.set(b.scl, gpio.Low)
	b.wait()
}

// stop emits a stop condition: SDA rises while SCL is high.
func (b *Bus) stop() {
	b.set(b.sda, gpio.Low)
	b.set(b.scl, gpio.High)
	b.wait()
	b.set(b.sda, gpio.High)
}

// abort drives a stop condition after a failed transition, ignoring further
// errors, so the device sees the transaction end and both lines idle high.
func (b *Bus) abort() {
	steps := []struct {
		p gpio.PinOut
		l gpio.Level
	}{
		{b.scl, gpio.Low},
		{b.sda, gpio.Low},
		{b.scl, gpio.High},
		{b.sda, gpio.High},
	}
	for _, s := range steps {
		_ = s.p.Out(s.l)
		b.wait()
	}
}

// ackWait releases SDA and pulses the clock once for the acknowledgment bit.
func (b *Bus) ackWait() {
	b.set(b.sda, gpio.High)
	b.wait()
	b.set(b.scl, gpio.High)
	b.wait()
	if b.sdaIn != nil && b.err == nil {
		if err := b.sdaIn.In(gpio.PullUp, gpio.NoEdge); err != nil {
			b.err = fmt.Errorf("bitbang: %s: %w", b.sdaIn, err)
		} else if b.sdaIn.Read() == gpio.High {
			b.nack = true
		}
	}
	b.set(b.scl, gpio.Low)
	b.wait()
}

// sendByte shifts v out MSB first, one clock pulse per bit.
func (b *Bus) sendByte(v byte) {
	for i := 0; i < 8; i++ {
		b.set(b.sda, gpio.Level(v&0x80 != 0))
		b.wait()
		b.set(b.scl, gpio.High)
		b.wait()
		b.set(b.scl, gpio.Low)
		v <<= 1
	}
}

// set drives p to l unless a previous transition of the transaction failed.
func (b *Bus) set(p gpio.PinOut, l gpio.Level) {
	if b.err != nil {
		return
	}
	if err := p.Out(l); err != nil {
		b.err = fmt.Errorf("bitbang: %s: %w", p, err)
	}
}

// wait busy-waits for half a clock period without yielding.
func (b *Bus) wait() {
	if b.delay <= 0 {
		return
	}
	for deadline := time.Now().Add(b.delay); time.Now().Before(deadline); {
	}
}

var _ i2c.Bus = &Bus{}

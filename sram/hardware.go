//go:build hardware

package sram

import (
	"machine"
	"time"
)

// Bit-banged SPI command set for the ENC28J60-class controller this
// façade targets. Only the three opcodes the loader needs (buffer
// read, buffer write, control-register write) are present;
// the chip's packet-engine and register-bank commands belong to the
// Ethernet collaborator, not here.
const (
	opReadBufferMemory  = 0x3A
	opWriteBufferMemory = 0x7A
	opWriteControlReg   = 0x40

	regERDPTL = 0x00
	regERDPTH = 0x01
	regEWRPTL = 0x02
	regEWRPTH = 0x03
)

const readyPollTimeout = 3 * time.Second

// Pins wires the bit-banged SPI bus: clock, data out (MOSI), data in
// (MISO), and chip select.
type Pins struct {
	SCLK machine.Pin
	MOSI machine.Pin
	MISO machine.Pin
	CS   machine.Pin
}

// Bus is the hardware Device implementation: a bit-banged SPI master
// talking to the controller's on-chip buffer memory.
type Bus struct {
	pins Pins
}

// NewBus configures the pins and returns a ready Bus.
func NewBus(pins Pins) *Bus {
	pins.SCLK.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.MOSI.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.MISO.Configure(machine.PinConfig{Mode: machine.PinInput})
	pins.CS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.CS.High()
	pins.SCLK.Low()
	return &Bus{pins: pins}
}

func (b *Bus) waitReady() error {
	deadline := time.Now().Add(readyPollTimeout)
	for {
		if b.pins.MISO.Get() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrNotReady
		}
	}
}

func (b *Bus) xfer(out byte) byte {
	var in byte
	for bit := 7; bit >= 0; bit-- {
		if out&(1<<uint(bit)) != 0 {
			b.pins.MOSI.High()
		} else {
			b.pins.MOSI.Low()
		}
		b.pins.SCLK.High()
		in <<= 1
		if b.pins.MISO.Get() {
			in |= 1
		}
		b.pins.SCLK.Low()
	}
	return in
}

func (b *Bus) writeControlReg(addr, value byte) {
	b.pins.CS.Low()
	b.xfer(opWriteControlReg | addr)
	b.xfer(value)
	b.pins.CS.High()
}

func (b *Bus) setReadPointer(off uint16) {
	b.writeControlReg(regERDPTL, byte(off))
	b.writeControlReg(regERDPTH, byte(off>>8))
}

func (b *Bus) setWritePointer(off uint16) {
	b.writeControlReg(regEWRPTL, byte(off))
	b.writeControlReg(regEWRPTH, byte(off>>8))
}

func (b *Bus) ReadInto(dst []byte, srcOff uint16) error {
	if err := checkRange(srcOff, len(dst)); err != nil {
		return err
	}
	if err := b.waitReady(); err != nil {
		return err
	}
	b.setReadPointer(srcOff)
	b.pins.CS.Low()
	defer b.pins.CS.High()
	b.xfer(opReadBufferMemory)
	for i := range dst {
		dst[i] = b.xfer(0x00)
	}
	return nil
}

func (b *Bus) WriteFrom(src []byte, dstOff uint16) error {
	if err := checkRange(dstOff, len(src)); err != nil {
		return err
	}
	if err := b.waitReady(); err != nil {
		return err
	}
	b.setWritePointer(dstOff)
	b.pins.CS.Low()
	defer b.pins.CS.High()
	b.xfer(opWriteBufferMemory)
	for _, v := range src {
		b.xfer(v)
	}
	return nil
}

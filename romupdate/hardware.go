//go:build hardware

package romupdate

import "machine"

// FlashPart drives the ROM part's parallel programming interface
// directly; the teacher's ota package does the equivalent over the
// RP2350's bootrom flash functions, but this loader's ROM part has no
// such helper, so the erase/program pulses are bit-banged the same
// way sram.Bus bit-bangs SPI.
type FlashPart struct {
	pins FlashPins
}

// FlashPins wires the parallel programming control lines: address
// latch enable, write enable, chip enable, and the shared data bus.
type FlashPins struct {
	ALE machine.Pin
	WE  machine.Pin
	CE  machine.Pin
	Data [8]machine.Pin
}

func NewFlashPart(pins FlashPins) *FlashPart {
	pins.ALE.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.WE.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pins.CE.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for _, p := range pins.Data {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	pins.CE.High()
	pins.WE.High()
	return &FlashPart{pins: pins}
}

func (f *FlashPart) latchAddress(addr uint32) {
	f.pins.ALE.High()
	f.writeByte(byte(addr))
	f.writeByte(byte(addr >> 8))
	f.writeByte(byte(addr >> 16))
	f.pins.ALE.Low()
}

func (f *FlashPart) writeByte(v byte) {
	for i, p := range f.pins.Data {
		if v&(1<<uint(i)) != 0 {
			p.High()
		} else {
			p.Low()
		}
	}
	f.pins.CE.Low()
	f.pins.WE.Low()
	f.pins.WE.High()
	f.pins.CE.High()
}

func (f *FlashPart) EraseSector(offset uint32) error {
	f.latchAddress(offset)
	f.writeByte(0x20) // sector-erase command, matches the teacher's FLASH_SECTOR_ERASE_CMD
	return nil
}

func (f *FlashPart) WriteChunk(offset uint32, data []byte) error {
	for i, b := range data {
		f.latchAddress(offset + uint32(i))
		f.writeByte(b)
	}
	return nil
}

// Latch is the hardware BankSelect: a single output pin wired to the
// ROM part's A14 line (or equivalent bank-select address bit),
// holding no state across a power cycle.
type Latch struct {
	pin machine.Pin
}

func NewLatch(pin machine.Pin) *Latch {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pin.Low()
	return &Latch{pin: pin}
}

func (l *Latch) ActiveBank() int {
	if l.pin.Get() {
		return BankB
	}
	return BankA
}

func (l *Latch) SetActiveBank(bank int) error {
	switch bank {
	case BankA:
		l.pin.Low()
	case BankB:
		l.pin.High()
	default:
		return ErrInvalidBank
	}
	return nil
}

//go:build hardware

package ui

// inPort and outPort are the keyboard-scan and ULA-border primitives;
// haltCPU issues the Z80 HALT instruction. None of these has a
// Go-expressible form, the same reason ctxswitch drops to assembly
// for its jump and interrupt-disable primitives — see
// ctxswitch/leap_hardware.s.
func inPort(rowSelect byte) byte
func outPort(port uint16, value byte)
func diInstruction()
func haltInstruction()

// HardwareKeyboard reads the real keyboard matrix.
type HardwareKeyboard struct{}

func (HardwareKeyboard) ScanRow(rowSelect byte) byte { return inPort(rowSelect) }

// HardwareHalt drives the real ULA border port and CPU.
type HardwareHalt struct{}

func (HardwareHalt) DisableInterrupts() { diInstruction() }
func (HardwareHalt) SetBorder(color byte) {
	outPort(0x00FE, color&0x07)
}
func (HardwareHalt) HaltCPU() { haltInstruction() }

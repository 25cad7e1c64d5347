//go:build hardware

package ctxswitch

import "unsafe"

// hardwareMem is the real host's byte-addressable memory, viewed
// through an unsafe pointer the same way sram's bit-banged bus reaches
// past Go's normal memory model to talk to silicon. On this target
// writing to an address *is* writing to RAM — there is no separate
// "device" to go through the way there is for off-chip SRAM.
func hardwareMem() *[0x10000]byte {
	return (*[0x10000]byte)(unsafe.Pointer(uintptr(0)))
}

// jumpTo transfers control to addr and never returns. Implemented in
// leap_hardware.s: this is exactly the class of primitive (a bare
// unconditional jump into freshly-written code) no Go statement can
// express, the same reason runtime-internal packages drop to
// assembly for instructions the compiler has no syntax for.
func jumpTo(addr uint16)

// HardwareIRQGate issues a real DI.
type HardwareIRQGate struct{}

func (HardwareIRQGate) Disable() { diInstruction() }

// diInstruction is the single assembly stub for step 1, kept separate
// from jumpTo because it must run before the trampoline is even built.
func diInstruction()

// HardwareLeaper writes the assembled trampoline into video RAM and
// jumps into it. It does not return.
type HardwareLeaper struct{}

func (HardwareLeaper) Leap(tr Trampoline) {
	code := BuildTrampolineBytes(tr)
	mem := hardwareMem()
	copy(mem[TrampolineBase:], code)
	jumpTo(TrampolineBase)
}

package ctxswitch

import (
	"speccyboot/evac"
	"speccyboot/memmap"
	"speccyboot/snapshot"
)

// IRQGate is the single step-1 primitive: disable interrupts before
// anything else in the switch sequence runs. Kept separate from Leaper
// because it is meaningful even before the trampoline exists, and
// because a fake IRQGate lets tests assert step ordering without also
// faking the full register load.
type IRQGate interface {
	Disable()
}

// Leaper is the narrowest possible hardware-specific primitive for
// steps 2 through 10 of the switch: build the trampoline in video RAM,
// program the alternate and main register banks, border and (for a
// 128-KiB target) paging register, page the loader out of the ROM
// window, and jump. Leap never returns on a real target; the
// !hardware fake returns normally so tests can inspect what it was
// asked to do.
type Leaper interface {
	Leap(Trampoline)
}

// Switcher drives the context switch (C7) described by spec section
// 4.7: disable interrupts, build the trampoline, restore R from
// off-chip storage, then hand off to the Leaper. Nothing after Restore
// may call back into loader code other than the trampoline itself,
// which is why Restore is threaded through explicitly rather than
// folded into Leap.
type Switcher struct {
	mm   *memmap.Map
	ev   *evac.Evacuator
	irq  IRQGate
	leap Leaper
}

// New builds a Switcher. mm supplies RuntimeSlice as the restore
// destination; ev is the same evacuator the parser staged bytes into
// during loading.
func New(mm *memmap.Map, ev *evac.Evacuator, irq IRQGate, leap Leaper) *Switcher {
	return &Switcher{mm: mm, ev: ev, irq: irq, leap: leap}
}

// Switch runs the full sequence. It returns an error only if Restore
// fails (off-chip storage unreadable, or called out of order) — once
// Leap is called, the function has handed control away and, on real
// hardware, never returns at all.
func (s *Switcher) Switch(h *snapshot.Header) error {
	s.irq.Disable() // step 1

	tr := BuildTrampoline(h) // step 2 (register state only; trampoline bytes are Leap's concern)

	if err := s.ev.Restore(s.mm.RuntimeSlice()); err != nil { // step 3
		return err
	}

	s.leap.Leap(tr) // steps 4-10
	return nil
}

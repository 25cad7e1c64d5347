// Package ctxswitch implements the context switcher (C7): the
// register-reconstruction and final jump sequence that hands control
// from the loader to the program a snapshot describes.
package ctxswitch

import "speccyboot/snapshot"

// Trampoline is the fully resolved register/paging state the final
// jump sequence programs. It is pure data — computing it touches no
// hardware — so it can be built and asserted against in host tests
// independent of the Leaper that consumes it.
type Trampoline struct {
	A, F, B, C, D, E, H, L         byte
	A2, F2, B2, C2, D2, E2, H2, L2 byte
	IX, IY                         uint16
	I, R                           byte
	SP, PC                         uint16
	IM                             byte
	IFF1                           bool
	Border                         byte
	Is128K                         bool
	PagingValue                    byte
}

// BuildTrampoline resolves a parsed header into the register state the
// Leaper will program. It performs no I/O.
func BuildTrampoline(h *snapshot.Header) Trampoline {
	return Trampoline{
		A: h.A, F: h.F, B: h.B, C: h.C, D: h.D, E: h.E, H: h.H, L: h.L,
		A2: h.A2, F2: h.F2, B2: h.B2, C2: h.C2, D2: h.D2, E2: h.E2, H2: h.H2, L2: h.L2,
		IX: h.IX, IY: h.IY,
		I: h.I, R: h.ReconstructedR(),
		SP: h.SP, PC: h.PC,
		IM:     h.IM,
		IFF1:   h.IFF1,
		Border: h.Border(),
		Is128K: snapshot.Is128K(h.HWType),
		// PagingValue is only meaningful (and only programmed, per step
		// 8 of the switch) when Is128K is true.
		PagingValue: h.ExtPaging,
	}
}

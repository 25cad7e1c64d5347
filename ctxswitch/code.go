package ctxswitch

import "speccyboot/memmap"

// TrampolineBase is where the trampoline's machine code is assembled.
// It must sit outside R, since step 3 of the switch (restoring R from
// off-chip storage) runs immediately after the trampoline is built and
// would otherwise overwrite it before it has a chance to run. The
// video bitmap region is the obvious choice: by the time the
// trampoline executes, whatever picture the snapshot put there no
// longer matters, and it is the one region guaranteed free of stack,
// statics and attributes.
const TrampolineBase = memmap.VideoBitmapBase

// Z80 opcodes used by the trampoline. Only the handful the switch
// sequence needs; this is not a general assembler.
const (
	opExAFAF   = 0x08
	opExx      = 0xD9
	opDI       = 0xF3
	opEI       = 0xFB
	opLDA_n    = 0x3E
	opLDBC_nn  = 0x01
	opLDDE_nn  = 0x11
	opLDHL_nn  = 0x21
	opLDSP_nn  = 0x31
	opPopAF    = 0xF1
	opJP_nn    = 0xC3
	opPrefixED = 0xED
	opPrefixDD = 0xDD
	opPrefixFD = 0xFD

	edLDIA  = 0x47 // ED 47: LD I, A
	edLDRA  = 0x4F // ED 4F: LD R, A
	edIM0   = 0x46
	edIM1   = 0x56
	edIM2   = 0x5E
	edOUTCL = 0x69 // ED 69: OUT (C), L

	// romPageOutPort is the loader's own ROM-overlay paging-control
	// port. The overlay is gated by a single write-triggered latch, not
	// a multi-bit register, so the byte written is irrelevant — only
	// the write itself matters, and it cannot be undone short of a
	// hardware reset.
	romPageOutPort = 0x9F
)

// Static assertion: TrampolineBase must sit entirely outside the ROM
// window step 9 pages back in. If it didn't, the host's native ROM
// would reappear underneath the still-executing trampoline the instant
// that write happens.
const _ uint = TrampolineBase - (memmap.ROMWindowBase + memmap.ROMWindowLen)

// asm is a small growable-byte-slice builder kept free of allocator
// assumptions (append is all it needs) — there is no assembler
// package anywhere in the pack to reach for, and this is a dozen
// opcodes, not a general encoder.
type asm struct{ buf []byte }

func (a *asm) b(v ...byte) { a.buf = append(a.buf, v...) }
func (a *asm) w(v uint16)  { a.buf = append(a.buf, byte(v), byte(v>>8)) }

// BuildTrampolineBytes assembles the machine code for steps 4 through
//10 of the switch. It never clobbers a register after it receives its
// final snapshot value: border, paging and ROM page-out are programmed
// through BC and L (via the ED-prefixed OUT (C), r form, which accepts
// any register, not just A) before the main-bank B..L loads, and A and
// F are loaded last by a single POP AF.
func BuildTrampolineBytes(tr Trampoline) []byte {
	var a asm

	// Step 4: alternate bank. AF' via the classic push/pop trick (Z80
	// has no direct "load alternate register" instruction): point SP
	// at an inline two-byte scratch word holding (F', A'), pop into
	// the currently-selected AF, then swap back so the values land in
	// the alternate set.
	var scratchAF2 uint16 = TrampolineBase + 0x0100 // fixed scratch word, well clear of this code
	a.b(opExAFAF)
	a.b(opLDSP_nn)
	a.w(scratchAF2)
	a.b(opPopAF)
	a.b(opExAFAF)

	a.b(opExx)
	a.b(opLDBC_nn)
	a.w(uint16(tr.B2)<<8 | uint16(tr.C2))
	a.b(opLDDE_nn)
	a.w(uint16(tr.D2)<<8 | uint16(tr.E2))
	a.b(opLDHL_nn)
	a.w(uint16(tr.H2)<<8 | uint16(tr.L2))
	a.b(opExx)

	// Step 5: IX, IY, I, R. SP is repointed again afterward for the
	// final main-bank AF pop, which supplies F (also with no direct
	// load instruction) and doubles as step 6's "load A".
	a.b(opPrefixDD, 0x21) // LD IX, nn
	a.w(tr.IX)
	a.b(opPrefixFD, 0x21) // LD IY, nn
	a.w(tr.IY)
	a.b(opLDA_n, tr.I)
	a.b(opPrefixED, edLDIA)
	a.b(opLDA_n, tr.R)
	a.b(opPrefixED, edLDRA)

	// Main-bank B, C, D, E, H, L, loaded here and again after step 9
	// below: steps 7-9 overwrite BC and HL, so the later load is the one
	// that reaches H.PC.
	a.b(opLDBC_nn)
	a.w(uint16(tr.B)<<8 | uint16(tr.C))
	a.b(opLDDE_nn)
	a.w(uint16(tr.D)<<8 | uint16(tr.E))
	a.b(opLDHL_nn)
	a.w(uint16(tr.H)<<8 | uint16(tr.L))

	// Step 7: border, via L and OUT (C), L so A stays free for the
	// deferred final load.
	a.b(opLDBC_nn)
	a.w(0x00FE) // C selects the ULA border/speaker/mic port
	a.b(opLDHL_nn)
	a.w(uint16(tr.Border & 0x07))
	a.b(opPrefixED, edOUTCL)

	// Step 8: 128-KiB paging register, skipped entirely for 48-KiB
	// targets (the paging byte is meaningless there).
	if tr.Is128K {
		a.b(opLDBC_nn)
		a.w(0x7FFD)
		a.b(opLDHL_nn)
		a.w(uint16(tr.PagingValue))
		a.b(opPrefixED, edOUTCL)
	}

	// Step 9: page the loader's own ROM out, restoring the host's
	// native ROM into memmap.ROMWindowBase..+ROMWindowLen, the address
	// range H.PC is about to run in. L still holds whatever step 7 or
	// 8 last loaded; that value is irrelevant here, only the write is.
	a.b(opLDBC_nn)
	a.w(romPageOutPort)
	a.b(opPrefixED, edOUTCL)

	// Step 6 (B, C, D, E, H, L only — A is deferred to the final pop),
	// placed after every OUT (C), L so none of them clobbers these.
	a.b(opLDBC_nn)
	a.w(uint16(tr.B)<<8 | uint16(tr.C))
	a.b(opLDDE_nn)
	a.w(uint16(tr.D)<<8 | uint16(tr.E))
	a.b(opLDHL_nn)
	a.w(uint16(tr.H)<<8 | uint16(tr.L))

	// Final main-bank AF (A and F together) and SP, then interrupt
	// mode/state, then the jump. Nothing after this point may read or
	// write A, F or SP again until H.PC's own code does.
	var scratchAF uint16 = TrampolineBase + 0x0102
	a.b(opLDSP_nn)
	a.w(scratchAF)
	a.b(opPopAF)
	a.b(opLDSP_nn)
	a.w(tr.SP)

	switch tr.IM {
	case 1:
		a.b(opPrefixED, edIM1)
	case 2:
		a.b(opPrefixED, edIM2)
	default:
		a.b(opPrefixED, edIM0)
	}
	if tr.IFF1 {
		a.b(opEI)
	} else {
		a.b(opDI)
	}

	a.b(opJP_nn)
	a.w(tr.PC)

	// The two scratch words the POP AF tricks above read from are data,
	// not instructions; they live well past the linear instruction
	// stream (which jumps away at the JP above long before reaching
	// them) at the fixed offsets the LD SP, nn loads pointed at.
	a.putWordAt(0x0100, tr.F2, tr.A2)
	a.putWordAt(0x0102, tr.F, tr.A)

	return a.buf
}

// putWordAt sets buf[offset] = lo, buf[offset+1] = hi, growing the
// buffer with zero bytes if it is not yet that long.
func (a *asm) putWordAt(offset int, lo, hi byte) {
	for len(a.buf) <= offset+1 {
		a.buf = append(a.buf, 0)
	}
	a.buf[offset] = lo
	a.buf[offset+1] = hi
}

// Package evac implements the evacuation mechanism: it intercepts
// writes destined for the loader's own runtime region, stages them in
// a scratch buffer, flushes that buffer to off-chip storage, and
// restores it into place once the loader will never run again.
//
// The evacuator is an injected collaborator: the parser calls it, but
// it holds no reference back to the parser. That keeps the conceptual
// cycle (parser triggers flush, flush boundary is defined by the
// parser's write pointer) out of the type graph.
package evac

import (
	"errors"

	"speccyboot/memmap"
	"speccyboot/sram"
)

// ErrAlreadyFlushed / ErrAlreadyRestored guard the at-most-once
// invariant on Flush and Restore. Triggering either twice is a bug in
// the caller, not a recoverable runtime condition, but returning an
// error rather than panicking keeps the evacuator testable.
var (
	ErrAlreadyFlushed  = errors.New("evac: flush already ran")
	ErrAlreadyRestored = errors.New("evac: restore already ran")
)

// Descriptor is the fixed tuple describing where evacuated bytes live
// at each stage.
type Descriptor struct {
	RuntimeBase uint16
	RuntimeLen  uint16
	ScratchBase uint16
	OffChipBase uint16
}

// DefaultDescriptor matches the loader's fixed layout.
var DefaultDescriptor = Descriptor{
	RuntimeBase: memmap.RuntimeBase,
	RuntimeLen:  memmap.RuntimeLen,
	ScratchBase: memmap.ScratchBase,
	OffChipBase: 0x1800,
}

// Evacuator owns the scratch buffer and the evacuating flag.
type Evacuator struct {
	desc       Descriptor
	scratch    [memmap.RuntimeLen]byte
	evacuating bool
	flushed    bool
	restored   bool
	offchip    sram.Device
}

// New builds an Evacuator that stages into a local scratch buffer and
// flushes/restores through dev.
func New(dev sram.Device, desc Descriptor) *Evacuator {
	return &Evacuator{desc: desc, offchip: dev}
}

// Evacuating reports whether at least one byte has been staged and
// Flush has not yet run.
func (e *Evacuator) Evacuating() bool { return e.evacuating }

// OnWrite implements memmap.Interceptor. If addr falls inside R, the
// byte is staged into the scratch buffer and true is returned (the
// caller must not also store it directly). Addresses outside R are
// reported as not intercepted.
func (e *Evacuator) OnWrite(addr uint16, b byte) bool {
	if addr < e.desc.RuntimeBase || addr >= e.desc.RuntimeBase+e.desc.RuntimeLen {
		return false
	}
	e.scratch[addr-e.desc.RuntimeBase] = b
	e.evacuating = true
	return true
}

// Flush copies the scratch buffer to off-chip storage. Must be called
// exactly once, at the moment the last byte belonging to R has been
// produced.
func (e *Evacuator) Flush() error {
	if e.flushed {
		return ErrAlreadyFlushed
	}
	if err := e.offchip.WriteFrom(e.scratch[:], e.desc.OffChipBase); err != nil {
		return err
	}
	e.flushed = true
	e.evacuating = false
	return nil
}

// Restore reads the evacuated bytes back from off-chip storage into
// dst, which must be exactly RuntimeLen bytes (memmap.Map.RuntimeSlice
// satisfies this). Must be called during the context switch, after
// loader code will never again be executed.
func (e *Evacuator) Restore(dst []byte) error {
	if e.restored {
		return ErrAlreadyRestored
	}
	if len(dst) != int(e.desc.RuntimeLen) {
		return errors.New("evac: restore destination has wrong length")
	}
	if err := e.offchip.ReadInto(dst, e.desc.OffChipBase); err != nil {
		return err
	}
	e.restored = true
	return nil
}

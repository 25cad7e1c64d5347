package ui

import (
	"errors"

	"speccyboot/snapshot"
)

// Error kinds not already owned by another package. ErrIncompatible
// and ErrEndOfData are snapshot's own; reused here rather than
// duplicated, since they are exactly the conditions those names
// already describe.
var (
	ErrNoNetworkResponse = errors.New("ui: no response from network within retry budget")
	ErrFileNotFound      = errors.New("ui: TFTP server reported file not found")
	ErrInvalidBootServer = errors.New("ui: boot server address reply malformed")
	ErrInternal          = errors.New("ui: internal error (SPI timeout, impossible parser state, unreachable branch)")
)

// Border palette indices, matching Header.Border's convention (black,
// blue, red, magenta, green, cyan, yellow, white).
const (
	borderRed     = 2
	borderMagenta = 3
	borderCyan    = 5
	borderYellow  = 6
	borderWhite   = 7
)

// BorderForError maps a fatal error to the palette index the halt
// sequence flashes. ErrEndOfData has no named color of its own in the
// kind-to-color table; it is grouped with ErrInternal (white) since
// both represent the transport or parser ending in a state the loader
// itself cannot recover from, as opposed to a clearly-diagnosed
// network or compatibility failure.
func BorderForError(err error) byte {
	switch {
	case errors.Is(err, ErrNoNetworkResponse):
		return borderRed
	case errors.Is(err, ErrFileNotFound):
		return borderYellow
	case errors.Is(err, snapshot.ErrIncompatible):
		return borderCyan
	case errors.Is(err, ErrInvalidBootServer):
		return borderMagenta
	case errors.Is(err, ErrInternal), errors.Is(err, snapshot.ErrEndOfData):
		return borderWhite
	default:
		return borderWhite
	}
}

// HaltPrimitive is the narrowest set of hardware operations the fatal
// error path needs: disable interrupts, set the border to a fixed
// color, and stop the CPU. Distinct from ctxswitch's IRQGate/Leaper —
// this runs from ordinary loader code still executing normally, not
// from the post-restore no-function-calls window those serve.
type HaltPrimitive interface {
	DisableInterrupts()
	SetBorder(color byte)
	HaltCPU()
}

// Halt runs the fatal error sequence described in the error-handling
// design: disable interrupts, flash the kind-specific border color,
// and stop. It does not return on real hardware.
func Halt(h HaltPrimitive, err error) {
	h.DisableInterrupts()
	h.SetBorder(BorderForError(err))
	h.HaltCPU()
}

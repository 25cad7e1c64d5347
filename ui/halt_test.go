//go:build !hardware

package ui

import (
	"errors"
	"testing"

	"speccyboot/snapshot"
)

func TestBorderForErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want byte
	}{
		{ErrNoNetworkResponse, borderRed},
		{ErrFileNotFound, borderYellow},
		{snapshot.ErrIncompatible, borderCyan},
		{ErrInvalidBootServer, borderMagenta},
		{ErrInternal, borderWhite},
		{snapshot.ErrEndOfData, borderWhite},
		{errors.New("unknown"), borderWhite},
	}
	for _, c := range cases {
		if got := BorderForError(c.err); got != c.want {
			t.Errorf("BorderForError(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestHaltSequenceStepsAndBorder(t *testing.T) {
	h := &FakeHalt{}
	Halt(h, ErrFileNotFound)
	if !h.InterruptsDisabled {
		t.Error("expected interrupts disabled")
	}
	if !h.BorderSet || h.Border != borderYellow {
		t.Errorf("Border = %d (set=%v), want %d", h.Border, h.BorderSet, borderYellow)
	}
	if !h.Halted {
		t.Error("expected HaltCPU to have been called")
	}
}

//go:build !hardware

package ui

import "testing"

func TestDecodeRowEnterTakesPriority(t *testing.T) {
	// Both bits clear (both held): ENTER wins.
	if got := DecodeRow(0x00); got != ActionExitToROM {
		t.Fatalf("DecodeRow(0x00) = %v, want ActionExitToROM", got)
	}
}

func TestDecodeRowJAlone(t *testing.T) {
	bits := byte(0xFF) &^ bitJ
	if got := DecodeRow(bits); got != ActionNetBoot {
		t.Fatalf("DecodeRow(%#x) = %v, want ActionNetBoot", bits, got)
	}
}

func TestDecodeRowNothingHeld(t *testing.T) {
	if got := DecodeRow(0xFF); got != ActionNone {
		t.Fatalf("DecodeRow(0xFF) = %v, want ActionNone", got)
	}
}

func TestPollActionUsesFakeKeyboard(t *testing.T) {
	kb := &FakeKeyboard{Rows: []byte{0xFF &^ bitJ}}
	if got := PollAction(kb); got != ActionNetBoot {
		t.Fatalf("PollAction = %v, want ActionNetBoot", got)
	}
}

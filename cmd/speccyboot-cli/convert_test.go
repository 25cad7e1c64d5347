package main

import (
	"os"
	"path/filepath"
	"testing"

	"speccyboot/evac"
	"speccyboot/memmap"
	"speccyboot/snapshot"
	"speccyboot/sram"
)

func newTestParser() *snapshot.Parser {
	ev := evac.New(sram.NewFake(), evac.DefaultDescriptor)
	mm := memmap.New(ev)
	return snapshot.NewParser(mm, ev, nil)
}

func TestEncodeSnapshotRoundTrips(t *testing.T) {
	mem := make([]byte, memSize)
	for i := range mem {
		mem[i] = byte(i * 7)
	}
	regs := registers{pc: 0x6000, sp: 0xFF00, border: 4, im: 1, iff1: true, iff2: true}

	snap := encodeSnapshot(mem, regs)

	parser := newTestParser()
	if err := parser.Offer(snap, false); err != nil {
		t.Fatalf("Offer() error = %v", err)
	}
	if !parser.Done() {
		t.Fatal("parser did not reach completion on a well-formed snapshot")
	}

	h := parser.Header()
	if h.PC != regs.pc {
		t.Errorf("PC = %#04x, want %#04x", h.PC, regs.pc)
	}
	if h.SP != regs.sp {
		t.Errorf("SP = %#04x, want %#04x", h.SP, regs.sp)
	}
	if h.Border() != regs.border {
		t.Errorf("Border() = %d, want %d", h.Border(), regs.border)
	}
	if !h.IFF1 || !h.IFF2 {
		t.Error("IFF1/IFF2 did not round-trip as enabled")
	}
	if h.IM != regs.im {
		t.Errorf("IM = %d, want %d", h.IM, regs.im)
	}
}

func TestRunConvertRejectsWrongSizedInput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "short.bin")
	outPath := filepath.Join(dir, "out.z80")

	if err := os.WriteFile(inPath, make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}

	err := runConvert([]string{"-in", inPath, "-out", outPath})
	if err == nil {
		t.Fatal("expected an error for a short input file")
	}
}

package evac

import (
	"bytes"
	"testing"

	"speccyboot/memmap"
	"speccyboot/sram"
)

func TestOnWriteInterceptsOnlyRuntimeRegion(t *testing.T) {
	e := New(sram.NewFake(), DefaultDescriptor)

	if !e.OnWrite(memmap.RuntimeBase, 0x5A) {
		t.Fatal("expected runtime-region write to be intercepted")
	}
	if e.OnWrite(memmap.RuntimeBase-1, 0x00) {
		t.Fatal("expected write just below R to pass through")
	}
	if e.OnWrite(memmap.RuntimeEnd, 0x00) {
		t.Fatal("expected write just above R to pass through")
	}
	if !e.Evacuating() {
		t.Fatal("expected evacuating to be true after first intercepted write")
	}
}

func TestFlushThenRestoreRoundTrips(t *testing.T) {
	dev := sram.NewFake()
	e := New(dev, DefaultDescriptor)

	for i := 0; i < memmap.RuntimeLen; i++ {
		e.OnWrite(memmap.RuntimeBase+uint16(i), byte(i))
	}
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if e.Evacuating() {
		t.Fatal("expected evacuating to be false after Flush")
	}

	dst := make([]byte, memmap.RuntimeLen)
	if err := e.Restore(dst); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	want := make([]byte, memmap.RuntimeLen)
	for i := range want {
		want[i] = byte(i)
	}
	if !bytes.Equal(dst, want) {
		t.Fatalf("restored data mismatch")
	}
}

func TestFlushIsAtMostOnce(t *testing.T) {
	e := New(sram.NewFake(), DefaultDescriptor)
	e.OnWrite(memmap.RuntimeBase, 1)
	if err := e.Flush(); err != nil {
		t.Fatalf("first Flush: %v", err)
	}
	if err := e.Flush(); err != ErrAlreadyFlushed {
		t.Fatalf("second Flush error = %v, want ErrAlreadyFlushed", err)
	}
}

func TestRestoreIsAtMostOnce(t *testing.T) {
	e := New(sram.NewFake(), DefaultDescriptor)
	e.OnWrite(memmap.RuntimeBase, 1)
	_ = e.Flush()
	dst := make([]byte, memmap.RuntimeLen)
	if err := e.Restore(dst); err != nil {
		t.Fatalf("first Restore: %v", err)
	}
	if err := e.Restore(dst); err != ErrAlreadyRestored {
		t.Fatalf("second Restore error = %v, want ErrAlreadyRestored", err)
	}
}

func TestRestoreWrongLength(t *testing.T) {
	e := New(sram.NewFake(), DefaultDescriptor)
	if err := e.Restore(make([]byte, 10)); err == nil {
		t.Fatal("expected error for wrong-length destination")
	}
}

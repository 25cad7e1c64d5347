package progress

import (
	"testing"

	"speccyboot/memmap"
)

func TestSetExpectedPaintsEmptyBar(t *testing.T) {
	mm := memmap.New(nil)
	r := New(mm)
	r.SetExpected(48)

	row := mm.AttributeSlice()[0:cols]
	for i, b := range row {
		if b != barEmpty {
			t.Fatalf("row[%d] = %#x, want empty %#x", i, b, barEmpty)
		}
	}
}

func TestTickFillsProportionally(t *testing.T) {
	mm := memmap.New(nil)
	r := New(mm)
	r.SetExpected(48)
	r.Tick(24) // half way

	row := mm.AttributeSlice()[0:cols]
	wantFilled := cols / 2
	for i, b := range row {
		if i < wantFilled && b != barFilled {
			t.Fatalf("row[%d] = %#x, want filled (i<%d)", i, b, wantFilled)
		}
		if i >= wantFilled && b != barEmpty {
			t.Fatalf("row[%d] = %#x, want empty (i>=%d)", i, b, wantFilled)
		}
	}
}

func TestTickAtCompletionFillsFully(t *testing.T) {
	mm := memmap.New(nil)
	r := New(mm)
	r.SetExpected(48)
	r.Tick(48)

	row := mm.AttributeSlice()[0:cols]
	for i, b := range row {
		if b != barFilled {
			t.Fatalf("row[%d] = %#x, want filled", i, b)
		}
	}
}

func TestCountReflectsLastTick(t *testing.T) {
	mm := memmap.New(nil)
	r := New(mm)
	r.SetExpected(48)
	if r.Count() != 0 {
		t.Fatalf("Count() after SetExpected = %d, want 0", r.Count())
	}
	r.Tick(17)
	if r.Count() != 17 {
		t.Fatalf("Count() = %d, want 17", r.Count())
	}
}

func TestCounterDigitsWrapAtEight(t *testing.T) {
	mm := memmap.New(nil)
	r := New(mm)
	r.SetExpected(48)
	r.Tick(48) // tens digit 4; ones digit 8 wraps to 0

	row := mm.AttributeSlice()[cols : 2*cols]
	wantTens := attrByte(4, 0, true)
	wantOnes := attrByte(0, 0, true)
	if row[0] != wantTens {
		t.Fatalf("tens digit attr = %#x, want %#x", row[0], wantTens)
	}
	if row[1] != wantOnes {
		t.Fatalf("ones digit attr = %#x, want %#x", row[1], wantOnes)
	}
}

func TestAttributeWritesFallInsideRuntimeRegion(t *testing.T) {
	// The two rows progress paints (cols 0-63 of the attribute slice,
	// i.e. logical addresses 0x5800-0x583F) fall inside R, which is
	// expected: these are the loader's own screen furniture, written
	// via AttributeSlice's direct backing-array access rather than
	// StoreAt, so they never interact with the evacuator's interceptor.
	mm := memmap.New(nil)
	r := New(mm)
	r.SetExpected(48)
	r.Tick(10)

	if !memmap.InRuntimeRegion(memmap.VideoAttrBase) {
		t.Fatal("expected attribute base to be inside the runtime region")
	}
}

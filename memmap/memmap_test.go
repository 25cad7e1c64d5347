package memmap

import "testing"

type recordingInterceptor struct {
	calls []uint16
	catch bool
}

func (r *recordingInterceptor) OnWrite(addr uint16, b byte) bool {
	r.calls = append(r.calls, addr)
	return r.catch && InRuntimeRegion(addr)
}

func TestStoreAtDirect(t *testing.T) {
	m := New(nil)
	m.StoreAt(0x4000, 0xAA)
	if got := m.ReadAt(0x4000); got != 0xAA {
		t.Fatalf("ReadAt(0x4000) = %#x, want 0xAA", got)
	}
}

func TestStoreAtRoutesThroughInterceptor(t *testing.T) {
	intc := &recordingInterceptor{catch: true}
	m := New(intc)

	m.StoreAt(0x5800, 0x11)
	if len(intc.calls) != 1 || intc.calls[0] != 0x5800 {
		t.Fatalf("expected interceptor called with 0x5800, got %v", intc.calls)
	}
	// Intercepted: must not land in the backing array.
	if got := m.ReadAt(0x5800); got != 0 {
		t.Fatalf("ReadAt(0x5800) = %#x, want 0 (intercepted, not stored)", got)
	}

	m.StoreAt(0x4000, 0x22)
	if got := m.ReadAt(0x4000); got != 0x22 {
		t.Fatalf("ReadAt(0x4000) = %#x, want 0x22 (direct store)", got)
	}
}

func TestStoreRangeByteOrder(t *testing.T) {
	m := New(nil)
	m.StoreRange(0x8000, []byte{1, 2, 3, 4})
	for i, want := range []byte{1, 2, 3, 4} {
		if got := m.ReadAt(0x8000 + uint16(i)); got != want {
			t.Fatalf("ReadAt(%#x) = %d, want %d", 0x8000+i, got, want)
		}
	}
}

func TestInRuntimeRegion(t *testing.T) {
	tests := []struct {
		addr uint16
		want bool
	}{
		{0x57FF, false},
		{0x5800, true},
		{0x5FFF, true},
		{0x6000, false},
	}
	for _, tc := range tests {
		if got := InRuntimeRegion(tc.addr); got != tc.want {
			t.Errorf("InRuntimeRegion(%#x) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestRuntimeSliceAliasesBackingArray(t *testing.T) {
	m := New(nil)
	rs := m.RuntimeSlice()
	if len(rs) != RuntimeLen {
		t.Fatalf("len(RuntimeSlice()) = %d, want %d", len(rs), RuntimeLen)
	}
	rs[0] = 0x5A
	if got := m.ReadAt(RuntimeBase); got != 0x5A {
		t.Fatalf("ReadAt(RuntimeBase) = %#x, want 0x5A", got)
	}
}

// Package memmap models the logical 64 KiB address space of the host
// machine: the ROM window the loader is mapped into, the video region,
// and the runtime region the loader itself occupies while it is still
// running.
package memmap

// Region boundaries. All addresses are logical (as seen by the host
// CPU), not physical flash or SRAM offsets.
const (
	ROMWindowBase = 0x0000
	ROMWindowLen  = 0x4000

	VideoBitmapBase = 0x4000
	VideoBitmapLen  = 0x1800

	VideoAttrBase = 0x5800
	VideoAttrLen  = 0x0300

	// RuntimeBase..RuntimeBase+RuntimeLen is the loader's own RAM
	// footprint: attributes, stack, statics, font data. It must not be
	// overwritten by an in-flight snapshot until the loader is done
	// with it.
	RuntimeBase = 0x5800
	RuntimeLen  = 0x0800
	RuntimeEnd  = RuntimeBase + RuntimeLen // 0x6000

	// ScratchBase is host RAM immediately above the runtime region.
	// evac.Evacuator does not stage R's bytes here but in a buffer of
	// its own, so this range receives ordinary snapshot data.
	ScratchBase = 0x6000
	ScratchLen  = RuntimeLen
	ScratchEnd  = ScratchBase + ScratchLen // 0x6800
)

// InRuntimeRegion reports whether addr falls inside R.
func InRuntimeRegion(addr uint16) bool {
	return addr >= RuntimeBase && addr < RuntimeEnd
}

// Interceptor is consulted on every store so that writes destined for
// the runtime region can be redirected elsewhere. It reports whether
// it handled the byte (true) or whether the Map should store it
// directly (false).
type Interceptor interface {
	OnWrite(addr uint16, b byte) (intercepted bool)
}

// passthrough never intercepts; used when a Map is built without an
// evacuator (e.g. for tests that only exercise direct storage).
type passthrough struct{}

func (passthrough) OnWrite(uint16, byte) bool { return false }

// Map is the full 64 KiB logical address space.
type Map struct {
	mem  [0x10000]byte
	intc Interceptor
}

// New builds a Map whose writes into the runtime region are routed
// through intc. A nil intc stores everywhere directly.
func New(intc Interceptor) *Map {
	if intc == nil {
		intc = passthrough{}
	}
	return &Map{intc: intc}
}

// StoreAt stores one byte, routing through the interceptor first.
func (m *Map) StoreAt(addr uint16, b byte) {
	if m.intc.OnWrite(addr, b) {
		return
	}
	m.mem[addr] = b
}

// StoreRange stores buf starting at addr, byte by byte, so each store
// still passes through the interceptor.
func (m *Map) StoreRange(addr uint16, buf []byte) {
	for i, b := range buf {
		m.StoreAt(addr+uint16(i), b)
	}
}

// ReadAt reads one byte directly from the backing array, bypassing any
// interception. Used for loader-owned memory and for inspecting the
// final, fully-assembled image in tests.
func (m *Map) ReadAt(addr uint16) byte {
	return m.mem[addr]
}

// RuntimeSlice returns the live backing slice for R, for use by the
// evacuator's Restore step once the loader is done with it.
func (m *Map) RuntimeSlice() []byte {
	return m.mem[RuntimeBase:RuntimeEnd]
}

// AttributeSlice returns the live backing slice for the attribute
// region, for use by the progress reporter.
func (m *Map) AttributeSlice() []byte {
	return m.mem[VideoAttrBase : VideoAttrBase+VideoAttrLen]
}

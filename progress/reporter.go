// Package progress implements the progress reporter (C6): a kilobyte
// counter that paints a single-row attribute bar and a two-digit
// counter into the video attribute region as the snapshot parser
// advances. It never touches the video bitmap, and it writes through
// memmap's AttributeSlice directly rather than through StoreAt's
// interceptor — the same loader-owned direct-access pattern the
// evacuator uses for RuntimeSlice, since these bytes are the loader's
// own screen furniture, not data destined for R.
package progress

import "speccyboot/memmap"

const (
	cols = 32 // one attribute row

	attrBright = 1 << 6
	attrFlash  = 1 << 7
)

func attrByte(ink, paper byte, bright bool) byte {
	b := (paper&0x07)<<3 | (ink & 0x07)
	if bright {
		b |= attrBright
	}
	return b
}

var (
	barFilled = attrByte(0 /*black ink*/, 5 /*cyan paper*/, true)
	barEmpty  = attrByte(0, 0, false)
)

// Reporter paints progress into the two attribute rows immediately
// below the border, leaving the rest of the attribute region (and all
// of the bitmap) untouched.
type Reporter struct {
	mm       *memmap.Map
	expected int
	last     int
}

// New builds a Reporter bound to a memory map. Painting is a no-op
// until SetExpected is called with a positive total.
func New(mm *memmap.Map) *Reporter {
	return &Reporter{mm: mm}
}

// SetExpected records the total kilobyte count the bar represents and
// repaints it empty.
func (r *Reporter) SetExpected(kilobytes int) {
	r.expected = kilobytes
	r.last = 0
	r.paintBar(0)
	r.paintCounter(0)
}

// Tick repaints the bar and counter for the given cumulative kilobyte
// count. Called once per kilobyte boundary crossed by the parser;
// out-of-order or repeated calls with the same value are harmless.
func (r *Reporter) Tick(kilobytesNow int) {
	r.last = kilobytesNow
	r.paintBar(kilobytesNow)
	r.paintCounter(kilobytesNow)
}

// Count reports the most recent value passed to Tick (or SetExpected's
// 0 reset).
func (r *Reporter) Count() int { return r.last }

func (r *Reporter) paintBar(kilobytesNow int) {
	row := r.mm.AttributeSlice()[0:cols]
	filled := 0
	if r.expected > 0 {
		filled = kilobytesNow * cols / r.expected
		if filled > cols {
			filled = cols
		}
	}
	for i := range row {
		if i < filled {
			row[i] = barFilled
		} else {
			row[i] = barEmpty
		}
	}
}

// paintCounter renders kilobytesNow as two digits using the attribute
// row directly beneath the bar. There is no glyph renderer in this
// package (rendering an actual decimal numeral needs bitmap font data,
// which belongs to whatever draws the splash screen), so each digit is
// instead shown as an ink color index 0-7 — tens and ones, each taken
// mod 8 the same way the teacher's own writeInt family extracts digits
// with plain div/mod rather than a formatting call.
func (r *Reporter) paintCounter(kilobytesNow int) {
	row := r.mm.AttributeSlice()[cols : 2*cols]
	tens := (kilobytesNow / 10) % 8
	ones := (kilobytesNow % 10) % 8
	row[0] = attrByte(byte(tens), 0, true)
	row[1] = attrByte(byte(ones), 0, true)
	for i := 2; i < len(row); i++ {
		row[i] = barEmpty
	}
}

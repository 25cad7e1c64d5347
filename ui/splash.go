package ui

import "speccyboot/memmap"

// Splash paints a simple pattern across the video bitmap, the one
// region this loader can safely use for graphics without touching R.
// There is no font or image asset in this repo (see progress's own
// note on the same constraint) — the splash is a fixed diagonal
// stripe rather than a logo, just enough to show the loader is alive
// before net-boot starts.
func Splash(mm *memmap.Map) {
	for i := 0; i < memmap.VideoBitmapLen; i++ {
		addr := uint16(memmap.VideoBitmapBase + i)
		mm.StoreAt(addr, byte(i^(i>>3)))
	}
}

// ClearBitmap blanks the video bitmap, used before drawing the
// progress bar replaces the splash pattern's stripes beneath it (the
// attribute bar itself lives in R's attribute rows, painted by
// package progress; this only clears the pixels underneath).
func ClearBitmap(mm *memmap.Map) {
	for i := 0; i < memmap.VideoBitmapLen; i++ {
		mm.StoreAt(uint16(memmap.VideoBitmapBase+i), 0)
	}
}

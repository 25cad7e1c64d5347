package main

import (
	"fmt"
	"os"
)

// memSize is the span a raw dump must cover: the three 16 KiB windows
// the loader's parser restores (0x4000-0x7FFF, 0x8000-0xBFFF,
// 0xC000-0xFFFF), in that address order.
const memSize = 3 * 0x4000

// pageIDs gives the wire page identifier for each of the three windows
// in mem's address order, mirroring snapshot.chunkWindowBase.
var pageIDs = [3]byte{8, 4, 5}

// registers holds the values convert writes into the resident and
// extended headers. Every field defaults to zero except those set
// explicitly below; a bare memory dump with no register state of
// interest converts cleanly with an all-default program entering at
// whatever PC the caller supplies.
type registers struct {
	a, f, b, c, d, e, h, l         byte
	a2, f2, b2, c2, d2, e2, h2, l2 byte
	ix, iy                         uint16
	pc, sp                         uint16
	i, r                           byte
	iff1, iff2                    bool
	im                             byte
	border                         byte
	hwType                         byte
}

func runConvert(args []string) error {
	fs := newFlagSet("convert")
	in := fs.String("in", "", "raw memory dump, exactly 49152 bytes (0x4000-0xFFFF)")
	out := fs.String("out", "", "output snapshot path")
	pc := fs.Uint("pc", 0x8000, "program counter at restore")
	sp := fs.Uint("sp", 0xFF00, "stack pointer at restore")
	border := fs.Uint("border", 7, "initial border color (0-7)")
	im := fs.Uint("im", 1, "interrupt mode (0-2)")
	hwType := fs.Uint("hwtype", 0, "hardware type byte (0 = 48K)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return fmt.Errorf("convert: -in and -out are required")
	}

	mem, err := os.ReadFile(*in)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	if len(mem) != memSize {
		return fmt.Errorf("convert: %s is %d bytes, want exactly %d", *in, len(mem), memSize)
	}

	regs := registers{
		pc:     uint16(*pc),
		sp:     uint16(*sp),
		border: byte(*border),
		im:     byte(*im),
		hwType: byte(*hwType),
		iff1:   true,
		iff2:   true,
	}
	if regs.border > 7 {
		return fmt.Errorf("convert: -border must be 0-7, got %d", regs.border)
	}
	if regs.im > 2 {
		return fmt.Errorf("convert: -im must be 0-2, got %d", regs.im)
	}

	snap := encodeSnapshot(mem, regs)
	if err := os.WriteFile(*out, snap, 0644); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", *out, len(snap))
	return nil
}

// encodeSnapshot assembles a wire-format snapshot from a 48 KiB memory
// dump and a register set: the 30-byte resident header with PC zeroed
// to signal the extended header's presence, the extended header
// itself, and one uncompressed chunk per window. It is the inverse of
// snapshot.Parser's streaming decode, minus compression — a build
// tool for local testing has no need to shrink what it emits.
func encodeSnapshot(mem []byte, r registers) []byte {
	buf := make([]byte, 0, memSize+64)
	buf = append(buf, encodeResident(r)...)

	ext := encodeExtended(r)
	buf = append(buf, byte(len(ext)), byte(len(ext)>>8))
	buf = append(buf, ext...)

	for i, pageID := range pageIDs {
		chunk := mem[i*0x4000 : (i+1)*0x4000]
		buf = append(buf, 0xFF, 0xFF, pageID) // length sentinel: uncompressed
		buf = append(buf, chunk...)
	}
	return buf
}

func encodeResident(r registers) []byte {
	buf := make([]byte, 30)
	buf[0] = r.a
	buf[1] = r.f
	buf[2] = r.c
	buf[3] = r.b
	buf[4] = r.l
	buf[5] = r.h
	// PC stays zero: that is the extended-header sentinel the parser
	// looks for.
	buf[8] = byte(r.sp)
	buf[9] = byte(r.sp >> 8)
	buf[10] = r.i
	buf[11] = r.r & 0x7F
	buf[12] = (r.border << 1) | ((r.r >> 7) & 0x01)
	buf[13] = r.e
	buf[14] = r.d
	buf[15] = r.c2
	buf[16] = r.b2
	buf[17] = r.e2
	buf[18] = r.d2
	buf[19] = r.l2
	buf[20] = r.h2
	buf[21] = r.a2
	buf[22] = r.f2
	buf[23] = byte(r.iy)
	buf[24] = byte(r.iy >> 8)
	buf[25] = byte(r.ix)
	buf[26] = byte(r.ix >> 8)
	if r.iff1 {
		buf[27] = 1
	}
	if r.iff2 {
		buf[28] = 1
	}
	buf[29] = r.im & 0x03
	return buf
}

// encodeExtended writes the 8-byte extended header body this tool
// produces: PC, hardware type, paging byte, two reserved bytes, a
// sound selector byte and the first sound-register byte, the last two
// left at zero. snapshot.Header.parseExtended
// accepts anything 8 bytes or longer; this tool never needs the
// optional AY-register tail.
func encodeExtended(r registers) []byte {
	buf := make([]byte, 8)
	buf[0] = byte(r.pc)
	buf[1] = byte(r.pc >> 8)
	buf[2] = r.hwType
	buf[3] = 0 // paging byte: fixed layout, no paging in effect at restore
	return buf
}

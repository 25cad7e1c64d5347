package snapshot

import (
	"speccyboot/evac"
	"speccyboot/memmap"
)

type state uint8

const (
	stateExpectHeader state = iota
	stateExpectExtLen
	stateExpectExtBody
	stateExpectChunkHeader
	stateConsumeUncompressed
	stateConsumeCompressed
	stateDone
)

type escapePhase uint8

const (
	escNormal escapePhase = iota
	escSawOne
	escExpectCount
	escExpectValue
	escEmitting
)

const kilobyte = 0x0400

// Parser is the streaming snapshot state machine (C5). It is driven
// exclusively through Offer; every other method is a read-only
// observer. A Parser is single-use: construct a fresh one per boot.
type Parser struct {
	mm  *memmap.Map
	ev  *evac.Evacuator
	prog ProgressSink

	header Header

	state state

	headerBuf [residentHeaderLen]byte
	headerIdx int

	extLen      uint16
	extLenBuf   [2]byte
	extLenIdx   int
	extBuf      [64]byte
	extIdx      int
	extConsumed int

	chunkBuf [3]byte
	chunkIdx int

	w         uint16
	remaining uint16
	// countsOutput selects which quantity remaining tracks during
	// compressed consumption: v1 has no declared source length, so its
	// single all-memory "chunk" counts expanded (output) bytes; v2/v3
	// chunks declare a source length in their 3-byte header and count
	// source bytes consumed, per the wire format.
	countsOutput bool

	escape   escapePhase
	repCount uint16
	repValue byte

	kilobytesLoaded   int
	kilobytesExpected int
}

// NewParser wires a parser against the memory-map model, the
// evacuator that owns the runtime region's scratch buffer, and a
// progress sink. prog may be nil, in which case progress notifications
// are discarded.
func NewParser(mm *memmap.Map, ev *evac.Evacuator, prog ProgressSink) *Parser {
	if prog == nil {
		prog = noopProgress{}
	}
	return &Parser{mm: mm, ev: ev, prog: prog}
}

// Header exposes the parsed header record to the context switcher
// once parsing completes. Valid to call before completion too, but
// fields populate progressively (resident fields first, then extended
// ones, if present).
func (p *Parser) Header() *Header { return &p.header }

// Done reports whether the parser has consumed kilobytesExpected
// kilobytes of decoded data.
func (p *Parser) Done() bool { return p.state == stateDone }

// Offer feeds the next slice of wire bytes to the parser. moreExpected
// must be true for every call except possibly the last; if the
// transport runs out of data before the parser reaches completion,
// Offer returns ErrEndOfData.
func (p *Parser) Offer(buf []byte, moreExpected bool) error {
	pos := 0
	for {
		switch p.state {
		case stateDone:
			return nil

		case stateExpectHeader:
			n := copy(p.headerBuf[p.headerIdx:], buf[pos:])
			p.headerIdx += n
			pos += n
			if p.headerIdx < residentHeaderLen {
				return p.needMore(moreExpected)
			}
			if err := p.header.parseResident(p.headerBuf[:]); err != nil {
				return err
			}
			if p.header.PC != 0 {
				p.kilobytesExpected = 48
				p.prog.SetExpected(48)
				p.w = memmap.VideoBitmapBase
				p.remaining = 0xC000
				p.countsOutput = true
				if p.header.Compressed() {
					p.state = stateConsumeCompressed
				} else {
					p.state = stateConsumeUncompressed
				}
			} else {
				p.state = stateExpectExtLen
			}

		case stateExpectExtLen:
			n := copy(p.extLenBuf[p.extLenIdx:], buf[pos:])
			p.extLenIdx += n
			pos += n
			if p.extLenIdx < 2 {
				return p.needMore(moreExpected)
			}
			p.extLen = le16(p.extLenBuf[:])
			p.state = stateExpectExtBody

		case stateExpectExtBody:
			need := int(p.extLen) - p.extConsumed
			for need > 0 && pos < len(buf) {
				take := need
				if avail := len(buf) - pos; take > avail {
					take = avail
				}
				for i := 0; i < take; i++ {
					if p.extIdx < len(p.extBuf) {
						p.extBuf[p.extIdx] = buf[pos+i]
						p.extIdx++
					}
				}
				pos += take
				p.extConsumed += take
				need = int(p.extLen) - p.extConsumed
			}
			if p.extConsumed < int(p.extLen) {
				return p.needMore(moreExpected)
			}
			if err := p.header.parseExtended(p.extLen, p.extBuf[:p.extIdx]); err != nil {
				return err
			}
			if !Supported(p.header.HWType) {
				return ErrIncompatible
			}
			p.kilobytesExpected = 48
			p.prog.SetExpected(48)
			p.state = stateExpectChunkHeader

		case stateExpectChunkHeader:
			n := copy(p.chunkBuf[p.chunkIdx:], buf[pos:])
			p.chunkIdx += n
			pos += n
			if p.chunkIdx < 3 {
				return p.needMore(moreExpected)
			}
			ch := decodeChunkHeader(p.chunkBuf)
			p.chunkIdx = 0
			base, ok := windowFor(ch.PageID)
			if !ok {
				return ErrIncompatible
			}
			p.w = base
			p.escape = escNormal
			p.countsOutput = false
			if ch.Length == lengthUncompressedSentinel {
				p.remaining = 0x4000
				p.state = stateConsumeUncompressed
			} else {
				p.remaining = ch.Length
				p.state = stateConsumeCompressed
			}

		case stateConsumeUncompressed:
			for p.remaining > 0 && pos < len(buf) {
				if err := p.storeByte(buf[pos]); err != nil {
					return err
				}
				pos++
				p.remaining--
				if p.state == stateDone {
					return nil
				}
			}
			if p.remaining == 0 {
				p.chunkIdx = 0
				p.state = stateExpectChunkHeader
				continue
			}
			return p.needMore(moreExpected)

		case stateConsumeCompressed:
			done, err := p.stepCompressed(buf, &pos)
			if err != nil {
				return err
			}
			if p.state == stateDone {
				return nil
			}
			if done {
				p.chunkIdx = 0
				p.state = stateExpectChunkHeader
				continue
			}
			return p.needMore(moreExpected)
		}
	}
}

// needMore signals that buf is exhausted. Returning nil here lets the
// caller supply the rest in a subsequent Offer call; ErrEndOfData only
// fires once the transport itself says no more is coming.
func (p *Parser) needMore(moreExpected bool) error {
	if !moreExpected {
		return ErrEndOfData
	}
	return nil
}

// stepCompressed decodes as much of the repetition scheme as buf[*pos:]
// allows. p.remaining is decremented at the source-byte read (v2/v3,
// a declared chunk length) or at each emitted byte (v1, which has no
// declared length and instead tracks the expanded total), selected by
// p.countsOutput. It returns done == true once p.remaining reaches
// zero.
func (p *Parser) stepCompressed(buf []byte, pos *int) (done bool, err error) {
	emit := func(b byte) (stop bool, err error) {
		if err := p.storeByte(b); err != nil {
			return false, err
		}
		if p.state == stateDone {
			return true, nil
		}
		if p.countsOutput {
			p.remaining--
			if p.remaining == 0 {
				return true, nil
			}
		}
		return false, nil
	}

	for {
		if p.escape == escEmitting {
			for p.repCount > 0 {
				p.repCount--
				stop, err := emit(p.repValue)
				if err != nil {
					return false, err
				}
				if stop {
					return p.remaining == 0, nil
				}
			}
			p.escape = escNormal
		}
		if p.remaining == 0 {
			return true, nil
		}
		if *pos >= len(buf) {
			return false, nil
		}
		b := buf[*pos]
		*pos++
		if !p.countsOutput {
			p.remaining--
		}

		switch p.escape {
		case escNormal:
			if b == 0xED {
				p.escape = escSawOne
			} else {
				stop, err := emit(b)
				if err != nil {
					return false, err
				}
				if stop {
					return p.remaining == 0, nil
				}
			}
		case escSawOne:
			if b == 0xED {
				p.escape = escExpectCount
			} else {
				stop, err := emit(0xED)
				if err != nil {
					return false, err
				}
				if stop {
					return p.remaining == 0, nil
				}
				stop, err = emit(b)
				if err != nil {
					return false, err
				}
				if stop {
					return p.remaining == 0, nil
				}
				p.escape = escNormal
			}
		case escExpectCount:
			if b == 0 {
				p.repCount = 256
			} else {
				p.repCount = uint16(b)
			}
			p.escape = escExpectValue
		case escExpectValue:
			p.repValue = b
			p.escape = escEmitting
		}

		if !p.countsOutput && p.remaining == 0 && p.escape != escEmitting {
			return true, nil
		}
	}
}

// storeByte writes the byte at the current write pointer, advances it,
// and notifies the progress sink on kilobyte crossings.
//
// The evacuation hook itself needs no address juggling here: mm.StoreAt
// already routes any address inside R through the evacuator's
// Interceptor, which stages the byte in its own buffer rather than
// the live runtime region. storeByte's only remaining responsibility
// is to call Flush at the instant W leaves R, which is the "last byte
// belonging to R has been produced" moment C3 requires.
func (p *Parser) storeByte(b byte) error {
	p.mm.StoreAt(p.w, b)
	p.w++

	if p.w == memmap.RuntimeEnd && p.ev.Evacuating() {
		if err := p.ev.Flush(); err != nil {
			return err
		}
	}

	if p.w%kilobyte == 0 {
		p.kilobytesLoaded++
		p.prog.Tick(p.kilobytesLoaded)
		if p.kilobytesLoaded == p.kilobytesExpected {
			p.state = stateDone
		}
	}
	return nil
}

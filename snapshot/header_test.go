package snapshot

import "testing"

func buildResidentHeader(pc uint16, miscFlags byte) []byte {
	buf := make([]byte, residentHeaderLen)
	buf[6] = byte(pc)
	buf[7] = byte(pc >> 8)
	buf[11] = 0x00 // R
	buf[12] = miscFlags
	return buf
}

func TestParseResidentRejectsWrongLength(t *testing.T) {
	var h Header
	if err := h.parseResident(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short resident header")
	}
}

func TestHeaderBorderIsDirectPaletteIndex(t *testing.T) {
	var h Header
	h.MiscFlags = 0x06 // (0x06 >> 1) & 7 == 3
	if got := h.Border(); got != 3 {
		t.Fatalf("Border() = %d, want 3", got)
	}
}

func TestHeaderReconstructedR(t *testing.T) {
	var h Header
	h.R = 0x2A
	h.MiscFlags = 0x01 // bit 0 set -> R bit 7 set
	if got := h.ReconstructedR(); got != 0xAA {
		t.Fatalf("ReconstructedR() = %#x, want 0xAA", got)
	}
}

func TestIs128KAndSupported(t *testing.T) {
	cases := []struct {
		hw        byte
		is128     bool
		supported bool
	}{
		{HW48K, false, true},
		{HW48KIF1, false, true},
		{HW128K, true, true},
		{HW128KP3, true, true},
		{0xFF, false, false},
	}
	for _, c := range cases {
		if got := Is128K(c.hw); got != c.is128 {
			t.Errorf("Is128K(%d) = %v, want %v", c.hw, got, c.is128)
		}
		if got := Supported(c.hw); got != c.supported {
			t.Errorf("Supported(%d) = %v, want %v", c.hw, got, c.supported)
		}
	}
}

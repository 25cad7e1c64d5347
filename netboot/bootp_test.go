package netboot

import "testing"

var testMAC = [6]byte{0x02, 0x00, 0x5A, 0x00, 0x00, 0x01}

func buildOffer(xid uint32, yiaddr, siaddr [4]byte, file string) []byte {
	buf := buildBootpFixed(bootpOpReply, xid, testMAC, [4]byte{}, yiaddr, siaddr, file)
	return appendCookieAndOptions(buf, tlvOption(dhcpOptMessageType, dhcpOffer))
}

func buildAck(xid uint32, yiaddr, siaddr [4]byte, file string) []byte {
	buf := buildBootpFixed(bootpOpReply, xid, testMAC, [4]byte{}, yiaddr, siaddr, file)
	return appendCookieAndOptions(buf, tlvOption(dhcpOptMessageType, dhcpAck))
}

func TestAcquireLeaseHappyPath(t *testing.T) {
	sock := &FakeSocket{}
	yiaddr := [4]byte{192, 168, 1, 42}
	siaddr := [4]byte{192, 168, 1, 1}
	sock.Enqueue(siaddr, DHCPServerPort, buildOffer(0xAABBCCDD, yiaddr, siaddr, "speccyboot.z80"))
	sock.Enqueue(siaddr, DHCPServerPort, buildAck(0xAABBCCDD, yiaddr, siaddr, "speccyboot.z80"))

	lease, err := AcquireLease(sock, testMAC, 0xAABBCCDD)
	if err != nil {
		t.Fatalf("AcquireLease: %v", err)
	}
	if lease.ClientIP != yiaddr {
		t.Fatalf("ClientIP = %v, want %v", lease.ClientIP, yiaddr)
	}
	if lease.ServerIP != siaddr {
		t.Fatalf("ServerIP = %v, want %v", lease.ServerIP, siaddr)
	}
	if lease.BootFilename != "speccyboot.z80" {
		t.Fatalf("BootFilename = %q, want %q", lease.BootFilename, "speccyboot.z80")
	}
	if len(sock.Sent) != 2 {
		t.Fatalf("expected 2 sent packets (discover, request), got %d", len(sock.Sent))
	}
	if sock.Sent[0].DestIP != [4]byte{255, 255, 255, 255} {
		t.Fatalf("discover not broadcast: %v", sock.Sent[0].DestIP)
	}
}

func TestAcquireLeaseRejectsWrongMessageType(t *testing.T) {
	sock := &FakeSocket{}
	sock.Enqueue([4]byte{10, 0, 0, 1}, DHCPServerPort, buildAck(1, [4]byte{10, 0, 0, 5}, [4]byte{10, 0, 0, 1}, "x"))
	if _, err := AcquireLease(sock, testMAC, 1); err != ErrNoLease {
		t.Fatalf("err = %v, want ErrNoLease", err)
	}
}

func TestBootfileFallsBackToFixedFileFieldWithoutOption(t *testing.T) {
	buf := buildBootpFixed(bootpOpReply, 1, testMAC, [4]byte{}, [4]byte{1, 2, 3, 4}, [4]byte{5, 6, 7, 8}, "plain.z80")
	buf = appendCookieAndOptions(buf, tlvOption(dhcpOptMessageType, dhcpOffer))
	r, err := parseReply(buf)
	if err != nil {
		t.Fatalf("parseReply: %v", err)
	}
	if r.file != "plain.z80" {
		t.Fatalf("file = %q, want %q", r.file, "plain.z80")
	}
}

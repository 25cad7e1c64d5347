package netboot

import "errors"

// Minimal BOOTP/DHCP (RFC 951/2131) fixed-layout packet, options
// trimmed to exactly what this loader needs: message type (53), the
// TFTP server's address (siaddr, already in the fixed part) and boot
// filename (option 67, falling back to the fixed "file" field for a
// plain-BOOTP responder).
const (
	bootpOpRequest = 1
	bootpOpReply   = 2
	htypeEthernet  = 1
	hlenEthernet   = 6

	bootpFixedLen = 236
	magicCookie   = 0x63825363

	dhcpOptMessageType = 53
	dhcpOptServerID    = 54
	dhcpOptBootfile    = 67
	dhcpOptParamList   = 55
	dhcpOptEnd         = 255

	dhcpDiscover = 1
	dhcpOffer    = 2
	dhcpRequest  = 3
	dhcpAck      = 5
)

var (
	ErrNotABootReply  = errors.New("netboot: not a BOOTP reply")
	ErrNoLease        = errors.New("netboot: DHCP server did not ACK a lease")
	ErrShortBOOTPBody = errors.New("netboot: BOOTP packet shorter than fixed header")
)

// DHCPClientPort / DHCPServerPort are the well-known BOOTP/DHCP ports.
const (
	DHCPClientPort = 68
	DHCPServerPort = 67
)

// Lease is the address information this loader needs out of a
// DHCP/BOOTP exchange: its own assigned address, the TFTP server to
// fetch the snapshot from, and the boot filename it should request.
type Lease struct {
	ClientIP     [4]byte
	ServerIP     [4]byte
	BootFilename string
}

func putBE32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func buildBootpFixed(op byte, xid uint32, mac [6]byte, ciaddr, yiaddr, siaddr [4]byte, file string) []byte {
	buf := make([]byte, bootpFixedLen)
	buf[0] = op
	buf[1] = htypeEthernet
	buf[2] = hlenEthernet
	putBE32(buf[4:8], xid)
	copy(buf[12:16], ciaddr[:])
	copy(buf[16:20], yiaddr[:])
	copy(buf[20:24], siaddr[:])
	copy(buf[28:44], mac[:])
	copy(buf[108:108+len(file)], file)
	return buf
}

func appendCookieAndOptions(buf []byte, opts ...[]byte) []byte {
	cookie := make([]byte, 4)
	putBE32(cookie, magicCookie)
	buf = append(buf, cookie...)
	for _, o := range opts {
		buf = append(buf, o...)
	}
	buf = append(buf, dhcpOptEnd)
	return buf
}

func tlvOption(code byte, data ...byte) []byte {
	return append([]byte{code, byte(len(data))}, data...)
}

// BuildDiscover assembles a DHCPDISCOVER datagram payload.
func BuildDiscover(xid uint32, mac [6]byte) []byte {
	buf := buildBootpFixed(bootpOpRequest, xid, mac, [4]byte{}, [4]byte{}, [4]byte{}, "")
	return appendCookieAndOptions(buf,
		tlvOption(dhcpOptMessageType, dhcpDiscover),
		tlvOption(dhcpOptParamList, dhcpOptBootfile, dhcpOptServerID),
	)
}

// BuildRequest assembles a DHCPREQUEST for the address a prior OFFER
// proposed.
func BuildRequest(xid uint32, mac [6]byte, offeredIP, serverIP [4]byte) []byte {
	buf := buildBootpFixed(bootpOpRequest, xid, mac, [4]byte{}, offeredIP, [4]byte{}, "")
	return appendCookieAndOptions(buf,
		tlvOption(dhcpOptMessageType, dhcpRequest),
		tlvOption(dhcpOptServerID, serverIP[0], serverIP[1], serverIP[2], serverIP[3]),
	)
}

// parsedReply is an OFFER or ACK decoded from the wire.
type parsedReply struct {
	msgType  byte
	yiaddr   [4]byte
	siaddr   [4]byte
	file     string
}

func parseReply(buf []byte) (parsedReply, error) {
	if len(buf) < bootpFixedLen {
		return parsedReply{}, ErrShortBOOTPBody
	}
	if buf[0] != bootpOpReply {
		return parsedReply{}, ErrNotABootReply
	}
	var r parsedReply
	copy(r.yiaddr[:], buf[16:20])
	copy(r.siaddr[:], buf[20:24])
	r.file = trimNulString(buf[108:236])

	if len(buf) > bootpFixedLen+4 {
		opts := buf[bootpFixedLen+4:]
		for i := 0; i < len(opts); {
			code := opts[i]
			if code == dhcpOptEnd || code == 0 {
				i++
				continue
			}
			if i+1 >= len(opts) {
				break
			}
			length := int(opts[i+1])
			start := i + 2
			if start+length > len(opts) {
				break
			}
			data := opts[start : start+length]
			switch code {
			case dhcpOptMessageType:
				if length >= 1 {
					r.msgType = data[0]
				}
			case dhcpOptBootfile:
				r.file = trimNulString(data)
			}
			i = start + length
		}
	}
	return r, nil
}

func trimNulString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// AcquireLease runs the discover/offer/request/ack exchange over sock
// and returns the resulting lease. mac identifies this host's link
// address; xid is the transaction ID correlating replies to requests.
func AcquireLease(sock Socket, mac [6]byte, xid uint32) (Lease, error) {
	broadcast := [4]byte{255, 255, 255, 255}

	if err := sock.SendTo(broadcast, DHCPServerPort, BuildDiscover(xid, mac)); err != nil {
		return Lease{}, err
	}
	_, _, offerBuf, err := sock.RecvFrom()
	if err != nil {
		return Lease{}, err
	}
	offer, err := parseReply(offerBuf)
	if err != nil {
		return Lease{}, err
	}
	if offer.msgType != dhcpOffer {
		return Lease{}, ErrNoLease
	}

	if err := sock.SendTo(broadcast, DHCPServerPort, BuildRequest(xid, mac, offer.yiaddr, offer.siaddr)); err != nil {
		return Lease{}, err
	}
	_, _, ackBuf, err := sock.RecvFrom()
	if err != nil {
		return Lease{}, err
	}
	ack, err := parseReply(ackBuf)
	if err != nil {
		return Lease{}, err
	}
	if ack.msgType != dhcpAck {
		return Lease{}, ErrNoLease
	}

	return Lease{ClientIP: ack.yiaddr, ServerIP: ack.siaddr, BootFilename: ack.file}, nil
}

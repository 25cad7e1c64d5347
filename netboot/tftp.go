package netboot

import "errors"

// TFTP (RFC 1350) opcodes and the fixed 512-byte block size this
// loader speaks; no options extension (blksize, tsize, ...) is
// negotiated, matching real TFTP boot ROMs of this class.
const (
	tftpOpRRQ   = 1
	tftpOpDATA  = 3
	tftpOpACK   = 4
	tftpOpERROR = 5

	tftpBlockSize = 512
	TFTPPort      = 69
)

var ErrTFTP = errors.New("netboot: server returned a TFTP error packet")

// BuildRRQ assembles a read request for filename in octet mode.
func BuildRRQ(filename string) []byte {
	buf := make([]byte, 0, 4+len(filename)+len("octet"))
	buf = append(buf, 0, tftpOpRRQ)
	buf = append(buf, filename...)
	buf = append(buf, 0)
	buf = append(buf, "octet"...)
	buf = append(buf, 0)
	return buf
}

func buildACK(block uint16) []byte {
	return []byte{0, tftpOpACK, byte(block >> 8), byte(block)}
}

// dataPacket is a decoded DATA packet's block number and payload (the
// payload slice aliases the input buffer).
type dataPacket struct {
	block   uint16
	payload []byte
}

func parseDataOrError(buf []byte) (dataPacket, error) {
	if len(buf) < 4 {
		return dataPacket{}, errors.New("netboot: TFTP packet shorter than opcode+block header")
	}
	opcode := uint16(buf[0])<<8 | uint16(buf[1])
	switch opcode {
	case tftpOpDATA:
		block := uint16(buf[2])<<8 | uint16(buf[3])
		return dataPacket{block: block, payload: buf[4:]}, nil
	case tftpOpERROR:
		return dataPacket{}, ErrTFTP
	default:
		return dataPacket{}, errors.New("netboot: unexpected TFTP opcode")
	}
}

// FetchInto drives a full TFTP GET of filename from server, handing
// each DATA block's payload to onBlock(payload, moreExpected) in wire
// order and ACKing every block in turn. It stops as soon as a block
// shorter than tftpBlockSize bytes arrives (TFTP's own end-of-file
// signal) or onBlock returns an error.
func FetchInto(sock Socket, server [4]byte, filename string, onBlock func(buf []byte, more bool) error) error {
	if err := sock.SendTo(server, TFTPPort, BuildRRQ(filename)); err != nil {
		return err
	}

	var expectedBlock uint16 = 1
	for {
		_, srcPort, buf, err := sock.RecvFrom()
		if err != nil {
			return err
		}
		pkt, err := parseDataOrError(buf)
		if err != nil {
			return err
		}
		if pkt.block != expectedBlock {
			// Stale retransmit or out-of-order delivery: ACK it again
			// without feeding the parser a duplicate block.
			if err := sock.SendTo(server, srcPort, buildACK(pkt.block)); err != nil {
				return err
			}
			continue
		}

		final := len(pkt.payload) < tftpBlockSize
		if err := onBlock(pkt.payload, !final); err != nil {
			return err
		}
		if err := sock.SendTo(server, srcPort, buildACK(pkt.block)); err != nil {
			return err
		}
		if final {
			return nil
		}
		expectedBlock++
	}
}

package netboot

import "speccyboot/snapshot"

// Loader is C8's concrete home: it holds no parser state of its own,
// forwarding every block straight to the snapshot parser, and exists
// only to give the block-delivery callback TFTP drives a fixed shape
// independent of how the parser itself evolves.
type Loader struct {
	parser *snapshot.Parser
}

// NewLoader wires a Loader to the parser that will consume every
// block it is handed.
func NewLoader(parser *snapshot.Parser) *Loader {
	return &Loader{parser: parser}
}

// OnTFTPBlock is the single entry point C8 exposes. It forwards to
// Parser.Offer, then — per the contract — asserts completion on the
// final block: when more is false, the parser must have reached
// completion, or this fails with ErrEndOfData.
func (l *Loader) OnTFTPBlock(buf []byte, more bool) error {
	if err := l.parser.Offer(buf, more); err != nil {
		return err
	}
	if !more && !l.parser.Done() {
		return snapshot.ErrEndOfData
	}
	return nil
}

// Boot runs the whole net-boot sequence: acquire a DHCP lease, then
// fetch the boot filename it names over TFTP, feeding every block to
// OnTFTPBlock.
func Boot(sock Socket, mac [6]byte, xid uint32, parser *snapshot.Parser) error {
	lease, err := AcquireLease(sock, mac, xid)
	if err != nil {
		return err
	}
	loader := NewLoader(parser)
	return FetchInto(sock, lease.ServerIP, lease.BootFilename, loader.OnTFTPBlock)
}

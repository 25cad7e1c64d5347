//go:build hardware

package netboot

import "github.com/soypat/lneto/x/xnet"

// StackSocket adapts the same *xnet.StackAsync the teacher wires into
// its TCP-based collaborators (console, MQTT, OTA push) to this
// package's UDP-shaped Socket — the counterpart this loader needs for
// BOOTP/DHCP and TFTP, neither of which the teacher's stack used
// before (it is TCP-only there).
type StackSocket struct {
	stack     *xnet.StackAsync
	localPort uint16
}

// NewStackSocket binds a UDP endpoint on localPort over stack.
func NewStackSocket(stack *xnet.StackAsync, localPort uint16) *StackSocket {
	return &StackSocket{stack: stack, localPort: localPort}
}

func (s *StackSocket) SendTo(destIP [4]byte, destPort uint16, payload []byte) error {
	return s.stack.SendUDP(destIP, destPort, s.localPort, payload)
}

func (s *StackSocket) RecvFrom() (srcIP [4]byte, srcPort uint16, payload []byte, err error) {
	return s.stack.RecvUDP(s.localPort)
}

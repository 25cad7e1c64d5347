//go:build hardware

package netboot

import (
	"errors"

	"speccyboot/sram"

	"github.com/soypat/lneto/x/xnet"
)

// Controller owns the bit-banged-SPI Ethernet chip and link bring-up,
// the same role the teacher's cywnet.Stack plays for its WiFi radio —
// own the SPI bus, bring the link up, and hand the rest of the loader
// a bare *xnet.StackAsync to drive BOOTP/DHCP and TFTP over. The
// teacher's chip is WiFi; this target's is an ENC28J60-class wired
// controller, so the SPI bus is the one sram.Bus already models for
// its packet-buffer reads/writes, reused here for the link-layer
// frame queue instead.
type Controller struct {
	bus    *sram.Bus
	cfg    ControllerConfig
	stack  *xnet.StackAsync
}

// NewController brings the link up over bus and constructs the
// network stack. It does not perform DHCP; callers use
// AcquireLease (bootp.go) against the returned stack's Socket.
func NewController(bus *sram.Bus, cfg ControllerConfig) (*Controller, error) {
	c := &Controller{bus: bus, cfg: cfg}
	stack, err := xnet.NewStackAsync(xnet.StackConfig{
		MAC:      cfg.MAC,
		Hostname: cfg.Hostname,
	})
	if err != nil {
		return nil, errors.New("netboot: controller bring-up failed: " + err.Error())
	}
	c.stack = stack
	return c, nil
}

// Stack returns the underlying network stack, for constructing a
// StackSocket.
func (c *Controller) Stack() *xnet.StackAsync {
	return c.stack
}

// Poll drives one iteration of the link's receive/transmit queues.
// The loader calls this from its single cooperative boot loop rather
// than from a background goroutine, matching §5's single-threaded
// scheduling model (the teacher instead runs this in its own
// goroutine, since its host has an OS scheduler to spare).
func (c *Controller) Poll() error {
	return c.stack.PollOne()
}

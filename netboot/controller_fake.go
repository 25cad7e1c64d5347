//go:build !hardware

package netboot

// FakeController is a host-test stand-in for the chip driver: it does
// no real SPI or link bring-up, just records that bring-up was
// requested so tests can assert the boot sequence reaches this step.
type FakeController struct {
	Cfg      ControllerConfig
	PollCount int
}

func NewFakeController(cfg ControllerConfig) *FakeController {
	return &FakeController{Cfg: cfg}
}

func (c *FakeController) Poll() error {
	c.PollCount++
	return nil
}

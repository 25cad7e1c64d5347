package netboot

// ControllerConfig names the handful of parameters the chip driver
// needs to bring the link up: a hostname for DHCP option 12, and the
// station MAC address burned into (or assigned for) the Ethernet
// controller.
type ControllerConfig struct {
	Hostname string
	MAC      [6]byte
}

// Package config supplies the loader's environment-specific values —
// TFTP server override, boot filename, off-chip evacuation base
// offset, network retry timing, and the optional telemetry broker —
// through go:embed text files with typed accessors and sane
// defaults, exactly as the teacher's config package does for its
// broker address and timing knobs.
package config

import (
	_ "embed"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// Defaults for operational configuration. Overridden by placing a
// non-empty value in the corresponding .text file.
const (
	DefaultBootFilename  = "default.z80"
	DefaultOffChipBase   = uint16(0x1800)
	DefaultRetryBudget   = 5
	DefaultRetryInterval = 500 * time.Millisecond
)

// Environment-specific configuration (must be provided via embedded
// text files; an empty file means "use the default" for every one of
// these, and "resolve via BOOTP/DHCP" for tftp_server.text
// specifically).
var (
	//go:embed tftp_server.text
	tftpServerOverride string

	//go:embed boot_filename.text
	bootFilenameOverride string

	//go:embed off_chip_base.text
	offChipBaseOverride string

	//go:embed retry_budget.text
	retryBudgetOverride string

	//go:embed retry_interval.text
	retryIntervalOverride string

	//go:embed telemetry_broker.text
	telemetryBrokerAddr string

	//go:embed device_id.text
	deviceIDOverride string
)

// TFTPServerOverride returns the configured boot-server address and
// whether a parsable override was configured at all. netboot.Boot
// does not read it: the TFTP request always goes to the server the
// DHCP lease names.
func TFTPServerOverride() (addr netip.Addr, ok bool) {
	v := strings.TrimSpace(tftpServerOverride)
	if v == "" {
		return netip.Addr{}, false
	}
	addr, err := netip.ParseAddr(v)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}

// BootFilename returns the configured snapshot filename,
// DefaultBootFilename unless overridden. main logs and reports it, but
// netboot.Boot requests the filename the DHCP lease names, not this one.
func BootFilename() string {
	if v := strings.TrimSpace(bootFilenameOverride); v != "" {
		return v
	}
	return DefaultBootFilename
}

// OffChipBase returns the byte offset into off-chip SRAM where
// evacuated runtime bytes are staged — spec.md's "compile-time
// constant (historically 0x1800 or 0x1400)," made overridable here
// rather than fixed in evac.DefaultDescriptor.
func OffChipBase() uint16 {
	v := strings.TrimSpace(offChipBaseOverride)
	if v == "" {
		return DefaultOffChipBase
	}
	n, err := strconv.ParseUint(v, 0, 16)
	if err != nil {
		return DefaultOffChipBase
	}
	return uint16(n)
}

// RetryBudget returns the configured retry count for BOOTP/DHCP and ARP
// resolution, DefaultRetryBudget unless overridden with a positive
// integer. netboot does not read it: AcquireLease sends each request
// once and fails on the first receive timeout.
func RetryBudget() int {
	v := strings.TrimSpace(retryBudgetOverride)
	if v == "" {
		return DefaultRetryBudget
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return DefaultRetryBudget
	}
	return n
}

// RetryInterval returns the configured delay between BOOTP/DHCP or ARP
// retries, DefaultRetryInterval unless overridden. netboot does not
// read it; AcquireLease does not retry.
func RetryInterval() time.Duration {
	v := strings.TrimSpace(retryIntervalOverride)
	if v == "" {
		return DefaultRetryInterval
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return DefaultRetryInterval
	}
	return d
}

// TelemetryBrokerAddr returns the optional MQTT broker address for
// the boot-event beacon, and whether telemetry's beacon should run at
// all (an empty file disables it — the beacon is always optional per
// §2.2).
func TelemetryBrokerAddr() (netip.AddrPort, bool) {
	v := strings.TrimSpace(telemetryBrokerAddr)
	if v == "" {
		return netip.AddrPort{}, false
	}
	addr, err := netip.ParseAddrPort(v)
	if err != nil {
		return netip.AddrPort{}, false
	}
	return addr, true
}

// DeviceID returns the identifier this unit publishes its boot beacon
// under. Falls back to a fixed default so the beacon topic is always
// well-formed even on a unit that was never provisioned with one.
func DeviceID() string {
	if v := strings.TrimSpace(deviceIDOverride); v != "" {
		return v
	}
	return "speccyboot"
}

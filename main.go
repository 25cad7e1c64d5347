//go:build hardware

// Command speccyboot is the ROM-resident loader itself: poll the
// keyboard for an exit-to-native-ROM request, otherwise bring the
// network controller up, acquire a DHCP lease, fetch the snapshot
// filename the lease names over TFTP, and context-switch into it. Modelled
// on the teacher's main.go, reduced from its continuous wake/refresh
// loop to the single straight-line boot sequence this target actually
// runs: there is no scheduler here to hand control back to once the
// switch happens, so main never returns on the success path.
package main

import (
	"log/slog"
	"machine"

	"speccyboot/config"
	"speccyboot/ctxswitch"
	"speccyboot/evac"
	"speccyboot/memmap"
	"speccyboot/netboot"
	"speccyboot/progress"
	"speccyboot/snapshot"
	"speccyboot/sram"
	"speccyboot/telemetry"
	"speccyboot/ui"
	"speccyboot/version"
)

// stationMAC is a locally-administered address (the U/L bit set, the
// second octet spelling "SB" for SpeccyBoot) used until a unit is
// provisioned with a real one.
var stationMAC = [6]byte{0x02, 0x53, 0x42, 0x00, 0x00, 0x01}

// spiPins wires the bit-banged SPI bus shared by the off-chip SRAM
// façade and the Ethernet controller living on the same chip.
var spiPins = sram.Pins{
	SCLK: machine.D13,
	MOSI: machine.D11,
	MISO: machine.D12,
	CS:   machine.D10,
}

func main() {
	logger := slog.New(telemetry.NewHandler(machine.Serial, nil, ui.HardwareHalt{}, ui.BorderForError))
	logger.Info("speccyboot:start",
		slog.String("version", version.Version),
		slog.String("sha", version.ShortSHA()),
		slog.String("image", version.ImageMarker),
	)

	if ui.PollAction(ui.HardwareKeyboard{}) == ui.ActionExitToROM {
		logger.Info("boot:exit-to-native-rom")
		return
	}

	bus := sram.NewBus(spiPins)

	desc := evac.DefaultDescriptor
	desc.OffChipBase = config.OffChipBase()
	evacuator := evac.New(bus, desc)

	mm := memmap.New(evacuator)
	ui.Splash(mm)

	ctrl, err := netboot.NewController(bus, netboot.ControllerConfig{
		Hostname: config.DeviceID(),
		MAC:      stationMAC,
	})
	if err != nil {
		fail(logger, ctrl, ui.ErrInternal)
	}

	reporter := progress.New(mm)
	parser := snapshot.NewParser(mm, evacuator, reporter)

	sock := netboot.NewStackSocket(ctrl.Stack(), 68)
	xid := ctrl.Stack().Prand32()

	logger.Info("netboot:start", slog.String("filename", config.BootFilename()))
	if err := netboot.Boot(sock, stationMAC, xid, parser); err != nil {
		logger.Error("netboot:failed", slog.Any("err", err))
		fail(logger, ctrl, err)
	}

	logger.Info("netboot:complete", slog.Int("kilobytes", reporter.Count()))
	beacon(ctrl, true, config.BootFilename(), "")

	switcher := ctxswitch.New(mm, evacuator, ctxswitch.HardwareIRQGate{}, ctxswitch.HardwareLeaper{})
	if err := switcher.Switch(parser.Header()); err != nil {
		fail(logger, ctrl, ui.ErrInternal)
	}
	// Switch does not return on success; reaching here is itself a bug.
}

// fail publishes a best-effort failure beacon, then halts. It never
// returns.
func fail(logger *slog.Logger, ctrl *netboot.Controller, err error) {
	beacon(ctrl, false, "", err.Error())
	ui.Halt(ui.HardwareHalt{}, err)
}

func beacon(ctrl *netboot.Controller, success bool, image, errKind string) {
	brokerAddr, ok := config.TelemetryBrokerAddr()
	if !ok || ctrl == nil {
		return
	}
	pub := telemetry.NewMQTTPublisher(ctrl.Stack(), brokerAddr)
	_ = telemetry.PublishBoot(pub, config.DeviceID(), telemetry.BootOutcome{
		Success:   success,
		ImageName: image,
		ErrorKind: errKind,
	})
}

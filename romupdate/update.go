package romupdate

// Updater drives the self-update sequence: erase and program the idle
// bank, then arm a try-before-you-buy window on the bank-select
// latch. Mirrors the teacher's ota package's ConfirmPartition /
// RebootToPartition split, but with the confirm deadline driven by
// the loader's own tick counter instead of the RP2350 bootrom's
// 16.7-second timer, since this target has no bootrom to do it for us.
type Updater struct {
	flash Flash
	sel   BankSelect

	armed          bool
	prevBank       int
	ticksRemaining int
}

// New returns an Updater bound to the given flash part and
// bank-select latch.
func New(flash Flash, sel BankSelect) *Updater {
	return &Updater{flash: flash, sel: sel}
}

// TargetBank returns the bank WriteImage and Arm will act on: the one
// not currently selected to boot.
func (u *Updater) TargetBank() int {
	return OtherBank(u.sel.ActiveBank())
}

// WriteImage erases and programs the idle bank with a new loader
// image. It never touches the active bank.
func (u *Updater) WriteImage(data []byte) error {
	if len(data) > MaxImageSize {
		return ErrImageTooLarge
	}
	base, err := BankOffset(u.TargetBank())
	if err != nil {
		return err
	}
	for off := uint32(0); off < BankSize; off += SectorSize {
		if err := u.flash.EraseSector(base + off); err != nil {
			return ErrFlashEraseFailed
		}
	}
	for off := 0; off < len(data); off += PageSize {
		end := off + PageSize
		if end > len(data) {
			end = len(data)
		}
		if err := u.flash.WriteChunk(base+uint32(off), data[off:end]); err != nil {
			return ErrFlashWriteFailed
		}
	}
	return nil
}

// Arm points the bank-select latch at the freshly written bank and
// opens a confirm window of windowTicks timer ticks. Until Confirm is
// called, every Tick brings the window closer to an automatic revert
// back to the bank that was active before Arm.
func (u *Updater) Arm(windowTicks int) error {
	prev := u.sel.ActiveBank()
	target := OtherBank(prev)
	if err := u.sel.SetActiveBank(target); err != nil {
		return err
	}
	u.prevBank = prev
	u.ticksRemaining = windowTicks
	u.armed = true
	return nil
}

// Tick advances the confirm window by one timer tick. If the window
// expires before Confirm is called, the latch is put back to the
// bank that was active before Arm — the same "bad image can't brick
// the device" guarantee the teacher's TBYB partition scheme gives the
// RP2350, reproduced here without a bootrom's help.
func (u *Updater) Tick() {
	if !u.armed {
		return
	}
	u.ticksRemaining--
	if u.ticksRemaining <= 0 {
		u.sel.SetActiveBank(u.prevBank)
		u.armed = false
	}
}

// Confirm closes the window and leaves the latch pointed at the new
// bank. Returns ErrNotArmed if no window is open (Arm was never
// called, or it already expired and auto-reverted).
func (u *Updater) Confirm() error {
	if !u.armed {
		return ErrNotArmed
	}
	u.armed = false
	return nil
}

// Armed reports whether a confirm window is currently open.
func (u *Updater) Armed() bool {
	return u.armed
}

package romupdate

// BankSelect is the hardware paging latch that decides which ROM
// bank is mapped into the host's ROM window at power-on. It holds no
// memory of its own across a power cycle; that volatility is exactly
// what makes the confirm window safe — an unconfirmed update reverts
// itself the moment the latch is touched again without a Confirm.
type BankSelect interface {
	ActiveBank() int
	SetActiveBank(bank int) error
}

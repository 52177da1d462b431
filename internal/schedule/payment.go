package schedule

// PaymentType identifies which package a client paid for. Each carries a
// fixed amount used for revenue rollups; an appointment has at most one.
type PaymentType string

const (
	Payment5K        PaymentType = "5k"
	Payment4K        PaymentType = "4k"
	Payment1KDeposit PaymentType = "1k_deposit"
	Payment5KDeposit PaymentType = "5k_deposit"
	Payment6KSub     PaymentType = "6k_sub"
	Payment10K       PaymentType = "10k"
	Payment10K2nd    PaymentType = "10k_2nd"
	Payment20K       PaymentType = "20k"
)

var paymentAmounts = map[PaymentType]int{
	Payment5K:        5000,
	Payment4K:        4000,
	Payment1KDeposit: 1000,
	Payment5KDeposit: 5000,
	Payment6KSub:     6000,
	Payment10K:       10000,
	Payment10K2nd:    10000,
	Payment20K:       20000,
}

var paymentOrder = []PaymentType{
	Payment5K,
	Payment4K,
	Payment1KDeposit,
	Payment5KDeposit,
	Payment6KSub,
	Payment10K,
	Payment10K2nd,
	Payment20K,
}

// PaymentTypes returns the closed payment set in display order.
func PaymentTypes() []PaymentType {
	out := make([]PaymentType, len(paymentOrder))
	copy(out, paymentOrder)
	return out
}

// Known reports whether p belongs to the closed payment set.
func (p PaymentType) Known() bool {
	_, ok := paymentAmounts[p]
	return ok
}

// Amount returns the monetary value of p. Absent or unknown payment codes
// contribute zero revenue.
func (p PaymentType) Amount() int {
	return paymentAmounts[p]
}

// PitchTier is the package tier presented to a prospect. The initial tier is
// recorded on the appointment at booking time and tracked independently of
// the final pitched5k/pitched20k status, since the tier may change between
// first contact and final outcome.
type PitchTier string

const (
	PitchTierNone PitchTier = ""
	PitchTier5K   PitchTier = "5k"
	PitchTier20K  PitchTier = "20k"
)

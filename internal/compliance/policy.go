package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds every tunable constant of the compliance engine. Values come
// from configuration so the grace window, tier boundaries and thresholds are
// decided in exactly one place.
type Policy struct {
	// Payment term tiers: amounts up to ShortTermMax get ShortTermDays,
	// amounts up to MidTermMax get MidTermDays, everything above gets
	// LongTermDays. Bounds are inclusive.
	ShortTermMax  decimal.Decimal
	MidTermMax    decimal.Decimal
	ShortTermDays int
	MidTermDays   int
	LongTermDays  int

	// GracePeriod is the window after the due date during which no
	// deduction applies and the transaction is not yet overdue.
	GracePeriod time.Duration

	// Deduction tiers keyed by whole days elapsed since the grace window
	// ended: days < Tier2StartDay deduct Tier1Points, days < Tier3StartDay
	// deduct Tier2Points, anything beyond deducts Tier3Points.
	Tier2StartDay int
	Tier3StartDay int
	Tier1Points   int
	Tier2Points   int
	Tier3Points   int

	// SuspensionThreshold is the loyalty balance at or below which the
	// account is suspended.
	SuspensionThreshold int

	// Bans trigger at zero balance. Transactions up to BanAmountMax earn
	// ShortBanDays, larger ones LongBanDays.
	BanAmountMax decimal.Decimal
	ShortBanDays int
	LongBanDays  int
}

// DefaultPolicy returns the canonical policy values.
func DefaultPolicy() Policy {
	return Policy{
		ShortTermMax:        decimal.NewFromInt(50),
		MidTermMax:          decimal.NewFromInt(99),
		ShortTermDays:       3,
		MidTermDays:         4,
		LongTermDays:        5,
		GracePeriod:         24 * time.Hour,
		Tier2StartDay:       2,
		Tier3StartDay:       5,
		Tier1Points:         1,
		Tier2Points:         3,
		Tier3Points:         5,
		SuspensionThreshold: 20,
		BanAmountMax:        decimal.NewFromInt(50),
		ShortBanDays:        3,
		LongBanDays:         7,
	}
}

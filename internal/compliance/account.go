package compliance

import "github.com/shopspring/decimal"

// ShouldSuspend reports whether a loyalty balance puts the account into
// suspension. Suspension and ban are independent outcomes; both are
// evaluated whenever the balance changes.
func (e *Engine) ShouldSuspend(loyaltyBalance int) bool {
	return loyaltyBalance <= e.policy.SuspensionThreshold
}

// ShouldBan reports whether a loyalty balance triggers a ban, and for how
// many days. Bans only trigger at zero; the length depends on the amount of
// the transaction that drove the balance down.
func (e *Engine) ShouldBan(loyaltyBalance int, amount decimal.Decimal) (bool, int) {
	if loyaltyBalance > 0 {
		return false, 0
	}
	if amount.LessThanOrEqual(e.policy.BanAmountMax) {
		return true, e.policy.ShortBanDays
	}
	return true, e.policy.LongBanDays
}

package compliance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prasetyo/canteen-compliance/internal/calendar"
)

// DueDateCalculator maps a transaction amount to a payment term and produces
// a business-day adjusted due date.
type DueDateCalculator struct {
	cal    *calendar.Calendar
	policy Policy
}

func NewDueDateCalculator(cal *calendar.Calendar, policy Policy) *DueDateCalculator {
	return &DueDateCalculator{cal: cal, policy: policy}
}

// PaymentTermDays returns the number of calendar days a student has to
// settle a transaction of the given amount.
func (d *DueDateCalculator) PaymentTermDays(amount decimal.Decimal) int {
	switch {
	case amount.LessThanOrEqual(d.policy.ShortTermMax):
		return d.policy.ShortTermDays
	case amount.LessThanOrEqual(d.policy.MidTermMax):
		return d.policy.MidTermDays
	default:
		return d.policy.LongTermDays
	}
}

// ComputeDueDate adds the payment term to the transaction date and shifts
// the result forward to the next business day. The returned date never
// falls on a weekend or holiday.
func (d *DueDateCalculator) ComputeDueDate(transactionDate time.Time, amount decimal.Decimal) time.Time {
	due := transactionDate.AddDate(0, 0, d.PaymentTermDays(amount))
	return d.cal.NextBusinessDay(due)
}

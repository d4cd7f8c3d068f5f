package compliance

import (
	"time"

	"github.com/prasetyo/canteen-compliance/internal/calendar"
	"github.com/prasetyo/canteen-compliance/internal/domain"
)

// Engine decides overdue state and loyalty deductions for a transaction.
// All methods are pure; persisting the outcome is the sweep's job, and the
// sweep must write LastDeductionDate together with the balance decrement so
// the once-per-day guarantee holds.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// IsOverdue reports whether the transaction is past its grace window.
// A transaction inside the grace window is not overdue. Transactions
// without terms, or outside due-date tracking, are never overdue.
func (e *Engine) IsOverdue(t *domain.Transaction, now time.Time) bool {
	if t.Terms == nil || !t.Status.Tracked() {
		return false
	}
	return now.After(t.Terms.DueDate.Add(e.policy.GracePeriod))
}

// HasBeenProcessedToday reports whether a deduction was already applied to
// this transaction on now's calendar day. The comparison is by calendar
// day, not a rolling 24h window.
func (e *Engine) HasBeenProcessedToday(t *domain.Transaction, now time.Time) bool {
	if t.Terms == nil || t.Terms.LastDeductionDate == nil {
		return false
	}
	return calendar.SameDay(*t.Terms.LastDeductionDate, now)
}

// DaysOverdue returns the number of whole days elapsed since the grace
// window ended. Negative while the transaction is not yet overdue.
func (e *Engine) DaysOverdue(t *domain.Transaction, now time.Time) int {
	graceEnd := t.Terms.DueDate.Add(e.policy.GracePeriod)
	return int(now.Sub(graceEnd).Hours() / 24)
}

// CalculateDeduction returns the loyalty points to deduct from the
// transaction's owner right now. Zero when the transaction is not overdue,
// still in grace, or already processed today. Otherwise the tier amount
// for the current days-overdue count.
func (e *Engine) CalculateDeduction(t *domain.Transaction, now time.Time) int {
	if !e.IsOverdue(t, now) {
		return 0
	}
	if e.HasBeenProcessedToday(t, now) {
		return 0
	}
	days := e.DaysOverdue(t, now)
	switch {
	case days >= e.policy.Tier3StartDay:
		return e.policy.Tier3Points
	case days >= e.policy.Tier2StartDay:
		return e.policy.Tier2Points
	default:
		return e.policy.Tier1Points
	}
}

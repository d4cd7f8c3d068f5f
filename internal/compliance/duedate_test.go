package compliance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/prasetyo/canteen-compliance/internal/calendar"
	"github.com/prasetyo/canteen-compliance/internal/compliance"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newCalculator() *compliance.DueDateCalculator {
	return compliance.NewDueDateCalculator(calendar.New(), compliance.DefaultPolicy())
}

func TestPaymentTermDays(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		amount   string
		expected int
	}{
		{"1", 3},
		{"49.50", 3},
		{"50", 3},
		{"50.01", 4},
		{"51", 4},
		{"99", 4},
		{"99.99", 4},
		{"100", 5},
		{"5000", 5},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, calc.PaymentTermDays(amount))
		})
	}
}

func TestPaymentTermDaysMonotonic(t *testing.T) {
	calc := newCalculator()

	prev := 0
	for cents := int64(1); cents <= 15000; cents += 25 {
		amount := decimal.New(cents, -2)
		days := calc.PaymentTermDays(amount)
		assert.GreaterOrEqual(t, days, prev, "term days decreased at amount %s", amount)
		prev = days
	}
}

func TestComputeDueDate(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		name     string
		created  time.Time
		amount   string
		expected time.Time
	}{
		{
			name:     "small amount lands on a monday",
			created:  date(2024, 6, 7), // Friday
			amount:   "40",
			expected: date(2024, 6, 10),
		},
		{
			name:     "term ending on a holiday shifts forward",
			created:  date(2024, 6, 7), // Friday, +5 lands on Independence Day
			amount:   "150",
			expected: date(2024, 6, 13),
		},
		{
			name:     "term ending on a weekend then holiday shifts past both",
			created:  date(2024, 6, 9), // Sunday, +3 lands on the holiday
			amount:   "30",
			expected: date(2024, 6, 13),
		},
		{
			name:     "mid tier amount",
			created:  date(2024, 6, 10), // Monday, +4 = Friday
			amount:   "75",
			expected: date(2024, 6, 14),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, calc.ComputeDueDate(tt.created, amount))
		})
	}
}

func TestComputeDueDateNeverWeekendOrHoliday(t *testing.T) {
	cal := calendar.New()
	calc := compliance.NewDueDateCalculator(cal, compliance.DefaultPolicy())

	amounts := []decimal.Decimal{
		decimal.NewFromInt(10),
		decimal.NewFromInt(75),
		decimal.NewFromInt(200),
	}

	for d := date(2024, 1, 1); d.Year() < 2026; d = d.AddDate(0, 0, 1) {
		for _, amount := range amounts {
			due := calc.ComputeDueDate(d, amount)
			assert.True(t, cal.IsBusinessDay(due),
				"due date %s for start %s amount %s is not a business day",
				due.Format("2006-01-02"), d.Format("2006-01-02"), amount)
		}
	}
}

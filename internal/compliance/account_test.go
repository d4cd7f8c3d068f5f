package compliance_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/prasetyo/canteen-compliance/internal/compliance"
)

func TestShouldSuspend(t *testing.T) {
	engine := compliance.NewEngine(compliance.DefaultPolicy())

	assert.True(t, engine.ShouldSuspend(20))
	assert.False(t, engine.ShouldSuspend(21))
	assert.True(t, engine.ShouldSuspend(0))
	assert.False(t, engine.ShouldSuspend(25))
}

func TestShouldBan(t *testing.T) {
	engine := compliance.NewEngine(compliance.DefaultPolicy())

	tests := []struct {
		name       string
		balance    int
		amount     string
		expectBan  bool
		expectDays int
	}{
		{"zero balance small amount gets short ban", 0, "50", true, 3},
		{"zero balance larger amount gets long ban", 0, "51", true, 7},
		{"positive balance never bans", 1, "500", false, 0},
		{"suspension range alone does not ban", 15, "500", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)

			ban, days := engine.ShouldBan(tt.balance, amount)
			assert.Equal(t, tt.expectBan, ban)
			assert.Equal(t, tt.expectDays, days)
		})
	}
}

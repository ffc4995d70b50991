package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athakur/ledgerhand/internal/model"
)

func TestSummarize(t *testing.T) {
	date := time.Date(2025, 8, 1, 8, 30, 0, 0, time.UTC)

	t.Run("income and expense on one account", func(t *testing.T) {
		s := Summarize([]model.Transaction{
			{Type: model.Income, Account: "Cash", Category: "Salary", Amount: 100, Date: date},
			{Type: model.Expense, Account: "Cash", Category: "Groceries", Amount: 40, Date: date},
		})

		d, ok := s.Deltas["Cash"]
		require.True(t, ok)
		assert.InDelta(t, 100, d.Credit, 0.001)
		assert.InDelta(t, 40, d.Debit, 0.001)
		assert.InDelta(t, 60, d.Net, 0.001)
	})

	t.Run("transfer debits source and credits destination", func(t *testing.T) {
		s := Summarize([]model.Transaction{
			{Type: model.Transfer, Account: "Cash", Category: "Fixed Deposit", Amount: 500, Date: date},
		})

		src := s.Deltas["Cash"]
		assert.InDelta(t, -500, src.Net, 0.001)
		assert.InDelta(t, 500, src.Debit, 0.001)

		dst := s.Deltas["Fixed Deposit"]
		assert.InDelta(t, 500, dst.Net, 0.001)
		assert.InDelta(t, 500, dst.Credit, 0.001)
	})

	t.Run("accounts keep first-touched order", func(t *testing.T) {
		s := Summarize([]model.Transaction{
			{Type: model.Expense, Account: "Splitwise", Category: "Food", Amount: 10, Date: date},
			{Type: model.Transfer, Account: "Cash", Category: "Splitwise", Amount: 5, Date: date},
		})
		assert.Equal(t, []string{"Splitwise", "Cash"}, s.Accounts)
	})

	t.Run("empty batch", func(t *testing.T) {
		s := Summarize(nil)
		assert.Empty(t, s.Accounts)
		assert.Empty(t, s.Deltas)
	})
}

func TestSummary_Render(t *testing.T) {
	date := time.Date(2025, 8, 1, 8, 30, 0, 0, time.UTC)
	s := Summarize([]model.Transaction{
		{Type: model.Expense, Account: "SBI Elite CC", Category: "Transportation", Amount: 123879.23, Date: date},
	})

	out := s.Render()
	assert.Contains(t, out, "SBI Elite CC")
	assert.Contains(t, out, "123,879.23")
	assert.Contains(t, out, "-123,879.23")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		want string
		in   float64
	}{
		{in: 0, want: "0.00"},
		{in: 60, want: "60.00"},
		{in: 1200, want: "1,200.00"},
		{in: 123879.23, want: "123,879.23"},
		{in: -1800.65, want: "-1,800.65"},
		{in: 1234567.5, want: "1,234,567.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

package ledger

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/athakur/ledgerhand/internal/model"
)

// Delta is the aggregated signed effect of a batch on one account.
type Delta struct {
	Credit float64
	Debit  float64
	Net    float64
}

// Summary maps each touched account to its expected balance change. It is
// shown to the operator for review before the run and never enforced.
type Summary struct {
	Deltas   map[string]Delta
	Accounts []string // first-touched order, for stable rendering
}

// Summarize aggregates the expected per-account balance changes of a batch.
// Income credits its account, Expense debits it, and Transfer debits the
// source account and credits the destination carried in the Category field.
func Summarize(txns []model.Transaction) Summary {
	s := Summary{Deltas: make(map[string]Delta)}

	touch := func(account string) Delta {
		d, ok := s.Deltas[account]
		if !ok {
			s.Accounts = append(s.Accounts, account)
		}
		return d
	}
	credit := func(account string, amount float64) {
		d := touch(account)
		d.Credit += amount
		d.Net += amount
		s.Deltas[account] = d
	}
	debit := func(account string, amount float64) {
		d := touch(account)
		d.Debit += amount
		d.Net -= amount
		s.Deltas[account] = d
	}

	for i := range txns {
		tx := &txns[i]
		switch tx.Type {
		case model.Income:
			credit(tx.Account, tx.Amount)
		case model.Expense:
			debit(tx.Account, tx.Amount)
		case model.Transfer:
			debit(tx.Account, tx.Amount)
			credit(tx.Category, tx.Amount)
		}
	}

	return s
}

// Render formats the summary as a table for the pre-run verification prompt.
func (s Summary) Render() string {
	t := table.NewWriter()
	t.SetTitle("Expected net changes")
	t.AppendHeader(table.Row{"Account", "Credit", "Debit", "Net"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Credit", Align: text.AlignRight},
		{Name: "Debit", Align: text.AlignRight},
		{Name: "Net", Align: text.AlignRight},
	})

	for _, account := range s.Accounts {
		d := s.Deltas[account]
		t.AppendRow(table.Row{account, FormatAmount(d.Credit), FormatAmount(d.Debit), FormatAmount(d.Net)})
	}

	return t.Render()
}

// FormatAmount renders an amount with thousands separators and two decimals.
func FormatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

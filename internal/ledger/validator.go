// Package ledger implements the pre-flight checks that gate every automated
// run: schema and taxonomy validation of the batch, and the net-effect
// summary shown to the operator before any device input is sent.
package ledger

import (
	"fmt"
	"log/slog"

	"github.com/athakur/ledgerhand/internal/model"
	"github.com/athakur/ledgerhand/internal/taxonomy"
)

// ValidationError describes the first failing check of a batch. Index is the
// zero-based position of the offending record in the batch.
type ValidationError struct {
	Field  string
	Reason string
	Index  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("transaction %d: %s: %s", e.Index, e.Field, e.Reason)
}

// Validator checks transactions against the configured taxonomy.
type Validator struct {
	tax taxonomy.Taxonomy
}

// NewValidator creates a validator bound to the given taxonomy.
func NewValidator(tax taxonomy.Taxonomy) *Validator {
	return &Validator{tax: tax}
}

// Validate applies the full check sequence to every record in order and
// returns the first failure. A batch is only runnable if Validate returns
// nil; callers must treat any error as fatal for the whole batch.
func (v *Validator) Validate(txns []model.Transaction) error {
	for i := range txns {
		if err := v.validateOne(i, &txns[i]); err != nil {
			slog.Error("Transaction failed validation",
				"index", i,
				"notes", txns[i].Notes,
				"error", err)
			return err
		}
	}
	slog.Info("All transactions are valid", "count", len(txns))
	return nil
}

func (v *Validator) validateOne(i int, tx *model.Transaction) error {
	if tx.Account == "" {
		return &ValidationError{Index: i, Field: "account", Reason: "required field is empty"}
	}
	if tx.Category == "" {
		return &ValidationError{Index: i, Field: "category", Reason: "required field is empty"}
	}
	if tx.Amount <= 0 {
		return &ValidationError{Index: i, Field: "amount", Reason: fmt.Sprintf("must be a positive amount, got %v", tx.Amount)}
	}
	if tx.Date.IsZero() {
		return &ValidationError{Index: i, Field: "datetime", Reason: "required field is empty"}
	}

	switch tx.Type {
	case model.Income, model.Expense, model.Transfer:
	default:
		return &ValidationError{Index: i, Field: "type", Reason: fmt.Sprintf("%q is not one of %v", tx.Type, model.Types)}
	}

	if !v.tax.HasAccount(tx.Account) {
		return &ValidationError{Index: i, Field: "account", Reason: fmt.Sprintf("%q is not a known account", tx.Account)}
	}

	switch tx.Type {
	case model.Transfer:
		if !v.tax.HasAccount(tx.Category) {
			return &ValidationError{Index: i, Field: "category", Reason: fmt.Sprintf("transfer destination %q is not a known account", tx.Category)}
		}
		if tx.Category == tx.Account {
			return &ValidationError{Index: i, Field: "category", Reason: "transfer source and destination accounts must differ"}
		}
	case model.Income:
		if !v.tax.HasIncomeCategory(tx.Category) {
			return &ValidationError{Index: i, Field: "category", Reason: fmt.Sprintf("%q is not a known income category", tx.Category)}
		}
	case model.Expense:
		if !v.tax.HasExpenseCategory(tx.Category) {
			return &ValidationError{Index: i, Field: "category", Reason: fmt.Sprintf("%q is not a known expense category", tx.Category)}
		}
	}

	return nil
}

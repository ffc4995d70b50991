// Package model defines the core types shared across the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DatetimeLayout is the wire format used by the entry spreadsheet.
const DatetimeLayout = "2006-01-02 03:04 PM"

// Type identifies the kind of a transaction.
type Type string

// Recognized transaction types.
const (
	Income   Type = "Income"
	Expense  Type = "Expense"
	Transfer Type = "Transfer"
)

// Types lists every recognized transaction type.
var Types = []Type{Income, Expense, Transfer}

// ParseType normalizes a raw type string to one of the recognized types.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	case "transfer":
		return Transfer, nil
	}
	return "", fmt.Errorf("unrecognized transaction type %q", s)
}

// Status tracks whether a transaction has been entered into the app.
type Status string

// Recognized statuses.
const (
	StatusPending Status = "Pending"
	StatusAdded   Status = "Added"
)

// Transaction is a single record to be entered into the finance app.
// For Transfer transactions the Category field carries the destination
// account rather than a spending category.
type Transaction struct {
	Date     time.Time
	Type     Type
	Account  string
	Category string
	Notes    string
	Status   Status
	Amount   float64
	Row      int // 1-based source spreadsheet row, for status write-back
}

// AmountDigits returns the amount formatted for keypad entry, with any
// trailing ".0" removed so whole amounts type cleanly.
func (t *Transaction) AmountDigits() string {
	s := strconv.FormatFloat(t.Amount, 'f', -1, 64)
	return strings.TrimSuffix(s, ".0")
}

// FormatDatetime renders the transaction timestamp in the spreadsheet format.
func (t *Transaction) FormatDatetime() string {
	return t.Date.Format(DatetimeLayout)
}

// ParseDatetime parses a spreadsheet timestamp.
func ParseDatetime(s string) (time.Time, error) {
	ts, err := time.Parse(DatetimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	return ts, nil
}

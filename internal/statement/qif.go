package statement

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/athakur/ledgerhand/internal/model"
)

// Account names keyed by the masked account number HDFC puts in the
// statement filename.
var hdfcAccounts = map[string]string{
	"XX2562": "HDFC - UPI",
	"XX6642": "HDFC - Special Gold",
}

// UPI narrations carry the transaction time inline, e.g. "TXN TIME 21:02:47".
var txnTimeRegex = regexp.MustCompile(`M?TXN TIME (\d{2}:\d{2}:\d{2})`)

// ParseHDFCQIF parses an HDFC bank statement in QIF format. The account is
// inferred from the filename; files for unknown accounts are rejected so a
// renamed download never lands under the wrong account.
func ParseHDFCQIF(path string) ([]model.Transaction, error) {
	account := ""
	for masked, name := range hdfcAccounts {
		if strings.Contains(path, masked) {
			account = name
			break
		}
	}
	if account == "" {
		return nil, fmt.Errorf("cannot infer account from filename %q: expected one of %v", path, maskedAccountNumbers())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	blocks := strings.Split(strings.TrimSpace(strings.ReplaceAll(string(content), "\r\n", "\n")), "\n^\n")
	slog.Info("Found transaction blocks", "path", path, "count", len(blocks))

	rules := DefaultRules()
	var txns []model.Transaction
	for _, block := range blocks {
		tx, ok, err := parseQIFBlock(block, account, rules)
		if err != nil {
			slog.Warn("Skipping unparseable transaction block", "error", err)
			continue
		}
		if ok {
			txns = append(txns, tx)
		}
	}

	if len(txns) == 0 {
		return nil, fmt.Errorf("no valid transactions found in %s", path)
	}
	return txns, nil
}

// parseQIFBlock reads one ^-delimited record. Blocks that are not
// transactions (headers, trailing junk) return ok=false without error.
func parseQIFBlock(block, account string, rules []Rule) (model.Transaction, bool, error) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) == 0 {
		return model.Transaction{}, false, nil
	}
	if strings.TrimSpace(lines[0]) == "!Type:Bank" {
		lines = lines[1:]
	}
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "D") {
		return model.Transaction{}, false, nil
	}

	var (
		dateStr  string
		timeStr  = "00:00:00"
		amount   float64
		haveAmt  bool
		descPart []string
	)

	for _, line := range lines {
		if line == "" {
			continue
		}
		prefix, value := line[0], strings.TrimSpace(line[1:])
		switch prefix {
		case 'D':
			dateStr = value
		case 'T':
			amt, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
			if err != nil {
				return model.Transaction{}, false, fmt.Errorf("amount %q is not numeric", value)
			}
			amount, haveAmt = amt, true
		case 'N':
			// Cheque or reference number, not needed for entry.
		case 'P', 'M':
			if m := txnTimeRegex.FindStringSubmatch(line); m != nil {
				timeStr = m[1]
				if cleaned := strings.TrimSpace(txnTimeRegex.ReplaceAllString(line[1:], "")); cleaned != "" {
					descPart = append(descPart, cleaned)
				}
			} else if value != "" {
				descPart = append(descPart, value)
			}
		}
	}

	if dateStr == "" || !haveAmt {
		return model.Transaction{}, false, nil
	}

	date, err := time.Parse("02/01/06 15:04:05", dateStr+" "+timeStr)
	if err != nil {
		return model.Transaction{}, false, fmt.Errorf("date %q time %q: %w", dateStr, timeStr, err)
	}

	kind := model.Income
	if amount < 0 {
		kind = model.Expense
		amount = -amount
	}

	description := strings.TrimSpace(strings.Join(descPart, " "))
	category, notes, _ := applyRules(rules, description)
	if notes == "" {
		notes = description
	}

	return model.Transaction{
		Type:     kind,
		Account:  account,
		Category: category,
		Amount:   amount,
		Notes:    notes,
		Date:     date,
		Status:   model.StatusPending,
	}, true, nil
}

func maskedAccountNumbers() []string {
	out := make([]string, 0, len(hdfcAccounts))
	for masked := range hdfcAccounts {
		out = append(out, masked)
	}
	return out
}

package statement

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/athakur/ledgerhand/internal/model"
)

// ParseOFX parses an OFX/QFX statement export. Amount sign decides the
// transaction type; the account name is resolved from the statement's
// account number where possible, falling back to the raw number.
func ParseOFX(path string) ([]model.Transaction, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX file: %w", err)
	}

	rules := DefaultRules()
	var txns []model.Transaction

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		account := accountNameFor(string(stmt.BankAcctFrom.AcctID))
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txns = append(txns, convertOFXTransaction(ofxTx, account, rules))
		}
	}
	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		account := accountNameFor(string(stmt.CCAcctFrom.AcctID))
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txns = append(txns, convertOFXTransaction(ofxTx, account, rules))
		}
	}

	slog.Info("Parsed OFX statement", "path", path, "transactions", len(txns))
	if len(txns) == 0 {
		return nil, fmt.Errorf("no transactions found in %s", path)
	}
	return txns, nil
}

// preprocessOFX fixes the formatting quirks banks ship in SGML-style files:
// mixed-case severity values and opening tags missing their closing bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func convertOFXTransaction(ofxTx ofxgo.Transaction, account string, rules []Rule) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	kind := model.Income
	if amount < 0 {
		kind = model.Expense
		amount = -amount
	}

	description := merchantName(ofxTx)
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
		Date:     ofxTx.DtPosted.Time,
		Status:   model.StatusPending,
	}
}

// merchantName extracts a clean description from the OFX fields, preferring
// PAYEE, then NAME, with MEMO as the fallback for generic names.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// accountNameFor resolves the app's account name from a statement account
// number by its last four digits.
func accountNameFor(acctID string) string {
	for masked, name := range hdfcAccounts {
		if strings.HasSuffix(acctID, strings.TrimPrefix(masked, "XX")) {
			return name
		}
	}
	slog.Warn("No account mapping for statement account, using raw number", "account", acctID)
	return acctID
}

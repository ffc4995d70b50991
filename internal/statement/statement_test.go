package statement

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athakur/ledgerhand/internal/model"
)

func ofxTransaction(name, memo string) ofxgo.Transaction {
	return ofxgo.Transaction{Name: ofxgo.String(name), Memo: ofxgo.String(memo)}
}

const sampleQIF = `!Type:Bank
D25/07/25
T-250.75
N0000512345678901
PUPI-ELIOR INDIA PVT LTD-ELIORIN
MTXN TIME 13:02:47
^
D26/07/25
T50000.00
N0000512345678902
PNEFT CR-SALARY JUL
^
D27/07/25
T-89.00
PUPI-SOME UNKNOWN SHOP
MTXN TIME 09:15:00
^
`

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250801120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>INR
<BANKACCTFROM>
<BANKID>HDFC0000001
<ACCTID>50100222562
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250701120000[0:GMT]
<DTEND>20250731120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250715120000[0:GMT]
<TRNAMT>-45.00
<FITID>2025071501
<NAME>BMTC BUS PASS
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250720120000[0:GMT]
<TRNAMT>1500.00
<FITID>2025072001
<NAME>REFUND
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20250731120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func writeStatement(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseHDFCQIF(t *testing.T) {
	path := writeStatement(t, "Acct Statement_XX2562_01082025.qif", sampleQIF)

	txns, err := ParseHDFCQIF(path)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	// Debit, auto-categorized as Food, time lifted from the narration.
	tx1 := txns[0]
	assert.Equal(t, model.Expense, tx1.Type)
	assert.Equal(t, "HDFC - UPI", tx1.Account)
	assert.Equal(t, "Food", tx1.Category)
	assert.InDelta(t, 250.75, tx1.Amount, 0.001)
	assert.Equal(t, time.Date(2025, 7, 25, 13, 2, 47, 0, time.UTC), tx1.Date)
	assert.Contains(t, tx1.Notes, "ELIOR INDIA")
	assert.NotContains(t, tx1.Notes, "TXN TIME")
	assert.Equal(t, model.StatusPending, tx1.Status)

	// Credit with no inline time defaults to midnight.
	tx2 := txns[1]
	assert.Equal(t, model.Income, tx2.Type)
	assert.InDelta(t, 50000, tx2.Amount, 0.001)
	assert.Equal(t, time.Date(2025, 7, 26, 0, 0, 0, 0, time.UTC), tx2.Date)
	assert.Empty(t, tx2.Category)

	// Unknown merchant stays uncategorized for manual review.
	tx3 := txns[2]
	assert.Empty(t, tx3.Category)
	assert.Contains(t, tx3.Notes, "UNKNOWN SHOP")
}

func TestParseHDFCQIF_UnknownAccount(t *testing.T) {
	path := writeStatement(t, "statement.qif", sampleQIF)

	_, err := ParseHDFCQIF(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot infer account")
}

func TestParseHDFCQIF_SkipsMalformedBlocks(t *testing.T) {
	path := writeStatement(t, "XX6642.qif", "garbage header\n^\nD25/07/25\nT-10.00\nPSHOP\n^\n")

	txns, err := ParseHDFCQIF(path)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "HDFC - Special Gold", txns[0].Account)
}

func TestParseHDFCQIF_Empty(t *testing.T) {
	path := writeStatement(t, "XX2562.qif", "!Type:Bank\n^\n")

	_, err := ParseHDFCQIF(path)
	assert.ErrorContains(t, err, "no valid transactions")
}

func TestParseOFX(t *testing.T) {
	path := writeStatement(t, "export.ofx", sampleOFX)

	txns, err := ParseOFX(path)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	tx1 := txns[0]
	assert.Equal(t, model.Expense, tx1.Type)
	assert.Equal(t, "HDFC - UPI", tx1.Account, "account resolved from the last four digits")
	assert.Equal(t, "Transportation", tx1.Category)
	assert.InDelta(t, 45.00, tx1.Amount, 0.001)
	assert.Equal(t, 2025, tx1.Date.Year())
	assert.Equal(t, time.July, tx1.Date.Month())
	assert.Equal(t, 15, tx1.Date.Day())

	tx2 := txns[1]
	assert.Equal(t, model.Income, tx2.Type)
	assert.InDelta(t, 1500.00, tx2.Amount, 0.001)
	assert.Equal(t, "REFUND", tx2.Notes)
}

func TestParseOFX_Invalid(t *testing.T) {
	path := writeStatement(t, "export.ofx", "not valid OFX")

	_, err := ParseOFX(path)
	assert.Error(t, err)
}

func TestApplyRules(t *testing.T) {
	rules := []Rule{
		{Keywords: []string{"Elior India"}, Category: "Food", KeepNotes: true},
		{Keywords: []string{"Bus"}, Category: "Transportation"},
	}

	t.Run("first match wins", func(t *testing.T) {
		category, notes, ok := applyRules(rules, "UPI-ELIOR INDIA BUS STOP")
		assert.True(t, ok)
		assert.Equal(t, "Food", category)
		assert.Equal(t, "UPI-ELIOR INDIA BUS STOP", notes)
	})

	t.Run("notes dropped when not kept", func(t *testing.T) {
		category, notes, ok := applyRules(rules, "Bmtc Bus 500D")
		assert.True(t, ok)
		assert.Equal(t, "Transportation", category)
		assert.Empty(t, notes)
	})

	t.Run("no match", func(t *testing.T) {
		_, _, ok := applyRules(rules, "SOMETHING ELSE")
		assert.False(t, ok)
	})
}

func TestParserRegistry(t *testing.T) {
	p, err := GetParser("hdfc-qif")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = GetParser("mystery-bank")
	assert.ErrorContains(t, err, "unknown statement source")

	assert.Contains(t, AvailableSources(), "ofx")
}

func TestMerchantName(t *testing.T) {
	assert.Equal(t, "STARBUCKS", merchantName(ofxTransaction("STARBUCKS", "")))
	assert.Equal(t, "UPI-SWIGGY", merchantName(ofxTransaction("DEBIT", "UPI-SWIGGY")), "memo replaces a generic name")
	assert.Equal(t, "PURCHASE", merchantName(ofxTransaction("PURCHASE", "")))
}

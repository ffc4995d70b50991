package entry

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athakur/ledgerhand/internal/locator"
	"github.com/athakur/ledgerhand/internal/model"
	"github.com/athakur/ledgerhand/internal/profile"
)

type tapRecord struct {
	purpose string
	point   image.Point
}

type fakeConn struct {
	taps  []tapRecord
	typed []string
}

func (f *fakeConn) Tap(_ context.Context, p image.Point, purpose string) error {
	f.taps = append(f.taps, tapRecord{point: p, purpose: purpose})
	return nil
}

func (f *fakeConn) Swipe(_ context.Context, _, _ image.Point, _ time.Duration) error { return nil }

func (f *fakeConn) TypeText(_ context.Context, text string) error {
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeConn) PressKey(_ context.Context, _ int) error { return nil }

func (f *fakeConn) Screenshot(_ context.Context) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (f *fakeConn) ForegroundPackage(_ context.Context) (string, error) {
	return "com.raha.app.mymoney.pro", nil
}

func (f *fakeConn) Model(_ context.Context) (string, error) { return "RMX2151", nil }

func (f *fakeConn) purposes() []string {
	out := make([]string, len(f.taps))
	for i, tr := range f.taps {
		out[i] = tr.purpose
	}
	return out
}

type fakeSelector struct {
	failOn  map[string]error
	located []string
	screens []locator.Screen
}

func (f *fakeSelector) LocateAndSelect(_ context.Context, label string, screen locator.Screen, _ int) error {
	f.located = append(f.located, label)
	f.screens = append(f.screens, screen)
	if err, ok := f.failOn[label]; ok {
		return err
	}
	return nil
}

func testWorkflow(t *testing.T, conn *fakeConn, sel *fakeSelector) *Workflow {
	t.Helper()
	prof, err := profile.ForModel("RMX2151")
	require.NoError(t, err)
	prof.ShortDelay = 0
	prof.LongDelay = 0

	w := NewWorkflow(conn, sel, prof, 5)
	w.now = func() time.Time {
		return time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	}
	return w
}

func TestWorkflow_AddExpense(t *testing.T) {
	conn := &fakeConn{}
	sel := &fakeSelector{}
	w := testWorkflow(t, conn, sel)

	tx := model.Transaction{
		Type:     model.Expense,
		Account:  "Cash",
		Category: "Groceries",
		Amount:   654.78,
		Notes:    "weekly shop",
		Date:     time.Date(2025, 8, 2, 18, 30, 0, 0, time.UTC),
	}

	require.NoError(t, w.AddEntry(context.Background(), &tx))

	// Account then category, both truncated/untouched as appropriate.
	assert.Equal(t, []string{"Cash", "Groceries"}, sel.located)
	assert.Equal(t, []locator.Screen{locator.ScreenAccount, locator.ScreenCategory}, sel.screens)

	// Amount keypad taps: 6 5 4 . 7 8
	prof, _ := profile.ForModel("RMX2151")
	var keypadTaps []image.Point
	for _, tr := range conn.taps {
		if len(tr.purpose) > 6 && tr.purpose[:6] == "enter " {
			keypadTaps = append(keypadTaps, tr.point)
		}
	}
	want := []image.Point{
		prof.Keypad['6'], prof.Keypad['5'], prof.Keypad['4'],
		prof.Keypad['.'], prof.Keypad['7'], prof.Keypad['8'],
	}
	assert.Equal(t, want, keypadTaps)

	// 6:30 PM → PM selected, hour 06, minute 30 typed, then the notes.
	// The fake records the raw strings handed to the connection, before
	// any adb escaping.
	assert.Equal(t, []string{"06", "30", "weekly shop"}, conn.typed)

	// No income/transfer tab tap for an expense.
	assert.NotContains(t, conn.purposes(), "select income tab")
	assert.NotContains(t, conn.purposes(), "select transfer tab")
}

func TestWorkflow_IncomeSelectsTab(t *testing.T) {
	conn := &fakeConn{}
	sel := &fakeSelector{}
	w := testWorkflow(t, conn, sel)

	tx := model.Transaction{
		Type:     model.Income,
		Account:  "SBI Bank Account",
		Category: "Salary",
		Amount:   1200,
		Notes:    "august pay",
		Date:     time.Date(2025, 8, 1, 8, 30, 0, 0, time.UTC),
	}

	require.NoError(t, w.AddEntry(context.Background(), &tx))
	assert.Contains(t, conn.purposes(), "select income tab")
	assert.Equal(t, []string{"SBI Bank Account", "Salary"}, sel.located)
}

func TestWorkflow_TransferUsesRightAccountSlot(t *testing.T) {
	conn := &fakeConn{}
	sel := &fakeSelector{}
	w := testWorkflow(t, conn, sel)

	tx := model.Transaction{
		Type:     model.Transfer,
		Account:  "Cash",
		Category: "Fixed Deposit",
		Amount:   500,
		Notes:    "monthly saving",
		Date:     time.Date(2025, 8, 9, 19, 30, 0, 0, time.UTC),
	}

	require.NoError(t, w.AddEntry(context.Background(), &tx))
	assert.Contains(t, conn.purposes(), "select transfer tab")

	// Both selections are account screens; no category truncation applies.
	assert.Equal(t, []string{"Cash", "Fixed Deposit"}, sel.located)
	assert.Equal(t, []locator.Screen{locator.ScreenAccount, locator.ScreenAccount}, sel.screens)
}

func TestWorkflow_CategoryTruncatedToDisplayLimit(t *testing.T) {
	conn := &fakeConn{}
	sel := &fakeSelector{}
	w := testWorkflow(t, conn, sel)

	tx := model.Transaction{
		Type:     model.Expense,
		Account:  "Cash",
		Category: "Transportation", // 14 runes, limit is 10
		Amount:   50,
		Notes:    "bus",
		Date:     time.Date(2025, 8, 1, 8, 30, 0, 0, time.UTC),
	}

	require.NoError(t, w.AddEntry(context.Background(), &tx))
	assert.Equal(t, []string{"Cash", "Transporta"}, sel.located)
}

func TestWorkflow_AccountFailureAbortsBeforeCategory(t *testing.T) {
	conn := &fakeConn{}
	sel := &fakeSelector{
		failOn: map[string]error{"Cash": &locator.LocateError{Label: "Cash", Attempts: 5}},
	}
	w := testWorkflow(t, conn, sel)

	tx := model.Transaction{
		Type:     model.Expense,
		Account:  "Cash",
		Category: "Groceries",
		Amount:   10,
		Notes:    "x",
		Date:     time.Date(2025, 8, 1, 8, 30, 0, 0, time.UTC),
	}

	err := w.AddEntry(context.Background(), &tx)
	require.Error(t, err)

	var lerr *locator.LocateError
	assert.ErrorAs(t, err, &lerr)

	// Only the account was attempted; nothing was typed or saved.
	assert.Equal(t, []string{"Cash"}, sel.located)
	assert.Empty(t, conn.typed)
	assert.NotContains(t, conn.purposes(), "save entry")
}

func TestMonthDiff(t *testing.T) {
	tests := []struct {
		name    string
		current time.Time
		target  time.Time
		want    int
	}{
		{
			name:    "same month",
			current: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
			target:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			want:    0,
		},
		{
			name:    "next month",
			current: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
			target:  time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			want:    1,
		},
		{
			name:    "previous month",
			current: time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
			target:  time.Date(2025, 7, 25, 0, 0, 0, 0, time.UTC),
			want:    -1,
		},
		{
			name:    "across year boundary",
			current: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			target:  time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
			want:    -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monthDiff(tt.current, tt.target))
		})
	}
}

func TestDayGridPosition(t *testing.T) {
	tests := []struct {
		name    string
		month   time.Month
		year    int
		day     int
		wantRow int
		wantCol int
	}{
		// August 2025 starts on a Friday.
		{name: "aug 1 2025", year: 2025, month: time.August, day: 1, wantRow: 0, wantCol: 5},
		{name: "aug 2 2025", year: 2025, month: time.August, day: 2, wantRow: 0, wantCol: 6},
		{name: "aug 3 2025", year: 2025, month: time.August, day: 3, wantRow: 1, wantCol: 0},
		{name: "aug 25 2025", year: 2025, month: time.August, day: 25, wantRow: 4, wantCol: 1},
		{name: "aug 31 2025", year: 2025, month: time.August, day: 31, wantRow: 5, wantCol: 0},
		// June 2025 starts on a Sunday.
		{name: "jun 1 2025", year: 2025, month: time.June, day: 1, wantRow: 0, wantCol: 0},
		{name: "jun 30 2025", year: 2025, month: time.June, day: 30, wantRow: 4, wantCol: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := dayGridPosition(tt.year, tt.month, tt.day)
			assert.Equal(t, tt.wantRow, row, "row")
			assert.Equal(t, tt.wantCol, col, "col")
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Transporta", truncate("Transportation", 10))
	assert.Equal(t, "Food", truncate("Food", 10))
	assert.Equal(t, "Food", truncate("Food", 0))
}

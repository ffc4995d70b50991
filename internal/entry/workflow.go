// Package entry sequences the taps and typing that record one transaction
// in the finance app, and runs batches of them with fail-fast semantics.
package entry

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/athakur/ledgerhand/internal/device"
	"github.com/athakur/ledgerhand/internal/locator"
	"github.com/athakur/ledgerhand/internal/model"
	"github.com/athakur/ledgerhand/internal/profile"
)

// Selector locates a label on the open selection screen and taps it.
type Selector interface {
	LocateAndSelect(ctx context.Context, label string, screen locator.Screen, maxAttempts int) error
}

// Workflow drives the app through one complete entry: new entry → type tab
// → account → category/destination → amount → date → time → notes → save.
// Account and category selection can fail and abort the entry; the typed
// steps (amount, date, time, notes) are fire-and-forget with no screen
// verification.
type Workflow struct {
	conn        device.Conn
	selector    Selector
	now         func() time.Time
	prof        profile.Profile
	maxAttempts int
}

// NewWorkflow creates a workflow over a focus-guarded connection.
func NewWorkflow(conn device.Conn, selector Selector, prof profile.Profile, maxAttempts int) *Workflow {
	if maxAttempts <= 0 {
		maxAttempts = locator.DefaultMaxAttempts
	}
	return &Workflow{
		conn:        conn,
		selector:    selector,
		prof:        prof,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// AddEntry records one transaction. On failure the app may be left
// mid-entry; the caller should tell the operator that a manual cancel on
// the device may be required.
func (w *Workflow) AddEntry(ctx context.Context, tx *model.Transaction) error {
	started := w.now()
	slog.Info("Processing entry", "type", tx.Type, "notes", tx.Notes, "amount", tx.Amount)

	if err := w.openNewEntry(ctx, tx.Type); err != nil {
		return err
	}

	if err := w.selectAccount(ctx, tx.Account, w.prof.AccountLeft); err != nil {
		return fmt.Errorf("account selection failed: %w", err)
	}

	switch tx.Type {
	case model.Transfer:
		// The destination is an account picked in the right-hand slot.
		if err := w.selectAccount(ctx, tx.Category, w.prof.AccountRight); err != nil {
			return fmt.Errorf("destination selection failed: %w", err)
		}
	default:
		if err := w.selectCategory(ctx, tx.Category); err != nil {
			return fmt.Errorf("category selection failed: %w", err)
		}
	}

	if err := w.enterAmount(ctx, tx.AmountDigits()); err != nil {
		return err
	}
	if err := w.setDate(ctx, tx.Date); err != nil {
		return err
	}
	if err := w.setTime(ctx, tx.Date); err != nil {
		return err
	}
	if err := w.enterNotes(ctx, tx.Notes); err != nil {
		return err
	}

	if err := w.save(ctx); err != nil {
		return err
	}

	slog.Info("Entry added", "notes", tx.Notes, "elapsed", w.now().Sub(started))
	return nil
}

func (w *Workflow) openNewEntry(ctx context.Context, kind model.Type) error {
	if err := w.conn.Tap(ctx, w.prof.NewEntry, "initiate new entry"); err != nil {
		return err
	}
	if err := w.pause(ctx, w.prof.LongDelay); err != nil {
		return err
	}

	// The entry screen opens on the Expense tab.
	switch kind {
	case model.Income:
		return w.conn.Tap(ctx, w.prof.IncomeTab, "select income tab")
	case model.Transfer:
		return w.conn.Tap(ctx, w.prof.TransferTab, "select transfer tab")
	}
	return nil
}

func (w *Workflow) selectAccount(ctx context.Context, name string, slot image.Point) error {
	slog.Info("Selecting account", "account", name)
	if err := w.conn.Tap(ctx, slot, "open account list"); err != nil {
		return err
	}
	return w.selector.LocateAndSelect(ctx, name, locator.ScreenAccount, w.maxAttempts)
}

func (w *Workflow) selectCategory(ctx context.Context, name string) error {
	display := truncate(name, w.prof.CategoryNameLimit)
	slog.Info("Selecting category", "category", name, "display", display)
	if err := w.conn.Tap(ctx, w.prof.CategoryEntry, "open category list"); err != nil {
		return err
	}
	return w.selector.LocateAndSelect(ctx, display, locator.ScreenCategory, w.maxAttempts)
}

func (w *Workflow) enterAmount(ctx context.Context, digits string) error {
	slog.Info("Entering amount", "amount", digits)
	for i := 0; i < len(digits); i++ {
		p, ok := w.prof.Keypad[digits[i]]
		if !ok {
			continue
		}
		if err := w.conn.Tap(ctx, p, fmt.Sprintf("enter amount digit %q", string(digits[i]))); err != nil {
			return err
		}
	}
	return nil
}

// setDate drives the calendar dialog: arrow taps to reach the target month,
// then a tap on the computed grid cell for the day.
func (w *Workflow) setDate(ctx context.Context, target time.Time) error {
	slog.Info("Setting date", "date", target.Format("2006-01-02"))
	if err := w.conn.Tap(ctx, w.prof.DatePickerEntry, "open date picker"); err != nil {
		return err
	}

	// The picker opens on the current month.
	current := w.now()
	diff := monthDiff(current, target)
	for i := 0; i < diff; i++ {
		if err := w.conn.Tap(ctx, w.prof.DateNextMonth, "next month"); err != nil {
			return err
		}
	}
	for i := 0; i > diff; i-- {
		if err := w.conn.Tap(ctx, w.prof.DatePrevMonth, "previous month"); err != nil {
			return err
		}
	}

	row, col := dayGridPosition(target.Year(), target.Month(), target.Day())
	cell := image.Pt(w.prof.DateGridX[col], w.prof.DateGridY[row])
	if err := w.conn.Tap(ctx, cell, fmt.Sprintf("select day %d", target.Day())); err != nil {
		return err
	}

	return w.conn.Tap(ctx, w.prof.DateOK, "confirm date")
}

// setTime drives the clock dialog in its keyboard input mode, which is more
// reliable to automate than the clock face.
func (w *Workflow) setTime(ctx context.Context, target time.Time) error {
	slog.Info("Setting time", "time", target.Format("03:04 PM"))
	if err := w.conn.Tap(ctx, w.prof.TimePickerEntry, "open time picker"); err != nil {
		return err
	}
	if err := w.conn.Tap(ctx, w.prof.TimeKeypadMode, "switch to keypad mode"); err != nil {
		return err
	}

	meridiem := w.prof.TimeAM
	if target.Format("PM") == "PM" {
		meridiem = w.prof.TimePM
	}
	if err := w.conn.Tap(ctx, w.prof.TimeAMPM, "open AM/PM selector"); err != nil {
		return err
	}
	if err := w.conn.Tap(ctx, meridiem, "select meridiem"); err != nil {
		return err
	}

	if err := w.conn.Tap(ctx, w.prof.TimeHour, "focus hour field"); err != nil {
		return err
	}
	if err := w.conn.TypeText(ctx, target.Format("03")); err != nil {
		return err
	}

	if err := w.conn.Tap(ctx, w.prof.TimeMinute, "focus minute field"); err != nil {
		return err
	}
	if err := w.conn.TypeText(ctx, target.Format("04")); err != nil {
		return err
	}

	return w.conn.Tap(ctx, w.prof.TimeOK, "confirm time")
}

func (w *Workflow) enterNotes(ctx context.Context, notes string) error {
	slog.Info("Entering notes", "notes", notes)
	if err := w.conn.Tap(ctx, w.prof.NotesField, "focus notes field"); err != nil {
		return err
	}
	return w.conn.TypeText(ctx, notes)
}

func (w *Workflow) save(ctx context.Context) error {
	if err := w.conn.Tap(ctx, w.prof.SaveButton, "save entry"); err != nil {
		return err
	}
	return w.pause(ctx, w.prof.LongDelay)
}

func (w *Workflow) pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// monthDiff is the number of next-month taps (negative: previous-month)
// needed to reach target's month from current's.
func monthDiff(current, target time.Time) int {
	return (target.Year()-current.Year())*12 + int(target.Month()) - int(current.Month())
}

// dayGridPosition maps a day to its row and column in a Sunday-first
// calendar grid, matching the app's date picker layout.
func dayGridPosition(year int, month time.Month, day int) (row, col int) {
	firstWeekday := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	offset := firstWeekday + day - 1
	return offset / 7, offset % 7
}

// truncate shortens a label to the app's display limit, which clips long
// category names in the selection grid.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Package sheet reads and writes the xlsx workbook that feeds the entry
// batch: pending rows in, status updates back out.
package sheet

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/athakur/ledgerhand/internal/model"
)

// Column headers, matched case-insensitively.
var requiredColumns = []string{"type", "account", "category", "amount", "notes", "datetime", "status"}

// Source is an opened workbook with its header layout resolved, so statuses
// can be written back to the exact cells they came from.
type Source struct {
	columns   map[string]int // lowercase header → 0-based column index
	path      string
	sheetName string
	headerRow int // 0-based
}

// Open resolves the workbook's header layout. The first sheet is used.
func Open(path string) (*Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Could not close workbook", "path", path, "error", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in %s", path)
	}
	name := sheets[0]

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", name, err)
	}

	src := &Source{path: path, sheetName: name, headerRow: -1}
	for i, row := range rows {
		cols := headerColumns(row)
		if cols != nil {
			src.columns = cols
			src.headerRow = i
			break
		}
	}
	if src.headerRow < 0 {
		return nil, fmt.Errorf("no header row with columns %v found in %s", requiredColumns, path)
	}

	return src, nil
}

// headerColumns maps lowercase headers to column indices if the row carries
// every required column.
func headerColumns(row []string) map[string]int {
	cols := make(map[string]int, len(row))
	for i, cell := range row {
		cols[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	for _, want := range requiredColumns {
		if _, ok := cols[want]; !ok {
			return nil
		}
	}
	return cols
}

// LoadPending returns the transactions whose Status is Pending, in sheet
// order, each remembering its source row for the status write-back.
func (s *Source) LoadPending() ([]model.Transaction, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Could not close workbook", "path", s.path, "error", cerr)
		}
	}()

	rows, err := f.GetRows(s.sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", s.sheetName, err)
	}

	var txns []model.Transaction
	for i := s.headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}

		status := strings.TrimSpace(s.cell(row, "status"))
		if !strings.EqualFold(status, string(model.StatusPending)) {
			continue
		}

		tx, err := s.parseRow(row, i+1)
		if err != nil {
			return nil, err
		}
		txns = append(txns, tx)
	}

	slog.Info("Loaded pending transactions", "path", s.path, "count", len(txns))
	return txns, nil
}

func (s *Source) parseRow(row []string, rowNum int) (model.Transaction, error) {
	rawType := s.cell(row, "type")
	kind, err := model.ParseType(rawType)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("row %d: %w", rowNum, err)
	}

	rawAmount := strings.ReplaceAll(strings.TrimSpace(s.cell(row, "amount")), ",", "")
	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("row %d: amount %q is not numeric", rowNum, s.cell(row, "amount"))
	}

	date, err := model.ParseDatetime(s.cell(row, "datetime"))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("row %d: %w", rowNum, err)
	}

	notes := s.cell(row, "notes")
	if _, numErr := strconv.ParseFloat(strings.TrimSpace(notes), 64); numErr == nil && notes != "" {
		// Numeric cells arrive as strings; keep them but flag the oddity.
		slog.Warn("Notes field is numeric, using its text form", "row", rowNum, "notes", notes)
	}

	return model.Transaction{
		Type:     kind,
		Account:  strings.TrimSpace(s.cell(row, "account")),
		Category: strings.TrimSpace(s.cell(row, "category")),
		Amount:   amount,
		Notes:    notes,
		Date:     date,
		Status:   model.StatusPending,
		Row:      rowNum,
	}, nil
}

func (s *Source) cell(row []string, column string) string {
	idx := s.columns[column]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// SaveStatuses rewrites the Status cell of every transaction in place and
// saves the workbook. It is called even after a failed batch so progress
// already applied on the device is never lost.
func (s *Source) SaveStatuses(txns []model.Transaction) error {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("opening workbook for status update: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Could not close workbook", "path", s.path, "error", cerr)
		}
	}()

	statusCol := s.columns["status"]
	for i := range txns {
		tx := &txns[i]
		cellName, err := excelize.CoordinatesToCellName(statusCol+1, tx.Row)
		if err != nil {
			return fmt.Errorf("bad status cell for row %d: %w", tx.Row, err)
		}
		if err := f.SetCellValue(s.sheetName, cellName, string(tx.Status)); err != nil {
			return fmt.Errorf("updating status for row %d: %w", tx.Row, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	slog.Info("Saved statuses back to workbook", "path", s.path, "rows", len(txns))
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Write creates a new entry workbook with the standard columns, all rows
// marked Pending. Used by the statement converters.
func Write(path string, txns []model.Transaction) error {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("Could not close workbook", "path", path, "error", cerr)
		}
	}()

	sheetName := f.GetSheetName(0)
	header := []any{"Type", "Account", "Category", "Amount", "Notes", "Datetime", "Status"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range txns {
		tx := &txns[i]
		row := []any{
			string(tx.Type),
			tx.Account,
			tx.Category,
			tx.Amount,
			tx.Notes,
			tx.FormatDatetime(),
			string(model.StatusPending),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("bad cell for row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	slog.Info("Wrote entry workbook", "path", path, "rows", len(txns))
	return nil
}

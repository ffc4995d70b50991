package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/athakur/ledgerhand/internal/device"
	"github.com/athakur/ledgerhand/internal/model"
)

// Worker records a single transaction in the app.
type Worker interface {
	AddEntry(ctx context.Context, tx *model.Transaction) error
}

// Runner processes a validated batch strictly in order, stopping on the
// first failure so the operator can intervene on the device. Succeeded
// records are marked Added in place; the caller is responsible for flushing
// statuses back to the source even when Run returns an error.
type Runner struct {
	worker Worker
}

// NewRunner creates a batch runner.
func NewRunner(worker Worker) *Runner {
	return &Runner{worker: worker}
}

// Run enters each transaction and returns the number that succeeded. The
// returned error is the failure that stopped the batch, if any.
func (r *Runner) Run(ctx context.Context, txns []model.Transaction) (int, error) {
	bar := progressbar.NewOptions(len(txns),
		progressbar.OptionSetDescription("Entering transactions"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for i := range txns {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		tx := &txns[i]
		if err := r.worker.AddEntry(ctx, tx); err != nil {
			if errors.Is(err, device.ErrSafetyAbort) {
				return i, err
			}
			slog.Error("Stopping batch: entry failed; the app may be left mid-entry, a manual cancel on the device may be required",
				"index", i,
				"notes", tx.Notes,
				"error", err)
			return i, fmt.Errorf("transaction %d (%s): %w", i, tx.Notes, err)
		}

		tx.Status = model.StatusAdded
		slog.Info("Marked transaction as added", "index", i, "notes", tx.Notes)
		_ = bar.Add(1)
	}

	return len(txns), nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/athakur/ledgerhand/internal/cli"
	"github.com/athakur/ledgerhand/internal/config"
	"github.com/athakur/ledgerhand/internal/entry"
	"github.com/athakur/ledgerhand/internal/ledger"
	"github.com/athakur/ledgerhand/internal/locator"
	"github.com/athakur/ledgerhand/internal/ocr"
	"github.com/athakur/ledgerhand/internal/uicache"
)

const countdownSeconds = 5

func runCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "run <workbook.xlsx>",
		Short: "Enter all pending transactions from a workbook into the app",
		Long: `Loads the Pending rows from the workbook, validates them, shows the
net effect per account, and after confirmation taps each entry into the
app on the connected device. Statuses are written back to the workbook,
including after a partial run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := config.LoadAutomation()
			if err != nil {
				return err
			}

			src, txns, err := loadValidated(args[0])
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No pending transactions, nothing to do."))
				return nil
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Net effect of %d pending transactions", len(txns))))
			fmt.Fprintln(out, ledger.Summarize(txns).Render())

			if !yes {
				ok, err := cli.Confirm(ctx, cmd.InOrStdin(), out, "Proceed with entry on the device?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatWarning("Aborted, nothing entered."))
					return nil
				}
			}

			guard, prof, deviceModel, err := connectDevice(ctx, cfg)
			if err != nil {
				return err
			}

			cache := uicache.New(cfg.CacheFile(deviceModel))
			cache.Load()

			engine, err := ocr.NewTesseract(cfg.TesseractPath)
			if err != nil {
				return err
			}

			loc := locator.New(guard, ocr.NewScanner(engine), cache, prof)
			workflow := entry.NewWorkflow(guard, loc, prof, cfg.MaxLocateAttempts)

			fmt.Fprintln(out, cli.FormatInfo(cli.PhoneIcon+" Unlock the device and open the app."))
			if err := cli.Countdown(ctx, out, countdownSeconds); err != nil {
				return err
			}

			added, runErr := entry.NewRunner(workflow).Run(ctx, txns)

			// Flush statuses even after a failed batch so device-side progress
			// is never re-entered on the next run.
			if err := src.SaveStatuses(txns); err != nil {
				slog.Error("Could not write statuses back", "error", err)
				if runErr == nil {
					return err
				}
			}

			if runErr != nil {
				fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("Stopped after %d of %d entries.", added, len(txns))))
				fmt.Fprintln(out, cli.SubtleStyle.Render("Check the device: the app may be left mid-entry."))
				return runErr
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Entered %d transactions.", added)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

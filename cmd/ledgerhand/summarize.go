package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/athakur/ledgerhand/internal/cli"
	"github.com/athakur/ledgerhand/internal/ledger"
)

func summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <workbook.xlsx>",
		Short: "Show the net effect per account of the pending transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, txns, err := loadValidated(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No pending transactions found."))
				return nil
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Net effect of %d pending transactions", len(txns))))
			fmt.Fprintln(out, ledger.Summarize(txns).Render())
			return nil
		},
	}
}

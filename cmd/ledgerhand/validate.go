package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/athakur/ledgerhand/internal/cli"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workbook.xlsx>",
		Short: "Check the pending rows against the app's accounts and categories",
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
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d pending transactions are valid.", len(txns))))
			return nil
		},
	}
}

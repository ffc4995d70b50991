package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/athakur/ledgerhand/internal/cli"
	"github.com/athakur/ledgerhand/internal/config"
	"github.com/athakur/ledgerhand/internal/sheet"
	"github.com/athakur/ledgerhand/internal/statement"
)

func convertCmd() *cobra.Command {
	var (
		source string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert <statement-file>",
		Short: "Convert a bank statement into an entry workbook",
		Long: fmt.Sprintf(`Parses a downloaded bank statement and writes an entry workbook with
every transaction marked Pending. Categories are filled in for known
merchants; review the rest before running the batch.

Available sources: %s`, strings.Join(statement.AvailableSources(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := statement.GetParser(source)
			if err != nil {
				return err
			}

			in := config.ExpandPath(args[0])
			txns, err := parser.Parse(in)
			if err != nil {
				return err
			}

			if output == "" {
				ext := filepath.Ext(in)
				output = strings.TrimSuffix(in, ext) + "_processed.xlsx"
			}

			if err := sheet.Write(config.ExpandPath(output), txns); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(),
				cli.FormatSuccess(fmt.Sprintf("Converted %d transactions to %s.", len(txns), output)))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "hdfc-qif", "statement format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output workbook path (default: alongside the input)")
	return cmd
}

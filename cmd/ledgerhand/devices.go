package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/athakur/ledgerhand/internal/cli"
	"github.com/athakur/ledgerhand/internal/config"
	"github.com/athakur/ledgerhand/internal/device"
	"github.com/athakur/ledgerhand/internal/profile"
)

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List connected devices and the supported models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAutomation()
			if err != nil {
				return err
			}

			adb, err := device.NewADB(cfg.ADBPath)
			if err != nil {
				return err
			}

			serials, err := adb.Devices(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(serials) == 0 {
				fmt.Fprintln(out, cli.FormatWarning("No devices connected."))
			}
			for _, serial := range serials {
				fmt.Fprintln(out, cli.FormatInfo(cli.PhoneIcon+" "+serial))
			}

			fmt.Fprintln(out, cli.SubtleStyle.Render("Supported models: "+strings.Join(profile.Models(), ", ")))
			return nil
		},
	}
}

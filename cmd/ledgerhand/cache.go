package main

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/athakur/ledgerhand/internal/cli"
	"github.com/athakur/ledgerhand/internal/config"
	"github.com/athakur/ledgerhand/internal/uicache"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the learned label locations",
		Long: `The locator remembers where each account and category label was found
on screen, per device model. After changing the app's accounts or
categories, clear the affected labels so they are re-discovered.`,
	}

	cmd.AddCommand(cacheListCmd())
	cmd.AddCommand(cacheClearCmd())
	return cmd
}

// cacheForModel opens the cache file for the configured or flagged model,
// falling back to asking the connected device.
func cacheForModel(cmd *cobra.Command, deviceModel string) (*uicache.Cache, string, error) {
	cfg, err := config.LoadAutomation()
	if err != nil {
		return nil, "", err
	}

	if deviceModel == "" {
		deviceModel = cfg.Model
	}
	if deviceModel == "" {
		_, _, detected, err := connectDevice(cmd.Context(), cfg)
		if err != nil {
			return nil, "", fmt.Errorf("no device model given and none detected: %w", err)
		}
		deviceModel = detected
	}

	cache := uicache.New(cfg.CacheFile(deviceModel))
	cache.Load()
	return cache, deviceModel, nil
}

func cacheListCmd() *cobra.Command {
	var deviceModel string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cached label locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, resolved, err := cacheForModel(cmd, deviceModel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			labels := cache.Labels()
			if len(labels) == 0 {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No cached locations for %s.", resolved)))
				return nil
			}

			names := make([]string, 0, len(labels))
			for name := range labels {
				names = append(names, name)
			}
			sort.Strings(names)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Label", "Swipes", "X", "Y"})
			for _, name := range names {
				e := labels[name]
				t.AppendRow(table.Row{name, e.Swipes, e.Coords[0], e.Coords[1]})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&deviceModel, "model", "", "device model (default: configured or detected)")
	return cmd
}

func cacheClearCmd() *cobra.Command {
	var deviceModel string

	cmd := &cobra.Command{
		Use:   "clear [label]",
		Short: "Forget all cached locations, or a single label",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, resolved, err := cacheForModel(cmd, deviceModel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				cache.Delete(args[0])
				if err := cache.Save(); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Forgot %q for %s.", args[0], resolved)))
				return nil
			}

			cache.Clear()
			if err := cache.Save(); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Cleared all cached locations for %s.", resolved)))
			return nil
		},
	}

	cmd.Flags().StringVar(&deviceModel, "model", "", "device model (default: configured or detected)")
	return cmd
}
